package events_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Jakababa94/kenya-liga-hub/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	})

	It("delivers async events to every subscriber and drains on Close", func() {
		var calls int32
		for i := 0; i < 3; i++ {
			bus.Subscribe(events.EventTypePaymentCompleted, func(ctx context.Context, e events.Event) error {
				atomic.AddInt32(&calls, 1)
				return nil
			})
		}

		ctx, cancel := context.WithCancel(context.Background())
		event := events.NewPaymentCompletedEvent("pay-1", "reg-1", "ws_CO_1", "QKX1", 1500)
		Expect(bus.Publish(ctx, event)).To(Succeed())
		cancel()

		Expect(bus.Close(context.Background())).To(Succeed())
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(3)))
	})

	It("runs handlers with a context that outlives the request", func() {
		seen := make(chan error, 1)
		bus.Subscribe(events.EventTypePaymentFailed, func(ctx context.Context, e events.Event) error {
			time.Sleep(10 * time.Millisecond)
			seen <- ctx.Err()
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		Expect(bus.Publish(ctx, events.NewPaymentFailedEvent("pay-1", "reg-1", "ws_CO_1", "1032", "Request cancelled by user"))).To(Succeed())
		cancel()

		Eventually(seen).Should(Receive(BeNil()))
	})

	It("ignores events nobody subscribed to", func() {
		Expect(bus.Publish(context.Background(), events.NewRegistrationReviewedEvent("r", "t", "team", "approved", "u"))).To(Succeed())
	})

	It("surfaces handler errors and panics from PublishSync", func() {
		bus.Subscribe(events.EventTypeRegistrationReviewed, func(ctx context.Context, e events.Event) error {
			return errors.New("boom")
		})
		err := bus.PublishSync(context.Background(), events.NewRegistrationReviewedEvent("r", "t", "team", "approved", "u"))
		Expect(err).To(MatchError(ContainSubstring("boom")))

		bus.Subscribe(events.EventTypePaymentCompleted, func(ctx context.Context, e events.Event) error {
			panic("nil map")
		})
		err = bus.PublishSync(context.Background(), events.NewPaymentCompletedEvent("p", "r", "c", "x", 1))
		Expect(err).To(MatchError(ContainSubstring("handler panic")))
	})

	It("gives up waiting when the close deadline passes", func() {
		release := make(chan struct{})
		bus.Subscribe(events.EventTypePaymentCompleted, func(ctx context.Context, e events.Event) error {
			<-release
			return nil
		})
		Expect(bus.Publish(context.Background(), events.NewPaymentCompletedEvent("p", "r", "c", "x", 1))).To(Succeed())

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		Expect(bus.Close(ctx)).To(MatchError(context.DeadlineExceeded))
		close(release)
	})
})

package registration

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jakababa94/kenya-liga-hub/internal/core/events"
)

type EventHandler struct {
	logger *slog.Logger
}

func NewEventHandler(logger *slog.Logger) *EventHandler {
	return &EventHandler{logger: logger}
}

// HandlePaymentCompleted records approvals that happened through a successful M-Pesa payment.
func (h *EventHandler) HandlePaymentCompleted(_ context.Context, event events.Event) error {
	e, ok := event.(*events.PaymentCompletedEvent)
	if !ok {
		return fmt.Errorf("expected PaymentCompletedEvent, got %T", event)
	}
	h.logger.Info("registration approved by payment",
		"registration_id", e.RegistrationID,
		"payment_id", e.PaymentID,
		"event_id", e.EventID())
	return nil
}

func (h *EventHandler) HandleRegistrationReviewed(_ context.Context, event events.Event) error {
	e, ok := event.(*events.RegistrationReviewedEvent)
	if !ok {
		return fmt.Errorf("expected RegistrationReviewedEvent, got %T", event)
	}
	h.logger.Info("registration reviewed",
		"registration_id", e.RegistrationID,
		"tournament_id", e.TournamentID,
		"team_id", e.TeamID,
		"status", e.Status,
		"reviewed_by", e.ReviewedBy)
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypePaymentCompleted, h.HandlePaymentCompleted)
	eventBus.Subscribe(events.EventTypeRegistrationReviewed, h.HandleRegistrationReviewed)
}

package tournament_test

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	"github.com/Jakababa94/kenya-liga-hub/internal/auth"
	tournamentdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/tournament"
	"github.com/Jakababa94/kenya-liga-hub/internal/tournament"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestTournament(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Tournament Module Suite")
}

type mockRepository struct {
	rows       map[string]*tournamentdm.Tournament
	order      []string
	lastFilter tournament.ListFilter
	closedAt   time.Time
}

func newMockRepository() *mockRepository {
	return &mockRepository{rows: map[string]*tournamentdm.Tournament{}}
}

func (m *mockRepository) List(_ context.Context, f tournament.ListFilter) ([]tournamentdm.Tournament, error) {
	m.lastFilter = f
	out := make([]tournamentdm.Tournament, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.rows[id])
	}
	return out, nil
}

func (m *mockRepository) ListByOrganizer(_ context.Context, organizerID string) ([]tournamentdm.Tournament, error) {
	var out []tournamentdm.Tournament
	for _, id := range m.order {
		if m.rows[id].OrganizerID == organizerID {
			out = append(out, *m.rows[id])
		}
	}
	return out, nil
}

func (m *mockRepository) GetByID(_ context.Context, id string) (*tournamentdm.Tournament, error) {
	t, ok := m.rows[id]
	if !ok {
		return nil, tournament.ErrTournamentNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockRepository) Create(_ context.Context, t *tournamentdm.Tournament) error {
	cp := *t
	m.rows[t.ID] = &cp
	m.order = append(m.order, t.ID)
	return nil
}

func (m *mockRepository) UpdateStatus(_ context.Context, id, from, to string) (bool, error) {
	t := m.rows[id]
	if t == nil || t.Status != from {
		return false, nil
	}
	t.Status = to
	return true, nil
}

func (m *mockRepository) CloseRegistrationsBefore(_ context.Context, deadline time.Time) (int64, error) {
	m.closedAt = deadline
	return 2, nil
}

func validRequest() tournament.CreateTournamentRequest {
	start := time.Date(2026, 12, 5, 9, 0, 0, 0, time.UTC)
	return tournament.CreateTournamentRequest{
		Name:                 "Nairobi Super Cup",
		Region:               "nairobi",
		Venue:                "Kasarani Stadium",
		Category:             "open",
		StartDate:            start,
		EndDate:              start.AddDate(0, 0, 7),
		RegistrationDeadline: start.AddDate(0, 0, -14),
		EntryFee:             5000,
	}
}

var _ = Describe("CanTransition", func() {
	DescribeTable("lifecycle steps",
		func(from, to string, allowed bool) {
			Expect(tournament.CanTransition(from, to)).To(Equal(allowed))
		},
		Entry("draft to published", tournamentdm.StatusDraft, tournamentdm.StatusPublished, true),
		Entry("published to registration_open", tournamentdm.StatusPublished, tournamentdm.StatusRegistrationOpen, true),
		Entry("registration_open to registration_closed", tournamentdm.StatusRegistrationOpen, tournamentdm.StatusRegistrationClosed, true),
		Entry("registration_closed to ongoing", tournamentdm.StatusRegistrationClosed, tournamentdm.StatusOngoing, true),
		Entry("ongoing to completed", tournamentdm.StatusOngoing, tournamentdm.StatusCompleted, true),
		Entry("draft to ongoing skips steps", tournamentdm.StatusDraft, tournamentdm.StatusOngoing, false),
		Entry("published back to draft", tournamentdm.StatusPublished, tournamentdm.StatusDraft, false),
		Entry("ongoing to cancelled", tournamentdm.StatusOngoing, tournamentdm.StatusCancelled, true),
		Entry("draft to cancelled", tournamentdm.StatusDraft, tournamentdm.StatusCancelled, true),
		Entry("completed to cancelled", tournamentdm.StatusCompleted, tournamentdm.StatusCancelled, false),
		Entry("cancelled to draft", tournamentdm.StatusCancelled, tournamentdm.StatusDraft, false),
	)
})

var _ = Describe("Service", func() {
	var (
		repo      *mockRepository
		service   *tournament.Service
		ctx       context.Context
		organizer *auth.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = newMockRepository()
		service = tournament.NewService(repo, slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
		organizer = &auth.User{ID: "organizer-1", Roles: []string{auth.RoleOrganizer}}
	})

	Describe("Create", func() {
		It("creates a draft in KES with a slug", func() {
			t, err := service.Create(ctx, organizer, validRequest())
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Status).To(Equal(tournamentdm.StatusDraft))
			Expect(t.Currency).To(Equal("KES"))
			Expect(t.Slug).To(HavePrefix("nairobi-super-cup-"))
			Expect(t.OrganizerID).To(Equal("organizer-1"))
		})

		It("refuses callers without the organizer role", func() {
			_, err := service.Create(ctx, &auth.User{ID: "fan", Roles: []string{auth.RolePublic}}, validRequest())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeForbidden))
		})

		It("collects every invalid field", func() {
			// Given
			req := validRequest()
			req.Region = "atlantis"
			req.EndDate = req.StartDate.AddDate(0, 0, -1)
			req.RegistrationDeadline = req.StartDate.AddDate(0, 0, 1)
			req.EntryFee = -1
			req.MinTeams = intPtr(8)
			req.MaxTeams = intPtr(4)

			// When
			_, err := service.Create(ctx, organizer, req)

			// Then
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			fields := []string{}
			for _, e := range appErr.Details.(internal.ValidationErrors).Errors {
				fields = append(fields, e.Field)
			}
			Expect(fields).To(ConsistOf("region", "end_date", "registration_deadline", "entry_fee", "max_teams"))
			Expect(repo.rows).To(BeEmpty())
		})
	})

	Describe("UpdateStatus", func() {
		var id string

		BeforeEach(func() {
			t, err := service.Create(ctx, organizer, validRequest())
			Expect(err).NotTo(HaveOccurred())
			id = t.ID
		})

		It("walks the lifecycle", func() {
			for _, next := range []string{tournamentdm.StatusPublished, tournamentdm.StatusRegistrationOpen} {
				t, err := service.UpdateStatus(ctx, organizer, id, tournament.UpdateStatusRequest{Status: next})
				Expect(err).NotTo(HaveOccurred())
				Expect(t.Status).To(Equal(next))
			}
		})

		It("rejects skipping steps", func() {
			_, err := service.UpdateStatus(ctx, organizer, id, tournament.UpdateStatusRequest{Status: tournamentdm.StatusOngoing})
			Expect(errors.Is(err, tournament.ErrInvalidTransition)).To(BeTrue())
		})

		It("only lets the organizer or a super admin change status", func() {
			_, err := service.UpdateStatus(ctx, &auth.User{ID: "other", Roles: []string{auth.RoleOrganizer}}, id,
				tournament.UpdateStatusRequest{Status: tournamentdm.StatusPublished})
			Expect(errors.Is(err, tournament.ErrNotOrganizer)).To(BeTrue())

			_, err = service.UpdateStatus(ctx, &auth.User{ID: "root", Roles: []string{auth.RoleSuperAdmin}}, id,
				tournament.UpdateStatusRequest{Status: tournamentdm.StatusCancelled})
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects unknown statuses", func() {
			_, err := service.UpdateStatus(ctx, organizer, id, tournament.UpdateStatusRequest{Status: "paused"})
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, tournament.ErrInvalidTransition)).To(BeFalse())
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			for _, name := range []string{"Nairobi Super Cup", "Coast Veterans League", "Rift Valley Women's Open"} {
				req := validRequest()
				req.Name = name
				_, err := service.Create(ctx, organizer, req)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("passes exact filters to storage and keeps its order", func() {
			filter := tournament.ParseListFilter(url.Values{"status": {"draft, published"}, "region": {"coast"}})
			out, err := service.List(ctx, filter)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(HaveLen(3))
			Expect(repo.lastFilter.Statuses).To(Equal([]string{"draft", "published"}))
			Expect(repo.lastFilter.Region).To(Equal("coast"))
		})

		It("matches names fuzzily on q", func() {
			out, err := service.List(ctx, tournament.ListFilter{Query: "vetrns"})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(HaveLen(1))
			Expect(out[0].Name).To(Equal("Coast Veterans League"))
		})
	})

	Describe("Mine", func() {
		It("returns only what the caller organizes", func() {
			_, err := service.Create(ctx, organizer, validRequest())
			Expect(err).NotTo(HaveOccurred())
			other := &auth.User{ID: "someone-else", Roles: []string{auth.RoleOrganizer}}
			_, err = service.Create(ctx, other, validRequest())
			Expect(err).NotTo(HaveOccurred())

			out, err := service.Mine(ctx, organizer)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(HaveLen(1))
			Expect(out[0].OrganizerID).To(Equal(organizer.ID))
		})

		It("returns an empty list, not null, for new organizers", func() {
			out, err := service.Mine(ctx, &auth.User{ID: "fresh"})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).NotTo(BeNil())
			Expect(out).To(BeEmpty())
		})

		It("requires a caller", func() {
			_, err := service.Mine(ctx, nil)
			Expect(errors.Is(err, internal.ErrUnauthenticated)).To(BeTrue())
		})
	})

	It("closes registrations whose deadline has passed", func() {
		n, err := service.CloseExpiredRegistrations(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(2)))
		Expect(repo.closedAt).NotTo(BeZero())
	})
})

func intPtr(n int) *int { return &n }

package registration

import (
	"context"
	"errors"
	"net/http"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	"github.com/Jakababa94/kenya-liga-hub/internal/auth"
	registrationdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/registration"
	tournamentdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/tournament"
	"github.com/Jakababa94/kenya-liga-hub/internal/core/events"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

const (
	teamID       = "11111111-0000-0000-0000-000000000001"
	tournamentID = "22222222-0000-0000-0000-000000000001"
)

type mockRepository struct {
	rows      map[string]*registrationdm.Registration
	captains  map[string]string
	createErr error
	memberOf  map[string][]MemberRegistration
	listed    int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		rows:     map[string]*registrationdm.Registration{},
		captains: map[string]string{teamID: "captain"},
	}
}

func (m *mockRepository) Create(_ context.Context, r *registrationdm.Registration) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.rows {
		if existing.TeamID == r.TeamID && existing.TournamentID == r.TournamentID {
			return ErrAlreadyRegistered
		}
	}
	cp := *r
	m.rows[r.ID] = &cp
	return nil
}

func (m *mockRepository) GetByID(_ context.Context, id string) (*registrationdm.Registration, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, ErrRegistrationNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockRepository) ListByTournament(_ context.Context, tid string) ([]registrationdm.Registration, error) {
	m.listed++
	var out []registrationdm.Registration
	for _, r := range m.rows {
		if r.TournamentID == tid {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockRepository) ListByMember(_ context.Context, userID string) ([]MemberRegistration, error) {
	return m.memberOf[userID], nil
}

func (m *mockRepository) TransitionStatus(_ context.Context, id string, c StatusChange) (bool, error) {
	r, ok := m.rows[id]
	if !ok {
		return false, nil
	}
	for _, from := range c.From {
		if r.Status == from {
			r.Status = c.To
			r.ReviewedBy = c.ReviewedBy
			r.ReviewedAt = c.ReviewedAt
			r.Notes = c.Notes
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) TeamCaptain(_ context.Context, id string) (string, error) {
	c, ok := m.captains[id]
	if !ok {
		return "", ErrTeamNotFound
	}
	return c, nil
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.events = append(p.events, e)
	return nil
}

var _ = ginkgo.Describe("Service", func() {
	var (
		repo      *mockRepository
		reader    *fakeReader
		publisher *recordingPublisher
		service   *Service
		ctx       context.Context
		captain   *auth.User
		organizer *auth.User
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		repo = newMockRepository()
		reader = newFakeReader()
		reader.tournaments[tournamentID] = &TournamentSnapshot{
			ID:                tournamentID,
			Status:            tournamentdm.StatusRegistrationOpen,
			OrganizerID:       "organizer",
			MinPlayersPerTeam: intPtr(7),
		}
		reader.members[teamID] = 9
		publisher = &recordingPublisher{}
		service = NewService(repo, reader, publisher, testLogger())
		captain = &auth.User{ID: "captain", Roles: []string{auth.RoleTeamAdmin}}
		organizer = &auth.User{ID: "organizer", Roles: []string{auth.RoleOrganizer}}
	})

	register := func() (*Registration, error) {
		return service.Register(ctx, captain, tournamentID, RegisterRequest{TeamID: teamID})
	}

	ginkgo.Describe("Register", func() {
		ginkgo.It("creates a pending registration", func() {
			reg, err := register()
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(reg.Status).To(gomega.Equal(registrationdm.StatusPending))
			gomega.Expect(reg.RegisteredAt).ToNot(gomega.BeZero())
			gomega.Expect(repo.rows).To(gomega.HaveLen(1))
		})

		ginkgo.It("reports a second attempt as already registered", func() {
			_, err := register()
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = register()
			gomega.Expect(errors.Is(err, ErrAlreadyRegistered)).To(gomega.BeTrue())
			appErr, _ := internal.IsAppError(err)
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(http.StatusConflict))
			gomega.Expect(repo.rows).To(gomega.HaveLen(1))
		})

		ginkgo.It("returns business violations as a 400 with details", func() {
			reader.members[teamID] = 5

			_, err := register()

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(http.StatusBadRequest))
			details := appErr.Details.(internal.ValidationErrors)
			gomega.Expect(details.Errors).To(gomega.HaveLen(1))
			gomega.Expect(details.Errors[0].Message).To(gomega.Equal("Team must have at least 7 players. Currently has 5."))
			gomega.Expect(repo.rows).To(gomega.BeEmpty())
		})

		ginkgo.It("returns infrastructure failures as a 500", func() {
			reader.countErr = errors.New("timeout")

			_, err := register()

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(http.StatusInternalServerError))
			gomega.Expect(appErr.Message).To(gomega.Equal("Failed to validate team requirements"))
		})

		ginkgo.It("only lets the captain register the team", func() {
			_, err := service.Register(ctx, &auth.User{ID: "someone-else"}, tournamentID, RegisterRequest{TeamID: teamID})
			gomega.Expect(errors.Is(err, ErrNotTeamCaptain)).To(gomega.BeTrue())
		})

		ginkgo.It("requires a caller", func() {
			_, err := service.Register(ctx, nil, tournamentID, RegisterRequest{TeamID: teamID})
			gomega.Expect(errors.Is(err, internal.ErrUnauthenticated)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("List", func() {
		ginkgo.It("shows the organizer every registration", func() {
			_, _ = register()
			regs, err := service.List(ctx, organizer, tournamentID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(regs).To(gomega.HaveLen(1))
		})

		ginkgo.It("refuses callers who do not organize the tournament", func() {
			_, _ = register()
			_, err := service.List(ctx, captain, tournamentID)
			gomega.Expect(errors.Is(err, ErrNotOrganizer)).To(gomega.BeTrue())
			gomega.Expect(repo.listed).To(gomega.BeZero())
		})

		ginkgo.It("lets super admins list any tournament", func() {
			admin := &auth.User{ID: "root", Roles: []string{auth.RoleSuperAdmin}}
			_, err := service.List(ctx, admin, tournamentID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("reports unknown tournaments as not found", func() {
			_, err := service.List(ctx, organizer, "22222222-0000-0000-0000-000000000099")
			gomega.Expect(errors.Is(err, ErrTournamentNotFound)).To(gomega.BeTrue())
		})

		ginkgo.It("requires a caller", func() {
			_, err := service.List(ctx, nil, tournamentID)
			gomega.Expect(errors.Is(err, internal.ErrUnauthenticated)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("Mine", func() {
		ginkgo.It("returns the caller's team registrations", func() {
			repo.memberOf = map[string][]MemberRegistration{
				"captain": {{Registration: &Registration{ID: "r-1", TeamID: teamID}, Team: TeamSummary{ID: teamID, Name: "Mathare Stars"}}},
			}
			regs, err := service.Mine(ctx, captain)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(regs).To(gomega.HaveLen(1))
			gomega.Expect(regs[0].Team.Name).To(gomega.Equal("Mathare Stars"))
		})

		ginkgo.It("returns an empty list for callers without teams", func() {
			regs, err := service.Mine(ctx, organizer)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(regs).ToNot(gomega.BeNil())
			gomega.Expect(regs).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("Withdraw", func() {
		ginkgo.It("withdraws a pending registration once", func() {
			reg, err := register()
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			out, err := service.Withdraw(ctx, captain, reg.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(out.Status).To(gomega.Equal(registrationdm.StatusWithdrawn))

			_, err = service.Withdraw(ctx, captain, reg.ID)
			gomega.Expect(errors.Is(err, ErrInvalidStatus)).To(gomega.BeTrue())
		})

		ginkgo.It("returns not found for unknown ids", func() {
			_, err := service.Withdraw(ctx, captain, "nope")
			gomega.Expect(errors.Is(err, ErrRegistrationNotFound)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("Review", func() {
		ginkgo.It("lets the organizer approve and publishes the review", func() {
			reg, _ := register()
			notes := "Welcome aboard"

			out, err := service.Review(ctx, organizer, reg.ID, ReviewRequest{Status: registrationdm.StatusApproved, Notes: &notes})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(out.Status).To(gomega.Equal(registrationdm.StatusApproved))
			gomega.Expect(*out.ReviewedBy).To(gomega.Equal("organizer"))
			gomega.Expect(out.ReviewedAt).ToNot(gomega.BeNil())
			gomega.Expect(*out.Notes).To(gomega.Equal("Welcome aboard"))
			gomega.Expect(publisher.events).To(gomega.HaveLen(1))
			gomega.Expect(publisher.events[0].EventType()).To(gomega.Equal(events.EventTypeRegistrationReviewed))
		})

		ginkgo.It("refuses reviewers who do not organize the tournament", func() {
			reg, _ := register()
			_, err := service.Review(ctx, captain, reg.ID, ReviewRequest{Status: registrationdm.StatusApproved})
			gomega.Expect(errors.Is(err, ErrNotOrganizer)).To(gomega.BeTrue())
		})

		ginkgo.It("lets super admins review any tournament", func() {
			reg, _ := register()
			admin := &auth.User{ID: "root", Roles: []string{auth.RoleSuperAdmin}}
			_, err := service.Review(ctx, admin, reg.ID, ReviewRequest{Status: registrationdm.StatusRejected})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("only reviews pending registrations", func() {
			reg, _ := register()
			_, err := service.Review(ctx, organizer, reg.ID, ReviewRequest{Status: registrationdm.StatusRejected})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Review(ctx, organizer, reg.ID, ReviewRequest{Status: registrationdm.StatusApproved})
			gomega.Expect(errors.Is(err, ErrInvalidStatus)).To(gomega.BeTrue())
			gomega.Expect(publisher.events).To(gomega.HaveLen(1))
		})

		ginkgo.It("rejects statuses other than approved or rejected", func() {
			reg, _ := register()
			_, err := service.Review(ctx, organizer, reg.ID, ReviewRequest{Status: registrationdm.StatusWithdrawn})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("status must be one of"))
		})
	})
})

package tournament

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	"github.com/Jakababa94/kenya-liga-hub/internal/auth"
	tournamentdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/tournament"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

type RepositoryAPI interface {
	// List applies the exact filters and orders by start_date ascending.
	List(ctx context.Context, filter ListFilter) ([]tournamentdm.Tournament, error)
	// ListByOrganizer orders by start_date descending.
	ListByOrganizer(ctx context.Context, organizerID string) ([]tournamentdm.Tournament, error)
	GetByID(ctx context.Context, id string) (*tournamentdm.Tournament, error)
	Create(ctx context.Context, t *tournamentdm.Tournament) error
	UpdateStatus(ctx context.Context, id, from, to string) (bool, error)
	CloseRegistrationsBefore(ctx context.Context, deadline time.Time) (int64, error)
}

type ServiceAPI interface {
	List(ctx context.Context, filter ListFilter) ([]*Tournament, error)
	Mine(ctx context.Context, caller *auth.User) ([]*Tournament, error)
	Get(ctx context.Context, id string) (*Tournament, error)
	Create(ctx context.Context, caller *auth.User, req CreateTournamentRequest) (*Tournament, error)
	UpdateStatus(ctx context.Context, caller *auth.User, id string, req UpdateStatusRequest) (*Tournament, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Tournament, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}

	out := make([]*Tournament, 0, len(rows))
	for i := range rows {
		if filter.Query != "" && !fuzzy.MatchNormalizedFold(filter.Query, rows[i].Name) {
			continue
		}
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

// Mine lists the tournaments the caller organizes, latest first.
func (s *Service) Mine(ctx context.Context, caller *auth.User) ([]*Tournament, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}
	rows, err := s.repo.ListByOrganizer(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	out := make([]*Tournament, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Tournament, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(t), nil
}

func (s *Service) Create(ctx context.Context, caller *auth.User, req CreateTournamentRequest) (*Tournament, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}
	if !caller.IsSuperAdmin() && !caller.HasRole(auth.RoleOrganizer) {
		return nil, internal.NewForbiddenError("Only organizers can create tournaments", internal.ErrCodeForbidden)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	now := s.now()
	id := uuid.NewString()
	t := &tournamentdm.Tournament{
		ID:                   id,
		Slug:                 slug.Make(req.Name) + "-" + id[:8],
		Name:                 strings.TrimSpace(req.Name),
		Description:          req.Description,
		Region:               req.Region,
		Venue:                strings.TrimSpace(req.Venue),
		Category:             req.Category,
		Status:               tournamentdm.StatusDraft,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		RegistrationDeadline: req.RegistrationDeadline,
		EntryFee:             req.EntryFee,
		Currency:             currency,
		MaxTeams:             req.MaxTeams,
		MinTeams:             req.MinTeams,
		MinPlayersPerTeam:    req.MinPlayersPerTeam,
		MaxPlayersPerTeam:    req.MaxPlayersPerTeam,
		OrganizerID:          caller.ID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.logger.Info("tournament created", "tournament_id", id, "slug", t.Slug, "organizer_id", caller.ID)
	return FromModel(t), nil
}

func (s *Service) UpdateStatus(ctx context.Context, caller *auth.User, id string, req UpdateStatusRequest) (*Tournament, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.OrganizerID != caller.ID && !caller.IsSuperAdmin() {
		return nil, ErrNotOrganizer
	}
	if !CanTransition(t.Status, req.Status) {
		return nil, ErrInvalidTransition.WithDetails(map[string]string{"from": t.Status, "to": req.Status})
	}

	ok, err := s.repo.UpdateStatus(ctx, id, t.Status, req.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to update tournament status: %w", err)
	}
	if !ok {
		// status moved underneath us
		return nil, ErrInvalidTransition
	}

	s.logger.Info("tournament status changed",
		"tournament_id", id,
		"from", t.Status,
		"to", req.Status,
		"user_id", caller.ID)
	return s.Get(ctx, id)
}

// CloseExpiredRegistrations moves open tournaments whose deadline has passed to registration_closed.
func (s *Service) CloseExpiredRegistrations(ctx context.Context) (int64, error) {
	n, err := s.repo.CloseRegistrationsBefore(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to close registrations: %w", err)
	}
	if n > 0 {
		s.logger.Info("closed expired registrations", "count", n)
	}
	return n, nil
}

func (s *Service) load(ctx context.Context, id string) (*tournamentdm.Tournament, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	return t, nil
}

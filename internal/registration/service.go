package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	"github.com/Jakababa94/kenya-liga-hub/internal/auth"
	registrationdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/registration"
	"github.com/Jakababa94/kenya-liga-hub/internal/core/events"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	Create(ctx context.Context, r *registrationdm.Registration) error
	GetByID(ctx context.Context, id string) (*registrationdm.Registration, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]registrationdm.Registration, error)
	// ListByMember returns registrations of every team the user captains or plays for, newest first.
	ListByMember(ctx context.Context, userID string) ([]MemberRegistration, error)
	TransitionStatus(ctx context.Context, id string, change StatusChange) (bool, error)
	TeamCaptain(ctx context.Context, teamID string) (string, error)
}

type ServiceAPI interface {
	Eligibility(ctx context.Context, teamID, tournamentID string) Result
	Register(ctx context.Context, caller *auth.User, tournamentID string, req RegisterRequest) (*Registration, error)
	List(ctx context.Context, caller *auth.User, tournamentID string) ([]*Registration, error)
	Mine(ctx context.Context, caller *auth.User) ([]MemberRegistration, error)
	Withdraw(ctx context.Context, caller *auth.User, registrationID string) (*Registration, error)
	Review(ctx context.Context, caller *auth.User, registrationID string, req ReviewRequest) (*Registration, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      RepositoryAPI
	reader    EligibilityReader
	validator *Validator
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, reader EligibilityReader, publisher Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		reader:    reader,
		validator: NewValidator(reader, logger),
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) Eligibility(ctx context.Context, teamID, tournamentID string) Result {
	return s.validator.Validate(ctx, teamID, tournamentID)
}

func (s *Service) Register(ctx context.Context, caller *auth.User, tournamentID string, req RegisterRequest) (*Registration, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireCaptain(ctx, caller, req.TeamID); err != nil {
		return nil, err
	}

	result := s.validator.Validate(ctx, req.TeamID, tournamentID)
	if infraErr := result.InfrastructureError(); infraErr != nil {
		return nil, internal.NewInternalError(msgValidationInfraError, infraErr)
	}
	if !result.Valid {
		return nil, violationsError(result.Errors)
	}

	now := s.now()
	row := &registrationdm.Registration{
		ID:           uuid.NewString(),
		TeamID:       req.TeamID,
		TournamentID: tournamentID,
		Status:       registrationdm.StatusPending,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		if errors.Is(err, ErrAlreadyRegistered) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	s.logger.Info("team registered",
		"registration_id", row.ID,
		"team_id", row.TeamID,
		"tournament_id", tournamentID,
		"user_id", caller.ID)

	return FromModel(row), nil
}

// List is restricted to the tournament's organizer and super admins.
func (s *Service) List(ctx context.Context, caller *auth.User, tournamentID string) ([]*Registration, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}
	if err := s.requireOrganizer(ctx, caller, tournamentID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	out := make([]*Registration, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *Service) Mine(ctx context.Context, caller *auth.User) ([]MemberRegistration, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}
	rows, err := s.repo.ListByMember(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	if rows == nil {
		rows = []MemberRegistration{}
	}
	return rows, nil
}

// Withdraw frees the tournament slot the registration was holding.
func (s *Service) Withdraw(ctx context.Context, caller *auth.User, registrationID string) (*Registration, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}

	reg, err := s.get(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCaptain(ctx, caller, reg.TeamID); err != nil {
		return nil, err
	}

	change := StatusChange{
		From: []string{registrationdm.StatusPending, registrationdm.StatusApproved},
		To:   registrationdm.StatusWithdrawn,
	}
	if err := s.transition(ctx, registrationID, change); err != nil {
		return nil, err
	}

	s.logger.Info("registration withdrawn", "registration_id", registrationID, "user_id", caller.ID)
	return s.reload(ctx, registrationID)
}

func (s *Service) Review(ctx context.Context, caller *auth.User, registrationID string, req ReviewRequest) (*Registration, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	reg, err := s.get(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	if err := s.requireOrganizer(ctx, caller, reg.TournamentID); err != nil {
		return nil, err
	}

	now := s.now()
	reviewer := caller.ID
	change := StatusChange{
		From:       []string{registrationdm.StatusPending},
		To:         req.Status,
		ReviewedBy: &reviewer,
		ReviewedAt: &now,
		Notes:      req.Notes,
	}
	if err := s.transition(ctx, registrationID, change); err != nil {
		return nil, err
	}

	s.logger.Info("registration reviewed",
		"registration_id", registrationID,
		"status", req.Status,
		"reviewed_by", caller.ID)

	if s.publisher != nil {
		event := events.NewRegistrationReviewedEvent(reg.ID, reg.TournamentID, reg.TeamID, req.Status, caller.ID)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish registration reviewed event", "registration_id", reg.ID, "error", err)
		}
	}

	return s.reload(ctx, registrationID)
}

func (s *Service) requireOrganizer(ctx context.Context, caller *auth.User, tournamentID string) error {
	t, err := s.reader.Tournament(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to load tournament: %w", err)
	}
	if t.OrganizerID != caller.ID && !caller.IsSuperAdmin() {
		return ErrNotOrganizer
	}
	return nil
}

func (s *Service) requireCaptain(ctx context.Context, caller *auth.User, teamID string) error {
	captainID, err := s.repo.TeamCaptain(ctx, teamID)
	if err != nil {
		if errors.Is(err, ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to load team: %w", err)
	}
	if captainID != caller.ID && !caller.IsSuperAdmin() {
		return ErrNotTeamCaptain
	}
	return nil
}

func (s *Service) get(ctx context.Context, id string) (*registrationdm.Registration, error) {
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return reg, nil
}

func (s *Service) transition(ctx context.Context, id string, change StatusChange) error {
	ok, err := s.repo.TransitionStatus(ctx, id, change)
	if err != nil {
		return fmt.Errorf("failed to update registration: %w", err)
	}
	if !ok {
		return ErrInvalidStatus
	}
	return nil
}

func (s *Service) reload(ctx context.Context, id string) (*Registration, error) {
	reg, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(reg), nil
}

func violationsError(violations []string) error {
	details := internal.ValidationErrors{Errors: make([]internal.ValidationError, 0, len(violations))}
	for _, v := range violations {
		details.Errors = append(details.Errors, internal.ValidationError{
			Field:   "team_id",
			Message: v,
			Code:    string(internal.ErrCodeValidationFailed),
		})
	}
	return internal.NewValidationError("Team does not meet registration requirements", internal.ErrCodeValidationFailed).
		WithDetails(details)
}

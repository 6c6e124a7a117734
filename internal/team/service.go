package team

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	"github.com/Jakababa94/kenya-liga-hub/internal/auth"
	teamdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/team"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type RepositoryAPI interface {
	// CreateWithCaptain stores the team and its captain membership together.
	CreateWithCaptain(ctx context.Context, t *teamdm.Team, captain *teamdm.Member) error
	GetByID(ctx context.Context, id string) (*teamdm.Team, error)
	ListByMember(ctx context.Context, userID string) ([]teamdm.Team, error)
	AddMember(ctx context.Context, m *teamdm.Member) error
	RemoveMember(ctx context.Context, teamID, userID string) error
}

type ServiceAPI interface {
	Create(ctx context.Context, caller *auth.User, req CreateTeamRequest) (*Team, error)
	Get(ctx context.Context, id string) (*Team, error)
	Mine(ctx context.Context, caller *auth.User) ([]*Team, error)
	AddMember(ctx context.Context, caller *auth.User, teamID string, req AddMemberRequest) (*Team, error)
	RemoveMember(ctx context.Context, caller *auth.User, teamID, userID string) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) Create(ctx context.Context, caller *auth.User, req CreateTeamRequest) (*Team, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	id := uuid.NewString()
	t := &teamdm.Team{
		ID:        id,
		Slug:      uniqueSlug(req.Name, id),
		Name:      strings.TrimSpace(req.Name),
		LogoURL:   req.LogoURL,
		CaptainID: caller.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	captain := &teamdm.Member{
		ID:       uuid.NewString(),
		TeamID:   id,
		UserID:   caller.ID,
		Role:     teamdm.RoleCaptain,
		JoinedAt: now,
	}
	if err := s.repo.CreateWithCaptain(ctx, t, captain); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	s.logger.Info("team created", "team_id", id, "slug", t.Slug, "captain_id", caller.ID)
	t.Members = []teamdm.Member{*captain}
	return FromModel(t), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Team, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(t), nil
}

func (s *Service) Mine(ctx context.Context, caller *auth.User) ([]*Team, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}
	rows, err := s.repo.ListByMember(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	out := make([]*Team, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *Service) AddMember(ctx context.Context, caller *auth.User, teamID string, req AddMemberRequest) (*Team, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t, err := s.load(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := requireCaptain(caller, t); err != nil {
		return nil, err
	}

	m := &teamdm.Member{
		ID:           uuid.NewString(),
		TeamID:       teamID,
		UserID:       req.UserID,
		Role:         teamdm.RoleMember,
		JerseyNumber: req.JerseyNumber,
		Position:     req.Position,
		JoinedAt:     s.now(),
	}
	if err := s.repo.AddMember(ctx, m); err != nil {
		if errors.Is(err, ErrDuplicateMember) || errors.Is(err, ErrDuplicateJersey) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	s.logger.Info("team member added", "team_id", teamID, "user_id", req.UserID, "added_by", caller.ID)
	return s.Get(ctx, teamID)
}

func (s *Service) RemoveMember(ctx context.Context, caller *auth.User, teamID, userID string) error {
	if caller == nil {
		return internal.ErrUnauthenticated
	}

	t, err := s.load(ctx, teamID)
	if err != nil {
		return err
	}
	if err := requireCaptain(caller, t); err != nil {
		return err
	}
	if userID == t.CaptainID {
		return ErrCannotRemoveCaptain
	}

	if err := s.repo.RemoveMember(ctx, teamID, userID); err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}

	s.logger.Info("team member removed", "team_id", teamID, "user_id", userID, "removed_by", caller.ID)
	return nil
}

func (s *Service) load(ctx context.Context, id string) (*teamdm.Team, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return t, nil
}

func requireCaptain(caller *auth.User, t *teamdm.Team) error {
	if t.CaptainID != caller.ID && !caller.IsSuperAdmin() {
		return ErrNotCaptain
	}
	return nil
}

// uniqueSlug suffixes the name slug with the head of the id so similar names never collide.
func uniqueSlug(name, id string) string {
	return slug.Make(name) + "-" + id[:8]
}

package user

import (
	"context"
	"fmt"
	"log/slog"
)

type RepositoryAPI interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID string, changes ProfileChanges) error
}

type ServiceAPI interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID string, dto UpdateProfileDTO) (*Profile, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, dto UpdateProfileDTO) (*Profile, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	changes := dto.Changes()
	if !changes.Empty() {
		if err := s.repo.UpdateProfile(ctx, userID, changes); err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
		s.logger.Info("profile updated", "user_id", userID)
	}

	return s.GetProfile(ctx, userID)
}

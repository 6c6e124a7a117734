package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	"github.com/Jakababa94/kenya-liga-hub/internal/auth"
	paymentdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/payment"
)

type RepositoryAPI interface {
	InitiatorRepository
	CallbackRepository
	GetByID(ctx context.Context, id string) (*paymentdm.Payment, error)
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]paymentdm.Payment, error)
}

type ServiceAPI interface {
	List(ctx context.Context, caller *auth.User, filter ListFilter) ([]*Payment, error)
	Get(ctx context.Context, caller *auth.User, id string) (*Payment, error)
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

func (s *Service) List(ctx context.Context, caller *auth.User, filter ListFilter) ([]*Payment, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}

	rows, err := s.repo.ListByUser(ctx, caller.ID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	out := make([]*Payment, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

// Get hides other users' payments behind a 404.
func (s *Service) Get(ctx context.Context, caller *auth.User, id string) (*Payment, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if row.UserID != caller.ID && !caller.IsSuperAdmin() {
		return nil, ErrPaymentNotFound
	}
	return FromModel(row), nil
}


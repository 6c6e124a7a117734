package postgres

import (
	"context"
	"errors"

	"github.com/Jakababa94/kenya-liga-hub/internal/auth"
	"github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetCredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	var u user.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &auth.Credentials{
		UserID:       u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
	}, nil
}

func (r *Repository) GetUserWithRoles(ctx context.Context, userID string) (*auth.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", userID, true).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}

	var roles []string
	err = r.db.WithContext(ctx).
		Model(&user.UserRole{}).
		Where("user_id = ?", userID).
		Order("role").
		Pluck("role", &roles).Error
	if err != nil {
		return nil, err
	}

	return &auth.User{ID: u.ID, Email: u.Email, Roles: roles}, nil
}

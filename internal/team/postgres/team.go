package postgres

import (
	"context"
	"errors"

	teamdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/team"
	"github.com/Jakababa94/kenya-liga-hub/internal/team"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	uniqueViolation  = "23505"
	jerseyConstraint = "uq_team_jersey"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateWithCaptain(ctx context.Context, t *teamdm.Team, captain *teamdm.Member) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members").Create(t).Error; err != nil {
			return err
		}
		return tx.Create(captain).Error
	})
}

func (r *Repository) GetByID(ctx context.Context, id string) (*teamdm.Team, error) {
	var t teamdm.Team
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("joined_at ASC") }).
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, team.ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repository) ListByMember(ctx context.Context, userID string) ([]teamdm.Team, error) {
	var teams []teamdm.Team
	err := r.db.WithContext(ctx).
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("joined_at ASC") }).
		Where("id IN (?)", r.db.Model(&teamdm.Member{}).Select("team_id").Where("user_id = ?", userID)).
		Order("name ASC").
		Find(&teams).Error
	return teams, err
}

// AddMember checks both uniqueness rules up front so the caller gets the specific conflict.
// The unique indexes still decide concurrent inserts.
func (r *Repository) AddMember(ctx context.Context, m *teamdm.Member) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&teamdm.Member{}).
			Where("team_id = ? AND user_id = ?", m.TeamID, m.UserID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return team.ErrDuplicateMember
		}

		if m.JerseyNumber != nil {
			if err := tx.Model(&teamdm.Member{}).
				Where("team_id = ? AND jersey_number = ?", m.TeamID, *m.JerseyNumber).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return team.ErrDuplicateJersey
			}
		}

		return tx.Create(m).Error
	})
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == uniqueViolation:
		if pgErr.ConstraintName == jerseyConstraint {
			return team.ErrDuplicateJersey
		}
		return team.ErrDuplicateMember
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return team.ErrDuplicateMember
	}
	return err
}

func (r *Repository) RemoveMember(ctx context.Context, teamID, userID string) error {
	res := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&teamdm.Member{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return team.ErrMemberNotFound
	}
	return nil
}

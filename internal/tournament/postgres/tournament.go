package postgres

import (
	"context"
	"errors"
	"time"

	tournamentdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/tournament"
	"github.com/Jakababa94/kenya-liga-hub/internal/tournament"
	"gorm.io/gorm"
)

type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

func (r *Repository) List(ctx context.Context, filter tournament.ListFilter) ([]tournamentdm.Tournament, error) {
	q := r.db.WithContext(ctx).Model(&tournamentdm.Tournament{})
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if filter.Region != "" {
		q = q.Where("region = ?", filter.Region)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	var rows []tournamentdm.Tournament
	err := q.Order("start_date ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) ListByOrganizer(ctx context.Context, organizerID string) ([]tournamentdm.Tournament, error) {
	var rows []tournamentdm.Tournament
	err := r.db.WithContext(ctx).
		Where("organizer_id = ?", organizerID).
		Order("start_date DESC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) GetByID(ctx context.Context, id string) (*tournamentdm.Tournament, error) {
	var t tournamentdm.Tournament
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tournament.ErrTournamentNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repository) Create(ctx context.Context, t *tournamentdm.Tournament) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *Repository) UpdateStatus(ctx context.Context, id, from, to string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&tournamentdm.Tournament{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": r.now()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) CloseRegistrationsBefore(ctx context.Context, deadline time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&tournamentdm.Tournament{}).
		Where("status = ? AND registration_deadline < ?", tournamentdm.StatusRegistrationOpen, deadline).
		Updates(map[string]interface{}{"status": tournamentdm.StatusRegistrationClosed, "updated_at": r.now()})
	return res.RowsAffected, res.Error
}

package postgres

import (
	"context"
	"errors"
	"time"

	registrationdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/registration"
	teamdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/team"
	tournamentdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/tournament"
	"github.com/Jakababa94/kenya-liga-hub/internal/registration"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

// Create relies on uq_registration_team_tournament; concurrent duplicates lose at the database.
func (r *Repository) Create(ctx context.Context, reg *registrationdm.Registration) error {
	if err := r.db.WithContext(ctx).Create(reg).Error; err != nil {
		if isUniqueViolation(err) {
			return registration.ErrAlreadyRegistered
		}
		return err
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*registrationdm.Registration, error) {
	var reg registrationdm.Registration
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&reg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, registration.ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

func (r *Repository) ListByTournament(ctx context.Context, tournamentID string) ([]registrationdm.Registration, error) {
	var regs []registrationdm.Registration
	err := r.db.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("registered_at DESC").
		Find(&regs).Error
	return regs, err
}

func (r *Repository) ListByMember(ctx context.Context, userID string) ([]registration.MemberRegistration, error) {
	db := r.db.WithContext(ctx)

	var teamIDs []string
	if err := db.Model(&teamdm.Team{}).Where("captain_id = ?", userID).Pluck("id", &teamIDs).Error; err != nil {
		return nil, err
	}
	var joined []string
	if err := db.Model(&teamdm.Member{}).Where("user_id = ?", userID).Pluck("team_id", &joined).Error; err != nil {
		return nil, err
	}
	teamIDs = append(teamIDs, joined...)
	if len(teamIDs) == 0 {
		return nil, nil
	}

	var regs []registrationdm.Registration
	if err := db.Where("team_id IN ?", teamIDs).Order("registered_at DESC").Order("id").Find(&regs).Error; err != nil {
		return nil, err
	}
	if len(regs) == 0 {
		return nil, nil
	}

	tournamentIDs := make([]string, 0, len(regs))
	for _, reg := range regs {
		tournamentIDs = append(tournamentIDs, reg.TournamentID)
	}
	var tournaments []tournamentdm.Tournament
	if err := db.Where("id IN ?", tournamentIDs).Find(&tournaments).Error; err != nil {
		return nil, err
	}
	var teams []teamdm.Team
	if err := db.Where("id IN ?", teamIDs).Find(&teams).Error; err != nil {
		return nil, err
	}

	byTournament := make(map[string]*tournamentdm.Tournament, len(tournaments))
	for i := range tournaments {
		byTournament[tournaments[i].ID] = &tournaments[i]
	}
	byTeam := make(map[string]*teamdm.Team, len(teams))
	for i := range teams {
		byTeam[teams[i].ID] = &teams[i]
	}

	out := make([]registration.MemberRegistration, 0, len(regs))
	for i := range regs {
		mr := registration.MemberRegistration{Registration: registration.FromModel(&regs[i])}
		if t, ok := byTournament[regs[i].TournamentID]; ok {
			mr.Tournament = registration.TournamentSummary{
				ID: t.ID, Name: t.Name, StartDate: t.StartDate, EndDate: t.EndDate, Status: t.Status, Venue: t.Venue,
			}
		}
		if t, ok := byTeam[regs[i].TeamID]; ok {
			mr.Team = registration.TeamSummary{ID: t.ID, Name: t.Name, LogoURL: t.LogoURL}
		}
		out = append(out, mr)
	}
	return out, nil
}

func (r *Repository) TransitionStatus(ctx context.Context, id string, change registration.StatusChange) (bool, error) {
	updates := map[string]interface{}{
		"status":     change.To,
		"updated_at": r.now(),
	}
	if change.ReviewedBy != nil {
		updates["reviewed_by"] = *change.ReviewedBy
	}
	if change.ReviewedAt != nil {
		updates["reviewed_at"] = *change.ReviewedAt
	}
	if change.Notes != nil {
		updates["notes"] = *change.Notes
	}

	res := r.db.WithContext(ctx).
		Model(&registrationdm.Registration{}).
		Where("id = ? AND status IN ?", id, change.From).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) TeamCaptain(ctx context.Context, teamID string) (string, error) {
	var t teamdm.Team
	if err := r.db.WithContext(ctx).Select("id", "captain_id").Where("id = ?", teamID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", registration.ErrTeamNotFound
		}
		return "", err
	}
	return t.CaptainID, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

package postgres

import (
	"context"
	"errors"
	"time"

	matchdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/match"
	registrationdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/registration"
	teamdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/team"
	tournamentdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/tournament"
	"github.com/Jakababa94/kenya-liga-hub/internal/match"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var statisticCounters = []string{
	"team_id", "goals", "assists", "yellow_cards", "red_cards", "minutes_played",
	"shots_on_target", "shots_off_target", "saves", "fouls_committed", "fouls_suffered", "updated_at",
}

type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

func (r *Repository) TournamentOrganizer(ctx context.Context, tournamentID string) (string, error) {
	var t tournamentdm.Tournament
	if err := r.db.WithContext(ctx).Select("id", "organizer_id").Where("id = ?", tournamentID).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", match.ErrTournamentNotFound
		}
		return "", err
	}
	return t.OrganizerID, nil
}

func (r *Repository) Teams(ctx context.Context, ids []string) (map[string]match.TeamSummary, error) {
	var teams []teamdm.Team
	if err := r.db.WithContext(ctx).Select("id", "name", "logo_url").Where("id IN ?", ids).Find(&teams).Error; err != nil {
		return nil, err
	}
	out := make(map[string]match.TeamSummary, len(teams))
	for _, t := range teams {
		out[t.ID] = match.TeamSummary{ID: t.ID, Name: t.Name, LogoURL: t.LogoURL}
	}
	return out, nil
}

func (r *Repository) Create(ctx context.Context, m *matchdm.Match) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return r.rebuildStandings(tx, m.TournamentID)
	})
}

func (r *Repository) Update(ctx context.Context, m *matchdm.Match) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&matchdm.Match{}).Where("id = ?", m.ID).Updates(map[string]interface{}{
			"home_score":   m.HomeScore,
			"away_score":   m.AwayScore,
			"status":       m.Status,
			"venue":        m.Venue,
			"scheduled_at": m.ScheduledAt,
			"updated_at":   m.UpdatedAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return match.ErrMatchNotFound
		}
		return r.rebuildStandings(tx, m.TournamentID)
	})
}

// Delete drops the match's player statistics with it.
func (r *Repository) Delete(ctx context.Context, m *matchdm.Match) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("match_id = ?", m.ID).Delete(&matchdm.PlayerStatistic{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", m.ID).Delete(&matchdm.Match{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return match.ErrMatchNotFound
		}
		return r.rebuildStandings(tx, m.TournamentID)
	})
}

// rebuildStandings replaces the tournament's table with one computed from its current matches.
func (r *Repository) rebuildStandings(tx *gorm.DB, tournamentID string) error {
	var matches []matchdm.Match
	if err := tx.Where("tournament_id = ?", tournamentID).Find(&matches).Error; err != nil {
		return err
	}
	if err := tx.Where("tournament_id = ?", tournamentID).Delete(&matchdm.Standing{}).Error; err != nil {
		return err
	}
	rows := match.ComputeStandings(tournamentID, matches, r.now())
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func (r *Repository) GetByID(ctx context.Context, id string) (*matchdm.Match, error) {
	var m matchdm.Match
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, match.ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *Repository) ListByTournament(ctx context.Context, tournamentID string) ([]matchdm.Match, error) {
	var rows []matchdm.Match
	err := r.db.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("scheduled_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) Standings(ctx context.Context, tournamentID string) ([]matchdm.Standing, error) {
	var rows []matchdm.Standing
	err := r.db.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("points DESC").
		Order("goal_difference DESC").
		Order("goals_for DESC").
		Order("team_id ASC").
		Find(&rows).Error
	return rows, err
}

// UpsertStatistic keys on (match_id, player_id) and returns the stored row.
func (r *Repository) UpsertStatistic(ctx context.Context, s *matchdm.PlayerStatistic) (*matchdm.PlayerStatistic, error) {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "match_id"}, {Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns(statisticCounters),
	}).Create(s).Error
	if err != nil {
		return nil, err
	}

	var stored matchdm.PlayerStatistic
	if err := db.Where("match_id = ? AND player_id = ?", s.MatchID, s.PlayerID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *Repository) GetStatistic(ctx context.Context, id string) (*matchdm.PlayerStatistic, error) {
	var s matchdm.PlayerStatistic
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, match.ErrStatisticNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repository) DeleteStatistic(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&matchdm.PlayerStatistic{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return match.ErrStatisticNotFound
	}
	return nil
}

func (r *Repository) ListStatistics(ctx context.Context, matchID string) ([]matchdm.PlayerStatistic, error) {
	var rows []matchdm.PlayerStatistic
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("goals DESC").
		Order("assists DESC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) CareerStats(ctx context.Context, playerID string) (*match.CareerStats, error) {
	var out match.CareerStats
	err := r.db.WithContext(ctx).
		Model(&matchdm.PlayerStatistic{}).
		Select(`COUNT(*) AS matches_played,
			COALESCE(SUM(goals), 0) AS goals,
			COALESCE(SUM(assists), 0) AS assists,
			COALESCE(SUM(yellow_cards), 0) AS yellow_cards,
			COALESCE(SUM(red_cards), 0) AS red_cards,
			COALESCE(SUM(minutes_played), 0) AS minutes_played`).
		Where("player_id = ?", playerID).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UserTeamIDs returns the teams the user captains or is listed on, without duplicates.
func (r *Repository) UserTeamIDs(ctx context.Context, userID string) ([]string, error) {
	db := r.db.WithContext(ctx)

	var captained, joined []string
	if err := db.Model(&teamdm.Team{}).Where("captain_id = ?", userID).Pluck("id", &captained).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&teamdm.Member{}).Where("user_id = ?", userID).Pluck("team_id", &joined).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(captained)+len(joined))
	out := make([]string, 0, len(captained)+len(joined))
	for _, id := range append(captained, joined...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

func (r *Repository) StandingsForTeams(ctx context.Context, teamIDs []string) ([]matchdm.Standing, error) {
	var rows []matchdm.Standing
	err := r.db.WithContext(ctx).Where("team_id IN ?", teamIDs).Find(&rows).Error
	return rows, err
}

// ActiveTournamentCount counts distinct tournaments that are open or running
// and hold an approved registration for one of the teams.
func (r *Repository) ActiveTournamentCount(ctx context.Context, teamIDs []string) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&registrationdm.Registration{}).
		Joins("JOIN tournaments ON tournaments.id = tournament_registrations.tournament_id").
		Where("tournament_registrations.team_id IN ?", teamIDs).
		Where("tournament_registrations.status = ?", registrationdm.StatusApproved).
		Where("tournaments.status IN ?", []string{tournamentdm.StatusOngoing, tournamentdm.StatusRegistrationOpen}).
		Distinct("tournament_registrations.tournament_id").
		Count(&n).Error
	return int(n), err
}

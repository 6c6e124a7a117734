package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	"github.com/Jakababa94/kenya-liga-hub/internal/auth"
	matchdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/match"
	"github.com/google/uuid"
)

type RepositoryAPI interface {
	TournamentOrganizer(ctx context.Context, tournamentID string) (string, error)
	Teams(ctx context.Context, ids []string) (map[string]TeamSummary, error)

	// Create, Update and Delete rewrite the tournament's standings in the same transaction.
	Create(ctx context.Context, m *matchdm.Match) error
	Update(ctx context.Context, m *matchdm.Match) error
	Delete(ctx context.Context, m *matchdm.Match) error
	GetByID(ctx context.Context, id string) (*matchdm.Match, error)
	// ListByTournament orders by scheduled_at ascending.
	ListByTournament(ctx context.Context, tournamentID string) ([]matchdm.Match, error)
	// Standings returns the table already in ranking order.
	Standings(ctx context.Context, tournamentID string) ([]matchdm.Standing, error)

	UpsertStatistic(ctx context.Context, s *matchdm.PlayerStatistic) (*matchdm.PlayerStatistic, error)
	GetStatistic(ctx context.Context, id string) (*matchdm.PlayerStatistic, error)
	DeleteStatistic(ctx context.Context, id string) error
	// ListStatistics orders by goals descending.
	ListStatistics(ctx context.Context, matchID string) ([]matchdm.PlayerStatistic, error)
	CareerStats(ctx context.Context, playerID string) (*CareerStats, error)

	UserTeamIDs(ctx context.Context, userID string) ([]string, error)
	StandingsForTeams(ctx context.Context, teamIDs []string) ([]matchdm.Standing, error)
	ActiveTournamentCount(ctx context.Context, teamIDs []string) (int, error)
}

type ServiceAPI interface {
	Create(ctx context.Context, caller *auth.User, tournamentID string, req CreateMatchRequest) (*Match, error)
	Get(ctx context.Context, id string) (*Match, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]*Match, error)
	Update(ctx context.Context, caller *auth.User, id string, req UpdateMatchRequest) (*Match, error)
	Delete(ctx context.Context, caller *auth.User, id string) error
	Standings(ctx context.Context, tournamentID string) ([]Standing, error)
	UpsertStatistic(ctx context.Context, caller *auth.User, matchID string, req UpsertStatisticRequest) (*PlayerStatistic, error)
	ListStatistics(ctx context.Context, matchID string) ([]*PlayerStatistic, error)
	DeleteStatistic(ctx context.Context, caller *auth.User, matchID, statisticID string) error
	CareerStats(ctx context.Context, playerID string) (*CareerStats, error)
	UserStats(ctx context.Context, caller *auth.User) (*UserStats, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) Create(ctx context.Context, caller *auth.User, tournamentID string, req CreateMatchRequest) (*Match, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireOrganizer(ctx, caller, tournamentID); err != nil {
		return nil, err
	}

	teams, err := s.repo.Teams(ctx, []string{req.HomeTeamID, req.AwayTeamID})
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	for _, id := range []string{req.HomeTeamID, req.AwayTeamID} {
		if _, ok := teams[id]; !ok {
			return nil, ErrTeamNotFound.WithDetails(map[string]string{"team_id": id})
		}
	}

	now := s.now()
	m := &matchdm.Match{
		ID:           uuid.NewString(),
		TournamentID: tournamentID,
		HomeTeamID:   req.HomeTeamID,
		AwayTeamID:   req.AwayTeamID,
		ScheduledAt:  req.ScheduledAt,
		Status:       matchdm.StatusScheduled,
		Venue:        req.Venue,
		Round:        req.Round,
		MatchGroup:   req.MatchGroup,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	s.logger.Info("match created",
		"match_id", m.ID,
		"tournament_id", tournamentID,
		"home_team_id", m.HomeTeamID,
		"away_team_id", m.AwayTeamID,
		"user_id", caller.ID)
	return FromModel(m, teams), nil
}

func (s *Service) Get(ctx context.Context, id string) (*Match, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, m)
}

func (s *Service) ListByTournament(ctx context.Context, tournamentID string) ([]*Match, error) {
	rows, err := s.repo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	ids := make([]string, 0, 2*len(rows))
	for _, m := range rows {
		ids = append(ids, m.HomeTeamID, m.AwayTeamID)
	}
	teams, err := s.teams(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*Match, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i], teams))
	}
	return out, nil
}

// Update is open to the tournament's organizer, super admins and referees.
func (s *Service) Update(ctx context.Context, caller *auth.User, id string, req UpdateMatchRequest) (*Match, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOfficial(ctx, caller, m.TournamentID); err != nil {
		return nil, err
	}

	if req.HomeScore != nil {
		m.HomeScore = *req.HomeScore
	}
	if req.AwayScore != nil {
		m.AwayScore = *req.AwayScore
	}
	if req.Status != nil {
		m.Status = *req.Status
	}
	if req.Venue != nil {
		m.Venue = req.Venue
	}
	if req.ScheduledAt != nil {
		m.ScheduledAt = *req.ScheduledAt
	}
	m.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, m); err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to update match: %w", err)
	}

	s.logger.Info("match updated",
		"match_id", id,
		"status", m.Status,
		"home_score", m.HomeScore,
		"away_score", m.AwayScore,
		"user_id", caller.ID)
	return s.view(ctx, m)
}

func (s *Service) Delete(ctx context.Context, caller *auth.User, id string) error {
	if caller == nil {
		return internal.ErrUnauthenticated
	}

	m, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireOrganizer(ctx, caller, m.TournamentID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, m); err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to delete match: %w", err)
	}

	s.logger.Info("match deleted", "match_id", id, "tournament_id", m.TournamentID, "user_id", caller.ID)
	return nil
}

func (s *Service) Standings(ctx context.Context, tournamentID string) ([]Standing, error) {
	if _, err := s.organizerOf(ctx, tournamentID); err != nil {
		return nil, err
	}

	rows, err := s.repo.Standings(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load standings: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.TeamID)
	}
	teams, err := s.teams(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]Standing, 0, len(rows))
	for i, r := range rows {
		out = append(out, Standing{
			Position:       i + 1,
			Team:           summaryOf(teams, r.TeamID),
			Played:         r.Played,
			Won:            r.Won,
			Drawn:          r.Drawn,
			Lost:           r.Lost,
			GoalsFor:       r.GoalsFor,
			GoalsAgainst:   r.GoalsAgainst,
			GoalDifference: r.GoalDifference,
			Points:         r.Points,
		})
	}
	return out, nil
}

func (s *Service) UpsertStatistic(ctx context.Context, caller *auth.User, matchID string, req UpsertStatisticRequest) (*PlayerStatistic, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m, err := s.load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOfficial(ctx, caller, m.TournamentID); err != nil {
		return nil, err
	}
	if req.TeamID != m.HomeTeamID && req.TeamID != m.AwayTeamID {
		return nil, ErrTeamNotInMatch
	}

	now := s.now()
	stat, err := s.repo.UpsertStatistic(ctx, &matchdm.PlayerStatistic{
		ID:             uuid.NewString(),
		MatchID:        matchID,
		TeamID:         req.TeamID,
		PlayerID:       req.PlayerID,
		Goals:          req.Goals,
		Assists:        req.Assists,
		YellowCards:    req.YellowCards,
		RedCards:       req.RedCards,
		MinutesPlayed:  req.MinutesPlayed,
		ShotsOnTarget:  req.ShotsOnTarget,
		ShotsOffTarget: req.ShotsOffTarget,
		Saves:          req.Saves,
		FoulsCommitted: req.FoulsCommitted,
		FoulsSuffered:  req.FoulsSuffered,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save player statistic: %w", err)
	}

	s.logger.Info("player statistic recorded", "match_id", matchID, "player_id", req.PlayerID, "user_id", caller.ID)
	return StatisticFromModel(stat), nil
}

func (s *Service) ListStatistics(ctx context.Context, matchID string) ([]*PlayerStatistic, error) {
	if _, err := s.load(ctx, matchID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListStatistics(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list player statistics: %w", err)
	}
	out := make([]*PlayerStatistic, 0, len(rows))
	for i := range rows {
		out = append(out, StatisticFromModel(&rows[i]))
	}
	return out, nil
}

func (s *Service) DeleteStatistic(ctx context.Context, caller *auth.User, matchID, statisticID string) error {
	if caller == nil {
		return internal.ErrUnauthenticated
	}

	stat, err := s.repo.GetStatistic(ctx, statisticID)
	if err != nil {
		if errors.Is(err, ErrStatisticNotFound) {
			return ErrStatisticNotFound
		}
		return fmt.Errorf("failed to get player statistic: %w", err)
	}
	if stat.MatchID != matchID {
		return ErrStatisticNotFound
	}

	m, err := s.load(ctx, matchID)
	if err != nil {
		return err
	}
	if err := s.requireOfficial(ctx, caller, m.TournamentID); err != nil {
		return err
	}

	if err := s.repo.DeleteStatistic(ctx, statisticID); err != nil {
		if errors.Is(err, ErrStatisticNotFound) {
			return ErrStatisticNotFound
		}
		return fmt.Errorf("failed to delete player statistic: %w", err)
	}

	s.logger.Info("player statistic deleted", "statistic_id", statisticID, "match_id", matchID, "user_id", caller.ID)
	return nil
}

func (s *Service) CareerStats(ctx context.Context, playerID string) (*CareerStats, error) {
	stats, err := s.repo.CareerStats(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load career stats: %w", err)
	}
	stats.PlayerID = playerID
	return stats, nil
}

func (s *Service) UserStats(ctx context.Context, caller *auth.User) (*UserStats, error) {
	if caller == nil {
		return nil, internal.ErrUnauthenticated
	}

	teamIDs, err := s.repo.UserTeamIDs(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	stats := &UserStats{TotalTeams: len(teamIDs)}
	if len(teamIDs) == 0 {
		return stats, nil
	}

	rows, err := s.repo.StandingsForTeams(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load standings: %w", err)
	}
	for _, r := range rows {
		stats.TotalMatches += r.Played
		stats.Wins += r.Won
		stats.Draws += r.Drawn
		stats.Losses += r.Lost
		stats.GoalsScored += r.GoalsFor
		stats.GoalsConceded += r.GoalsAgainst
	}

	stats.ActiveTournaments, err = s.repo.ActiveTournamentCount(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count tournaments: %w", err)
	}
	return stats, nil
}

func (s *Service) organizerOf(ctx context.Context, tournamentID string) (string, error) {
	organizerID, err := s.repo.TournamentOrganizer(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, ErrTournamentNotFound) {
			return "", ErrTournamentNotFound
		}
		return "", fmt.Errorf("failed to load tournament: %w", err)
	}
	return organizerID, nil
}

func (s *Service) requireOrganizer(ctx context.Context, caller *auth.User, tournamentID string) error {
	organizerID, err := s.organizerOf(ctx, tournamentID)
	if err != nil {
		return err
	}
	if organizerID != caller.ID && !caller.IsSuperAdmin() {
		return ErrNotOrganizer
	}
	return nil
}

func (s *Service) requireOfficial(ctx context.Context, caller *auth.User, tournamentID string) error {
	if caller.HasRole(auth.RoleReferee) {
		return nil
	}
	if err := s.requireOrganizer(ctx, caller, tournamentID); err != nil {
		if errors.Is(err, ErrNotOrganizer) {
			return ErrNotOfficial
		}
		return err
	}
	return nil
}

func (s *Service) load(ctx context.Context, id string) (*matchdm.Match, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return m, nil
}

func (s *Service) teams(ctx context.Context, ids []string) (map[string]TeamSummary, error) {
	if len(ids) == 0 {
		return map[string]TeamSummary{}, nil
	}
	teams, err := s.repo.Teams(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}
	return teams, nil
}

func (s *Service) view(ctx context.Context, m *matchdm.Match) (*Match, error) {
	teams, err := s.teams(ctx, []string{m.HomeTeamID, m.AwayTeamID})
	if err != nil {
		return nil, err
	}
	return FromModel(m, teams), nil
}

package match

import (
	"time"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	matchdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/match"
)

var Statuses = []string{
	matchdm.StatusScheduled,
	matchdm.StatusLive,
	matchdm.StatusCompleted,
	matchdm.StatusPostponed,
	matchdm.StatusCancelled,
}

type TeamSummary struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	LogoURL *string `json:"logo_url,omitempty"`
}

type Match struct {
	ID           string      `json:"id"`
	TournamentID string      `json:"tournament_id"`
	HomeTeam     TeamSummary `json:"home_team"`
	AwayTeam     TeamSummary `json:"away_team"`
	ScheduledAt  time.Time   `json:"scheduled_at"`
	Status       string      `json:"status"`
	HomeScore    int         `json:"home_score"`
	AwayScore    int         `json:"away_score"`
	Venue        *string     `json:"venue,omitempty"`
	Round        *string     `json:"round,omitempty"`
	MatchGroup   *string     `json:"match_group,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// FromModel fills team names from teams; unknown ids keep only the id.
func FromModel(m *matchdm.Match, teams map[string]TeamSummary) *Match {
	if m == nil {
		return nil
	}
	return &Match{
		ID:           m.ID,
		TournamentID: m.TournamentID,
		HomeTeam:     summaryOf(teams, m.HomeTeamID),
		AwayTeam:     summaryOf(teams, m.AwayTeamID),
		ScheduledAt:  m.ScheduledAt,
		Status:       m.Status,
		HomeScore:    m.HomeScore,
		AwayScore:    m.AwayScore,
		Venue:        m.Venue,
		Round:        m.Round,
		MatchGroup:   m.MatchGroup,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type Standing struct {
	Position       int         `json:"position"`
	Team           TeamSummary `json:"team"`
	Played         int         `json:"played"`
	Won            int         `json:"won"`
	Drawn          int         `json:"drawn"`
	Lost           int         `json:"lost"`
	GoalsFor       int         `json:"goals_for"`
	GoalsAgainst   int         `json:"goals_against"`
	GoalDifference int         `json:"goal_difference"`
	Points         int         `json:"points"`
}

type PlayerStatistic struct {
	ID             string    `json:"id"`
	MatchID        string    `json:"match_id"`
	TeamID         string    `json:"team_id"`
	PlayerID       string    `json:"player_id"`
	Goals          int       `json:"goals"`
	Assists        int       `json:"assists"`
	YellowCards    int       `json:"yellow_cards"`
	RedCards       int       `json:"red_cards"`
	MinutesPlayed  int       `json:"minutes_played"`
	ShotsOnTarget  int       `json:"shots_on_target"`
	ShotsOffTarget int       `json:"shots_off_target"`
	Saves          int       `json:"saves"`
	FoulsCommitted int       `json:"fouls_committed"`
	FoulsSuffered  int       `json:"fouls_suffered"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func StatisticFromModel(m *matchdm.PlayerStatistic) *PlayerStatistic {
	if m == nil {
		return nil
	}
	return &PlayerStatistic{
		ID:             m.ID,
		MatchID:        m.MatchID,
		TeamID:         m.TeamID,
		PlayerID:       m.PlayerID,
		Goals:          m.Goals,
		Assists:        m.Assists,
		YellowCards:    m.YellowCards,
		RedCards:       m.RedCards,
		MinutesPlayed:  m.MinutesPlayed,
		ShotsOnTarget:  m.ShotsOnTarget,
		ShotsOffTarget: m.ShotsOffTarget,
		Saves:          m.Saves,
		FoulsCommitted: m.FoulsCommitted,
		FoulsSuffered:  m.FoulsSuffered,
		UpdatedAt:      m.UpdatedAt,
	}
}

// CareerStats totals a player's statistics over every match they have a line for.
type CareerStats struct {
	PlayerID      string `json:"player_id"`
	MatchesPlayed int    `json:"matches_played"`
	Goals         int    `json:"goals"`
	Assists       int    `json:"assists"`
	YellowCards   int    `json:"yellow_cards"`
	RedCards      int    `json:"red_cards"`
	MinutesPlayed int    `json:"minutes_played"`
}

// UserStats sums the standings of every team the user captains or plays for.
type UserStats struct {
	TotalMatches      int `json:"total_matches"`
	Wins              int `json:"wins"`
	Draws             int `json:"draws"`
	Losses            int `json:"losses"`
	GoalsScored       int `json:"goals_scored"`
	GoalsConceded     int `json:"goals_conceded"`
	TotalTeams        int `json:"total_teams"`
	ActiveTournaments int `json:"active_tournaments"`
}

func summaryOf(teams map[string]TeamSummary, id string) TeamSummary {
	if t, ok := teams[id]; ok {
		return t
	}
	return TeamSummary{ID: id}
}

var (
	ErrMatchNotFound      = internal.NewNotFoundError("Match not found", internal.ErrCodeMatchNotFound)
	ErrTournamentNotFound = internal.NewNotFoundError("Tournament not found", internal.ErrCodeTournamentNotFound)
	ErrTeamNotFound       = internal.NewNotFoundError("Team not found", internal.ErrCodeTeamNotFound)
	ErrStatisticNotFound  = internal.NewNotFoundError("Player statistic not found", internal.ErrCodeStatisticNotFound)
	ErrTeamNotInMatch     = internal.NewValidationError("Team did not play in this match", internal.ErrCodeTeamNotInMatch)
	ErrNotOrganizer       = internal.NewForbiddenError("Only the tournament organizer can manage its matches", internal.ErrCodeForbidden)
	ErrNotOfficial        = internal.NewForbiddenError("Only the tournament organizer or a referee can record results", internal.ErrCodeForbidden)
)

package match

import "time"

const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusCompleted = "completed"
	StatusPostponed = "postponed"
	StatusCancelled = "cancelled"
)

type Match struct {
	ID           string    `gorm:"column:id;type:uuid;primaryKey"`
	TournamentID string    `gorm:"column:tournament_id;type:uuid;not null;index"`
	HomeTeamID   string    `gorm:"column:home_team_id;type:uuid;not null"`
	AwayTeamID   string    `gorm:"column:away_team_id;type:uuid;not null"`
	ScheduledAt  time.Time `gorm:"column:scheduled_at;not null"`
	Status       string    `gorm:"column:status;not null;default:scheduled"`
	HomeScore    int       `gorm:"column:home_score;not null;default:0"`
	AwayScore    int       `gorm:"column:away_score;not null;default:0"`
	Venue        *string   `gorm:"column:venue"`
	Round        *string   `gorm:"column:round"`
	MatchGroup   *string   `gorm:"column:match_group"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (Match) TableName() string {
	return "matches"
}

// Standing is derived from completed matches and rewritten whenever one of them changes.
type Standing struct {
	TournamentID   string    `gorm:"column:tournament_id;type:uuid;primaryKey"`
	TeamID         string    `gorm:"column:team_id;type:uuid;primaryKey"`
	Played         int       `gorm:"column:played;not null;default:0"`
	Won            int       `gorm:"column:won;not null;default:0"`
	Drawn          int       `gorm:"column:drawn;not null;default:0"`
	Lost           int       `gorm:"column:lost;not null;default:0"`
	GoalsFor       int       `gorm:"column:goals_for;not null;default:0"`
	GoalsAgainst   int       `gorm:"column:goals_against;not null;default:0"`
	GoalDifference int       `gorm:"column:goal_difference;not null;default:0"`
	Points         int       `gorm:"column:points;not null;default:0"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (Standing) TableName() string {
	return "standings"
}

type PlayerStatistic struct {
	ID             string    `gorm:"column:id;type:uuid;primaryKey"`
	MatchID        string    `gorm:"column:match_id;type:uuid;not null;uniqueIndex:uq_player_statistic"`
	TeamID         string    `gorm:"column:team_id;type:uuid;not null"`
	PlayerID       string    `gorm:"column:player_id;type:uuid;not null;uniqueIndex:uq_player_statistic;index"`
	Goals          int       `gorm:"column:goals;not null;default:0"`
	Assists        int       `gorm:"column:assists;not null;default:0"`
	YellowCards    int       `gorm:"column:yellow_cards;not null;default:0"`
	RedCards       int       `gorm:"column:red_cards;not null;default:0"`
	MinutesPlayed  int       `gorm:"column:minutes_played;not null;default:0"`
	ShotsOnTarget  int       `gorm:"column:shots_on_target;not null;default:0"`
	ShotsOffTarget int       `gorm:"column:shots_off_target;not null;default:0"`
	Saves          int       `gorm:"column:saves;not null;default:0"`
	FoulsCommitted int       `gorm:"column:fouls_committed;not null;default:0"`
	FoulsSuffered  int       `gorm:"column:fouls_suffered;not null;default:0"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (PlayerStatistic) TableName() string {
	return "player_statistics"
}

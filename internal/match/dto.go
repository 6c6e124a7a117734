package match

import (
	"time"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	"github.com/Jakababa94/kenya-liga-hub/internal/core/common/validation"
)

type CreateMatchRequest struct {
	HomeTeamID  string    `json:"home_team_id"`
	AwayTeamID  string    `json:"away_team_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Venue       *string   `json:"venue"`
	Round       *string   `json:"round"`
	MatchGroup  *string   `json:"match_group"`
}

func (r CreateMatchRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("home_team_id", r.HomeTeamID).Required().UUID()
	v.Field("away_team_id", r.AwayTeamID).Required().UUID().Custom(func(value interface{}) *internal.AppError {
		if r.HomeTeamID != "" && value == r.HomeTeamID {
			return internal.NewValidationFieldError("away_team_id", "A team cannot play itself", internal.ErrCodeValidationFailed)
		}
		return nil
	})
	v.Field("scheduled_at", r.ScheduledAt).Required()
	if r.Venue != nil {
		v.Field("venue", *r.Venue).MaxLength(200)
	}
	if r.Round != nil {
		v.Field("round", *r.Round).MaxLength(50)
	}
	if r.MatchGroup != nil {
		v.Field("match_group", *r.MatchGroup).MaxLength(50)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateMatchRequest is a partial update; nil fields are left alone.
type UpdateMatchRequest struct {
	HomeScore   *int       `json:"home_score"`
	AwayScore   *int       `json:"away_score"`
	Status      *string    `json:"status"`
	Venue       *string    `json:"venue"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

func (r UpdateMatchRequest) Validate() error {
	v := validation.NewValidator()
	if r.HomeScore == nil && r.AwayScore == nil && r.Status == nil && r.Venue == nil && r.ScheduledAt == nil {
		return internal.NewValidationError("Nothing to update", internal.ErrCodeValidationFailed)
	}
	if r.HomeScore != nil {
		v.Field("home_score", r.HomeScore).MinInt(0, internal.ErrCodeValidationFailed)
	}
	if r.AwayScore != nil {
		v.Field("away_score", r.AwayScore).MinInt(0, internal.ErrCodeValidationFailed)
	}
	if r.Status != nil {
		v.Field("status", *r.Status).Required().OneOf(Statuses...)
	}
	if r.Venue != nil {
		v.Field("venue", *r.Venue).MaxLength(200)
	}
	if r.ScheduledAt != nil {
		v.Field("scheduled_at", *r.ScheduledAt).Required()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpsertStatisticRequest replaces a player's line for the match; omitted counters are stored as zero.
type UpsertStatisticRequest struct {
	TeamID         string `json:"team_id"`
	PlayerID       string `json:"player_id"`
	Goals          int    `json:"goals"`
	Assists        int    `json:"assists"`
	YellowCards    int    `json:"yellow_cards"`
	RedCards       int    `json:"red_cards"`
	MinutesPlayed  int    `json:"minutes_played"`
	ShotsOnTarget  int    `json:"shots_on_target"`
	ShotsOffTarget int    `json:"shots_off_target"`
	Saves          int    `json:"saves"`
	FoulsCommitted int    `json:"fouls_committed"`
	FoulsSuffered  int    `json:"fouls_suffered"`
}

func (r UpsertStatisticRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("team_id", r.TeamID).Required().UUID()
	v.Field("player_id", r.PlayerID).Required().UUID()
	counters := []struct {
		name  string
		value int
	}{
		{"goals", r.Goals},
		{"assists", r.Assists},
		{"yellow_cards", r.YellowCards},
		{"red_cards", r.RedCards},
		{"minutes_played", r.MinutesPlayed},
		{"shots_on_target", r.ShotsOnTarget},
		{"shots_off_target", r.ShotsOffTarget},
		{"saves", r.Saves},
		{"fouls_committed", r.FoulsCommitted},
		{"fouls_suffered", r.FoulsSuffered},
	}
	for _, c := range counters {
		v.Field(c.name, c.value).MinInt(0, internal.ErrCodeValidationFailed)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

package tournament

import (
	"net/url"
	"strings"
	"time"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	"github.com/Jakababa94/kenya-liga-hub/internal/core/common/validation"
)

type CreateTournamentRequest struct {
	Name                 string    `json:"name"`
	Description          *string   `json:"description"`
	Region               string    `json:"region"`
	Venue                string    `json:"venue"`
	Category             string    `json:"category"`
	StartDate            time.Time `json:"start_date"`
	EndDate              time.Time `json:"end_date"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
	EntryFee             float64   `json:"entry_fee"`
	Currency             string    `json:"currency"`
	MaxTeams             *int      `json:"max_teams"`
	MinTeams             *int      `json:"min_teams"`
	MinPlayersPerTeam    *int      `json:"min_players_per_team"`
	MaxPlayersPerTeam    *int      `json:"max_players_per_team"`
}

func (r CreateTournamentRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("name", r.Name).Required().MinLength(3).MaxLength(150)
	v.Field("venue", r.Venue).Required().MaxLength(200)
	v.Field("region", r.Region).Required().OneOf(Regions...)
	v.Field("category", r.Category).Required().OneOf(Categories...)
	v.Field("start_date", r.StartDate).Required()
	v.Field("end_date", r.EndDate).Required().NotBefore(r.StartDate, "start_date")
	v.Field("registration_deadline", r.RegistrationDeadline).Required().NotAfter(r.StartDate, "start_date")
	v.Field("entry_fee", r.EntryFee).NonNegative(internal.ErrCodeInvalidAmount)
	if r.Currency != "" {
		v.Field("currency", r.Currency).MinLength(3).MaxLength(3)
	}
	if r.MaxTeams != nil {
		v.Field("max_teams", r.MaxTeams).MinInt(2, internal.ErrCodeValidationFailed)
	}
	if r.MinTeams != nil {
		v.Field("min_teams", r.MinTeams).MinInt(2, internal.ErrCodeValidationFailed)
	}
	if r.MaxTeams != nil && r.MinTeams != nil {
		v.Field("max_teams", r.MaxTeams).MinInt(int64(*r.MinTeams), internal.ErrCodeValidationFailed)
	}
	if r.MinPlayersPerTeam != nil {
		v.Field("min_players_per_team", r.MinPlayersPerTeam).MinInt(1, internal.ErrCodeValidationFailed)
	}
	if r.MinPlayersPerTeam != nil && r.MaxPlayersPerTeam != nil {
		v.Field("max_players_per_team", r.MaxPlayersPerTeam).MinInt(int64(*r.MinPlayersPerTeam), internal.ErrCodeValidationFailed)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r UpdateStatusRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("status", r.Status).Required().OneOf(AllStatuses...)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ListFilter struct {
	Statuses []string
	Region   string
	Category string
	Query    string
}

// ParseListFilter reads ?status=a,b&region=&category=&q= from a query string.
func ParseListFilter(q url.Values) ListFilter {
	f := ListFilter{
		Region:   strings.TrimSpace(q.Get("region")),
		Category: strings.TrimSpace(q.Get("category")),
		Query:    strings.TrimSpace(q.Get("q")),
	}
	for _, s := range strings.Split(q.Get("status"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			f.Statuses = append(f.Statuses, s)
		}
	}
	return f
}

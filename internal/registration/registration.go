package registration

import (
	"time"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	registrationdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/registration"
)

type Registration struct {
	ID           string     `json:"id"`
	TeamID       string     `json:"team_id"`
	TournamentID string     `json:"tournament_id"`
	Status       string     `json:"status"`
	Notes        *string    `json:"notes,omitempty"`
	ReviewedBy   *string    `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
	RegisteredAt time.Time  `json:"registered_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func FromModel(m *registrationdm.Registration) *Registration {
	if m == nil {
		return nil
	}
	return &Registration{
		ID:           m.ID,
		TeamID:       m.TeamID,
		TournamentID: m.TournamentID,
		Status:       m.Status,
		Notes:        m.Notes,
		ReviewedBy:   m.ReviewedBy,
		ReviewedAt:   m.ReviewedAt,
		RegisteredAt: m.RegisteredAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type TournamentSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
	Venue     string    `json:"venue"`
}

type TeamSummary struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	LogoURL *string `json:"logo_url,omitempty"`
}

// MemberRegistration is a registration as seen from one of the team's players.
type MemberRegistration struct {
	*Registration
	Tournament TournamentSummary `json:"tournament"`
	Team       TeamSummary       `json:"team"`
}

// TournamentSnapshot is what eligibility needs to know about a tournament.
type TournamentSnapshot struct {
	ID                string `db:"id"`
	Name              string `db:"name"`
	Status            string `db:"status"`
	OrganizerID       string `db:"organizer_id"`
	MaxTeams          *int   `db:"max_teams"`
	MinPlayersPerTeam *int   `db:"min_players_per_team"`
	MaxPlayersPerTeam *int   `db:"max_players_per_team"`
}

// StatusChange describes a guarded status transition.
type StatusChange struct {
	From       []string
	To         string
	ReviewedBy *string
	ReviewedAt *time.Time
	Notes      *string
}

var (
	ErrRegistrationNotFound = internal.NewNotFoundError("Registration not found", internal.ErrCodeRegistrationNotFound)
	ErrTournamentNotFound   = internal.NewNotFoundError("Tournament not found", internal.ErrCodeTournamentNotFound)
	ErrTeamNotFound         = internal.NewNotFoundError("Team not found", internal.ErrCodeTeamNotFound)
	ErrAlreadyRegistered    = internal.NewConflictError("Team already registered", internal.ErrCodeAlreadyRegistered)
	ErrNotTeamCaptain       = internal.NewForbiddenError("Only the team captain can manage this registration", internal.ErrCodeForbidden)
	ErrNotOrganizer         = internal.NewForbiddenError("Only the tournament organizer can manage its registrations", internal.ErrCodeForbidden)
	ErrInvalidStatus        = internal.NewConflictError("Registration is not in a state that allows this action", internal.ErrCodeRegistrationState)
)

package tournament

import (
	"time"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	tournamentdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/tournament"
)

var Regions = []string{
	"nairobi", "central", "coast", "eastern",
	"north_eastern", "nyanza", "rift_valley", "western",
}

var Categories = []string{"u17", "u21", "open", "veterans", "womens"}

const DefaultCurrency = "KES"

type Tournament struct {
	ID                   string    `json:"id"`
	Slug                 string    `json:"slug"`
	Name                 string    `json:"name"`
	Description          *string   `json:"description,omitempty"`
	Region               string    `json:"region"`
	Venue                string    `json:"venue"`
	Category             string    `json:"category"`
	Status               string    `json:"status"`
	StartDate            time.Time `json:"start_date"`
	EndDate              time.Time `json:"end_date"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
	EntryFee             float64   `json:"entry_fee"`
	Currency             string    `json:"currency"`
	MaxTeams             *int      `json:"max_teams,omitempty"`
	MinTeams             *int      `json:"min_teams,omitempty"`
	MinPlayersPerTeam    *int      `json:"min_players_per_team,omitempty"`
	MaxPlayersPerTeam    *int      `json:"max_players_per_team,omitempty"`
	OrganizerID          string    `json:"organizer_id"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func FromModel(m *tournamentdm.Tournament) *Tournament {
	if m == nil {
		return nil
	}
	return &Tournament{
		ID:                   m.ID,
		Slug:                 m.Slug,
		Name:                 m.Name,
		Description:          m.Description,
		Region:               m.Region,
		Venue:                m.Venue,
		Category:             m.Category,
		Status:               m.Status,
		StartDate:            m.StartDate,
		EndDate:              m.EndDate,
		RegistrationDeadline: m.RegistrationDeadline,
		EntryFee:             m.EntryFee,
		Currency:             m.Currency,
		MaxTeams:             m.MaxTeams,
		MinTeams:             m.MinTeams,
		MinPlayersPerTeam:    m.MinPlayersPerTeam,
		MaxPlayersPerTeam:    m.MaxPlayersPerTeam,
		OrganizerID:          m.OrganizerID,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// transitions lists the forward step out of each status. Cancellation is handled separately.
var transitions = map[string]string{
	tournamentdm.StatusDraft:              tournamentdm.StatusPublished,
	tournamentdm.StatusPublished:          tournamentdm.StatusRegistrationOpen,
	tournamentdm.StatusRegistrationOpen:   tournamentdm.StatusRegistrationClosed,
	tournamentdm.StatusRegistrationClosed: tournamentdm.StatusOngoing,
	tournamentdm.StatusOngoing:            tournamentdm.StatusCompleted,
}

func IsTerminal(status string) bool {
	return status == tournamentdm.StatusCompleted || status == tournamentdm.StatusCancelled
}

func CanTransition(from, to string) bool {
	if IsTerminal(from) {
		return false
	}
	if to == tournamentdm.StatusCancelled {
		return true
	}
	return transitions[from] == to
}

var AllStatuses = []string{
	tournamentdm.StatusDraft,
	tournamentdm.StatusPublished,
	tournamentdm.StatusRegistrationOpen,
	tournamentdm.StatusRegistrationClosed,
	tournamentdm.StatusOngoing,
	tournamentdm.StatusCompleted,
	tournamentdm.StatusCancelled,
}

var (
	ErrTournamentNotFound = internal.NewNotFoundError("Tournament not found", internal.ErrCodeTournamentNotFound)
	ErrNotOrganizer       = internal.NewForbiddenError("Only the tournament organizer can change this tournament", internal.ErrCodeForbidden)
	ErrInvalidTransition  = internal.NewConflictError("Tournament status cannot change that way", internal.ErrCodeInvalidTransition)
)

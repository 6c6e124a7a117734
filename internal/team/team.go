package team

import (
	"time"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	teamdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/team"
)

type Team struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	LogoURL   *string   `json:"logo_url,omitempty"`
	CaptainID string    `json:"captain_id"`
	Members   []Member  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Member struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Role         string    `json:"role"`
	JerseyNumber *int      `json:"jersey_number,omitempty"`
	Position     *string   `json:"position,omitempty"`
	JoinedAt     time.Time `json:"joined_at"`
}

func FromModel(m *teamdm.Team) *Team {
	if m == nil {
		return nil
	}
	t := &Team{
		ID:        m.ID,
		Slug:      m.Slug,
		Name:      m.Name,
		LogoURL:   m.LogoURL,
		CaptainID: m.CaptainID,
		Members:   make([]Member, 0, len(m.Members)),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for _, mem := range m.Members {
		t.Members = append(t.Members, Member{
			ID:           mem.ID,
			UserID:       mem.UserID,
			Role:         mem.Role,
			JerseyNumber: mem.JerseyNumber,
			Position:     mem.Position,
			JoinedAt:     mem.JoinedAt,
		})
	}
	return t
}

var (
	ErrTeamNotFound        = internal.NewNotFoundError("Team not found", internal.ErrCodeTeamNotFound)
	ErrMemberNotFound      = internal.NewNotFoundError("Team member not found", internal.ErrCodeMemberNotFound)
	ErrDuplicateMember     = internal.NewConflictError("User is already a member of this team", internal.ErrCodeDuplicateMember)
	ErrDuplicateJersey     = internal.NewConflictError("Jersey number is already taken in this team", internal.ErrCodeDuplicateJersey)
	ErrNotCaptain          = internal.NewForbiddenError("Only the team captain can manage members", internal.ErrCodeForbidden)
	ErrCannotRemoveCaptain = internal.NewConflictError("The captain cannot be removed from the team", internal.ErrCodeCaptainRemoval)
)

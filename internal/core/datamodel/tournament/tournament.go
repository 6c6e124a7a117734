package tournament

import "time"

const (
	StatusDraft              = "draft"
	StatusPublished          = "published"
	StatusRegistrationOpen   = "registration_open"
	StatusRegistrationClosed = "registration_closed"
	StatusOngoing            = "ongoing"
	StatusCompleted          = "completed"
	StatusCancelled          = "cancelled"
)

type Tournament struct {
	ID                   string    `gorm:"column:id;type:uuid;primaryKey"`
	Slug                 string    `gorm:"column:slug;not null;uniqueIndex"`
	Name                 string    `gorm:"column:name;not null"`
	Description          *string   `gorm:"column:description"`
	Region               string    `gorm:"column:region;not null"`
	Venue                string    `gorm:"column:venue;not null"`
	Category             string    `gorm:"column:category;not null"`
	Status               string    `gorm:"column:status;not null;default:draft"`
	StartDate            time.Time `gorm:"column:start_date;not null"`
	EndDate              time.Time `gorm:"column:end_date;not null"`
	RegistrationDeadline time.Time `gorm:"column:registration_deadline;not null"`
	EntryFee             float64   `gorm:"column:entry_fee;not null;default:0"`
	Currency             string    `gorm:"column:currency;not null;default:KES"`
	MaxTeams             *int      `gorm:"column:max_teams"`
	MinTeams             *int      `gorm:"column:min_teams"`
	MinPlayersPerTeam    *int      `gorm:"column:min_players_per_team"`
	MaxPlayersPerTeam    *int      `gorm:"column:max_players_per_team"`
	OrganizerID          string    `gorm:"column:organizer_id;type:uuid;not null"`
	CreatedAt            time.Time `gorm:"column:created_at"`
	UpdatedAt            time.Time `gorm:"column:updated_at"`
}

func (Tournament) TableName() string {
	return "tournaments"
}

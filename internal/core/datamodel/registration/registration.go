package registration

import "time"

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusWithdrawn = "withdrawn"
)

type Registration struct {
	ID           string     `gorm:"column:id;type:uuid;primaryKey"`
	TeamID       string     `gorm:"column:team_id;type:uuid;not null;uniqueIndex:uq_registration_team_tournament"`
	TournamentID string     `gorm:"column:tournament_id;type:uuid;not null;uniqueIndex:uq_registration_team_tournament"`
	Status       string     `gorm:"column:status;not null;default:pending"`
	Notes        *string    `gorm:"column:notes"`
	ReviewedBy   *string    `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt   *time.Time `gorm:"column:reviewed_at"`
	RegisteredAt time.Time  `gorm:"column:registered_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
}

func (Registration) TableName() string {
	return "tournament_registrations"
}

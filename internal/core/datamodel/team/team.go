package team

import "time"

const (
	RoleCaptain = "captain"
	RoleMember  = "member"
)

type Team struct {
	ID           string    `gorm:"column:id;type:uuid;primaryKey"`
	Slug         string    `gorm:"column:slug;not null;uniqueIndex"`
	Name         string    `gorm:"column:name;not null"`
	LogoURL      *string   `gorm:"column:logo_url"`
	CaptainID    string    `gorm:"column:captain_id;type:uuid;not null"`
	TournamentID *string   `gorm:"column:tournament_id;type:uuid"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`

	Members []Member `gorm:"foreignKey:TeamID"`
}

func (Team) TableName() string {
	return "teams"
}

type Member struct {
	ID           string    `gorm:"column:id;type:uuid;primaryKey"`
	TeamID       string    `gorm:"column:team_id;type:uuid;not null;uniqueIndex:uq_team_member;uniqueIndex:uq_team_jersey"`
	UserID       string    `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_team_member"`
	Role         string    `gorm:"column:role;not null;default:member"`
	JerseyNumber *int      `gorm:"column:jersey_number;uniqueIndex:uq_team_jersey"`
	Position     *string   `gorm:"column:position"`
	JoinedAt     time.Time `gorm:"column:joined_at"`
}

func (Member) TableName() string {
	return "team_members"
}

package user

import "time"

type User struct {
	ID                string    `gorm:"column:id;type:uuid;primaryKey"`
	Email             string    `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash      string    `gorm:"column:password_hash;not null"`
	FullName          *string   `gorm:"column:full_name"`
	Phone             *string   `gorm:"column:phone"`
	PreferredLanguage string    `gorm:"column:preferred_language;default:en"`
	IsActive          bool      `gorm:"column:is_active;default:true"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

type UserRole struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_user_role"`
	Role      string    `gorm:"column:role;not null;uniqueIndex:uq_user_role"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

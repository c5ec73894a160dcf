package models

import "time"

type UserRole string

const (
	RoleAdvisor UserRole = "advisor"
	RoleAdmin   UserRole = "admin"
)

// User is an advisor or staff member. Templates, contacts and deals are
// owned by a user.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string   `gorm:"size:100;not null" json:"name"`
	Email        string   `gorm:"size:150;uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"size:255;not null" json:"-"`
	Phone        string   `gorm:"size:30" json:"phone"`
	Role         UserRole `gorm:"size:20;not null;default:'advisor'" json:"role"`
	Timezone     string   `gorm:"size:64;not null;default:'UTC'" json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

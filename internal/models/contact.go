package models

import "time"

// Contact is a person known to the firm. Guests who book a meeting are
// matched to a contact by email.
type Contact struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OwnerID uint `gorm:"not null;index:idx_contacts_owner_email,priority:1" json:"owner_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:150;index:idx_contacts_owner_email,priority:2" json:"email"`
	Phone string `gorm:"size:30" json:"phone"`

	CompanyID *uint    `gorm:"index" json:"company_id"`
	Company   *Company `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"company,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

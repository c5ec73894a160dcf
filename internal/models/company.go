package models

import "time"

type Company struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OwnerID uint   `gorm:"not null;index" json:"owner_id"`
	Name    string `gorm:"size:150;not null" json:"name"`
	Website string `gorm:"size:255" json:"website"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

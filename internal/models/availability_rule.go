package models

import "time"

type AvailabilityRule struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	TemplateID uint `gorm:"not null;index" json:"template_id"`

	// 0 = Sunday ... 6 = Saturday
	DayOfWeek int `gorm:"not null;check:chk_rules_day,day_of_week BETWEEN 0 AND 6" json:"day_of_week"`

	StartTime   string `gorm:"size:5;not null" json:"start_time"`
	EndTime     string `gorm:"size:5;not null" json:"end_time"`
	IsAvailable bool   `gorm:"not null" json:"is_available"`

	Position int `gorm:"not null;default:0" json:"position"`

	CreatedAt time.Time `json:"created_at"`
}

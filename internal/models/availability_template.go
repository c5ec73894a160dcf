package models

import "time"

// AvailabilityTemplate is a bookable offering: a meeting length, a buffer
// between meetings and a weekly set of open windows.
type AvailabilityTemplate struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OwnerID uint `gorm:"not null;index" json:"owner_id"`
	Owner   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`

	DurationMinutes int `gorm:"not null;check:chk_templates_duration,duration_minutes > 0" json:"duration_minutes"`
	BufferMinutes   int `gorm:"not null;default:0;check:chk_templates_buffer,buffer_minutes >= 0" json:"buffer_minutes"`

	BookingLink string `gorm:"size:100;uniqueIndex;not null" json:"booking_link"`
	IsActive    bool   `gorm:"not null" json:"is_active"`
	Timezone    string `gorm:"size:64;not null" json:"timezone"`

	// RequiresApproval makes new bookings start as PENDING instead of CONFIRMED.
	RequiresApproval bool `gorm:"not null;default:false" json:"requires_approval"`
	MinNoticeMinutes int  `gorm:"not null;default:0" json:"min_notice_minutes"`

	Rules []AvailabilityRule `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE;" json:"rules"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

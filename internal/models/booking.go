package models

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusNoShow    BookingStatus = "NO_SHOW"
)

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// The partial unique index is the storage-level guard against two
	// live bookings starting at the same instant on one template.
	TemplateID uint                  `gorm:"not null;index;uniqueIndex:idx_bookings_live_slot,priority:1,where:status <> 'CANCELLED'" json:"template_id"`
	Template   *AvailabilityTemplate `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"template,omitempty"`

	GuestName  string `gorm:"size:100;not null" json:"guest_name"`
	GuestEmail string `gorm:"size:150;not null" json:"guest_email"`
	GuestPhone string `gorm:"size:30" json:"guest_phone"`

	StartTime time.Time `gorm:"not null;index;uniqueIndex:idx_bookings_live_slot,priority:2,where:status <> 'CANCELLED'" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status BookingStatus `gorm:"size:20;not null;index" json:"status"`
	Notes  string        `gorm:"size:1000" json:"notes"`

	ContactID *uint    `gorm:"index" json:"contact_id"`
	Contact   *Contact `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"contact,omitempty"`

	CalendarEventID string `gorm:"size:255" json:"calendar_event_id,omitempty"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type IntentStatus string

const (
	IntentPending   IntentStatus = "PENDING"
	IntentDelivered IntentStatus = "DELIVERED"
	IntentCommitted IntentStatus = "COMMITTED"
	IntentFailed    IntentStatus = "FAILED"
)

// WorkflowIntent is written before a workflow operation calls out to an
// external system, so a successful call followed by a failed state write
// stays visible to the reconciliation sweep.
type WorkflowIntent struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	DealID uint   `gorm:"not null;index" json:"deal_id"`
	Deal   *Deal  `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	Operation string       `gorm:"size:50;not null" json:"operation"`
	Status    IntentStatus `gorm:"size:20;not null;index" json:"status"`

	ExternalRef string         `gorm:"size:500" json:"external_ref"`
	Error       string         `gorm:"type:text" json:"error"`
	Payload     datatypes.JSON `json:"payload"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}

func (i *WorkflowIntent) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

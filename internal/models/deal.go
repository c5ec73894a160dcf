package models

import (
	"time"

	"gorm.io/datatypes"
)

type DealStage string

const (
	StageNewLead         DealStage = "NEW_LEAD"
	StageKYCInProgress   DealStage = "KYC_IN_PROGRESS"
	StageDueDiligence    DealStage = "DUE_DILIGENCE"
	StageContractSigning DealStage = "CONTRACT_SIGNING"
	StageOnboarded       DealStage = "ONBOARDED"
	StageRejected        DealStage = "REJECTED"
)

// DealStages lists every stage in pipeline order.
var DealStages = []DealStage{
	StageNewLead,
	StageKYCInProgress,
	StageDueDiligence,
	StageContractSigning,
	StageOnboarded,
	StageRejected,
}

type KYCStatus string

const (
	KYCPending   KYCStatus = "PENDING"
	KYCSubmitted KYCStatus = "SUBMITTED"
	KYCVerified  KYCStatus = "VERIFIED"
	KYCRejected  KYCStatus = "REJECTED"
)

// Deal is a pipeline opportunity. Stage and KYCStatus only change through
// the workflow use cases; Version is bumped on every workflow write.
type Deal struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OwnerID uint `gorm:"not null;index" json:"owner_id"`

	Name string `gorm:"size:150;not null" json:"name"`

	Stage     DealStage `gorm:"size:32;not null;default:'NEW_LEAD';index" json:"stage"`
	KYCStatus KYCStatus `gorm:"column:kyc_status;size:20;not null;default:'PENDING'" json:"kyc_status"`

	ContactID *uint    `gorm:"index" json:"contact_id"`
	Contact   *Contact `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"contact,omitempty"`
	CompanyID *uint    `gorm:"index" json:"company_id"`
	Company   *Company `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"company,omitempty"`

	DiligenceNotes string         `gorm:"type:text" json:"diligence_notes"`
	AISummary      datatypes.JSON `json:"ai_summary"`

	DocumentsArchivedAt *time.Time `json:"documents_archived_at"`
	ArchiveLocation     string     `gorm:"size:500" json:"archive_location"`

	Version int `gorm:"not null;default:1" json:"version"`

	Documents []Document `gorm:"foreignKey:DealID;constraint:OnDelete:CASCADE;" json:"documents,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DealStageHistory records every stage change, guarded or manual.
type DealStageHistory struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	DealID    uint       `gorm:"not null;index" json:"deal_id"`
	FromStage *DealStage `gorm:"size:32" json:"from_stage"`
	ToStage   DealStage  `gorm:"size:32;not null" json:"to_stage"`
	ChangedBy uint       `gorm:"not null" json:"changed_by"`
	Reason    string     `gorm:"size:100" json:"reason"`
	ChangedAt time.Time  `gorm:"not null" json:"changed_at"`
}

func (DealStageHistory) TableName() string {
	return "deal_stage_history"
}

package models

import "time"

type DocumentKind string

const (
	DocumentKYCID          DocumentKind = "KYC_ID"
	DocumentProofOfAddress DocumentKind = "PROOF_OF_ADDRESS"
	DocumentSourceOfFunds  DocumentKind = "SOURCE_OF_FUNDS"
	DocumentContract       DocumentKind = "CONTRACT"
	DocumentOther          DocumentKind = "OTHER"
)

type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "PENDING"
	DocumentVerified DocumentStatus = "VERIFIED"
	DocumentRejected DocumentStatus = "REJECTED"
)

type Document struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	DealID uint `gorm:"not null;index" json:"deal_id"`

	Kind     DocumentKind   `gorm:"size:32;not null" json:"kind"`
	Status   DocumentStatus `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	FileName string         `gorm:"size:255;not null" json:"file_name"`

	// StorageKey is the object key (S3) or file id (Drive) of the upload.
	StorageKey string `gorm:"size:500;not null" json:"storage_key"`
	Signed     bool   `gorm:"not null;default:false" json:"signed"`

	ArchivedAt *time.Time `json:"archived_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

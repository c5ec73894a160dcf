package deal

import (
	"context"
	"time"

	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

// Transition is a conditional workflow write: it applies only while the
// stored deal still holds Expected.
type Transition struct {
	DealID    uint
	Expected  State
	Next      State
	ChangedBy uint
	Reason    string
	At        time.Time

	// Set by the archive operation.
	ArchiveLocation     string
	ArchivedDocumentIDs []uint
}

type Repository interface {
	// -------- Deal --------
	CreateDeal(
		ctx context.Context,
		d *models.Deal,
	) error

	GetDealForOwner(
		ctx context.Context,
		dealID uint,
		ownerID uint,
	) (*models.Deal, error)

	ListDealsForOwner(
		ctx context.Context,
		ownerID uint,
		stage *models.DealStage,
	) ([]models.Deal, error)

	UpdateDiligenceNotes(
		ctx context.Context,
		dealID uint,
		ownerID uint,
		notes string,
	) error

	// CommitTransition writes the new state, bumps the version and records
	// stage history in one transaction. Zero matched rows returns
	// *httperr.ConcurrentModificationError.
	CommitTransition(
		ctx context.Context,
		t Transition,
	) error

	ListStageHistory(
		ctx context.Context,
		dealID uint,
	) ([]models.DealStageHistory, error)

	// -------- Documents --------
	CreateDocument(
		ctx context.Context,
		doc *models.Document,
	) error

	GetDocument(
		ctx context.Context,
		dealID uint,
		documentID uint,
	) (*models.Document, error)

	UpdateDocumentStatus(
		ctx context.Context,
		documentID uint,
		status models.DocumentStatus,
	) error

	ListDocuments(
		ctx context.Context,
		dealID uint,
		status *models.DocumentStatus,
	) ([]models.Document, error)

	HasSignedContract(
		ctx context.Context,
		dealID uint,
	) (bool, error)

	// -------- Contacts --------
	GetContactForOwner(
		ctx context.Context,
		contactID uint,
		ownerID uint,
	) (*models.Contact, error)

	// -------- Workflow intents --------
	CreateIntent(
		ctx context.Context,
		intent *models.WorkflowIntent,
	) error

	UpdateIntent(
		ctx context.Context,
		id string,
		status models.IntentStatus,
		externalRef string,
		errMsg string,
	) error

	ListStaleIntents(
		ctx context.Context,
		before time.Time,
	) ([]models.WorkflowIntent, error)
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/wealth-crm/internal/domain/deal"
	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

type DealGormRepository struct {
	db *gorm.DB
}

func NewDealGormRepository(db *gorm.DB) *DealGormRepository {
	return &DealGormRepository{db: db}
}

// --------------------------------------------------
// Deal
// --------------------------------------------------

func (r *DealGormRepository) CreateDeal(
	ctx context.Context,
	d *models.Deal,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(d).Error; err != nil {
			return err
		}

		return tx.Create(&models.DealStageHistory{
			DealID:    d.ID,
			ToStage:   d.Stage,
			ChangedBy: d.OwnerID,
			Reason:    "created",
			ChangedAt: d.CreatedAt.UTC(),
		}).Error
	})
}

func (r *DealGormRepository) GetDealForOwner(
	ctx context.Context,
	dealID uint,
	ownerID uint,
) (*models.Deal, error) {

	var d models.Deal
	if err := r.db.WithContext(ctx).
		Preload("Contact").
		Preload("Company").
		Where("id = ? AND owner_id = ?", dealID, ownerID).
		First(&d).Error; err != nil {
		return nil, notFound(err, "deal", dealID)
	}
	return &d, nil
}

func (r *DealGormRepository) ListDealsForOwner(
	ctx context.Context,
	ownerID uint,
	stage *models.DealStage,
) ([]models.Deal, error) {

	q := r.db.WithContext(ctx).
		Preload("Contact").
		Where("owner_id = ?", ownerID)
	if stage != nil {
		q = q.Where("stage = ?", *stage)
	}

	var deals []models.Deal
	if err := q.Order("updated_at DESC, id DESC").Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

func (r *DealGormRepository) UpdateDiligenceNotes(
	ctx context.Context,
	dealID uint,
	ownerID uint,
	notes string,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Deal{}).
		Where("id = ? AND owner_id = ?", dealID, ownerID).
		Update("diligence_notes", notes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.NotFoundf("deal", dealID)
	}
	return nil
}

func (r *DealGormRepository) CommitTransition(
	ctx context.Context,
	t deal.Transition,
) error {

	at := t.At.UTC()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"stage":      t.Next.Stage,
			"kyc_status": t.Next.KYCStatus,
			"version":    gorm.Expr("version + 1"),
			"updated_at": at,
		}
		if t.ArchiveLocation != "" {
			updates["documents_archived_at"] = at
			updates["archive_location"] = t.ArchiveLocation
		}

		res := tx.Model(&models.Deal{}).
			Where(
				"id = ? AND stage = ? AND kyc_status = ?",
				t.DealID,
				t.Expected.Stage,
				t.Expected.KYCStatus,
			).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &httperr.ConcurrentModificationError{DealID: t.DealID}
		}

		if len(t.ArchivedDocumentIDs) > 0 {
			if err := tx.Model(&models.Document{}).
				Where("deal_id = ? AND id IN ?", t.DealID, t.ArchivedDocumentIDs).
				Update("archived_at", at).Error; err != nil {
				return err
			}
		}

		if t.Next.Stage == t.Expected.Stage {
			return nil
		}

		from := t.Expected.Stage
		return tx.Create(&models.DealStageHistory{
			DealID:    t.DealID,
			FromStage: &from,
			ToStage:   t.Next.Stage,
			ChangedBy: t.ChangedBy,
			Reason:    t.Reason,
			ChangedAt: at,
		}).Error
	})
}

func (r *DealGormRepository) ListStageHistory(
	ctx context.Context,
	dealID uint,
) ([]models.DealStageHistory, error) {

	var history []models.DealStageHistory
	if err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("changed_at ASC, id ASC").
		Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

// --------------------------------------------------
// Documents
// --------------------------------------------------

func (r *DealGormRepository) CreateDocument(
	ctx context.Context,
	doc *models.Document,
) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *DealGormRepository) GetDocument(
	ctx context.Context,
	dealID uint,
	documentID uint,
) (*models.Document, error) {

	var doc models.Document
	if err := r.db.WithContext(ctx).
		Where("id = ? AND deal_id = ?", documentID, dealID).
		First(&doc).Error; err != nil {
		return nil, notFound(err, "document", documentID)
	}
	return &doc, nil
}

func (r *DealGormRepository) UpdateDocumentStatus(
	ctx context.Context,
	documentID uint,
	status models.DocumentStatus,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("id = ?", documentID).
		Update("status", status).Error
}

func (r *DealGormRepository) ListDocuments(
	ctx context.Context,
	dealID uint,
	status *models.DocumentStatus,
) ([]models.Document, error) {

	q := r.db.WithContext(ctx).Where("deal_id = ?", dealID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var docs []models.Document
	if err := q.Order("id ASC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *DealGormRepository) HasSignedContract(
	ctx context.Context,
	dealID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where(
			"deal_id = ? AND kind = ? AND signed = ? AND status <> ?",
			dealID,
			models.DocumentContract,
			true,
			models.DocumentRejected,
		).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Contacts
// --------------------------------------------------

func (r *DealGormRepository) GetContactForOwner(
	ctx context.Context,
	contactID uint,
	ownerID uint,
) (*models.Contact, error) {

	var c models.Contact
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", contactID, ownerID).
		First(&c).Error; err != nil {
		return nil, notFound(err, "contact", contactID)
	}
	return &c, nil
}

// --------------------------------------------------
// Workflow intents
// --------------------------------------------------

func (r *DealGormRepository) CreateIntent(
	ctx context.Context,
	intent *models.WorkflowIntent,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(intent).Error
}

func (r *DealGormRepository) UpdateIntent(
	ctx context.Context,
	id string,
	status models.IntentStatus,
	externalRef string,
	errMsg string,
) error {

	updates := map[string]any{"status": status}
	if externalRef != "" {
		updates["external_ref"] = externalRef
	}
	if errMsg != "" {
		updates["error"] = errMsg
	}

	return r.db.WithContext(ctx).
		Model(&models.WorkflowIntent{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *DealGormRepository) ListStaleIntents(
	ctx context.Context,
	before time.Time,
) ([]models.WorkflowIntent, error) {

	var intents []models.WorkflowIntent
	if err := r.db.WithContext(ctx).
		Preload("Deal").
		Where(
			"status IN ? AND updated_at < ?",
			[]models.IntentStatus{models.IntentPending, models.IntentDelivered},
			before.UTC(),
		).
		Order("updated_at ASC").
		Find(&intents).Error; err != nil {
		return nil, err
	}
	return intents, nil
}

// Compile-time check
var _ deal.Repository = (*DealGormRepository)(nil)

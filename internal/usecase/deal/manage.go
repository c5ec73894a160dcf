package deal

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/wealth-crm/internal/audit"
	domain "github.com/BruksfildServices01/wealth-crm/internal/domain/deal"
	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

// ======================================================
// CREATE
// ======================================================

type CreateDealInput struct {
	Name      string `json:"name" binding:"required"`
	ContactID *uint  `json:"contact_id"`
}

type CreateDeal struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateDeal(repo domain.Repository, audit *audit.Dispatcher) *CreateDeal {
	return &CreateDeal{repo: repo, audit: audit}
}

// Execute creates the deal at NEW_LEAD with KYC PENDING.
func (uc *CreateDeal) Execute(
	ctx context.Context,
	ownerID uint,
	in CreateDealInput,
) (*models.Deal, error) {

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, httperr.ErrBusiness("deal_name_required")
	}

	d := &models.Deal{
		OwnerID:   ownerID,
		Name:      name,
		Stage:     models.StageNewLead,
		KYCStatus: models.KYCPending,
		Version:   1,
	}

	if in.ContactID != nil {
		contact, err := uc.repo.GetContactForOwner(ctx, *in.ContactID, ownerID)
		if err != nil {
			return nil, err
		}
		d.ContactID = &contact.ID
		d.CompanyID = contact.CompanyID
	}

	if err := uc.repo.CreateDeal(ctx, d); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		UserID:   &ownerID,
		Action:   audit.ActionDealCreated,
		Entity:   "deal",
		EntityID: &d.ID,
		Metadata: map[string]any{"name": d.Name},
	})

	return uc.repo.GetDealForOwner(ctx, d.ID, ownerID)
}

// ======================================================
// READ
// ======================================================

type GetDeal struct {
	repo domain.Repository
}

func NewGetDeal(repo domain.Repository) *GetDeal {
	return &GetDeal{repo: repo}
}

func (uc *GetDeal) Execute(ctx context.Context, ownerID, dealID uint) (*models.Deal, error) {
	d, err := uc.repo.GetDealForOwner(ctx, dealID, ownerID)
	if err != nil {
		return nil, err
	}

	docs, err := uc.repo.ListDocuments(ctx, d.ID, nil)
	if err != nil {
		return nil, err
	}
	d.Documents = docs
	return d, nil
}

type ListDeals struct {
	repo domain.Repository
}

func NewListDeals(repo domain.Repository) *ListDeals {
	return &ListDeals{repo: repo}
}

// Execute lists the owner's deals, optionally filtered by stage name.
func (uc *ListDeals) Execute(ctx context.Context, ownerID uint, stage string) ([]models.Deal, error) {
	var filter *models.DealStage
	if stage != "" {
		st, err := domain.ParseStage(stage)
		if err != nil {
			return nil, err
		}
		filter = &st
	}
	return uc.repo.ListDealsForOwner(ctx, ownerID, filter)
}

type StageHistory struct {
	repo domain.Repository
}

func NewStageHistory(repo domain.Repository) *StageHistory {
	return &StageHistory{repo: repo}
}

func (uc *StageHistory) Execute(ctx context.Context, ownerID, dealID uint) ([]models.DealStageHistory, error) {
	if _, err := uc.repo.GetDealForOwner(ctx, dealID, ownerID); err != nil {
		return nil, err
	}
	return uc.repo.ListStageHistory(ctx, dealID)
}

// ======================================================
// DILIGENCE NOTES
// ======================================================

type UpdateDiligenceNotes struct {
	repo domain.Repository
}

func NewUpdateDiligenceNotes(repo domain.Repository) *UpdateDiligenceNotes {
	return &UpdateDiligenceNotes{repo: repo}
}

// Execute overwrites the notes. Stage and KYC status are left alone.
func (uc *UpdateDiligenceNotes) Execute(
	ctx context.Context,
	ownerID uint,
	dealID uint,
	notes string,
) (*models.Deal, error) {

	d, err := uc.repo.GetDealForOwner(ctx, dealID, ownerID)
	if err != nil {
		return nil, err
	}
	if domain.IsTerminal(d.Stage) {
		return nil, &httperr.InvalidStateError{
			Operation: "update diligence notes",
			Current:   domain.StateOf(d).String(),
			Required:  "a stage that is not ONBOARDED or REJECTED",
		}
	}

	if err := uc.repo.UpdateDiligenceNotes(ctx, dealID, ownerID, notes); err != nil {
		return nil, err
	}
	return uc.repo.GetDealForOwner(ctx, dealID, ownerID)
}

// ======================================================
// DOCUMENTS
// ======================================================

type AddDocumentInput struct {
	Kind       string `json:"kind" binding:"required"`
	FileName   string `json:"file_name" binding:"required"`
	StorageKey string `json:"storage_key" binding:"required"`
	Signed     bool   `json:"signed"`
}

type AddDocument struct {
	repo domain.Repository
}

func NewAddDocument(repo domain.Repository) *AddDocument {
	return &AddDocument{repo: repo}
}

func (uc *AddDocument) Execute(
	ctx context.Context,
	ownerID uint,
	dealID uint,
	in AddDocumentInput,
) (*models.Document, error) {

	kind, err := parseDocumentKind(in.Kind)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.FileName) == "" || strings.TrimSpace(in.StorageKey) == "" {
		return nil, httperr.ErrBusiness("invalid_document")
	}

	d, err := uc.repo.GetDealForOwner(ctx, dealID, ownerID)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		DealID:     d.ID,
		Kind:       kind,
		Status:     models.DocumentPending,
		FileName:   strings.TrimSpace(in.FileName),
		StorageKey: strings.TrimSpace(in.StorageKey),
		Signed:     in.Signed,
	}
	if err := uc.repo.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

type ReviewDocument struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewReviewDocument(repo domain.Repository, audit *audit.Dispatcher) *ReviewDocument {
	return &ReviewDocument{repo: repo, audit: audit}
}

// Execute accepts "verified" or "rejected". Archived documents are final.
func (uc *ReviewDocument) Execute(
	ctx context.Context,
	ownerID uint,
	dealID uint,
	documentID uint,
	decision string,
) (*models.Document, error) {

	var status models.DocumentStatus
	switch strings.ToUpper(decision) {
	case string(models.DocumentVerified):
		status = models.DocumentVerified
	case string(models.DocumentRejected):
		status = models.DocumentRejected
	default:
		return nil, httperr.ErrBusiness("invalid_document_decision")
	}

	if _, err := uc.repo.GetDealForOwner(ctx, dealID, ownerID); err != nil {
		return nil, err
	}

	doc, err := uc.repo.GetDocument(ctx, dealID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.ArchivedAt != nil {
		return nil, &httperr.InvalidStateError{
			Operation: "review document",
			Current:   "archived",
			Required:  "a document that is not archived",
		}
	}

	if err := uc.repo.UpdateDocumentStatus(ctx, doc.ID, status); err != nil {
		return nil, err
	}
	doc.Status = status

	uc.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		UserID:   &ownerID,
		Action:   audit.ActionDocumentReviewed,
		Entity:   "document",
		EntityID: &doc.ID,
		Metadata: map[string]any{"deal_id": dealID, "status": status},
	})

	return doc, nil
}

func parseDocumentKind(s string) (models.DocumentKind, error) {
	k := models.DocumentKind(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case models.DocumentKYCID,
		models.DocumentProofOfAddress,
		models.DocumentSourceOfFunds,
		models.DocumentContract,
		models.DocumentOther:
		return k, nil
	}
	return "", httperr.ErrBusiness("invalid_document_kind")
}

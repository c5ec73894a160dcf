package deal

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/wealth-crm/internal/audit"
	domain "github.com/BruksfildServices01/wealth-crm/internal/domain/deal"
	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
	"github.com/BruksfildServices01/wealth-crm/internal/timezone"
)

type ArchiveVerifiedDocuments struct {
	repo     domain.Repository
	archiver Archiver
	audit    *audit.Dispatcher
	logger   *zap.Logger
	clock    timezone.Clock
}

func NewArchiveVerifiedDocuments(
	repo domain.Repository,
	archiver Archiver,
	audit *audit.Dispatcher,
	logger *zap.Logger,
	clock timezone.Clock,
) *ArchiveVerifiedDocuments {
	if clock == nil {
		clock = timezone.SystemClock
	}
	return &ArchiveVerifiedDocuments{
		repo:     repo,
		archiver: archiver,
		audit:    audit,
		logger:   logger,
		clock:    clock,
	}
}

func (uc *ArchiveVerifiedDocuments) Execute(
	ctx context.Context,
	ownerID uint,
	dealID uint,
) (*models.Deal, error) {

	// --------------------------------------------------
	// Guard
	// --------------------------------------------------
	d, err := uc.repo.GetDealForOwner(ctx, dealID, ownerID)
	if err != nil {
		return nil, err
	}

	current := domain.StateOf(d)
	if err := domain.CheckArchive(current); err != nil {
		return nil, err
	}

	verified := models.DocumentVerified
	docs, err := uc.repo.ListDocuments(ctx, d.ID, &verified)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}

	// --------------------------------------------------
	// External call
	// --------------------------------------------------
	in := intents{repo: uc.repo, logger: uc.logger}
	intent, err := in.begin(ctx, d.ID, OpArchiveDocuments, map[string]any{"document_ids": ids})
	if err != nil {
		return nil, err
	}

	location, err := uc.archiver.ArchiveDocuments(ctx, d.ID, docs)
	if err != nil {
		in.mark(ctx, intent, models.IntentFailed, "", err.Error())
		uc.logger.Warn("archive failed", zap.Uint("deal_id", d.ID), zap.Error(err))
		return nil, &httperr.ArchiveError{Cause: err}
	}
	in.mark(ctx, intent, models.IntentDelivered, location, "")

	// --------------------------------------------------
	// Conditional write
	// --------------------------------------------------
	next := domain.AfterArchive(current)
	if err := uc.repo.CommitTransition(ctx, domain.Transition{
		DealID:              d.ID,
		Expected:            current,
		Next:                next,
		ChangedBy:           ownerID,
		Reason:              OpArchiveDocuments,
		At:                  uc.clock(),
		ArchiveLocation:     location,
		ArchivedDocumentIDs: ids,
	}); err != nil {
		uc.logger.Error("documents archived but state write failed",
			zap.Uint("deal_id", d.ID),
			zap.String("intent_id", intent.ID),
			zap.String("location", location),
			zap.Error(err),
		)
		return nil, err
	}
	in.mark(ctx, intent, models.IntentCommitted, "", "")

	uc.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		UserID:   &ownerID,
		Action:   audit.ActionDocsArchived,
		Entity:   "deal",
		EntityID: &d.ID,
		Metadata: map[string]any{"location": location, "documents": len(ids)},
	})

	return uc.repo.GetDealForOwner(ctx, d.ID, ownerID)
}

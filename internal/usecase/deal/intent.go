package deal

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	domain "github.com/BruksfildServices01/wealth-crm/internal/domain/deal"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

const (
	OpSendKYCRequest   = "send_kyc_request"
	OpArchiveDocuments = "archive_documents"
)

// intents records the external-call-then-write steps of a workflow
// operation so a call that succeeded before a failed write can be found.
type intents struct {
	repo   domain.Repository
	logger *zap.Logger
}

func (i intents) begin(ctx context.Context, dealID uint, op string, payload any) (*models.WorkflowIntent, error) {
	var raw datatypes.JSON
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			raw = datatypes.JSON(b)
		}
	}

	intent := &models.WorkflowIntent{
		DealID:    dealID,
		Operation: op,
		Status:    models.IntentPending,
		Payload:   raw,
	}
	if err := i.repo.CreateIntent(ctx, intent); err != nil {
		return nil, err
	}
	return intent, nil
}

// mark never fails the operation; a stale status is what the sweep is for.
func (i intents) mark(ctx context.Context, intent *models.WorkflowIntent, status models.IntentStatus, ref, errMsg string) {
	if err := i.repo.UpdateIntent(ctx, intent.ID, status, ref, errMsg); err != nil {
		i.logger.Warn("update workflow intent failed",
			zap.String("intent_id", intent.ID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
	}
}

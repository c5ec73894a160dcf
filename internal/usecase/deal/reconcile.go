package deal

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/wealth-crm/internal/audit"
	domain "github.com/BruksfildServices01/wealth-crm/internal/domain/deal"
	"github.com/BruksfildServices01/wealth-crm/internal/timezone"
)

// Reconciler reports workflow intents that never reached a final status.
// It does not retry the external call.
type Reconciler struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	logger *zap.Logger
	clock  timezone.Clock
}

func NewReconciler(
	repo domain.Repository,
	audit *audit.Dispatcher,
	logger *zap.Logger,
	clock timezone.Clock,
) *Reconciler {
	if clock == nil {
		clock = timezone.SystemClock
	}
	return &Reconciler{repo: repo, audit: audit, logger: logger, clock: clock}
}

// Sweep returns how many stuck intents it reported.
func (r *Reconciler) Sweep(ctx context.Context, olderThan time.Duration) (int, error) {
	stale, err := r.repo.ListStaleIntents(ctx, r.clock().Add(-olderThan))
	if err != nil {
		return 0, err
	}

	for _, intent := range stale {
		fields := []zap.Field{
			zap.String("intent_id", intent.ID),
			zap.Uint("deal_id", intent.DealID),
			zap.String("operation", intent.Operation),
			zap.String("status", string(intent.Status)),
			zap.Time("updated_at", intent.UpdatedAt),
		}
		if intent.ExternalRef != "" {
			fields = append(fields, zap.String("external_ref", intent.ExternalRef))
		}
		r.logger.Warn("workflow intent stuck", fields...)

		if intent.Deal == nil {
			continue
		}
		dealID := intent.DealID
		r.audit.Dispatch(audit.Event{
			OwnerID:  intent.Deal.OwnerID,
			Action:   audit.ActionIntentStuck,
			Entity:   "deal",
			EntityID: &dealID,
			Metadata: map[string]any{
				"intent_id":    intent.ID,
				"operation":    intent.Operation,
				"status":       intent.Status,
				"external_ref": intent.ExternalRef,
			},
		})
	}

	return len(stale), nil
}

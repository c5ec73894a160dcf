package booking

import (
	"context"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/wealth-crm/internal/audit"
	domain "github.com/BruksfildServices01/wealth-crm/internal/domain/booking"
	"github.com/BruksfildServices01/wealth-crm/internal/timezone"
)

const completeBatchSize = 200

// CompletePastBookings moves CONFIRMED bookings whose end time has passed
// to COMPLETED. Run by the scheduler.
type CompletePastBookings struct {
	repo    domain.Repository
	effects *Effects
	clock   timezone.Clock
}

func NewCompletePastBookings(repo domain.Repository, effects *Effects, clock timezone.Clock) *CompletePastBookings {
	if clock == nil {
		clock = timezone.SystemClock
	}
	return &CompletePastBookings{repo: repo, effects: orNoEffects(effects), clock: clock}
}

// Execute returns how many bookings were completed.
func (uc *CompletePastBookings) Execute(ctx context.Context) (int, error) {
	now := uc.clock().UTC()

	bookings, err := uc.repo.ListConfirmedEndedBefore(ctx, now, completeBatchSize)
	if err != nil {
		return 0, err
	}

	done := 0
	for i := range bookings {
		b := &bookings[i]
		if err := domain.Complete(b, now); err != nil {
			continue
		}
		if err := uc.repo.UpdateBooking(ctx, b); err != nil {
			uc.effects.logger().Warn("complete booking failed", zap.Uint("booking_id", b.ID), zap.Error(err))
			continue
		}

		var ownerID uint
		if b.Template != nil {
			ownerID = b.Template.OwnerID
		}
		uc.effects.record(ownerID, nil, audit.ActionBookingCompleted, b)
		done++
	}

	return done, nil
}

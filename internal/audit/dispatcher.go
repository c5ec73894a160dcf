package audit

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Actions
const (
	ActionBookingCreated   = "booking_created"
	ActionBookingConfirmed = "booking_confirmed"
	ActionBookingCancelled = "booking_cancelled"
	ActionBookingNoShow    = "booking_no_show"
	ActionBookingCompleted = "booking_completed"

	ActionTemplateSaved       = "template_saved"
	ActionTemplateDeactivated = "template_deactivated"

	ActionDealCreated      = "deal_created"
	ActionKYCRequested     = "kyc_requested"
	ActionKYCDecided       = "kyc_decided"
	ActionDocsArchived     = "documents_archived"
	ActionDealProgressed   = "deal_progressed"
	ActionDealStageSet     = "deal_stage_set"
	ActionIntentStuck      = "workflow_intent_stuck"
	ActionDocumentReviewed = "document_reviewed"
)

type Event struct {
	OwnerID  uint
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

type Dispatcher struct {
	logger *Logger
	log    *zap.Logger
	queue  chan Event
	wg     sync.WaitGroup
}

func NewDispatcher(logger *Logger, log *zap.Logger, size int) *Dispatcher {
	if size <= 0 {
		size = 100
	}
	d := &Dispatcher{
		logger: logger,
		log:    log,
		queue:  make(chan Event, size),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.logger.Log(context.Background(), ev); err != nil {
			d.log.Warn("audit write failed",
				zap.String("action", ev.Action),
				zap.Error(err),
			)
		}
	}
}

// Dispatch never blocks the caller; a full queue drops the event.
// A nil dispatcher discards everything.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close drains the queue and stops the worker.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	close(d.queue)
	d.wg.Wait()
}

func UintPtr(v uint) *uint {
	return &v
}

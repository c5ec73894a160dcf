package deal

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/wealth-crm/internal/audit"
	domain "github.com/BruksfildServices01/wealth-crm/internal/domain/deal"
	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
	"github.com/BruksfildServices01/wealth-crm/internal/timezone"
)

type SendKYCRequest struct {
	repo     domain.Repository
	notifier Notifier
	audit    *audit.Dispatcher
	logger   *zap.Logger
	clock    timezone.Clock
}

func NewSendKYCRequest(
	repo domain.Repository,
	notifier Notifier,
	audit *audit.Dispatcher,
	logger *zap.Logger,
	clock timezone.Clock,
) *SendKYCRequest {
	if clock == nil {
		clock = timezone.SystemClock
	}
	return &SendKYCRequest{
		repo:     repo,
		notifier: notifier,
		audit:    audit,
		logger:   logger,
		clock:    clock,
	}
}

func (uc *SendKYCRequest) Execute(
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
	if err := domain.CheckSendKYC(current); err != nil {
		return nil, err
	}

	if d.Contact == nil || d.Contact.Email == "" {
		return nil, &httperr.InvalidStateError{
			Operation: "send KYC request",
			Current:   "deal has no contact email",
			Required:  "a contact with an email address",
		}
	}
	to := d.Contact.Email

	// --------------------------------------------------
	// External call
	// --------------------------------------------------
	in := intents{repo: uc.repo, logger: uc.logger}
	intent, err := in.begin(ctx, d.ID, OpSendKYCRequest, map[string]any{"to": to})
	if err != nil {
		return nil, err
	}

	subject, body := kycRequestMessage(d, uc.clock())
	if err := uc.notifier.SendEmail(ctx, to, subject, body); err != nil {
		in.mark(ctx, intent, models.IntentFailed, "", err.Error())
		uc.logger.Warn("kyc request email failed", zap.Uint("deal_id", d.ID), zap.Error(err))
		return nil, &httperr.DeliveryError{Cause: err}
	}
	in.mark(ctx, intent, models.IntentDelivered, to, "")

	// --------------------------------------------------
	// Conditional write
	// --------------------------------------------------
	next := domain.AfterKYCSent(current)
	if err := uc.repo.CommitTransition(ctx, domain.Transition{
		DealID:    d.ID,
		Expected:  current,
		Next:      next,
		ChangedBy: ownerID,
		Reason:    OpSendKYCRequest,
		At:        uc.clock(),
	}); err != nil {
		uc.logger.Error("kyc request sent but state write failed",
			zap.Uint("deal_id", d.ID),
			zap.String("intent_id", intent.ID),
			zap.Error(err),
		)
		return nil, err
	}
	in.mark(ctx, intent, models.IntentCommitted, "", "")

	uc.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		UserID:   &ownerID,
		Action:   audit.ActionKYCRequested,
		Entity:   "deal",
		EntityID: &d.ID,
		Metadata: map[string]any{"to": to, "from": current, "to_state": next},
	})

	return uc.repo.GetDealForOwner(ctx, d.ID, ownerID)
}

func kycRequestMessage(d *models.Deal, now time.Time) (string, string) {
	name := "there"
	if d.Contact != nil && d.Contact.Name != "" {
		name = d.Contact.Name
	}
	return "Identity verification request",
		fmt.Sprintf("Hi %s,\n\nTo continue with %q we need to verify your identity (KYC/AML).\n"+
			"Please reply with a copy of a government-issued ID, a recent proof of address "+
			"and a short statement of the source of funds.\n\nSent %s.\n",
			name, d.Name, now.UTC().Format("2 January 2006"))
}

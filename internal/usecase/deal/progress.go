package deal

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/wealth-crm/internal/audit"
	domain "github.com/BruksfildServices01/wealth-crm/internal/domain/deal"
	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
	"github.com/BruksfildServices01/wealth-crm/internal/timezone"
)

// ======================================================
// AUTO PROGRESS
// ======================================================

type ProgressResult struct {
	Deal     *models.Deal `json:"deal"`
	Advanced bool         `json:"advanced"`
	Message  string       `json:"message"`
}

type AutoProgress struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	logger *zap.Logger
	clock  timezone.Clock
}

func NewAutoProgress(
	repo domain.Repository,
	audit *audit.Dispatcher,
	logger *zap.Logger,
	clock timezone.Clock,
) *AutoProgress {
	if clock == nil {
		clock = timezone.SystemClock
	}
	return &AutoProgress{repo: repo, audit: audit, logger: logger, clock: clock}
}

// Execute advances at most one stage. Unmet criteria are reported in the
// result, not as an error.
func (uc *AutoProgress) Execute(
	ctx context.Context,
	ownerID uint,
	dealID uint,
) (*ProgressResult, error) {

	d, err := uc.repo.GetDealForOwner(ctx, dealID, ownerID)
	if err != nil {
		return nil, err
	}

	signed := false
	if d.Stage == models.StageContractSigning {
		if signed, err = uc.repo.HasSignedContract(ctx, d.ID); err != nil {
			return nil, err
		}
	}

	step := domain.PlanAutoProgress(domain.StateOf(d), domain.FactsOf(d, signed))
	if !step.Advanced {
		return &ProgressResult{Deal: d, Message: step.Message}, nil
	}

	if err := uc.repo.CommitTransition(ctx, domain.Transition{
		DealID:    d.ID,
		Expected:  step.From,
		Next:      step.To,
		ChangedBy: ownerID,
		Reason:    "auto_progress",
		At:        uc.clock(),
	}); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		UserID:   &ownerID,
		Action:   audit.ActionDealProgressed,
		Entity:   "deal",
		EntityID: &d.ID,
		Metadata: step,
	})
	uc.logger.Info("deal progressed",
		zap.Uint("deal_id", d.ID),
		zap.String("from", string(step.From.Stage)),
		zap.String("to", string(step.To.Stage)),
	)

	updated, err := uc.repo.GetDealForOwner(ctx, d.ID, ownerID)
	if err != nil {
		return nil, err
	}
	return &ProgressResult{Deal: updated, Advanced: true, Message: step.Message}, nil
}

// ======================================================
// SET STAGE (manual override)
// ======================================================

type SetStage struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewSetStage(repo domain.Repository, audit *audit.Dispatcher, clock timezone.Clock) *SetStage {
	if clock == nil {
		clock = timezone.SystemClock
	}
	return &SetStage{repo: repo, audit: audit, clock: clock}
}

// Execute moves the deal to any valid stage, skipping the pipeline guards.
func (uc *SetStage) Execute(
	ctx context.Context,
	ownerID uint,
	dealID uint,
	stage string,
) (*models.Deal, error) {

	to, err := domain.ParseStage(stage)
	if err != nil {
		return nil, err
	}

	d, err := uc.repo.GetDealForOwner(ctx, dealID, ownerID)
	if err != nil {
		return nil, err
	}
	if d.Stage == to {
		return d, nil
	}

	current := domain.StateOf(d)
	if err := uc.repo.CommitTransition(ctx, domain.Transition{
		DealID:    d.ID,
		Expected:  current,
		Next:      domain.State{Stage: to, KYCStatus: current.KYCStatus},
		ChangedBy: ownerID,
		Reason:    "manual",
		At:        uc.clock(),
	}); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		UserID:   &ownerID,
		Action:   audit.ActionDealStageSet,
		Entity:   "deal",
		EntityID: &d.ID,
		Metadata: map[string]any{"from": d.Stage, "to": to},
	})

	return uc.repo.GetDealForOwner(ctx, d.ID, ownerID)
}

// ======================================================
// KYC DECISION
// ======================================================

type RecordKYCDecision struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewRecordKYCDecision(repo domain.Repository, audit *audit.Dispatcher, clock timezone.Clock) *RecordKYCDecision {
	if clock == nil {
		clock = timezone.SystemClock
	}
	return &RecordKYCDecision{repo: repo, audit: audit, clock: clock}
}

// Execute accepts "verified" or "rejected".
func (uc *RecordKYCDecision) Execute(
	ctx context.Context,
	ownerID uint,
	dealID uint,
	decision string,
) (*models.Deal, error) {

	status, err := domain.ParseKYCStatus(strings.ToUpper(decision))
	if err != nil || (status != models.KYCVerified && status != models.KYCRejected) {
		return nil, httperr.ErrBusiness("invalid_kyc_decision")
	}
	verified := status == models.KYCVerified

	d, err := uc.repo.GetDealForOwner(ctx, dealID, ownerID)
	if err != nil {
		return nil, err
	}

	current := domain.StateOf(d)
	next, err := domain.CheckKYCDecision(current, verified)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.CommitTransition(ctx, domain.Transition{
		DealID:    d.ID,
		Expected:  current,
		Next:      next,
		ChangedBy: ownerID,
		Reason:    "kyc_decision",
		At:        uc.clock(),
	}); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		UserID:   &ownerID,
		Action:   audit.ActionKYCDecided,
		Entity:   "deal",
		EntityID: &d.ID,
		Metadata: map[string]any{"kyc_status": next.KYCStatus},
	})

	return uc.repo.GetDealForOwner(ctx, d.ID, ownerID)
}

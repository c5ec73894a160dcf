package deal

import (
	"fmt"

	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

// ===============================
// Stage
// ===============================

func ParseStage(s string) (models.DealStage, error) {
	st := models.DealStage(s)
	if !ValidStage(st) {
		return "", httperr.ErrBusiness("invalid_stage")
	}
	return st, nil
}

func ValidStage(s models.DealStage) bool {
	switch s {
	case models.StageNewLead,
		models.StageKYCInProgress,
		models.StageDueDiligence,
		models.StageContractSigning,
		models.StageOnboarded,
		models.StageRejected:
		return true
	}
	return false
}

// IsTerminal: ONBOARDED and REJECTED accept no guarded transition.
func IsTerminal(s models.DealStage) bool {
	switch s {
	case models.StageOnboarded, models.StageRejected:
		return true
	case models.StageNewLead,
		models.StageKYCInProgress,
		models.StageDueDiligence,
		models.StageContractSigning:
		return false
	}
	panic(fmt.Sprintf("deal: unknown stage %q", s))
}

// NextStage is the forward edge of the pipeline.
func NextStage(s models.DealStage) (models.DealStage, bool) {
	switch s {
	case models.StageNewLead:
		return models.StageKYCInProgress, true
	case models.StageKYCInProgress:
		return models.StageDueDiligence, true
	case models.StageDueDiligence:
		return models.StageContractSigning, true
	case models.StageContractSigning:
		return models.StageOnboarded, true
	case models.StageOnboarded, models.StageRejected:
		return "", false
	}
	panic(fmt.Sprintf("deal: unknown stage %q", s))
}

// CanTransition reports whether from→to is a guarded pipeline edge.
// REJECTED is reachable from every non-terminal stage.
func CanTransition(from, to models.DealStage) bool {
	if IsTerminal(from) {
		return false
	}
	if to == models.StageRejected {
		return true
	}
	next, ok := NextStage(from)
	return ok && next == to
}

// ===============================
// KYC
// ===============================

func ParseKYCStatus(s string) (models.KYCStatus, error) {
	switch st := models.KYCStatus(s); st {
	case models.KYCPending, models.KYCSubmitted, models.KYCVerified, models.KYCRejected:
		return st, nil
	}
	return "", httperr.ErrBusiness("invalid_kyc_status")
}

func CanTransitionKYC(from, to models.KYCStatus) bool {
	switch from {
	case models.KYCPending:
		return to == models.KYCSubmitted || to == models.KYCRejected
	case models.KYCSubmitted:
		return to == models.KYCVerified || to == models.KYCRejected
	case models.KYCVerified, models.KYCRejected:
		return false
	}
	panic(fmt.Sprintf("deal: unknown kyc status %q", from))
}

package deal

import (
	"fmt"
	"strings"

	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
)

// State is the pair of fields every workflow write is conditioned on.
type State struct {
	Stage     models.DealStage `json:"stage"`
	KYCStatus models.KYCStatus `json:"kyc_status"`
}

func StateOf(d *models.Deal) State {
	return State{Stage: d.Stage, KYCStatus: d.KYCStatus}
}

func (s State) String() string {
	return fmt.Sprintf("stage %s, kyc %s", s.Stage, s.KYCStatus)
}

// Facts are the stored details auto-progress looks at besides the state.
type Facts struct {
	DocumentsArchived bool
	DiligenceNotes    string
	HasSignedContract bool
}

func FactsOf(d *models.Deal, hasSignedContract bool) Facts {
	return Facts{
		DocumentsArchived: d.DocumentsArchivedAt != nil,
		DiligenceNotes:    d.DiligenceNotes,
		HasSignedContract: hasSignedContract,
	}
}

// ===============================
// Send KYC request
// ===============================

func CheckSendKYC(s State) error {
	switch s.Stage {
	case models.StageNewLead, models.StageKYCInProgress:
		return nil
	}
	return &httperr.InvalidStateError{
		Operation: "send KYC request",
		Current:   s.String(),
		Required:  "stage NEW_LEAD or KYC_IN_PROGRESS",
	}
}

// AfterKYCSent is the state once the request email went out.
func AfterKYCSent(s State) State {
	next := State{Stage: models.StageKYCInProgress, KYCStatus: s.KYCStatus}
	if s.KYCStatus == models.KYCPending {
		next.KYCStatus = models.KYCSubmitted
	}
	return next
}

// ===============================
// Archive verified documents
// ===============================

func CheckArchive(s State) error {
	if s.KYCStatus == models.KYCVerified && s.Stage == models.StageKYCInProgress {
		return nil
	}
	return &httperr.InvalidStateError{
		Operation: "archive documents",
		Current:   s.String(),
		Required:  "KYC status VERIFIED and stage KYC_IN_PROGRESS",
	}
}

func AfterArchive(s State) State {
	return State{Stage: models.StageDueDiligence, KYCStatus: s.KYCStatus}
}

// ===============================
// KYC decision
// ===============================

// CheckKYCDecision returns the KYC status a verified/rejected decision
// leads to.
func CheckKYCDecision(s State, verified bool) (State, error) {
	to := models.KYCRejected
	required := "KYC status PENDING or SUBMITTED"
	if verified {
		to = models.KYCVerified
		required = "KYC status SUBMITTED"
	}

	if !CanTransitionKYC(s.KYCStatus, to) {
		return s, &httperr.InvalidStateError{
			Operation: "record KYC decision " + string(to),
			Current:   s.String(),
			Required:  required,
		}
	}
	return State{Stage: s.Stage, KYCStatus: to}, nil
}

// ===============================
// Auto progress
// ===============================

// Step is the outcome of an auto-progress evaluation. Advanced=false is a
// no-op and Message says which criterion is missing.
type Step struct {
	From     State  `json:"from"`
	To       State  `json:"to"`
	Advanced bool   `json:"advanced"`
	Message  string `json:"message"`
}

// PlanAutoProgress advances at most one stage.
func PlanAutoProgress(s State, f Facts) Step {
	step := Step{From: s, To: s}

	if IsTerminal(s.Stage) {
		step.Message = fmt.Sprintf("deal is %s; nothing to progress", s.Stage)
		return step
	}

	var ok bool
	switch s.Stage {
	case models.StageNewLead:
		ok = s.KYCStatus != models.KYCPending
		step.Message = "KYC request has not been sent yet"
	case models.StageKYCInProgress:
		ok = s.KYCStatus == models.KYCVerified && f.DocumentsArchived
		step.Message = "KYC must be VERIFIED and documents archived"
	case models.StageDueDiligence:
		ok = strings.TrimSpace(f.DiligenceNotes) != ""
		step.Message = "due diligence notes are empty"
	case models.StageContractSigning:
		ok = f.HasSignedContract
		step.Message = "no signed contract on file"
	}

	if !ok {
		return step
	}

	next, _ := NextStage(s.Stage)
	step.To = State{Stage: next, KYCStatus: s.KYCStatus}
	step.Advanced = true
	step.Message = fmt.Sprintf("advanced from %s to %s", s.Stage, next)
	return step
}

package deal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/infra/repository"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
	"github.com/BruksfildServices01/wealth-crm/internal/testutil"
)

// ======================================================
// FAKES
// ======================================================

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) SendEmail(ctx context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeArchiver struct {
	calls int
	docs  []models.Document
	err   error
}

func (f *fakeArchiver) ArchiveDocuments(ctx context.Context, dealID uint, docs []models.Document) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	f.docs = docs
	return "s3://vault/archive/deal-1/", nil
}

var now = time.Date(2030, 1, 7, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

type fixture struct {
	db    *gorm.DB
	repo  *repository.DealGormRepository
	owner *models.User
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	return fixture{
		db:    db,
		repo:  repository.NewDealGormRepository(db),
		owner: testutil.CreateUser(t, db, "advisor@example.com"),
	}
}

func (f fixture) reload(t *testing.T, id uint) *models.Deal {
	t.Helper()
	d, err := f.repo.GetDealForOwner(context.Background(), id, f.owner.ID)
	if err != nil {
		t.Fatalf("reload deal: %v", err)
	}
	return d
}

func (f fixture) intents(t *testing.T, dealID uint) []models.WorkflowIntent {
	t.Helper()
	var out []models.WorkflowIntent
	if err := f.db.Where("deal_id = ?", dealID).Order("created_at ASC").Find(&out).Error; err != nil {
		t.Fatalf("list intents: %v", err)
	}
	return out
}

func (f fixture) addDocument(t *testing.T, dealID uint, kind models.DocumentKind, status models.DocumentStatus, signed bool) *models.Document {
	t.Helper()
	doc := &models.Document{
		DealID:     dealID,
		Kind:       kind,
		Status:     status,
		FileName:   strings.ToLower(string(kind)) + ".pdf",
		StorageKey: "uploads/" + strings.ToLower(string(kind)) + ".pdf",
		Signed:     signed,
	}
	if err := f.db.Create(doc).Error; err != nil {
		t.Fatalf("create document: %v", err)
	}
	return doc
}

// ======================================================
// SEND KYC REQUEST
// ======================================================

func TestSendKYCRequest_FromNewLead(t *testing.T) {
	f := setup(t)
	d := testutil.CreateDeal(t, f.db, f.owner.ID, models.StageNewLead, models.KYCPending)
	notifier := &fakeNotifier{}

	uc := NewSendKYCRequest(f.repo, notifier, nil, testutil.Logger(), clock)
	got, err := uc.Execute(context.Background(), f.owner.ID, d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Stage != models.StageKYCInProgress || got.KYCStatus != models.KYCSubmitted {
		t.Fatalf("unexpected state %s/%s", got.Stage, got.KYCStatus)
	}
	if got.Version != 2 {
		t.Fatalf("expected version 2, got %d", got.Version)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(notifier.sent))
	}

	intents := f.intents(t, d.ID)
	if len(intents) != 1 || intents[0].Status != models.IntentCommitted {
		t.Fatalf("expected one committed intent, got %+v", intents)
	}
}

func TestSendKYCRequest_ResendKeepsKYCStatus(t *testing.T) {
	f := setup(t)
	d := testutil.CreateDeal(t, f.db, f.owner.ID, models.StageKYCInProgress, models.KYCVerified)

	uc := NewSendKYCRequest(f.repo, &fakeNotifier{}, nil, testutil.Logger(), clock)
	got, err := uc.Execute(context.Background(), f.owner.ID, d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Stage != models.StageKYCInProgress || got.KYCStatus != models.KYCVerified {
		t.Fatalf("unexpected state %s/%s", got.Stage, got.KYCStatus)
	}
}

func TestSendKYCRequest_RejectedOutsideStage(t *testing.T) {
	f := setup(t)
	d := testutil.CreateDeal(t, f.db, f.owner.ID, models.StageDueDiligence, models.KYCVerified)
	notifier := &fakeNotifier{}

	uc := NewSendKYCRequest(f.repo, notifier, nil, testutil.Logger(), clock)
	_, err := uc.Execute(context.Background(), f.owner.ID, d.ID)

	if !httperr.IsInvalidState(err) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
	if !strings.Contains(err.Error(), "DUE_DILIGENCE") {
		t.Fatalf("error should name the current stage: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("no email should be sent")
	}

	after := f.reload(t, d.ID)
	if after.Stage != models.StageDueDiligence || after.Version != 1 {
		t.Fatalf("deal must be unchanged, got %s v%d", after.Stage, after.Version)
	}
}

func TestSendKYCRequest_DeliveryFailureLeavesStateUnchanged(t *testing.T) {
	f := setup(t)
	d := testutil.CreateDeal(t, f.db, f.owner.ID, models.StageNewLead, models.KYCPending)

	uc := NewSendKYCRequest(f.repo, &fakeNotifier{err: errors.New("smtp down")}, nil, testutil.Logger(), clock)
	_, err := uc.Execute(context.Background(), f.owner.ID, d.ID)

	var delivery *httperr.DeliveryError
	if !errors.As(err, &delivery) {
		t.Fatalf("expected DeliveryError, got %v", err)
	}

	after := f.reload(t, d.ID)
	if after.Stage != models.StageNewLead || after.KYCStatus != models.KYCPending {
		t.Fatalf("deal must be unchanged, got %s/%s", after.Stage, after.KYCStatus)
	}

	intents := f.intents(t, d.ID)
	if len(intents) != 1 || intents[0].Status != models.IntentFailed {
		t.Fatalf("expected one failed intent, got %+v", intents)
	}
	if !strings.Contains(intents[0].Error, "smtp down") {
		t.Fatalf("intent should keep the failure, got %q", intents[0].Error)
	}
}

func TestSendKYCRequest_OtherOwner(t *testing.T) {
	f := setup(t)
	d := testutil.CreateDeal(t, f.db, f.owner.ID, models.StageNewLead, models.KYCPending)
	other := testutil.CreateUser(t, f.db, "other@example.com")

	uc := NewSendKYCRequest(f.repo, &fakeNotifier{}, nil, testutil.Logger(), clock)
	if _, err := uc.Execute(context.Background(), other.ID, d.ID); !httperr.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

// ======================================================
// ARCHIVE
// ======================================================

func TestArchive_OnlyVerifiedDocuments(t *testing.T) {
	f := setup(t)
	d := testutil.CreateDeal(t, f.db, f.owner.ID, models.StageKYCInProgress, models.KYCVerified)
	verified := f.addDocument(t, d.ID, models.DocumentKYCID, models.DocumentVerified, false)
	f.addDocument(t, d.ID, models.DocumentProofOfAddress, models.DocumentPending, false)
	archiver := &fakeArchiver{}

	uc := NewArchiveVerifiedDocuments(f.repo, archiver, nil, testutil.Logger(), clock)
	got, err := uc.Execute(context.Background(), f.owner.ID, d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Stage != models.StageDueDiligence || got.KYCStatus != models.KYCVerified {
		t.Fatalf("unexpected state %s/%s", got.Stage, got.KYCStatus)
	}
	if got.DocumentsArchivedAt == nil || got.ArchiveLocation == "" {
		t.Fatalf("archive bookkeeping missing")
	}
	if len(archiver.docs) != 1 || archiver.docs[0].ID != verified.ID {
		t.Fatalf("only the verified document should be archived, got %+v", archiver.docs)
	}

	var doc models.Document
	f.db.First(&doc, verified.ID)
	if doc.ArchivedAt == nil {
		t.Fatalf("archived document should be stamped")
	}
}

func TestArchive_RequiresVerifiedKYC(t *testing.T) {
	cases := []struct {
		stage models.DealStage
		kyc   models.KYCStatus
	}{
		{models.StageKYCInProgress, models.KYCSubmitted},
		{models.StageNewLead, models.KYCVerified},
		{models.StageDueDiligence, models.KYCVerified},
	}

	for _, tc := range cases {
		t.Run(string(tc.stage)+"_"+string(tc.kyc), func(t *testing.T) {
			f := setup(t)
			d := testutil.CreateDeal(t, f.db, f.owner.ID, tc.stage, tc.kyc)
			archiver := &fakeArchiver{}

			uc := NewArchiveVerifiedDocuments(f.repo, archiver, nil, testutil.Logger(), clock)
			if _, err := uc.Execute(context.Background(), f.owner.ID, d.ID); !httperr.IsInvalidState(err) {
				t.Fatalf("expected InvalidStateError, got %v", err)
			}
			if archiver.calls != 0 {
				t.Fatalf("archiver must not be called")
			}
		})
	}
}

func TestArchive_FailureLeavesStateUnchanged(t *testing.T) {
	f := setup(t)
	d := testutil.CreateDeal(t, f.db, f.owner.ID, models.StageKYCInProgress, models.KYCVerified)
	f.addDocument(t, d.ID, models.DocumentKYCID, models.DocumentVerified, false)

	uc := NewArchiveVerifiedDocuments(f.repo, &fakeArchiver{err: errors.New("bucket gone")}, nil, testutil.Logger(), clock)
	_, err := uc.Execute(context.Background(), f.owner.ID, d.ID)

	var archiveErr *httperr.ArchiveError
	if !errors.As(err, &archiveErr) {
		t.Fatalf("expected ArchiveError, got %v", err)
	}

	after := f.reload(t, d.ID)
	if after.Stage != models.StageKYCInProgress || after.DocumentsArchivedAt != nil {
		t.Fatalf("deal must be unchanged")
	}
	if intents := f.intents(t, d.ID); len(intents) != 1 || intents[0].Status != models.IntentFailed {
		t.Fatalf("expected one failed intent, got %+v", intents)
	}
}

// ======================================================
// KYC DECISION / AUTO PROGRESS / SET STAGE
// ======================================================

func TestRecordKYCDecision(t *testing.T) {
	f := setup(t)
	d := testutil.CreateDeal(t, f.db, f.owner.ID, models.StageKYCInProgress, models.KYCSubmitted)

	uc := NewRecordKYCDecision(f.repo, nil, clock)
	got, err := uc.Execute(context.Background(), f.owner.ID, d.ID, "verified")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.KYCStatus != models.KYCVerified {
		t.Fatalf("expected VERIFIED, got %s", got.KYCStatus)
	}

	if _, err := uc.Execute(context.Background(), f.owner.ID, d.ID, "verified"); !httperr.IsInvalidState(err) {
		t.Fatalf("second verification should be rejected, got %v", err)
	}
	if _, err := uc.Execute(context.Background(), f.owner.ID, d.ID, "maybe"); !httperr.IsBusiness(err, "invalid_kyc_decision") {
		t.Fatalf("expected invalid_kyc_decision, got %v", err)
	}
}

func TestAutoProgress_WalksThePipeline(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	d := testutil.CreateDeal(t, f.db, f.owner.ID, models.StageNewLead, models.KYCPending)
	progress := NewAutoProgress(f.repo, nil, testutil.Logger(), clock)

	res, err := progress.Execute(ctx, f.owner.ID, d.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Advanced || res.Deal.Stage != models.StageNewLead {
		t.Fatalf("NEW_LEAD with KYC PENDING must not advance")
	}
	if res.Message == "" {
		t.Fatalf("no-op should explain the missing criterion")
	}

	if _, err := NewSendKYCRequest(f.repo, &fakeNotifier{}, nil, testutil.Logger(), clock).Execute(ctx, f.owner.ID, d.ID); err != nil {
		t.Fatalf("send kyc: %v", err)
	}
	if _, err := NewRecordKYCDecision(f.repo, nil, clock).Execute(ctx, f.owner.ID, d.ID, "verified"); err != nil {
		t.Fatalf("kyc decision: %v", err)
	}

	res, _ = progress.Execute(ctx, f.owner.ID, d.ID)
	if res.Advanced {
		t.Fatalf("KYC_IN_PROGRESS without archived documents must not advance")
	}

	if _, err := NewArchiveVerifiedDocuments(f.repo, &fakeArchiver{}, nil, testutil.Logger(), clock).Execute(ctx, f.owner.ID, d.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	res, _ = progress.Execute(ctx, f.owner.ID, d.ID)
	if res.Advanced {
		t.Fatalf("DUE_DILIGENCE without notes must not advance")
	}

	if _, err := NewUpdateDiligenceNotes(f.repo).Execute(ctx, f.owner.ID, d.ID, "source of wealth confirmed"); err != nil {
		t.Fatalf("notes: %v", err)
	}
	res, err = progress.Execute(ctx, f.owner.ID, d.ID)
	if err != nil || !res.Advanced || res.Deal.Stage != models.StageContractSigning {
		t.Fatalf("expected CONTRACT_SIGNING, got %+v err=%v", res, err)
	}

	res, _ = progress.Execute(ctx, f.owner.ID, d.ID)
	if res.Advanced {
		t.Fatalf("CONTRACT_SIGNING without a signed contract must not advance")
	}

	f.addDocument(t, d.ID, models.DocumentContract, models.DocumentPending, true)
	res, err = progress.Execute(ctx, f.owner.ID, d.ID)
	if err != nil || !res.Advanced || res.Deal.Stage != models.StageOnboarded {
		t.Fatalf("expected ONBOARDED, got %+v err=%v", res, err)
	}

	res, _ = progress.Execute(ctx, f.owner.ID, d.ID)
	if res.Advanced {
		t.Fatalf("terminal stage must not advance")
	}

	history, err := NewStageHistory(f.repo).Execute(ctx, f.owner.ID, d.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("expected 4 history rows, got %d", len(history))
	}
}

func TestSetStage(t *testing.T) {
	f := setup(t)
	d := testutil.CreateDeal(t, f.db, f.owner.ID, models.StageNewLead, models.KYCPending)
	uc := NewSetStage(f.repo, nil, clock)

	got, err := uc.Execute(context.Background(), f.owner.ID, d.ID, "REJECTED")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Stage != models.StageRejected || got.KYCStatus != models.KYCPending {
		t.Fatalf("unexpected state %s/%s", got.Stage, got.KYCStatus)
	}

	if _, err := uc.Execute(context.Background(), f.owner.ID, d.ID, "WON"); !httperr.IsBusiness(err, "invalid_stage") {
		t.Fatalf("expected invalid_stage, got %v", err)
	}
}

// ======================================================
// MANAGE
// ======================================================

func TestCreateDeal(t *testing.T) {
	f := setup(t)
	contact := &models.Contact{OwnerID: f.owner.ID, Name: "Ada", Email: "ada@example.com"}
	f.db.Create(contact)

	got, err := NewCreateDeal(f.repo, nil).Execute(context.Background(), f.owner.ID, CreateDealInput{
		Name:      "  Family office  ",
		ContactID: &contact.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Family office" || got.Stage != models.StageNewLead || got.KYCStatus != models.KYCPending {
		t.Fatalf("unexpected deal %+v", got)
	}
	if got.Contact == nil || got.Contact.ID != contact.ID {
		t.Fatalf("contact not linked")
	}

	other := testutil.CreateUser(t, f.db, "other@example.com")
	_, err = NewCreateDeal(f.repo, nil).Execute(context.Background(), other.ID, CreateDealInput{
		Name:      "Steal",
		ContactID: &contact.ID,
	})
	if !httperr.IsNotFound(err) {
		t.Fatalf("expected NotFound for a foreign contact, got %v", err)
	}
}

func TestReviewDocument(t *testing.T) {
	f := setup(t)
	d := testutil.CreateDeal(t, f.db, f.owner.ID, models.StageKYCInProgress, models.KYCSubmitted)

	doc, err := NewAddDocument(f.repo).Execute(context.Background(), f.owner.ID, d.ID, AddDocumentInput{
		Kind:       "kyc_id",
		FileName:   "passport.pdf",
		StorageKey: "uploads/passport.pdf",
	})
	if err != nil {
		t.Fatalf("add document: %v", err)
	}
	if doc.Kind != models.DocumentKYCID || doc.Status != models.DocumentPending {
		t.Fatalf("unexpected document %+v", doc)
	}

	review := NewReviewDocument(f.repo, nil)
	got, err := review.Execute(context.Background(), f.owner.ID, d.ID, doc.ID, "verified")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if got.Status != models.DocumentVerified {
		t.Fatalf("expected VERIFIED, got %s", got.Status)
	}

	if _, err := review.Execute(context.Background(), f.owner.ID, d.ID, doc.ID, "lost"); !httperr.IsBusiness(err, "invalid_document_decision") {
		t.Fatalf("expected invalid_document_decision, got %v", err)
	}
	if _, err := NewAddDocument(f.repo).Execute(context.Background(), f.owner.ID, d.ID, AddDocumentInput{
		Kind: "selfie", FileName: "a.jpg", StorageKey: "k",
	}); !httperr.IsBusiness(err, "invalid_document_kind") {
		t.Fatalf("expected invalid_document_kind, got %v", err)
	}
}

// ======================================================
// RECONCILE
// ======================================================

func TestReconcilerReportsStuckIntents(t *testing.T) {
	f := setup(t)
	d := testutil.CreateDeal(t, f.db, f.owner.ID, models.StageNewLead, models.KYCPending)

	stuck := &models.WorkflowIntent{DealID: d.ID, Operation: OpSendKYCRequest, Status: models.IntentDelivered}
	done := &models.WorkflowIntent{DealID: d.ID, Operation: OpSendKYCRequest, Status: models.IntentCommitted}
	for _, i := range []*models.WorkflowIntent{stuck, done} {
		if err := f.db.Create(i).Error; err != nil {
			t.Fatalf("create intent: %v", err)
		}
	}
	old := now.Add(-2 * time.Hour)
	f.db.Model(&models.WorkflowIntent{}).Where("1 = 1").UpdateColumn("updated_at", old)

	r := NewReconciler(f.repo, nil, testutil.Logger(), clock)
	n, err := r.Sweep(context.Background(), time.Hour)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 stuck intent, got %d", n)
	}

	if n, _ := r.Sweep(context.Background(), 3*time.Hour); n != 0 {
		t.Fatalf("recent intents must not be reported, got %d", n)
	}
}

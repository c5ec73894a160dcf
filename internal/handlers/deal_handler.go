package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/httpresp"
	"github.com/BruksfildServices01/wealth-crm/internal/middleware"
	ucDeal "github.com/BruksfildServices01/wealth-crm/internal/usecase/deal"
)

// DealUseCases groups everything the deal endpoints call.
type DealUseCases struct {
	Create      *ucDeal.CreateDeal
	Get         *ucDeal.GetDeal
	List        *ucDeal.ListDeals
	History     *ucDeal.StageHistory
	UpdateNotes *ucDeal.UpdateDiligenceNotes
	AddDocument *ucDeal.AddDocument
	Review      *ucDeal.ReviewDocument
	SendKYC     *ucDeal.SendKYCRequest
	KYCDecision *ucDeal.RecordKYCDecision
	Archive     *ucDeal.ArchiveVerifiedDocuments
	Progress    *ucDeal.AutoProgress
	SetStage    *ucDeal.SetStage
}

type DealHandler struct {
	uc DealUseCases
}

func NewDealHandler(uc DealUseCases) *DealHandler {
	return &DealHandler{uc: uc}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateNotesRequest struct {
	Notes string `json:"notes"`
}

type DecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
}

type SetStageRequest struct {
	Stage string `json:"stage" binding:"required"`
}

// ======================================================
// CRUD
// ======================================================

func (h *DealHandler) Create(c *gin.Context) {
	var req ucDeal.CreateDealInput
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.uc.Create.Execute(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		httperr.Respond(c, err, "failed_to_create_deal")
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *DealHandler) List(c *gin.Context) {
	deals, err := h.uc.List.Execute(c.Request.Context(), middleware.UserID(c), c.Query("stage"))
	if err != nil {
		httperr.Respond(c, err, "failed_to_list_deals")
		return
	}
	httpresp.List(c, deals)
}

func (h *DealHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	d, err := h.uc.Get.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_load_deal")
		return
	}
	httpresp.OK(c, d)
}

func (h *DealHandler) History(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	history, err := h.uc.History.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_load_history")
		return
	}
	httpresp.List(c, history)
}

func (h *DealHandler) UpdateNotes(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateNotesRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.uc.UpdateNotes.Execute(c.Request.Context(), middleware.UserID(c), id, req.Notes)
	if err != nil {
		httperr.Respond(c, err, "failed_to_update_notes")
		return
	}
	httpresp.OK(c, d)
}

// ======================================================
// DOCUMENTS
// ======================================================

func (h *DealHandler) AddDocument(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req ucDeal.AddDocumentInput
	if !bindJSON(c, &req) {
		return
	}

	doc, err := h.uc.AddDocument.Execute(c.Request.Context(), middleware.UserID(c), id, req)
	if err != nil {
		httperr.Respond(c, err, "failed_to_add_document")
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *DealHandler) ReviewDocument(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	docID, ok := idParam(c, "docId")
	if !ok {
		return
	}

	var req DecisionRequest
	if !bindJSON(c, &req) {
		return
	}

	doc, err := h.uc.Review.Execute(c.Request.Context(), middleware.UserID(c), id, docID, req.Decision)
	if err != nil {
		httperr.Respond(c, err, "failed_to_review_document")
		return
	}
	httpresp.OK(c, doc)
}

// ======================================================
// WORKFLOW
// ======================================================

func (h *DealHandler) SendKYC(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	d, err := h.uc.SendKYC.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_send_kyc_request")
		return
	}
	httpresp.OK(c, d)
}

func (h *DealHandler) KYCDecision(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req DecisionRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.uc.KYCDecision.Execute(c.Request.Context(), middleware.UserID(c), id, req.Decision)
	if err != nil {
		httperr.Respond(c, err, "failed_to_record_kyc_decision")
		return
	}
	httpresp.OK(c, d)
}

func (h *DealHandler) Archive(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	d, err := h.uc.Archive.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_archive_documents")
		return
	}
	httpresp.OK(c, d)
}

func (h *DealHandler) Progress(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	res, err := h.uc.Progress.Execute(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.Respond(c, err, "failed_to_progress_deal")
		return
	}
	httpresp.OK(c, res)
}

func (h *DealHandler) SetStage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req SetStageRequest
	if !bindJSON(c, &req) {
		return
	}

	d, err := h.uc.SetStage.Execute(c.Request.Context(), middleware.UserID(c), id, req.Stage)
	if err != nil {
		httperr.Respond(c, err, "failed_to_set_stage")
		return
	}
	httpresp.OK(c, d)
}

package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/wealth-crm/internal/audit"
	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/middleware"
	"github.com/BruksfildServices01/wealth-crm/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logger *audit.Logger
}

func NewAuditLogsHandler(logger *audit.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{logger: logger}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	f := audit.Filter{
		OwnerID: middleware.UserID(c),
		Action:  c.Query("action"),
		Entity:  c.Query("entity"),
		Page:    page,
		Limit:   limit,
	}

	// --------------------------------------------------
	// Dates are whole days in the advisor's timezone
	// --------------------------------------------------
	tz := middleware.Timezone(c)

	if from := c.Query("from"); from != "" {
		d, err := timezone.ParseDate(from, tz)
		if err != nil {
			httperr.BadRequest(c, "invalid_from", "from must be YYYY-MM-DD.")
			return
		}
		f.From = d
	}

	if to := c.Query("to"); to != "" {
		d, err := timezone.ParseDate(to, tz)
		if err != nil {
			httperr.BadRequest(c, "invalid_to", "to must be YYYY-MM-DD.")
			return
		}
		f.To = d.AddDate(0, 0, 1)
	}

	logs, total, err := h.logger.List(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "Could not list audit logs.")
		return
	}

	c.JSON(200, gin.H{
		"page":  f.Page,
		"limit": f.Limit,
		"total": total,
		"logs":  logs,
	})
}

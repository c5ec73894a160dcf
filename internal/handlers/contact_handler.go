package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/middleware"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
	"github.com/BruksfildServices01/wealth-crm/internal/validators"
)

type ContactHandler struct {
	db *gorm.DB
}

func NewContactHandler(db *gorm.DB) *ContactHandler {
	return &ContactHandler{db: db}
}

type CreateContactRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
}

// ======================================================
// LIST
// ======================================================
func (h *ContactHandler) List(c *gin.Context) {
	ownerID := middleware.UserID(c)
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).
		Preload("Company").
		Where("owner_id = ?", ownerID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"(LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?)",
			like, like, like,
		)
	}

	var contacts []models.Contact
	if err := q.Order("created_at DESC").Find(&contacts).Error; err != nil {
		httperr.Internal(c, "failed_to_list_contacts", "Could not list contacts.")
		return
	}

	c.JSON(http.StatusOK, contacts)
}

// ======================================================
// CREATE
// ======================================================
func (h *ContactHandler) Create(c *gin.Context) {
	ownerID := middleware.UserID(c)

	var req CreateContactRequest
	if !bindJSON(c, &req) {
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if email != "" && !validators.IsEmail(email) {
		httperr.BadRequest(c, "invalid_email", "Invalid email.")
		return
	}

	contact := models.Contact{
		OwnerID: ownerID,
		Name:    strings.TrimSpace(req.Name),
		Email:   email,
		Phone:   strings.TrimSpace(req.Phone),
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if name := strings.TrimSpace(req.CompanyName); name != "" {
			company := models.Company{OwnerID: ownerID, Name: name}
			if err := tx.Where(&company).FirstOrCreate(&company).Error; err != nil {
				return err
			}
			contact.CompanyID = &company.ID
		}
		return tx.Create(&contact).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_create_contact", "Could not create contact.")
		return
	}

	c.JSON(http.StatusCreated, contact)
}

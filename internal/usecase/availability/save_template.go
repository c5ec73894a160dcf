package availability

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/wealth-crm/internal/audit"
	domain "github.com/BruksfildServices01/wealth-crm/internal/domain/availability"
	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
	"github.com/BruksfildServices01/wealth-crm/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type RuleInput struct {
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable *bool  `json:"is_available"`
}

type TemplateInput struct {
	Name             string      `json:"name" binding:"required"`
	Description      string      `json:"description"`
	DurationMinutes  int         `json:"duration_minutes" binding:"required"`
	BufferMinutes    int         `json:"buffer_minutes"`
	BookingLink      string      `json:"booking_link"`
	Timezone         string      `json:"timezone"`
	RequiresApproval bool        `json:"requires_approval"`
	MinNoticeMinutes int         `json:"min_notice_minutes"`
	IsActive         *bool       `json:"is_active"`
	Rules            []RuleInput `json:"rules"`
}

func (in TemplateInput) apply(tpl *models.AvailabilityTemplate) {
	tpl.Name = strings.TrimSpace(in.Name)
	tpl.Description = in.Description
	tpl.DurationMinutes = in.DurationMinutes
	tpl.BufferMinutes = in.BufferMinutes
	tpl.RequiresApproval = in.RequiresApproval
	tpl.MinNoticeMinutes = in.MinNoticeMinutes
	if in.Timezone != "" {
		tpl.Timezone = in.Timezone
	}
	if in.IsActive != nil {
		tpl.IsActive = *in.IsActive
	}

	tpl.Rules = make([]models.AvailabilityRule, 0, len(in.Rules))
	for i, r := range in.Rules {
		available := true
		if r.IsAvailable != nil {
			available = *r.IsAvailable
		}
		tpl.Rules = append(tpl.Rules, models.AvailabilityRule{
			DayOfWeek:   r.DayOfWeek,
			StartTime:   r.StartTime,
			EndTime:     r.EndTime,
			IsAvailable: available,
			Position:    i,
		})
	}
}

// ======================================================
// CREATE
// ======================================================

type CreateTemplate struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateTemplate(repo domain.Repository, audit *audit.Dispatcher) *CreateTemplate {
	return &CreateTemplate{repo: repo, audit: audit}
}

func (uc *CreateTemplate) Execute(
	ctx context.Context,
	ownerID uint,
	ownerTimezone string,
	in TemplateInput,
) (*models.AvailabilityTemplate, error) {

	tpl := &models.AvailabilityTemplate{
		OwnerID:  ownerID,
		IsActive: true,
		Timezone: ownerTimezone,
	}
	in.apply(tpl)
	if tpl.Timezone == "" {
		tpl.Timezone = timezone.DefaultTimezone
	}

	if err := domain.ValidateTemplate(tpl); err != nil {
		return nil, err
	}

	link, err := uc.resolveLink(ctx, in.BookingLink, tpl.Name)
	if err != nil {
		return nil, err
	}
	tpl.BookingLink = link

	if err := uc.repo.CreateTemplate(ctx, tpl); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		UserID:   &ownerID,
		Action:   audit.ActionTemplateSaved,
		Entity:   "template",
		EntityID: &tpl.ID,
	})

	return tpl, nil
}

// resolveLink validates a requested slug or derives one from the name.
func (uc *CreateTemplate) resolveLink(ctx context.Context, requested, name string) (string, error) {
	if requested != "" {
		link := Slugify(requested)
		if link != requested {
			return "", httperr.ErrBusiness("invalid_booking_link")
		}
		exists, err := uc.repo.BookingLinkExists(ctx, link)
		if err != nil {
			return "", err
		}
		if exists {
			return "", httperr.ErrBusiness("booking_link_taken")
		}
		return link, nil
	}

	base := Slugify(name)
	if base == "" {
		base = "meeting"
	}

	exists, err := uc.repo.BookingLinkExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}
	return base + "-" + uuid.NewString()[:8], nil
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses everything but letters and digits
// into single dashes.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalid.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 80 {
		s = strings.TrimRight(s[:80], "-")
	}
	return s
}

// ======================================================
// UPDATE
// ======================================================

type UpdateTemplate struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateTemplate(repo domain.Repository, audit *audit.Dispatcher) *UpdateTemplate {
	return &UpdateTemplate{repo: repo, audit: audit}
}

// Execute replaces every editable field and the whole rule set.
func (uc *UpdateTemplate) Execute(
	ctx context.Context,
	ownerID uint,
	templateID uint,
	in TemplateInput,
) (*models.AvailabilityTemplate, error) {

	tpl, err := uc.repo.GetTemplateForOwner(ctx, templateID, ownerID)
	if err != nil {
		return nil, err
	}

	in.apply(tpl)
	if err := domain.ValidateTemplate(tpl); err != nil {
		return nil, err
	}

	if in.BookingLink != "" && in.BookingLink != tpl.BookingLink {
		if Slugify(in.BookingLink) != in.BookingLink {
			return nil, httperr.ErrBusiness("invalid_booking_link")
		}
		tpl.BookingLink = in.BookingLink
	}

	if err := uc.repo.UpdateTemplate(ctx, tpl); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		UserID:   &ownerID,
		Action:   audit.ActionTemplateSaved,
		Entity:   "template",
		EntityID: &tpl.ID,
	})

	return tpl, nil
}

// ======================================================
// DEACTIVATE
// ======================================================

type DeactivateTemplate struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeactivateTemplate(repo domain.Repository, audit *audit.Dispatcher) *DeactivateTemplate {
	return &DeactivateTemplate{repo: repo, audit: audit}
}

// Execute soft-disables the template; existing bookings are kept.
func (uc *DeactivateTemplate) Execute(
	ctx context.Context,
	ownerID uint,
	templateID uint,
) (*models.AvailabilityTemplate, error) {

	tpl, err := uc.repo.GetTemplateForOwner(ctx, templateID, ownerID)
	if err != nil {
		return nil, err
	}
	if !tpl.IsActive {
		return tpl, nil
	}

	tpl.IsActive = false
	if err := uc.repo.UpdateTemplate(ctx, tpl); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OwnerID:  ownerID,
		UserID:   &ownerID,
		Action:   audit.ActionTemplateDeactivated,
		Entity:   "template",
		EntityID: &tpl.ID,
	})

	return tpl, nil
}

package availability

import (
	"context"

	domain "github.com/BruksfildServices01/wealth-crm/internal/domain/availability"
	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
	"github.com/BruksfildServices01/wealth-crm/internal/timezone"
)

// ======================================================
// PUBLIC TEMPLATE
// ======================================================

type GetPublicTemplate struct {
	repo domain.Repository
}

func NewGetPublicTemplate(repo domain.Repository) *GetPublicTemplate {
	return &GetPublicTemplate{repo: repo}
}

// Execute hides inactive templates behind the same error as missing ones.
func (uc *GetPublicTemplate) Execute(
	ctx context.Context,
	link string,
) (*models.AvailabilityTemplate, error) {

	tpl, err := uc.repo.GetTemplateByLink(ctx, link)
	if err != nil {
		return nil, err
	}
	if !tpl.IsActive {
		return nil, httperr.NotFoundf("template", link)
	}
	return tpl, nil
}

// ======================================================
// SLOTS FOR A DATE
// ======================================================

type GetSlots struct {
	repo  domain.Repository
	clock timezone.Clock
}

func NewGetSlots(repo domain.Repository, clock timezone.Clock) *GetSlots {
	if clock == nil {
		clock = timezone.SystemClock
	}
	return &GetSlots{repo: repo, clock: clock}
}

func (uc *GetSlots) Execute(
	ctx context.Context,
	link string,
	date string,
) ([]domain.TimeSlot, error) {

	tpl, err := NewGetPublicTemplate(uc.repo).Execute(ctx, link)
	if err != nil {
		return nil, err
	}

	day, err := timezone.ParseDate(date, tpl.Timezone)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	bookings, err := uc.repo.ListLiveBookings(ctx, tpl.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	return domain.GenerateSlots(tpl, day, bookings, uc.clock()), nil
}

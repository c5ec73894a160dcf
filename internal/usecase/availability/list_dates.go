package availability

import (
	"context"

	domain "github.com/BruksfildServices01/wealth-crm/internal/domain/availability"
	"github.com/BruksfildServices01/wealth-crm/internal/timezone"
)

type ListDates struct {
	repo      domain.Repository
	clock     timezone.Clock
	lookAhead int
}

func NewListDates(repo domain.Repository, clock timezone.Clock, lookAheadDays int) *ListDates {
	if clock == nil {
		clock = timezone.SystemClock
	}
	if lookAheadDays <= 0 {
		lookAheadDays = 30
	}
	return &ListDates{repo: repo, clock: clock, lookAhead: lookAheadDays}
}

// Execute returns YYYY-MM-DD dates in the template's timezone.
func (uc *ListDates) Execute(
	ctx context.Context,
	link string,
) ([]string, error) {

	tpl, err := NewGetPublicTemplate(uc.repo).Execute(ctx, link)
	if err != nil {
		return nil, err
	}

	dates := domain.ListAvailableDates(tpl, uc.lookAhead, uc.clock())

	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(timezone.DateLayout))
	}
	return out, nil
}

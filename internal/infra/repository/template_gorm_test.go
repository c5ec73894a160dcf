package repository

import (
	"context"
	"testing"
	"time"

	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
	"github.com/BruksfildServices01/wealth-crm/internal/testutil"
)

func TestUpdateTemplate_ReplacesRules(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "a@example.com")
	tpl := testutil.CreateTemplate(t, db, owner.ID, "intro", 30, 0)
	repo := NewTemplateGormRepository(db)
	ctx := context.Background()

	tpl.Name = "Portfolio review"
	tpl.Rules = []models.AvailabilityRule{
		{DayOfWeek: 2, StartTime: "13:00", EndTime: "15:00", IsAvailable: true},
	}
	if err := repo.UpdateTemplate(ctx, tpl); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetTemplateForOwner(ctx, tpl.ID, owner.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Portfolio review" {
		t.Fatalf("name not saved: %q", got.Name)
	}
	if len(got.Rules) != 1 || got.Rules[0].DayOfWeek != 2 {
		t.Fatalf("rules not replaced: %+v", got.Rules)
	}
}

func TestGetTemplateByLink(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "a@example.com")
	testutil.CreateTemplate(t, db, owner.ID, "intro", 30, 0)
	repo := NewTemplateGormRepository(db)
	ctx := context.Background()

	tpl, err := repo.GetTemplateByLink(ctx, "intro")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(tpl.Rules) != 5 {
		t.Fatalf("expected 5 rules, got %d", len(tpl.Rules))
	}

	if _, err := repo.GetTemplateByLink(ctx, "missing"); !httperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	exists, err := repo.BookingLinkExists(ctx, "intro")
	if err != nil || !exists {
		t.Fatalf("expected link to exist (%v)", err)
	}
}

func TestListLiveBookings_IncludesOverlapFromPreviousDay(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "a@example.com")
	tpl := testutil.CreateTemplate(t, db, owner.ID, "intro", 30, 0)
	bookings := NewBookingGormRepository(db)
	repo := NewTemplateGormRepository(db)
	ctx := context.Background()

	late := time.Date(2030, 1, 7, 23, 45, 0, 0, time.UTC)
	if err := bookings.CreateBookingIfFree(ctx, newBooking(tpl.ID, late, 30)); err != nil {
		t.Fatalf("create: %v", err)
	}

	dayStart := time.Date(2030, 1, 8, 0, 0, 0, 0, time.UTC)
	list, err := repo.ListLiveBookings(ctx, tpl.ID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected the booking spilling over midnight, got %d", len(list))
	}
}

package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
	"github.com/BruksfildServices01/wealth-crm/internal/testutil"
)

func newBooking(templateID uint, start time.Time, minutes int) *models.Booking {
	return &models.Booking{
		TemplateID: templateID,
		GuestName:  "Guest",
		GuestEmail: "guest@example.com",
		StartTime:  start,
		EndTime:    start.Add(time.Duration(minutes) * time.Minute),
		Status:     models.BookingStatusConfirmed,
	}
}

func TestCreateBookingIfFree_RejectsOverlap(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "a@example.com")
	tpl := testutil.CreateTemplate(t, db, owner.ID, "intro", 30, 0)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	start := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	if err := repo.CreateBookingIfFree(ctx, newBooking(tpl.ID, start, 30)); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	err := repo.CreateBookingIfFree(ctx, newBooking(tpl.ID, start.Add(15*time.Minute), 30))
	if !httperr.IsConflict(err) {
		t.Fatalf("expected conflict for overlapping booking, got %v", err)
	}

	if err := repo.CreateBookingIfFree(ctx, newBooking(tpl.ID, start.Add(30*time.Minute), 30)); err != nil {
		t.Fatalf("touching booking should succeed: %v", err)
	}
}

func TestCreateBookingIfFree_CancelledDoesNotBlock(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "a@example.com")
	tpl := testutil.CreateTemplate(t, db, owner.ID, "intro", 30, 0)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	start := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	b := newBooking(tpl.ID, start, 30)
	if err := repo.CreateBookingIfFree(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}

	b.Status = models.BookingStatusCancelled
	if err := repo.UpdateBooking(ctx, b); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if err := repo.CreateBookingIfFree(ctx, newBooking(tpl.ID, start, 30)); err != nil {
		t.Fatalf("rebooking a cancelled slot: %v", err)
	}
}

func TestCreateBookingIfFree_ConcurrentSameSlot(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "a@example.com")
	tpl := testutil.CreateTemplate(t, db, owner.ID, "intro", 30, 0)
	repo := NewBookingGormRepository(db)

	start := time.Date(2030, 1, 7, 11, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.CreateBookingIfFree(context.Background(), newBooking(tpl.ID, start, 30))
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case httperr.IsConflict(err):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflicts != 1 {
		t.Fatalf("expected one success and one conflict, got %d/%d", ok, conflicts)
	}

	var count int64
	db.Model(&models.Booking{}).Where("template_id = ?", tpl.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 stored booking, got %d", count)
	}
}

func TestGetOrCreateContact_MatchesByEmail(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "a@example.com")
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	first, err := repo.GetOrCreateContact(ctx, owner.ID, "Ana", "Ana@Example.com", "")
	if err != nil {
		t.Fatalf("create contact: %v", err)
	}
	second, err := repo.GetOrCreateContact(ctx, owner.ID, "Ana Silva", "ana@example.com ", "123")
	if err != nil {
		t.Fatalf("get contact: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected the same contact, got %d and %d", first.ID, second.ID)
	}
}

func TestListBookingsForOwner_ScopedToOwner(t *testing.T) {
	db := testutil.NewDB(t)
	a := testutil.CreateUser(t, db, "a@example.com")
	b := testutil.CreateUser(t, db, "b@example.com")
	tplA := testutil.CreateTemplate(t, db, a.ID, "a-intro", 30, 0)
	tplB := testutil.CreateTemplate(t, db, b.ID, "b-intro", 30, 0)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	start := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	if err := repo.CreateBookingIfFree(ctx, newBooking(tplA.ID, start, 30)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.CreateBookingIfFree(ctx, newBooking(tplB.ID, start, 30)); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := repo.ListBookingsForOwner(ctx, a.ID, start.Add(-time.Hour), start.Add(time.Hour), nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].TemplateID != tplA.ID {
		t.Fatalf("expected only owner A's booking, got %+v", list)
	}

	if _, err := repo.GetBookingForOwner(ctx, list[0].ID, b.ID); !httperr.IsNotFound(err) {
		t.Fatalf("expected not found for foreign owner, got %v", err)
	}
}

func TestListConfirmedEndedBefore(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "a@example.com")
	tpl := testutil.CreateTemplate(t, db, owner.ID, "intro", 30, 0)
	repo := NewBookingGormRepository(db)
	ctx := context.Background()

	past := time.Date(2020, 1, 6, 10, 0, 0, 0, time.UTC)
	future := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	if err := repo.CreateBookingIfFree(ctx, newBooking(tpl.ID, past, 30)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.CreateBookingIfFree(ctx, newBooking(tpl.ID, future, 30)); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := repo.ListConfirmedEndedBefore(ctx, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || !list[0].StartTime.Equal(past) {
		t.Fatalf("expected only the past booking, got %+v", list)
	}
}

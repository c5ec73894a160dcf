package availability

import (
	"context"
	"testing"
	"time"

	"github.com/BruksfildServices01/wealth-crm/internal/httperr"
	"github.com/BruksfildServices01/wealth-crm/internal/infra/repository"
	"github.com/BruksfildServices01/wealth-crm/internal/models"
	"github.com/BruksfildServices01/wealth-crm/internal/testutil"
)

// 2030-01-07 is a Monday.
func fixedClock() time.Time {
	return time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC)
}

func TestGetSlots_FlagsBookedSlot(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "a@example.com")
	tpl := testutil.CreateTemplate(t, db, owner.ID, "intro", 30, 15)
	repo := repository.NewTemplateGormRepository(db)

	booked := &models.Booking{
		TemplateID: tpl.ID,
		GuestName:  "Guest",
		GuestEmail: "g@example.com",
		StartTime:  time.Date(2030, 1, 7, 9, 45, 0, 0, time.UTC),
		EndTime:    time.Date(2030, 1, 7, 10, 15, 0, 0, time.UTC),
		Status:     models.BookingStatusConfirmed,
	}
	if err := db.Create(booked).Error; err != nil {
		t.Fatalf("create booking: %v", err)
	}

	slots, err := NewGetSlots(repo, fixedClock).Execute(context.Background(), "intro", "2030-01-07")
	if err != nil {
		t.Fatalf("get slots: %v", err)
	}
	if len(slots) != 11 {
		t.Fatalf("expected 11 slots, got %d", len(slots))
	}

	for _, s := range slots {
		want := !s.Start.Equal(booked.StartTime)
		if s.Available != want {
			t.Fatalf("slot %v: expected available=%v", s.Start, want)
		}
	}
}

func TestGetSlots_InactiveTemplateIsNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "a@example.com")
	tpl := testutil.CreateTemplate(t, db, owner.ID, "intro", 30, 0)
	db.Model(tpl).Update("is_active", false)
	repo := repository.NewTemplateGormRepository(db)

	_, err := NewGetSlots(repo, fixedClock).Execute(context.Background(), "intro", "2030-01-07")
	if !httperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetSlots_InvalidDate(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "a@example.com")
	testutil.CreateTemplate(t, db, owner.ID, "intro", 30, 0)
	repo := repository.NewTemplateGormRepository(db)

	_, err := NewGetSlots(repo, fixedClock).Execute(context.Background(), "intro", "07/01/2030")
	if !httperr.IsBusiness(err, "invalid_date") {
		t.Fatalf("expected invalid_date, got %v", err)
	}
}

func TestListDates_WeekdaysOnly(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "a@example.com")
	testutil.CreateTemplate(t, db, owner.ID, "intro", 30, 0)
	repo := repository.NewTemplateGormRepository(db)

	dates, err := NewListDates(repo, fixedClock, 7).Execute(context.Background(), "intro")
	if err != nil {
		t.Fatalf("list dates: %v", err)
	}
	want := []string{"2030-01-07", "2030-01-08", "2030-01-09", "2030-01-10", "2030-01-11"}
	if len(dates) != len(want) {
		t.Fatalf("expected %v, got %v", want, dates)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, dates)
		}
	}
}

func TestCreateTemplate_GeneratesLinkAndRejectsOverlap(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "a@example.com")
	repo := repository.NewTemplateGormRepository(db)
	uc := NewCreateTemplate(repo, nil)
	ctx := context.Background()

	in := TemplateInput{
		Name:            "Portfolio Review!",
		DurationMinutes: 45,
		Rules: []RuleInput{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00"},
		},
	}

	first, err := uc.Execute(ctx, owner.ID, "Europe/Lisbon", in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.BookingLink != "portfolio-review" {
		t.Fatalf("unexpected link %q", first.BookingLink)
	}
	if first.Timezone != "Europe/Lisbon" || !first.IsActive {
		t.Fatalf("defaults not applied: %+v", first)
	}

	second, err := uc.Execute(ctx, owner.ID, "UTC", in)
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.BookingLink == first.BookingLink {
		t.Fatalf("links must be unique, both %q", second.BookingLink)
	}

	in.Rules = append(in.Rules, RuleInput{DayOfWeek: 1, StartTime: "11:00", EndTime: "13:00"})
	if _, err := uc.Execute(ctx, owner.ID, "UTC", in); !httperr.IsBusiness(err, "overlapping_rules") {
		t.Fatalf("expected overlapping_rules, got %v", err)
	}
}

func TestDeactivateTemplate(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "a@example.com")
	tpl := testutil.CreateTemplate(t, db, owner.ID, "intro", 30, 0)
	repo := repository.NewTemplateGormRepository(db)
	ctx := context.Background()

	got, err := NewDeactivateTemplate(repo, nil).Execute(ctx, owner.ID, tpl.ID)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if got.IsActive {
		t.Fatalf("template still active")
	}

	if _, err := NewGetPublicTemplate(repo).Execute(ctx, "intro"); !httperr.IsNotFound(err) {
		t.Fatalf("expected inactive template to be hidden, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Intro Call":          "intro-call",
		"  KYC / AML review ": "kyc-aml-review",
		"---":                 "",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/BruksfildServices01/wealth-crm/internal/testutil"
)

func TestDispatcherWritesEvents(t *testing.T) {
	db := testutil.NewDB(t)
	logger := New(db)
	d := NewDispatcher(logger, testutil.Logger(), 10)

	d.Dispatch(Event{
		OwnerID:  7,
		Action:   ActionDealCreated,
		Entity:   "deal",
		EntityID: UintPtr(3),
		Metadata: map[string]string{"name": "Acme"},
	})
	d.Close()

	logs, total, err := logger.List(context.Background(), Filter{OwnerID: 7, Entity: "deal"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 1 || total != 1 {
		t.Fatalf("expected 1 entry, got %d (total %d)", len(logs), total)
	}

	var meta map[string]string
	if err := json.Unmarshal(logs[0].Metadata, &meta); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta["name"] != "Acme" {
		t.Fatalf("unexpected metadata %v", meta)
	}
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: ActionDealCreated})
	d.Close()
}

func TestListFiltersAndPages(t *testing.T) {
	db := testutil.NewDB(t)
	logger := New(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := logger.Log(ctx, Event{OwnerID: 1, Action: ActionBookingCreated, Entity: "booking"}); err != nil {
			t.Fatalf("log: %v", err)
		}
	}
	logger.Log(ctx, Event{OwnerID: 1, Action: ActionDealCreated, Entity: "deal"})
	logger.Log(ctx, Event{OwnerID: 2, Action: ActionBookingCreated, Entity: "booking"})

	logs, total, err := logger.List(ctx, Filter{OwnerID: 1, Action: ActionBookingCreated, Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 entry on page 2, got %d", len(logs))
	}
}

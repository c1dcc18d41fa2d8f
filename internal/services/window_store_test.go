package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryWindowStoreCountSince(t *testing.T) {
	store := NewMemoryWindowStore()
	ctx := context.Background()
	ruleID := uuid.New()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for hour := 0; hour < 5; hour++ {
		if err := store.Record(ctx, ruleID, base.Add(time.Duration(hour)*time.Hour)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	count, err := store.CountSince(ctx, ruleID, base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("CountSince=%d, want 3", count)
	}

	// Unknown rule counts zero.
	count, err = store.CountSince(ctx, uuid.New(), base)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("CountSince for unknown rule=%d, want 0", count)
	}
}

func TestMemoryWindowStorePruneBefore(t *testing.T) {
	store := NewMemoryWindowStore()
	ctx := context.Background()
	ruleID := uuid.New()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for hour := 0; hour < 4; hour++ {
		if err := store.Record(ctx, ruleID, base.Add(time.Duration(hour)*time.Hour)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := store.PruneBefore(ctx, ruleID, base.Add(2*time.Hour)); err != nil {
		t.Fatalf("prune: %v", err)
	}
	count, err := store.CountSince(ctx, ruleID, base)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("count after prune=%d, want 2", count)
	}
}

func TestMemoryWindowStoreBounded(t *testing.T) {
	store := NewMemoryWindowStore().(*memoryWindowStore)
	ctx := context.Background()
	ruleID := uuid.New()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < store.maxPerRule+100; i++ {
		if err := store.Record(ctx, ruleID, base.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if got := len(store.executions[ruleID]); got != store.maxPerRule {
		t.Fatalf("stored executions=%d, want bound %d", got, store.maxPerRule)
	}
	// The oldest entries are the ones evicted.
	if store.executions[ruleID][0].Before(base.Add(100 * time.Second)) {
		t.Fatal("eviction kept the oldest entries")
	}
}

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/studio-booking/internal/persistence"
)

func singleRecord(id, date string) persistence.Booking {
	now := time.Date(2025, time.January, 6, 12, 0, 0, 0, time.UTC)
	return persistence.Booking{
		ID:        id,
		Kind:      "single",
		ClassName: "Morning Flow",
		Teacher:   "Ana",
		CreatedBy: "Oski",
		StartTime: "09:00",
		EndTime:   "10:00",
		Color:     "#FF6B6B",
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestStoreCreateAndGet(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()

	record := singleRecord("b1", "2025-01-06")
	if err := store.CreateBooking(ctx, record); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	got, err := store.GetBooking(ctx, "b1")
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	if got.ClassName != "Morning Flow" || got.Date != "2025-01-06" {
		t.Fatalf("unexpected record: %+v", got)
	}

	if err := store.CreateBooking(ctx, record); !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestStoreRejectsInvertedTimes(t *testing.T) {
	t.Parallel()

	store := NewStore()
	record := singleRecord("b1", "2025-01-06")
	record.StartTime = "10:00"
	record.EndTime = "09:00"

	if err := store.CreateBooking(context.Background(), record); !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}

func TestStoreListPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()

	ids := []string{"b3", "b1", "b2"}
	for i, id := range ids {
		record := singleRecord(id, "2025-01-06")
		record.StartTime = []string{"09:00", "10:00", "11:00"}[i]
		record.EndTime = []string{"10:00", "11:00", "12:00"}[i]
		if err := store.CreateBooking(ctx, record); err != nil {
			t.Fatalf("CreateBooking failed: %v", err)
		}
	}

	listed, err := store.ListBookings(ctx)
	if err != nil {
		t.Fatalf("ListBookings failed: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 records, got %d", len(listed))
	}
	for i, id := range ids {
		if listed[i].ID != id {
			t.Fatalf("expected position %d to hold %q, got %q", i, id, listed[i].ID)
		}
	}
}

func TestStoreUpdateKeepsPosition(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()

	first := singleRecord("b1", "2025-01-06")
	second := singleRecord("b2", "2025-01-07")
	if err := store.CreateBooking(ctx, first); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	if err := store.CreateBooking(ctx, second); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	first.ClassName = "Renamed"
	if err := store.UpdateBooking(ctx, first); err != nil {
		t.Fatalf("UpdateBooking failed: %v", err)
	}

	listed, err := store.ListBookings(ctx)
	if err != nil {
		t.Fatalf("ListBookings failed: %v", err)
	}
	if listed[0].ID != "b1" || listed[0].ClassName != "Renamed" {
		t.Fatalf("expected updated record to keep first position, got %+v", listed[0])
	}

	missing := singleRecord("missing", "2025-01-06")
	if err := store.UpdateBooking(ctx, missing); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()

	if err := store.CreateBooking(ctx, singleRecord("b1", "2025-01-06")); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	if err := store.DeleteBooking(ctx, "b1"); err != nil {
		t.Fatalf("DeleteBooking failed: %v", err)
	}
	if _, err := store.GetBooking(ctx, "b1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteBooking(ctx, "b1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a second delete, got %v", err)
	}
}

func TestStoreClonesRecords(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()

	endDate := "2025-04-06"
	record := persistence.Booking{
		ID:             "r1",
		Kind:           "recurring",
		ClassName:      "Vinyasa",
		Teacher:        "Lucia",
		CreatedBy:      "Flor",
		StartTime:      "18:00",
		EndTime:        "19:00",
		Color:          "#4ECDC4",
		Weekday:        1,
		StartDate:      "2025-01-06",
		EndDate:        &endDate,
		DurationMonths: 3,
	}
	if err := store.CreateBooking(ctx, record); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	// Mutating the caller's end date must not leak into the store.
	endDate = "2030-01-01"

	got, err := store.GetBooking(ctx, "r1")
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	if got.EndDate == nil || *got.EndDate != "2025-04-06" {
		t.Fatalf("expected stored end date 2025-04-06, got %v", got.EndDate)
	}
}

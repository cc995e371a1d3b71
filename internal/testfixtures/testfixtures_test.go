package testfixtures

import (
	"context"
	"testing"
	"time"

	"github.com/example/studio-booking/internal/application"
	"github.com/example/studio-booking/internal/persistence/memory"
)

func TestClock(t *testing.T) {
	t.Parallel()

	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected reference time, got %v", clock.Now())
	}

	updated := clock.Advance(45 * time.Minute)
	if want := ReferenceTime().Add(45 * time.Minute); !updated.Equal(want) {
		t.Fatalf("expected %v, got %v", want, updated)
	}
	if !clock.Now().Equal(updated) {
		t.Fatalf("expected Now to track the advance, got %v", clock.Now())
	}

	explicit := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	clock.Set(explicit)
	if !clock.Now().Equal(explicit) {
		t.Fatalf("expected %v, got %v", explicit, clock.Now())
	}
}

func TestIDGenerator(t *testing.T) {
	t.Parallel()

	gen := NewIDGenerator("test")
	if got := gen.Next(); got != "test-1" {
		t.Fatalf("expected test-1, got %q", got)
	}
	if got := gen.Next(); got != "test-2" {
		t.Fatalf("expected test-2, got %q", got)
	}

	next := gen.NextFunc()
	if got := next(); got != "test-3" {
		t.Fatalf("expected test-3, got %q", got)
	}
}

func TestServiceFactoryBuildsWorkingServices(t *testing.T) {
	t.Parallel()

	factory := NewServiceFactory(WithIDGenerator(NewIDGenerator("fixture")))
	service := factory.NewBookingService(BookingServiceDeps{Bookings: memory.NewStore()})

	created, err := service.Create(context.Background(), application.CreateBookingParams{
		Principal: application.Principal{Staff: "Oski"},
		Input:     SingleInput(),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.ID != "fixture-1" {
		t.Fatalf("expected fixture-1, got %q", created.ID)
	}
	if !created.CreatedAt.Equal(ReferenceTime()) {
		t.Fatalf("expected CreatedAt at the reference time, got %v", created.CreatedAt)
	}

	staff := factory.NewStaffService(StaffServiceDeps{})
	if !staff.IsStaff("Flor") {
		t.Fatal("expected the default roster to include Flor")
	}
}

func TestSQLiteHarness(t *testing.T) {
	harness := NewSQLiteHarness(t)
	ctx := context.Background()

	record := RecurringRecord()
	if err := harness.Bookings.CreateBooking(ctx, record); err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	got, err := harness.Bookings.GetBooking(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetBooking failed: %v", err)
	}
	if got.StartDate != record.StartDate || got.Weekday != record.Weekday {
		t.Fatalf("unexpected record: %+v", got)
	}
}

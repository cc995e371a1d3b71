package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/studio-booking/internal/application"
	"github.com/example/studio-booking/internal/booking"
	"github.com/example/studio-booking/internal/persistence"
)

var bookingCounter uint64

// referenceTime is noon on Monday 2025-01-06, so weekday math in tests starts
// from a known week.
var referenceTime = time.Date(2025, time.January, 6, 12, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// SingleInput returns a valid single-booking input on the reference Monday.
// Opts mutate the input after defaults are applied.
func SingleInput(opts ...func(*application.BookingInput)) application.BookingInput {
	idx := atomic.AddUint64(&bookingCounter, 1)
	input := application.BookingInput{
		Kind:      string(booking.KindSingle),
		ClassName: fmt.Sprintf("Class %03d", idx),
		Teacher:   fmt.Sprintf("Teacher %03d", idx),
		StartTime: "09:00",
		EndTime:   "10:00",
		Color:     booking.Palette[0],
		Date:      "2025-01-06",
	}
	for _, opt := range opts {
		opt(&input)
	}
	return input
}

// RecurringInput returns a valid recurring-booking input on Mondays for three
// months. Opts mutate the input after defaults are applied.
func RecurringInput(opts ...func(*application.BookingInput)) application.BookingInput {
	idx := atomic.AddUint64(&bookingCounter, 1)
	input := application.BookingInput{
		Kind:      string(booking.KindRecurring),
		ClassName: fmt.Sprintf("Class %03d", idx),
		Teacher:   fmt.Sprintf("Teacher %03d", idx),
		StartTime: "18:00",
		EndTime:   "19:00",
		Color:     booking.Palette[1],
		DayOfWeek: "Monday",
		Duration:  "3 months",
	}
	for _, opt := range opts {
		opt(&input)
	}
	return input
}

// SingleRecord returns a persisted single-booking record on the reference
// Monday. Opts mutate the record after defaults are applied.
func SingleRecord(opts ...func(*persistence.Booking)) persistence.Booking {
	idx := atomic.AddUint64(&bookingCounter, 1)
	record := persistence.Booking{
		ID:        fmt.Sprintf("booking-%03d", idx),
		Kind:      string(booking.KindSingle),
		ClassName: fmt.Sprintf("Class %03d", idx),
		Teacher:   fmt.Sprintf("Teacher %03d", idx),
		CreatedBy: "Oski",
		StartTime: "09:00",
		EndTime:   "10:00",
		Color:     booking.Palette[0],
		Date:      "2025-01-06",
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&record)
	}
	return record
}

// RecurringRecord returns a persisted recurring-booking record on Mondays
// starting at the reference week, bounded at three months. Opts mutate the
// record after defaults are applied.
func RecurringRecord(opts ...func(*persistence.Booking)) persistence.Booking {
	idx := atomic.AddUint64(&bookingCounter, 1)
	endDate := "2025-04-06"
	record := persistence.Booking{
		ID:             fmt.Sprintf("booking-%03d", idx),
		Kind:           string(booking.KindRecurring),
		ClassName:      fmt.Sprintf("Class %03d", idx),
		Teacher:        fmt.Sprintf("Teacher %03d", idx),
		CreatedBy:      "Flor",
		StartTime:      "18:00",
		EndTime:        "19:00",
		Color:          booking.Palette[1],
		Weekday:        1,
		StartDate:      "2025-01-06",
		EndDate:        &endDate,
		DurationMonths: 3,
		CreatedAt:      referenceTime,
		UpdatedAt:      referenceTime,
	}
	for _, opt := range opts {
		opt(&record)
	}
	return record
}

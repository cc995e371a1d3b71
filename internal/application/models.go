package application

import (
	"time"

	"github.com/example/studio-booking/internal/booking"
	"github.com/example/studio-booking/internal/calendar"
)

// Principal is the staff member invoking a service method. Identity is a
// trusted label validated against the configured roster; there is no
// credential bound to it beyond the optional studio passcode at login.
type Principal struct {
	Staff string
}

// BookingInput captures caller provided booking fields as plain strings. The
// service parses and validates them per kind: single bookings require Date,
// recurring ones require DayOfWeek and Duration.
type BookingInput struct {
	Kind      string
	ClassName string
	Teacher   string
	StartTime string
	EndTime   string
	Color     string

	// Single variant.
	Date string

	// Recurring variant. Duration is the selector the end date is derived
	// from: "N months" or "unbounded".
	DayOfWeek string
	Duration  string
}

// Booking is a booking as exposed by the service, combining the domain model
// with bookkeeping metadata and, for week listings, the concrete occurrence
// dates inside the queried window.
type Booking struct {
	booking.Booking
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Occurrences []calendar.Date
}

// CreateBookingParams wraps the data required to create a booking.
type CreateBookingParams struct {
	Principal Principal
	Input     BookingInput
}

// UpdateBookingParams wraps the data required to update an existing booking.
type UpdateBookingParams struct {
	Principal Principal
	BookingID string
	Input     BookingInput
}

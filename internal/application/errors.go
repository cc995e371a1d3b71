package application

import (
	"errors"
	"fmt"

	"github.com/example/studio-booking/internal/booking"
)

var (
	// ErrNotFound is returned when the requested booking does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrUnknownStaff is returned when a caller identifies as a name outside
	// the configured roster.
	ErrUnknownStaff = errors.New("application: unknown staff member")
	// ErrInvalidPasscode is returned when the studio passcode does not match.
	ErrInvalidPasscode = errors.New("application: invalid passcode")
)

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// ConflictError reports that a candidate booking overlaps an existing one.
// The mutation is rejected; With identifies the blocking booking.
type ConflictError struct {
	With booking.Booking
}

// Error renders the stable, user-facing conflict message. Single bookings are
// identified by their date, recurring ones by their weekday.
func (c *ConflictError) Error() string {
	when := c.With.Date.String()
	if c.With.Kind == booking.KindRecurring {
		when = c.With.Weekday.String()
	}
	return fmt.Sprintf("Conflict with class %q by %s on %s at %s-%s",
		c.With.ClassName, c.With.Teacher, when, c.With.StartTime, c.With.EndTime)
}

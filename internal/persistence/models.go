package persistence

import "time"

// Booking is the stored representation of a class booking. Calendar values
// are kept in their canonical string forms (YYYY-MM-DD, HH:MM) so that both
// stores persist and compare them identically.
type Booking struct {
	ID        string
	Kind      string
	ClassName string
	Teacher   string
	CreatedBy string
	StartTime string
	EndTime   string
	Color     string

	// Single variant.
	Date string

	// Recurring variant. Weekday uses the 0 (Sunday) to 6 (Saturday)
	// numbering. A nil EndDate means the booking never expires.
	Weekday        int
	StartDate      string
	EndDate        *string
	DurationMonths int

	CreatedAt time.Time
	UpdatedAt time.Time
}

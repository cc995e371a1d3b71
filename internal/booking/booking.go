// Package booking defines the studio booking model and the pure engine logic
// built on it: occurrence resolution and conflict detection.
package booking

import (
	"github.com/example/studio-booking/internal/calendar"
)

// Kind discriminates the two booking variants.
type Kind string

const (
	// KindSingle marks a booking with exactly one calendar date.
	KindSingle Kind = "single"
	// KindRecurring marks a weekly booking active within a date range.
	KindRecurring Kind = "recurring"
)

// Valid reports whether the kind is one of the two known variants.
func (k Kind) Valid() bool { return k == KindSingle || k == KindRecurring }

// Palette is the fixed set of cosmetic colors a booking may carry.
var Palette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#FED766", "#9B59B6",
	"#FFC0CB", "#20B2AA", "#FFA07A", "#8A2BE2", "#32CD32",
	"#FF8C00", "#00CED1", "#DA70D6", "#6A5ACD", "#FFD700",
}

// PaletteContains reports whether the color belongs to the fixed palette.
func PaletteContains(color string) bool {
	for _, c := range Palette {
		if c == color {
			return true
		}
	}
	return false
}

// Booking is a class booking. Kind selects which variant fields are
// meaningful: Date for single bookings; Weekday, Range and DurationMonths for
// recurring ones. Every interpretation of a Booking switches on Kind.
type Booking struct {
	ID        string
	Kind      Kind
	ClassName string
	Teacher   string
	CreatedBy string
	StartTime calendar.TimeOfDay
	EndTime   calendar.TimeOfDay
	Color     string

	// Single variant: the sole occurrence date.
	Date calendar.Date

	// Recurring variant.
	Weekday calendar.Weekday
	Range   calendar.DateRange
	// DurationMonths is the selector the end date was derived from;
	// 0 means unbounded.
	DurationMonths int
}

// timesOverlap is the half-open interval test shared by every conflict
// pairing: [aStart,aEnd) and [bStart,bEnd) overlap iff aStart < bEnd AND
// aEnd > bStart. Equal boundaries are back-to-back, not a conflict.
func timesOverlap(aStart, aEnd, bStart, bEnd calendar.TimeOfDay) bool {
	return aStart < bEnd && aEnd > bStart
}

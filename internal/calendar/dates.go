// Package calendar provides the civil date and wall-clock value types the
// booking engine is built on. Dates are plain year/month/day tuples with no
// timezone; a concrete instant only exists once a caller combines a Date with
// a TimeOfDay in some location.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidDate indicates a date string is not in YYYY-MM-DD form.
var ErrInvalidDate = errors.New("calendar: invalid date")

// ErrInvalidTimeOfDay indicates a time string is not in HH:MM form.
var ErrInvalidTimeOfDay = errors.New("calendar: invalid time of day")

// ErrInvalidWeekday indicates an unrecognized weekday name.
var ErrInvalidWeekday = errors.New("calendar: invalid weekday")

// Date is a civil calendar date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate constructs a normalized Date. Out-of-range components roll over the
// same way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf extracts the civil date of an instant in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return DateOf(t), nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns the midnight instant of the date in the given location.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Compare returns -1, 0 or 1 ordering the receiver against other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return compareInt(d.Year, other.Year)
	case d.Month != other.Month:
		return compareInt(int(d.Month), int(other.Month))
	default:
		return compareInt(d.Day, other.Day)
	}
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d is later than other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// Equal reports whether both dates name the same day.
func (d Date) Equal(other Date) bool { return d.Compare(other) == 0 }

// AddDays returns the date n days later (earlier when n is negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time(time.UTC).AddDate(0, 0, n))
}

// AddMonths returns the date n months later, with time.AddDate overflow
// normalization (Jan 31 + 1 month yields Mar 2/3).
func (d Date) AddMonths(n int) Date {
	return DateOf(d.Time(time.UTC).AddDate(0, n, 0))
}

// Weekday returns the weekday the date falls on.
func (d Date) Weekday() Weekday {
	return Weekday(d.Time(time.UTC).Weekday())
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Weekday names a day of the week using the standard 0 (Sunday) through
// 6 (Saturday) numbering.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// ParseWeekday resolves an English weekday name.
func ParseWeekday(value string) (Weekday, error) {
	for i, name := range weekdayNames {
		if name == value {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, value)
}

// String returns the English weekday name.
func (w Weekday) String() string {
	if w < Sunday || w > Saturday {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayNames[w]
}

// Valid reports whether the weekday is one of the seven named days.
func (w Weekday) Valid() bool { return w >= Sunday && w <= Saturday }

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses a zero-padded HH:MM string.
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	if len(value) != 5 || value[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	hours, err1 := strconv.Atoi(value[:2])
	minutes, err2 := strconv.Atoi(value[3:])
	if err1 != nil || err2 != nil || hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	return TimeOfDay(hours*60 + minutes), nil
}

// String renders the time as zero-padded HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Minutes returns the offset from midnight in minutes.
func (t TimeOfDay) Minutes() int { return int(t) }

// On combines the time of day with a date into an instant in loc.
func (t TimeOfDay) On(d Date, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, int(t)/60, int(t)%60, 0, 0, loc)
}

// WeekOf returns the seven dates of the Monday-start week containing d.
func WeekOf(d Date) [7]Date {
	// In the 0-6 numbering Monday is 1; shift so Monday leads the week.
	offset := (int(d.Weekday()) + 6) % 7
	start := d.AddDays(-offset)

	var week [7]Date
	for i := range week {
		week[i] = start.AddDays(i)
	}
	return week
}

// MonthOf returns the first and last date of the month containing d.
func MonthOf(d Date) (Date, Date) {
	first := Date{Year: d.Year, Month: d.Month, Day: 1}
	last := first.AddMonths(1).AddDays(-1)
	return first, last
}

// DateRange is an inclusive span of dates. A nil End means the range never
// expires; comparisons handle that case explicitly rather than substituting a
// far-future sentinel.
type DateRange struct {
	Start Date
	End   *Date
}

// Bounded reports whether the range has an end date.
func (r DateRange) Bounded() bool { return r.End != nil }

// Contains reports whether the date falls inside the range, inclusive at both
// ends.
func (r DateRange) Contains(d Date) bool {
	if d.Before(r.Start) {
		return false
	}
	return r.End == nil || !d.After(*r.End)
}

// Overlaps reports whether the range intersects the window (start, end),
// strict at both boundaries: Start < end AND endOrUnbounded > start. This is
// the monthly-summary semantics; use Contains for date-exact checks.
func (r DateRange) Overlaps(start, end Date) bool {
	if !r.Start.Before(end) {
		return false
	}
	return r.End == nil || r.End.After(start)
}

// OverlapsRange reports whether two ranges intersect, with unbounded ends
// treated as extending forever.
func (r DateRange) OverlapsRange(other DateRange) bool {
	if other.End != nil && !r.Start.Before(*other.End) {
		return false
	}
	if r.End != nil && !other.Start.Before(*r.End) {
		return false
	}
	return true
}

package booking

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/example/studio-booking/internal/calendar"
)

// OccursOn reports whether the booking takes place on the given date. Single
// bookings occur on their date only; recurring bookings occur on every date
// that matches their weekday and falls inside the active range, inclusive.
func OccursOn(b Booking, date calendar.Date) bool {
	switch b.Kind {
	case KindSingle:
		return b.Date.Equal(date)
	case KindRecurring:
		return date.Weekday() == b.Weekday && b.Range.Contains(date)
	default:
		return false
	}
}

// OccurrencesInWeek returns the subset of the week's dates on which the
// booking occurs, in chronological order. Recurring bookings are expanded
// through their weekly RRULE over the week window.
func OccurrencesInWeek(b Booking, week [7]calendar.Date) []calendar.Date {
	switch b.Kind {
	case KindSingle:
		if b.Date.Before(week[0]) || b.Date.After(week[6]) {
			return nil
		}
		return []calendar.Date{b.Date}
	case KindRecurring:
		return expandRecurring(b, week[0], week[6])
	default:
		return nil
	}
}

// ActiveInMonth reports whether a recurring booking's active range overlaps
// the month window, strict at both boundaries. This is the monthly-summary
// test; it deliberately never enumerates concrete dates, and single bookings
// are outside its domain.
func ActiveInMonth(b Booking, monthStart, monthEnd calendar.Date) bool {
	if b.Kind != KindRecurring {
		return false
	}
	return b.Range.Overlaps(monthStart, monthEnd)
}

// expandRecurring enumerates the concrete dates of a recurring booking inside
// [from, to] inclusive via a weekly recurrence rule anchored at the range
// start and clipped to the range end.
func expandRecurring(b Booking, from, to calendar.Date) []calendar.Date {
	opt := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   b.Range.Start.Time(time.UTC),
		Byweekday: []rrule.Weekday{rruleWeekday(b.Weekday)},
	}
	if b.Range.End != nil {
		opt.Until = b.Range.End.Time(time.UTC)
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil
	}

	instants := rule.Between(from.Time(time.UTC), to.Time(time.UTC), true)
	if len(instants) == 0 {
		return nil
	}

	dates := make([]calendar.Date, 0, len(instants))
	for _, instant := range instants {
		dates = append(dates, calendar.DateOf(instant))
	}
	return dates
}

func rruleWeekday(w calendar.Weekday) rrule.Weekday {
	switch w {
	case calendar.Sunday:
		return rrule.SU
	case calendar.Monday:
		return rrule.MO
	case calendar.Tuesday:
		return rrule.TU
	case calendar.Wednesday:
		return rrule.WE
	case calendar.Thursday:
		return rrule.TH
	case calendar.Friday:
		return rrule.FR
	default:
		return rrule.SA
	}
}

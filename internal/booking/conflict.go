package booking

// FindConflict scans existing bookings in insertion order and returns the
// first one whose time interval overlaps the candidate on some shared
// concrete date, or nil when none does. A booking whose ID equals skipID is
// excluded from the comparison, which callers use to keep an edited booking
// from conflicting with its own stored state.
//
// The comparison basis depends on the kind pairing:
//
//   - single/single: same calendar date, then time overlap
//   - single/recurring: the single date matches the recurring weekday and
//     falls inside its active range, then time overlap on that date
//   - recurring/recurring: same weekday, time overlap, and overlapping
//     active ranges
func FindConflict(existing []Booking, candidate Booking, skipID string) *Booking {
	for i := range existing {
		other := &existing[i]
		if skipID != "" && other.ID == skipID {
			continue
		}
		if conflicts(candidate, *other) {
			return other
		}
	}
	return nil
}

func conflicts(candidate, other Booking) bool {
	switch candidate.Kind {
	case KindSingle:
		switch other.Kind {
		case KindSingle:
			return candidate.Date.Equal(other.Date) &&
				timesOverlap(candidate.StartTime, candidate.EndTime, other.StartTime, other.EndTime)
		case KindRecurring:
			return singleMeetsRecurring(candidate, other)
		}
	case KindRecurring:
		switch other.Kind {
		case KindSingle:
			return singleMeetsRecurring(other, candidate)
		case KindRecurring:
			if candidate.Weekday != other.Weekday {
				return false
			}
			// Weekday recurrence makes the absolute date irrelevant for the
			// time-of-day comparison; only the active ranges still matter.
			if !timesOverlap(candidate.StartTime, candidate.EndTime, other.StartTime, other.EndTime) {
				return false
			}
			return candidate.Range.OverlapsRange(other.Range)
		}
	}
	return false
}

// singleMeetsRecurring evaluates the mixed pairing from the single booking's
// date: the recurring booking must produce an occurrence on that exact date
// before the time intervals are compared.
func singleMeetsRecurring(single, recurring Booking) bool {
	if single.Date.Weekday() != recurring.Weekday {
		return false
	}
	if !recurring.Range.Contains(single.Date) {
		return false
	}
	return timesOverlap(single.StartTime, single.EndTime, recurring.StartTime, recurring.EndTime)
}

package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/example/studio-booking/internal/booking"
	"github.com/example/studio-booking/internal/calendar"
	"github.com/example/studio-booking/internal/persistence"
)

// BookingService orchestrates validation, conflict detection and persistence
// for booking mutations. Mutations are serialized with a mutex so that no two
// callers can pass the conflict check concurrently and both commit; reads go
// straight to the store.
type BookingService struct {
	mu          sync.Mutex
	bookings    persistence.BookingRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
	cache       *weekViewCache
}

// NewBookingService wires dependencies for booking operations.
func NewBookingService(bookings persistence.BookingRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings:    bookings,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
		cache:       newWeekViewCache(0, 0, now),
	}
}

// Create validates the input, derives the recurring date range, and commits
// the booking unless it conflicts with an existing one. The identifier is
// assigned only after the conflict check passes, so a rejected create
// consumes nothing.
func (s *BookingService) Create(ctx context.Context, params CreateBookingParams) (Booking, error) {
	logger := serviceLogger(ctx, s.logger, "booking", "create", "staff", params.Principal.Staff)

	candidate, vErr := s.parseInput(params.Input)
	if params.Principal.Staff == "" {
		vErr.add("created_by", "creator is required")
	}
	if vErr.HasErrors() {
		logger.WarnContext(ctx, "create rejected", "error_kind", ErrorKind(vErr))
		return Booking{}, vErr
	}
	candidate.CreatedBy = params.Principal.Staff

	if candidate.Kind == booking.KindRecurring {
		start := calendar.DateOf(s.now())
		candidate.Range = deriveRange(start, candidate.DurationMonths)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.listDomain(ctx)
	if err != nil {
		return Booking{}, err
	}

	if blocked := booking.FindConflict(existing, candidate, ""); blocked != nil {
		cErr := &ConflictError{With: *blocked}
		logger.WarnContext(ctx, "create rejected", "error_kind", ErrorKind(cErr), "conflicts_with", blocked.ID)
		return Booking{}, cErr
	}

	candidate.ID = s.idGenerator()
	record := toRecord(candidate)
	record.CreatedAt = s.now().UTC()
	record.UpdatedAt = record.CreatedAt

	if err := s.bookings.CreateBooking(ctx, record); err != nil {
		return Booking{}, mapRepoError(err)
	}
	s.cache.Invalidate()

	logger.InfoContext(ctx, "booking created", "booking_id", candidate.ID, "kind", string(candidate.Kind))
	return Booking{Booking: candidate, CreatedAt: record.CreatedAt, UpdatedAt: record.UpdatedAt}, nil
}

// Update replaces a stored booking. The identifier, creator, kind and, for
// recurring bookings, the anchor start date are preserved from the original;
// the end date is recomputed from that original start date and the new
// duration. The booking under edit is excluded from the conflict comparison.
func (s *BookingService) Update(ctx context.Context, params UpdateBookingParams) (Booking, error) {
	logger := serviceLogger(ctx, s.logger, "booking", "update", "booking_id", params.BookingID)

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.bookings.GetBooking(ctx, params.BookingID)
	if err != nil {
		return Booking{}, mapRepoError(err)
	}
	original, err := toDomain(record)
	if err != nil {
		return Booking{}, err
	}

	candidate, vErr := s.parseInput(params.Input)
	if candidate.Kind.Valid() && candidate.Kind != original.Kind {
		vErr.add("type", "booking type cannot be changed")
	}
	if vErr.HasErrors() {
		logger.WarnContext(ctx, "update rejected", "error_kind", ErrorKind(vErr))
		return Booking{}, vErr
	}

	candidate.ID = original.ID
	candidate.CreatedBy = original.CreatedBy
	if candidate.Kind == booking.KindRecurring {
		// The anchor start date survives edits; only the duration selector
		// moves the end date.
		candidate.Range = deriveRange(original.Range.Start, candidate.DurationMonths)
	}

	existing, err := s.listDomain(ctx)
	if err != nil {
		return Booking{}, err
	}

	if blocked := booking.FindConflict(existing, candidate, candidate.ID); blocked != nil {
		cErr := &ConflictError{With: *blocked}
		logger.WarnContext(ctx, "update rejected", "error_kind", ErrorKind(cErr), "conflicts_with", blocked.ID)
		return Booking{}, cErr
	}

	updated := toRecord(candidate)
	updated.CreatedAt = record.CreatedAt
	updated.UpdatedAt = s.now().UTC()

	if err := s.bookings.UpdateBooking(ctx, updated); err != nil {
		return Booking{}, mapRepoError(err)
	}
	s.cache.Invalidate()

	logger.InfoContext(ctx, "booking updated")
	return Booking{Booking: candidate, CreatedAt: updated.CreatedAt, UpdatedAt: updated.UpdatedAt}, nil
}

// Delete removes a booking by identifier.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	logger := serviceLogger(ctx, s.logger, "booking", "delete", "booking_id", id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.bookings.DeleteBooking(ctx, id); err != nil {
		err = mapRepoError(err)
		logger.WarnContext(ctx, "delete rejected", "error_kind", ErrorKind(err))
		return err
	}
	s.cache.Invalidate()

	logger.InfoContext(ctx, "booking deleted")
	return nil
}

// ListWeek returns every booking with at least one occurrence in the
// Monday-start week containing the reference date, with the concrete
// occurrence dates attached.
func (s *BookingService) ListWeek(ctx context.Context, reference calendar.Date) ([]Booking, error) {
	week := calendar.WeekOf(reference)
	key := week[0].String()

	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	records, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}

	result := make([]Booking, 0)
	for _, record := range records {
		b, err := toDomain(record)
		if err != nil {
			return nil, err
		}
		occurrences := booking.OccurrencesInWeek(b, week)
		if len(occurrences) == 0 {
			continue
		}
		result = append(result, Booking{
			Booking:     b,
			CreatedAt:   record.CreatedAt,
			UpdatedAt:   record.UpdatedAt,
			Occurrences: occurrences,
		})
	}

	s.cache.Store(key, result)
	return result, nil
}

// ListMonthRecurring returns the recurring bookings whose active range
// overlaps the month containing the reference date. This is a pure range
// overlap; it never enumerates concrete dates.
func (s *BookingService) ListMonthRecurring(ctx context.Context, reference calendar.Date) ([]Booking, error) {
	monthStart, monthEnd := calendar.MonthOf(reference)

	records, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}

	result := make([]Booking, 0)
	for _, record := range records {
		b, err := toDomain(record)
		if err != nil {
			return nil, err
		}
		if !booking.ActiveInMonth(b, monthStart, monthEnd) {
			continue
		}
		result = append(result, Booking{Booking: b, CreatedAt: record.CreatedAt, UpdatedAt: record.UpdatedAt})
	}

	return result, nil
}

// Seed loads initial bookings at startup. Entries that fail validation or
// conflict with earlier seeds are logged and skipped; seeding never aborts.
func (s *BookingService) Seed(ctx context.Context, entries []CreateBookingParams) {
	logger := serviceLogger(ctx, s.logger, "booking", "seed")
	for _, entry := range entries {
		if _, err := s.Create(ctx, entry); err != nil {
			logger.WarnContext(ctx, "seed entry skipped",
				"class_name", entry.Input.ClassName, "error_kind", ErrorKind(err), "error", err)
		}
	}
}

// parseInput validates the raw input and builds the domain booking, leaving
// ID, CreatedBy and the derived recurring range for the caller.
func (s *BookingService) parseInput(input BookingInput) (booking.Booking, *ValidationError) {
	vErr := &ValidationError{}
	b := booking.Booking{
		Kind:      booking.Kind(strings.TrimSpace(input.Kind)),
		ClassName: strings.TrimSpace(input.ClassName),
		Teacher:   strings.TrimSpace(input.Teacher),
		Color:     strings.TrimSpace(input.Color),
	}

	if !b.Kind.Valid() {
		vErr.add("type", "type must be single or recurring")
	}
	if b.ClassName == "" {
		vErr.add("class_name", "class name is required")
	}
	if b.Teacher == "" {
		vErr.add("teacher", "teacher is required")
	}
	if b.Color == "" {
		vErr.add("color", "color is required")
	} else if !booking.PaletteContains(b.Color) {
		vErr.add("color", "color is not in the palette")
	}

	start, err := calendar.ParseTimeOfDay(strings.TrimSpace(input.StartTime))
	if err != nil {
		vErr.add("start_time", "start time must be HH:MM")
	} else if start.Minutes()%30 != 0 {
		vErr.add("start_time", "start time must be on a 30-minute boundary")
	}
	end, err := calendar.ParseTimeOfDay(strings.TrimSpace(input.EndTime))
	if err != nil {
		vErr.add("end_time", "end time must be HH:MM")
	} else if end.Minutes()%30 != 0 {
		vErr.add("end_time", "end time must be on a 30-minute boundary")
	}
	if _, ok := vErr.FieldErrors["start_time"]; !ok {
		if _, ok := vErr.FieldErrors["end_time"]; !ok && start >= end {
			vErr.add("time", "start time must be before end time")
		}
	}
	b.StartTime = start
	b.EndTime = end

	switch b.Kind {
	case booking.KindSingle:
		if strings.TrimSpace(input.Date) == "" {
			vErr.add("date", "date is required for a single booking")
			break
		}
		date, err := calendar.ParseDate(strings.TrimSpace(input.Date))
		if err != nil {
			vErr.add("date", "date must be YYYY-MM-DD")
			break
		}
		b.Date = date
	case booking.KindRecurring:
		if strings.TrimSpace(input.DayOfWeek) == "" {
			vErr.add("day_of_week", "day of week is required for a recurring booking")
		} else {
			weekday, err := calendar.ParseWeekday(strings.TrimSpace(input.DayOfWeek))
			if err != nil {
				vErr.add("day_of_week", "unknown day of week")
			} else {
				b.Weekday = weekday
			}
		}
		if strings.TrimSpace(input.Duration) == "" {
			vErr.add("duration", "duration is required for a recurring booking")
		} else {
			months, err := parseDuration(strings.TrimSpace(input.Duration))
			if err != nil {
				vErr.add("duration", "duration must be \"N months\" or \"unbounded\"")
			} else {
				b.DurationMonths = months
			}
		}
	}

	return b, vErr
}

// parseDuration resolves the duration selector: "unbounded", or "N month(s)"
// with N at least one.
func parseDuration(value string) (int, error) {
	if strings.EqualFold(value, "unbounded") {
		return 0, nil
	}

	fields := strings.Fields(value)
	if len(fields) != 2 {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	unit := strings.ToLower(fields[1])
	if unit != "month" && unit != "months" {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	months, err := strconv.Atoi(fields[0])
	if err != nil || months < 1 {
		return 0, fmt.Errorf("invalid duration %q", value)
	}
	return months, nil
}

// deriveRange computes the active range from the anchor start date and the
// duration selector. Zero months means the range never expires.
func deriveRange(start calendar.Date, months int) calendar.DateRange {
	if months == 0 {
		return calendar.DateRange{Start: start}
	}
	end := start.AddMonths(months)
	return calendar.DateRange{Start: start, End: &end}
}

func (s *BookingService) listDomain(ctx context.Context) ([]booking.Booking, error) {
	records, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	out := make([]booking.Booking, 0, len(records))
	for _, record := range records {
		b, err := toDomain(record)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func toRecord(b booking.Booking) persistence.Booking {
	record := persistence.Booking{
		ID:        b.ID,
		Kind:      string(b.Kind),
		ClassName: b.ClassName,
		Teacher:   b.Teacher,
		CreatedBy: b.CreatedBy,
		StartTime: b.StartTime.String(),
		EndTime:   b.EndTime.String(),
		Color:     b.Color,
	}

	switch b.Kind {
	case booking.KindSingle:
		record.Date = b.Date.String()
	case booking.KindRecurring:
		record.Weekday = int(b.Weekday)
		record.StartDate = b.Range.Start.String()
		record.DurationMonths = b.DurationMonths
		if b.Range.End != nil {
			endDate := b.Range.End.String()
			record.EndDate = &endDate
		}
	}

	return record
}

func toDomain(record persistence.Booking) (booking.Booking, error) {
	b := booking.Booking{
		ID:        record.ID,
		Kind:      booking.Kind(record.Kind),
		ClassName: record.ClassName,
		Teacher:   record.Teacher,
		CreatedBy: record.CreatedBy,
		Color:     record.Color,
	}

	var err error
	if b.StartTime, err = calendar.ParseTimeOfDay(record.StartTime); err != nil {
		return booking.Booking{}, fmt.Errorf("booking %s: %w", record.ID, err)
	}
	if b.EndTime, err = calendar.ParseTimeOfDay(record.EndTime); err != nil {
		return booking.Booking{}, fmt.Errorf("booking %s: %w", record.ID, err)
	}

	switch b.Kind {
	case booking.KindSingle:
		if b.Date, err = calendar.ParseDate(record.Date); err != nil {
			return booking.Booking{}, fmt.Errorf("booking %s: %w", record.ID, err)
		}
	case booking.KindRecurring:
		b.Weekday = calendar.Weekday(record.Weekday)
		b.DurationMonths = record.DurationMonths
		var start calendar.Date
		if start, err = calendar.ParseDate(record.StartDate); err != nil {
			return booking.Booking{}, fmt.Errorf("booking %s: %w", record.ID, err)
		}
		b.Range = calendar.DateRange{Start: start}
		if record.EndDate != nil {
			end, err := calendar.ParseDate(*record.EndDate)
			if err != nil {
				return booking.Booking{}, fmt.Errorf("booking %s: %w", record.ID, err)
			}
			b.Range.End = &end
		}
	default:
		return booking.Booking{}, fmt.Errorf("booking %s: unknown kind %q", record.ID, record.Kind)
	}

	return b, nil
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

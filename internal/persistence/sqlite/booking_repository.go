package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/studio-booking/internal/persistence"
)

// Store implements persistence.BookingRepository on SQLite.
type Store struct {
	pool *ConnectionPool
}

// Open creates a Store for the given DSN. Callers must run Migrate before
// issuing queries.
func Open(dsn string) (*Store, error) {
	pool, err := NewConnectionPool(dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.pool.Close()
}

const bookingColumns = `id, kind, class_name, teacher, created_by, start_time, end_time, color,
	date, weekday, start_date, end_date, duration_months, created_at, updated_at`

// CreateBooking inserts a new record at the end of the insertion order.
func (s *Store) CreateBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" {
		return persistence.ErrConstraintViolation
	}

	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}
	if booking.UpdatedAt.IsZero() {
		booking.UpdatedAt = booking.CreatedAt
	}

	return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var seq int64
		if err := tx.QueryRow("SELECT COALESCE(MAX(created_seq), 0) + 1 FROM bookings").Scan(&seq); err != nil {
			return mapSQLiteError(err)
		}

		query := `
			INSERT INTO bookings (` + bookingColumns + `, created_seq)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.Exec(query,
			booking.ID,
			booking.Kind,
			booking.ClassName,
			booking.Teacher,
			booking.CreatedBy,
			booking.StartTime,
			booking.EndTime,
			booking.Color,
			nullableString(booking.Date),
			booking.Weekday,
			nullableString(booking.StartDate),
			nullableStringPtr(booking.EndDate),
			booking.DurationMonths,
			booking.CreatedAt.Format(time.RFC3339Nano),
			booking.UpdatedAt.Format(time.RFC3339Nano),
			seq,
		)
		return mapSQLiteError(err)
	})
}

// GetBooking retrieves a record by identifier.
func (s *Store) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	if id == "" {
		return persistence.Booking{}, persistence.ErrNotFound
	}

	row := s.pool.DB().QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id)

	booking, err := scanBooking(row)
	if err != nil {
		return persistence.Booking{}, mapSQLiteError(err)
	}
	return booking, nil
}

// UpdateBooking replaces a stored record. The insertion sequence and creation
// metadata are left untouched.
func (s *Store) UpdateBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" {
		return persistence.ErrNotFound
	}

	if booking.UpdatedAt.IsZero() {
		booking.UpdatedAt = time.Now().UTC()
	}

	query := `
		UPDATE bookings
		SET kind = ?, class_name = ?, teacher = ?, created_by = ?, start_time = ?, end_time = ?,
			color = ?, date = ?, weekday = ?, start_date = ?, end_date = ?, duration_months = ?,
			updated_at = ?
		WHERE id = ?
	`
	result, err := s.pool.DB().ExecContext(ctx, query,
		booking.Kind,
		booking.ClassName,
		booking.Teacher,
		booking.CreatedBy,
		booking.StartTime,
		booking.EndTime,
		booking.Color,
		nullableString(booking.Date),
		booking.Weekday,
		nullableString(booking.StartDate),
		nullableStringPtr(booking.EndDate),
		booking.DurationMonths,
		booking.UpdatedAt.Format(time.RFC3339Nano),
		booking.ID,
	)
	if err != nil {
		return mapSQLiteError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// DeleteBooking removes a record by identifier.
func (s *Store) DeleteBooking(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	result, err := s.pool.DB().ExecContext(ctx, "DELETE FROM bookings WHERE id = ?", id)
	if err != nil {
		return mapSQLiteError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListBookings returns all records ordered by insertion sequence.
func (s *Store) ListBookings(ctx context.Context) ([]persistence.Booking, error) {
	rows, err := s.pool.DB().QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings ORDER BY created_seq ASC")
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var bookings []persistence.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, mapSQLiteError(err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLiteError(err)
	}
	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (persistence.Booking, error) {
	var booking persistence.Booking
	var date, startDate, endDate sql.NullString
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&booking.ID,
		&booking.Kind,
		&booking.ClassName,
		&booking.Teacher,
		&booking.CreatedBy,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Color,
		&date,
		&booking.Weekday,
		&startDate,
		&endDate,
		&booking.DurationMonths,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		return persistence.Booking{}, err
	}

	booking.Date = date.String
	booking.StartDate = startDate.String
	if endDate.Valid {
		value := endDate.String
		booking.EndDate = &value
	}

	if booking.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if booking.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAtStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return booking, nil
}

func nullableString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func nullableStringPtr(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

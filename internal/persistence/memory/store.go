// Package memory provides an in-memory BookingRepository. It is the reference
// store: a mutex-guarded insertion-ordered collection, suitable for tests and
// for running the service without a database file.
package memory

import (
	"context"
	"sync"

	"github.com/example/studio-booking/internal/persistence"
)

// Store keeps booking records in insertion order.
type Store struct {
	mu       sync.RWMutex
	order    []string
	bookings map[string]persistence.Booking
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{bookings: make(map[string]persistence.Booking)}
}

// CreateBooking appends a new record.
func (s *Store) CreateBooking(ctx context.Context, booking persistence.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[booking.ID]; ok {
		return persistence.ErrDuplicate
	}
	if booking.StartTime >= booking.EndTime {
		return persistence.ErrConstraintViolation
	}

	s.bookings[booking.ID] = cloneBooking(booking)
	s.order = append(s.order, booking.ID)
	return nil
}

// GetBooking retrieves a record by identifier.
func (s *Store) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[id]
	if !ok {
		return persistence.Booking{}, persistence.ErrNotFound
	}
	return cloneBooking(booking), nil
}

// UpdateBooking replaces a stored record, keeping its insertion position.
func (s *Store) UpdateBooking(ctx context.Context, booking persistence.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[booking.ID]; !ok {
		return persistence.ErrNotFound
	}
	if booking.StartTime >= booking.EndTime {
		return persistence.ErrConstraintViolation
	}

	s.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

// DeleteBooking removes a record by identifier.
func (s *Store) DeleteBooking(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[id]; !ok {
		return persistence.ErrNotFound
	}

	delete(s.bookings, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListBookings returns all records in insertion order.
func (s *Store) ListBookings(ctx context.Context) ([]persistence.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]persistence.Booking, 0, len(s.order))
	for _, id := range s.order {
		bookings = append(bookings, cloneBooking(s.bookings[id]))
	}
	return bookings, nil
}

func cloneBooking(booking persistence.Booking) persistence.Booking {
	out := booking
	if booking.EndDate != nil {
		endDate := *booking.EndDate
		out.EndDate = &endDate
	}
	return out
}

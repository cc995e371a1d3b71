package persistence

import "context"

// BookingRepository stores booking records. ListBookings must return records
// in insertion order: the conflict detector reports the first conflicting
// booking it encounters, and that order is part of the engine's contract.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	UpdateBooking(ctx context.Context, booking Booking) error
	DeleteBooking(ctx context.Context, id string) error
	ListBookings(ctx context.Context) ([]Booking, error)
}

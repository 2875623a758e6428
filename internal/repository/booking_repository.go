package repository

import (
	"context"
	"time"

	"github.com/iliyamo/rental-marketplace/internal/model"
)

// ListBookings returns every booking.
func (s *Store) ListBookings(ctx context.Context) ([]model.Booking, error) {
	if err := s.wait(ctx, "listBookings"); err != nil {
		return nil, err
	}
	return loadCollection[model.Booking](ctx, s.kv, KeyBookings)
}

// GetBooking fetches a booking by id.
func (s *Store) GetBooking(ctx context.Context, id string) (model.Booking, error) {
	bookings, err := loadCollection[model.Booking](ctx, s.kv, KeyBookings)
	if err != nil {
		return model.Booking{}, err
	}
	for _, b := range bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Booking{}, ErrNotFound
}

// CreateBooking records a pending request by user for property on date.
// The property title, owner and user name are copied in as they are now.
func (s *Store) CreateBooking(ctx context.Context, p model.Property, u model.User, date time.Time) (model.Booking, error) {
	if err := s.wait(ctx, "createBooking"); err != nil {
		return model.Booking{}, err
	}
	b := model.Booking{
		ID:            s.newID(),
		PropertyID:    p.ID,
		PropertyTitle: p.Title,
		UserID:        u.ID,
		UserName:      u.Name,
		OwnerID:       p.OwnerID,
		Date:          date,
		Status:        model.BookingPending,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	bookings, err := loadCollection[model.Booking](ctx, s.kv, KeyBookings)
	if err != nil {
		return model.Booking{}, err
	}
	if err := saveCollection(ctx, s.kv, KeyBookings, append(bookings, b)); err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

// SetBookingStatus records the owner's decision.  Unknown ids are
// ignored.
func (s *Store) SetBookingStatus(ctx context.Context, id string, status model.BookingStatus) error {
	if err := s.wait(ctx, "setBookStatus"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	bookings, err := loadCollection[model.Booking](ctx, s.kv, KeyBookings)
	if err != nil {
		return err
	}
	for i := range bookings {
		if bookings[i].ID == id {
			bookings[i].Status = status
			return saveCollection(ctx, s.kv, KeyBookings, bookings)
		}
	}
	return nil
}

// BookingsByOwner lists requests made against ownerID's properties.
func (s *Store) BookingsByOwner(ctx context.Context, ownerID string) ([]model.Booking, error) {
	return s.filterBookings(ctx, func(b model.Booking) bool { return b.OwnerID == ownerID })
}

// BookingsByUser lists requests made by userID.
func (s *Store) BookingsByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	return s.filterBookings(ctx, func(b model.Booking) bool { return b.UserID == userID })
}

func (s *Store) filterBookings(ctx context.Context, keep func(model.Booking) bool) ([]model.Booking, error) {
	bookings, err := s.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.Booking{}
	for _, b := range bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

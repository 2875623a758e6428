package repository

import (
	"context"

	"github.com/iliyamo/rental-marketplace/internal/model"
)

// AdminStats counts users, owners, properties, pending properties and
// bookings.  Nothing is cached; every call reads all three collections.
func (s *Store) AdminStats(ctx context.Context) (model.AdminStats, error) {
	if err := s.wait(ctx, "computeStats"); err != nil {
		return model.AdminStats{}, err
	}
	users, err := loadCollection[model.User](ctx, s.kv, KeyUsers)
	if err != nil {
		return model.AdminStats{}, err
	}
	props, err := loadCollection[model.Property](ctx, s.kv, KeyProperties)
	if err != nil {
		return model.AdminStats{}, err
	}
	bookings, err := loadCollection[model.Booking](ctx, s.kv, KeyBookings)
	if err != nil {
		return model.AdminStats{}, err
	}

	st := model.AdminStats{
		TotalUsers:      len(users),
		TotalProperties: len(props),
		TotalBookings:   len(bookings),
	}
	for _, u := range users {
		if u.Role == model.RoleOwner {
			st.TotalOwners++
		}
	}
	for _, p := range props {
		if p.Status == model.PropertyPending {
			st.PendingProperties++
		}
	}
	return st, nil
}

// OwnerStats summarizes one owner's dashboard.  Active tenants are the
// approved bookings on the owner's properties.
func (s *Store) OwnerStats(ctx context.Context, ownerID string) (model.OwnerStats, error) {
	if err := s.wait(ctx, "computeStats"); err != nil {
		return model.OwnerStats{}, err
	}
	props, err := loadCollection[model.Property](ctx, s.kv, KeyProperties)
	if err != nil {
		return model.OwnerStats{}, err
	}
	bookings, err := loadCollection[model.Booking](ctx, s.kv, KeyBookings)
	if err != nil {
		return model.OwnerStats{}, err
	}

	var st model.OwnerStats
	for _, p := range props {
		if p.OwnerID == ownerID {
			st.MyProperties++
		}
	}
	for _, b := range bookings {
		if b.OwnerID != ownerID {
			continue
		}
		st.TotalRequests++
		if b.Status == model.BookingApproved {
			st.ActiveTenants++
		}
	}
	return st, nil
}

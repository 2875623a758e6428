package model

import "time"

// BookingStatus is the owner-controlled state of a booking request.
type BookingStatus string

const (
	BookingPending  BookingStatus = "pending"
	BookingApproved BookingStatus = "approved"
	BookingRejected BookingStatus = "rejected"
)

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingApproved, BookingRejected:
		return true
	}
	return false
}

// Booking records a tenant's request to rent a property.  There is no
// uniqueness constraint: the same user may request the same property
// several times and each request is its own row.
//
// Fields:
//  ID            – opaque identifier.
//  PropertyID    – requested property.
//  PropertyTitle – property title copied at request time.
//  UserID        – requesting user.
//  UserName      – requester name copied at request time.
//  OwnerID       – owner of the property, copied so owners can filter.
//  Date          – requested date.
//  Status        – pending, approved or rejected.
type Booking struct {
	ID            string        `json:"id"`
	PropertyID    string        `json:"propertyId"`
	PropertyTitle string        `json:"propertyTitle"`
	UserID        string        `json:"userId"`
	UserName      string        `json:"userName"`
	OwnerID       string        `json:"ownerId"`
	Date          time.Time     `json:"date"`
	Status        BookingStatus `json:"status"`
}

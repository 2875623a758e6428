// Package queue defines the booking events exchanged over the message
// broker and the consumer that records them.
package queue

import (
	"time"

	"github.com/iliyamo/rental-marketplace/internal/model"
)

// BookingQueue is the durable queue booking events are routed to.
const BookingQueue = "booking.events"

// Event kinds.
const (
	KindRequested = "requested"
	KindDecided   = "decided"
)

// BookingEvent is published when a tenant requests a booking and when an
// owner decides one.  It carries enough to log the change without
// reading the store.
type BookingEvent struct {
	Kind          string              `json:"kind"`
	BookingID     string              `json:"bookingId"`
	PropertyID    string              `json:"propertyId"`
	PropertyTitle string              `json:"propertyTitle"`
	UserID        string              `json:"userId"`
	OwnerID       string              `json:"ownerId"`
	Status        model.BookingStatus `json:"status"`
	OccurredAt    time.Time           `json:"occurredAt"`
}

// NewBookingEvent describes b as it stands after a change of kind.
func NewBookingEvent(kind string, b model.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Kind:          kind,
		BookingID:     b.ID,
		PropertyID:    b.PropertyID,
		PropertyTitle: b.PropertyTitle,
		UserID:        b.UserID,
		OwnerID:       b.OwnerID,
		Status:        b.Status,
		OccurredAt:    at.UTC(),
	}
}

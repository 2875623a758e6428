package model

import "time"

// PropertyType classifies a listing.
type PropertyType string

const (
	PropertyType1BHK      PropertyType = "1BHK"
	PropertyType2BHK      PropertyType = "2BHK"
	PropertyTypeVilla     PropertyType = "Villa"
	PropertyTypeApartment PropertyType = "Apartment"
)

// Valid reports whether t is one of the known property types.
func (t PropertyType) Valid() bool {
	switch t {
	case PropertyType1BHK, PropertyType2BHK, PropertyTypeVilla, PropertyTypeApartment:
		return true
	}
	return false
}

// PropertyStatus is the moderation state of a listing.  Only an admin
// moves a property out of pending.
type PropertyStatus string

const (
	PropertyPending  PropertyStatus = "pending"
	PropertyApproved PropertyStatus = "approved"
	PropertyRejected PropertyStatus = "rejected"
)

// Valid reports whether s is one of the known property statuses.
func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyPending, PropertyApproved, PropertyRejected:
		return true
	}
	return false
}

// Property represents a rental listing created by an owner.
//
// Fields:
//  ID          – opaque identifier.
//  OwnerID     – id of the owning user.
//  OwnerName   – owner's display name copied at creation time; it is a
//                snapshot and does not follow later renames.
//  Title       – listing title.
//  Slug        – URL-safe form of the title, used for keyword search.
//  Description – free text.
//  Type        – 1BHK, 2BHK, Villa or Apartment.
//  Rent        – monthly rent, positive.
//  Location    – free-form locality.
//  Amenities   – amenity labels.
//  Image       – image reference (URL).
//  Status      – pending, approved or rejected.
//  CreatedAt   – creation timestamp.
type Property struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"ownerId"`
	OwnerName   string         `json:"ownerName"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug,omitempty"`
	Description string         `json:"description"`
	Type        PropertyType   `json:"type"`
	Rent        float64        `json:"rent"`
	Location    string         `json:"location"`
	Amenities   []string       `json:"amenities"`
	Image       string         `json:"image"`
	Status      PropertyStatus `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
}

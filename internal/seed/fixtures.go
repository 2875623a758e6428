// Package seed holds the fixture records loaded into each collection the
// first time the store sees it empty.
package seed

import (
	"time"

	"github.com/gosimple/slug"

	"github.com/iliyamo/rental-marketplace/internal/model"
)

// Users returns the demo accounts: one tenant, two owners and an admin.
func Users() []model.User {
	return []model.User{
		{ID: "u1", Name: "John Tenant", Email: "user@demo.com", Role: model.RoleUser, Favorites: []string{}},
		{ID: "o1", Name: "Sarah Landlord", Email: "owner@demo.com", Role: model.RoleOwner, Favorites: []string{}},
		{ID: "o2", Name: "Mike Builder", Email: "builder@demo.com", Role: model.RoleOwner, Favorites: []string{}},
		{ID: "a1", Name: "Super Admin", Email: "admin@demo.com", Role: model.RoleAdmin, Favorites: []string{}},
	}
}

// Messages returns the opening exchange between the demo tenant and
// owner, dated relative to now.
func Messages(now time.Time) []model.Message {
	return []model.Message{
		{
			ID: "m1", SenderID: "u1", SenderName: "John Tenant",
			ReceiverID: "o1", ReceiverName: "Sarah Landlord",
			Text:      "Is the apartment still available?",
			Timestamp: now.Add(-24 * time.Hour),
		},
		{
			ID: "m2", SenderID: "o1", SenderName: "Sarah Landlord",
			ReceiverID: "u1", ReceiverName: "John Tenant",
			Text:      "Yes, it is! When would you like to view it?",
			Timestamp: now.Add(-82000 * time.Second),
		},
	}
}

type listing struct {
	id, owner, title, desc, location, image string
	typ                                     model.PropertyType
	rent                                    float64
	amenities                               []string
	status                                  model.PropertyStatus
}

var listings = []listing{
	{"p1", "o1", "Luxury Apartment near RPD Cross", "A beautiful 2BHK in the heart of Tilakwadi with a gym and pool access. Close to colleges and shopping centers.", "Tilakwadi, Belgaum", "photo-1522708323590-d24dbb6b0267", model.PropertyType2BHK, 15000, []string{"Gym", "Pool", "Parking", "WiFi", "Concierge"}, model.PropertyApproved},
	{"p2", "o1", "Cozy Villa in Hindwadi", "Perfect for families, this villa offers a large backyard, quiet neighborhood, and proximity to schools.", "Hindwadi, Belgaum", "photo-1564013799919-ab600027ffc6", model.PropertyTypeVilla, 25000, []string{"Garden", "Garage", "Pet Friendly", "Fireplace"}, model.PropertyPending},
	{"p3", "o2", "Modern Studio in Camp", "High ceilings, large windows, and modern design. Ideal for young professionals working in the city center.", "Camp, Belgaum", "photo-1502672260266-1c1ef2d93688", model.PropertyType1BHK, 12000, []string{"AC", "Smart Home", "Roof Access", "Elevator"}, model.PropertyApproved},
	{"p4", "o2", "Spacious Bungalow", "A serene home in the quiet lanes of Sadashiv Nagar. Includes a private garden.", "Sadashiv Nagar, Belgaum", "photo-1499793983690-e29da59ef1c2", model.PropertyTypeVilla, 30000, []string{"Garden", "Patio", "Fireplace", "Furnished"}, model.PropertyApproved},
	{"p5", "o1", "High-rise Flat at Club Road", "Spacious 3 bedroom apartment with stunning city views and premium finishes.", "Club Road, Belgaum", "photo-1545324418-cc1a3fa10c00", model.PropertyTypeApartment, 22000, []string{"Elevator", "Concierge", "Gym", "Balcony"}, model.PropertyApproved},
	{"p6", "o2", "Student Flat near VTU", "Affordable, compact, and close to the university campus. Great community vibe.", "Machhe, Belgaum", "photo-1555854877-bab0e564b8d5", model.PropertyType1BHK, 8000, []string{"WiFi", "Study Area", "Shared Laundry", "Bicycle Parking"}, model.PropertyApproved},
	{"p7", "o1", "Family Home in Bhagya Nagar", "A lovely place to raise a family with spacious rooms and a maintained garden.", "Bhagya Nagar, Belgaum", "photo-1580587771525-78b9dba3b91d", model.PropertyTypeVilla, 18000, []string{"Garden", "Parking", "Near School", "Playground"}, model.PropertyApproved},
	{"p8", "o2", "Executive Suite at Congress Road", "Luxury living for business travelers. Fully serviced with cleaning included.", "Congress Road, Belgaum", "photo-1512917774080-9991f1c4c750", model.PropertyTypeApartment, 28000, []string{"Conference Room", "Valet", "Spa", "Housekeeping"}, model.PropertyPending},
	{"p9", "o1", "Minimalist Condo", "Clean lines and modern design in Shivbasav Nagar. Walking distance to parks.", "Shivbasav Nagar, Belgaum", "photo-1493809842364-78817add7ffb", model.PropertyType1BHK, 11000, []string{"Security", "Balcony", "Modern Kitchen", "Smart Lock"}, model.PropertyApproved},
	{"p10", "o2", "Traditional House in Shahapur", "Charming renovated house in the historic Shahapur area. Original features preserved.", "Shahapur, Belgaum", "photo-1505691938895-1758d7feb511", model.PropertyTypeApartment, 14000, []string{"Classic Architecture", "Central Heating", "Library", "Courtyard"}, model.PropertyApproved},
	{"p11", "o1", "Penthouse near Chennamma Circle", "Top floor luxury with private elevator and panoramic city views.", "Chennamma Circle, Belgaum", "photo-1512918760532-3ed8629b9919", model.PropertyTypeApartment, 35000, []string{"Private Pool", "Helipad Access", "Smart Home", "Butler Service"}, model.PropertyApproved},
	{"p12", "o2", "Budget Friendly 2BHK in Vadgaon", "Clean and spacious apartment perfect for small families or roommates.", "Vadgaon, Belgaum", "photo-1484154218962-a1c00207bf9a", model.PropertyType2BHK, 9000, []string{"Parking", "Near Bus Stop", "Security"}, model.PropertyApproved},
	{"p13", "o1", "Farmhouse near Rakaskop", "Peaceful retreat near the dam. Ideal for weekend getaways or quiet living.", "Rakaskop Road, Belgaum", "photo-1464146072230-91cabc968266", model.PropertyTypeVilla, 20000, []string{"Nature View", "Boathouse", "Fireplace", "Garden"}, model.PropertyApproved},
	{"p14", "o2", "Modern Pad in Hanuman Nagar", "Compact, efficient, and located in a peaceful residential area.", "Hanuman Nagar, Belgaum", "photo-1502005229762-cf1b2da7c5d6", model.PropertyType1BHK, 10000, []string{"Gym", "Rooftop Bar", "Coworking Space"}, model.PropertyApproved},
	{"p15", "o1", "Premium Villa in Udyambag", "Massive 4 bedroom house with a large pool and backyard for kids.", "Udyambag, Belgaum", "photo-1600596542815-e495e91f71a5", model.PropertyTypeVilla, 32000, []string{"Pool", "Home Theater", "Gym", "Guesthouse"}, model.PropertyApproved},
}

var ownerNames = map[string]string{"o1": "Sarah Landlord", "o2": "Mike Builder"}

// Properties returns the fifteen demo listings, two of them pending.
func Properties(now time.Time) []model.Property {
	out := make([]model.Property, 0, len(listings))
	for _, l := range listings {
		out = append(out, model.Property{
			ID:          l.id,
			OwnerID:     l.owner,
			OwnerName:   ownerNames[l.owner],
			Title:       l.title,
			Slug:        slug.Make(l.title),
			Description: l.desc,
			Type:        l.typ,
			Rent:        l.rent,
			Location:    l.location,
			Amenities:   append([]string(nil), l.amenities...),
			Image:       "https://images.unsplash.com/" + l.image + "?auto=format&fit=crop&w=800&q=80",
			Status:      l.status,
			CreatedAt:   now,
		})
	}
	return out
}

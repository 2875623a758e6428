package repository

import (
	"context"
	"strings"

	"github.com/gosimple/slug"

	"github.com/iliyamo/rental-marketplace/internal/model"
)

// PropertyFilter narrows SearchProperties.  Zero fields match anything.
//
// Fields:
//   - Location: case-insensitive substring of the property location.
//   - Type: exact property type.
//   - Query: free text; matched against the slug after slugifying it.
//   - OnlyApproved: hide pending and rejected listings (public browsing).
type PropertyFilter struct {
	Location     string
	Type         model.PropertyType
	Query        string
	OnlyApproved bool
}

// ListProperties returns every property regardless of status.
func (s *Store) ListProperties(ctx context.Context) ([]model.Property, error) {
	if err := s.wait(ctx, "listProperties"); err != nil {
		return nil, err
	}
	return loadCollection[model.Property](ctx, s.kv, KeyProperties)
}

// GetPropertyByID fetches a property or returns ErrNotFound.
func (s *Store) GetPropertyByID(ctx context.Context, id string) (model.Property, error) {
	if err := s.wait(ctx, "getProperty"); err != nil {
		return model.Property{}, err
	}
	props, err := loadCollection[model.Property](ctx, s.kv, KeyProperties)
	if err != nil {
		return model.Property{}, err
	}
	for _, p := range props {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Property{}, ErrNotFound
}

// CreateProperty appends a new listing owned by owner.  Whatever status
// the input carries, the stored record is pending until an admin
// decides it.
func (s *Store) CreateProperty(ctx context.Context, in model.Property, owner model.User) (model.Property, error) {
	if err := s.wait(ctx, "createProperty"); err != nil {
		return model.Property{}, err
	}
	p := in
	p.ID = s.newID()
	p.OwnerID = owner.ID
	p.OwnerName = owner.Name
	p.Status = model.PropertyPending
	p.CreatedAt = s.now()
	p.Slug = slug.Make(p.Title)
	if p.Amenities == nil {
		p.Amenities = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	props, err := loadCollection[model.Property](ctx, s.kv, KeyProperties)
	if err != nil {
		return model.Property{}, err
	}
	if err := saveCollection(ctx, s.kv, KeyProperties, append(props, p)); err != nil {
		return model.Property{}, err
	}
	return p, nil
}

// SetPropertyStatus records an admin decision.  An unknown id is not an
// error and leaves the collection as it was.
func (s *Store) SetPropertyStatus(ctx context.Context, id string, status model.PropertyStatus) error {
	if err := s.wait(ctx, "setPropStatus"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	props, err := loadCollection[model.Property](ctx, s.kv, KeyProperties)
	if err != nil {
		return err
	}
	for i := range props {
		if props[i].ID == id {
			props[i].Status = status
			return saveCollection(ctx, s.kv, KeyProperties, props)
		}
	}
	return nil
}

// SearchProperties applies f to the full listing.
func (s *Store) SearchProperties(ctx context.Context, f PropertyFilter) ([]model.Property, error) {
	props, err := s.ListProperties(ctx)
	if err != nil {
		return nil, err
	}
	loc := strings.ToLower(strings.TrimSpace(f.Location))
	q := slug.Make(f.Query)
	out := []model.Property{}
	for _, p := range props {
		if f.OnlyApproved && p.Status != model.PropertyApproved {
			continue
		}
		if loc != "" && !strings.Contains(strings.ToLower(p.Location), loc) {
			continue
		}
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if q != "" && !strings.Contains(propertySlug(p), q) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// PropertiesByOwner lists the owner's listings in every status.
func (s *Store) PropertiesByOwner(ctx context.Context, ownerID string) ([]model.Property, error) {
	props, err := s.ListProperties(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.Property{}
	for _, p := range props {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

// FavoriteProperties resolves u's favorite ids, in favorite order.  Ids
// that no longer exist are skipped.
func (s *Store) FavoriteProperties(ctx context.Context, u model.User) ([]model.Property, error) {
	props, err := s.ListProperties(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Property, len(props))
	for _, p := range props {
		byID[p.ID] = p
	}
	out := []model.Property{}
	for _, id := range u.Favorites {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// records written before slugs existed carry none
func propertySlug(p model.Property) string {
	if p.Slug != "" {
		return p.Slug
	}
	return slug.Make(p.Title)
}

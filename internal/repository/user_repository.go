package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/rental-marketplace/internal/model"
)

// ListUsers returns every account.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	if err := s.wait(ctx, "listUsers"); err != nil {
		return nil, err
	}
	return loadCollection[model.User](ctx, s.kv, KeyUsers)
}

// GetUser fetches a user by id.
func (s *Store) GetUser(ctx context.Context, id string) (model.User, error) {
	users, err := loadCollection[model.User](ctx, s.kv, KeyUsers)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

// ResolveLogin finds the account for email, registering a new one when
// none exists.  The role hint only applies to new accounts; an invalid or
// empty hint registers a plain user.  A blocked account yields
// ErrBlocked.
func (s *Store) ResolveLogin(ctx context.Context, email string, roleHint model.Role) (model.User, error) {
	if err := s.wait(ctx, "login"); err != nil {
		return model.User{}, err
	}
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := loadCollection[model.User](ctx, s.kv, KeyUsers)
	if err != nil {
		return model.User{}, err
	}
	for _, u := range users {
		if strings.ToLower(u.Email) != email {
			continue
		}
		if u.IsBlocked {
			return model.User{}, ErrBlocked
		}
		return u, nil
	}

	role := roleHint
	if !role.Valid() {
		role = model.RoleUser
	}
	name := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		name = email[:at]
	}
	u := model.User{
		ID:        s.newID(),
		Name:      name,
		Email:     email,
		Role:      role,
		Favorites: []string{},
	}
	if err := saveCollection(ctx, s.kv, KeyUsers, append(users, u)); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// ToggleFavorite adds propertyID to the user's favorites, or removes it
// when already present, and returns the updated user.
func (s *Store) ToggleFavorite(ctx context.Context, userID, propertyID string) (model.User, error) {
	if err := s.wait(ctx, "toggleFavorite"); err != nil {
		return model.User{}, err
	}
	return s.updateUser(ctx, userID, func(u *model.User) {
		kept := make([]string, 0, len(u.Favorites)+1)
		found := false
		for _, id := range u.Favorites {
			if id == propertyID {
				found = true
				continue
			}
			kept = append(kept, id)
		}
		if !found {
			kept = append(kept, propertyID)
		}
		u.Favorites = kept
	})
}

// ToggleUserBlocked flips the blocked flag.
func (s *Store) ToggleUserBlocked(ctx context.Context, userID string) (model.User, error) {
	if err := s.wait(ctx, "toggleBlocked"); err != nil {
		return model.User{}, err
	}
	return s.updateUser(ctx, userID, func(u *model.User) { u.IsBlocked = !u.IsBlocked })
}

// RenameUser changes the display name.  Names already copied into
// properties, bookings and messages are left as they were.
func (s *Store) RenameUser(ctx context.Context, userID, name string) (model.User, error) {
	if err := s.wait(ctx, "renameUser"); err != nil {
		return model.User{}, err
	}
	return s.updateUser(ctx, userID, func(u *model.User) { u.Name = name })
}

// SearchUsers lists accounts whose name contains q (any case) or whose
// email contains q lowercased.  An empty q matches everyone.
func (s *Store) SearchUsers(ctx context.Context, q string) ([]model.User, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return users, nil
	}
	out := []model.User{}
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(u.Email, q) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Store) updateUser(ctx context.Context, userID string, mutate func(*model.User)) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := loadCollection[model.User](ctx, s.kv, KeyUsers)
	if err != nil {
		return model.User{}, err
	}
	for i := range users {
		if users[i].ID != userID {
			continue
		}
		mutate(&users[i])
		if users[i].Favorites == nil {
			users[i].Favorites = []string{}
		}
		if err := saveCollection(ctx, s.kv, KeyUsers, users); err != nil {
			return model.User{}, err
		}
		return users[i], nil
	}
	return model.User{}, ErrNotFound
}

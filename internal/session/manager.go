// Package session keeps track of who is signed in on one client.  The
// signed-in user is a snapshot persisted under a single storage key, so
// a restarted client picks up where it left off.  The snapshot is not
// re-validated on restore: a user blocked or renamed since stays as
// recorded until Refresh or a new Login.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/iliyamo/rental-marketplace/internal/model"
	"github.com/iliyamo/rental-marketplace/internal/repository"
	"github.com/iliyamo/rental-marketplace/internal/storage"
)

// Key is the storage slot holding the signed-in user.
const Key = "re_session"

// Manager owns the session slot.  Views read it through Current and
// change it only through Login, Logout and Refresh.
type Manager struct {
	store *repository.Store
	kv    storage.Storage

	mu   sync.RWMutex
	user *model.User
}

func NewManager(store *repository.Store, kv storage.Storage) *Manager {
	return &Manager{store: store, kv: kv}
}

// Restore loads the persisted snapshot, if any.  An unreadable snapshot
// is discarded and the manager starts signed out.
func (m *Manager) Restore(ctx context.Context) error {
	b, err := m.kv.Get(ctx, Key)
	if errors.Is(err, storage.ErrNotFound) {
		m.set(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	var u model.User
	if err := json.Unmarshal(b, &u); err != nil || u.ID == "" {
		log.Printf("session: discarding unreadable snapshot")
		m.set(nil)
		return nil
	}
	m.set(&u)
	return nil
}

// Current returns the signed-in user and whether there is one.
func (m *Manager) Current() (model.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return model.User{}, false
	}
	return *m.user, true
}

// Login resolves email to an account (registering it when new) and
// persists it as the session.  On error the previous session stays.
func (m *Manager) Login(ctx context.Context, email string, roleHint model.Role) (model.User, error) {
	u, err := m.store.ResolveLogin(ctx, email, roleHint)
	if err != nil {
		return model.User{}, err
	}
	if err := m.persist(ctx, u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Logout clears the slot.  The account itself is untouched.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.kv.Delete(ctx, Key); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	m.set(nil)
	return nil
}

// Refresh re-reads the signed-in user from the store so that favorites,
// name and block state catch up.  It does nothing when signed out or
// when the account no longer exists.
func (m *Manager) Refresh(ctx context.Context) (model.User, bool, error) {
	cur, ok := m.Current()
	if !ok {
		return model.User{}, false, nil
	}
	u, err := m.store.GetUser(ctx, cur.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return cur, true, nil
	}
	if err != nil {
		return model.User{}, false, err
	}
	if err := m.persist(ctx, u); err != nil {
		return model.User{}, false, err
	}
	return u, true, nil
}

func (m *Manager) persist(ctx context.Context, u model.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := m.kv.Set(ctx, Key, b); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	m.set(&u)
	return nil
}

func (m *Manager) set(u *model.User) {
	m.mu.Lock()
	m.user = u
	m.mu.Unlock()
}

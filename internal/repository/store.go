package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/rental-marketplace/internal/seed"
	"github.com/iliyamo/rental-marketplace/internal/storage"
)

// Collection keys.  Each holds a JSON array of one entity type.
const (
	KeyUsers      = "re_users"
	KeyProperties = "re_properties"
	KeyBookings   = "re_bookings"
	KeyMessages   = "re_messages"
)

// UnknownUserName is recorded as the receiver name when a message is
// sent to an id that is not among the users.
const UnknownUserName = "Unknown User"

// opLatency is the simulated network delay per operation, before
// scaling.  Favorite toggles have none.
var opLatency = map[string]time.Duration{
	"login":          500 * time.Millisecond,
	"listUsers":      300 * time.Millisecond,
	"toggleBlocked":  200 * time.Millisecond,
	"listProperties": 300 * time.Millisecond,
	"getProperty":    200 * time.Millisecond,
	"createProperty": 500 * time.Millisecond,
	"setPropStatus":  300 * time.Millisecond,
	"createBooking":  400 * time.Millisecond,
	"listBookings":   300 * time.Millisecond,
	"setBookStatus":  300 * time.Millisecond,
	"listMessages":   200 * time.Millisecond,
	"sendMessage":    200 * time.Millisecond,
	"renameUser":     200 * time.Millisecond,
	"computeStats":   300 * time.Millisecond,
	"toggleFavorite": 0,
}

// Store is the marketplace's persistence layer: four flat collections
// (users, properties, bookings, messages) kept as whole JSON documents
// in a storage.Storage.  Every write reads the entire collection,
// mutates it in memory and writes it back.  Writers in one process are
// serialized by mu; writers in different processes sharing a backend
// are last-writer-wins.
type Store struct {
	kv           storage.Storage
	mu           sync.Mutex
	latencyScale float64
	now          func() time.Time
	newID        func() string
}

// Option customizes a Store.
type Option func(*Store)

// WithLatencyScale multiplies every simulated delay by f.  Zero, the
// default, disables the delays.
func WithLatencyScale(f float64) Option { return func(s *Store) { s.latencyScale = f } }

// WithClock replaces time.Now for creation timestamps.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithIDGenerator replaces the random id source.
func WithIDGenerator(gen func() string) Option { return func(s *Store) { s.newID = gen } }

// NewStore binds a store to kv.  Call Initialize before first use.
func NewStore(kv storage.Storage, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Initialize seeds each collection with fixture data if and only if its
// key is absent.  It never overwrites an existing collection, so calling
// it on every start is safe.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	fixtures := []struct {
		key  string
		data any
	}{
		{KeyUsers, seed.Users()},
		{KeyProperties, seed.Properties(now)},
		{KeyBookings, []any{}},
		{KeyMessages, seed.Messages(now)},
	}
	for _, f := range fixtures {
		_, err := s.kv.Get(ctx, f.key)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("initialize %s: %w", f.key, err)
		}
		b, err := json.Marshal(f.data)
		if err != nil {
			return fmt.Errorf("initialize %s: %w", f.key, err)
		}
		if err := s.kv.Set(ctx, f.key, b); err != nil {
			return fmt.Errorf("initialize %s: %w", f.key, err)
		}
		log.Printf("store: seeded %s", f.key)
	}
	return nil
}

// wait emulates a network round trip for op.  A context cancelled
// while waiting aborts the operation before it touches any collection.
func (s *Store) wait(ctx context.Context, op string) error {
	d := time.Duration(float64(opLatency[op]) * s.latencyScale)
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// loadCollection decodes the array stored under key.  An absent key
// reads as an empty collection.
func loadCollection[T any](ctx context.Context, kv storage.Storage, key string) ([]T, error) {
	b, err := kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	var items []T
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func saveCollection[T any](ctx context.Context, kv storage.Storage, key string, items []T) error {
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, b); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

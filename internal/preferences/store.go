// Package preferences is a typed key-value store for per-user preferences.
//
// Values are JSON encoded and written through to a durable backend. Each
// (user, key) pair is read from the backend once and then served from
// memory. A missing or unreadable value is reported as absent so callers
// fall back to their defaults.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/manzil-bot/internal/infra/postgres/repository"
)

// Keys of the stored preferences.
const (
	KeyTheme     = "theme"
	KeySettings  = "settings"
	KeyBookmarks = "bookmarks"
)

// Backend is the durable storage of raw JSON values. Get returns
// repository.ErrPreferenceNotFound for a missing value.
type Backend interface {
	Get(ctx context.Context, userID int64, key string) ([]byte, error)
	Put(ctx context.Context, userID int64, key string, value []byte) error
}

// Result is the outcome of a lookup. Present is false when the value is
// missing or cannot be decoded; Value is then the zero value.
type Result[T any] struct {
	Value   T
	Present bool
}

type memoKey struct {
	userID int64
	key    string
}

type memoEntry struct {
	raw     []byte
	present bool
}

// Store memoizes backend values per (user, key).
type Store struct {
	backend Backend
	logger  *zap.Logger

	mu     sync.RWMutex
	memo   map[memoKey]memoEntry
	epochs map[int64]uint64 // bumped by Forget
	locks  sync.Map         // memoKey -> *sync.Mutex, serializes load and write of one key
}

// NewStore creates a Store over backend.
func NewStore(backend Backend, logger *zap.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
		memo:    make(map[memoKey]memoEntry),
		epochs:  make(map[int64]uint64),
	}
}

// Lookup returns the decoded value of key. An error is returned only when
// the backend cannot be read.
func Lookup[T any](ctx context.Context, s *Store, userID int64, key string) (Result[T], error) {
	entry, err := s.load(ctx, userID, key)
	if err != nil {
		return Result[T]{}, err
	}
	if !entry.present {
		return Result[T]{}, nil
	}

	var v T
	if err := json.Unmarshal(entry.raw, &v); err != nil {
		s.logger.Warn("stored preference is malformed, using default",
			zap.Int64("user_id", userID),
			zap.String("key", key),
			zap.Error(err),
		)
		return Result[T]{}, nil
	}

	return Result[T]{Value: v, Present: true}, nil
}

// Get returns the value of key, or def when it is absent. On backend
// failure def is returned together with the error.
func Get[T any](ctx context.Context, s *Store, userID int64, key string, def T) (T, error) {
	res, err := Lookup[T](ctx, s, userID, key)
	if err != nil {
		return def, err
	}
	if !res.Present {
		return def, nil
	}
	return res.Value, nil
}

// Set stores value under key. The backend is written first; if that fails
// the in-memory copy is left unchanged.
func Set[T any](ctx context.Context, s *Store, userID int64, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode preference %q: %w", key, err)
	}
	return s.put(ctx, userID, key, raw)
}

// Forget drops every memoized value of the user, forcing the next read to
// go to the backend. Loads and writes already in flight do not repopulate
// the memo.
func (s *Store) Forget(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epochs[userID]++
	for k := range s.memo {
		if k.userID == userID {
			delete(s.memo, k)
		}
	}
}

func (s *Store) load(ctx context.Context, userID int64, key string) (memoEntry, error) {
	mk := memoKey{userID: userID, key: key}

	if entry, ok := s.cached(mk); ok {
		return entry, nil
	}

	lock := s.lockFor(mk)
	lock.Lock()
	defer lock.Unlock()

	// another goroutine may have loaded it while we waited
	if entry, ok := s.cached(mk); ok {
		return entry, nil
	}

	epoch := s.epoch(userID)
	raw, err := s.backend.Get(ctx, userID, key)
	var entry memoEntry
	switch {
	case err == nil:
		entry = memoEntry{raw: raw, present: true}
	case errors.Is(err, repository.ErrPreferenceNotFound):
		entry = memoEntry{}
	default:
		return memoEntry{}, fmt.Errorf("load preference %q: %w", key, err)
	}

	s.remember(mk, epoch, entry)
	return entry, nil
}

func (s *Store) put(ctx context.Context, userID int64, key string, raw []byte) error {
	mk := memoKey{userID: userID, key: key}

	lock := s.lockFor(mk)
	lock.Lock()
	defer lock.Unlock()

	epoch := s.epoch(userID)
	if err := s.backend.Put(ctx, userID, key, raw); err != nil {
		return fmt.Errorf("store preference %q: %w", key, err)
	}

	s.remember(mk, epoch, memoEntry{raw: raw, present: true})
	return nil
}

func (s *Store) cached(mk memoKey) (memoEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.memo[mk]
	return entry, ok
}

func (s *Store) epoch(userID int64) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epochs[userID]
}

// remember memoizes entry unless the user was forgotten since epoch.
func (s *Store) remember(mk memoKey, epoch uint64, entry memoEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epochs[mk.userID] != epoch {
		return
	}
	s.memo[mk] = entry
}

func (s *Store) lockFor(mk memoKey) *sync.Mutex {
	l, _ := s.locks.LoadOrStore(mk, &sync.Mutex{})
	return l.(*sync.Mutex)
}

package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/manzil-bot/internal/preferences"
)

type memoryBackend struct {
	mu      sync.Mutex
	values  map[string][]byte
	failPut error
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{values: make(map[string][]byte)}
}

func (b *memoryBackend) Get(_ context.Context, userID int64, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.values[fmt.Sprintf("%d/%s", userID, key)]
	if !ok {
		return nil, repository.ErrPreferenceNotFound
	}
	return v, nil
}

func (b *memoryBackend) Put(_ context.Context, userID int64, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failPut != nil {
		return b.failPut
	}
	b.values[fmt.Sprintf("%d/%s", userID, key)] = value
	return nil
}

func (b *memoryBackend) set(userID int64, key, raw string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[fmt.Sprintf("%d/%s", userID, key)] = []byte(raw)
}

func newTestStore(t *testing.T, backend *memoryBackend) *preferences.Store {
	t.Helper()
	return preferences.NewStore(backend, zap.NewNop())
}

type fakeProgressRepo struct {
	mu       sync.Mutex
	records  map[int]*entities.ReadingProgress
	days     []time.Time
	last     *entities.ReadingProgress
	failNext error
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{records: make(map[int]*entities.ReadingProgress)}
}

func (r *fakeProgressRepo) Upsert(_ context.Context, p *entities.ReadingProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return err
	}

	cur, ok := r.records[p.SurahNumber]
	if !ok {
		cp := *p
		r.records[p.SurahNumber] = &cp
		r.last = &cp
		return nil
	}
	cur.VerseNumber = max(cur.VerseNumber, p.VerseNumber)
	cur.Completed = cur.Completed || p.Completed
	cur.LastReadAt = p.LastReadAt
	r.last = cur
	return nil
}

func (r *fakeProgressRepo) RecordActivity(_ context.Context, _ int64, day time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := day.UTC().Truncate(24 * time.Hour)
	if len(r.days) == 0 || !r.days[0].Equal(d) {
		r.days = append([]time.Time{d}, r.days...)
	}
	return nil
}

func (r *fakeProgressRepo) GetLast(_ context.Context, _ int64) (*entities.ReadingProgress, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return nil, repository.ErrProgressNotFound
	}
	cp := *r.last
	return &cp, nil
}

func (r *fakeProgressRepo) GetStats(_ context.Context, _ int64) (*repository.ProgressStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &repository.ProgressStats{}
	for _, p := range r.records {
		stats.SurahsOpened++
		stats.VersesRead += p.VerseNumber
		if p.Completed {
			stats.SurahsCompleted++
		}
	}
	return stats, nil
}

func (r *fakeProgressRepo) ActivityDays(_ context.Context, _ int64, limit int) ([]time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.days[:min(limit, len(r.days))], nil
}

func (r *fakeProgressRepo) get(surah int) (entities.ReadingProgress, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.records[surah]
	if !ok {
		return entities.ReadingProgress{}, false
	}
	return *p, true
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int64]*entities.User
	saves  int
	getErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*entities.User)}
}

func (r *fakeUserRepo) Save(_ context.Context, user *entities.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if _, ok := r.users[user.ID]; ok {
		return false, nil
	}
	cp := *user
	r.users[user.ID] = &cp
	return true, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, userID int64) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	u, ok := r.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, userID int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

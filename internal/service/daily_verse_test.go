package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/infra/quranapi"
)

// fakeSubscribers pages like the SQL query: ordered by id, active users only.
type fakeSubscribers struct {
	subs  []entities.Subscriber
	users *fakeUserRepo // nil means every subscriber is active
}

func (f *fakeSubscribers) ListDailyVerseSubscribers(_ context.Context, afterID int64, limit int) ([]entities.Subscriber, error) {
	var page []entities.Subscriber
	for _, sub := range f.subs {
		if sub.UserID <= afterID || !f.active(sub.UserID) {
			continue
		}
		page = append(page, sub)
		if len(page) == limit {
			break
		}
	}
	return page, nil
}

func (f *fakeSubscribers) active(userID int64) bool {
	if f.users == nil {
		return true
	}
	f.users.mu.Lock()
	defer f.users.mu.Unlock()
	u, ok := f.users.users[userID]
	return ok && u.IsActive
}

type fakeNotifier struct {
	mu          sync.Mutex
	sent        map[int64]*entities.DailyVerse
	unavailable map[int64]bool
}

func (n *fakeNotifier) SendDailyVerse(_ context.Context, chatID int64, dv *entities.DailyVerse) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.unavailable[chatID] {
		return fmt.Errorf("forbidden: %w", ErrRecipientUnavailable)
	}
	n.sent[chatID] = dv
	return nil
}

func newTestDailyVerseService(t *testing.T, f *fakeFetcher, subs *fakeSubscribers, users *fakeUserRepo) (*DailyVerseService, *SettingsService) {
	t.Helper()
	surahs, _ := newTestCatalogs(t)
	settings := newTestSettingsService(t, newMemoryBackend())
	svc := NewDailyVerseService(surahs, newTestVerseService(t, f), settings, subs, NewUserService(users), "", zap.NewNop())
	return svc, settings
}

func TestDailyVerseService_ReferenceIsDeterministic(t *testing.T) {
	t.Parallel()

	svc, _ := newTestDailyVerseService(t, &fakeFetcher{}, &fakeSubscribers{}, newFakeUserRepo())

	day := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	s1, v1, err := svc.Reference(day)
	require.NoError(t, err)
	s2, v2, err := svc.Reference(day.Add(23 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, s1.Number, s2.Number)
	assert.Equal(t, v1, v2)
	assert.True(t, s1.HasVerse(v1))

	s3, v3, err := svc.Reference(day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.NotEqual(t, fmt.Sprintf("%d:%d", s1.Number, v1), fmt.Sprintf("%d:%d", s3.Number, v3))
}

func TestDailyVerseService_ReferenceCoversCatalog(t *testing.T) {
	t.Parallel()

	svc, _ := newTestDailyVerseService(t, &fakeFetcher{}, &fakeSubscribers{}, newFakeUserRepo())

	seen := make(map[string]bool)
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range entities.TotalVerses {
		s, v, err := svc.Reference(start.AddDate(0, 0, i))
		require.NoError(t, err)
		seen[fmt.Sprintf("%d:%d", s.Number, v)] = true
	}
	assert.Len(t, seen, entities.TotalVerses)
}

func TestDailyVerseService_Today(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{}
	svc, settings := newTestDailyVerseService(t, f, &fakeSubscribers{}, newFakeUserRepo())
	ctx := context.Background()

	lang := entities.LanguageFrench
	_, err := settings.Update(ctx, 1, entities.SettingsPatch{Language: &lang})
	require.NoError(t, err)

	dv, err := svc.Today(ctx, 1)
	require.NoError(t, err)
	assert.False(t, dv.Fallback)
	assert.Contains(t, dv.Verse.Translation, "fr.hamidullah")
	assert.Contains(t, f.calls, "fr.hamidullah")
}

func TestDailyVerseService_Broadcast(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	subs := &fakeSubscribers{users: users}
	for i := int64(1); i <= 250; i++ {
		subs.subs = append(subs.subs, entities.Subscriber{UserID: i, ChatID: i * 10})
		_, err := users.Save(context.Background(), entities.NewUser(i, i*10))
		require.NoError(t, err)
	}

	f := &fakeFetcher{}
	svc, _ := newTestDailyVerseService(t, f, subs, users)
	notifier := &fakeNotifier{sent: make(map[int64]*entities.DailyVerse), unavailable: map[int64]bool{70: true}}
	svc.SetNotifier(notifier)

	require.NoError(t, svc.Broadcast(context.Background()))

	assert.Len(t, notifier.sent, 249)
	assert.False(t, users.users[7].IsActive)
	assert.True(t, users.users[8].IsActive)

	f.mu.Lock()
	arabicCalls := 0
	for _, c := range f.calls {
		if c == quranapi.EditionArabic {
			arabicCalls++
		}
	}
	f.mu.Unlock()
	assert.Equal(t, 1, arabicCalls, "verse is fetched once per edition")
}

func TestDailyVerseService_BroadcastSkipsPlaceholders(t *testing.T) {
	t.Parallel()

	subs := &fakeSubscribers{subs: []entities.Subscriber{{UserID: 1, ChatID: 10}}}
	f := &fakeFetcher{err: map[string]error{quranapi.EditionArabic: quranapi.ErrUnexpectedStatus}}
	svc, _ := newTestDailyVerseService(t, f, subs, newFakeUserRepo())
	notifier := &fakeNotifier{sent: make(map[int64]*entities.DailyVerse)}
	svc.SetNotifier(notifier)

	require.NoError(t, svc.Broadcast(context.Background()))
	assert.Empty(t, notifier.sent)
}

func TestDailyVerseService_BroadcastWithoutNotifier(t *testing.T) {
	t.Parallel()

	svc, _ := newTestDailyVerseService(t, &fakeFetcher{}, &fakeSubscribers{}, newFakeUserRepo())
	require.Error(t, svc.Broadcast(context.Background()))
}

func TestDailyVerseService_BroadcastReachesAllAfterDeactivations(t *testing.T) {
	t.Parallel()

	users := newFakeUserRepo()
	subs := &fakeSubscribers{users: users}
	unavailable := make(map[int64]bool)
	for i := int64(1); i <= 150; i++ {
		subs.subs = append(subs.subs, entities.Subscriber{UserID: i, ChatID: i * 10})
		_, err := users.Save(context.Background(), entities.NewUser(i, i*10))
		require.NoError(t, err)
		if i <= 10 {
			unavailable[i*10] = true
		}
	}

	svc, _ := newTestDailyVerseService(t, &fakeFetcher{}, subs, users)
	notifier := &fakeNotifier{sent: make(map[int64]*entities.DailyVerse), unavailable: unavailable}
	svc.SetNotifier(notifier)

	require.NoError(t, svc.Broadcast(context.Background()))

	assert.Len(t, notifier.sent, 140)
	for i := int64(101); i <= 110; i++ {
		assert.Contains(t, notifier.sent, i*10)
	}
	for i := int64(1); i <= 10; i++ {
		assert.False(t, users.users[i].IsActive)
	}
}

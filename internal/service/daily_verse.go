package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
)

const (
	DefaultDailyVerseSchedule = "0 6 * * *"

	// dailyVerseStride is coprime with the total verse count, so consecutive
	// days visit every verse once before repeating.
	dailyVerseStride = 7919
)

var errVerseTextUnavailable = errors.New("verse text unavailable")

type VerseLookup interface {
	FetchVerse(ctx context.Context, surahNumber, verseNumber int, edition, reciterID string) (entities.Verse, bool, error)
}

type SettingsReader interface {
	GetOrCreate(ctx context.Context, userID int64) (*entities.Settings, error)
}

type UserDeactivator interface {
	Deactivate(ctx context.Context, userID int64) error
}

// DailyVerseService picks the verse of the day and broadcasts it to
// subscribers on a cron schedule.
type DailyVerseService struct {
	surahs      SurahRepository
	verses      VerseLookup
	settings    SettingsReader
	subscribers SubscriberRepository
	users       UserDeactivator
	notifier    DailyVerseNotifier
	schedule    string
	logger      *zap.Logger
	now         func() time.Time
}

func NewDailyVerseService(
	surahs SurahRepository,
	verses VerseLookup,
	settings SettingsReader,
	subscribers SubscriberRepository,
	users UserDeactivator,
	schedule string,
	logger *zap.Logger,
) *DailyVerseService {
	if schedule == "" {
		schedule = DefaultDailyVerseSchedule
	}
	return &DailyVerseService{
		surahs:      surahs,
		verses:      verses,
		settings:    settings,
		subscribers: subscribers,
		users:       users,
		schedule:    schedule,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SetNotifier sets the notifier (called after handler is created).
func (s *DailyVerseService) SetNotifier(notifier DailyVerseNotifier) {
	s.notifier = notifier
}

// Start runs the broadcast schedule until ctx is done.
func (s *DailyVerseService) Start(ctx context.Context) {
	s.logger.Info("daily verse service started", zap.String("schedule", s.schedule))

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.schedule, func() {
		s.logger.Info("cron triggered: broadcasting daily verse")
		if err := s.Broadcast(ctx); err != nil {
			s.logger.Error("failed to broadcast daily verse", zap.Error(err))
		}
	})
	if err != nil {
		s.logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	c.Start()
	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("daily verse service stopped")
}

// Reference returns the verse of the day for date.
func (s *DailyVerseService) Reference(date time.Time) (*entities.Surah, int, error) {
	day := date.UTC().Unix() / 86400
	index := int((day * dailyVerseStride) % entities.TotalVerses)
	if index < 0 {
		index += entities.TotalVerses
	}

	for _, surah := range s.surahs.GetAll() {
		if index < surah.NumberOfAyahs {
			return surah, index + 1, nil
		}
		index -= surah.NumberOfAyahs
	}
	return nil, 0, fmt.Errorf("%w: verse index out of catalog", ErrVerseNotFound)
}

// Today returns the verse of the day in the user's language.
func (s *DailyVerseService) Today(ctx context.Context, userID int64) (*entities.DailyVerse, error) {
	settings, err := s.settings.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.forDate(ctx, s.now(), settings.Language.Edition(), settings.Reciter)
}

func (s *DailyVerseService) forDate(ctx context.Context, date time.Time, edition, reciterID string) (*entities.DailyVerse, error) {
	surah, verseNumber, err := s.Reference(date)
	if err != nil {
		return nil, err
	}

	verse, fallback, err := s.verses.FetchVerse(ctx, surah.Number, verseNumber, edition, reciterID)
	if err != nil {
		return nil, err
	}

	y, m, d := date.Date()
	return &entities.DailyVerse{
		Date:     time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Surah:    surah,
		Verse:    verse,
		Fallback: fallback,
	}, nil
}

// Broadcast sends today's verse to every subscriber in batches.
func (s *DailyVerseService) Broadcast(ctx context.Context) error {
	if s.notifier == nil {
		return errors.New("notifier not initialized")
	}

	const batchSize = 100
	var lastID int64
	totalSent := 0
	cache := newVerseCache(s, s.now())

	for {
		subs, err := s.subscribers.ListDailyVerseSubscribers(ctx, lastID, batchSize)
		if err != nil {
			return fmt.Errorf("list subscribers batch: %w", err)
		}
		if len(subs) == 0 {
			break
		}

		totalSent += s.processBatch(ctx, subs, cache)

		if len(subs) < batchSize {
			break
		}
		lastID = subs[len(subs)-1].UserID
	}

	s.logger.Info("daily verse broadcast finished", zap.Int("total_sent", totalSent))
	return nil
}

func (s *DailyVerseService) processBatch(ctx context.Context, subs []entities.Subscriber, cache *verseCache) int {
	const maxConcurrent = 10
	sem := make(chan struct{}, maxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex
	sent := 0

	for _, sub := range subs {
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if err := s.deliver(ctx, sub, cache); err != nil {
				s.logger.Error("failed to deliver daily verse",
					zap.Int64("user_id", sub.UserID),
					zap.Error(err))
				return
			}
			mu.Lock()
			sent++
			mu.Unlock()
		}()
	}

	wg.Wait()
	return sent
}

func (s *DailyVerseService) deliver(ctx context.Context, sub entities.Subscriber, cache *verseCache) error {
	settings, err := s.settings.GetOrCreate(ctx, sub.UserID)
	if err != nil {
		return fmt.Errorf("get settings: %w", err)
	}

	dv, err := cache.get(ctx, settings.Language.Edition(), settings.Reciter)
	if err != nil {
		return fmt.Errorf("get daily verse: %w", err)
	}
	if dv.Fallback {
		return errVerseTextUnavailable
	}

	err = s.notifier.SendDailyVerse(ctx, sub.ChatID, dv)
	if errors.Is(err, ErrRecipientUnavailable) {
		s.logger.Info("recipient unavailable, deactivating", zap.Int64("user_id", sub.UserID))
		if derr := s.users.Deactivate(ctx, sub.UserID); derr != nil {
			return fmt.Errorf("deactivate user: %w", derr)
		}
		return nil
	}
	return err
}

type verseCacheKey struct {
	edition string
	reciter string
}

// verseCache fetches the verse once per edition and reciter during a
// broadcast.
type verseCache struct {
	svc  *DailyVerseService
	date time.Time

	mu      sync.Mutex
	entries map[verseCacheKey]*entities.DailyVerse
}

func newVerseCache(svc *DailyVerseService, date time.Time) *verseCache {
	return &verseCache{svc: svc, date: date, entries: make(map[verseCacheKey]*entities.DailyVerse)}
}

func (c *verseCache) get(ctx context.Context, edition, reciterID string) (*entities.DailyVerse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := verseCacheKey{edition: edition, reciter: reciterID}
	if dv, ok := c.entries[key]; ok {
		return dv, nil
	}

	dv, err := c.svc.forDate(ctx, c.date, edition, reciterID)
	if err != nil {
		return nil, err
	}
	c.entries[key] = dv
	return dv, nil
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/manzil-bot/internal/infra/quranapi"
)

var (
	ErrStaleResult   = errors.New("result superseded by a newer request")
	ErrNoSession     = errors.New("no open surah")
	ErrNoAudio       = errors.New("nothing is playing")
	ErrTrackReplaced = errors.New("track replaced by a newer one")
	ErrVerseNotFound = errors.New("verse not found")

	// ErrRecipientUnavailable is returned by notifiers when the chat can no
	// longer receive messages.
	ErrRecipientUnavailable = errors.New("recipient unavailable")
)

// SurahRepository is the static surah catalog.
type SurahRepository interface {
	GetByNumber(number int) (*entities.Surah, error)
	GetAll() []*entities.Surah
	Search(query string, limit int) []*entities.Surah
}

// ReciterRepository is the static reciter table.
type ReciterRepository interface {
	GetAll() []*entities.Reciter
	Exists(id string) bool
	Resolve(id string) *entities.Reciter
}

// EditionFetcher loads one surah in one text edition.
type EditionFetcher interface {
	FetchEdition(ctx context.Context, surahNumber int, edition string) (*quranapi.Edition, error)
}

// PrayerTimesProvider returns live prayer times.
type PrayerTimesProvider interface {
	Timings(ctx context.Context, date time.Time, loc entities.Location, method entities.CalculationMethod) (*entities.PrayerTimes, error)
}

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
	GetByID(ctx context.Context, userID int64) (*entities.User, error)
	SetActive(ctx context.Context, userID int64, active bool) error
}

type ProgressRepository interface {
	Upsert(ctx context.Context, p *entities.ReadingProgress) error
	RecordActivity(ctx context.Context, userID int64, day time.Time) error
	GetLast(ctx context.Context, userID int64) (*entities.ReadingProgress, error)
	GetStats(ctx context.Context, userID int64) (*repository.ProgressStats, error)
	ActivityDays(ctx context.Context, userID int64, limit int) ([]time.Time, error)
}

// SubscriberRepository lists recipients of the daily verse in pages keyed
// by user id.
type SubscriberRepository interface {
	ListDailyVerseSubscribers(ctx context.Context, afterID int64, limit int) ([]entities.Subscriber, error)
}

// AudioSessionStore holds one audio session per chat.
type AudioSessionStore interface {
	Get(ctx context.Context, chatID int64) (*entities.AudioSession, bool, error)
	Put(ctx context.Context, chatID int64, session *entities.AudioSession) error
	Delete(ctx context.Context, chatID int64) error
}

// ReaderStore holds reader sessions and guards them against stale results.
type ReaderStore interface {
	Begin(chatID, userID int64, surahNumber int) uint64
	Complete(chatID int64, generation uint64, verses []entities.Verse, fallback bool, page int) (entities.ReaderSession, bool)
	Get(chatID int64) (entities.ReaderSession, bool)
	Update(chatID int64, fn func(*entities.ReaderSession)) (entities.ReaderSession, bool)
	Delete(chatID int64)
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// DailyVerseNotifier delivers the daily verse to a chat.
type DailyVerseNotifier interface {
	SendDailyVerse(ctx context.Context, chatID int64, dv *entities.DailyVerse) error
}

package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/service"
)

// Bot is the subset of the Telegram client used by the handler.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64) error
}

type CatalogService interface {
	GetSurah(number int) (*entities.Surah, error)
	ListSurahs() []*entities.Surah
	Search(query string) []*entities.Surah
	Reciters() []*entities.Reciter
	Reciter(id string) *entities.Reciter
}

type ReaderService interface {
	Open(ctx context.Context, chatID, userID int64, surahNumber int, opts service.OpenOptions) (entities.ReaderSession, error)
	Page(ctx context.Context, chatID int64, page int) (entities.ReaderSession, error)
	TogglePlayVerse(chatID int64, verse int) (entities.ReaderSession, bool, error)
	StopVerse(chatID int64)
	SetMessage(chatID int64, messageID int)
	Current(chatID int64) (entities.ReaderSession, bool)
	Close(chatID int64)
}

type AudioService interface {
	PlaySurah(ctx context.Context, chatID int64, surahNumber int, reciterID string) (*entities.AudioSession, error)
	PlayVerse(ctx context.Context, chatID int64, surahNumber, verseNumber int, reciterID string) (*entities.AudioSession, error)
	Next(ctx context.Context, chatID int64) (*entities.AudioSession, bool, error)
	Previous(ctx context.Context, chatID int64) (*entities.AudioSession, bool, error)
	TogglePause(ctx context.Context, chatID int64) (*entities.AudioSession, error)
	MarkReady(ctx context.Context, chatID int64, generation uint64, duration float64) (*entities.AudioSession, error)
	SetMessage(ctx context.Context, chatID int64, generation uint64, messageID int) error
	Dismiss(ctx context.Context, chatID int64) error
	Abandon(ctx context.Context, chatID int64, generation uint64) error
	Get(ctx context.Context, chatID int64) (*entities.AudioSession, error)
}

type BookmarkService interface {
	Toggle(ctx context.Context, userID int64, surahNumber, verseNumber int) (bool, error)
	Remove(ctx context.Context, userID int64, surahNumber, verseNumber int) error
	Clear(ctx context.Context, userID int64) error
	ListResolved(ctx context.Context, userID int64, filter entities.BookmarkFilter) ([]service.ResolvedBookmark, error)
	Keys(ctx context.Context, userID int64, surahNumber int) (map[int]bool, error)
}

type SettingsService interface {
	GetOrCreate(ctx context.Context, userID int64) (*entities.Settings, error)
	Update(ctx context.Context, userID int64, patch entities.SettingsPatch) (*entities.Settings, error)
	ToggleTheme(ctx context.Context, userID int64) (entities.Theme, error)
}

type ProgressService interface {
	Stats(ctx context.Context, userID int64) (*entities.ReadingStats, error)
}

type PrayerService interface {
	Today(ctx context.Context, loc entities.Location, method entities.CalculationMethod) (*service.PrayerReport, error)
	Qibla(loc entities.Location) (*entities.QiblaDirection, error)
}

type DailyVerseService interface {
	Today(ctx context.Context, userID int64) (*entities.DailyVerse, error)
}

type ResetService interface {
	ResetUser(ctx context.Context, userID int64) error
}

// Services groups the use cases the handler dispatches to.
type Services struct {
	Users      UserService
	Catalog    CatalogService
	Reader     ReaderService
	Audio      AudioService
	Bookmarks  BookmarkService
	Settings   SettingsService
	Progress   ProgressService
	Prayer     PrayerService
	DailyVerse DailyVerseService
	Reset      ResetService
}

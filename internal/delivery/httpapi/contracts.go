package httpapi

import (
	"context"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/service"
)

type CatalogService interface {
	GetSurah(number int) (*entities.Surah, error)
	ListSurahs() []*entities.Surah
	Search(query string) []*entities.Surah
	Reciters() []*entities.Reciter
	Reciter(id string) *entities.Reciter
	SurahAudioURL(surahNumber int, reciterID string) (string, error)
}

type VerseService interface {
	FetchVersesWithEdition(ctx context.Context, surahNumber int, edition, reciterID string) service.VerseResult
}

type PrayerService interface {
	Today(ctx context.Context, loc entities.Location, method entities.CalculationMethod) (*service.PrayerReport, error)
	Qibla(loc entities.Location) (*entities.QiblaDirection, error)
}

// Check is a named readiness check of a dependency.
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Services groups what the API serves.
type Services struct {
	Catalog CatalogService
	Verses  VerseService
	Prayer  PrayerService
	Checks  []Check
}

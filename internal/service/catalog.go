package service

import (
	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
)

// SearchLimit caps the number of search results.
const SearchLimit = 20

// CatalogService exposes the surah and reciter catalogs.
type CatalogService struct {
	surahs   SurahRepository
	reciters ReciterRepository
}

func NewCatalogService(surahs SurahRepository, reciters ReciterRepository) *CatalogService {
	return &CatalogService{surahs: surahs, reciters: reciters}
}

func (s *CatalogService) GetSurah(number int) (*entities.Surah, error) {
	return s.surahs.GetByNumber(number)
}

func (s *CatalogService) ListSurahs() []*entities.Surah {
	return s.surahs.GetAll()
}

// Search matches surahs by number or name, returning at most SearchLimit
// results.
func (s *CatalogService) Search(query string) []*entities.Surah {
	return s.surahs.Search(query, SearchLimit)
}

func (s *CatalogService) Reciters() []*entities.Reciter {
	return s.reciters.GetAll()
}

// Reciter resolves a reciter id, falling back to the default reciter.
func (s *CatalogService) Reciter(id string) *entities.Reciter {
	return s.reciters.Resolve(id)
}

// SurahAudioURL returns the whole-surah recitation of the surah.
func (s *CatalogService) SurahAudioURL(surahNumber int, reciterID string) (string, error) {
	if _, err := s.surahs.GetByNumber(surahNumber); err != nil {
		return "", err
	}
	return s.reciters.Resolve(reciterID).SurahAudioURL(surahNumber), nil
}

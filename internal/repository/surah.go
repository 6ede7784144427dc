package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/aliskhannn/manzil-bot/assets"
	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
)

var (
	ErrSurahNotFound = errors.New("surah not found")
	ErrInvalidNumber = errors.New("invalid surah number")
)

const minVersesPerSurah = 3

// SurahRepository provides access to the 114 surahs of the Quran.
// The catalog is loaded once and never changes.
type SurahRepository struct {
	surahs []*entities.Surah
	folded []searchKey
}

type searchKey struct {
	name        string
	englishName string
	translation string
	number      string
}

// NewSurahRepository loads the catalog from path, or from the embedded
// dataset when path is empty.
func NewSurahRepository(path string) (*SurahRepository, error) {
	data := assets.SurahsJSON
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read surahs file: %w", err)
		}
	}
	return NewSurahRepositoryFromJSON(data)
}

// NewSurahRepositoryFromJSON builds a validated catalog from raw JSON.
func NewSurahRepositoryFromJSON(data []byte) (*SurahRepository, error) {
	surahs, err := parseSurahs(data)
	if err != nil {
		return nil, err
	}

	folded := make([]searchKey, len(surahs))
	for i, s := range surahs {
		folded[i] = searchKey{
			name:        fold(s.Name),
			englishName: fold(s.EnglishName),
			translation: fold(s.EnglishNameTranslation),
			number:      strconv.Itoa(s.Number),
		}
	}

	return &SurahRepository{surahs: surahs, folded: folded}, nil
}

// GetByNumber retrieves a surah by its number (1-114).
func (r *SurahRepository) GetByNumber(number int) (*entities.Surah, error) {
	if number < 1 || number > entities.TotalSurahs {
		return nil, ErrInvalidNumber
	}

	// numbers are dense and ordered, see parseSurahs
	s := r.surahs[number-1]
	if s.Number != number {
		return nil, ErrSurahNotFound
	}
	return s, nil
}

// GetAll returns all surahs ordered by number.
func (r *SurahRepository) GetAll() []*entities.Surah {
	return r.surahs
}

// Search matches the query against surah names, name translation and
// number. At most limit results are returned in catalog order; limit <= 0
// means no limit.
func (r *SurahRepository) Search(query string, limit int) []*entities.Surah {
	q := fold(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out []*entities.Surah
	for i, k := range r.folded {
		if strings.Contains(k.name, q) ||
			strings.Contains(k.englishName, q) ||
			strings.Contains(k.translation, q) ||
			strings.Contains(k.number, q) {
			out = append(out, r.surahs[i])
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}

// fold case-folds s. A Caser is stateful so a new one is made per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

func parseSurahs(data []byte) ([]*entities.Surah, error) {
	var wrapper struct {
		Surahs []*entities.Surah `json:"surahs"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to unmarshal surahs JSON: %w", err)
	}

	if len(wrapper.Surahs) != entities.TotalSurahs {
		return nil, fmt.Errorf("expected %d surahs, got %d", entities.TotalSurahs, len(wrapper.Surahs))
	}

	total := 0
	for i, s := range wrapper.Surahs {
		if s == nil || s.Number != i+1 {
			return nil, fmt.Errorf("surah at position %d is out of order", i+1)
		}
		if s.NumberOfAyahs < minVersesPerSurah {
			return nil, fmt.Errorf("surah %d has %d verses", s.Number, s.NumberOfAyahs)
		}
		if !s.RevelationType.Valid() {
			return nil, fmt.Errorf("surah %d has unknown revelation type %q", s.Number, s.RevelationType)
		}
		total += s.NumberOfAyahs
	}

	if total != entities.TotalVerses {
		return nil, fmt.Errorf("expected %d verses, got %d", entities.TotalVerses, total)
	}

	return wrapper.Surahs, nil
}

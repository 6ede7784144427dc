// Package entities contains domain entities used across the application.
package entities

const (
	TotalSurahs = 114  // number of surahs in the Quran
	TotalVerses = 6236 // number of verses across all surahs
)

// RevelationType classifies a surah by the period of its revelation.
type RevelationType string

const (
	RevelationMeccan  RevelationType = "Meccan"
	RevelationMedinan RevelationType = "Medinan"
)

// Valid reports whether the revelation type is one of the known values.
func (r RevelationType) Valid() bool {
	return r == RevelationMeccan || r == RevelationMedinan
}

// Surah represents one of the 114 chapters of the Quran.
type Surah struct {
	Number                 int            `json:"number"`                 // number of the surah (from 1 to 114)
	Name                   string         `json:"name"`                   // Arabic name
	EnglishName            string         `json:"englishName"`            // transliterated name, e.g. "Al-Baqarah"
	EnglishNameTranslation string         `json:"englishNameTranslation"` // English meaning of the name
	NumberOfAyahs          int            `json:"numberOfAyahs"`          // verse count
	RevelationType         RevelationType `json:"revelationType"`         // Meccan or Medinan
}

// DisplayName returns the Arabic or the English name of the surah.
func (s *Surah) DisplayName(useArabic bool) string {
	if useArabic {
		return s.Name
	}
	return s.EnglishName
}

// RevelationLabel returns a human readable revelation place.
func (s *Surah) RevelationLabel() string {
	switch s.RevelationType {
	case RevelationMeccan:
		return "Meccan (Makkah)"
	case RevelationMedinan:
		return "Medinan (Madinah)"
	default:
		return string(s.RevelationType)
	}
}

// HasVerse reports whether verse is a valid verse number within the surah.
func (s *Surah) HasVerse(verse int) bool {
	return verse >= 1 && verse <= s.NumberOfAyahs
}

package entities

import (
	"fmt"
	"time"
)

// Verse is a single ayah of a surah with its translation and transliteration.
type Verse struct {
	Number          int    `json:"number"`             // global verse number (1-6236), 0 if unknown
	NumberInSurah   int    `json:"numberInSurah"`      // 1-based, dense within the surah
	SurahNumber     int    `json:"surahNumber"`        // surah the verse belongs to
	Text            string `json:"text"`               // Arabic text
	Translation     string `json:"translation"`        // translation in the selected language
	Transliteration string `json:"transliteration"`    // romanized text
	AudioURL        string `json:"audioUrl,omitempty"` // per-verse recitation
	Tafsir          string `json:"tafsir,omitempty"`   // commentary
}

// Reference returns the verse reference, e.g. "2:255".
func (v Verse) Reference() string {
	return fmt.Sprintf("%d:%d", v.SurahNumber, v.NumberInSurah)
}

func (v Verse) HasAudio() bool {
	return v.AudioURL != ""
}

func (v Verse) HasTafsir() bool {
	return v.Tafsir != ""
}

// ShareText formats the verse for copying or forwarding.
func (v Verse) ShareText(surahEnglishName string) string {
	return fmt.Sprintf("%s\n%s\n\nSurah %s (%s)", v.Text, v.Translation, surahEnglishName, v.Reference())
}

// DailyVerse is the verse highlighted for a day.
type DailyVerse struct {
	Date     time.Time
	Surah    *Surah
	Verse    Verse
	Fallback bool // verse text is a local placeholder
}

package entities

import "fmt"

// Reciter is a named reciter whose audio is served from a fixed external host.
type Reciter struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Country      string `json:"country"`
	SurahBaseURL string `json:"-"` // whole-surah files, {base}/{NNN}.mp3
	VerseBaseURL string `json:"-"` // per-verse files, {base}/{NNN}{VVV}.mp3
}

// SurahAudioURL returns the URL of the whole-surah recitation.
func (r *Reciter) SurahAudioURL(surahNumber int) string {
	return fmt.Sprintf("%s/%03d.mp3", r.SurahBaseURL, surahNumber)
}

// VerseAudioURL returns the URL of a single verse recitation.
func (r *Reciter) VerseAudioURL(surahNumber, verseNumber int) string {
	return fmt.Sprintf("%s/%03d%03d.mp3", r.VerseBaseURL, surahNumber, verseNumber)
}

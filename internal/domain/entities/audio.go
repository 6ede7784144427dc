package entities

import "time"

const DefaultVolume = 1.0

// AudioSession is the single playback slot of a chat. Starting a new track
// replaces the previous one entirely; only the volume carries over.
type AudioSession struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	SurahNumber int       `json:"surahNumber"`
	VerseNumber int       `json:"verseNumber,omitempty"` // 0 for a whole-surah recitation
	ReciterID   string    `json:"reciterId"`
	Playing     bool      `json:"playing"`
	Loading     bool      `json:"loading"`
	Position    float64   `json:"position"` // seconds
	Duration    float64   `json:"duration"` // seconds, 0 until the media is ready
	Volume      float64   `json:"volume"`   // 0..1
	MessageID   int       `json:"messageId,omitempty"`
	Generation  uint64    `json:"generation"` // incremented by every Play
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewAudioSession returns an empty slot with the default volume.
func NewAudioSession() *AudioSession {
	return &AudioSession{Volume: DefaultVolume}
}

// Active reports whether a track occupies the slot.
func (a *AudioSession) Active() bool {
	return a.URL != ""
}

// IsVerse reports whether the slot holds a single-verse recitation.
func (a *AudioSession) IsVerse() bool {
	return a.VerseNumber > 0
}

// Play loads a new track into the slot. Previous track state is discarded.
func (a *AudioSession) Play(url, title, subtitle string, surahNumber, verseNumber int, reciterID string) {
	volume, generation := a.Volume, a.Generation
	*a = AudioSession{
		URL:         url,
		Title:       title,
		Subtitle:    subtitle,
		SurahNumber: surahNumber,
		VerseNumber: verseNumber,
		ReciterID:   reciterID,
		Playing:     true,
		Loading:     true,
		Volume:      volume,
		Generation:  generation + 1,
		UpdatedAt:   time.Now().UTC(),
	}
}

// MarkReady records that the media has loaded and its duration is known.
func (a *AudioSession) MarkReady(duration float64) {
	a.Loading = false
	a.Duration = max(duration, 0)
	a.touch()
}

func (a *AudioSession) Pause() {
	a.Playing = false
	a.touch()
}

// Resume continues playback of the loaded track. No-op on an empty slot.
func (a *AudioSession) Resume() {
	if !a.Active() {
		return
	}
	a.Playing = true
	a.touch()
}

// Seek moves the position, clamped to [0, Duration].
func (a *AudioSession) Seek(seconds float64) {
	a.Position = clamp(seconds, 0, a.Duration)
	a.touch()
}

// ChangeVolume sets the volume, clamped to [0, 1].
func (a *AudioSession) ChangeVolume(v float64) {
	a.Volume = clamp(v, 0, 1)
	a.touch()
}

// TimeUpdate records playback progress reported by the player.
func (a *AudioSession) TimeUpdate(position float64) {
	if a.Duration > 0 {
		position = clamp(position, 0, a.Duration)
	}
	a.Position = max(position, 0)
	a.touch()
}

// Ended marks the track as finished.
func (a *AudioSession) Ended() {
	a.Playing = false
	a.Position = a.Duration
	a.touch()
}

func (a *AudioSession) touch() {
	a.UpdatedAt = time.Now().UTC()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

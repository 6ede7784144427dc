package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func versesOf(n int) []Verse {
	verses := make([]Verse, n)
	for i := range verses {
		verses[i] = Verse{SurahNumber: 1, NumberInSurah: i + 1}
	}
	return verses
}

func TestReaderSession_Pages(t *testing.T) {
	t.Parallel()

	s := ReaderSession{Verses: versesOf(7)}
	assert.Equal(t, 2, s.TotalPages(5))
	require.Len(t, s.PageVerses(5), 5)

	s.Page = 1
	page := s.PageVerses(5)
	require.Len(t, page, 2)
	assert.Equal(t, 6, page[0].NumberInSurah)

	s.Page = 2
	assert.Nil(t, s.PageVerses(5))

	empty := ReaderSession{}
	assert.Zero(t, empty.TotalPages(5))
}

func TestPageOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, PageOf(0, 5))
	assert.Equal(t, 0, PageOf(5, 5))
	assert.Equal(t, 1, PageOf(6, 5))
	assert.Equal(t, 50, PageOf(255, 5))
}

func TestScrollProgress(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 100, ScrollProgress(0, 500, 800), 1e-9, "content fits the viewport")
	assert.InDelta(t, 0, ScrollProgress(0, 2000, 1000), 1e-9)
	assert.InDelta(t, 50, ScrollProgress(500, 2000, 1000), 1e-9)
	assert.InDelta(t, 100, ScrollProgress(5000, 2000, 1000), 1e-9)

	assert.InDelta(t, 100, PageProgress(0, 1), 1e-9)
	assert.InDelta(t, 0, PageProgress(0, 3), 1e-9)
	assert.InDelta(t, 50, PageProgress(1, 3), 1e-9)
	assert.InDelta(t, 100, PageProgress(2, 3), 1e-9)
}

func TestCalculateStreak(t *testing.T) {
	t.Parallel()

	today := time.Date(2026, 10, 16, 18, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time {
		return time.Date(2026, 10, 16+offset, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		days []time.Time
		want int
	}{
		{name: "none", days: nil, want: 0},
		{name: "today only", days: []time.Time{day(0)}, want: 1},
		{name: "ending yesterday", days: []time.Time{day(-1), day(-2), day(-3)}, want: 3},
		{name: "broken", days: []time.Time{day(0), day(-1), day(-3)}, want: 2},
		{name: "stale", days: []time.Time{day(-2), day(-3)}, want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CalculateStreak(tt.days, today), tt.name)
	}
}

func TestReadingStats_Percentage(t *testing.T) {
	t.Parallel()

	assert.Zero(t, ReadingStats{}.Percentage())
	assert.InDelta(t, 50, ReadingStats{VersesRead: TotalVerses / 2}.Percentage(), 1e-9)
	assert.InDelta(t, 100, ReadingStats{VersesRead: TotalVerses * 2}.Percentage(), 1e-9)
}

func TestAudioSession(t *testing.T) {
	t.Parallel()

	a := NewAudioSession()
	assert.False(t, a.Active())
	a.Resume()
	assert.False(t, a.Playing, "nothing to resume")

	a.ChangeVolume(0.4)
	a.Play("https://example.com/002255.mp3", "Al-Baqarah - Verse 255", "The Cow", 2, 255, "mishary")
	assert.True(t, a.Active())
	assert.True(t, a.IsVerse())
	assert.True(t, a.Loading)
	assert.True(t, a.Playing)
	assert.InDelta(t, 0.4, a.Volume, 1e-9, "volume carries over")

	a.MarkReady(-5)
	assert.False(t, a.Loading)
	assert.Zero(t, a.Duration)

	a.MarkReady(60)
	a.Seek(90)
	assert.InDelta(t, 60, a.Position, 1e-9)
	a.Seek(-1)
	assert.Zero(t, a.Position)
	a.TimeUpdate(75)
	assert.InDelta(t, 60, a.Position, 1e-9)

	a.ChangeVolume(3)
	assert.InDelta(t, 1, a.Volume, 1e-9)
	a.ChangeVolume(-1)
	assert.Zero(t, a.Volume)

	a.Ended()
	assert.False(t, a.Playing)
	assert.InDelta(t, 60, a.Position, 1e-9)

	a.Play("https://example.com/036.mp3", "Ya-Sin", "", 36, 0, "mishary")
	assert.False(t, a.IsVerse())
	assert.Zero(t, a.Position, "previous track state is discarded")
	assert.Zero(t, a.Duration)
}

func TestBookmarkFilter_Apply(t *testing.T) {
	t.Parallel()

	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	list := []Bookmark{
		{SurahNumber: 2, VerseNumber: 255, CreatedAt: t0},
		{SurahNumber: 1, VerseNumber: 5, CreatedAt: t0.Add(2 * time.Hour)},
		{SurahNumber: 2, VerseNumber: 1, CreatedAt: t0.Add(time.Hour)},
	}

	got := BookmarkFilter{SortBy: SortCreatedDesc}.Apply(list)
	assert.Equal(t, "1:5", got[0].Reference())
	assert.Equal(t, "2:255", got[2].Reference())

	got = BookmarkFilter{SurahNumber: 2, SortBy: SortVerseAsc}.Apply(list)
	require.Len(t, got, 2)
	assert.Equal(t, BookmarkKey{SurahNumber: 2, VerseNumber: 1}, got[0].Key())

	got = BookmarkFilter{}.Apply(list)
	assert.Equal(t, list, got, "zero filter keeps insertion order")
	got[0].VerseNumber = 999
	assert.Equal(t, 255, list[0].VerseNumber, "result is a copy")
}

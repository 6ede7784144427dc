package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/manzil-bot/internal/infra/quranapi"
	"github.com/aliskhannn/manzil-bot/internal/repository"
)

type fakeFetcher struct {
	mu       sync.Mutex
	calls    []string
	err      map[string]error
	short    map[string]int // edition -> number of ayahs to return
	delay    time.Duration
	surahLen func(n int) int
}

func (f *fakeFetcher) FetchEdition(ctx context.Context, surahNumber int, edition string) (*quranapi.Edition, error) {
	f.mu.Lock()
	f.calls = append(f.calls, edition)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.err[edition]; err != nil {
		return nil, err
	}

	n := f.surahLen(surahNumber)
	if short, ok := f.short[edition]; ok {
		n = short
	}

	ed := &quranapi.Edition{Identifier: edition, SurahNumber: surahNumber, EnglishName: "Live Name"}
	for i := 1; i <= n; i++ {
		ed.Ayahs = append(ed.Ayahs, quranapi.Ayah{
			NumberInSurah: i,
			Text:          fmt.Sprintf("%s %d:%d", edition, surahNumber, i),
		})
	}
	return ed, nil
}

func newTestCatalogs(t *testing.T) (*repository.SurahRepository, *repository.ReciterRepository) {
	t.Helper()
	surahs, err := repository.NewSurahRepository("")
	require.NoError(t, err)
	return surahs, repository.NewReciterRepository()
}

func newTestVerseService(t *testing.T, f *fakeFetcher) *VerseService {
	t.Helper()
	surahs, reciters := newTestCatalogs(t)
	if f.surahLen == nil {
		f.surahLen = func(n int) int {
			s, err := surahs.GetByNumber(n)
			require.NoError(t, err)
			return s.NumberOfAyahs
		}
	}
	return NewVerseService(surahs, reciters, f, time.Second, zap.NewNop())
}

func TestVerseService_LivePath(t *testing.T) {
	t.Parallel()

	svc := newTestVerseService(t, &fakeFetcher{})
	res := svc.FetchVersesWithEdition(context.Background(), 1, "en.asad", "sudais")

	require.False(t, res.Fallback)
	require.Len(t, res.Verses, 7)
	for i, v := range res.Verses {
		assert.Equal(t, i+1, v.NumberInSurah)
		assert.Equal(t, 1, v.SurahNumber)
		assert.Equal(t, i+1, v.Number)
		assert.Equal(t, fmt.Sprintf("quran-uthmani 1:%d", i+1), v.Text)
		assert.Equal(t, fmt.Sprintf("en.asad 1:%d", i+1), v.Translation)
		assert.Equal(t, fmt.Sprintf("en.transliteration 1:%d", i+1), v.Transliteration)
		assert.Contains(t, v.AudioURL, fmt.Sprintf("/001%03d.mp3", i+1))
		assert.Contains(t, v.Tafsir, "of Surah Live Name.")
	}
}

func TestVerseService_GlobalNumbering(t *testing.T) {
	t.Parallel()

	svc := newTestVerseService(t, &fakeFetcher{})
	verses := svc.FetchVerses(context.Background(), 2)

	require.Len(t, verses, 286)
	assert.Equal(t, 8, verses[0].Number)
	assert.Equal(t, 262, verses[254].Number)
}

func TestVerseService_ShortSecondaryResponses(t *testing.T) {
	t.Parallel()

	svc := newTestVerseService(t, &fakeFetcher{
		short: map[string]int{"en.asad": 3},
		err:   map[string]error{quranapi.EditionTransliteration: quranapi.ErrMalformedResponse},
	})
	res := svc.FetchVersesWithEdition(context.Background(), 1, "en.asad", "")

	require.False(t, res.Fallback)
	require.Len(t, res.Verses, 7)
	assert.Equal(t, "en.asad 1:3", res.Verses[2].Translation)
	assert.Equal(t, "Translation not available", res.Verses[3].Translation)
	assert.Equal(t, "Transliteration not available", res.Verses[0].Transliteration)
}

func TestVerseService_Fallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fetcher *fakeFetcher
	}{
		{
			name:    "primary request fails",
			fetcher: &fakeFetcher{err: map[string]error{quranapi.EditionArabic: quranapi.ErrUnexpectedStatus}},
		},
		{
			name:    "primary malformed",
			fetcher: &fakeFetcher{err: map[string]error{quranapi.EditionArabic: quranapi.ErrMalformedResponse}},
		},
		{
			name:    "secondary network failure",
			fetcher: &fakeFetcher{err: map[string]error{"en.asad": context.DeadlineExceeded}},
		},
		{
			name:    "ayah count disagrees with catalog",
			fetcher: &fakeFetcher{short: map[string]int{quranapi.EditionArabic: 128}},
		},
		{
			name:    "timeout",
			fetcher: &fakeFetcher{delay: 5 * time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := newTestVerseService(t, tt.fetcher)
			res := svc.FetchVersesWithEdition(context.Background(), 9, "en.asad", "mishary")

			require.True(t, res.Fallback)
			require.Len(t, res.Verses, 129)
			for i, v := range res.Verses {
				assert.Equal(t, i+1, v.NumberInSurah)
			}
			assert.Equal(t, "آية 1 من سورة التوبة", res.Verses[0].Text)
			assert.NotEqual(t, bismillah, res.Verses[0].Text)
		})
	}
}

func TestVerseService_FallbackContent(t *testing.T) {
	t.Parallel()

	svc := newTestVerseService(t, &fakeFetcher{err: map[string]error{quranapi.EditionArabic: quranapi.ErrUnexpectedStatus}})
	verses := svc.FetchVerses(context.Background(), 2)

	require.Len(t, verses, 286)
	first := verses[0]
	assert.Equal(t, bismillah, first.Text)
	assert.Equal(t, "Verse 1 of Surah Al-Baqarah. Please check your internet connection for complete verse text.", first.Translation)
	assert.Equal(t, "Verse 1", first.Transliteration)
	assert.Equal(t, "Interpretation of verse 1 from Surah Al-Baqarah.", first.Tafsir)
	assert.NotEqual(t, bismillah, verses[1].Text)

	again := svc.FetchVerses(context.Background(), 2)
	assert.Equal(t, verses, again)
}

func TestVerseService_FatihahFallbackHasNoInvocation(t *testing.T) {
	t.Parallel()

	svc := newTestVerseService(t, &fakeFetcher{err: map[string]error{quranapi.EditionArabic: quranapi.ErrUnexpectedStatus}})
	verses := svc.FetchVerses(context.Background(), 1)

	require.Len(t, verses, 7)
	assert.NotEqual(t, bismillah, verses[0].Text)
}

func TestVerseService_UnknownSurah(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{}
	svc := newTestVerseService(t, f)

	assert.Empty(t, svc.FetchVerses(context.Background(), 0))
	assert.Empty(t, svc.FetchVerses(context.Background(), 115))
	assert.Empty(t, f.calls)
}

func TestVerseService_FetchVerse(t *testing.T) {
	t.Parallel()

	svc := newTestVerseService(t, &fakeFetcher{})

	v, fallback, err := svc.FetchVerse(context.Background(), 2, 255, "en.asad", "")
	require.NoError(t, err)
	assert.False(t, fallback)
	assert.Equal(t, "2:255", v.Reference())

	_, _, err = svc.FetchVerse(context.Background(), 2, 287, "en.asad", "")
	require.ErrorIs(t, err, ErrVerseNotFound)
}

func TestVerseService_SecondaryErrorStatus(t *testing.T) {
	t.Parallel()

	svc := newTestVerseService(t, &fakeFetcher{
		err: map[string]error{
			"en.asad":                       fmt.Errorf("%w 503", quranapi.ErrUnexpectedStatus),
			quranapi.EditionTransliteration: fmt.Errorf("%w 404", quranapi.ErrUnexpectedStatus),
		},
	})
	res := svc.FetchVersesWithEdition(context.Background(), 1, "en.asad", "")

	require.False(t, res.Fallback, "live Arabic text is kept")
	require.Len(t, res.Verses, 7)
	for _, v := range res.Verses {
		assert.Equal(t, "Translation not available", v.Translation)
		assert.Equal(t, "Transliteration not available", v.Transliteration)
	}
}

func TestVerseService_SecondaryDecodeFailure(t *testing.T) {
	t.Parallel()

	svc := newTestVerseService(t, &fakeFetcher{
		err: map[string]error{"en.asad": errors.New("quranapi: decode json: unexpected EOF")},
	})
	res := svc.FetchVersesWithEdition(context.Background(), 1, "en.asad", "")
	assert.True(t, res.Fallback)
}

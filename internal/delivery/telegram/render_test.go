package telegram

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/manzil-bot/assets"
	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/repository"
	"github.com/aliskhannn/manzil-bot/internal/service"
)

func testSurahs(t *testing.T) *repository.SurahRepository {
	t.Helper()

	repo, err := repository.NewSurahRepositoryFromJSON(assets.SurahsJSON)
	require.NoError(t, err)
	return repo
}

func testVerses(surah, n int, text string) []entities.Verse {
	verses := make([]entities.Verse, n)
	for i := range verses {
		verses[i] = entities.Verse{
			NumberInSurah:   i + 1,
			SurahNumber:     surah,
			Text:            text,
			Translation:     "translation",
			Transliteration: "transliteration",
		}
	}
	return verses
}

func TestRenderSurahList(t *testing.T) {
	t.Parallel()

	surahs := testSurahs(t).GetAll()

	text, kb, err := renderSurahList(surahs, 0)
	require.NoError(t, err)
	assert.Contains(t, text, md("1. Al-Fatihah"))
	assert.Contains(t, text, md("🕋 Meccan"))
	assert.Contains(t, text, md("🕌 Medinan"))
	require.NotNil(t, kb)
	// 10 surahs two per row plus navigation.
	require.Len(t, kb.InlineKeyboard, 6)
	assert.Equal(t, "open:1", *kb.InlineKeyboard[0][0].CallbackData)

	nav := kb.InlineKeyboard[5]
	require.Len(t, nav, 2)
	assert.Equal(t, "1/12", nav[0].Text)
	assert.Equal(t, "sl:1", *nav[1].CallbackData)

	text, kb, err = renderSurahList(surahs, 11)
	require.NoError(t, err)
	assert.Contains(t, text, md("114. An-Nas"))
	assert.Equal(t, "sl:10", *kb.InlineKeyboard[len(kb.InlineKeyboard)-1][0].CallbackData)

	_, _, err = renderSurahList(surahs, 12)
	assert.ErrorIs(t, err, errPageOutOfRange)
}

func TestRenderReader_RespectsSettings(t *testing.T) {
	t.Parallel()

	surah, err := testSurahs(t).GetByNumber(1)
	require.NoError(t, err)

	session := entities.ReaderSession{
		SurahNumber:  1,
		State:        entities.ReaderReady,
		Verses:       testVerses(1, 7, "نص"),
		PlayingVerse: 2,
	}
	settings := entities.DefaultSettings()

	text, kb := renderReader(surah, session, &settings, map[int]bool{3: true})
	assert.Contains(t, text, bold("Al-Fatihah"))
	assert.Contains(t, text, italic("translation"))
	assert.NotContains(t, text, "transliteration")
	assert.Contains(t, text, bold("1:2 🔊"))
	assert.Contains(t, text, bold("1:3 ★"))

	require.NotNil(t, kb)
	// 5 verse rows, navigation and the surah row.
	require.Len(t, kb.InlineKeyboard, 7)
	assert.Equal(t, "⏸ 2", kb.InlineKeyboard[1][0].Text)
	assert.Equal(t, "★ 3", kb.InlineKeyboard[2][1].Text)
	assert.Equal(t, "rd:bm:1:3", *kb.InlineKeyboard[2][1].CallbackData)

	settings.TranslationEnabled = false
	settings.TransliterationEnabled = true
	text, _ = renderReader(surah, session, &settings, nil)
	assert.NotContains(t, text, "_translation_")
	assert.Contains(t, text, "transliteration")
}

func TestRenderReader_FallbackNotice(t *testing.T) {
	t.Parallel()

	surah, err := testSurahs(t).GetByNumber(112)
	require.NoError(t, err)

	session := entities.ReaderSession{
		SurahNumber: 112,
		State:       entities.ReaderReady,
		Verses:      testVerses(112, 4, "نص"),
		Fallback:    true,
	}
	settings := entities.DefaultSettings()

	text, kb := renderReader(surah, session, &settings, nil)
	assert.Contains(t, text, "Offline mode")
	// Single page: no navigation row.
	assert.Len(t, kb.InlineKeyboard, 5)
}

func TestRenderReader_LongVersesFitMessage(t *testing.T) {
	t.Parallel()

	surah, err := testSurahs(t).GetByNumber(2)
	require.NoError(t, err)

	long := strings.Repeat("كلمة ", 400)
	verses := testVerses(2, 286, long)
	for i := range verses {
		verses[i].Translation = strings.Repeat("word ", 400)
	}
	session := entities.ReaderSession{SurahNumber: 2, State: entities.ReaderReady, Verses: verses}
	settings := entities.DefaultSettings()
	settings.TransliterationEnabled = true

	text, _ := renderReader(surah, session, &settings, nil)
	assert.Less(t, utf8.RuneCountInString(text), 4096+1024, "escaping adds at most a few characters per verse")
	assert.Contains(t, text, "…")
}

func TestFitVerse(t *testing.T) {
	t.Parallel()

	a, b, c := fitVerse(100, "short", "text", "")
	assert.Equal(t, "short", a)
	assert.Equal(t, "text", b)
	assert.Empty(t, c)

	a, b, c = fitVerse(30, strings.Repeat("a", 60), strings.Repeat("b", 30), strings.Repeat("c", 30))
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b) + utf8.RuneCountInString(c)
	assert.LessOrEqual(t, total, 30)
	assert.True(t, strings.HasSuffix(a, "…"))
}

func TestRenderBookmarks(t *testing.T) {
	t.Parallel()

	surah, err := testSurahs(t).GetByNumber(2)
	require.NoError(t, err)

	text, kb := renderBookmarks(nil, 0)
	assert.Equal(t, md(msgNoBookmarks), text)
	assert.Nil(t, kb)

	items := []service.ResolvedBookmark{{
		Bookmark: entities.Bookmark{SurahNumber: 2, VerseNumber: 255, CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		Surah:    surah,
	}}
	text, kb = renderBookmarks(items, 0)
	assert.Contains(t, text, bold("Al-Baqarah 2:255"))
	assert.Contains(t, text, "1 Mar 2026")
	require.NotNil(t, kb)
	assert.Equal(t, "open:2:255", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "bk:del:2:255:0", *kb.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "bk:clear", *kb.InlineKeyboard[1][0].CallbackData)
}

func TestRenderPrayer(t *testing.T) {
	t.Parallel()

	loc := entities.Location{City: "Makkah", Latitude: 21.4225, Longitude: 39.8262}
	date := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	times := entities.FallbackPrayerTimes(date, loc, entities.MethodMakkah)
	next := times.Prayers[3]
	report := &service.PrayerReport{
		Times:     times,
		Now:       time.Date(2026, 10, 16, 14, 0, 0, 0, time.UTC),
		Next:      &next,
		Remaining: 2 * time.Hour,
	}

	text := renderPrayer(report)
	assert.Contains(t, text, md("Makkah"))
	assert.Contains(t, text, bold("➡️ Asr      16:00  العصر"))
	assert.Contains(t, text, md("Asr in 2h 0m"))
	assert.Contains(t, text, md("90 min after Maghrib"))
	assert.Contains(t, text, "default schedule")
}

func TestRenderAudioCaption(t *testing.T) {
	t.Parallel()

	a := entities.NewAudioSession()
	a.Play("https://example.com/001.mp3", "Al-Fatihah", "The Opening • 7 verses", 1, 0, "mishary")
	assert.Contains(t, renderAudioCaption(a), md("⏳ Loading"))

	a.MarkReady(125)
	caption := renderAudioCaption(a)
	assert.Contains(t, caption, md("▶️ Playing · 2:05"))
	assert.Contains(t, caption, bold("Al-Fatihah"))

	a.Pause()
	assert.Contains(t, renderAudioCaption(a), md("⏸ Paused"))

	a.Ended()
	assert.Contains(t, renderAudioCaption(a), md("⏹ Finished"))
}

func TestBuildProgressBar(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "░░░░", buildProgressBar(0, 4))
	assert.Equal(t, "██░░", buildProgressBar(50, 4))
	assert.Equal(t, "████", buildProgressBar(100, 4))
	assert.Equal(t, "████", buildProgressBar(250, 4))
}

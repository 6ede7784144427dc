package telegram

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/service"
)

var errPageOutOfRange = errors.New("page out of range")

func totalPages(n, perPage int) int {
	if n <= 0 {
		return 0
	}
	return (n + perPage - 1) / perPage
}

func revelationBadge(s *entities.Surah) string {
	if s.RevelationType == entities.RevelationMedinan {
		return "🕌 Medinan"
	}
	return "🕋 Meccan"
}

func formatSurahLine(s *entities.Surah) string {
	return fmt.Sprintf("%s %s\n%s",
		bold(fmt.Sprintf("%d. %s", s.Number, s.EnglishName)),
		md(s.Name),
		md(fmt.Sprintf("%s · %d verses · %s", s.EnglishNameTranslation, s.NumberOfAyahs, revelationBadge(s))),
	)
}

// renderSurahList renders one page of the surah list.
func renderSurahList(surahs []*entities.Surah, page int) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	pages := totalPages(len(surahs), surahsPerPage)
	if page < 0 || page >= pages {
		return "", nil, fmt.Errorf("%w: %d of %d", errPageOutOfRange, page, pages)
	}

	start := page * surahsPerPage
	end := min(start+surahsPerPage, len(surahs))
	items := surahs[start:end]

	var sb strings.Builder
	sb.WriteString(bold("📖 Surahs"))
	sb.WriteString(md(fmt.Sprintf(" (%d–%d of %d)", start+1, end, len(surahs))))
	sb.WriteString("\n\n")
	for _, s := range items {
		sb.WriteString(formatSurahLine(s))
		sb.WriteString("\n\n")
	}
	sb.WriteString(italic("Tap a surah to start reading."))

	return sb.String(), buildSurahListKeyboard(items, page, pages), nil
}

func renderSearchResults(query string, results []*entities.Surah) (string, *tgbotapi.InlineKeyboardMarkup) {
	if len(results) == 0 {
		return md(msgNoResults), nil
	}

	var sb strings.Builder
	sb.WriteString(bold(fmt.Sprintf("🔎 Results for “%s”", query)))
	sb.WriteString("\n\n")
	for _, s := range results {
		sb.WriteString(formatSurahLine(s))
		sb.WriteString("\n\n")
	}

	return strings.TrimRight(sb.String(), "\n"), buildSearchKeyboard(results)
}

// renderReader renders the current page of an open surah.
func renderReader(
	surah *entities.Surah,
	session entities.ReaderSession,
	settings *entities.Settings,
	bookmarked map[int]bool,
) (string, *tgbotapi.InlineKeyboardMarkup) {
	pages := session.TotalPages(service.VersesPerPage)
	verses := session.PageVerses(service.VersesPerPage)

	var sb strings.Builder
	sb.WriteString(bold(surah.EnglishName))
	sb.WriteString(md(" · " + surah.Name))
	sb.WriteString("\n")
	sb.WriteString(italic(surah.EnglishNameTranslation))
	sb.WriteString(md(fmt.Sprintf(" · %s · %d verses", surah.RevelationLabel(), surah.NumberOfAyahs)))
	sb.WriteString("\n")

	progress := entities.PageProgress(session.Page, pages)
	sb.WriteString(md(fmt.Sprintf("%s %.0f%% · page %d/%d",
		buildProgressBar(progress, progressBarLength), progress, session.Page+1, max(pages, 1))))
	sb.WriteString("\n")

	if session.Fallback {
		sb.WriteString("\n")
		sb.WriteString(italic("⚠️ Offline mode: verse text could not be loaded. Try again later."))
		sb.WriteString("\n")
	}

	budget := maxMessageRunes / max(len(verses), 1)
	for _, v := range verses {
		sb.WriteString("\n")
		sb.WriteString(renderVerse(v, settings, session.PlayingVerse == v.NumberInSurah, bookmarked[v.NumberInSurah], budget))
	}

	return sb.String(), buildReaderKeyboard(session, bookmarked)
}

// renderVerse renders a verse block whose visible text fits into budget
// runes.
func renderVerse(v entities.Verse, settings *entities.Settings, playing, bookmarked bool, budget int) string {
	text := v.Text
	var translation, transliteration string
	if settings.TranslationEnabled {
		translation = v.Translation
	}
	if settings.TransliterationEnabled {
		transliteration = v.Transliteration
	}
	text, translation, transliteration = fitVerse(budget, text, translation, transliteration)

	var sb strings.Builder
	header := v.Reference()
	if playing {
		header += " 🔊"
	}
	if bookmarked {
		header += " ★"
	}
	sb.WriteString(bold(header))
	sb.WriteString("\n")
	sb.WriteString(md(text + " " + verseMarker))
	sb.WriteString("\n")
	if transliteration != "" {
		sb.WriteString(md("🔤 " + transliteration))
		sb.WriteString("\n")
	}
	if translation != "" {
		sb.WriteString(italic(translation))
		sb.WriteString("\n")
	}
	return sb.String()
}

// fitVerse shortens the parts proportionally so their total length does not
// exceed budget runes.
func fitVerse(budget int, parts ...string) (string, string, string) {
	out := make([]string, 3)
	copy(out, parts)

	total := 0
	for _, p := range out {
		total += utf8.RuneCountInString(p)
	}
	if total <= budget {
		return out[0], out[1], out[2]
	}

	for i, p := range out {
		n := utf8.RuneCountInString(p)
		out[i] = truncateRunes(p, n*budget/total)
	}
	return out[0], out[1], out[2]
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n-1])) + "…"
}

// renderBookmarks renders one page of the user's bookmarks.
func renderBookmarks(items []service.ResolvedBookmark, page int) (string, *tgbotapi.InlineKeyboardMarkup) {
	if len(items) == 0 {
		return md(msgNoBookmarks), nil
	}

	pages := totalPages(len(items), bookmarksPerPage)
	page = min(max(page, 0), pages-1)
	start := page * bookmarksPerPage
	pageItems := items[start:min(start+bookmarksPerPage, len(items))]

	var sb strings.Builder
	sb.WriteString(bold(fmt.Sprintf("🔖 Bookmarks (%d)", len(items))))
	sb.WriteString("\n\n")
	for _, b := range pageItems {
		sb.WriteString(bold(b.Surah.EnglishName + " " + b.Reference()))
		sb.WriteString(md(" · " + b.Surah.Name))
		sb.WriteString("\n")
		sb.WriteString(italic("saved " + b.CreatedAt.Format("2 Jan 2006")))
		sb.WriteString("\n\n")
	}
	sb.WriteString(italic("Tap a bookmark to open the verse, 🗑 to remove it."))

	return sb.String(), buildBookmarksKeyboard(pageItems, page, pages)
}

func renderSettings(s *entities.Settings, reciter *entities.Reciter) string {
	var sb strings.Builder
	sb.WriteString(bold("⚙️ Settings"))
	sb.WriteString("\n\n")

	lines := []struct{ label, value string }{
		{"🔠 Font size", fmt.Sprintf("%d", s.FontSize)},
		{"🌐 Translation", onOff(s.TranslationEnabled)},
		{"🔤 Transliteration", onOff(s.TransliterationEnabled)},
		{themeIcon(s.Theme) + " Theme", string(s.Theme)},
		{"🎙 Reciter", reciter.Name},
		{"🗣 Language", languageName(s.Language)},
		{"📍 Location", s.Location.DisplayName()},
		{"🕌 Method", s.Method.DisplayName()},
		{"📅 Daily verse", onOff(s.DailyVerse)},
	}
	for _, l := range lines {
		sb.WriteString(bold(l.label + ":"))
		sb.WriteString(" ")
		sb.WriteString(md(l.value))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(italic("Share your location from the attachment menu to update prayer times."))

	return sb.String()
}

func renderPrayer(r *service.PrayerReport) string {
	times := r.Times

	var sb strings.Builder
	sb.WriteString(bold("🕌 Prayer times"))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("📍 %s · %s", times.Location.DisplayName(), r.Now.Format("Mon, 2 Jan 2006"))))
	sb.WriteString("\n\n")

	for _, p := range times.Prayers {
		line := fmt.Sprintf("%-8s %s  %s", p.Type, p.Time, p.Type.ArabicName())
		switch {
		case r.Next != nil && p.Type == r.Next.Type:
			sb.WriteString(bold("➡️ " + line))
		case times.Passed(p, r.Now):
			sb.WriteString(md("✓ " + line))
		default:
			sb.WriteString(md("• " + line))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if r.Next != nil {
		sb.WriteString(md(fmt.Sprintf("⏳ %s in %s", r.Next.Type, entities.FormatRemaining(r.Remaining))))
	} else {
		sb.WriteString(md("All of today's prayers have passed."))
	}
	sb.WriteString("\n")

	fajr, isha := times.Method.Angles()
	sb.WriteString(italic(fmt.Sprintf("%s (Fajr %.1f°, Isha %s)",
		times.Method.DisplayName(), fajr, formatIshaAngle(isha))))

	if times.Fallback {
		sb.WriteString("\n\n")
		sb.WriteString(italic("⚠️ Could not reach the prayer times service. Showing a default schedule."))
	}

	return sb.String()
}

func formatIshaAngle(angle float64) string {
	if angle >= 90 {
		return fmt.Sprintf("%.0f min after Maghrib", angle)
	}
	return fmt.Sprintf("%.1f°", angle)
}

func renderQibla(q *entities.QiblaDirection) string {
	var sb strings.Builder
	sb.WriteString(bold("🧭 Qibla direction"))
	sb.WriteString("\n\n")
	sb.WriteString(md("📍 " + q.Location.DisplayName()))
	sb.WriteString("\n")
	sb.WriteString(bold("Direction: "))
	sb.WriteString(md(q.FormattedDirection()))
	sb.WriteString("\n")
	sb.WriteString(bold("Distance to the Kaaba: "))
	sb.WriteString(md(q.FormattedDistance()))
	sb.WriteString("\n\n")
	sb.WriteString(italic("Bearing is measured clockwise from true north."))
	return sb.String()
}

func renderStats(stats *entities.ReadingStats, lastSurah *entities.Surah) string {
	var sb strings.Builder
	sb.WriteString(bold("📊 Your reading"))
	sb.WriteString("\n\n")

	pct := stats.Percentage()
	sb.WriteString(md(fmt.Sprintf("%s %.1f%%", buildProgressBar(pct, progressBarLength), pct)))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("📖 Verses read: %d / %d\n", stats.VersesRead, entities.TotalVerses)))
	sb.WriteString(md(fmt.Sprintf("📚 Surahs opened: %d / %d\n", stats.SurahsOpened, entities.TotalSurahs)))
	sb.WriteString(md(fmt.Sprintf("✅ Surahs completed: %d\n", stats.SurahsCompleted)))
	sb.WriteString(md(fmt.Sprintf("🔖 Bookmarks: %d\n", stats.Bookmarks)))
	sb.WriteString(md(fmt.Sprintf("🔥 Streak: %d %s\n", stats.Streak, plural(stats.Streak, "day", "days"))))

	if stats.LastRead != nil && lastSurah != nil {
		sb.WriteString("\n")
		sb.WriteString(bold("Last read: "))
		sb.WriteString(md(fmt.Sprintf("%s %d:%d · %s",
			lastSurah.EnglishName,
			stats.LastRead.SurahNumber,
			stats.LastRead.VerseNumber,
			formatAgo(time.Since(stats.LastRead.LastReadAt)),
		)))
	}

	return sb.String()
}

func renderDailyVerse(dv *entities.DailyVerse) string {
	var sb strings.Builder
	sb.WriteString(bold("🌅 Verse of the day"))
	sb.WriteString("\n")
	sb.WriteString(italic(dv.Date.Format("Monday, 2 January 2006")))
	sb.WriteString("\n\n")
	sb.WriteString(md(dv.Verse.Text + " " + verseMarker))
	sb.WriteString("\n\n")
	if dv.Verse.Translation != "" {
		sb.WriteString(italic(dv.Verse.Translation))
		sb.WriteString("\n\n")
	}
	sb.WriteString(bold(fmt.Sprintf("Surah %s (%s)", dv.Surah.EnglishName, dv.Verse.Reference())))
	return sb.String()
}

// renderAudioCaption renders the caption of the player message.
func renderAudioCaption(a *entities.AudioSession) string {
	state := "▶️ Playing"
	switch {
	case a.Loading:
		state = "⏳ Loading"
	case !a.Playing && a.Duration > 0 && a.Position >= a.Duration:
		state = "⏹ Finished"
	case !a.Playing:
		state = "⏸ Paused"
	}

	var sb strings.Builder
	sb.WriteString(bold(a.Title))
	if a.Subtitle != "" {
		sb.WriteString("\n")
		sb.WriteString(md(a.Subtitle))
	}
	sb.WriteString("\n")
	sb.WriteString(md(state))
	if a.Duration > 0 {
		sb.WriteString(md(" · " + formatDuration(a.Duration)))
	}
	return sb.String()
}

func renderResetPrompt() string {
	var sb strings.Builder
	sb.WriteString(bold("⚠️ Delete all your data?"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Bookmarks, settings and reading progress will be removed. This cannot be undone."))
	return sb.String()
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func formatAgo(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		n := int(d.Minutes())
		return fmt.Sprintf("%d %s ago", n, plural(n, "minute", "minutes"))
	case d < 24*time.Hour:
		n := int(d.Hours())
		return fmt.Sprintf("%d %s ago", n, plural(n, "hour", "hours"))
	default:
		n := int(d.Hours() / 24)
		return fmt.Sprintf("%d %s ago", n, plural(n, "day", "days"))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

package telegram

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/service"
)

const (
	surahsPerPage    = 10
	bookmarksPerPage = 8
)

// buildPaginationRow builds the ◀️ n/m ▶️ row. It returns nil when there is
// a single page.
func buildPaginationRow(page, totalPages int, pageData func(int) string) []tgbotapi.InlineKeyboardButton {
	if totalPages <= 1 {
		return nil
	}

	row := make([]tgbotapi.InlineKeyboardButton, 0, 3)
	if page > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("◀️", pageData(page-1)))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(
		fmt.Sprintf("%d/%d", page+1, totalPages), buildNoopCallback()))
	if page < totalPages-1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("▶️", pageData(page+1)))
	}

	return row
}

// buildSurahButtons lays out surahs two per row.
func buildSurahButtons(surahs []*entities.Surah) [][]tgbotapi.InlineKeyboardButton {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, (len(surahs)+1)/2)
	for i := 0; i < len(surahs); i += 2 {
		row := make([]tgbotapi.InlineKeyboardButton, 0, 2)
		for _, s := range surahs[i:min(i+2, len(surahs))] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%d. %s", s.Number, s.EnglishName),
				buildOpenCallback(s.Number, 0),
			))
		}
		rows = append(rows, row)
	}
	return rows
}

// buildSurahListKeyboard builds the keyboard of one page of the surah list.
func buildSurahListKeyboard(surahs []*entities.Surah, page, totalPages int) *tgbotapi.InlineKeyboardMarkup {
	rows := buildSurahButtons(surahs)
	if nav := buildPaginationRow(page, totalPages, buildSurahsCallback); nav != nil {
		rows = append(rows, nav)
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func buildSearchKeyboard(surahs []*entities.Surah) *tgbotapi.InlineKeyboardMarkup {
	if len(surahs) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(buildSurahButtons(surahs)...)
	return &kb
}

// buildReaderKeyboard builds per-verse play and bookmark buttons for the
// current page plus navigation.
func buildReaderKeyboard(session entities.ReaderSession, bookmarked map[int]bool) *tgbotapi.InlineKeyboardMarkup {
	surah := session.SurahNumber
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, service.VersesPerPage+2)

	for _, v := range session.PageVerses(service.VersesPerPage) {
		n := v.NumberInSurah

		play := "▶️ " + strconv.Itoa(n)
		if session.PlayingVerse == n {
			play = "⏸ " + strconv.Itoa(n)
		}
		mark := "☆ " + strconv.Itoa(n)
		if bookmarked[n] {
			mark = "★ " + strconv.Itoa(n)
		}

		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(play, buildReaderPlayCallback(surah, n)),
			tgbotapi.NewInlineKeyboardButtonData(mark, buildReaderBookmarkCallback(surah, n)),
		))
	}

	pageData := func(p int) string { return buildReaderPageCallback(surah, p) }
	if nav := buildPaginationRow(session.Page, session.TotalPages(service.VersesPerPage), pageData); nav != nil {
		rows = append(rows, nav)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🎧 Listen to surah", buildReaderSurahAudioCallback(surah)),
		tgbotapi.NewInlineKeyboardButtonData("✖️ Close", buildReaderCloseCallback(surah)),
	))

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// buildAudioKeyboard builds the player controls for a session.
func buildAudioKeyboard(session *entities.AudioSession) tgbotapi.InlineKeyboardMarkup {
	toggle := "⏸ Pause"
	if !session.Playing {
		toggle = "▶️ Play"
	}

	if session.IsVerse() {
		return tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(toggle, buildAudioCallback(audioToggle)),
				tgbotapi.NewInlineKeyboardButtonData("⏹ Stop", buildAudioCallback(audioStop)),
			),
		)
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏮", buildAudioCallback(audioPrev)),
			tgbotapi.NewInlineKeyboardButtonData(toggle, buildAudioCallback(audioToggle)),
			tgbotapi.NewInlineKeyboardButtonData("⏭", buildAudioCallback(audioNext)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏹ Stop", buildAudioCallback(audioStop)),
		),
	)
}

func buildBookmarksKeyboard(items []service.ResolvedBookmark, page, totalPages int) *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items)+2)
	for _, b := range items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("📖 %s %s", b.Surah.EnglishName, b.Reference()),
				buildOpenCallback(b.SurahNumber, b.VerseNumber),
			),
			tgbotapi.NewInlineKeyboardButtonData("🗑", buildBookmarkDeleteCallback(b.SurahNumber, b.VerseNumber, page)),
		))
	}

	if nav := buildPaginationRow(page, totalPages, buildBookmarksPageCallback); nav != nil {
		rows = append(rows, nav)
	}
	if len(items) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧹 Clear all", buildBookmarksClearCallback(false)),
		))
	}

	if len(rows) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func buildClearBookmarksKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, remove all", buildBookmarksClearCallback(true)),
			tgbotapi.NewInlineKeyboardButtonData("↩️ Back", buildBookmarksPageCallback(0)),
		),
	)
	return &kb
}

// buildSettingsKeyboard builds main settings keyboard.
func buildSettingsKeyboard(s *entities.Settings) *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔠 A−", buildSettingsCallback(settingsFont, fontDecrease)),
			tgbotapi.NewInlineKeyboardButtonData("🔠 A+", buildSettingsCallback(settingsFont, fontIncrease)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				"🌐 Translation "+onOff(s.TranslationEnabled), buildSettingsCallback(settingsTranslation)),
			tgbotapi.NewInlineKeyboardButtonData(
				"🔤 Transliteration "+onOff(s.TransliterationEnabled), buildSettingsCallback(settingsTransliteration)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(themeIcon(s.Theme)+" Theme", buildSettingsCallback(settingsTheme)),
			tgbotapi.NewInlineKeyboardButtonData(
				"📅 Daily verse "+onOff(s.DailyVerse), buildSettingsCallback(settingsDailyVerse)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎙 Reciter", buildSettingsCallback(settingsReciter)),
			tgbotapi.NewInlineKeyboardButtonData("🗣 Language", buildSettingsCallback(settingsLanguage)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🕌 Calculation method", buildSettingsCallback(settingsMethod)),
		),
	)
	return &kb
}

func buildReciterKeyboard(reciters []*entities.Reciter, selected string) *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(reciters)+1)
	for _, r := range reciters {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(checkmark(r.ID == selected)+r.Name, buildSettingsCallback(settingsReciter, r.ID)),
		))
	}
	rows = append(rows, backToSettingsRow())

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func buildLanguageKeyboard(selected entities.Language) *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(entities.Languages)/2+2)
	var row []tgbotapi.InlineKeyboardButton
	for _, l := range entities.Languages {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			checkmark(l == selected)+languageName(l), buildSettingsCallback(settingsLanguage, string(l))))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, backToSettingsRow())

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func buildMethodKeyboard(selected entities.CalculationMethod) *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(entities.CalculationMethods)+1)
	for _, m := range entities.CalculationMethods {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				checkmark(m == selected)+m.DisplayName(), buildSettingsCallback(settingsMethod, string(m))),
		))
	}
	rows = append(rows, backToSettingsRow())

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func backToSettingsRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("↩️ Back", buildSettingsCallback(settingsMenu)),
	)
}

func buildPrayerKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", buildPrayerRefreshCallback()),
			tgbotapi.NewInlineKeyboardButtonData("🕌 Method", buildSettingsCallback(settingsMethod)),
		),
	)
	return &kb
}

// buildLocationKeyboard asks the user to share their location.
func buildLocationKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewOneTimeReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonLocation("📍 Share location"),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func buildDailyVerseKeyboard(dv *entities.DailyVerse) *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				"📖 Read in context", buildOpenCallback(dv.Surah.Number, dv.Verse.NumberInSurah)),
		),
	)
	return &kb
}

func buildResetKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete everything", buildResetCallback(resetConfirm)),
			tgbotapi.NewInlineKeyboardButtonData("↩️ Cancel", buildResetCallback(resetCancel)),
		),
	)
	return &kb
}

func onOff(b bool) string {
	if b {
		return "✅"
	}
	return "❌"
}

func checkmark(selected bool) string {
	if selected {
		return "✅ "
	}
	return ""
}

func themeIcon(t entities.Theme) string {
	if t == entities.ThemeDark {
		return "🌙"
	}
	return "☀️"
}

func languageName(l entities.Language) string {
	return cases.Title(language.English).String(string(l))
}

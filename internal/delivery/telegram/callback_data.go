package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionSurahs    = "sl"
	actionOpen      = "open"
	actionReader    = "rd"
	actionAudio     = "au"
	actionBookmarks = "bk"
	actionSettings  = "st"
	actionPrayer    = "pr"
	actionReset     = "reset"
	actionNoop      = "noop"
)

// Reader sub-actions.
const (
	readerPage     = "page"
	readerPlay     = "play"
	readerBookmark = "bm"
	readerSurah    = "surah"
	readerClose    = "close"
)

// Audio sub-actions.
const (
	audioToggle = "toggle"
	audioNext   = "next"
	audioPrev   = "prev"
	audioStop   = "stop"
)

// Bookmarks sub-actions.
const (
	bookmarksPage         = "page"
	bookmarksDelete       = "del"
	bookmarksClear        = "clear"
	bookmarksClearConfirm = "clearok"
)

// Settings sub-actions.
const (
	settingsMenu            = "menu"
	settingsFont            = "font"
	settingsTranslation     = "tr"
	settingsTransliteration = "tl"
	settingsTheme           = "theme"
	settingsDailyVerse      = "daily"
	settingsReciter         = "reciter"
	settingsLanguage        = "lang"
	settingsMethod          = "method"
)

const (
	fontIncrease = "+"
	fontDecrease = "-"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

const prayerRefresh = "refresh"

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or "".
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// intParam returns the i-th parameter parsed as an integer.
func (cd callbackData) intParam(i int) (int, bool) {
	n, err := strconv.Atoi(cd.param(i))
	if err != nil {
		return 0, false
	}
	return n, true
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 || parts[0] == "" {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildSurahsCallback builds callback data for a page of the surah list.
func buildSurahsCallback(page int) string {
	return callbackData{
		Action: actionSurahs,
		Params: []string{strconv.Itoa(page)},
	}.encode()
}

// buildOpenCallback builds callback data for opening a surah, optionally at
// a verse (0 opens the first page).
func buildOpenCallback(surah, verse int) string {
	params := []string{strconv.Itoa(surah)}
	if verse > 0 {
		params = append(params, strconv.Itoa(verse))
	}
	return callbackData{
		Action: actionOpen,
		Params: params,
	}.encode()
}

func buildReaderCallback(subAction string, surah int, value ...int) string {
	params := []string{subAction, strconv.Itoa(surah)}
	for _, v := range value {
		params = append(params, strconv.Itoa(v))
	}
	return callbackData{
		Action: actionReader,
		Params: params,
	}.encode()
}

func buildReaderPageCallback(surah, page int) string {
	return buildReaderCallback(readerPage, surah, page)
}

func buildReaderPlayCallback(surah, verse int) string {
	return buildReaderCallback(readerPlay, surah, verse)
}

func buildReaderBookmarkCallback(surah, verse int) string {
	return buildReaderCallback(readerBookmark, surah, verse)
}

func buildReaderSurahAudioCallback(surah int) string {
	return buildReaderCallback(readerSurah, surah)
}

func buildReaderCloseCallback(surah int) string {
	return buildReaderCallback(readerClose, surah)
}

func buildAudioCallback(subAction string) string {
	return callbackData{
		Action: actionAudio,
		Params: []string{subAction},
	}.encode()
}

func buildBookmarksPageCallback(page int) string {
	return callbackData{
		Action: actionBookmarks,
		Params: []string{bookmarksPage, strconv.Itoa(page)},
	}.encode()
}

func buildBookmarkDeleteCallback(surah, verse, page int) string {
	return callbackData{
		Action: actionBookmarks,
		Params: []string{
			bookmarksDelete,
			strconv.Itoa(surah),
			strconv.Itoa(verse),
			strconv.Itoa(page),
		},
	}.encode()
}

func buildBookmarksClearCallback(confirmed bool) string {
	sub := bookmarksClear
	if confirmed {
		sub = bookmarksClearConfirm
	}
	return callbackData{
		Action: actionBookmarks,
		Params: []string{sub},
	}.encode()
}

// buildSettingsCallback builds callback data for settings-related actions.
func buildSettingsCallback(subAction string, value ...string) string {
	params := []string{subAction}
	params = append(params, value...)
	return callbackData{
		Action: actionSettings,
		Params: params,
	}.encode()
}

func buildPrayerRefreshCallback() string {
	return callbackData{
		Action: actionPrayer,
		Params: []string{prayerRefresh},
	}.encode()
}

func buildResetCallback(subAction string) string {
	return callbackData{
		Action: actionReset,
		Params: []string{subAction},
	}.encode()
}

func buildNoopCallback() string {
	return actionNoop
}

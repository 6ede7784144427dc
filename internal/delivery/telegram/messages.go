// messages.go contains message templates and formatting helpers for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Error messages.
const (
	msgInternalError     = "Something went wrong. Please try again later."
	msgUnknownCommand    = "Unknown command. Send /help to see what I can do."
	msgSurahNotFound     = "Surah not found. Send a number from 1 to 114 or a surah name."
	msgVerseNotFound     = "That verse does not exist in this surah."
	msgNoSession         = "This reader was closed. Open a surah with /read or /surahs."
	msgNoAudio           = "Nothing is playing."
	msgInvalidLocation   = "Those coordinates are not valid."
	msgUseRead           = "Usage: /read 18 or /read 2:255"
	msgUseSearch         = "Usage: /search kahf"
	msgNoResults         = "No surah matches your search."
	msgNoBookmarks       = "You have no bookmarks yet. Tap ☆ next to a verse to save it."
	msgNoVerseAudio      = "Next and previous work with whole-surah recitations."
	msgAudioBoundary     = "There is no surah in that direction."
	msgReaderClosed      = "Reader closed."
	msgResetDone         = "All your data has been deleted. Send /start to begin again."
	msgResetCancelled    = "Reset cancelled."
	msgBookmarksCleared  = "All bookmarks removed."
	msgLocationSaved     = "Location saved. Prayer times and the Qibla now use it."
	msgDailyVerseOffline = "The verse of the day could not be loaded right now. Please try again later."
)

const (
	verseMarker = "۝" // end of ayah sign

	progressBarLength = 16
	maxMessageRunes   = 3800
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

// buildProgressBar creates a text progress bar for a percentage 0..100.
func buildProgressBar(percent float64, length int) string {
	filled := int(percent / 100 * float64(length))
	filled = min(max(filled, 0), length)

	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

func welcomeMessage() string {
	var sb strings.Builder

	sb.WriteString(md("السلام عليكم ورحمة الله وبركاته"))
	sb.WriteString("\n\n")
	sb.WriteString(bold("Welcome to Manzil"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Read the Quran with translation and transliteration, listen to recitations, " +
		"save verses and check prayer times."))
	sb.WriteString("\n\n")
	sb.WriteString(md("📖 /surahs browse all 114 surahs\n"))
	sb.WriteString(md("🔎 send a number or a name, e.g. 18 or kahf\n"))
	sb.WriteString(md("🕌 /prayer today's prayer times\n"))
	sb.WriteString(md("⚙️ /settings language, reciter and more"))

	return sb.String()
}

func helpMessage() string {
	var sb strings.Builder

	sb.WriteString(bold("Commands"))
	sb.WriteString("\n\n")
	for _, c := range Commands() {
		sb.WriteString(md(fmt.Sprintf("/%s - %s\n", c.Command, c.Description)))
	}
	sb.WriteString("\n")
	sb.WriteString(md("Send a surah number (18), a verse (2:255) or part of a name (kahf) to jump straight in. " +
		"Share your location to get prayer times for where you are."))

	return sb.String()
}

// Commands lists the bot commands shown in the Telegram menu.
func Commands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "surahs", Description: "Browse all surahs"},
		{Command: "read", Description: "Open a surah or verse, e.g. /read 2:255"},
		{Command: "search", Description: "Find a surah by name or number"},
		{Command: "bookmarks", Description: "Your saved verses"},
		{Command: "daily", Description: "Verse of the day"},
		{Command: "prayer", Description: "Today's prayer times"},
		{Command: "qibla", Description: "Direction of the Kaaba"},
		{Command: "stats", Description: "Reading statistics"},
		{Command: "settings", Description: "Reading, audio and prayer settings"},
		{Command: "reset", Description: "Delete all your data"},
		{Command: "help", Description: "How to use the bot"},
	}
}

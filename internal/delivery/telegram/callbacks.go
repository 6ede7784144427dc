package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/service"
)

var errInvalidCallback = errors.New("invalid callback data")

// callbackFunc handles a decoded callback and returns the text of the
// answer notification, if any.
type callbackFunc func(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answer(cb, "")
		return
	}

	data := decodeCallback(cb.Data)

	var fn callbackFunc
	switch data.Action {
	case actionSurahs:
		fn = h.surahsCallback
	case actionOpen:
		fn = h.openCallback
	case actionReader:
		fn = h.readerCallback
	case actionAudio:
		fn = h.audioCallback
	case actionBookmarks:
		fn = h.bookmarksCallback
	case actionSettings:
		fn = h.settingsCallback
	case actionPrayer:
		fn = h.prayerCallback
	case actionReset:
		fn = h.resetCallback
	default:
		h.answer(cb, "")
		return
	}

	var toast string
	_ = h.withErrorHandling(func(ctx context.Context, chatID int64) error {
		text, err := fn(ctx, cb, data)
		switch {
		case errors.Is(err, errInvalidCallback):
			h.logger.Warn("invalid callback data",
				zap.Int64("chat_id", chatID),
				zap.String("data", cb.Data),
			)
			return nil
		case err != nil:
			if msg, ok := userMessage(err); ok {
				toast = msg
				return nil
			}
			return err
		}
		toast = text
		return nil
	})(ctx, cb.Message.Chat.ID)

	// Remove the user's "clock".
	h.answer(cb, toast)
}

// editCallbackMessage replaces the text and keyboard of the callback's message.
func (h *Handler) editCallbackMessage(cb *tgbotapi.CallbackQuery, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	edit := newEdit(cb.Message.Chat.ID, cb.Message.MessageID, text)
	if kb != nil {
		edit.ReplyMarkup = kb
	}
	h.send(edit)
}

func (h *Handler) surahsCallback(_ context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	page, ok := data.intParam(0)
	if !ok {
		return "", errInvalidCallback
	}

	text, kb, err := renderSurahList(h.catalogService.ListSurahs(), page)
	if errors.Is(err, errPageOutOfRange) {
		return "", errInvalidCallback
	}
	if err != nil {
		return "", err
	}

	h.editCallbackMessage(cb, text, kb)
	return "", nil
}

func (h *Handler) openCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	surah, ok := data.intParam(0)
	if !ok {
		return "", errInvalidCallback
	}
	verse := 0
	if len(data.Params) > 1 {
		if verse, ok = data.intParam(1); !ok {
			return "", errInvalidCallback
		}
	}

	return "", h.openSurah(ctx, cb.Message.Chat.ID, cb.From.ID, surah, verse)
}

func (h *Handler) readerCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	surahNumber, ok := data.intParam(1)
	if !ok {
		return "", errInvalidCallback
	}
	value, _ := data.intParam(2)

	// Bookmarking works from any message of the surah, even a closed one.
	if data.param(0) == readerBookmark {
		return h.toggleBookmark(ctx, cb, surahNumber, value)
	}

	session, ok := h.readerService.Current(chatID)
	if !ok || session.SurahNumber != surahNumber || session.MessageID != cb.Message.MessageID {
		return "", service.ErrNoSession
	}

	switch data.param(0) {
	case readerPage:
		session, err := h.readerService.Page(ctx, chatID, value)
		if err != nil {
			return "", err
		}
		return "", h.refreshReader(ctx, chatID, userID, session)

	case readerPlay:
		return h.toggleVersePlayback(ctx, chatID, userID, value)

	case readerSurah:
		return "", h.playSurah(ctx, chatID, userID, surahNumber)

	case readerClose:
		h.readerService.Close(chatID)
		h.request(tgbotapi.NewDeleteMessage(chatID, cb.Message.MessageID))
		return msgReaderClosed, nil

	default:
		return "", errInvalidCallback
	}
}

func (h *Handler) toggleBookmark(ctx context.Context, cb *tgbotapi.CallbackQuery, surahNumber, verse int) (string, error) {
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	added, err := h.bookmarkService.Toggle(ctx, userID, surahNumber, verse)
	if err != nil {
		return "", fmt.Errorf("toggle bookmark: %w", err)
	}

	if session, ok := h.readerService.Current(chatID); ok &&
		session.SurahNumber == surahNumber && session.MessageID == cb.Message.MessageID {
		if err := h.refreshReader(ctx, chatID, userID, session); err != nil {
			return "", err
		}
	}

	ref := fmt.Sprintf("%d:%d", surahNumber, verse)
	if added {
		return "🔖 Bookmarked " + ref, nil
	}
	return "Removed bookmark " + ref, nil
}

// refreshReader re-renders the reader message of the chat.
func (h *Handler) refreshReader(ctx context.Context, chatID, userID int64, session entities.ReaderSession) error {
	surah, err := h.catalogService.GetSurah(session.SurahNumber)
	if err != nil {
		return err
	}
	settings, err := h.settingsService.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("get settings: %w", err)
	}

	h.showReaderPage(ctx, chatID, session.MessageID, userID, surah, session, settings)
	return nil
}

func (h *Handler) bookmarksCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	userID := cb.From.ID

	switch data.param(0) {
	case bookmarksPage:
		page, ok := data.intParam(1)
		if !ok {
			return "", errInvalidCallback
		}
		return "", h.showBookmarksPage(ctx, cb, userID, page)

	case bookmarksDelete:
		surah, ok1 := data.intParam(1)
		verse, ok2 := data.intParam(2)
		page, ok3 := data.intParam(3)
		if !ok1 || !ok2 || !ok3 {
			return "", errInvalidCallback
		}
		if err := h.bookmarkService.Remove(ctx, userID, surah, verse); err != nil {
			return "", fmt.Errorf("remove bookmark: %w", err)
		}
		return fmt.Sprintf("Removed %d:%d", surah, verse), h.showBookmarksPage(ctx, cb, userID, page)

	case bookmarksClear:
		h.editCallbackMessage(cb, bold("Remove all bookmarks?"), buildClearBookmarksKeyboard())
		return "", nil

	case bookmarksClearConfirm:
		if err := h.bookmarkService.Clear(ctx, userID); err != nil {
			return "", fmt.Errorf("clear bookmarks: %w", err)
		}
		h.editCallbackMessage(cb, md(msgBookmarksCleared), nil)
		return "", nil

	default:
		return "", errInvalidCallback
	}
}

func (h *Handler) showBookmarksPage(ctx context.Context, cb *tgbotapi.CallbackQuery, userID int64, page int) error {
	items, err := h.bookmarkService.ListResolved(ctx, userID, entities.BookmarkFilter{SortBy: entities.SortCreatedDesc})
	if err != nil {
		return fmt.Errorf("list bookmarks: %w", err)
	}

	text, kb := renderBookmarks(items, page)
	h.editCallbackMessage(cb, text, kb)
	return nil
}

func (h *Handler) settingsCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	userID := cb.From.ID

	current, err := h.settingsService.GetOrCreate(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get settings: %w", err)
	}

	var patch entities.SettingsPatch
	value := data.param(1)

	switch data.param(0) {
	case settingsMenu:
		h.editSettings(cb, current)
		return "", nil

	case settingsFont:
		size := current.FontSize
		switch value {
		case fontIncrease:
			size += entities.FontSizeStep
		case fontDecrease:
			size -= entities.FontSizeStep
		default:
			return "", errInvalidCallback
		}
		patch.FontSize = &size

	case settingsTranslation:
		v := !current.TranslationEnabled
		patch.TranslationEnabled = &v

	case settingsTransliteration:
		v := !current.TransliterationEnabled
		patch.TransliterationEnabled = &v

	case settingsDailyVerse:
		v := !current.DailyVerse
		patch.DailyVerse = &v

	case settingsTheme:
		theme, err := h.settingsService.ToggleTheme(ctx, userID)
		if err != nil {
			return "", fmt.Errorf("toggle theme: %w", err)
		}
		current.Theme = theme
		h.editSettings(cb, current)
		return "Saved", nil

	case settingsReciter:
		if value == "" {
			h.editCallbackMessage(cb, bold("🎙 Choose a reciter"),
				buildReciterKeyboard(h.catalogService.Reciters(), current.Reciter))
			return "", nil
		}
		patch.Reciter = &value

	case settingsLanguage:
		if value == "" {
			h.editCallbackMessage(cb, bold("🗣 Choose the translation language"), buildLanguageKeyboard(current.Language))
			return "", nil
		}
		lang := entities.Language(value)
		if !lang.Valid() {
			return "", errInvalidCallback
		}
		patch.Language = &lang

	case settingsMethod:
		if value == "" {
			h.editCallbackMessage(cb, bold("🕌 Choose the calculation method"), buildMethodKeyboard(current.Method))
			return "", nil
		}
		method := entities.CalculationMethod(value)
		if !method.Valid() {
			return "", errInvalidCallback
		}
		patch.Method = &method

	default:
		return "", errInvalidCallback
	}

	updated, err := h.settingsService.Update(ctx, userID, patch)
	if err != nil {
		return "", fmt.Errorf("update settings: %w", err)
	}

	h.editSettings(cb, updated)
	return "Saved", nil
}

func (h *Handler) editSettings(cb *tgbotapi.CallbackQuery, settings *entities.Settings) {
	h.editCallbackMessage(cb,
		renderSettings(settings, h.catalogService.Reciter(settings.Reciter)),
		buildSettingsKeyboard(settings),
	)
}

func (h *Handler) prayerCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	if data.param(0) != prayerRefresh {
		return "", errInvalidCallback
	}

	settings, err := h.settingsService.GetOrCreate(ctx, cb.From.ID)
	if err != nil {
		return "", fmt.Errorf("get settings: %w", err)
	}

	report, err := h.prayerService.Today(ctx, settings.Location, settings.Method)
	if err != nil {
		return "", err
	}

	h.editCallbackMessage(cb, renderPrayer(report), buildPrayerKeyboard())
	return "Updated", nil
}

func (h *Handler) resetCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	chatID := cb.Message.Chat.ID

	switch data.param(0) {
	case resetConfirm:
		if err := h.resetService.ResetUser(ctx, cb.From.ID); err != nil {
			return "", fmt.Errorf("reset user: %w", err)
		}
		h.readerService.Close(chatID)
		if err := h.audioService.Dismiss(ctx, chatID); err != nil {
			h.logger.Warn("failed to dismiss audio on reset", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		h.editCallbackMessage(cb, md(msgResetDone), nil)
		return "", nil

	case resetCancel:
		h.editCallbackMessage(cb, md(msgResetCancelled), nil)
		return "", nil

	default:
		return "", errInvalidCallback
	}
}

package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/service"
)

func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID
	args := strings.TrimSpace(msg.CommandArguments())

	var fn HandlerFunc
	switch msg.Command() {
	case "start":
		fn = h.textMessageHandler(welcomeMessage())
	case "help":
		fn = h.textMessageHandler(helpMessage())
	case "surahs":
		fn = h.surahsHandler()
	case "read":
		fn = h.readHandler(userID, args)
	case "search":
		fn = h.searchHandler(args)
	case "bookmarks":
		fn = h.bookmarksHandler(userID)
	case "settings":
		fn = h.settingsHandler(userID)
	case "prayer":
		fn = h.prayerHandler(userID)
	case "qibla":
		fn = h.qiblaHandler(userID)
	case "stats":
		fn = h.statsHandler(userID)
	case "daily":
		fn = h.dailyVerseHandler(userID)
	case "reset":
		fn = h.resetHandler()
	default:
		h.send(newPlainMessage(chatID, msgUnknownCommand))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) textMessageHandler(text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.send(newMessage(chatID, text))
		return nil
	}
}

// textHandler handles plain text: a reference opens the reader, anything
// else is a surah search.
func (h *Handler) textHandler(userID int64, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}
		if ref, ok := parseVerseRef(text); ok {
			return h.openSurah(ctx, chatID, userID, ref.Surah, ref.Verse)
		}
		return h.searchHandler(text)(ctx, chatID)
	}
}

func (h *Handler) surahsHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, kb, err := renderSurahList(h.catalogService.ListSurahs(), 0)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, text)
		msg.ReplyMarkup = kb
		h.send(msg)
		return nil
	}
}

func (h *Handler) readHandler(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		ref, ok := parseVerseRef(args)
		if !ok {
			h.send(newPlainMessage(chatID, msgUseRead))
			return nil
		}
		return h.openSurah(ctx, chatID, userID, ref.Surah, ref.Verse)
	}
}

func (h *Handler) searchHandler(query string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		query = strings.TrimSpace(query)
		if query == "" {
			h.send(newPlainMessage(chatID, msgUseSearch))
			return nil
		}

		text, kb := renderSearchResults(query, h.catalogService.Search(query))
		msg := newMessage(chatID, text)
		if kb != nil {
			msg.ReplyMarkup = kb
		}
		h.send(msg)
		return nil
	}
}

func (h *Handler) bookmarksHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		items, err := h.bookmarkService.ListResolved(ctx, userID, entities.BookmarkFilter{SortBy: entities.SortCreatedDesc})
		if err != nil {
			return fmt.Errorf("list bookmarks: %w", err)
		}

		text, kb := renderBookmarks(items, 0)
		msg := newMessage(chatID, text)
		if kb != nil {
			msg.ReplyMarkup = kb
		}
		h.send(msg)
		return nil
	}
}

func (h *Handler) settingsHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		settings, err := h.settingsService.GetOrCreate(ctx, userID)
		if err != nil {
			return fmt.Errorf("get settings: %w", err)
		}

		msg := newMessage(chatID, renderSettings(settings, h.catalogService.Reciter(settings.Reciter)))
		msg.ReplyMarkup = buildSettingsKeyboard(settings)
		h.send(msg)
		return nil
	}
}

func (h *Handler) prayerHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		settings, err := h.settingsService.GetOrCreate(ctx, userID)
		if err != nil {
			return fmt.Errorf("get settings: %w", err)
		}

		report, err := h.prayerService.Today(ctx, settings.Location, settings.Method)
		if err != nil {
			return err
		}

		msg := newMessage(chatID, renderPrayer(report))
		msg.ReplyMarkup = buildPrayerKeyboard()
		h.send(msg)

		h.askLocationIfDefault(chatID, settings.Location)
		return nil
	}
}

func (h *Handler) qiblaHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		settings, err := h.settingsService.GetOrCreate(ctx, userID)
		if err != nil {
			return fmt.Errorf("get settings: %w", err)
		}

		qibla, err := h.prayerService.Qibla(settings.Location)
		if err != nil {
			return err
		}

		h.send(newMessage(chatID, renderQibla(qibla)))
		h.request(tgbotapi.NewLocation(chatID, entities.KaabaLatitude, entities.KaabaLongitude))

		h.askLocationIfDefault(chatID, settings.Location)
		return nil
	}
}

func (h *Handler) statsHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		stats, err := h.progressService.Stats(ctx, userID)
		if err != nil {
			return fmt.Errorf("get stats: %w", err)
		}

		var lastSurah *entities.Surah
		if stats.LastRead != nil {
			lastSurah, _ = h.catalogService.GetSurah(stats.LastRead.SurahNumber)
		}

		msg := newMessage(chatID, renderStats(stats, lastSurah))
		if stats.LastRead != nil && lastSurah != nil {
			kb := tgbotapi.NewInlineKeyboardMarkup(
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData("📖 Continue reading",
						buildOpenCallback(stats.LastRead.SurahNumber, stats.LastRead.VerseNumber)),
				),
			)
			msg.ReplyMarkup = kb
		}
		h.send(msg)
		return nil
	}
}

func (h *Handler) dailyVerseHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		dv, err := h.dailyVerseService.Today(ctx, userID)
		if err != nil {
			return fmt.Errorf("get daily verse: %w", err)
		}
		if dv.Fallback {
			h.send(newPlainMessage(chatID, msgDailyVerseOffline))
			return nil
		}

		msg := newMessage(chatID, renderDailyVerse(dv))
		msg.ReplyMarkup = buildDailyVerseKeyboard(dv)
		h.send(msg)
		return nil
	}
}

func (h *Handler) resetHandler() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newMessage(chatID, renderResetPrompt())
		msg.ReplyMarkup = buildResetKeyboard()
		h.send(msg)
		return nil
	}
}

// locationHandler stores a shared location and shows prayer times for it.
func (h *Handler) locationHandler(userID int64, shared *tgbotapi.Location) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		loc := entities.Location{Latitude: shared.Latitude, Longitude: shared.Longitude}
		settings, err := h.settingsService.Update(ctx, userID, entities.SettingsPatch{Location: &loc})
		if err != nil {
			return err
		}

		confirm := newPlainMessage(chatID, msgLocationSaved)
		confirm.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		h.send(confirm)

		report, err := h.prayerService.Today(ctx, settings.Location, settings.Method)
		if err != nil {
			return err
		}

		// Remember the zone reported for the coordinates.
		if tz := report.Times.Location.Timezone; !report.Times.Fallback && tz != "" && tz != loc.Timezone {
			loc.Timezone = tz
			if _, err := h.settingsService.Update(ctx, userID, entities.SettingsPatch{Location: &loc}); err != nil {
				h.logger.Warn("failed to store timezone",
					zap.Int64("user_id", userID),
					zap.Error(err),
				)
			}
		}

		msg := newMessage(chatID, renderPrayer(report))
		msg.ReplyMarkup = buildPrayerKeyboard()
		h.send(msg)
		return nil
	}
}

func (h *Handler) askLocationIfDefault(chatID int64, loc entities.Location) {
	def := entities.DefaultLocation()
	if loc.Latitude != def.Latitude || loc.Longitude != def.Longitude {
		return
	}

	msg := newPlainMessage(chatID, "Using "+def.DisplayName()+". Share your location for local times.")
	msg.ReplyMarkup = buildLocationKeyboard()
	h.send(msg)
}

// openSurah sends a loading message and replaces it with the first page of
// the surah, or the page holding verse when it is not 0.
func (h *Handler) openSurah(ctx context.Context, chatID, userID int64, surahNumber, verse int) error {
	surah, err := h.catalogService.GetSurah(surahNumber)
	if err != nil {
		return err
	}
	if verse != 0 && !surah.HasVerse(verse) {
		return fmt.Errorf("%w: %d:%d", service.ErrVerseNotFound, surahNumber, verse)
	}

	settings, err := h.settingsService.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("get settings: %w", err)
	}

	loading, err := h.sendMessage(newMessage(chatID, md(fmt.Sprintf("⏳ Loading %s…", surah.EnglishName))))
	if err != nil {
		return fmt.Errorf("send loading message: %w", err)
	}

	session, err := h.readerService.Open(ctx, chatID, userID, surahNumber, service.OpenOptions{
		Edition:   settings.Language.Edition(),
		ReciterID: settings.Reciter,
		Verse:     verse,
	})
	if err != nil {
		h.request(tgbotapi.NewDeleteMessage(chatID, loading.MessageID))
		return err
	}

	h.readerService.SetMessage(chatID, loading.MessageID)
	h.showReaderPage(ctx, chatID, loading.MessageID, userID, surah, session, settings)
	return nil
}

// showReaderPage renders session into the message msgID.
func (h *Handler) showReaderPage(
	ctx context.Context,
	chatID int64,
	msgID int,
	userID int64,
	surah *entities.Surah,
	session entities.ReaderSession,
	settings *entities.Settings,
) {
	bookmarked, err := h.bookmarkService.Keys(ctx, userID, session.SurahNumber)
	if err != nil {
		h.logger.Warn("failed to load bookmarks for reader",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	text, kb := renderReader(surah, session, settings, bookmarked)
	edit := newEdit(chatID, msgID, text)
	edit.ReplyMarkup = kb
	h.send(edit)
}

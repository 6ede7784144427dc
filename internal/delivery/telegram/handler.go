package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const defaultWorkers = 8

type Handler struct {
	bot     Bot
	logger  *zap.Logger
	workers int

	userService       UserService
	catalogService    CatalogService
	readerService     ReaderService
	audioService      AudioService
	bookmarkService   BookmarkService
	settingsService   SettingsService
	progressService   ProgressService
	prayerService     PrayerService
	dailyVerseService DailyVerseService
	resetService      ResetService
}

func NewHandler(bot Bot, logger *zap.Logger, workers int, services Services) *Handler {
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Handler{
		bot:               bot,
		logger:            logger,
		workers:           workers,
		userService:       services.Users,
		catalogService:    services.Catalog,
		readerService:     services.Reader,
		audioService:      services.Audio,
		bookmarkService:   services.Bookmarks,
		settingsService:   services.Settings,
		progressService:   services.Progress,
		prayerService:     services.Prayer,
		dailyVerseService: services.DailyVerse,
		resetService:      services.Reset,
	}
}

// Run receives updates until ctx is cancelled. Updates are handled by at
// most h.workers goroutines at a time.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started", zap.Int("workers", h.workers))
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	sem := make(chan struct{}, h.workers)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-sem }()
				defer h.recoverPanic(update.UpdateID)

				h.handleUpdate(ctx, update)
			}()
		}
	}
}

func (h *Handler) recoverPanic(updateID int) {
	if r := recover(); r != nil {
		h.logger.Error("panic while handling update",
			zap.Int("update_id", updateID),
			zap.Any("panic", r),
		)
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID

	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text),
	)

	if err := h.userService.EnsureUser(ctx, userID, chatID); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	if msg.Location != nil {
		_ = h.withErrorHandling(h.locationHandler(userID, msg.Location))(ctx, chatID)
		return
	}

	if msg.IsCommand() {
		h.handleCommand(ctx, msg)
		return
	}

	_ = h.withErrorHandling(h.textHandler(userID, msg.Text))(ctx, chatID)
}

func (h *Handler) sendError(chatID int64, text string) {
	h.send(newPlainMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

// sendMessage sends c and returns the sent message.
func (h *Handler) sendMessage(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	return h.bot.Send(c)
}

func (h *Handler) request(c tgbotapi.Chattable) {
	if _, err := h.bot.Request(c); err != nil {
		h.logger.Debug("telegram request failed", zap.Error(err))
	}
}

// answer removes the loading indicator of a callback, optionally showing text.
func (h *Handler) answer(cb *tgbotapi.CallbackQuery, text string) {
	h.request(tgbotapi.NewCallback(cb.ID, text))
}

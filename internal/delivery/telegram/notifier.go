package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/service"
)

// SendDailyVerse delivers the verse of the day to a subscriber. It returns
// service.ErrRecipientUnavailable when the chat can no longer be reached.
func (h *Handler) SendDailyVerse(_ context.Context, chatID int64, dv *entities.DailyVerse) error {
	msg := newMessage(chatID, renderDailyVerse(dv))
	msg.ReplyMarkup = buildDailyVerseKeyboard(dv)

	if _, err := h.bot.Send(msg); err != nil {
		if recipientUnavailable(err) {
			return fmt.Errorf("%w: %w", service.ErrRecipientUnavailable, err)
		}
		return fmt.Errorf("send daily verse: %w", err)
	}
	return nil
}

// recipientUnavailable reports whether err means the bot was blocked, the
// user was deactivated or the chat no longer exists.
func recipientUnavailable(err error) bool {
	var tgErr *tgbotapi.Error
	if !errors.As(err, &tgErr) {
		return false
	}

	switch tgErr.Code {
	case http.StatusForbidden:
		return true
	case http.StatusBadRequest:
		return strings.Contains(strings.ToLower(tgErr.Message), "chat not found")
	default:
		return false
	}
}

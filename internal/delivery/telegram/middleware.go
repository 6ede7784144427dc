package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/repository"
	"github.com/aliskhannn/manzil-bot/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling logs errors returned by fn and tells the user something
// went wrong. Errors the user can act on get a specific message.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil || errors.Is(err, service.ErrStaleResult) {
			return nil
		}

		if text, ok := userMessage(err); ok {
			h.sendError(chatID, text)
			return nil
		}

		h.logger.Error("handle error",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
		return nil
	}
}

func userMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, repository.ErrSurahNotFound), errors.Is(err, repository.ErrInvalidNumber):
		return msgSurahNotFound, true
	case errors.Is(err, service.ErrVerseNotFound):
		return msgVerseNotFound, true
	case errors.Is(err, service.ErrNoSession):
		return msgNoSession, true
	case errors.Is(err, service.ErrNoAudio):
		return msgNoAudio, true
	case errors.Is(err, entities.ErrInvalidCoordinates):
		return msgInvalidLocation, true
	default:
		return "", false
	}
}

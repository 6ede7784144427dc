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

// toggleVersePlayback plays the verse, or stops it when it is already the
// selected verse of the reader.
func (h *Handler) toggleVersePlayback(ctx context.Context, chatID, userID int64, verse int) (string, error) {
	session, playing, err := h.readerService.TogglePlayVerse(chatID, verse)
	if err != nil {
		return "", err
	}

	if !playing {
		h.stopPlayer(ctx, chatID)
		return "", h.refreshReader(ctx, chatID, userID, session)
	}

	settings, err := h.settingsService.GetOrCreate(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get settings: %w", err)
	}

	prevMsgID := h.playerMessageID(ctx, chatID)
	audio, err := h.audioService.PlayVerse(ctx, chatID, session.SurahNumber, verse, settings.Reciter)
	if err != nil {
		h.readerService.StopVerse(chatID)
		return "", err
	}
	if err := h.sendAudio(ctx, chatID, audio, prevMsgID); err != nil {
		h.readerService.StopVerse(chatID)
		return "", err
	}

	return "", h.refreshReader(ctx, chatID, userID, session)
}

// playSurah starts the whole-surah recitation with the user's reciter.
func (h *Handler) playSurah(ctx context.Context, chatID, userID int64, surahNumber int) error {
	settings, err := h.settingsService.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("get settings: %w", err)
	}

	prevMsgID := h.playerMessageID(ctx, chatID)
	audio, err := h.audioService.PlaySurah(ctx, chatID, surahNumber, settings.Reciter)
	if err != nil {
		return err
	}
	if err := h.sendAudio(ctx, chatID, audio, prevMsgID); err != nil {
		return err
	}

	return h.clearPlayingVerse(ctx, chatID, userID)
}

func (h *Handler) audioCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) (string, error) {
	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID

	current, err := h.audioService.Get(ctx, chatID)
	if err != nil {
		return "", err
	}
	if current.MessageID != msgID {
		// Controls of a replaced track.
		h.request(tgbotapi.NewDeleteMessage(chatID, msgID))
		return msgNoAudio, nil
	}

	switch data.param(0) {
	case audioToggle:
		session, err := h.audioService.TogglePause(ctx, chatID)
		if err != nil {
			return "", err
		}
		h.updatePlayer(chatID, msgID, session)
		return "", nil

	case audioNext, audioPrev:
		step := h.audioService.Next
		if data.param(0) == audioPrev {
			step = h.audioService.Previous
		}

		session, changed, err := step(ctx, chatID)
		if err != nil {
			return "", err
		}
		if !changed {
			if session.IsVerse() {
				return msgNoVerseAudio, nil
			}
			return msgAudioBoundary, nil
		}
		return "", h.sendAudio(ctx, chatID, session, msgID)

	case audioStop:
		h.stopPlayer(ctx, chatID)
		return "", h.clearPlayingVerse(ctx, chatID, cb.From.ID)

	default:
		return "", errInvalidCallback
	}
}

// sendAudio sends the track of session, replacing the player message
// replaceMsgID. Telegram accepting the file is the media-ready event.
func (h *Handler) sendAudio(ctx context.Context, chatID int64, session *entities.AudioSession, replaceMsgID int) error {
	if replaceMsgID != 0 {
		h.request(tgbotapi.NewDeleteMessage(chatID, replaceMsgID))
	}

	audio := tgbotapi.NewAudio(chatID, tgbotapi.FileURL(session.URL))
	audio.Title = session.Title
	audio.Performer = h.catalogService.Reciter(session.ReciterID).Name
	audio.Caption = renderAudioCaption(session)
	audio.ParseMode = tgbotapi.ModeMarkdownV2
	audio.ReplyMarkup = buildAudioKeyboard(session)

	sent, err := h.sendMessage(audio)
	if err != nil {
		if abandonErr := h.audioService.Abandon(ctx, chatID, session.Generation); abandonErr != nil {
			h.logger.Warn("failed to dismiss audio", zap.Int64("chat_id", chatID), zap.Error(abandonErr))
		}
		return fmt.Errorf("send audio: %w", err)
	}

	if err := h.audioService.SetMessage(ctx, chatID, session.Generation, sent.MessageID); err != nil {
		if trackGone(err) {
			h.request(tgbotapi.NewDeleteMessage(chatID, sent.MessageID))
			return nil
		}
		return fmt.Errorf("store player message: %w", err)
	}

	var duration float64
	if sent.Audio != nil {
		duration = float64(sent.Audio.Duration)
	}
	ready, err := h.audioService.MarkReady(ctx, chatID, session.Generation, duration)
	if err != nil {
		if trackGone(err) {
			h.request(tgbotapi.NewDeleteMessage(chatID, sent.MessageID))
			return nil
		}
		return fmt.Errorf("mark audio ready: %w", err)
	}

	h.updatePlayer(chatID, sent.MessageID, ready)
	return nil
}

// updatePlayer re-renders the caption and controls of the player message.
func (h *Handler) updatePlayer(chatID int64, msgID int, session *entities.AudioSession) {
	edit := tgbotapi.NewEditMessageCaption(chatID, msgID, renderAudioCaption(session))
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	kb := buildAudioKeyboard(session)
	edit.ReplyMarkup = &kb
	h.send(edit)
}

// stopPlayer empties the audio slot and removes its message.
func (h *Handler) stopPlayer(ctx context.Context, chatID int64) {
	if msgID := h.playerMessageID(ctx, chatID); msgID != 0 {
		h.request(tgbotapi.NewDeleteMessage(chatID, msgID))
	}
	if err := h.audioService.Dismiss(ctx, chatID); err != nil {
		h.logger.Warn("failed to dismiss audio", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// trackGone reports whether a newer play or a stop took the slot while a
// track was being sent.
func trackGone(err error) bool {
	return errors.Is(err, service.ErrTrackReplaced) || errors.Is(err, service.ErrNoAudio)
}

func (h *Handler) playerMessageID(ctx context.Context, chatID int64) int {
	current, err := h.audioService.Get(ctx, chatID)
	if err != nil {
		if !errors.Is(err, service.ErrNoAudio) {
			h.logger.Warn("failed to load audio session", zap.Int64("chat_id", chatID), zap.Error(err))
		}
		return 0
	}
	return current.MessageID
}

// clearPlayingVerse resets the reader's verse selection after its audio was
// stopped or replaced.
func (h *Handler) clearPlayingVerse(ctx context.Context, chatID, userID int64) error {
	session, ok := h.readerService.Current(chatID)
	if !ok || session.PlayingVerse == 0 {
		return nil
	}

	h.readerService.StopVerse(chatID)
	session.PlayingVerse = 0
	return h.refreshReader(ctx, chatID, userID, session)
}

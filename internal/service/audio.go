package service

import (
	"context"
	"fmt"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
)

// AudioService manages the single playback slot of each chat. Playing a
// surah or a verse replaces whatever occupied the slot.
type AudioService struct {
	store    AudioSessionStore
	surahs   SurahRepository
	reciters ReciterRepository
	locks    userLocks
}

func NewAudioService(store AudioSessionStore, surahs SurahRepository, reciters ReciterRepository) *AudioService {
	return &AudioService{store: store, surahs: surahs, reciters: reciters}
}

// PlaySurah loads the whole-surah recitation of the reciter.
func (s *AudioService) PlaySurah(ctx context.Context, chatID int64, surahNumber int, reciterID string) (*entities.AudioSession, error) {
	surah, err := s.surahs.GetByNumber(surahNumber)
	if err != nil {
		return nil, err
	}
	reciter := s.reciters.Resolve(reciterID)

	subtitle := fmt.Sprintf("%s • %d verses", surah.EnglishNameTranslation, surah.NumberOfAyahs)
	return s.play(ctx, chatID, reciter.SurahAudioURL(surah.Number), surah.EnglishName, subtitle, surah.Number, 0, reciter.ID)
}

// PlayVerse loads a single verse recitation of the reciter.
func (s *AudioService) PlayVerse(ctx context.Context, chatID int64, surahNumber, verseNumber int, reciterID string) (*entities.AudioSession, error) {
	surah, err := s.surahs.GetByNumber(surahNumber)
	if err != nil {
		return nil, err
	}
	if !surah.HasVerse(verseNumber) {
		return nil, fmt.Errorf("%w: %d:%d", ErrVerseNotFound, surahNumber, verseNumber)
	}
	reciter := s.reciters.Resolve(reciterID)

	title := fmt.Sprintf("%s - Verse %d", surah.EnglishName, verseNumber)
	url := reciter.VerseAudioURL(surah.Number, verseNumber)
	return s.play(ctx, chatID, url, title, surah.EnglishNameTranslation, surah.Number, verseNumber, reciter.ID)
}

// Next plays the following surah with the same reciter. It reports false
// and leaves the slot unchanged for a verse recitation or the last surah.
func (s *AudioService) Next(ctx context.Context, chatID int64) (*entities.AudioSession, bool, error) {
	return s.step(ctx, chatID, 1)
}

// Previous is Next in the other direction.
func (s *AudioService) Previous(ctx context.Context, chatID int64) (*entities.AudioSession, bool, error) {
	return s.step(ctx, chatID, -1)
}

func (s *AudioService) Pause(ctx context.Context, chatID int64) (*entities.AudioSession, error) {
	return s.mutate(ctx, chatID, (*entities.AudioSession).Pause)
}

func (s *AudioService) Resume(ctx context.Context, chatID int64) (*entities.AudioSession, error) {
	return s.mutate(ctx, chatID, (*entities.AudioSession).Resume)
}

// TogglePause pauses a playing track and resumes a paused one.
func (s *AudioService) TogglePause(ctx context.Context, chatID int64) (*entities.AudioSession, error) {
	return s.mutate(ctx, chatID, func(a *entities.AudioSession) {
		if a.Playing {
			a.Pause()
			return
		}
		a.Resume()
	})
}

func (s *AudioService) Seek(ctx context.Context, chatID int64, seconds float64) (*entities.AudioSession, error) {
	return s.mutate(ctx, chatID, func(a *entities.AudioSession) { a.Seek(seconds) })
}

func (s *AudioService) SetVolume(ctx context.Context, chatID int64, volume float64) (*entities.AudioSession, error) {
	return s.mutate(ctx, chatID, func(a *entities.AudioSession) { a.ChangeVolume(volume) })
}

// MarkReady records that the media of the given play generation was
// delivered and its duration is known. It returns ErrTrackReplaced when
// another track took the slot in the meantime.
func (s *AudioService) MarkReady(ctx context.Context, chatID int64, generation uint64, duration float64) (*entities.AudioSession, error) {
	return s.mutateTrack(ctx, chatID, generation, func(a *entities.AudioSession) { a.MarkReady(duration) })
}

func (s *AudioService) TimeUpdate(ctx context.Context, chatID int64, position float64) (*entities.AudioSession, error) {
	return s.mutate(ctx, chatID, func(a *entities.AudioSession) { a.TimeUpdate(position) })
}

func (s *AudioService) Ended(ctx context.Context, chatID int64) (*entities.AudioSession, error) {
	return s.mutate(ctx, chatID, (*entities.AudioSession).Ended)
}

// SetMessage remembers the control message of the track started by the
// given play generation. It returns ErrTrackReplaced when that track no
// longer holds the slot.
func (s *AudioService) SetMessage(ctx context.Context, chatID int64, generation uint64, messageID int) error {
	_, err := s.mutateTrack(ctx, chatID, generation, func(a *entities.AudioSession) { a.MessageID = messageID })
	return err
}

// Dismiss empties the slot.
func (s *AudioService) Dismiss(ctx context.Context, chatID int64) error {
	unlock := s.locks.lock(chatID)
	defer unlock()

	return s.store.Delete(ctx, chatID)
}

// Abandon empties the slot only if it still holds the track of the given
// play generation.
func (s *AudioService) Abandon(ctx context.Context, chatID int64, generation uint64) error {
	unlock := s.locks.lock(chatID)
	defer unlock()

	session, ok, err := s.store.Get(ctx, chatID)
	if err != nil {
		return err
	}
	if !ok || session.Generation != generation {
		return nil
	}
	return s.store.Delete(ctx, chatID)
}

// Get returns the chat's current track, ErrNoAudio if the slot is empty.
func (s *AudioService) Get(ctx context.Context, chatID int64) (*entities.AudioSession, error) {
	session, ok, err := s.store.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !ok || !session.Active() {
		return nil, ErrNoAudio
	}
	return session, nil
}

func (s *AudioService) play(
	ctx context.Context,
	chatID int64,
	url, title, subtitle string,
	surahNumber, verseNumber int,
	reciterID string,
) (*entities.AudioSession, error) {
	unlock := s.locks.lock(chatID)
	defer unlock()

	session, ok, err := s.store.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !ok {
		session = entities.NewAudioSession()
	}

	session.Play(url, title, subtitle, surahNumber, verseNumber, reciterID)
	if err := s.store.Put(ctx, chatID, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *AudioService) step(ctx context.Context, chatID int64, delta int) (*entities.AudioSession, bool, error) {
	current, err := s.Get(ctx, chatID)
	if err != nil {
		return nil, false, err
	}
	if current.IsVerse() {
		return current, false, nil
	}

	target := current.SurahNumber + delta
	if target < 1 || target > entities.TotalSurahs {
		return current, false, nil
	}

	next, err := s.PlaySurah(ctx, chatID, target, current.ReciterID)
	if err != nil {
		return nil, false, err
	}
	return next, true, nil
}

func (s *AudioService) mutate(ctx context.Context, chatID int64, fn func(*entities.AudioSession)) (*entities.AudioSession, error) {
	return s.update(ctx, chatID, func(a *entities.AudioSession) error {
		fn(a)
		return nil
	})
}

// update applies fn to the chat's track and stores the result unless fn
// fails.
func (s *AudioService) update(ctx context.Context, chatID int64, fn func(*entities.AudioSession) error) (*entities.AudioSession, error) {
	unlock := s.locks.lock(chatID)
	defer unlock()

	session, ok, err := s.store.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !ok || !session.Active() {
		return nil, ErrNoAudio
	}

	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, chatID, session); err != nil {
		return nil, err
	}
	return session, nil
}

// mutateTrack is mutate restricted to the track of one play generation.
func (s *AudioService) mutateTrack(
	ctx context.Context,
	chatID int64,
	generation uint64,
	fn func(*entities.AudioSession),
) (*entities.AudioSession, error) {
	return s.update(ctx, chatID, func(a *entities.AudioSession) error {
		if a.Generation != generation {
			return ErrTrackReplaced
		}
		fn(a)
		return nil
	})
}

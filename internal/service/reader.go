package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
)

// VersesPerPage is the number of verses shown on one reader page.
const VersesPerPage = 5

type VerseSource interface {
	FetchVersesWithEdition(ctx context.Context, surahNumber int, edition, reciterID string) VerseResult
}

type ProgressRecorder interface {
	Record(ctx context.Context, userID int64, surahNumber, verseNumber int, completed bool) error
}

// OpenOptions selects the text edition, the reciter and the verse to jump to.
type OpenOptions struct {
	Edition   string
	ReciterID string
	Verse     int // 0 opens the first page
}

// ReaderService drives the per-chat reading view. A chat has at most one
// open surah; opening another surah supersedes any fetch in flight.
type ReaderService struct {
	surahs   SurahRepository
	verses   VerseSource
	sessions ReaderStore
	progress ProgressRecorder
	logger   *zap.Logger
}

func NewReaderService(
	surahs SurahRepository,
	verses VerseSource,
	sessions ReaderStore,
	progress ProgressRecorder,
	logger *zap.Logger,
) *ReaderService {
	return &ReaderService{
		surahs:   surahs,
		verses:   verses,
		sessions: sessions,
		progress: progress,
		logger:   logger,
	}
}

// Open loads a surah into the chat's reader. It returns ErrStaleResult if
// another Open for the same chat started while the verses were loading.
func (s *ReaderService) Open(ctx context.Context, chatID, userID int64, surahNumber int, opts OpenOptions) (entities.ReaderSession, error) {
	surah, err := s.surahs.GetByNumber(surahNumber)
	if err != nil {
		return entities.ReaderSession{}, err
	}
	if opts.Verse != 0 && !surah.HasVerse(opts.Verse) {
		return entities.ReaderSession{}, fmt.Errorf("%w: %d:%d", ErrVerseNotFound, surahNumber, opts.Verse)
	}

	generation := s.sessions.Begin(chatID, userID, surahNumber)

	res := s.verses.FetchVersesWithEdition(ctx, surahNumber, opts.Edition, opts.ReciterID)

	session, ok := s.sessions.Complete(chatID, generation, res.Verses, res.Fallback, entities.PageOf(opts.Verse, VersesPerPage))
	if !ok {
		s.logger.Debug("dropping stale verses",
			zap.Int64("chat_id", chatID),
			zap.Int("surah", surahNumber),
			zap.Uint64("generation", generation),
		)
		return entities.ReaderSession{}, ErrStaleResult
	}

	s.record(ctx, session)
	return session, nil
}

// Page moves the reader to page, clamped to the surah.
func (s *ReaderService) Page(ctx context.Context, chatID int64, page int) (entities.ReaderSession, error) {
	var ready bool
	session, ok := s.sessions.Update(chatID, func(rs *entities.ReaderSession) {
		if rs.State != entities.ReaderReady {
			return
		}
		ready = true
		rs.Page = min(max(page, 0), max(rs.TotalPages(VersesPerPage)-1, 0))
	})
	if !ok || !ready {
		return entities.ReaderSession{}, ErrNoSession
	}

	s.record(ctx, session)
	return session, nil
}

// TogglePlayVerse selects verse for playback, or clears the selection if
// the verse is already selected. At most one verse is selected at a time.
func (s *ReaderService) TogglePlayVerse(chatID int64, verse int) (entities.ReaderSession, bool, error) {
	var (
		ready, valid, playing bool
	)
	session, ok := s.sessions.Update(chatID, func(rs *entities.ReaderSession) {
		if rs.State != entities.ReaderReady {
			return
		}
		ready = true
		if verse < 1 || verse > len(rs.Verses) {
			return
		}
		valid = true
		if rs.PlayingVerse == verse {
			rs.PlayingVerse = 0
			return
		}
		rs.PlayingVerse = verse
		playing = true
	})
	if !ok || !ready {
		return entities.ReaderSession{}, false, ErrNoSession
	}
	if !valid {
		return session, false, fmt.Errorf("%w: %d:%d", ErrVerseNotFound, session.SurahNumber, verse)
	}
	return session, playing, nil
}

// StopVerse clears the verse selection, e.g. when its audio ended.
func (s *ReaderService) StopVerse(chatID int64) {
	s.sessions.Update(chatID, func(rs *entities.ReaderSession) {
		rs.PlayingVerse = 0
	})
}

// SetMessage remembers the message that renders the reader.
func (s *ReaderService) SetMessage(chatID int64, messageID int) {
	s.sessions.Update(chatID, func(rs *entities.ReaderSession) {
		rs.MessageID = messageID
	})
}

func (s *ReaderService) Current(chatID int64) (entities.ReaderSession, bool) {
	return s.sessions.Get(chatID)
}

func (s *ReaderService) Close(chatID int64) {
	s.sessions.Delete(chatID)
}

// record stores the last verse visible on the current page.
func (s *ReaderService) record(ctx context.Context, session entities.ReaderSession) {
	if s.progress == nil {
		return
	}
	page := session.PageVerses(VersesPerPage)
	if len(page) == 0 {
		return
	}

	last := page[len(page)-1].NumberInSurah
	completed := session.Page >= session.TotalPages(VersesPerPage)-1

	if err := s.progress.Record(ctx, session.UserID, session.SurahNumber, last, completed); err != nil {
		s.logger.Warn("failed to record reading progress",
			zap.Int64("user_id", session.UserID),
			zap.Int("surah", session.SurahNumber),
			zap.Error(err),
		)
	}
}

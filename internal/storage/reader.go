package storage

import (
	"sync"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
)

// ReaderStorage provides in-memory storage for reader sessions by chat ID.
type ReaderStorage struct {
	mu         sync.Mutex
	sessions   map[int64]*entities.ReaderSession
	generation uint64
}

// NewReaderStorage creates a new ReaderStorage.
func NewReaderStorage() *ReaderStorage {
	return &ReaderStorage{
		sessions: make(map[int64]*entities.ReaderSession),
	}
}

// Begin starts loading a surah in the chat and returns the generation tag
// that the fetch result must present to Complete. Any previous session of
// the chat is superseded.
func (s *ReaderStorage) Begin(chatID, userID int64, surahNumber int) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	prev := s.sessions[chatID]

	session := &entities.ReaderSession{
		ChatID:      chatID,
		UserID:      userID,
		SurahNumber: surahNumber,
		State:       entities.ReaderLoading,
		Generation:  s.generation,
	}
	if prev != nil {
		session.MessageID = prev.MessageID
	}
	s.sessions[chatID] = session

	return s.generation
}

// Complete applies a fetch result if generation is still current. It
// reports whether the result was applied.
func (s *ReaderStorage) Complete(chatID int64, generation uint64, verses []entities.Verse, fallback bool, page int) (entities.ReaderSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chatID]
	if !ok || session.Generation != generation {
		return entities.ReaderSession{}, false
	}

	session.State = entities.ReaderReady
	session.Verses = verses
	session.Fallback = fallback
	session.Page = page
	session.PlayingVerse = 0

	return *session, true
}

// Get returns a copy of the chat's session.
func (s *ReaderStorage) Get(chatID int64) (entities.ReaderSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chatID]
	if !ok {
		return entities.ReaderSession{}, false
	}
	return *session, true
}

// Update mutates the chat's session under the lock and returns a copy of
// the result.
func (s *ReaderStorage) Update(chatID int64, fn func(*entities.ReaderSession)) (entities.ReaderSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chatID]
	if !ok {
		return entities.ReaderSession{}, false
	}
	fn(session)
	return *session, true
}

// Delete removes the chat's session.
func (s *ReaderStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

package storage

import (
	"context"
	"sync"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
)

// AudioStorage provides in-memory storage for audio sessions by chat ID.
type AudioStorage struct {
	mu       sync.RWMutex
	sessions map[int64]entities.AudioSession
}

// NewAudioStorage creates a new AudioStorage.
func NewAudioStorage() *AudioStorage {
	return &AudioStorage{
		sessions: make(map[int64]entities.AudioSession),
	}
}

// Get returns a copy of the chat's session.
func (s *AudioStorage) Get(_ context.Context, chatID int64) (*entities.AudioSession, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[chatID]
	if !ok {
		return nil, false, nil
	}
	return &session, true, nil
}

// Put replaces the chat's session.
func (s *AudioStorage) Put(_ context.Context, chatID int64, session *entities.AudioSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = *session
	return nil
}

// Delete removes the chat's session.
func (s *AudioStorage) Delete(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
	return nil
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
)

const audioKeyPrefix = "audio:session:"

// AudioStore keeps one audio session per chat in Redis. Sessions expire
// after ttl without updates.
type AudioStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewAudioStore(client redis.UniversalClient, ttl time.Duration) *AudioStore {
	return &AudioStore{client: client, ttl: ttl}
}

// Get returns the chat's session; ok is false when there is none.
func (s *AudioStore) Get(ctx context.Context, chatID int64) (*entities.AudioSession, bool, error) {
	raw, err := s.client.Get(ctx, audioKey(chatID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get audio session: %w", err)
	}

	var session entities.AudioSession
	if err := json.Unmarshal(raw, &session); err != nil {
		// unreadable entries are treated as absent
		return nil, false, nil
	}

	return &session, true, nil
}

// Put replaces the chat's session.
func (s *AudioStore) Put(ctx context.Context, chatID int64, session *entities.AudioSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal audio session: %w", err)
	}

	if err := s.client.Set(ctx, audioKey(chatID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("put audio session: %w", err)
	}

	return nil
}

// Delete removes the chat's session.
func (s *AudioStore) Delete(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, audioKey(chatID)).Err(); err != nil {
		return fmt.Errorf("delete audio session: %w", err)
	}
	return nil
}

func audioKey(chatID int64) string {
	return audioKeyPrefix + strconv.FormatInt(chatID, 10)
}

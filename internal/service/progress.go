package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/infra/postgres/repository"
)

// streakWindow bounds the activity days read to compute a streak.
const streakWindow = 366

type BookmarkCounter interface {
	Count(ctx context.Context, userID int64) (int, error)
}

// ProgressService records reading positions and builds reading statistics.
type ProgressService struct {
	repo      ProgressRepository
	bookmarks BookmarkCounter
	logger    *zap.Logger
	now       func() time.Time
}

func NewProgressService(repo ProgressRepository, bookmarks BookmarkCounter, logger *zap.Logger) *ProgressService {
	return &ProgressService{
		repo:      repo,
		bookmarks: bookmarks,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Record stores the furthest verse reached in a surah and marks today as
// a reading day.
func (s *ProgressService) Record(ctx context.Context, userID int64, surahNumber, verseNumber int, completed bool) error {
	now := s.now()

	p := &entities.ReadingProgress{
		UserID:      userID,
		SurahNumber: surahNumber,
		VerseNumber: verseNumber,
		Completed:   completed,
		LastReadAt:  now,
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return err
	}

	return s.repo.RecordActivity(ctx, userID, now)
}

// LastRead returns the most recent reading position, nil if the user has
// not read anything yet.
func (s *ProgressService) LastRead(ctx context.Context, userID int64) (*entities.ReadingProgress, error) {
	p, err := s.repo.GetLast(ctx, userID)
	if errors.Is(err, repository.ErrProgressNotFound) {
		return nil, nil
	}
	return p, err
}

func (s *ProgressService) Stats(ctx context.Context, userID int64) (*entities.ReadingStats, error) {
	agg, err := s.repo.GetStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}

	last, err := s.LastRead(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get last read: %w", err)
	}

	days, err := s.repo.ActivityDays(ctx, userID, streakWindow)
	if err != nil {
		return nil, fmt.Errorf("get activity days: %w", err)
	}

	bookmarks, err := s.bookmarks.Count(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to count bookmarks", zap.Int64("user_id", userID), zap.Error(err))
	}

	return &entities.ReadingStats{
		SurahsOpened:    agg.SurahsOpened,
		SurahsCompleted: agg.SurahsCompleted,
		VersesRead:      agg.VersesRead,
		Bookmarks:       bookmarks,
		Streak:          entities.CalculateStreak(days, s.now()),
		LastRead:        last,
	}, nil
}

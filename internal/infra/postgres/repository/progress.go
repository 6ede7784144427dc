package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/infra/postgres"
)

var ErrProgressNotFound = errors.New("progress not found")

// ProgressRepository stores the reading position per surah and the days
// with reading activity.
type ProgressRepository struct {
	db postgres.DBTX
}

// NewProgressRepository creates a new ProgressRepository with the provided database pool.
func NewProgressRepository(db postgres.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Upsert records the position reached in a surah. The furthest verse and
// the completed flag never move backwards.
func (r *ProgressRepository) Upsert(ctx context.Context, p *entities.ReadingProgress) error {
	query := `
		INSERT INTO reading_progress (user_id, surah_number, verse_number, completed, last_read_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, surah_number) DO UPDATE SET
			verse_number = GREATEST(reading_progress.verse_number, EXCLUDED.verse_number),
			completed = reading_progress.completed OR EXCLUDED.completed,
			last_read_at = EXCLUDED.last_read_at
	`

	_, err := r.db.Exec(ctx, query, p.UserID, p.SurahNumber, p.VerseNumber, p.Completed, p.LastReadAt)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}

	return nil
}

// RecordActivity marks the day as a reading day.
func (r *ProgressRepository) RecordActivity(ctx context.Context, userID int64, day time.Time) error {
	query := `
		INSERT INTO reading_activity (user_id, day)
		VALUES ($1, $2::date)
		ON CONFLICT (user_id, day) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, userID, day.UTC().Format(time.DateOnly)); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}

	return nil
}

// GetLast returns the most recently read position.
func (r *ProgressRepository) GetLast(ctx context.Context, userID int64) (*entities.ReadingProgress, error) {
	query := `
		SELECT user_id, surah_number, verse_number, completed, last_read_at
		FROM reading_progress
		WHERE user_id = $1
		ORDER BY last_read_at DESC
		LIMIT 1
	`

	var p entities.ReadingProgress
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.SurahNumber,
		&p.VerseNumber,
		&p.Completed,
		&p.LastReadAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("get last progress: %w", err)
	}

	return &p, nil
}

// ProgressStats is the aggregate of a user's reading progress.
type ProgressStats struct {
	SurahsOpened    int
	SurahsCompleted int
	VersesRead      int
}

// GetStats aggregates the reading progress of a user.
func (r *ProgressRepository) GetStats(ctx context.Context, userID int64) (*ProgressStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE completed),
			COALESCE(SUM(verse_number), 0)
		FROM reading_progress
		WHERE user_id = $1
	`

	var stats ProgressStats
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.SurahsOpened,
		&stats.SurahsCompleted,
		&stats.VersesRead,
	)
	if err != nil {
		return nil, fmt.Errorf("get progress stats: %w", err)
	}

	return &stats, nil
}

// ActivityDays returns up to limit most recent reading days, newest first.
func (r *ProgressRepository) ActivityDays(ctx context.Context, userID int64, limit int) ([]time.Time, error) {
	query := `
		SELECT day
		FROM reading_activity
		WHERE user_id = $1
		ORDER BY day DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get activity days: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan activity day: %w", err)
		}
		days = append(days, d)
	}

	return days, rows.Err()
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
)

func TestProgressRepository_Upsert(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	readAt := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	mock.ExpectExec(`INSERT INTO reading_progress`).
		WithArgs(int64(7), 2, 255, false, readAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := NewProgressRepository(mock).Upsert(context.Background(), &entities.ReadingProgress{
		UserID:      7,
		SurahNumber: 2,
		VerseNumber: 255,
		LastReadAt:  readAt,
	})
	require.NoError(t, err)
}

func TestProgressRepository_RecordActivity(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectExec(`INSERT INTO reading_activity`).
		WithArgs(int64(7), "2026-10-16").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	day := time.Date(2026, 10, 16, 23, 30, 0, 0, time.UTC)
	require.NoError(t, NewProgressRepository(mock).RecordActivity(context.Background(), 7, day))
}

func TestProgressRepository_GetLast(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	readAt := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM reading_progress\s+WHERE user_id = \$1\s+ORDER BY last_read_at DESC`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "surah_number", "verse_number", "completed", "last_read_at"}).
			AddRow(int64(7), 18, 110, true, readAt))
	mock.ExpectQuery(`FROM reading_progress`).
		WithArgs(int64(8)).
		WillReturnError(pgx.ErrNoRows)

	repo := NewProgressRepository(mock)

	p, err := repo.GetLast(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, &entities.ReadingProgress{
		UserID:      7,
		SurahNumber: 18,
		VerseNumber: 110,
		Completed:   true,
		LastReadAt:  readAt,
	}, p)

	_, err = repo.GetLast(context.Background(), 8)
	assert.ErrorIs(t, err, ErrProgressNotFound)
}

func TestProgressRepository_GetStats(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectQuery(`COUNT\(\*\) FILTER \(WHERE completed\)`).
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"count", "completed", "verses"}).AddRow(3, 1, 300))

	stats, err := NewProgressRepository(mock).GetStats(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, &ProgressStats{SurahsOpened: 3, SurahsCompleted: 1, VersesRead: 300}, stats)
}

func TestProgressRepository_ActivityDays(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	d1 := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT day\s+FROM reading_activity`).
		WithArgs(int64(7), 366).
		WillReturnRows(pgxmock.NewRows([]string{"day"}).AddRow(d1).AddRow(d2))

	days, err := NewProgressRepository(mock).ActivityDays(context.Background(), 7, 366)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{d1, d2}, days)
	assert.Equal(t, 2, entities.CalculateStreak(days, d1))
}

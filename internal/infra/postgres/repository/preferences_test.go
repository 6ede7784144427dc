package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferencesRepository_Get(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectQuery(`SELECT value\s+FROM user_preferences`).
		WithArgs(int64(7), "theme").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte(`"dark"`)))
	mock.ExpectQuery(`SELECT value\s+FROM user_preferences`).
		WithArgs(int64(7), "bookmarks").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT value\s+FROM user_preferences`).
		WithArgs(int64(7), "settings").
		WillReturnError(errors.New("timeout"))

	repo := NewPreferencesRepository(mock)

	value, err := repo.Get(context.Background(), 7, "theme")
	require.NoError(t, err)
	assert.JSONEq(t, `"dark"`, string(value))

	_, err = repo.Get(context.Background(), 7, "bookmarks")
	assert.ErrorIs(t, err, ErrPreferenceNotFound)

	_, err = repo.Get(context.Background(), 7, "settings")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPreferenceNotFound)
}

func TestPreferencesRepository_Put(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectExec(`INSERT INTO user_preferences`).
		WithArgs(int64(7), "theme", `"light"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := NewPreferencesRepository(mock).Put(context.Background(), 7, "theme", []byte(`"light"`))
	require.NoError(t, err)
}

func TestResetRepository_ResetUser(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	for _, table := range []string{"reading_activity", "reading_progress", "user_preferences"} {
		mock.ExpectExec(`DELETE FROM ` + table).
			WithArgs(int64(7)).
			WillReturnResult(pgxmock.NewResult("DELETE", 2))
	}

	require.NoError(t, NewResetRepository(mock).ResetUser(context.Background(), 7))
}

func TestResetRepository_StopsOnError(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM reading_activity`).
		WithArgs(int64(7)).
		WillReturnError(errors.New("deadlock"))

	err := NewResetRepository(mock).ResetUser(context.Background(), 7)
	assert.ErrorContains(t, err, "reading_activity")
}

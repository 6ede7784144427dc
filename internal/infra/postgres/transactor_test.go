package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactor_WithinTx(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fnErr   error
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "commit",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`DELETE FROM reading_progress`).
					WithArgs(int64(7)).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
				mock.ExpectCommit()
			},
		},
		{
			name:  "rollback",
			fnErr: errors.New("boom"),
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectBegin()
				mock.ExpectExec(`DELETE FROM reading_progress`).
					WithArgs(int64(7)).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
				mock.ExpectRollback()
			},
			wantErr: errors.New("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.setup(mock)

			err = NewTransactor(mock).WithinTx(context.Background(), func(ctx context.Context, tx pgx.Tx) error {
				if _, err := tx.Exec(ctx, `DELETE FROM reading_progress WHERE user_id = $1`, int64(7)); err != nil {
					return err
				}
				return tt.fnErr
			})

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTransactor_BeginError(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	called := false
	err = NewTransactor(mock).WithinTx(context.Background(), func(context.Context, pgx.Tx) error {
		called = true
		return nil
	})
	assert.EqualError(t, err, "pool exhausted")
	assert.False(t, called)
}

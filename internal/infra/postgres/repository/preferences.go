package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/manzil-bot/internal/infra/postgres"
)

var ErrPreferenceNotFound = errors.New("preference not found")

// PreferencesRepository stores raw JSON preference values keyed by
// (user, key).
type PreferencesRepository struct {
	db postgres.DBTX
}

func NewPreferencesRepository(db postgres.DBTX) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

// Get returns the stored JSON value.
func (r *PreferencesRepository) Get(ctx context.Context, userID int64, key string) ([]byte, error) {
	query := `
		SELECT value
		FROM user_preferences
		WHERE user_id = $1 AND key = $2
	`

	var value []byte
	err := r.db.QueryRow(ctx, query, userID, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPreferenceNotFound
		}
		return nil, fmt.Errorf("get preference %q: %w", key, err)
	}

	return value, nil
}

// Put stores the JSON value, replacing any previous one.
func (r *PreferencesRepository) Put(ctx context.Context, userID int64, key string, value []byte) error {
	query := `
		INSERT INTO user_preferences (user_id, key, value, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW())
		ON CONFLICT (user_id, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, userID, key, string(value)); err != nil {
		return fmt.Errorf("put preference %q: %w", key, err)
	}

	return nil
}

// DeleteAll removes every preference of the user.
func (r *PreferencesRepository) DeleteAll(ctx context.Context, userID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM user_preferences WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}
	return nil
}

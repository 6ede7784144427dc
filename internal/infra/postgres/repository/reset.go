package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/manzil-bot/internal/infra/postgres"
)

type ResetRepository struct {
	db postgres.DBTX
}

func NewResetRepository(db postgres.DBTX) *ResetRepository {
	return &ResetRepository{db: db}
}

// ResetUser deletes everything stored for the user except the user row.
func (s *ResetRepository) ResetUser(ctx context.Context, userID int64) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM reading_activity WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete reading_activity: %w", err)
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM reading_progress WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete reading_progress: %w", err)
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM user_preferences WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete user_preferences: %w", err)
	}

	return nil
}

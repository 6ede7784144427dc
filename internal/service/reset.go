package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/manzil-bot/internal/infra/postgres/repository"
)

// PreferenceCache drops memoized preferences of a user.
type PreferenceCache interface {
	Forget(userID int64)
}

// ResetService erases a user's reading data, bookmarks and settings.
type ResetService struct {
	tr    Transactor
	cache PreferenceCache
}

func NewResetService(tr Transactor, cache PreferenceCache) *ResetService {
	return &ResetService{tr: tr, cache: cache}
}

func (s *ResetService) ResetUser(ctx context.Context, userID int64) error {
	err := s.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return repository.NewResetRepository(tx).ResetUser(ctx, userID)
	})
	if err != nil {
		return err
	}

	s.cache.Forget(userID)
	return nil
}

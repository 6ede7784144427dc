package service

import (
	"context"
	"errors"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/infra/postgres/repository"
)

type UserService struct {
	repository UserRepository
}

func NewUserService(repository UserRepository) *UserService {
	return &UserService{repository: repository}
}

// EnsureUser registers the user on first contact and reactivates a user
// who was deactivated after blocking the bot and has written again.
func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64) error {
	user, err := s.repository.GetByID(ctx, userID)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		_, err = s.repository.Save(ctx, entities.NewUser(userID, chatID))
		return err
	case err != nil:
		return err
	case !user.IsActive:
		return s.repository.SetActive(ctx, userID, true)
	}
	return nil
}

// Deactivate stops broadcasts to a user who blocked the bot.
func (s *UserService) Deactivate(ctx context.Context, userID int64) error {
	return s.repository.SetActive(ctx, userID, false)
}

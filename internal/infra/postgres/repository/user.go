package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/manzil-bot/internal/domain/entities"
	"github.com/aliskhannn/manzil-bot/internal/infra/postgres"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository provides access to user data in the database.
type UserRepository struct {
	db postgres.DBTX
}

// NewUserRepository creates a new UserRepository with the provided database pool.
func NewUserRepository(db postgres.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Save inserts a new user or updates an existing one. It reports whether
// the user was created.
func (r *UserRepository) Save(ctx context.Context, user *entities.User) (bool, error) {
	query := `
		INSERT INTO users (id, chat_id, is_active, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			is_active = EXCLUDED.is_active
		RETURNING (xmax = 0) AS created
	`

	var created bool
	err := r.db.QueryRow(ctx, query, user.ID, user.ChatID, user.IsActive, user.CreatedAt).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("save user: %w", err)
	}

	return created, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*entities.User, error) {
	query := `
		SELECT id, chat_id, is_active, created_at
		FROM users
		WHERE id = $1
	`

	var user entities.User
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&user.ID,
		&user.ChatID,
		&user.IsActive,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// SetActive marks a user active or inactive, e.g. after the bot was blocked.
func (r *UserRepository) SetActive(ctx context.Context, userID int64, active bool) error {
	result, err := r.db.Exec(ctx, `UPDATE users SET is_active = $1 WHERE id = $2`, active, userID)
	if err != nil {
		return fmt.Errorf("set user active: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListDailyVerseSubscribers returns up to limit active users with an id
// greater than afterID whose stored settings enable the daily verse,
// ordered by id. Paging by id stays stable while users are deactivated.
func (r *UserRepository) ListDailyVerseSubscribers(ctx context.Context, afterID int64, limit int) ([]entities.Subscriber, error) {
	query := `
		SELECT u.id, u.chat_id
		FROM users u
		JOIN user_preferences p ON p.user_id = u.id AND p.key = 'settings'
		WHERE u.is_active
		  AND u.id > $1
		  AND COALESCE((p.value->>'dailyVerse')::boolean, false)
		ORDER BY u.id
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	var subs []entities.Subscriber
	for rows.Next() {
		var s entities.Subscriber
		if err := rows.Scan(&s.UserID, &s.ChatID); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subs = append(subs, s)
	}

	return subs, rows.Err()
}

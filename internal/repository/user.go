// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lbucks-bot/internal/model"
)

// Common errors for repository operations.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrItemNotFound       = errors.New("shop item not found")
	ErrRedemptionNotFound = errors.New("redemption not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrPlanetNotFound     = errors.New("planet not found")
)

// UserRepository handles user account persistence.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create creates a new user with the given Discord ID and a zero balance.
func (r *UserRepository) Create(ctx context.Context, discordID string) (*model.User, error) {
	const query = `
		INSERT INTO users (discord_id, balance, last_daily_claim, created_at, updated_at)
		VALUES ($1, 0, 0, NOW(), NOW())
		RETURNING discord_id, balance, last_daily_claim, created_at, updated_at
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, discordID).Scan(
		&user.DiscordID,
		&user.Balance,
		&user.LastDailyClaim,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// GetByID retrieves a user by their Discord ID.
// Returns ErrUserNotFound if the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, discordID string) (*model.User, error) {
	const query = `
		SELECT discord_id, balance, last_daily_claim, created_at, updated_at
		FROM users
		WHERE discord_id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, discordID).Scan(
		&user.DiscordID,
		&user.Balance,
		&user.LastDailyClaim,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetOrCreate retrieves a user by Discord ID, creating one if it doesn't exist.
// The boolean return reports whether a new account was created.
func (r *UserRepository) GetOrCreate(ctx context.Context, discordID string) (*model.User, bool, error) {
	user, err := r.GetByID(ctx, discordID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	user, err = r.Create(ctx, discordID)
	if err != nil {
		// Handle race condition: another request might have created the user
		user, err = r.GetByID(ctx, discordID)
		if err != nil {
			return nil, false, err
		}
		return user, false, nil
	}

	return user, true, nil
}

// UpdateBalance updates a user's balance by adding the specified amount.
// The amount can be negative to subtract from the balance.
// Returns the updated user.
func (r *UserRepository) UpdateBalance(ctx context.Context, discordID string, amount int64) (*model.User, error) {
	const query = `
		UPDATE users
		SET balance = balance + $2, updated_at = NOW()
		WHERE discord_id = $1
		RETURNING discord_id, balance, last_daily_claim, created_at, updated_at
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, discordID, amount).Scan(
		&user.DiscordID,
		&user.Balance,
		&user.LastDailyClaim,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	return &user, nil
}

// GetTopUsers retrieves the top N users by balance.
func (r *UserRepository) GetTopUsers(ctx context.Context, limit int) ([]*model.User, error) {
	const query = `
		SELECT discord_id, balance, last_daily_claim, created_at, updated_at
		FROM users
		ORDER BY balance DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		err := rows.Scan(
			&user.DiscordID,
			&user.Balance,
			&user.LastDailyClaim,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// UpdateDailyClaim updates the user's last daily claim timestamp.
func (r *UserRepository) UpdateDailyClaim(ctx context.Context, discordID string, claimTime int64) (*model.User, error) {
	const query = `
		UPDATE users
		SET last_daily_claim = $2, updated_at = NOW()
		WHERE discord_id = $1
		RETURNING discord_id, balance, last_daily_claim, created_at, updated_at
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, discordID, claimTime).Scan(
		&user.DiscordID,
		&user.Balance,
		&user.LastDailyClaim,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update daily claim: %w", err)
	}

	return &user, nil
}

// CanClaimDaily checks if a user can claim their daily reward.
// Returns true if the cooldown has passed since the last claim, or if never
// claimed. Also returns the remaining time until next claim if not eligible.
func (r *UserRepository) CanClaimDaily(ctx context.Context, discordID string, cooldown time.Duration) (bool, time.Duration, error) {
	user, err := r.GetByID(ctx, discordID)
	if err != nil {
		return false, 0, err
	}

	// If never claimed (last_daily_claim is 0), can claim
	if user.LastDailyClaim == 0 {
		return true, 0, nil
	}

	lastClaim := time.Unix(user.LastDailyClaim, 0)
	nextClaimTime := lastClaim.Add(cooldown)
	now := time.Now()

	if now.After(nextClaimTime) || now.Equal(nextClaimTime) {
		return true, 0, nil
	}

	remaining := nextClaimTime.Sub(now)
	return false, remaining, nil
}

// Exists checks if a user with the given Discord ID exists.
func (r *UserRepository) Exists(ctx context.Context, discordID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE discord_id = $1)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, discordID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return exists, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lbucks-bot/internal/model"
)

// RedemptionRepository handles redemption queue persistence.
type RedemptionRepository struct {
	pool *pgxpool.Pool
}

// NewRedemptionRepository creates a new RedemptionRepository instance.
func NewRedemptionRepository(pool *pgxpool.Pool) *RedemptionRepository {
	return &RedemptionRepository{pool: pool}
}

// Create inserts a new pending redemption.
func (r *RedemptionRepository) Create(ctx context.Context, id, userID, itemID string) (*model.Redemption, error) {
	const query = `
		INSERT INTO redemptions (id, user_id, item_id, message_id, status, created_at)
		VALUES ($1, $2, $3, '', $4, NOW())
		RETURNING id, user_id, item_id, message_id, status, created_at
	`

	var red model.Redemption
	err := r.pool.QueryRow(ctx, query, id, userID, itemID, model.RedemptionPending).Scan(
		&red.ID,
		&red.UserID,
		&red.ItemID,
		&red.MessageID,
		&red.Status,
		&red.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create redemption: %w", err)
	}

	return &red, nil
}

// GetByID retrieves a redemption by its ID.
// Returns ErrRedemptionNotFound if it does not exist.
func (r *RedemptionRepository) GetByID(ctx context.Context, id string) (*model.Redemption, error) {
	const query = `
		SELECT id, user_id, item_id, message_id, status, created_at
		FROM redemptions
		WHERE id = $1
	`

	var red model.Redemption
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&red.ID,
		&red.UserID,
		&red.ItemID,
		&red.MessageID,
		&red.Status,
		&red.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRedemptionNotFound
		}
		return nil, fmt.Errorf("failed to get redemption: %w", err)
	}

	return &red, nil
}

// SetMessageID links a redemption to the admin-channel message announcing it.
func (r *RedemptionRepository) SetMessageID(ctx context.Context, id, messageID string) error {
	const query = `
		UPDATE redemptions
		SET message_id = $2
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, messageID)
	if err != nil {
		return fmt.Errorf("failed to set redemption message: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrRedemptionNotFound
	}
	return nil
}

// UpdateStatus moves a redemption out of the pending state, returns true if
// successful. Only pending redemptions transition, so a second admin acting
// on the same request observes false.
func (r *RedemptionRepository) UpdateStatus(ctx context.Context, id, status string) (bool, error) {
	const query = `
		UPDATE redemptions
		SET status = $2
		WHERE id = $1 AND status = $3
	`

	result, err := r.pool.Exec(ctx, query, id, status, model.RedemptionPending)
	if err != nil {
		return false, fmt.Errorf("failed to update redemption status: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// GetPending retrieves pending redemptions, oldest first.
func (r *RedemptionRepository) GetPending(ctx context.Context, limit int) ([]*model.Redemption, error) {
	const query = `
		SELECT id, user_id, item_id, message_id, status, created_at
		FROM redemptions
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, model.RedemptionPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending redemptions: %w", err)
	}
	defer rows.Close()

	var redemptions []*model.Redemption
	for rows.Next() {
		var red model.Redemption
		err := rows.Scan(
			&red.ID,
			&red.UserID,
			&red.ItemID,
			&red.MessageID,
			&red.Status,
			&red.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan redemption: %w", err)
		}
		redemptions = append(redemptions, &red)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating redemptions: %w", err)
	}

	return redemptions, nil
}

// GetByUserID retrieves a user's redemptions, newest first.
func (r *RedemptionRepository) GetByUserID(ctx context.Context, userID string, limit int) ([]*model.Redemption, error) {
	const query = `
		SELECT id, user_id, item_id, message_id, status, created_at
		FROM redemptions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get user redemptions: %w", err)
	}
	defer rows.Close()

	var redemptions []*model.Redemption
	for rows.Next() {
		var red model.Redemption
		err := rows.Scan(
			&red.ID,
			&red.UserID,
			&red.ItemID,
			&red.MessageID,
			&red.Status,
			&red.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan redemption: %w", err)
		}
		redemptions = append(redemptions, &red)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating redemptions: %w", err)
	}

	return redemptions, nil
}

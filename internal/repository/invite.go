package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lbucks-bot/internal/model"
)

// InviteRepository tracks how many uses of each invite code have been rewarded.
type InviteRepository struct {
	pool *pgxpool.Pool
}

// NewInviteRepository creates a new InviteRepository instance.
func NewInviteRepository(pool *pgxpool.Pool) *InviteRepository {
	return &InviteRepository{pool: pool}
}

// GetRewardedUses returns the rewarded use count for an invite code.
// An unknown code reports zero.
func (r *InviteRepository) GetRewardedUses(ctx context.Context, code string) (int, error) {
	const query = `
		SELECT rewarded_uses FROM invite_rewards
		WHERE code = $1
	`

	var uses int
	err := r.pool.QueryRow(ctx, query, code).Scan(&uses)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The code was never rewarded
			return 0, nil
		}
		// Anything else must surface: treating a failed read as zero would
		// re-pay every historical use of the code on the next sync.
		return 0, fmt.Errorf("failed to get rewarded uses: %w", err)
	}
	return uses, nil
}

// RecordUses stores the rewarded use count for an invite code, creating the
// row on first sight of the code.
func (r *InviteRepository) RecordUses(ctx context.Context, code, inviterID string, uses int) error {
	const query = `
		INSERT INTO invite_rewards (code, inviter_id, rewarded_uses)
		VALUES ($1, $2, $3)
		ON CONFLICT (code)
		DO UPDATE SET inviter_id = $2, rewarded_uses = $3
	`

	_, err := r.pool.Exec(ctx, query, code, inviterID, uses)
	if err != nil {
		return fmt.Errorf("failed to record invite uses: %w", err)
	}
	return nil
}

// GetByInviter retrieves the rewarded codes belonging to an inviter.
func (r *InviteRepository) GetByInviter(ctx context.Context, inviterID string) ([]*model.InviteReward, error) {
	const query = `
		SELECT code, inviter_id, rewarded_uses
		FROM invite_rewards
		WHERE inviter_id = $1
		ORDER BY code ASC
	`

	rows, err := r.pool.Query(ctx, query, inviterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invite rewards: %w", err)
	}
	defer rows.Close()

	var rewards []*model.InviteReward
	for rows.Next() {
		var rw model.InviteReward
		if err := rows.Scan(&rw.Code, &rw.InviterID, &rw.RewardedUses); err != nil {
			return nil, fmt.Errorf("failed to scan invite reward: %w", err)
		}
		rewards = append(rewards, &rw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invite rewards: %w", err)
	}

	return rewards, nil
}

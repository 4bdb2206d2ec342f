package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"lbucks-bot/internal/model"
)

// MissionRepository handles mission definitions and per-day progress.
type MissionRepository struct {
	pool *pgxpool.Pool
}

// NewMissionRepository creates a new MissionRepository instance.
func NewMissionRepository(pool *pgxpool.Pool) *MissionRepository {
	return &MissionRepository{pool: pool}
}

// GetByType retrieves the mission definitions matching an event type.
func (r *MissionRepository) GetByType(ctx context.Context, missionType string) ([]*model.Mission, error) {
	const query = `
		SELECT id, type, description, target, reward
		FROM missions
		WHERE type = $1
		ORDER BY id ASC
	`

	rows, err := r.pool.Query(ctx, query, missionType)
	if err != nil {
		return nil, fmt.Errorf("failed to get missions by type: %w", err)
	}
	defer rows.Close()

	var missions []*model.Mission
	for rows.Next() {
		var m model.Mission
		if err := rows.Scan(&m.ID, &m.Type, &m.Description, &m.Target, &m.Reward); err != nil {
			return nil, fmt.Errorf("failed to scan mission: %w", err)
		}
		missions = append(missions, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating missions: %w", err)
	}

	return missions, nil
}

// AddProgress adds delta to a user's progress on a mission for today,
// creating the row on first contribution. Returns the updated progress and
// whether the completed flag was already set.
func (r *MissionRepository) AddProgress(ctx context.Context, userID string, missionID int64, delta int) (int, bool, error) {
	const query = `
		INSERT INTO mission_progress (user_id, mission_id, day, progress, completed)
		VALUES ($1, $2, CURRENT_DATE, $3, FALSE)
		ON CONFLICT (user_id, mission_id, day)
		DO UPDATE SET progress = mission_progress.progress + $3
		RETURNING progress, completed
	`

	var progress int
	var completed bool
	err := r.pool.QueryRow(ctx, query, userID, missionID, delta).Scan(&progress, &completed)
	if err != nil {
		return 0, false, fmt.Errorf("failed to add mission progress: %w", err)
	}

	return progress, completed, nil
}

// MarkCompleted flips today's completed flag for a user's mission, returns
// true if successful. The flag only transitions once, so concurrent
// completions reward a single caller.
func (r *MissionRepository) MarkCompleted(ctx context.Context, userID string, missionID int64) (bool, error) {
	const query = `
		UPDATE mission_progress
		SET completed = TRUE
		WHERE user_id = $1 AND mission_id = $2 AND day = CURRENT_DATE AND completed = FALSE
	`

	result, err := r.pool.Exec(ctx, query, userID, missionID)
	if err != nil {
		return false, fmt.Errorf("failed to mark mission completed: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// GetDailyProgress retrieves every mission definition joined with the user's
// progress for today. Missions without a progress row report zero progress.
func (r *MissionRepository) GetDailyProgress(ctx context.Context, userID string) ([]*model.MissionProgress, error) {
	const query = `
		SELECT m.id, m.type, m.description, m.target, m.reward,
		       COALESCE(p.progress, 0), COALESCE(p.completed, FALSE)
		FROM missions m
		LEFT JOIN mission_progress p
		  ON p.mission_id = m.id AND p.user_id = $1 AND p.day = CURRENT_DATE
		ORDER BY m.id ASC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily progress: %w", err)
	}
	defer rows.Close()

	var progress []*model.MissionProgress
	for rows.Next() {
		var mp model.MissionProgress
		err := rows.Scan(
			&mp.ID,
			&mp.Type,
			&mp.Description,
			&mp.Target,
			&mp.Reward,
			&mp.Progress,
			&mp.Completed,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mission progress: %w", err)
		}
		progress = append(progress, &mp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mission progress: %w", err)
	}

	return progress, nil
}

// CleanOldProgress removes progress rows older than the given number of days.
func (r *MissionRepository) CleanOldProgress(ctx context.Context, daysOld int) (int64, error) {
	const query = `
		DELETE FROM mission_progress
		WHERE day < CURRENT_DATE - $1 * INTERVAL '1 day'
	`

	result, err := r.pool.Exec(ctx, query, daysOld)
	if err != nil {
		return 0, fmt.Errorf("failed to clean mission progress: %w", err)
	}
	return result.RowsAffected(), nil
}

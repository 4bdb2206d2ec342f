package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lbucks-bot/internal/model"
)

// AdventureRepository handles player profiles, planets and loot.
type AdventureRepository struct {
	pool *pgxpool.Pool
}

// NewAdventureRepository creates a new AdventureRepository instance.
func NewAdventureRepository(pool *pgxpool.Pool) *AdventureRepository {
	return &AdventureRepository{pool: pool}
}

// CreatePlayer creates a profile with starting levels. Returns false if the
// user already has one.
func (r *AdventureRepository) CreatePlayer(ctx context.Context, userID string) (bool, error) {
	const query = `
		INSERT INTO players (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return false, fmt.Errorf("failed to create player: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// GetPlayer retrieves a player profile by user ID.
func (r *AdventureRepository) GetPlayer(ctx context.Context, userID string) (*model.Player, error) {
	const query = `
		SELECT user_id, ship_level, station_level, power_level, created_at
		FROM players
		WHERE user_id = $1
	`

	var p model.Player
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.ShipLevel,
		&p.StationLevel,
		&p.PowerLevel,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return &p, nil
}

// AddPower raises a player's power level, returns true if the player exists.
func (r *AdventureRepository) AddPower(ctx context.Context, userID string, delta int) (bool, error) {
	const query = `
		UPDATE players
		SET power_level = power_level + $2
		WHERE user_id = $1
	`

	result, err := r.pool.Exec(ctx, query, userID, delta)
	if err != nil {
		return false, fmt.Errorf("failed to add power: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// GetExplorablePlanets retrieves planets the player has not conquered yet,
// capped at limit.
func (r *AdventureRepository) GetExplorablePlanets(ctx context.Context, userID string, limit int) ([]*model.Planet, error) {
	const query = `
		SELECT p.id, p.name, p.difficulty, p.reward
		FROM planets p
		WHERE NOT EXISTS (
			SELECT 1 FROM player_planets pp
			WHERE pp.planet_id = p.id AND pp.user_id = $1
		)
		ORDER BY RANDOM()
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get explorable planets: %w", err)
	}
	defer rows.Close()

	var planets []*model.Planet
	for rows.Next() {
		var p model.Planet
		if err := rows.Scan(&p.ID, &p.Name, &p.Difficulty, &p.Reward); err != nil {
			return nil, fmt.Errorf("failed to scan planet: %w", err)
		}
		planets = append(planets, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating planets: %w", err)
	}

	return planets, nil
}

// GetPlanetByID retrieves a planet by ID.
func (r *AdventureRepository) GetPlanetByID(ctx context.Context, planetID int64) (*model.Planet, error) {
	const query = `
		SELECT id, name, difficulty, reward
		FROM planets
		WHERE id = $1
	`

	var p model.Planet
	err := r.pool.QueryRow(ctx, query, planetID).Scan(&p.ID, &p.Name, &p.Difficulty, &p.Reward)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanetNotFound
		}
		return nil, fmt.Errorf("failed to get planet: %w", err)
	}

	return &p, nil
}

// MarkConquered records that the player conquered a planet, returns true if
// the planet was not already conquered by them.
func (r *AdventureRepository) MarkConquered(ctx context.Context, userID string, planetID int64) (bool, error) {
	const query = `
		INSERT INTO player_planets (user_id, planet_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, planet_id) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query, userID, planetID)
	if err != nil {
		return false, fmt.Errorf("failed to mark planet conquered: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// AddLoot stores a salvaged item in the player's inventory.
func (r *AdventureRepository) AddLoot(ctx context.Context, userID, name string, value int64) error {
	const query = `
		INSERT INTO player_items (user_id, name, value)
		VALUES ($1, $2, $3)
	`

	if _, err := r.pool.Exec(ctx, query, userID, name, value); err != nil {
		return fmt.Errorf("failed to add loot: %w", err)
	}
	return nil
}

// GetLoot retrieves the player's inventory, newest first.
func (r *AdventureRepository) GetLoot(ctx context.Context, userID string, limit int) ([]*model.PlayerItem, error) {
	const query = `
		SELECT id, user_id, name, value, acquired_at
		FROM player_items
		WHERE user_id = $1
		ORDER BY acquired_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get loot: %w", err)
	}
	defer rows.Close()

	var items []*model.PlayerItem
	for rows.Next() {
		var it model.PlayerItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.Name, &it.Value, &it.AcquiredAt); err != nil {
			return nil, fmt.Errorf("failed to scan loot item: %w", err)
		}
		items = append(items, &it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loot: %w", err)
	}

	return items, nil
}

// CountConquered counts how many planets the player has conquered.
func (r *AdventureRepository) CountConquered(ctx context.Context, userID string) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM player_planets
		WHERE user_id = $1
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count conquered planets: %w", err)
	}
	return count, nil
}

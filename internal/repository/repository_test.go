// Package repository provides data access layer implementations.
// Tests use testcontainers-go to spin up a PostgreSQL container.
package repository

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"lbucks-bot/internal/model"
)

// checkDockerAvailable checks if Docker is available and running
func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	err := cmd.Run()
	return err == nil
}

// setupTestDB creates a PostgreSQL container and returns a connection pool
// Skips the test if Docker is not available
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	err = runMigrations(ctx, pool)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// runMigrations applies the database schema
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			discord_id VARCHAR(32) PRIMARY KEY,
			balance BIGINT NOT NULL DEFAULT 0,
			last_daily_claim BIGINT DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			user_id VARCHAR(32) NOT NULL REFERENCES users(discord_id) ON DELETE CASCADE,
			amount BIGINT NOT NULL,
			type VARCHAR(50) NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS shop_items (
			item_id VARCHAR(50) PRIMARY KEY,
			price BIGINT NOT NULL,
			stock INT NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS redemptions (
			id UUID PRIMARY KEY,
			user_id VARCHAR(32) NOT NULL REFERENCES users(discord_id) ON DELETE CASCADE,
			item_id VARCHAR(50) NOT NULL REFERENCES shop_items(item_id),
			message_id VARCHAR(32) NOT NULL DEFAULT '',
			status VARCHAR(30) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS missions (
			id BIGSERIAL PRIMARY KEY,
			type VARCHAR(50) NOT NULL,
			description TEXT NOT NULL,
			target INT NOT NULL,
			reward BIGINT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS mission_progress (
			user_id VARCHAR(32) NOT NULL,
			mission_id BIGINT NOT NULL REFERENCES missions(id) ON DELETE CASCADE,
			day DATE NOT NULL,
			progress INT NOT NULL DEFAULT 0,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			PRIMARY KEY (user_id, mission_id, day)
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS invite_rewards (
			code VARCHAR(32) PRIMARY KEY,
			inviter_id VARCHAR(32) NOT NULL,
			rewarded_uses INT NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS players (
			user_id VARCHAR(32) PRIMARY KEY REFERENCES users(discord_id) ON DELETE CASCADE,
			ship_level INT NOT NULL DEFAULT 1,
			station_level INT NOT NULL DEFAULT 1,
			power_level INT NOT NULL DEFAULT 10,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS planets (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(64) NOT NULL UNIQUE,
			difficulty VARCHAR(20) NOT NULL,
			reward BIGINT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS player_items (
			id BIGSERIAL PRIMARY KEY,
			user_id VARCHAR(32) NOT NULL REFERENCES players(user_id) ON DELETE CASCADE,
			name VARCHAR(64) NOT NULL,
			value BIGINT NOT NULL,
			acquired_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS player_planets (
			user_id VARCHAR(32) NOT NULL REFERENCES players(user_id) ON DELETE CASCADE,
			planet_id BIGINT NOT NULL REFERENCES planets(id) ON DELETE CASCADE,
			conquered_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, planet_id)
		)
	`)
	return err
}

// ============================================================================
// UserRepository Tests
// ============================================================================

func TestUserRepository_Create(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	user, err := repo.Create(ctx, "111222333")
	require.NoError(t, err)
	assert.Equal(t, "111222333", user.DiscordID)
	assert.Equal(t, int64(0), user.Balance) // Accounts start empty
	assert.Equal(t, int64(0), user.LastDailyClaim)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestUserRepository_GetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, "111222333")
	require.NoError(t, err)

	user, err := repo.GetByID(ctx, "111222333")
	require.NoError(t, err)
	assert.Equal(t, "111222333", user.DiscordID)

	_, err = repo.GetByID(ctx, "999999999")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_GetOrCreate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	user, created, err := repo.GetOrCreate(ctx, "111222333")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "111222333", user.DiscordID)

	user, created, err = repo.GetOrCreate(ctx, "111222333")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "111222333", user.DiscordID)
}

func TestUserRepository_UpdateBalance(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, "111222333")
	require.NoError(t, err)

	user, err := repo.UpdateBalance(ctx, "111222333", 500)
	require.NoError(t, err)
	assert.Equal(t, int64(500), user.Balance)

	user, err = repo.UpdateBalance(ctx, "111222333", -300)
	require.NoError(t, err)
	assert.Equal(t, int64(200), user.Balance)

	_, err = repo.UpdateBalance(ctx, "999999999", 100)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_GetTopUsers(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, _ = repo.Create(ctx, "1")
	_, _ = repo.Create(ctx, "2")
	_, _ = repo.Create(ctx, "3")

	_, _ = repo.UpdateBalance(ctx, "1", 3000)
	_, _ = repo.UpdateBalance(ctx, "2", 1000)
	_, _ = repo.UpdateBalance(ctx, "3", 5000)

	users, err := repo.GetTopUsers(ctx, 10)
	require.NoError(t, err)
	require.Len(t, users, 3)

	// Descending by balance
	assert.Equal(t, "3", users[0].DiscordID)
	assert.Equal(t, "1", users[1].DiscordID)
	assert.Equal(t, "2", users[2].DiscordID)
}

func TestUserRepository_DailyClaim(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	_, err := repo.Create(ctx, "111222333")
	require.NoError(t, err)

	// Can claim when never claimed
	canClaim, remaining, err := repo.CanClaimDaily(ctx, "111222333", 15*time.Hour)
	require.NoError(t, err)
	assert.True(t, canClaim)
	assert.Equal(t, time.Duration(0), remaining)

	now := time.Now().Unix()
	_, err = repo.UpdateDailyClaim(ctx, "111222333", now)
	require.NoError(t, err)

	// Cannot claim immediately after
	canClaim, remaining, err = repo.CanClaimDaily(ctx, "111222333", 15*time.Hour)
	require.NoError(t, err)
	assert.False(t, canClaim)
	assert.True(t, remaining > 0)

	// Can claim after the cooldown (simulate by setting old timestamp)
	oldTime := time.Now().Add(-16 * time.Hour).Unix()
	_, err = repo.UpdateDailyClaim(ctx, "111222333", oldTime)
	require.NoError(t, err)

	canClaim, _, err = repo.CanClaimDaily(ctx, "111222333", 15*time.Hour)
	require.NoError(t, err)
	assert.True(t, canClaim)
}

func TestUserRepository_Exists(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewUserRepository(pool)
	ctx := context.Background()

	exists, err := repo.Exists(ctx, "111222333")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.Create(ctx, "111222333")
	require.NoError(t, err)

	exists, err = repo.Exists(ctx, "111222333")
	require.NoError(t, err)
	assert.True(t, exists)
}

// ============================================================================
// TransactionRepository Tests
// ============================================================================

func TestTransactionRepository_Create(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	txRepo := NewTransactionRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, "111222333")
	require.NoError(t, err)

	desc := "test transaction"
	tx, err := txRepo.Create(ctx, "111222333", 12, model.TxTypeWordWin, &desc)
	require.NoError(t, err)
	assert.Equal(t, "111222333", tx.UserID)
	assert.Equal(t, int64(12), tx.Amount)
	assert.Equal(t, model.TxTypeWordWin, tx.Type)
	assert.NotNil(t, tx.Description)
	assert.Equal(t, "test transaction", *tx.Description)
}

func TestTransactionRepository_GetByUserID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	txRepo := NewTransactionRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, "111222333")
	require.NoError(t, err)

	_, _ = txRepo.Create(ctx, "111222333", 5, model.TxTypeDaily, nil)
	_, _ = txRepo.Create(ctx, "111222333", -100, model.TxTypeRedeem, nil)
	_, _ = txRepo.Create(ctx, "111222333", 8, model.TxTypeNumberWin, nil)

	txs, err := txRepo.GetByUserID(ctx, "111222333", 10)
	require.NoError(t, err)
	assert.Len(t, txs, 3)

	// Newest first
	assert.Equal(t, int64(8), txs[0].Amount)
}

func TestTransactionRepository_GetByUserIDAndType(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	txRepo := NewTransactionRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, "111222333")
	require.NoError(t, err)

	_, _ = txRepo.Create(ctx, "111222333", 8, model.TxTypeNumberWin, nil)
	_, _ = txRepo.Create(ctx, "111222333", 5, model.TxTypeDaily, nil)
	_, _ = txRepo.Create(ctx, "111222333", 8, model.TxTypeNumberWin, nil)

	txs, err := txRepo.GetByUserIDAndType(ctx, "111222333", model.TxTypeNumberWin, 10)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
	for _, tx := range txs {
		assert.Equal(t, model.TxTypeNumberWin, tx.Type)
	}
}

// ============================================================================
// ShopRepository Tests
// ============================================================================

func seedShop(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO shop_items (item_id, price, stock) VALUES
			('100_robux', 100, 2),
			('400_robux', 380, 0)
	`)
	require.NoError(t, err)
}

func TestShopRepository_GetAll(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	seedShop(t, pool)

	repo := NewShopRepository(pool)
	items, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Cheapest first
	assert.Equal(t, "100_robux", items[0].ItemID)
	assert.Equal(t, "400_robux", items[1].ItemID)
}

func TestShopRepository_GetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	seedShop(t, pool)

	repo := NewShopRepository(pool)
	ctx := context.Background()

	item, err := repo.GetByID(ctx, "100_robux")
	require.NoError(t, err)
	assert.Equal(t, int64(100), item.Price)
	assert.Equal(t, 2, item.Stock)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestShopRepository_Stock(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	seedShop(t, pool)

	repo := NewShopRepository(pool)
	ctx := context.Background()

	// Two units on the shelf, so two decrements succeed
	ok, err := repo.DecrementStock(ctx, "100_robux")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.DecrementStock(ctx, "100_robux")
	require.NoError(t, err)
	assert.True(t, ok)

	// Third fails without going negative
	ok, err = repo.DecrementStock(ctx, "100_robux")
	require.NoError(t, err)
	assert.False(t, ok)

	item, err := repo.GetByID(ctx, "100_robux")
	require.NoError(t, err)
	assert.Equal(t, 0, item.Stock)

	// Restock one unit
	require.NoError(t, repo.IncrementStock(ctx, "100_robux"))
	item, err = repo.GetByID(ctx, "100_robux")
	require.NoError(t, err)
	assert.Equal(t, 1, item.Stock)

	assert.ErrorIs(t, repo.IncrementStock(ctx, "nope"), ErrItemNotFound)
}

// ============================================================================
// RedemptionRepository Tests
// ============================================================================

func TestRedemptionRepository_Lifecycle(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	seedShop(t, pool)

	userRepo := NewUserRepository(pool)
	repo := NewRedemptionRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, "111222333")
	require.NoError(t, err)

	id := uuid.NewString()
	red, err := repo.Create(ctx, id, "111222333", "100_robux")
	require.NoError(t, err)
	assert.Equal(t, model.RedemptionPending, red.Status)
	assert.Empty(t, red.MessageID)

	require.NoError(t, repo.SetMessageID(ctx, id, "msg42"))
	red, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "msg42", red.MessageID)

	pending, err := repo.GetPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].ID)

	// First resolution wins
	ok, err := repo.UpdateStatus(ctx, id, model.RedemptionCompleted)
	require.NoError(t, err)
	assert.True(t, ok)

	// Second admin acting on the same request observes false
	ok, err = repo.UpdateStatus(ctx, id, model.RedemptionCancelled)
	require.NoError(t, err)
	assert.False(t, ok)

	red, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.RedemptionCompleted, red.Status)

	pending, err = repo.GetPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrRedemptionNotFound)
}

// ============================================================================
// MissionRepository Tests
// ============================================================================

func seedMissions(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO missions (type, description, target, reward) VALUES
			('message_count', 'Envía 3 mensajes', 3, 5),
			('reaction_add', 'Reacciona a 2 mensajes', 2, 3)
	`)
	require.NoError(t, err)
}

func TestMissionRepository_Progress(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	seedMissions(t, pool)

	repo := NewMissionRepository(pool)
	ctx := context.Background()

	missions, err := repo.GetByType(ctx, "message_count")
	require.NoError(t, err)
	require.Len(t, missions, 1)
	missionID := missions[0].ID

	progress, completed, err := repo.AddProgress(ctx, "111222333", missionID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, progress)
	assert.False(t, completed)

	progress, completed, err = repo.AddProgress(ctx, "111222333", missionID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, progress)
	assert.False(t, completed)

	// The completed flag only flips once
	ok, err := repo.MarkCompleted(ctx, "111222333", missionID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkCompleted(ctx, "111222333", missionID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, completed, err = repo.AddProgress(ctx, "111222333", missionID, 1)
	require.NoError(t, err)
	assert.True(t, completed)
}

func TestMissionRepository_GetDailyProgress(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	seedMissions(t, pool)

	repo := NewMissionRepository(pool)
	ctx := context.Background()

	missions, err := repo.GetByType(ctx, "message_count")
	require.NoError(t, err)
	require.Len(t, missions, 1)

	_, _, err = repo.AddProgress(ctx, "111222333", missions[0].ID, 2)
	require.NoError(t, err)

	all, err := repo.GetDailyProgress(ctx, "111222333")
	require.NoError(t, err)
	require.Len(t, all, 2)

	byType := map[string]int{}
	for _, mp := range all {
		byType[mp.Type] = mp.Progress
	}
	assert.Equal(t, 2, byType["message_count"])
	// Untouched missions still appear, with zero progress
	assert.Equal(t, 0, byType["reaction_add"])
}

// ============================================================================
// InviteRepository Tests
// ============================================================================

func TestInviteRepository_RecordAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewInviteRepository(pool)
	ctx := context.Background()

	// Unknown codes report zero
	uses, err := repo.GetRewardedUses(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, 0, uses)

	require.NoError(t, repo.RecordUses(ctx, "abc123", "111222333", 3))
	uses, err = repo.GetRewardedUses(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, 3, uses)

	// Recording again overwrites the count
	require.NoError(t, repo.RecordUses(ctx, "abc123", "111222333", 5))
	uses, err = repo.GetRewardedUses(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, 5, uses)

	require.NoError(t, repo.RecordUses(ctx, "def456", "111222333", 1))
	rewards, err := repo.GetByInviter(ctx, "111222333")
	require.NoError(t, err)
	require.Len(t, rewards, 2)
	assert.Equal(t, "abc123", rewards[0].Code)
	assert.Equal(t, 5, rewards[0].RewardedUses)
}

func TestInviteRepository_GetRewardedUsesQueryFailure(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewInviteRepository(pool)
	ctx := context.Background()

	require.NoError(t, repo.RecordUses(ctx, "ghi789", "444555666", 7))

	// A failed read must surface as an error, never as a zero count: zero
	// would make the next sync re-pay every historical use of the code.
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err := repo.GetRewardedUses(cancelled, "ghi789")
	require.Error(t, err)

	// The stored count is intact once the connection recovers
	uses, err := repo.GetRewardedUses(ctx, "ghi789")
	require.NoError(t, err)
	assert.Equal(t, 7, uses)
}

// ============================================================================
// AdventureRepository Tests
// ============================================================================

func seedPlanets(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO planets (name, difficulty, reward) VALUES
			('Xylar', 'Fácil', 10),
			('Veridian-IV', 'Intermedio', 25),
			('Cygnus X-1', 'Difícil', 50)
	`)
	require.NoError(t, err)
}

func TestAdventureRepository_CreateAndGetPlayer(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	repo := NewAdventureRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, "111222333")
	require.NoError(t, err)

	created, err := repo.CreatePlayer(ctx, "111222333")
	require.NoError(t, err)
	assert.True(t, created)

	// A second start does not reset the profile
	created, err = repo.CreatePlayer(ctx, "111222333")
	require.NoError(t, err)
	assert.False(t, created)

	player, err := repo.GetPlayer(ctx, "111222333")
	require.NoError(t, err)
	assert.Equal(t, 1, player.ShipLevel)
	assert.Equal(t, 1, player.StationLevel)
	assert.Equal(t, 10, player.PowerLevel)

	_, err = repo.GetPlayer(ctx, "999999999")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestAdventureRepository_AddPower(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	repo := NewAdventureRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, "111222333")
	require.NoError(t, err)
	_, err = repo.CreatePlayer(ctx, "111222333")
	require.NoError(t, err)

	ok, err := repo.AddPower(ctx, "111222333", 15)
	require.NoError(t, err)
	assert.True(t, ok)

	player, err := repo.GetPlayer(ctx, "111222333")
	require.NoError(t, err)
	assert.Equal(t, 25, player.PowerLevel)

	ok, err = repo.AddPower(ctx, "999999999", 15)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdventureRepository_Exploration(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()
	seedPlanets(t, pool)

	userRepo := NewUserRepository(pool)
	repo := NewAdventureRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, "111222333")
	require.NoError(t, err)
	_, err = repo.CreatePlayer(ctx, "111222333")
	require.NoError(t, err)

	planets, err := repo.GetExplorablePlanets(ctx, "111222333", 10)
	require.NoError(t, err)
	require.Len(t, planets, 3)

	target := planets[0]
	got, err := repo.GetPlanetByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, target.Name, got.Name)

	// Conquering removes the planet from the scan and only succeeds once
	ok, err := repo.MarkConquered(ctx, "111222333", target.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkConquered(ctx, "111222333", target.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	planets, err = repo.GetExplorablePlanets(ctx, "111222333", 10)
	require.NoError(t, err)
	assert.Len(t, planets, 2)

	count, err := repo.CountConquered(ctx, "111222333")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = repo.GetPlanetByID(ctx, 99999)
	assert.ErrorIs(t, err, ErrPlanetNotFound)
}

func TestAdventureRepository_Loot(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	userRepo := NewUserRepository(pool)
	repo := NewAdventureRepository(pool)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, "111222333")
	require.NoError(t, err)
	_, err = repo.CreatePlayer(ctx, "111222333")
	require.NoError(t, err)

	require.NoError(t, repo.AddLoot(ctx, "111222333", "Fragmento de Titanio", 5))
	require.NoError(t, repo.AddLoot(ctx, "111222333", "Aleación de Neutronio", 60))

	items, err := repo.GetLoot(ctx, "111222333", 10)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Newest first
	assert.Equal(t, "Aleación de Neutronio", items[0].Name)
	assert.Equal(t, int64(60), items[0].Value)
}

// Package main is the entry point for the LBucks Discord bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"lbucks-bot/internal/bot"
	"lbucks-bot/internal/config"
	"lbucks-bot/internal/game/guess"
	"lbucks-bot/internal/health"
	"lbucks-bot/internal/pkg/db"
	"lbucks-bot/internal/pkg/lock"
	"lbucks-bot/internal/repository"
	"lbucks-bot/internal/service"
	"lbucks-bot/internal/wordsource"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbPool.Pool)
	txRepo := repository.NewTransactionRepository(dbPool.Pool)
	shopRepo := repository.NewShopRepository(dbPool.Pool)
	redemptionRepo := repository.NewRedemptionRepository(dbPool.Pool)
	missionRepo := repository.NewMissionRepository(dbPool.Pool)
	inviteRepo := repository.NewInviteRepository(dbPool.Pool)
	adventureRepo := repository.NewAdventureRepository(dbPool.Pool)

	// Initialize user lock
	userLock := lock.NewUserLock()

	// Initialize services
	ledgerService := service.NewLedgerService(
		userRepo,
		txRepo,
		cfg.Daily.Reward,
		time.Duration(cfg.Daily.CooldownHours)*time.Hour,
	)
	donationService := service.NewDonationService(userRepo, txRepo, userLock)
	redemptionService := service.NewRedemptionService(ledgerService, shopRepo, redemptionRepo, userLock)
	missionService := service.NewMissionService(missionRepo, ledgerService)
	inviteService := service.NewInviteService(inviteRepo, ledgerService, cfg.Invites.Reward)
	adventureService := service.NewAdventureService(adventureRepo, ledgerService)

	// Initialize the word source, preferring the remote endpoint when set
	var words guess.WordSource = wordsource.NewLocalSource(nil)
	if cfg.Games.Word.SourceURL != "" {
		words = wordsource.NewHTTPSource(cfg.Games.Word.SourceURL, wordsource.NewLocalSource(nil))
	}

	// Initialize the minigame session manager
	manager := guess.NewManager(guess.Config{
		NumberMin:      cfg.Games.Number.Min,
		NumberMax:      cfg.Games.Number.Max,
		NumberReward:   cfg.Games.Number.Reward,
		NumberAttempts: cfg.Games.Number.Attempts,
		NumberTimeout:  cfg.Games.Number.Timeout,
		WordReward:     cfg.Games.Word.Reward,
		WordAttempts:   cfg.Games.Word.Attempts,
		WordTimeout:    cfg.Games.Word.Timeout,
	}, ledgerService, words)

	// Create bot dependencies
	deps := &bot.Dependencies{
		Config:            cfg,
		Manager:           manager,
		LedgerService:     ledgerService,
		DonationService:   donationService,
		RedemptionService: redemptionService,
		MissionService:    missionService,
		InviteService:     inviteService,
		AdventureService:  adventureService,
	}

	// Initialize bot
	discordBot, err := bot.New(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	// Start the liveness HTTP server
	healthServer := health.NewServer(cfg.Health.Port, dbPool)
	go healthServer.Start()

	if err := discordBot.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start bot")
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Graceful shutdown
	discordBot.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	healthServer.Shutdown(shutdownCtx)

	log.Info().Msg("Bot stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create users table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			discord_id VARCHAR(32) PRIMARY KEY,
			balance BIGINT NOT NULL DEFAULT 0,
			last_daily_claim BIGINT DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_users_balance ON users(balance DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: users table created")

	// Migration 2: Create transactions table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			user_id VARCHAR(32) NOT NULL REFERENCES users(discord_id) ON DELETE CASCADE,
			amount BIGINT NOT NULL,
			type VARCHAR(50) NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_transactions_user_time ON transactions(user_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_transactions_type_time ON transactions(type, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: transactions table created")

	// Migration 3: Create shop tables and seed the catalog
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS shop_items (
			item_id VARCHAR(50) PRIMARY KEY,
			price BIGINT NOT NULL,
			stock INT NOT NULL DEFAULT 0
		);
		INSERT INTO shop_items (item_id, price, stock) VALUES
			('100_robux', 100, 10),
			('400_robux', 380, 5),
			('800_robux', 750, 3)
		ON CONFLICT (item_id) DO NOTHING;
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: shop_items table created")

	// Migration 4: Create redemptions table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS redemptions (
			id UUID PRIMARY KEY,
			user_id VARCHAR(32) NOT NULL REFERENCES users(discord_id) ON DELETE CASCADE,
			item_id VARCHAR(50) NOT NULL REFERENCES shop_items(item_id),
			message_id VARCHAR(32) NOT NULL DEFAULT '',
			status VARCHAR(30) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_redemptions_status_time ON redemptions(status, created_at ASC);
		CREATE INDEX IF NOT EXISTS idx_redemptions_user_time ON redemptions(user_id, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 4: redemptions table created")

	// Migration 5: Create mission tables and seed the daily missions
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
		);
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO missions (type, description, target, reward)
		SELECT v.type, v.description, v.target, v.reward
		FROM (VALUES
			('message_count', 'Envía 20 mensajes', 20, 5),
			('reaction_add', 'Reacciona a 10 mensajes', 10, 3),
			('voice_minutes', 'Pasa 30 minutos en voz', 30, 6),
			('slash_command_use', 'Usa 5 comandos del bot', 5, 2)
		) AS v(type, description, target, reward)
		WHERE NOT EXISTS (SELECT 1 FROM missions);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 5: mission tables created")

	// Migration 6: Create invite rewards table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS invite_rewards (
			code VARCHAR(32) PRIMARY KEY,
			inviter_id VARCHAR(32) NOT NULL,
			rewarded_uses INT NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_invite_rewards_inviter ON invite_rewards(inviter_id);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 6: invite_rewards table created")

	// Migration 7: Create adventure tables and seed the planets
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
		CREATE INDEX IF NOT EXISTS idx_player_items_user ON player_items(user_id);
		CREATE TABLE IF NOT EXISTS player_planets (
			user_id VARCHAR(32) NOT NULL REFERENCES players(user_id) ON DELETE CASCADE,
			planet_id BIGINT NOT NULL REFERENCES planets(id) ON DELETE CASCADE,
			conquered_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, planet_id)
		);
	`)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
		INSERT INTO planets (name, difficulty, reward)
		SELECT v.name, v.difficulty, v.reward
		FROM (VALUES
			('Xylar', 'Fácil', 10),
			('Nebulon-9', 'Fácil', 10),
			('Ryzen-7', 'Fácil', 10),
			('Kepler-186f', 'Fácil', 10),
			('Trappist-1e', 'Fácil', 10),
			('Proxima Centauri-b', 'Fácil', 10),
			('Tatooine-Secundus', 'Fácil', 10),
			('Veridian-IV', 'Intermedio', 25),
			('Krypton Prime', 'Intermedio', 25),
			('Gliese-581g', 'Intermedio', 25),
			('Helios Prime', 'Intermedio', 25),
			('Sirius-B', 'Intermedio', 25),
			('Andromeda-IX', 'Intermedio', 25),
			('Vulcan', 'Intermedio', 25),
			('Ryloth', 'Intermedio', 25),
			('Cygnus X-1', 'Difícil', 50),
			('Aethelgard', 'Difícil', 50),
			('Zandor', 'Difícil', 50),
			('Hydra-Core', 'Difícil', 50),
			('Volantis', 'Difícil', 50),
			('Qo''noS', 'Difícil', 50),
			('Cardassia-Prime', 'Difícil', 50)
		) AS v(name, difficulty, reward)
		WHERE NOT EXISTS (SELECT 1 FROM planets);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 7: adventure tables created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}

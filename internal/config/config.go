// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	Database DatabaseConfig `mapstructure:"database"`
	Daily    DailyConfig    `mapstructure:"daily"`
	Games    GamesConfig    `mapstructure:"games"`
	Invites  InvitesConfig  `mapstructure:"invites"`
	Health   HealthConfig   `mapstructure:"health"`
}

// BotConfig holds Discord bot configuration.
type BotConfig struct {
	Token                string `mapstructure:"token"`
	GuildID              string `mapstructure:"guild_id"`
	AdminRoleName        string `mapstructure:"admin_role_name"`
	RedemptionLogChannel string `mapstructure:"redemption_log_channel"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// DailyConfig holds daily login reward configuration.
type DailyConfig struct {
	Reward        int64 `mapstructure:"reward"`
	CooldownHours int   `mapstructure:"cooldown_hours"`
}

// GamesConfig holds minigame configuration.
type GamesConfig struct {
	Number NumberGameConfig `mapstructure:"number"`
	Word   WordGameConfig   `mapstructure:"word"`
	Sweep  SweepConfig      `mapstructure:"sweep"`
}

// NumberGameConfig holds number-guessing game configuration.
type NumberGameConfig struct {
	Min      int           `mapstructure:"min"`
	Max      int           `mapstructure:"max"`
	Reward   int64         `mapstructure:"reward"`
	Attempts int           `mapstructure:"attempts"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// WordGameConfig holds word-guessing game configuration.
type WordGameConfig struct {
	Reward    int64         `mapstructure:"reward"`
	Attempts  int           `mapstructure:"attempts"`
	Timeout   time.Duration `mapstructure:"timeout"`
	SourceURL string        `mapstructure:"source_url"`
}

// SweepConfig holds the expired-session sweep configuration.
type SweepConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// InvitesConfig holds invite referral reward configuration.
type InvitesConfig struct {
	Reward int64 `mapstructure:"reward"`
}

// HealthConfig holds the liveness HTTP server configuration.
type HealthConfig struct {
	Port int `mapstructure:"port"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Enable environment variable override
	// Environment variables use underscore separator and uppercase
	// e.g., BOT_TOKEN, DATABASE_HOST, GAMES_WORD_TIMEOUT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional - env vars can provide all config)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we can use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Bot defaults
	v.SetDefault("bot.admin_role_name", "LBucks Admin")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "lbucks")
	v.SetDefault("database.name", "lbucks")
	v.SetDefault("database.pool_size", 20)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	// Daily login reward defaults
	v.SetDefault("daily.reward", 5)
	v.SetDefault("daily.cooldown_hours", 15)

	// Game defaults
	v.SetDefault("games.number.min", 1)
	v.SetDefault("games.number.max", 100)
	v.SetDefault("games.number.reward", 8)
	v.SetDefault("games.number.attempts", 25)
	v.SetDefault("games.number.timeout", "2m")
	v.SetDefault("games.word.reward", 12)
	v.SetDefault("games.word.attempts", 6)
	v.SetDefault("games.word.timeout", "7m")
	v.SetDefault("games.sweep.interval", "60s")

	// Invite referral defaults
	v.SetDefault("invites.reward", 10)

	// Health server defaults
	v.SetDefault("health.port", 8080)
}

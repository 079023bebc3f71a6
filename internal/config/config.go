package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the bot.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Discord  DiscordConfig
	Ticket   TicketConfig
}

// AppConfig controls the ops HTTP server.
type AppConfig struct {
	Name    string
	Env     string
	Host    string
	Port    string
	Version string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// DiscordConfig holds gateway and guild parameters.
type DiscordConfig struct {
	Token         string
	GuildID       string
	StaffRoleID   string
	MenuChannelID string // optional: auto-post the ticket menu here on startup
}

// TicketConfig tunes ticket provisioning and lifecycle behavior.
type TicketConfig struct {
	StaffAddLimit        int
	StaffAddInterval     time.Duration
	TranscriptChannelID  string // seed default; the config table value wins once set
	DeleteConfirmTTL     time.Duration
	ThreadAutoArchiveMin int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "ticket-bot"),
			Env:     getEnv("APP_ENV", "development"),
			Host:    getEnv("APP_HOST", "0.0.0.0"),
			Port:    getEnv("APP_PORT", "8080"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Discord: DiscordConfig{
			Token:         os.Getenv("DISCORD_TOKEN"),
			GuildID:       os.Getenv("GUILD_ID"),
			StaffRoleID:   os.Getenv("STAFF_ROLE_ID"),
			MenuChannelID: os.Getenv("POST_CHANNEL_ID"),
		},
		Ticket: TicketConfig{
			StaffAddLimit:        getEnvAsInt("STAFF_ADD_LIMIT", 20),
			StaffAddInterval:     time.Duration(getEnvAsInt("STAFF_ADD_INTERVAL_MS", 250)) * time.Millisecond,
			TranscriptChannelID:  os.Getenv("TRANSCRIPT_CHANNEL_ID"),
			DeleteConfirmTTL:     time.Duration(getEnvAsInt("DELETE_CONFIRM_TTL_SECONDS", 60)) * time.Second,
			ThreadAutoArchiveMin: getEnvAsInt("THREAD_AUTO_ARCHIVE_MINUTES", 1440),
		},
	}

	if cfg.Discord.Token == "" {
		return nil, errors.New("DISCORD_TOKEN is required")
	}
	if cfg.Discord.GuildID == "" {
		return nil, errors.New("GUILD_ID is required")
	}

	return cfg, nil
}

// Addr returns the ops HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

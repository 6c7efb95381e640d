package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"apostas/database"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Discord configuration
	DiscordToken string
	GuildID      string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// AdminLogChannelID receives operational notices (sweeps, manual
	// reviews). Optional.
	AdminLogChannelID string

	// SweepInterval is how often the timeout sweeps run.
	SweepInterval time.Duration

	// Environment is "development", "production" or "test".
	Environment string
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // protects instance for test setup
)

// Get returns the global configuration instance.
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// SetTestConfig replaces the global instance. Tests only.
func SetTestConfig(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = cfg
}

// NewTestConfig returns a config suitable for unit tests.
func NewTestConfig() *Config {
	return &Config{
		DiscordToken:  "test-token",
		GuildID:       "1",
		DatabaseURL:   "postgres://localhost:5432",
		DatabaseName:  "apostas_test",
		SweepInterval: time.Minute,
		Environment:   "test",
	}
}

// GetDatabaseURL combines the base URL and database name.
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

func load() (*Config, error) {
	// Populate the environment from .env when present. Real environment
	// variables win over file values.
	_ = godotenv.Load()

	config := &Config{
		DiscordToken:      os.Getenv("DISCORD_TOKEN"),
		GuildID:           os.Getenv("GUILD_ID"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DatabaseName:      os.Getenv("DATABASE_NAME"),
		AdminLogChannelID: os.Getenv("ADMIN_LOG_CHANNEL_ID"),
		SweepInterval:     5 * time.Minute,
		Environment:       os.Getenv("ENVIRONMENT"),
	}

	if interval := os.Getenv("SWEEP_INTERVAL_MINUTES"); interval != "" {
		if minutes, err := strconv.Atoi(interval); err == nil && minutes > 0 {
			config.SweepInterval = time.Duration(minutes) * time.Minute
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string `envconfig:"PORT" default:"3001"`
	MetricsPort string `envconfig:"METRICS_PORT" default:"9091"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:8081,http://localhost:8082"`

	// Database
	DatabaseURL string `envconfig:"DATABASE_URL"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"25"`

	// Auth
	JWTSecret     string        `envconfig:"JWT_SECRET"`
	JWTExpiry     time.Duration `envconfig:"JWT_EXPIRES_IN" default:"168h"`
	GuestExpiry   time.Duration `envconfig:"GUEST_JWT_EXPIRES_IN" default:"720h"`
	BcryptCost    int           `envconfig:"BCRYPT_COST" default:"12"`

	// Projections board
	ProjectionsURL      string        `envconfig:"PROJECTIONS_URL" default:"https://api.prizepicks.com/projections?league_id=9&in_game=true&single_stat=true&game_mode=pickem"`
	ProjectionsCacheTTL time.Duration `envconfig:"PROJECTIONS_CACHE_TTL" default:"5m"`

	// Environment
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if cfg.Environment != "test" {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required")
		}
	}

	return &cfg, nil
}

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration. Values come from the environment,
// optionally preloaded from a .env file.
type Config struct {
	Port    string `env:"PORT" envDefault:"3000"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USERNAME" envDefault:"taskuser"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"taskpassword"`
	DBName     string `env:"DATABASE_NAME" envDefault:"task_management"`

	JWTSecret            string `env:"JWT_SECRET" envDefault:"default-jwt-secret"`
	JWTExpirationSeconds int    `env:"JWT_EXPIRATION_SECONDS" envDefault:"3600"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// SeedOnStart populates default permissions, the demo organization tree
	// and demo users at boot.
	SeedOnStart bool `env:"SEED_ON_START" envDefault:"false"`
	// FixOrdersOnStart runs the one-off order repair pass at boot.
	FixOrdersOnStart bool `env:"FIX_ORDERS_ON_START" envDefault:"false"`
}

// Load reads configuration from the environment. A missing .env file is not
// an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

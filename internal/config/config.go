package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envDev = "dev"

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env                 string  `envconfig:"APP_ENV" default:"dev"`
	Port                string  `envconfig:"PORT" default:"8080"`
	DBPath              string  `envconfig:"DB_PATH" default:"./dev.db"`
	MigrationsDir       string  `envconfig:"MIGRATIONS_DIR" default:"migrations"`
	TemplatesDir        string  `envconfig:"TEMPLATES_DIR" default:"web/templates"`
	StaticDir           string  `envconfig:"STATIC_DIR" default:"web/static"`
	AdminEmail          string  `envconfig:"ADMIN_EMAIL"`
	AdminPassword       string  `envconfig:"ADMIN_PASSWORD"`
	SessionSecret       string  `envconfig:"SESSION_SECRET"`
	DefaultMarketplace  string  `envconfig:"DEFAULT_MARKETPLACE" default:"US"`
	DefaultReferralRate float64 `envconfig:"DEFAULT_REFERRAL_RATE" default:"0.15"`
}

// Load reads the local .env file, if any, and then the environment.
// Variables already set in the environment win over the file.
func Load() (Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit dotenv path.
func LoadFrom(dotenvPath string) (Config, error) {
	if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load dotenv %s: %w", dotenvPath, err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env config: %w", err)
	}
	if cfg.DefaultReferralRate < 0 || cfg.DefaultReferralRate >= 1 {
		return Config{}, fmt.Errorf("DEFAULT_REFERRAL_RATE must be in [0, 1), got %v", cfg.DefaultReferralRate)
	}
	if !cfg.IsDev() && cfg.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET is required when APP_ENV=%s", cfg.Env)
	}

	return cfg, nil
}

// IsDev reports whether the app runs in local development mode.
func (c Config) IsDev() bool {
	return c.Env == envDev
}

// Warnings lists settings that are missing but not fatal.
func (c Config) Warnings() []string {
	var warnings []string
	if c.AdminEmail == "" {
		warnings = append(warnings, "ADMIN_EMAIL is not set")
	}
	if c.AdminPassword == "" {
		warnings = append(warnings, "ADMIN_PASSWORD is not set")
	}
	if c.SessionSecret == "" {
		warnings = append(warnings, "SESSION_SECRET is not set; admin sessions use a random key and end on restart")
	}
	return warnings
}

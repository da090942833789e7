package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Values come from the environment, with
// an optional .env file loaded first (explicit env vars win).
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"file:rezeptblog.db"`
	Env         string `env:"APP_ENV" envDefault:"development"`

	SessionSecret string `env:"SESSION_SECRET" envDefault:"devsessionsecret"`
	ResetSecret   string `env:"RESET_SECRET" envDefault:"devresetsecret"`
	ResetTTLSecs  int    `env:"RESET_TTL_SECONDS" envDefault:"600"`

	// RecipesPerPage is the fixed page size for all paginated recipe listings.
	RecipesPerPage int `env:"RECIPES_PER_PAGE" envDefault:"10"`

	BaseURL  string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort string `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`
	MailFrom string `env:"MAIL_FROM" envDefault:"noreply@rezeptblog.local"`
}

// Load reads .env (if present) and parses the environment into a Config.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	if cfg.RecipesPerPage < 1 {
		cfg.RecipesPerPage = 10
	}
	return cfg, nil
}

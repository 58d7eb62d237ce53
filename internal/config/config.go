package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Env     string `env:"ENV" envDefault:"development"`
	Debug   bool   `env:"DEBUG" envDefault:"false"`
	Port    string `env:"PORT" envDefault:"8080"`
	DBPath  string `env:"DB_PATH" envDefault:"fishmarket.db"`
	DataDir string `env:"DATA_DIR" envDefault:"data"`
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return cfg, nil
}

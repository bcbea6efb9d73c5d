// Package config loads process configuration from the environment and an optional .env file.
package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/vrischmann/envconfig"
)

// Config holds the environment-driven settings. Command-line flags override these.
type Config struct {
	Port          int    `envconfig:"PORT,default=8080"`
	DatabaseURL   string `envconfig:"DATABASE_URL,default=catlottery.db"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD,optional"`
	BaseURL       string `envconfig:"BASE_URL,optional"`

	LogLevel  string `envconfig:"LOG_LEVEL,default=info"`
	LogFormat string `envconfig:"LOG_FORMAT,default=text"`

	ExcludePriorWinners bool          `envconfig:"EXCLUDE_PRIOR_WINNERS,default=false"`
	ShutdownTimeout     time.Duration `envconfig:"SHUTDOWN_TIMEOUT,default=10s"`
}

// Load reads .env (or the given files) into the environment, then parses it.
// A missing default .env is not an error; missing explicit files are.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config
	if err := envconfig.Init(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

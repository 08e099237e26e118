package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/dove/internal/config"
	"github.com/joho/godotenv"
)

type envConfig struct {
	Env              string        `env:"ENV" envDefault:"production"`
	ConfigDir        string        `env:"DOVE_CONFIG_DIR"`
	Vendor           string        `env:"DOVE_VENDOR" envDefault:"foxseedlab"`
	App              string        `env:"DOVE_APP" envDefault:"dove"`
	DefaultChannelID string        `env:"DOVE_DEFAULT_CHANNEL_ID"`
	EventBufferSize  int           `env:"DOVE_EVENT_BUFFER_SIZE" envDefault:"512"`
	PollInterval     time.Duration `env:"DOVE_POLL_INTERVAL" envDefault:"50ms"`
	LogFile          string        `env:"DOVE_LOG_FILE"`
}

// Load reads an optional .env file from the working directory and then the
// process environment.
func Load() (*internalconfig.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(".env file is invalid: %w", err)
	}

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:              raw.Env,
		ConfigDir:        raw.ConfigDir,
		Vendor:           raw.Vendor,
		App:              raw.App,
		DefaultChannelID: raw.DefaultChannelID,
		EventBufferSize:  raw.EventBufferSize,
		PollInterval:     raw.PollInterval,
		LogFile:          raw.LogFile,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

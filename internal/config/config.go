package config

import (
	"fmt"
	"strconv"
	"time"
)

// TokenEnvVar names the variable read by "/login env". It is looked up at
// command time and never loaded into Config.
const TokenEnvVar = "DISCORD_TOKEN"

type Config struct {
	Env              string
	ConfigDir        string
	Vendor           string
	App              string
	DefaultChannelID string
	EventBufferSize  int
	PollInterval     time.Duration
	LogFile          string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if c.EventBufferSize <= 0 {
		return fmt.Errorf("DOVE_EVENT_BUFFER_SIZE must be positive, got %d", c.EventBufferSize)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("DOVE_POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	if c.DefaultChannelID != "" {
		if _, err := strconv.ParseUint(c.DefaultChannelID, 10, 64); err != nil {
			return fmt.Errorf("DOVE_DEFAULT_CHANNEL_ID is invalid: %w", err)
		}
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "DOVE_VENDOR", value: c.Vendor},
		{name: "DOVE_APP", value: c.App},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

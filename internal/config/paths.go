package config

import (
	"os"
	"path/filepath"
)

const (
	tokenFileName = "DO_NOT_SHARE.dat"
	logFileName   = "dove.log"
)

// Dir returns <config-root>/<vendor>/<app>. When the platform has no user
// config directory it falls back to a relative directory named after the app.
func (c *Config) Dir() string {
	if c.ConfigDir != "" {
		return filepath.Join(c.ConfigDir, c.Vendor, c.App)
	}
	root, err := os.UserConfigDir()
	if err != nil {
		return c.App
	}
	return filepath.Join(root, c.Vendor, c.App)
}

func (c *Config) TokenFilePath() string {
	return filepath.Join(c.Dir(), tokenFileName)
}

func (c *Config) LogFilePath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.Dir(), logFileName)
}

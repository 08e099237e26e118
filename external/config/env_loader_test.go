package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DOVE_VENDOR", "")
	os.Unsetenv("DOVE_VENDOR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Vendor != "foxseedlab" || cfg.App != "dove" {
		t.Fatalf("unexpected path segments: %q/%q", cfg.Vendor, cfg.App)
	}
	if cfg.EventBufferSize != 512 {
		t.Fatalf("unexpected buffer size: %d", cfg.EventBufferSize)
	}
	if cfg.PollInterval != 50*time.Millisecond {
		t.Fatalf("unexpected poll interval: %s", cfg.PollInterval)
	}
}

func TestLoad_ReadsDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DOVE_DEFAULT_CHANNEL_ID=42\n"), 0o600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Setenv("DOVE_DEFAULT_CHANNEL_ID", "")
	os.Unsetenv("DOVE_DEFAULT_CHANNEL_ID")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultChannelID != "42" {
		t.Fatalf("expected channel id from .env, got %q", cfg.DefaultChannelID)
	}
}

func TestLoad_RejectsInvalidBufferSize(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DOVE_EVENT_BUFFER_SIZE", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoad_RejectsMalformedDuration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DOVE_POLL_INTERVAL", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected parse error")
	}
}

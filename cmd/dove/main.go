package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	configloader "github.com/foxseedlab/dove/external/config"
	discordimpl "github.com/foxseedlab/dove/external/discord"
	fingerprintimpl "github.com/foxseedlab/dove/external/fingerprint"
	"github.com/foxseedlab/dove/internal/chat"
	"github.com/foxseedlab/dove/internal/config"
	"github.com/foxseedlab/dove/internal/event"
	"github.com/foxseedlab/dove/internal/session"
	"github.com/foxseedlab/dove/internal/ui"
	"github.com/foxseedlab/dove/internal/vault"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var rootCmd = &cobra.Command{
	Use:           "dove",
	Short:         "Terminal Discord chat client",
	Long:          `Chat on Discord from the terminal. The token is stored encrypted with a key derived from this machine.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context())
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("dove failed", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// initLogger sends JSON logs to the log file, since the terminal belongs to
// the chat window. The returned func closes the file.
func initLogger(cfg *config.Config) (func(), error) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}

	path := cfg.LogFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: logLevel})))
	return func() { _ = f.Close() }, nil
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	fingerprintimpl.RegisterDI(injector)
	vault.RegisterDI(injector)
	discordimpl.RegisterDI(injector)
	event.RegisterDI(injector)
	session.RegisterDI(injector)
	chat.RegisterDI(injector)

	return injector
}

func runChat(ctx context.Context) error {
	cfg := mustLoadConfig()
	closeLog, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.Info("startup: configuration loaded", "env", cfg.Env, "config_dir", cfg.Dir())

	injector := setupDI(cfg)
	bus, err := do.Invoke[*event.Bus](injector)
	if err != nil {
		return fmt.Errorf("resolve event bus: %w", err)
	}
	defer bus.Close()
	manager, err := do.Invoke[*session.Manager](injector)
	if err != nil {
		return fmt.Errorf("resolve session manager: %w", err)
	}
	controller, err := do.Invoke[*chat.Controller](injector)
	if err != nil {
		return fmt.Errorf("resolve chat controller: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		manager.Run(gctx)
		return nil
	})

	controller.AutoLogin()
	program := tea.NewProgram(
		ui.New(controller, cfg.PollInterval),
		tea.WithAltScreen(),
		tea.WithContext(gctx),
	)
	g.Go(func() error {
		// The manager follows the window: once it closes, everything stops.
		defer cancel()
		slog.Info("startup: opening chat window")
		if _, err := program.Run(); err != nil && gctx.Err() == nil {
			return fmt.Errorf("run chat window: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("shutting down")
	return nil
}

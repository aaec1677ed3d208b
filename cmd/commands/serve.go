package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/banner/internal/config"
	"github.com/dohr-michael/banner/internal/controller"
	"github.com/dohr-michael/banner/internal/debounce"
	"github.com/dohr-michael/banner/internal/entitystore"
	"github.com/dohr-michael/banner/internal/events"
	"github.com/dohr-michael/banner/internal/gateway"
	"github.com/dohr-michael/banner/internal/heartbeat"
)

// NewServeCommand returns the serve subcommand.
func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the banner gateway server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to listen on",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
			},
		},
		Action: runServe,
	}
}

func runServe(_ context.Context, cmd *cli.Command) error {
	// Setup debug logging
	if cmd.Bool("debug") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	// Load config
	configPath := cmd.String("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Warn("config not found, using defaults", "path", configPath, "error", err)
		cfg = config.Default()
	}

	// CLI flags override config
	if cmd.IsSet("host") {
		cfg.Gateway.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Gateway.Port = int(cmd.Int("port"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Event bus
	bus := events.NewBus(cfg.Events.BufferSize)
	defer bus.Close()

	// Stores
	settings, err := config.OpenSettings(config.SettingsPath())
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	store := entitystore.New(config.EntitiesPath())

	// Render controller
	windows := debounce.Windows{
		Normal:    time.Duration(cfg.Compose.DebounceMS) * time.Millisecond,
		Immediate: time.Duration(cfg.Compose.ImmediateMS) * time.Millisecond,
	}
	ctrl := controller.New(settings, store, bus, windows)
	defer ctrl.Close()

	// Hot reload on SIGHUP: re-read config and run a fresh compose pass.
	reloader := config.NewReloader(configPath, config.DotenvPath(), cfg)
	reloader.OnReload(func(*config.Config) {
		ctrl.Recompose()
	})
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			if err := reloader.Reload(); err != nil {
				slog.Error("config reload failed", "error", err)
			}
		}
	}()
	defer signal.Stop(hup)

	// Heartbeat for `banner status`
	hb := heartbeat.NewWriter(config.HeartbeatPath())
	hb.Start()
	defer hb.Stop()

	// Gateway server
	server := gateway.NewServer(bus, ctrl, store, cfg.Gateway.Host, cfg.Gateway.Port)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for signal or error
	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

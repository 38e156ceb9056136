package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/plus3/snek/host/ebitenhost"
	"github.com/plus3/snek/internal/app"
	"github.com/plus3/snek/internal/config"
	"github.com/plus3/snek/internal/logging"
	"github.com/plus3/snek/loop"
	"github.com/plus3/snek/render"
	"github.com/plus3/snek/snake"
)

func main() {
	cfgPath := flag.String("config", "", "Path to a YAML config file.")
	host := flag.String("host", "", "Where to run: window or terminal. Overrides the config.")
	interval := flag.Duration("interval", 0, "Time between simulation steps. Overrides the config.")
	seed := flag.Uint64("seed", 0, "Apple placement seed. Overrides the config; 0 keeps it.")
	overlay := flag.Bool("overlay", false, "Show the frame stats overlay in window mode.")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
	if *overlay {
		cfg.Overlay = true
	}
	if err := applyFlags(cfg, *host, *interval, *seed); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}

	// Terminal frames go to stdout, so keep logs on stderr.
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, os.Stderr)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("fatal")
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config, host string, interval time.Duration, seed uint64) error {
	if host != "" {
		cfg.Host = host
	}
	if interval != 0 {
		cfg.Loop.StepIntervalRaw = interval.String()
	}
	if seed != 0 {
		cfg.Board.Seed = seed
	}
	return cfg.Validate()
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	game, err := app.NewGame(cfg.Board)
	if err != nil {
		return err
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("width", cfg.Board.Width).
		Int("height", cfg.Board.Height).
		Dur("interval", cfg.Loop.StepInterval).
		Msg("starting")

	switch cfg.Host {
	case config.HostTerminal:
		return runTerminal(ctx, cfg, logger, game)
	default:
		return runWindow(ctx, cfg, logger, game)
	}
}

func runTerminal(ctx context.Context, cfg *config.Config, logger zerolog.Logger, game *snake.Game) error {
	host := loop.NewTickerHost(cfg.Loop.Refresh)
	scheduler, err := app.NewScheduler(host, cfg, logger)
	if err != nil {
		return err
	}

	view := render.NewText(game, os.Stdout, true)
	if err := scheduler.Start(ctx, loop.Compose(game, view)); err != nil {
		return err
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() {
		<-scheduler.Done()
		stop()
	}()

	_ = host.Run(runCtx)
	return app.Finish(logger, scheduler, game)
}

func runWindow(ctx context.Context, cfg *config.Config, logger zerolog.Logger, game *snake.Game) error {
	canvas := render.NewCanvas(game, cfg.Board.CellSize, render.DefaultPalette)
	host := ebitenhost.New(canvas)

	scheduler, err := app.NewScheduler(host, cfg, logger)
	if err != nil {
		return err
	}

	if cfg.Overlay {
		host.ShowStats(scheduler.Stats)
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	if err := scheduler.Start(runCtx, loop.Compose(game, canvas)); err != nil {
		return err
	}

	if err := host.Run(runCtx, "snek", scheduler.Done()); err != nil {
		return fmt.Errorf("window: %w", err)
	}

	// Closing the window ends the run like a cancellation.
	stop()
	<-scheduler.Done()
	return app.Finish(logger, scheduler, game)
}

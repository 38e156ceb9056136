package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/plus3/snek/host/raylibhost"
	"github.com/plus3/snek/internal/app"
	"github.com/plus3/snek/internal/config"
	"github.com/plus3/snek/internal/logging"
	"github.com/plus3/snek/loop"
	"github.com/plus3/snek/render"
)

func init() {
	// raylib must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	cfgPath := flag.String("config", "", "Path to a YAML config file.")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, os.Stderr)

	game, err := app.NewGame(cfg.Board)
	if err != nil {
		logger.Fatal().Err(err).Msg("board")
	}

	canvas := render.NewCanvas(game, cfg.Board.CellSize, render.DefaultPalette)
	host := raylibhost.New(canvas)

	scheduler, err := app.NewScheduler(host, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("scheduler")
	}

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	if err := scheduler.Start(runCtx, loop.Compose(game, canvas)); err != nil {
		logger.Fatal().Err(err).Msg("start")
	}
	if err := host.Run(runCtx, "snek", scheduler.Done()); err != nil {
		logger.Fatal().Err(err).Msg("window")
	}

	stop()
	<-scheduler.Done()
	if err := app.Finish(logger, scheduler, game); err != nil {
		logger.Fatal().Err(err).Msg("run")
	}
}

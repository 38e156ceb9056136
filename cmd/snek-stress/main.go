package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/plus3/snek/internal/app"
	"github.com/plus3/snek/internal/config"
	"github.com/plus3/snek/internal/logging"
	"github.com/plus3/snek/loop"
	"github.com/plus3/snek/render"
	"github.com/plus3/snek/snake"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total wall-clock duration the test should run for.")
	interval := flag.Duration("interval", 100*time.Millisecond, "Simulated step interval.")
	frame := flag.Duration("frame", 16667*time.Microsecond, "Simulated time between host frames.")
	width := flag.Int("width", 64, "Board width.")
	height := flag.Int("height", 64, "Board height.")
	seed := flag.Uint64("seed", 1, "Apple placement seed.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	logger := logging.New(logging.Config{Level: "info", Format: "console"}, os.Stderr)
	logger.Info().Msg("Starting frame loop stress test...")

	boardCfg := config.BoardConfig{Width: *width, Height: *height, Seed: *seed}
	board, err := newRestartingBoard(boardCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("board")
	}

	host := loop.NewManualHost()
	scheduler, err := loop.New(host, *interval, loop.WithLogger(logger))
	if err != nil {
		logger.Fatal().Err(err).Msg("scheduler")
	}

	report := &Report{
		Duration:       *duration,
		Interval:       *interval,
		FramePeriod:    *frame,
		Width:          *width,
		Height:         *height,
		GCPauseMetrics: *gcPauseMetrics,
		FrameTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	if err := scheduler.Start(ctx, board); err != nil {
		logger.Fatal().Err(err).Msg("start")
	}

	logger.Info().Dur("duration", *duration).Msg("Running frames")
	startTime := time.Now()
	var ts time.Duration

	for host.Pending() {
		frameStart := time.Now()
		host.Fire(ts)
		report.FrameTime.Samples = append(report.FrameTime.Samples, time.Since(frameStart))
		ts += *frame
	}

	report.TotalTime = time.Since(startTime)
	report.SimulatedTime = ts
	report.Loop = scheduler.Stats()
	report.Restarts = board.restarts
	report.BestScore = board.best
	report.FrameTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	if scheduler.State() == loop.Halted {
		logger.Fatal().Err(scheduler.Err()).Msg("loop halted")
	}
	logger.Info().Msg("Stress run finished.")

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal().Err(err).Msg("Failed to generate report")
	}
	fmt.Println("--- End of Report ---")
}

// restartingBoard starts a fresh game whenever the current one ends, so
// the loop keeps doing real work for the whole run.
type restartingBoard struct {
	cfg      config.BoardConfig
	game     *snake.Game
	canvas   *render.Canvas
	restarts int
	best     int
}

func newRestartingBoard(cfg config.BoardConfig) (*restartingBoard, error) {
	b := &restartingBoard{cfg: cfg}
	if err := b.reset(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *restartingBoard) reset() error {
	g, err := app.NewGame(b.cfg)
	if err != nil {
		return err
	}
	b.game = g
	b.canvas = render.NewCanvas(g, 0, render.DefaultPalette)
	return nil
}

func (b *restartingBoard) Advance() error {
	if b.game.Over() {
		b.best = max(b.best, b.game.Score())
		b.restarts++
		b.cfg.Seed++
		return b.reset()
	}

	b.steer()
	return b.game.Advance()
}

// steer sweeps the snake back and forth across the board, dropping one row
// at each side wall, so a game covers most of the board before it ends.
func (b *restartingBoard) steer() {
	x, _ := b.game.Head()
	last := b.game.Width() - 1

	switch b.game.Direction() {
	case snake.Right:
		if x == last {
			b.game.SetDirection(snake.Down)
		}
	case snake.Left:
		if x == 0 {
			b.game.SetDirection(snake.Down)
		}
	case snake.Down:
		if x == last {
			b.game.SetDirection(snake.Left)
		} else {
			b.game.SetDirection(snake.Right)
		}
	}
}

func (b *restartingBoard) Render() error {
	return b.canvas.Render()
}

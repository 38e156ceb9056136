// Package app holds the wiring shared by the snek entrypoints.
package app

import (
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/plus3/snek/internal/config"
	"github.com/plus3/snek/loop"
	"github.com/plus3/snek/snake"
)

// NewGame builds a board from cfg and places the first apple. A zero seed
// picks a random one.
func NewGame(cfg config.BoardConfig) (*snake.Game, error) {
	var opts []snake.Option
	if cfg.Seed != 0 {
		opts = append(opts, snake.WithRand(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))))
	}

	g, err := snake.New(cfg.Width, cfg.Height, opts...)
	if err != nil {
		return nil, fmt.Errorf("new board: %w", err)
	}
	g.Init()
	return g, nil
}

// NewScheduler builds a scheduler for host using cfg's step interval.
func NewScheduler(host loop.Host, cfg *config.Config, logger zerolog.Logger) (*loop.Scheduler, error) {
	return loop.New(host, cfg.Loop.StepInterval,
		loop.WithLogger(logger.With().Str("component", "scheduler").Logger()),
	)
}

// Finish logs the outcome of a run and returns the scheduler's error if it
// halted. Cancellation is not an error.
func Finish(logger zerolog.Logger, s *loop.Scheduler, g *snake.Game) error {
	stats := s.Stats()
	logger.Info().
		Int64("frames", stats.Frames).
		Int64("steps", stats.Steps).
		Int64("render_failures", stats.RenderFailures).
		Dur("avg_advance", stats.AvgAdvance).
		Int("score", g.Score()).
		Bool("over", g.Over()).
		Bool("won", g.Won()).
		Str("state", s.State().String()).
		Msg("run finished")

	if s.State() == loop.Halted {
		return s.Err()
	}
	if err := s.Err(); err != nil {
		logger.Debug().Err(err).Msg("stopped")
	}
	return nil
}

// Package loop drives a fixed-timestep simulation on top of a host's
// variable-rate "next frame" callback.
package loop

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const defaultRenderWarnEvery = time.Second

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for lifecycle events and render failures.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// WithRenderWarnEvery limits render-failure warnings to one per interval.
// Failures past the limit are still counted in Stats.
func WithRenderWarnEvery(every time.Duration) Option {
	return func(s *Scheduler) {
		s.renderWarn = rate.NewLimiter(rate.Every(every), 1)
	}
}

// Scheduler advances and renders a SimulationView at most once per step
// interval, driven by a Host's frame callbacks.
//
// The start time is reset to the timestamp of the frame that fired a step,
// not advanced by exactly one interval, so any overshoot past the interval
// is carried into the next step.
type Scheduler struct {
	host     Host
	interval time.Duration
	logger   zerolog.Logger

	renderWarn *rate.Limiter

	mu        sync.Mutex
	ctx       context.Context
	target    SimulationView
	started   bool
	state     State
	startTime time.Duration
	err       error
	done      chan struct{}
	release   func() bool
	stats     statsInternal
}

// New creates a scheduler that steps every interval on frames from host.
func New(host Host, interval time.Duration, opts ...Option) (*Scheduler, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	if interval <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}

	s := &Scheduler{
		host:     host,
		interval: interval,
		logger:   zerolog.Nop(),
		state:    AwaitingFirstFrame,
		done:     make(chan struct{}),
		stats:    newStatsInternal(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderWarn == nil {
		s.renderWarn = rate.NewLimiter(rate.Every(defaultRenderWarnEvery), 1)
	}
	return s, nil
}

// Start renders target once and requests the first frame. It returns
// immediately; steps happen on the host's callbacks until ctx is done or
// a step fails.
func (s *Scheduler) Start(ctx context.Context, target SimulationView) error {
	if target == nil {
		return ErrNilTarget
	}

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.ctx = ctx
	s.target = target
	s.mu.Unlock()

	if err := target.Render(); err != nil {
		err = fmt.Errorf("%w: initial render: %w", ErrInitialization, err)
		s.finish(Halted, err)
		s.logger.Error().Err(err).Msg("scheduler failed to start")
		return err
	}

	release := context.AfterFunc(ctx, func() {
		s.finish(Stopped, ctx.Err())
	})
	s.mu.Lock()
	s.release = release
	s.mu.Unlock()

	s.logger.Debug().Dur("interval", s.interval).Msg("scheduler started")
	s.host.RequestFrame(s.onFrame)
	return nil
}

func (s *Scheduler) onFrame(ts time.Duration) {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return
	}
	if err := s.ctx.Err(); err != nil {
		s.mu.Unlock()
		s.finish(Stopped, err)
		s.logger.Debug().Err(err).Msg("scheduler stopped")
		return
	}

	s.stats.frames++
	if s.state == AwaitingFirstFrame {
		s.startTime = ts
		s.state = Running
	}

	step := ts-s.startTime > s.interval
	if step {
		s.startTime = ts
	}
	target := s.target
	s.mu.Unlock()

	if step && !s.step(target, ts) {
		return
	}

	s.host.RequestFrame(s.onFrame)
}

// step advances then renders target. It reports false if the loop halted.
func (s *Scheduler) step(target SimulationView, ts time.Duration) bool {
	start := time.Now()
	err := target.Advance()
	took := time.Since(start)

	if err != nil {
		err = fmt.Errorf("%w: at %s: %w", ErrStep, ts, err)
		s.finish(Halted, err)
		s.logger.Error().Err(err).Msg("scheduler halted")
		return false
	}

	renderErr := target.Render()

	s.mu.Lock()
	s.stats.recordAdvance(took)
	s.stats.renders++
	if renderErr != nil {
		s.stats.renderFailures++
		s.stats.lastRenderErr = fmt.Errorf("%w: %w", ErrRender, renderErr)
	}
	failures := s.stats.renderFailures
	s.mu.Unlock()

	if renderErr != nil && s.renderWarn.Allow() {
		s.logger.Warn().
			Err(renderErr).
			Int64("failures", failures).
			Dur("ts", ts).
			Msg("render failed, skipping frame")
	}
	return true
}

func (s *Scheduler) finish(state State, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return
	}
	s.state = state
	s.err = err
	close(s.done)
	if s.release != nil {
		s.release()
	}
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Interval returns the configured step interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Done is closed once the scheduler stops or halts.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

// Err returns why the scheduler stopped: the context error, or an error
// wrapping ErrStep or ErrInitialization. It is nil while running.
func (s *Scheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Stats returns a snapshot of frame, step and render counters. Renders
// counts the per-step Render calls, failed or not; the initial render in
// Start is not counted.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.snapshot()
}

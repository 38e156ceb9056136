package loop_test

import (
	"bytes"
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/snek/loop"
)

// recorder logs every collaborator call in order.
type recorder struct {
	calls      []string
	advanceErr error
	renderErr  error
	failRender func(n int) bool
	renders    int
}

func (r *recorder) Advance() error {
	r.calls = append(r.calls, "advance")
	return r.advanceErr
}

func (r *recorder) Render() error {
	r.calls = append(r.calls, "render")
	r.renders++
	if r.failRender != nil && !r.failRender(r.renders) {
		return nil
	}
	return r.renderErr
}

func (r *recorder) count(call string) int {
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

func startManual(t *testing.T, interval time.Duration, target loop.SimulationView) (*loop.Scheduler, *loop.ManualHost) {
	t.Helper()

	host := loop.NewManualHost()
	scheduler, err := loop.New(host, interval)
	require.NoError(t, err)
	require.NoError(t, scheduler.Start(context.Background(), target))
	return scheduler, host
}

func TestScheduler(t *testing.T) {
	t.Run("steps only when elapsed exceeds interval", func(t *testing.T) {
		rec := &recorder{}
		scheduler, host := startManual(t, ms(100), rec)

		for _, ts := range []int{0, 40, 90, 150, 260} {
			require.True(t, host.Fire(ms(ts)))
		}

		assert.Equal(t, 2, rec.count("advance"))
		assert.Equal(t, int64(2), scheduler.Stats().Steps)
		assert.Equal(t, int64(5), scheduler.Stats().Frames)
	})

	t.Run("first frame never steps", func(t *testing.T) {
		rec := &recorder{}
		scheduler, host := startManual(t, ms(50), rec)

		host.Fire(ms(1000))

		assert.Equal(t, 0, rec.count("advance"))
		assert.Equal(t, loop.Running, scheduler.State())
	})

	t.Run("elapsed equal to interval does not step", func(t *testing.T) {
		rec := &recorder{}
		_, host := startManual(t, ms(100), rec)

		host.Fire(ms(0))
		host.Fire(ms(100))
		assert.Equal(t, 0, rec.count("advance"))

		host.Fire(ms(101))
		assert.Equal(t, 1, rec.count("advance"))
	})

	t.Run("initial render happens before any frame", func(t *testing.T) {
		rec := &recorder{}
		scheduler, host := startManual(t, ms(100), rec)

		assert.Equal(t, []string{"render"}, rec.calls)
		assert.True(t, host.Pending())
		assert.Equal(t, loop.AwaitingFirstFrame, scheduler.State())
	})

	t.Run("render follows each advance", func(t *testing.T) {
		rec := &recorder{}
		_, host := startManual(t, ms(10), rec)

		for ts := 0; ts <= 200; ts += 7 {
			host.Fire(ms(ts))
		}

		calls := rec.calls[1:]
		require.NotEmpty(t, calls)
		require.Equal(t, 0, len(calls)%2)
		for i := 0; i < len(calls); i += 2 {
			assert.Equal(t, "advance", calls[i])
			assert.Equal(t, "render", calls[i+1])
		}
	})

	t.Run("re-requests after every frame", func(t *testing.T) {
		rec := &recorder{}
		_, host := startManual(t, ms(100), rec)

		for i, ts := range []int{0, 10, 20, 500, 510} {
			require.True(t, host.Fire(ms(ts)))
			assert.True(t, host.Pending())
			assert.Equal(t, i+2, host.Requests())
		}
	})

	t.Run("start time resets to the stepping frame", func(t *testing.T) {
		rec := &recorder{}
		_, host := startManual(t, ms(100), rec)

		host.Fire(ms(0))
		host.Fire(ms(180))
		assert.Equal(t, 1, rec.count("advance"))

		// 180+100 would be the next deadline; 270 is not past it.
		host.Fire(ms(270))
		assert.Equal(t, 1, rec.count("advance"))

		host.Fire(ms(281))
		assert.Equal(t, 2, rec.count("advance"))
	})

	t.Run("step failure halts the loop", func(t *testing.T) {
		boom := errors.New("boom")
		rec := &recorder{advanceErr: boom}
		scheduler, host := startManual(t, ms(10), rec)

		host.Fire(ms(0))
		host.Fire(ms(20))

		assert.False(t, host.Pending())
		assert.Equal(t, loop.Halted, scheduler.State())
		assert.ErrorIs(t, scheduler.Err(), loop.ErrStep)
		assert.ErrorIs(t, scheduler.Err(), boom)
		assert.Equal(t, []string{"render", "advance"}, rec.calls)

		select {
		case <-scheduler.Done():
		default:
			t.Fatal("expected done to be closed")
		}
	})

	t.Run("render failure is counted and the loop continues", func(t *testing.T) {
		rec := &recorder{
			renderErr:  errors.New("lost surface"),
			failRender: func(n int) bool { return n == 2 },
		}
		scheduler, host := startManual(t, ms(10), rec)

		host.Fire(ms(0))
		host.Fire(ms(20))
		host.Fire(ms(40))

		stats := scheduler.Stats()
		assert.Equal(t, int64(2), stats.Steps)
		assert.Equal(t, int64(2), stats.Renders)
		assert.Equal(t, int64(1), stats.RenderFailures)
		assert.ErrorIs(t, stats.LastError, loop.ErrRender)
		assert.True(t, host.Pending())
		assert.Equal(t, loop.Running, scheduler.State())
		assert.NoError(t, scheduler.Err())
	})

	t.Run("render failure warnings are rate limited", func(t *testing.T) {
		var buf bytes.Buffer
		rec := &recorder{
			renderErr:  errors.New("lost surface"),
			failRender: func(n int) bool { return n > 1 },
		}

		host := loop.NewManualHost()
		scheduler, err := loop.New(host, ms(10),
			loop.WithLogger(zerolog.New(&buf)),
			loop.WithRenderWarnEvery(time.Hour),
		)
		require.NoError(t, err)
		require.NoError(t, scheduler.Start(context.Background(), rec))

		for ts := 0; ts <= 20*19; ts += 20 {
			host.Fire(ms(ts))
		}

		assert.Equal(t, int64(19), scheduler.Stats().RenderFailures)
		assert.Equal(t, 1, strings.Count(buf.String(), "render failed"))
		assert.Contains(t, buf.String(), `"level":"warn"`)
		assert.Contains(t, buf.String(), "lost surface")
	})

	t.Run("initial render failure aborts start", func(t *testing.T) {
		rec := &recorder{renderErr: errors.New("no canvas")}
		host := loop.NewManualHost()
		scheduler, err := loop.New(host, ms(10))
		require.NoError(t, err)

		err = scheduler.Start(context.Background(), rec)
		assert.ErrorIs(t, err, loop.ErrInitialization)
		assert.False(t, host.Pending())
		assert.Equal(t, loop.Halted, scheduler.State())
	})

	t.Run("cancellation stops requesting frames", func(t *testing.T) {
		rec := &recorder{}
		host := loop.NewManualHost()
		scheduler, err := loop.New(host, ms(10))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, scheduler.Start(ctx, rec))

		host.Fire(ms(0))
		cancel()

		select {
		case <-scheduler.Done():
		case <-time.After(time.Second):
			t.Fatal("scheduler did not stop after context cancellation")
		}

		host.Fire(ms(50))
		assert.False(t, host.Pending())
		assert.Equal(t, 0, rec.count("advance"))
		assert.Equal(t, loop.Stopped, scheduler.State())
		assert.ErrorIs(t, scheduler.Err(), context.Canceled)
	})

	t.Run("start validation", func(t *testing.T) {
		_, err := loop.New(loop.NewManualHost(), 0)
		assert.ErrorIs(t, err, loop.ErrInvalidInterval)

		_, err = loop.New(nil, ms(10))
		assert.ErrorIs(t, err, loop.ErrNilHost)

		scheduler, err := loop.New(loop.NewManualHost(), ms(10))
		require.NoError(t, err)
		assert.ErrorIs(t, scheduler.Start(context.Background(), nil), loop.ErrNilTarget)

		require.NoError(t, scheduler.Start(context.Background(), &recorder{}))
		assert.ErrorIs(t, scheduler.Start(context.Background(), &recorder{}), loop.ErrAlreadyStarted)
		assert.Equal(t, ms(10), scheduler.Interval())
	})
}

// expectedSteps replays the reset rule over a timestamp sequence.
func expectedSteps(interval time.Duration, stamps []time.Duration) []int {
	counts := make([]int, len(stamps))
	var start time.Duration
	steps := 0
	for i, ts := range stamps {
		if i == 0 {
			start = ts
		}
		if ts-start > interval {
			start = ts
			steps++
		}
		counts[i] = steps
	}
	return counts
}

func TestSchedulerRandomTimestamps(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for run := 0; run < 50; run++ {
		interval := ms(rng.IntN(100) + 1)
		stamps := make([]time.Duration, rng.IntN(200)+1)
		ts := ms(rng.IntN(1000))
		for i := range stamps {
			ts += time.Duration(rng.IntN(40)) * time.Millisecond
			stamps[i] = ts
		}

		rec := &recorder{}
		scheduler, host := startManual(t, interval, rec)
		want := expectedSteps(interval, stamps)

		prev := int64(0)
		for i, ts := range stamps {
			require.True(t, host.Fire(ts))
			got := scheduler.Stats().Steps
			require.Equal(t, int64(want[i]), got, "run %d frame %d", run, i)
			require.GreaterOrEqual(t, got, prev)
			prev = got
		}
		assert.Equal(t, rec.count("advance"), rec.count("render")-1)
	}
}

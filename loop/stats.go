package loop

import "time"

// Stats provides counters and advance timings for a scheduler.
type Stats struct {
	Frames         int64
	Steps          int64
	Renders        int64
	RenderFailures int64
	LastError      error

	MinAdvance   time.Duration
	MaxAdvance   time.Duration
	AvgAdvance   time.Duration
	LastAdvance  time.Duration
	TotalAdvance time.Duration
}

type statsInternal struct {
	frames         int64
	steps          int64
	renders        int64
	renderFailures int64
	lastRenderErr  error

	minAdvance   time.Duration
	maxAdvance   time.Duration
	lastAdvance  time.Duration
	totalAdvance time.Duration
}

func newStatsInternal() statsInternal {
	return statsInternal{minAdvance: time.Duration(1<<63 - 1)}
}

func (s *statsInternal) recordAdvance(d time.Duration) {
	s.steps++
	s.lastAdvance = d
	s.totalAdvance += d

	if d < s.minAdvance {
		s.minAdvance = d
	}
	if d > s.maxAdvance {
		s.maxAdvance = d
	}
}

func (s *statsInternal) snapshot() Stats {
	out := Stats{
		Frames:         s.frames,
		Steps:          s.steps,
		Renders:        s.renders,
		RenderFailures: s.renderFailures,
		LastError:      s.lastRenderErr,
		MaxAdvance:     s.maxAdvance,
		LastAdvance:    s.lastAdvance,
		TotalAdvance:   s.totalAdvance,
	}
	if s.steps > 0 {
		out.MinAdvance = s.minAdvance
		out.AvgAdvance = s.totalAdvance / time.Duration(s.steps)
	}
	return out
}

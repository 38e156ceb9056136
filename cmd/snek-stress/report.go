package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/snek/loop"
)

type Report struct {
	// Configuration
	Duration    time.Duration
	Interval    time.Duration
	FramePeriod time.Duration
	Width       int
	Height      int

	// Results
	TotalTime      time.Duration
	SimulatedTime  time.Duration
	Loop           loop.Stats
	Restarts       int
	BestScore      int
	FrameTime      Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Frame Loop Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Step Interval:** {{.Interval}}
- **Simulated Frame Period:** {{.FramePeriod}}
- **Board:** {{.Width}}x{{.Height}}

## Loop Results
- **Frames:** {{.Loop.Frames}}
- **Steps:** {{.Loop.Steps}} ({{ratio .Loop.Frames .Loop.Steps}} frames per step)
- **Render Failures:** {{.Loop.RenderFailures}}
- **Simulated Time:** {{.SimulatedTime}}
- **Games Restarted:** {{.Restarts}}
- **Best Score:** {{.BestScore}}

## Performance Results
- **Total Test Time:** {{.TotalTime}}
- **Advance Time:**
  - **Avg:** {{.Loop.AvgAdvance}}
  - **Min:** {{.Loop.MinAdvance}}
  - **Max:** {{.Loop.MaxAdvance}}
- **Frame Time (callback incl. advance and render):**
  - **Avg:** {{.FrameTime.Avg}}
  - **Min:** {{.FrameTime.Min}}
  - **Max:** {{.FrameTime.Max}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"ratio": func(a, b int64) string {
			if b == 0 {
				return "N/A"
			}
			return fmt.Sprintf("%.2f", float64(a)/float64(b))
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}

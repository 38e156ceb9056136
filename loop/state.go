package loop

//go:generate go tool stringer -type=State

// State is the scheduler's lifecycle position.
type State int

const (
	// AwaitingFirstFrame is the state before the first callback fixes the start time.
	AwaitingFirstFrame State = iota
	// Running is steady-state ticking.
	Running
	// Stopped means the context was cancelled; no further frames are requested.
	Stopped
	// Halted means a step or the initial render failed; see Scheduler.Err.
	Halted
)

// Terminal reports whether the scheduler will never request another frame.
func (s State) Terminal() bool {
	return s == Stopped || s == Halted
}

package loop

import "errors"

// Scheduler errors.
var (
	ErrInvalidInterval = errors.New("step interval must be positive")
	ErrNilHost         = errors.New("host is nil")
	ErrNilTarget       = errors.New("simulation view is nil")
	ErrAlreadyStarted  = errors.New("scheduler already started")

	// ErrInitialization wraps a failure of the initial render; the loop never starts.
	ErrInitialization = errors.New("initialization failed")
	// ErrStep wraps an Advance failure; the loop halts.
	ErrStep = errors.New("step failed")
	// ErrRender wraps a Render failure after a successful step; the loop continues.
	ErrRender = errors.New("render failed")
)

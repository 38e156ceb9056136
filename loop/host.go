package loop

import (
	"context"
	"sync"
	"time"
)

// FrameCallback is invoked by a host once per frame with the frame's
// timestamp, measured from the host's origin.
type FrameCallback func(ts time.Duration)

// Host supplies the "run this once before the next frame" primitive.
// A registered callback fires at most once; callers re-register to keep
// receiving frames.
type Host interface {
	RequestFrame(cb FrameCallback)
}

// ManualHost holds at most one pending callback and fires it when told to.
// It is the building block for the window hosts and lets tests feed
// synthetic timestamps.
type ManualHost struct {
	mu       sync.Mutex
	pending  FrameCallback
	requests int
}

// NewManualHost creates a host with nothing pending.
func NewManualHost() *ManualHost {
	return &ManualHost{}
}

// RequestFrame registers cb for the next Fire. An unfired callback is replaced.
func (h *ManualHost) RequestFrame(cb FrameCallback) {
	h.mu.Lock()
	h.pending = cb
	h.requests++
	h.mu.Unlock()
}

// Fire runs the pending callback with ts and reports whether one was pending.
// The slot is cleared before the callback runs so it can re-register.
func (h *ManualHost) Fire(ts time.Duration) bool {
	h.mu.Lock()
	cb := h.pending
	h.pending = nil
	h.mu.Unlock()

	if cb == nil {
		return false
	}
	cb(ts)
	return true
}

// Pending reports whether a callback is waiting for the next Fire.
func (h *ManualHost) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pending != nil
}

// Requests returns how many times RequestFrame has been called.
func (h *ManualHost) Requests() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.requests
}

// TickerHost fires the pending callback on a fixed refresh ticker, standing
// in for a display refresh when there is no window.
type TickerHost struct {
	*ManualHost
	refresh time.Duration
}

// NewTickerHost creates a ticker host that refreshes every refresh interval.
func NewTickerHost(refresh time.Duration) *TickerHost {
	return &TickerHost{
		ManualHost: NewManualHost(),
		refresh:    refresh,
	}
}

// Run fires the pending callback on every tick until the context is cancelled.
func (h *TickerHost) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.refresh)
	defer ticker.Stop()

	origin := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			h.Fire(now.Sub(origin))
		}
	}
}

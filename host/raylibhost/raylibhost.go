// Package raylibhost runs the frame loop on a raylib window. Callers must
// invoke Run from the main OS thread.
package raylibhost

import (
	"context"
	"image"
	"image/color"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/plus3/snek/loop"
	"github.com/plus3/snek/render"
)

const targetFPS = 60

// Host implements loop.Host on a raylib draw loop.
type Host struct {
	*loop.ManualHost

	canvas *render.Canvas
}

// New creates a host that paints canvas.
func New(canvas *render.Canvas) *Host {
	return &Host{
		ManualHost: loop.NewManualHost(),
		canvas:     canvas,
	}
}

// Run opens the window and blocks until it is closed, ctx is cancelled or
// done is closed.
func (h *Host) Run(ctx context.Context, title string, done <-chan struct{}) error {
	w, ht := h.canvas.Size()
	rl.InitWindow(int32(w), int32(ht), title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(targetFPS)

	origin := rl.GetTime()

	for !rl.WindowShouldClose() {
		select {
		case <-ctx.Done():
			return nil
		case <-done:
			return nil
		default:
		}

		elapsed := rl.GetTime() - origin
		h.Fire(time.Duration(elapsed * float64(time.Second)))

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)
		h.canvas.Paint(painter{})
		rl.EndDrawing()
	}
	return nil
}

type painter struct{}

func (painter) FillRect(r image.Rectangle, c color.RGBA) {
	rl.DrawRectangle(int32(r.Min.X), int32(r.Min.Y), int32(r.Dx()), int32(r.Dy()), rl.NewColor(c.R, c.G, c.B, c.A))
}

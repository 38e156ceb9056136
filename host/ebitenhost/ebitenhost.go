// Package ebitenhost runs the frame loop inside an ebiten window. Each
// ebiten Update fires the pending frame callback; each Draw paints the
// canvas's latest snapshot, then the optional stats overlay.
package ebitenhost

import (
	"context"
	"image"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/snek/loop"
	"github.com/plus3/snek/render"
)

// Host implements loop.Host and ebiten.Game.
type Host struct {
	*loop.ManualHost

	canvas  *render.Canvas
	overlay *Overlay
	ctx     context.Context
	done    <-chan struct{}
	origin  time.Time
}

// New creates a host that paints canvas.
func New(canvas *render.Canvas) *Host {
	return &Host{
		ManualHost: loop.NewManualHost(),
		canvas:     canvas,
		ctx:        context.Background(),
	}
}

// ShowStats enables the stats overlay, reading stats on every frame. Call
// it before Run.
func (h *Host) ShowStats(stats func() loop.Stats) {
	h.overlay = NewOverlay(stats)
}

// Run opens the window and blocks until it is closed, ctx is cancelled or
// done is closed. Update is synced to the display refresh rate.
func (h *Host) Run(ctx context.Context, title string, done <-chan struct{}) error {
	h.ctx = ctx
	h.done = done

	w, ht := h.canvas.Size()
	if h.overlay != nil {
		h.overlay.createWindow(title, w, ht)
	} else {
		ebiten.SetWindowSize(w, ht)
		ebiten.SetWindowTitle(title)
	}
	ebiten.SetTPS(ebiten.SyncWithFPS)

	return ebiten.RunGame(h)
}

func (h *Host) Update() error {
	select {
	case <-h.ctx.Done():
		return ebiten.Termination
	case <-h.done:
		return ebiten.Termination
	default:
	}

	if h.origin.IsZero() {
		h.origin = time.Now()
	}

	if h.overlay == nil {
		h.Fire(time.Since(h.origin))
		return nil
	}

	h.overlay.beginFrame()
	h.Fire(time.Since(h.origin))
	h.overlay.endFrame()
	return nil
}

func (h *Host) Draw(screen *ebiten.Image) {
	h.canvas.Paint(imagePainter{dst: screen})
	if h.overlay != nil {
		h.overlay.draw(screen)
	}
}

func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, ht := h.canvas.Size()
	if h.overlay != nil {
		h.overlay.layout(w, ht)
	}
	return w, ht
}

type imagePainter struct {
	dst *ebiten.Image
}

func (p imagePainter) FillRect(r image.Rectangle, c color.RGBA) {
	p.dst.SubImage(r).(*ebiten.Image).Fill(c)
}

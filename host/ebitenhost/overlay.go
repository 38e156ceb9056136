package ebitenhost

import (
	"fmt"
	"time"

	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/snek/loop"
)

const overlayHistoryFrames = 120

// Overlay draws a Dear ImGui panel with frame times and scheduler stats on
// top of the board.
type Overlay struct {
	backend *ebitenbackend.EbitenBackend
	stats   func() loop.Stats

	frames    *loop.History
	lastFrame time.Time
}

// NewOverlay creates an overlay reading stats on every frame.
func NewOverlay(stats func() loop.Stats) *Overlay {
	return &Overlay{
		backend: ebitenbackend.NewEbitenBackend(),
		stats:   stats,
		frames:  loop.NewHistory(overlayHistoryFrames),
	}
}

func (o *Overlay) createWindow(title string, width, height int) {
	o.backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
}

func (o *Overlay) beginFrame() {
	o.backend.BeginFrame()

	now := time.Now()
	if !o.lastFrame.IsZero() {
		o.frames.Push(float32(now.Sub(o.lastFrame).Seconds() * 1000))
	}
	o.lastFrame = now
}

func (o *Overlay) endFrame() {
	o.panel()
	o.backend.EndFrame()
}

func (o *Overlay) draw(screen *ebiten.Image) {
	o.backend.Draw(screen)
}

func (o *Overlay) layout(width, height int) {
	o.backend.Layout(width, height)
}

func (o *Overlay) panel() {
	if !imgui.BeginV("Loop Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := o.stats()

	avg := o.frames.Average()
	fps := float32(0)
	if avg > 0 {
		fps = 1000.0 / avg
	}
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, fps))
	imgui.Text(fmt.Sprintf("Frames: %d", stats.Frames))
	imgui.Text(fmt.Sprintf("Steps: %d", stats.Steps))
	imgui.Text(fmt.Sprintf("Render Failures: %d", stats.RenderFailures))

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	samples := o.frames.Samples()
	imgui.PlotLinesFloatPtr("##frametime", &samples[0], int32(len(samples)))

	if imgui.TreeNodeStr("Advance Timing") {
		imgui.Text(fmt.Sprintf("Last: %s", stats.LastAdvance))
		imgui.Text(fmt.Sprintf("Avg: %s", stats.AvgAdvance))
		imgui.Text(fmt.Sprintf("Min: %s", stats.MinAdvance))
		imgui.Text(fmt.Sprintf("Max: %s", stats.MaxAdvance))
		imgui.TreePop()
	}

	imgui.End()
}

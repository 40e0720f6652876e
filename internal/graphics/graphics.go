package graphics

import (
	"context"

	rl "github.com/gen2brain/raylib-go/raylib"

	"figure-viewer/internal/controls"
)

// Open creates a resizable, vsynced window. It must be called from the main goroutine.
func Open(width, height int, title string) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagVsyncHint | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(width), int32(height), title)
}

// Close closes the window.
func Close() {
	rl.CloseWindow()
}

// Frames is a tick source paced by the display: one tick per presented frame, no extra throttling.
// Each frame it feeds mouse input to Controls and reports window size changes to OnResize before ticking.
type Frames struct {
	Controls *controls.Orbit
	OnResize func(width, height int)
	// Input, if set, runs after the built-in mouse handling (e.g. overlay toggles).
	Input func()
}

// Run ticks until the window is closed or ctx is done.
func (f Frames) Run(ctx context.Context, tick func()) error {
	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			return nil
		}
		if rl.IsWindowResized() && f.OnResize != nil {
			f.OnResize(int(rl.GetScreenWidth()), int(rl.GetScreenHeight()))
		}
		if f.Controls != nil {
			feedMouse(f.Controls)
		}
		if f.Input != nil {
			f.Input()
		}
		tick()
	}
	return nil
}

// feedMouse maps left drag to rotate, right or middle drag to pan and the wheel to zoom.
func feedMouse(o *controls.Orbit) {
	h := float32(rl.GetScreenHeight())
	d := rl.GetMouseDelta()
	switch {
	case rl.IsMouseButtonDown(rl.MouseButtonLeft):
		o.Rotate(d.X, d.Y, h)
	case rl.IsMouseButtonDown(rl.MouseButtonRight), rl.IsMouseButtonDown(rl.MouseButtonMiddle):
		o.Pan(d.X, d.Y, h)
	}
	if w := rl.GetMouseWheelMove(); w != 0 {
		o.Zoom(w)
	}
}

package debug

import (
	"fmt"
	"runtime"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh FPS/Mem text every N frames to reduce allocations.
	updateInterval = 30
	// maxLinesOnScreen is how many recent log lines the log panel shows.
	maxLinesOnScreen = 8
	maxLineLen       = 160
)

var (
	fpsColor     = rl.NewColor(0, 140, 60, 255)
	statusColor  = rl.NewColor(60, 60, 60, 255)
	panelColor   = rl.NewColor(24, 24, 24, 200)
	logTextColor = rl.NewColor(220, 220, 220, 255)
)

// Overlay draws screen-space debugging aids over the 3D view. All parts are off by default.
type Overlay struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowLog      bool

	// Status, if set, supplies a one-line status shown top-left (e.g. the model load state).
	Status func() string
	// Lines, if set, supplies the log lines for the log panel, oldest first.
	Lines func() []string

	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastMemStats runtime.MemStats
}

// New returns an Overlay with every part hidden.
func New() *Overlay {
	return &Overlay{}
}

// Toggle handles F1 (log panel) and F2 (FPS and memory). Call once per frame.
func (o *Overlay) Toggle() {
	if rl.IsKeyPressed(rl.KeyF1) {
		o.ShowLog = !o.ShowLog
	}
	if rl.IsKeyPressed(rl.KeyF2) {
		o.ShowFPS = !o.ShowFPS
		o.ShowMemAlloc = o.ShowFPS
	}
}

// Draw renders the enabled parts. Call after the 3D pass, inside BeginDrawing/EndDrawing.
func (o *Overlay) Draw() {
	o.frameCount++
	update := o.frameCount%updateInterval == 0
	if (o.ShowFPS && o.lastFpsText == "") || (o.ShowMemAlloc && o.lastMemText == "") {
		update = true
	}
	screenW := int32(rl.GetScreenWidth())
	y := int32(padding)

	if o.ShowFPS {
		if update {
			o.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		drawRight(o.lastFpsText, screenW, y)
		y += lineHeight
	}
	if o.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&o.lastMemStats)
			o.lastMemText = "Mem: " + humanize.IBytes(o.lastMemStats.Alloc)
		}
		drawRight(o.lastMemText, screenW, y)
	}

	if o.Status != nil {
		if s := o.Status(); s != "" {
			rl.DrawText(s, padding, padding, fontSize, statusColor)
		}
	}
	if o.ShowLog && o.Lines != nil {
		o.drawLog(screenW)
	}
}

func drawRight(text string, screenW, y int32) {
	if text == "" {
		return
	}
	w := rl.MeasureText(text, fontSize)
	rl.DrawText(text, screenW-w-padding, y, fontSize, fpsColor)
}

// drawLog draws the most recent log lines in a panel along the bottom edge.
func (o *Overlay) drawLog(screenW int32) {
	lines := Tail(o.Lines(), maxLinesOnScreen)
	if len(lines) == 0 {
		return
	}
	screenH := int32(rl.GetScreenHeight())
	h := int32(len(lines))*lineHeight + padding
	top := screenH - h
	rl.DrawRectangle(0, top, screenW, h, panelColor)
	for i, line := range lines {
		rl.DrawText(line, padding, top+padding/2+int32(i)*lineHeight, fontSize-4, logTextColor)
	}
}

// Tail returns the last n lines, each cut to a displayable length.
func Tail(lines []string, n int) []string {
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if len(l) > maxLineLen {
			cut := maxLineLen - 3
			for cut > 0 && !utf8.RuneStart(l[cut]) {
				cut--
			}
			l = l[:cut] + "..."
		}
		out[i] = l
	}
	return out
}

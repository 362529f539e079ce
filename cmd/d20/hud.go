package main

import (
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/d20/pkg/dice"
	"github.com/taigrr/d20/pkg/render"
)

// HUD colours
var (
	hudBg     = render.RGB(0, 0, 0)
	hudWhite  = render.RGB(230, 230, 230)
	hudGreen  = render.RGB(80, 250, 120)
	hudYellow = render.RGB(250, 220, 80)
	hudCyan   = render.RGB(90, 220, 250)
	hudDim    = render.RGB(140, 140, 140)
)

// hud renders an overlay with the roll state and controls.
type hud struct {
	seed      uint64
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func newHUD(seed uint64) *hud {
	return &hud{seed: seed, fpsTime: time.Now()}
}

// UpdateFPS updates the FPS counter (call once per frame).
func (h *hud) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Draw writes the HUD rows over the rendered frame.
func (h *hud) Draw(scr uv.Screen, width, height int, snap dice.Snapshot, wireframe bool) {
	// Top left: FPS
	render.DrawText(scr, 0, 0, fmt.Sprintf(" %.0f FPS ", h.fps), hudGreen, hudBg)

	// Top middle: current top face
	title := " top: - "
	if snap.Top.Valid() {
		title = fmt.Sprintf(" top: %d ", snap.Top.Label)
	}
	render.DrawText(scr, max((width-len(title))/2, 0), 0, title, hudWhite, hudBg)

	// Top right: roll state
	state := fmt.Sprintf(" %s ", snap.State)
	render.DrawText(scr, max(width-len(state), 0), 0, state, hudCyan, hudBg)

	// Second row: debug angles
	angles := fmt.Sprintf(" pitch %6.1f  yaw %6.1f  roll %6.1f  |w| %.3f ",
		snap.Pitch, snap.Yaw, snap.Roll, snap.Speed)
	render.DrawText(scr, 0, 1, angles, hudDim, hudBg)

	// Bottom: mode checkbox and hint
	checkWire := "[ ]"
	if wireframe {
		checkWire = "[✓]"
	}
	render.DrawText(scr, 0, height-1, fmt.Sprintf(" %s X-Ray  seed %d ", checkWire, h.seed), hudWhite, hudBg)

	hint := " space roll  s seq  f flick  r reset  ? hud "
	render.DrawText(scr, max(width-len(hint), 0), height-1, hint, hudYellow, hudBg)
}

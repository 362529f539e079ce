package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/d20/pkg/dice"
	"github.com/taigrr/d20/pkg/render"
)

const (
	// Drag distance per terminal cell, in gesture pixels. Rows cover two
	// framebuffer pixels.
	dragScaleX = 4.0
	dragScaleY = 8.0

	// flickSpeed bounds the random fling velocity of the f key, px/s.
	flickSpeed = 3000.0

	// labelMinFacing hides numbers on faces seen almost edge on.
	labelMinFacing = 0.35
)

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "interactive terminal viewer",
		Long: `Interactive terminal viewer.

  drag     rotate the die
  space    timed roll
  s        sequential roll
  f        flick roll
  r        reset
  x        toggle x-ray wireframe
  ?        toggle HUD
  + / -    zoom
  esc      quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewer(cmd.Context(), a)
		},
	}
}

// viewer is the frame loop state. Only the frame goroutine touches it.
type viewer struct {
	app     *app
	loop    *dice.Loop
	scene   *scene
	hud     *hud
	rng     *rand.Rand
	showHUD bool

	width, height int

	mouseDown              bool
	lastMouseX, lastMouseY int
}

func runViewer(parent context.Context, a *app) error {
	engine, err := a.newEngine(a.cfg.Physics)
	if err != nil {
		return err
	}
	mesh := a.dieMesh()

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	sc, err := newScene(a.cfg.Viewer, mesh, width, height*2)
	if err != nil {
		return err
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	v := &viewer{
		app:     a,
		loop:    dice.NewLoop(engine, 64),
		scene:   sc,
		hud:     newHUD(a.cfg.Seed),
		rng:     rand.New(rand.NewPCG(a.cfg.Seed, uint64(time.Now().UnixNano()))),
		showHUD: a.cfg.Viewer.ShowHUD,
		width:   width,
		height:  height,
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Forward terminal events so the frame loop is their only consumer.
	events := make(chan uv.Event, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	a.log.Info("viewer started",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Uint64("seed", a.cfg.Seed))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return v.loop.Run(gctx, a.cfg.Physics.TickRate)
	})
	g.Go(func() error {
		defer cancel()
		return v.frames(gctx, term, events)
	})
	return g.Wait()
}

// frames renders at the configured FPS until ctx ends or the user quits.
func (v *viewer) frames(ctx context.Context, term *uv.Terminal, events <-chan uv.Event) error {
	targetDuration := time.Second / time.Duration(v.app.cfg.Viewer.FPS)

	for {
		frameStart := time.Now()

		// Handle everything that arrived since the last frame.
	drain:
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-events:
				quit, err := v.handle(ctx, term, ev)
				if err != nil {
					return err
				}
				if quit {
					return nil
				}
			default:
				break drain
			}
		}

		snap := v.loop.Snapshot()
		v.scene.draw(snap.Rotation)
		v.hud.UpdateFPS()

		term.Draw(&frame{viewer: v, snap: snap})
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		// Frame timing
		if elapsed := time.Since(frameStart); elapsed < targetDuration {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(targetDuration - elapsed):
			}
		}
	}
}

// handle applies one terminal event. It reports whether the viewer should
// quit.
func (v *viewer) handle(ctx context.Context, term *uv.Terminal, ev uv.Event) (bool, error) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.width, v.height = ev.Width, ev.Height
		term.Erase()
		term.Resize(v.width, v.height)
		v.scene.resize(v.width, v.height*2)

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "ctrl+c", "q"):
			return true, nil
		case ev.MatchString("space"):
			return false, v.send(ctx, dice.TimedRollInput(v.app.cfg.Physics.TimedDuration))
		case ev.MatchString("s"):
			return false, v.send(ctx, dice.SequentialRollInput())
		case ev.MatchString("f"):
			vx := (v.rng.Float64()*2 - 1) * flickSpeed
			vy := (v.rng.Float64()*2 - 1) * flickSpeed
			return false, v.send(ctx, dice.FlickRollInput(vx, vy))
		case ev.MatchString("r"):
			v.scene.dolly.Target = v.scene.home
			return false, v.send(ctx, dice.ResetInput())
		case ev.MatchString("x"):
			v.scene.wireframe = !v.scene.wireframe
		case ev.MatchString("?", "shift+/"):
			v.showHUD = !v.showHUD
		case ev.MatchString("+", "="):
			v.scene.dolly.Zoom(0.8)
		case ev.MatchString("-", "_"):
			v.scene.dolly.Zoom(1.25)
		}

	case uv.MouseClickEvent:
		v.mouseDown = true
		v.lastMouseX, v.lastMouseY = ev.X, ev.Y
		return false, v.send(ctx, dice.GestureInput(dice.Gesture{Phase: dice.GestureStart, At: time.Now()}))

	case uv.MouseReleaseEvent:
		if !v.mouseDown {
			return false, nil
		}
		v.mouseDown = false
		return false, v.send(ctx, dice.GestureInput(dice.Gesture{Phase: dice.GestureEnd, At: time.Now()}))

	case uv.MouseMotionEvent:
		if !v.mouseDown {
			return false, nil
		}
		dx := float64(ev.X-v.lastMouseX) * dragScaleX
		dy := float64(ev.Y-v.lastMouseY) * dragScaleY
		v.lastMouseX, v.lastMouseY = ev.X, ev.Y
		return false, v.send(ctx, dice.GestureInput(dice.Gesture{
			DX:    dx,
			DY:    dy,
			Phase: dice.GestureMove,
			At:    time.Now(),
		}))

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.scene.dolly.Zoom(0.9)
		case uv.MouseWheelDown:
			v.scene.dolly.Zoom(1.1)
		}
	}
	return false, nil
}

// send queues an engine input. A closed loop means shutdown is underway.
func (v *viewer) send(ctx context.Context, in dice.Input) error {
	err := v.loop.Send(ctx, in)
	if errors.Is(err, dice.ErrLoopClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// frame draws one rendered framebuffer plus its overlays.
type frame struct {
	viewer *viewer
	snap   dice.Snapshot
}

// Draw implements uv.Drawable.
func (f *frame) Draw(scr uv.Screen, area uv.Rectangle) {
	v := f.viewer
	fb := v.scene.fb
	fb.Draw(scr, area)

	for _, a := range v.scene.anchors(f.snap.Rotation) {
		if a.Facing < labelMinFacing {
			continue
		}
		text := strconv.Itoa(a.Label)
		fg := render.Contrast(fb.GetPixel(a.X, a.Y))
		if v.scene.wireframe {
			fg = wireColor
		}
		if a.Face == f.snap.Top.Index {
			text = "[" + text + "]"
		}
		render.DrawText(scr, a.X-len(text)/2, a.Y/2, text, fg, render.Color{})
	}

	if v.showHUD {
		v.hud.Draw(scr, v.width, v.height, f.snap, v.scene.wireframe)
	}
}

package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/log"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/whitted/pkg/math3d"
	"github.com/taigrr/whitted/pkg/render"
)

const (
	yawStep   = 0.15
	pitchStep = 0.1
	zoomStep  = 0.9
	maxPitch  = 1.45
	settleEps = 1e-4
)

type viewOptions struct {
	sceneOptions
	fps int
}

func newViewCmd(logger *log.Logger) *cobra.Command {
	opts := &viewOptions{}
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Explore a scene interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd.Context(), opts, logger)
		},
	}
	opts.register(cmd)
	cmd.Flags().IntVar(&opts.fps, "fps", 30, "Target FPS")
	return cmd
}

// OrbitAxis is one camera coordinate eased toward its target with a
// critically damped spring.
type OrbitAxis struct {
	Position float64
	Target   float64
	velocity float64
	spring   harmonica.Spring
}

// NewOrbitAxis creates an axis resting at pos.
func NewOrbitAxis(fps int, pos float64) OrbitAxis {
	return OrbitAxis{
		Position: pos,
		Target:   pos,
		// Frequency 6.0 = snappy, damping 1.0 = no overshoot
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Update advances the spring one frame.
func (a *OrbitAxis) Update() {
	a.Position, a.velocity = a.spring.Update(a.Position, a.velocity, a.Target)
}

// Settled reports whether the axis has come to rest on its target.
func (a *OrbitAxis) Settled() bool {
	return math.Abs(a.Position-a.Target) < settleEps && math.Abs(a.velocity) < settleEps
}

// OrbitState is the camera's yaw, pitch and distance around a focus point.
type OrbitState struct {
	Yaw, Pitch, Dist OrbitAxis
	focus            math3d.Vec3
	fov              float64
	home             [3]float64
	fps              int
}

// NewOrbitState derives orbit coordinates from a view and its focus point.
func NewOrbitState(fps int, view render.View, focus math3d.Vec3) *OrbitState {
	offset := view.Eye.Sub(focus)
	dist := offset.Len()
	if dist == 0 {
		dist = 1
	}
	yaw := math.Atan2(offset.X, offset.Z)
	pitch := math.Asin(offset.Y / dist)

	o := &OrbitState{focus: focus, fov: view.FOV, home: [3]float64{yaw, pitch, dist}, fps: fps}
	o.Reset()
	return o
}

// Reset returns the camera to its starting position.
func (o *OrbitState) Reset() {
	o.Yaw = NewOrbitAxis(o.fps, o.home[0])
	o.Pitch = NewOrbitAxis(o.fps, o.home[1])
	o.Dist = NewOrbitAxis(o.fps, o.home[2])
}

// Turn moves the yaw and pitch targets, keeping pitch off the poles.
func (o *OrbitState) Turn(dyaw, dpitch float64) {
	o.Yaw.Target += dyaw
	o.Pitch.Target = max(-maxPitch, min(maxPitch, o.Pitch.Target+dpitch))
}

// Zoom scales the distance target, staying within [home/8, home*8].
func (o *OrbitState) Zoom(factor float64) {
	home := o.home[2]
	o.Dist.Target = max(home/8, min(home*8, o.Dist.Target*factor))
}

// Update advances every axis one frame.
func (o *OrbitState) Update() {
	o.Yaw.Update()
	o.Pitch.Update()
	o.Dist.Update()
}

// Settled reports whether the camera has stopped moving.
func (o *OrbitState) Settled() bool {
	return o.Yaw.Settled() && o.Pitch.Settled() && o.Dist.Settled()
}

// View returns the current camera.
func (o *OrbitState) View() render.View {
	return render.Orbit(o.focus, o.Yaw.Position, o.Pitch.Position, o.Dist.Position, o.fov)
}

// handleKey applies a key press and reports whether the viewer should quit.
func (o *OrbitState) handleKey(ev uv.KeyPressEvent) (quit bool) {
	switch {
	case ev.MatchString("escape", "q", "ctrl+c"):
		return true
	case ev.MatchString("a", "left"):
		o.Turn(-yawStep, 0)
	case ev.MatchString("d", "right"):
		o.Turn(yawStep, 0)
	case ev.MatchString("w", "up"):
		o.Turn(0, pitchStep)
	case ev.MatchString("s", "down"):
		o.Turn(0, -pitchStep)
	case ev.MatchString("+", "="):
		o.Zoom(zoomStep)
	case ev.MatchString("-", "_"):
		o.Zoom(1 / zoomStep)
	case ev.MatchString("r"):
		o.Reset()
	}
	return false
}

func runView(ctx context.Context, opts *viewOptions, logger *log.Logger) error {
	if opts.fps <= 0 {
		opts.fps = 30
	}
	s, err := opts.build()
	if err != nil {
		return err
	}
	tracer, err := opts.tracer(s)
	if err != nil {
		return err
	}
	renderer := opts.renderer(tracer)
	orbit := NewOrbitState(opts.fps, s.View, s.Focus)

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ticker := time.NewTicker(time.Second / time.Duration(opts.fps))
	defer ticker.Stop()

	frames := 0
	dirty := true
	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			cleanup()
			logger.Debug("viewer closed", "frames", frames, "took", time.Since(start).Round(time.Millisecond))
			return nil

		case ev := <-term.Events():
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				dirty = true
			case uv.KeyPressEvent:
				if orbit.handleKey(ev) {
					cancel()
				}
			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					orbit.Zoom(zoomStep)
				case uv.MouseWheelDown:
					orbit.Zoom(1 / zoomStep)
				}
			}

		case <-ticker.C:
			// Tracing is expensive, so only redraw while the camera moves.
			if (orbit.Settled() && !dirty) || width <= 0 || height <= 0 {
				continue
			}
			orbit.Update()
			dirty = false

			img := render.NewImage(render.TerminalSize(width, height))
			if err := renderer.Render(orbit.View(), img); err != nil {
				cleanup()
				return fmt.Errorf("render: %w", err)
			}
			term.Draw(img)
			if err := term.Display(); err != nil {
				cleanup()
				return fmt.Errorf("display: %w", err)
			}
			frames++
		}
	}
}

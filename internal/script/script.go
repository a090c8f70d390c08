// Package script reads YAML gesture scripts and replays them against a
// zoom view, producing rendered frames.
//
// Example:
//
//	viewport: {width: 300, height: 300}
//	density: 2
//	steps:
//	  - pan: {phase: started}
//	  - pan: {phase: running, x: 50, y: 50}
//	  - pan: {phase: ended}
//	  - pinch: {phase: started, focus_x: 0.5, focus_y: 0.5}
//	  - pinch: {phase: running, scale: 2}
//	  - paint: zoomed.png
package script

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"strings"

	"zoompan/internal/render"
	"zoompan/internal/zoompan"
	"zoompan/pkg/geometry"

	"gopkg.in/yaml.v3"
)

// Phase is a gesture phase spelled out in YAML.
type Phase zoompan.GesturePhase

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Phase) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch strings.ToLower(s) {
	case "started", "start":
		*p = Phase(zoompan.PhaseStarted)
	case "running", "run":
		*p = Phase(zoompan.PhaseRunning)
	case "ended", "end":
		*p = Phase(zoompan.PhaseEnded)
	case "canceled", "cancelled", "cancel":
		*p = Phase(zoompan.PhaseCanceled)
	default:
		return fmt.Errorf("line %d: unknown gesture phase %q", value.Line, s)
	}
	return nil
}

// Pan is one pan update with cumulative totals in logical units.
type Pan struct {
	Phase Phase   `yaml:"phase"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
}

// Pinch is one pinch update.
type Pinch struct {
	Phase  Phase   `yaml:"phase"`
	FocusX float64 `yaml:"focus_x"`
	FocusY float64 `yaml:"focus_y"`
	Scale  float64 `yaml:"scale"`
}

// Step holds exactly one action.
type Step struct {
	Pan   *Pan   `yaml:"pan"`
	Pinch *Pinch `yaml:"pinch"`
	// Paint renders a frame with this name.
	Paint string `yaml:"paint"`
	Reset bool   `yaml:"reset"`
}

func (s Step) actions() int {
	n := 0
	if s.Pan != nil {
		n++
	}
	if s.Pinch != nil {
		n++
	}
	if s.Paint != "" {
		n++
	}
	if s.Reset {
		n++
	}
	return n
}

// Viewport is the logical size of the simulated view.
type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Script is a parsed gesture script.
type Script struct {
	Viewport Viewport `yaml:"viewport"`
	// Density is the logical-to-device factor; zero leaves it to the caller.
	Density float64 `yaml:"density"`
	Steps   []Step  `yaml:"steps"`
}

// Frame is one painted image.
type Frame struct {
	Name  string
	Image *image.RGBA
}

// Parse decodes and validates a script.
func Parse(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty script")
		}
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the viewport and that every step does one thing.
func (s *Script) Validate() error {
	if s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %gx%g", s.Viewport.Width, s.Viewport.Height)
	}
	if s.Density < 0 {
		return fmt.Errorf("density must not be negative, got %g", s.Density)
	}
	for i, step := range s.Steps {
		if n := step.actions(); n != 1 {
			return fmt.Errorf("step %d: want exactly one action, got %d", i+1, n)
		}
	}
	return nil
}

// FrameSize returns the device pixel size of painted frames for a view
// with the given density.
func (s *Script) FrameSize(density float64) image.Point {
	return image.Pt(
		int(math.Round(s.Viewport.Width*density)),
		int(math.Round(s.Viewport.Height*density)),
	)
}

// Run replays the steps against v and calls emit for every paint step.
func (s *Script) Run(v *zoompan.View, emit func(Frame) error) error {
	v.SetViewport(geometry.NewSize(s.Viewport.Width, s.Viewport.Height))
	size := s.FrameSize(v.Density())
	fonts := render.DefaultFonts()

	for i, step := range s.Steps {
		switch {
		case step.Pan != nil:
			v.OnPanEvent(zoompan.PanEvent{
				Phase:  zoompan.GesturePhase(step.Pan.Phase),
				TotalX: step.Pan.X,
				TotalY: step.Pan.Y,
			})

		case step.Pinch != nil:
			v.OnPinchEvent(zoompan.PinchEvent{
				Phase:  zoompan.GesturePhase(step.Pinch.Phase),
				FocusX: step.Pinch.FocusX,
				FocusY: step.Pinch.FocusY,
				Scale:  step.Pinch.Scale,
			})

		case step.Reset:
			v.Reset()

		case step.Paint != "":
			img := image.NewRGBA(image.Rectangle{Max: size})
			v.OnPaint(render.NewImageCanvas(img, fonts))
			if err := emit(Frame{Name: step.Paint, Image: img}); err != nil {
				return fmt.Errorf("step %d (%s): %w", i+1, step.Paint, err)
			}
		}
	}
	return nil
}

package zoompan

import (
	"fmt"

	"zoompan/pkg/geometry"
)

// GesturePhase is the lifecycle position reported with each gesture update.
type GesturePhase int

const (
	PhaseStarted GesturePhase = iota
	PhaseRunning
	PhaseEnded
	PhaseCanceled
)

func (p GesturePhase) String() string {
	switch p {
	case PhaseStarted:
		return "Started"
	case PhaseRunning:
		return "Running"
	case PhaseEnded:
		return "Ended"
	case PhaseCanceled:
		return "Canceled"
	default:
		return fmt.Sprintf("GesturePhase(%d)", int(p))
	}
}

// PanEvent reports the distance moved since the pan started, in logical units.
type PanEvent struct {
	Phase  GesturePhase
	TotalX float64
	TotalY float64
}

func (e PanEvent) String() string {
	return fmt.Sprintf("%s (%g,%g)", e.Phase, e.TotalX, e.TotalY)
}

// PinchEvent reports one pinch update. Focus is the pinch origin as a
// fraction of the viewport (0..1 on each axis); Scale is the multiplier since
// the previous update, not since the pinch started.
type PinchEvent struct {
	Phase  GesturePhase
	FocusX float64
	FocusY float64
	Scale  float64
}

func (e PinchEvent) String() string {
	return fmt.Sprintf("%s (%g,%g) %g", e.Phase, e.FocusX, e.FocusY, e.Scale)
}

// panSession is the state of one in-progress pan.
type panSession struct {
	active bool
	start  geometry.AffineTransform
}

func (s *panSession) begin(m geometry.AffineTransform) {
	s.active = true
	s.start = m
}

func (s *panSession) reset() {
	s.active = false
	s.start = geometry.Identity()
}

// delta returns the translation for a cumulative pan of (totalX, totalY)
// logical units.
func (s *panSession) delta(totalX, totalY, density float64) geometry.AffineTransform {
	return geometry.Translation(totalX*density, totalY*density)
}

// pinchSession is the state of one in-progress pinch.
type pinchSession struct {
	active bool
	start  geometry.AffineTransform
	anchor geometry.Point2D // device pixels
	scale  float64          // product of all multipliers since begin
}

func (s *pinchSession) begin(m geometry.AffineTransform, anchor geometry.Point2D) {
	s.active = true
	s.start = m
	s.anchor = anchor
	s.scale = 1
}

func (s *pinchSession) reset() {
	s.active = false
	s.start = geometry.Identity()
	s.anchor = geometry.Point2D{}
	s.scale = 1
}

func (s *pinchSession) delta() geometry.AffineTransform {
	return geometry.ScaleAbout(s.scale, s.scale, s.anchor.X, s.anchor.Y)
}

// Package zoompan implements a pan/pinch zoomable view over a bitmap with a
// cached grid of text labels drawn on top.
//
// A View keeps one current transform M. Each gesture snapshots M when it
// starts and every running update recomputes M = D ∘ M_start from the
// cumulative gesture amount, so repeated updates never drift. The label
// overlay is rendered into an offscreen layer and reused across paints until
// it is invalidated.
//
// A View is not safe for concurrent use; hosts deliver gesture and paint
// callbacks from a single goroutine or serialize them.
package zoompan

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"strings"

	"zoompan/internal/render"
	"zoompan/pkg/geometry"
)

// Strategy selects how the cached overlay follows the transform between
// rebuilds.
type Strategy int

const (
	// Reprojected draws the cached overlay through the transform applied
	// since it was built and rebuilds it when a gesture ends.
	Reprojected Strategy = iota
	// Simple draws the cached overlay unscaled and rebuilds it after every
	// transform change.
	Simple
)

func (s Strategy) String() string {
	switch s {
	case Reprojected:
		return "reprojected"
	case Simple:
		return "simple"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy converts a configuration string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reprojected":
		return Reprojected, nil
	case "simple":
		return Simple, nil
	default:
		return 0, fmt.Errorf("unknown overlay strategy %q", s)
	}
}

// OverlayStyle describes the label grid.
type OverlayStyle struct {
	Label    string
	CellSize float64 // Grid cell edge in device pixels, before the transform
	TextSize float64
	Color    color.Color
}

// DefaultOverlayStyle returns red 10px "Hi" labels every 15 pixels.
func DefaultOverlayStyle() OverlayStyle {
	return OverlayStyle{
		Label:    "Hi",
		CellSize: 15,
		TextSize: 10,
		Color:    color.RGBA{R: 255, A: 255},
	}
}

func (s OverlayStyle) validate() error {
	if s.CellSize <= 0 || math.IsInf(s.CellSize, 0) || math.IsNaN(s.CellSize) {
		return fmt.Errorf("overlay cell size must be positive, got %v", s.CellSize)
	}
	if s.TextSize < 0 {
		return fmt.Errorf("overlay text size must not be negative, got %v", s.TextSize)
	}
	if s.Color == nil {
		return errors.New("overlay color is nil")
	}
	return nil
}

// Options configures a View.
type Options struct {
	// Density converts logical input units to device pixels.
	Density  float64
	Strategy Strategy
	// Overlay defaults to DefaultOverlayStyle when zero.
	Overlay OverlayStyle
	// MinScale and MaxScale bound the total scale a pinch may reach;
	// zero leaves that side unbounded.
	MinScale float64
	MaxScale float64
	// Allocator provides overlay layers; nil uses a render.Pool.
	Allocator render.Allocator
	// Debug logs every gesture update.
	Debug bool
}

// Handler receives input and paint callbacks from a host toolkit.
type Handler interface {
	OnPanEvent(ev PanEvent)
	OnPinchEvent(ev PinchEvent)
	OnPaint(c render.Canvas)
}

// View is the zoom/pan component.
type View struct {
	base     image.Image
	density  float64
	viewport geometry.Size // logical units

	m     geometry.AffineTransform
	pan   panSession
	pinch pinchSession

	overlay  overlayCache
	strategy Strategy
	style    OverlayStyle
	alloc    render.Allocator

	minScale float64
	maxScale float64
	debug    bool

	onInvalidate func()
}

var _ Handler = (*View)(nil)

// New creates a view over base. The base image is never modified.
func New(base image.Image, opts Options) (*View, error) {
	if base == nil {
		return nil, errors.New("zoompan: base image is nil")
	}
	if base.Bounds().Empty() {
		return nil, fmt.Errorf("zoompan: base image is empty (%v)", base.Bounds())
	}
	if err := checkDensity(opts.Density); err != nil {
		return nil, err
	}
	if opts.Strategy != Reprojected && opts.Strategy != Simple {
		return nil, fmt.Errorf("zoompan: unknown strategy %v", opts.Strategy)
	}
	if opts.MinScale < 0 || opts.MaxScale < 0 ||
		(opts.MinScale > 0 && opts.MaxScale > 0 && opts.MinScale > opts.MaxScale) {
		return nil, fmt.Errorf("zoompan: invalid scale bounds [%v, %v]", opts.MinScale, opts.MaxScale)
	}

	style := opts.Overlay
	if style == (OverlayStyle{}) {
		style = DefaultOverlayStyle()
	}
	if err := style.validate(); err != nil {
		return nil, fmt.Errorf("zoompan: %w", err)
	}

	alloc := opts.Allocator
	if alloc == nil {
		alloc = render.NewPool(nil)
	}

	v := &View{
		base:     base,
		density:  opts.Density,
		m:        geometry.Identity(),
		strategy: opts.Strategy,
		style:    style,
		alloc:    alloc,
		minScale: opts.MinScale,
		maxScale: opts.MaxScale,
		debug:    opts.Debug,
	}
	v.pan.reset()
	v.pinch.reset()
	return v, nil
}

// OnInvalidate sets the callback used to request a repaint. The host may
// coalesce several requests into one paint.
func (v *View) OnInvalidate(callback func()) {
	v.onInvalidate = callback
}

// SetViewport records the logical size of the view. Pinch focus fractions
// are resolved against it.
func (v *View) SetViewport(size geometry.Size) {
	if size == v.viewport {
		return
	}
	v.viewport = size
	v.invalidate()
}

// Viewport returns the logical viewport size.
func (v *View) Viewport() geometry.Size {
	return v.viewport
}

// Density returns the logical-to-device pixel factor.
func (v *View) Density() float64 {
	return v.density
}

// SetDensity changes the logical-to-device pixel factor, for hosts that only
// learn it once the first frame is drawn or when the window moves between
// displays. Gestures in progress keep their snapshot and anchor.
func (v *View) SetDensity(density float64) error {
	if err := checkDensity(density); err != nil {
		return err
	}
	if density == v.density {
		return nil
	}
	v.tracef("View: density %.3f -> %.3f", v.density, density)
	v.density = density
	v.invalidate()
	return nil
}

func checkDensity(d float64) error {
	if !(d > 0) || math.IsInf(d, 0) {
		return fmt.Errorf("zoompan: density must be a positive number, got %v", d)
	}
	return nil
}

// Strategy returns the overlay strategy.
func (v *View) Strategy() Strategy {
	return v.strategy
}

// Transform returns the current transform.
func (v *View) Transform() geometry.AffineTransform {
	return v.m
}

// Reset discards any gesture in progress and returns to the identity transform.
func (v *View) Reset() {
	v.pan.reset()
	v.pinch.reset()
	v.m = geometry.Identity()
	v.overlay.invalidate()
	v.invalidate()
}

// SetOverlayStyle replaces the label grid settings and schedules a rebuild.
func (v *View) SetOverlayStyle(style OverlayStyle) error {
	if err := style.validate(); err != nil {
		return err
	}
	v.style = style
	v.overlay.invalidate()
	v.invalidate()
	return nil
}

// OverlayStyle returns the label grid settings.
func (v *View) OverlayStyle() OverlayStyle {
	return v.style
}

// Close releases the overlay layer.
func (v *View) Close() {
	v.overlay.invalidate()
}

// OnPanEvent applies a pan update. Pan and pinch are tracked separately and
// both write M; when they overlap the later callback wins.
func (v *View) OnPanEvent(ev PanEvent) {
	v.tracef("Pan: %s", ev)

	switch ev.Phase {
	case PhaseStarted:
		v.pan.begin(v.m)

	case PhaseRunning:
		if !v.pan.active {
			v.pan.begin(v.m)
		}
		if !finite(ev.TotalX) || !finite(ev.TotalY) {
			v.tracef("Pan: ignoring totals (%v, %v)", ev.TotalX, ev.TotalY)
			return
		}
		d := v.pan.delta(ev.TotalX, ev.TotalY, v.density)
		v.setTransform(d.Compose(v.pan.start))

	default:
		v.pan.reset()
		v.overlay.invalidate()
		v.invalidate()
	}
}

// OnPinchEvent applies a pinch update.
func (v *View) OnPinchEvent(ev PinchEvent) {
	v.tracef("Pinch: %s", ev)

	switch ev.Phase {
	case PhaseStarted:
		v.pinch.begin(v.m, v.anchor(ev))

	case PhaseRunning:
		if !v.pinch.active {
			v.pinch.begin(v.m, v.anchor(ev))
		}
		if !(ev.Scale > 0) || math.IsInf(ev.Scale, 0) {
			v.tracef("Pinch: ignoring scale %v", ev.Scale)
			return
		}
		v.pinch.scale = v.clampScale(v.pinch.scale * ev.Scale)
		v.setTransform(v.pinch.delta().Compose(v.pinch.start))

	default:
		v.pinch.reset()
		v.overlay.invalidate()
		v.invalidate()
	}
}

// anchor converts a pinch focus fraction into device pixels.
func (v *View) anchor(ev PinchEvent) geometry.Point2D {
	return geometry.Point2D{
		X: ev.FocusX * v.viewport.Width * v.density,
		Y: ev.FocusY * v.viewport.Height * v.density,
	}
}

// clampScale limits the cumulative pinch factor so that the resulting
// transform stays within [minScale, maxScale].
func (v *View) clampScale(total float64) float64 {
	base := v.pinch.start.ScaleFactor()
	if base == 0 {
		return total
	}
	if s := base * total; v.maxScale > 0 && s > v.maxScale {
		total = v.maxScale / base
	}
	if s := base * total; v.minScale > 0 && s < v.minScale {
		total = v.minScale / base
	}
	return total
}

func (v *View) setTransform(m geometry.AffineTransform) {
	v.m = m
	if v.strategy == Simple {
		v.overlay.invalidate()
	}
	v.invalidate()
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (v *View) invalidate() {
	if v.onInvalidate != nil {
		v.onInvalidate()
	}
}

func (v *View) tracef(format string, args ...interface{}) {
	if v.debug {
		log.Printf(format, args...)
	}
}

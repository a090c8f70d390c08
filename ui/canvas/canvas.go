// Package canvas provides the Fyne widget that hosts a zoom/pan view.
package canvas

import (
	"image"
	"log"
	"math"
	"sync"

	"zoompan/internal/render"
	"zoompan/internal/zoompan"
	"zoompan/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

const (
	zoomStep    = 1.25 // Scale change per wheel notch
	scrollNotch = 10   // Fyne reports one wheel notch as about 10 units
)

// ZoomCanvas adapts Fyne input and drawing to a zoompan.View.
//
// Drags become pan gestures with cumulative totals, the scroll wheel becomes
// a one-step pinch around the pointer, and a double tap resets the view.
// Fyne may draw on a different goroutine than it delivers events on, so
// every call into the view holds mu.
type ZoomCanvas struct {
	widget.BaseWidget

	mu     sync.Mutex
	view   *zoompan.View
	fonts  *render.FontCache
	raster *fynecanvas.Raster

	// Set by the view's invalidate callback; flushed as one Refresh.
	dirty bool

	// Derive density from the raster's pixel size on every draw
	autoDensity bool

	// Drag state (logical units since the drag started)
	dragging bool
	dragX    float64
	dragY    float64
}

var (
	_ fyne.Draggable      = (*ZoomCanvas)(nil)
	_ fyne.Scrollable     = (*ZoomCanvas)(nil)
	_ fyne.DoubleTappable = (*ZoomCanvas)(nil)
)

// NewZoomCanvas creates a widget drawing view.
func NewZoomCanvas(view *zoompan.View) *ZoomCanvas {
	zc := &ZoomCanvas{
		view:  view,
		fonts: render.DefaultFonts(),
	}
	zc.raster = fynecanvas.NewRaster(zc.draw)
	zc.raster.ScaleMode = fynecanvas.ImageScalePixels
	zc.raster.SetMinSize(fyne.NewSize(100, 100))

	view.OnInvalidate(func() {
		zc.dirty = true
	})

	zc.ExtendBaseWidget(zc)
	return zc
}

// CreateRenderer implements fyne.Widget.
func (zc *ZoomCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zc.raster)
}

// Resize records the new logical viewport before laying out.
func (zc *ZoomCanvas) Resize(size fyne.Size) {
	zc.Update(func(v *zoompan.View) {
		v.SetViewport(geometry.NewSize(float64(size.Width), float64(size.Height)))
	})
	zc.BaseWidget.Resize(size)
}

// SetAutoDensity makes each draw set the view density to the ratio of the
// raster's pixel width to the widget's logical width. Fyne only knows the
// display scale once the window is shown, and it changes when the window
// moves to another monitor.
func (zc *ZoomCanvas) SetAutoDensity(on bool) {
	zc.mu.Lock()
	zc.autoDensity = on
	zc.mu.Unlock()
}

// Update runs fn with exclusive access to the view and repaints if fn
// requested it. Safe to call from any goroutine.
func (zc *ZoomCanvas) Update(fn func(v *zoompan.View)) {
	zc.mu.Lock()
	fn(zc.view)
	dirty := zc.dirty
	zc.dirty = false
	zc.mu.Unlock()

	if dirty {
		zc.raster.Refresh()
	}
}

// Dragged implements fyne.Draggable.
func (zc *ZoomCanvas) Dragged(ev *fyne.DragEvent) {
	zc.Update(func(v *zoompan.View) {
		if !zc.dragging {
			zc.dragging = true
			zc.dragX, zc.dragY = 0, 0
			v.OnPanEvent(zoompan.PanEvent{Phase: zoompan.PhaseStarted})
		}
		zc.dragX += float64(ev.Dragged.DX)
		zc.dragY += float64(ev.Dragged.DY)
		v.OnPanEvent(zoompan.PanEvent{
			Phase:  zoompan.PhaseRunning,
			TotalX: zc.dragX,
			TotalY: zc.dragY,
		})
	})
}

// DragEnd implements fyne.Draggable.
func (zc *ZoomCanvas) DragEnd() {
	zc.Update(func(v *zoompan.View) {
		if !zc.dragging {
			return
		}
		zc.dragging = false
		v.OnPanEvent(zoompan.PanEvent{Phase: zoompan.PhaseEnded})
	})
}

// Scrolled implements fyne.Scrollable. Desktop pointers have no pinch, so
// each wheel event is delivered as a complete pinch around the pointer.
func (zc *ZoomCanvas) Scrolled(ev *fyne.ScrollEvent) {
	size := zc.Size()
	if size.Width <= 0 || size.Height <= 0 || ev.Scrolled.DY == 0 {
		return
	}

	focusX := float64(ev.Position.X / size.Width)
	focusY := float64(ev.Position.Y / size.Height)
	factor := math.Pow(zoomStep, float64(ev.Scrolled.DY)/scrollNotch)

	zc.Update(func(v *zoompan.View) {
		for _, phase := range []zoompan.GesturePhase{zoompan.PhaseStarted, zoompan.PhaseRunning, zoompan.PhaseEnded} {
			v.OnPinchEvent(zoompan.PinchEvent{
				Phase:  phase,
				FocusX: focusX,
				FocusY: focusY,
				Scale:  factor,
			})
		}
	})
}

// DoubleTapped implements fyne.DoubleTappable.
func (zc *ZoomCanvas) DoubleTapped(*fyne.PointEvent) {
	zc.Update(func(v *zoompan.View) {
		v.Reset()
	})
}

// Close releases the view's offscreen resources.
func (zc *ZoomCanvas) Close() {
	zc.Update(func(v *zoompan.View) {
		v.Close()
	})
}

// draw is the raster drawing function.
func (zc *ZoomCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))

	zc.mu.Lock()
	defer zc.mu.Unlock()
	if zc.autoDensity {
		if size := zc.Size(); size.Width > 0 && w > 0 {
			if err := zc.view.SetDensity(float64(w) / float64(size.Width)); err != nil {
				log.Printf("ZoomCanvas: %v", err)
			}
		}
	}
	zc.view.OnPaint(render.NewImageCanvas(output, zc.fonts))
	zc.dirty = false

	return output
}

// Package render provides the 2D immediate-mode canvas used to draw the
// zoom/pan view, together with an implementation backed by *image.RGBA.
package render

import (
	"image"
	"image/color"

	"zoompan/pkg/geometry"
)

// Style selects how text glyphs are painted.
type Style int

const (
	StyleFill   Style = iota // Solid glyphs
	StyleStroke              // One-pixel glyph outline
)

func (s Style) String() string {
	switch s {
	case StyleFill:
		return "fill"
	case StyleStroke:
		return "stroke"
	default:
		return "unknown"
	}
}

// TextAlign is the horizontal alignment of text relative to its anchor x.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// Filter is the resampling kernel used when a bitmap is drawn through a
// non-integer transform.
type Filter int

const (
	FilterBilinear Filter = iota
	FilterNearest
	FilterCatmullRom
)

// Paint holds drawing attributes. A nil *Paint means DefaultPaint.
type Paint struct {
	Color     color.Color
	TextSize  float64 // Pixels, before the canvas transform
	AntiAlias bool
	Style     Style
	TextAlign TextAlign
	Filter    Filter
}

// DefaultPaint returns black, 12px, anti-aliased, left-aligned fill.
func DefaultPaint() Paint {
	return Paint{
		Color:     color.Black,
		TextSize:  12,
		AntiAlias: true,
		Style:     StyleFill,
		TextAlign: AlignLeft,
		Filter:    FilterBilinear,
	}
}

// Canvas is a 2D immediate-mode drawing surface with a current transform.
//
// Save pushes the current transform and Restore pops it; callers pair them
// with defer so the state is restored on every return path.
type Canvas interface {
	// Size returns the surface size in device pixels.
	Size() (width, height int)
	// Clear replaces every pixel with c; nil means transparent.
	Clear(c color.Color)
	SetTransform(m geometry.AffineTransform)
	Transform() geometry.AffineTransform
	// DrawBitmap draws img scaled into dst, where dst is in the coordinate
	// space of the current transform.
	DrawBitmap(img image.Image, dst geometry.Rect, p *Paint)
	// DrawText draws s with its baseline at y and horizontal alignment
	// relative to x, both in the coordinate space of the current transform.
	DrawText(s string, x, y float64, p *Paint)
	Save()
	Restore()
}

// Layer is an offscreen bitmap with its own canvas.
// Release must be called once the layer is no longer drawn.
type Layer interface {
	Canvas() Canvas
	Image() image.Image
	Size() (width, height int)
	Release()
}

// Allocator creates offscreen layers.
type Allocator interface {
	NewLayer(width, height int) Layer
}

package render

import (
	"image"
	"image/color"
	"math"

	"zoompan/pkg/geometry"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// ImageCanvas draws onto an *image.RGBA.
type ImageCanvas struct {
	dst   *image.RGBA
	m     geometry.AffineTransform
	saved []geometry.AffineTransform
	fonts *FontCache
}

var _ Canvas = (*ImageCanvas)(nil)

// NewImageCanvas creates a canvas over dst with an identity transform.
// A nil fonts uses the shared Go Regular cache.
func NewImageCanvas(dst *image.RGBA, fonts *FontCache) *ImageCanvas {
	if fonts == nil {
		fonts = DefaultFonts()
	}
	return &ImageCanvas{
		dst:   dst,
		m:     geometry.Identity(),
		fonts: fonts,
	}
}

// Image returns the destination image.
func (c *ImageCanvas) Image() *image.RGBA {
	return c.dst
}

func (c *ImageCanvas) Size() (int, int) {
	b := c.dst.Bounds()
	return b.Dx(), b.Dy()
}

func (c *ImageCanvas) Clear(col color.Color) {
	if col == nil {
		col = color.Transparent
	}
	draw.Draw(c.dst, c.dst.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *ImageCanvas) SetTransform(m geometry.AffineTransform) {
	c.m = m
}

func (c *ImageCanvas) Transform() geometry.AffineTransform {
	return c.m
}

func (c *ImageCanvas) Save() {
	c.saved = append(c.saved, c.m)
}

// Restore pops the most recently saved transform. Unbalanced calls are ignored.
func (c *ImageCanvas) Restore() {
	n := len(c.saved)
	if n == 0 {
		return
	}
	c.m = c.saved[n-1]
	c.saved = c.saved[:n-1]
}

func (c *ImageCanvas) DrawBitmap(img image.Image, dst geometry.Rect, p *Paint) {
	sb := img.Bounds()
	if sb.Empty() || dst.Width <= 0 || dst.Height <= 0 {
		return
	}

	// source pixels -> dst rect -> device
	place := geometry.Translation(dst.X, dst.Y).
		Compose(geometry.Scale(dst.Width/float64(sb.Dx()), dst.Height/float64(sb.Dy()))).
		Compose(geometry.Translation(-float64(sb.Min.X), -float64(sb.Min.Y)))
	s2d := c.m.Compose(place)

	if off, ok := integerOffset(s2d); ok {
		draw.Draw(c.dst, sb.Add(off), img, sb.Min, draw.Over)
		return
	}

	aff := f64.Aff3{s2d.A, s2d.B, s2d.TX, s2d.C, s2d.D, s2d.TY}
	transformer(p).Transform(c.dst, aff, img, sb, draw.Over, nil)
}

func (c *ImageCanvas) DrawText(s string, x, y float64, p *Paint) {
	paint := resolve(p)
	size := paint.TextSize * c.m.ScaleFactor()
	if s == "" || size <= 0 {
		return
	}

	origin := c.m.Apply(geometry.NewPoint2D(x, y))
	mask := textMask(c.fonts.Face(size), s, origin, paint)
	if mask == nil {
		return
	}
	draw.DrawMask(c.dst, mask.Rect, image.NewUniform(paint.Color), image.Point{},
		mask, mask.Rect.Min, draw.Over)
}

// integerOffset reports whether m is a pure whole-pixel translation.
func integerOffset(m geometry.AffineTransform) (image.Point, bool) {
	if m.A != 1 || m.D != 1 || m.B != 0 || m.C != 0 {
		return image.Point{}, false
	}
	if m.TX != math.Trunc(m.TX) || m.TY != math.Trunc(m.TY) {
		return image.Point{}, false
	}
	return image.Pt(int(m.TX), int(m.TY)), true
}

func transformer(p *Paint) draw.Transformer {
	switch resolve(p).Filter {
	case FilterNearest:
		return draw.NearestNeighbor
	case FilterCatmullRom:
		return draw.CatmullRom
	default:
		return draw.BiLinear
	}
}

func resolve(p *Paint) Paint {
	if p == nil {
		return DefaultPaint()
	}
	out := *p
	if out.Color == nil {
		out.Color = color.Black
	}
	return out
}

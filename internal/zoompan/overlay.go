package zoompan

import (
	"zoompan/internal/render"
	"zoompan/pkg/geometry"
)

// overlayCache holds the pre-rendered label grid.
type overlayCache struct {
	layer  render.Layer
	built  geometry.AffineTransform // M when layer was rendered
	builds int
}

func (o *overlayCache) valid(width, height int) bool {
	if o.layer == nil {
		return false
	}
	w, h := o.layer.Size()
	return w == width && h == height
}

// invalidate releases the layer so the next paint rebuilds it.
func (o *overlayCache) invalidate() {
	if o.layer != nil {
		o.layer.Release()
		o.layer = nil
	}
}

// OnPaint draws one frame: the base image fitted to the viewport through M,
// then the label overlay.
func (v *View) OnPaint(c render.Canvas) {
	w, h := c.Size()
	c.Clear(nil)
	v.paintBase(c, w, h)
	v.paintOverlay(c, w, h)
}

func (v *View) paintBase(c render.Canvas, w, h int) {
	c.Save()
	defer c.Restore()

	c.SetTransform(v.m)
	b := v.base.Bounds()
	dst := geometry.AspectFit(
		geometry.NewRect(0, 0, float64(w), float64(h)),
		geometry.NewSize(float64(b.Dx()), float64(b.Dy())),
	)
	c.DrawBitmap(v.base, dst, nil)
}

func (v *View) paintOverlay(c render.Canvas, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if !v.overlay.valid(w, h) {
		v.overlay.invalidate()
		v.rebuildOverlay(w, h)
	}

	c.Save()
	defer c.Restore()

	c.SetTransform(v.overlayTransform())
	c.DrawBitmap(v.overlay.layer.Image(), geometry.NewRect(0, 0, float64(w), float64(h)), nil)
}

// overlayTransform is the transform applied since the overlay was built.
func (v *View) overlayTransform() geometry.AffineTransform {
	if v.strategy == Simple || v.m == v.overlay.built {
		return geometry.Identity()
	}
	inv, ok := v.overlay.built.Inverse()
	if !ok {
		return geometry.Identity()
	}
	return v.m.Compose(inv)
}

func (v *View) rebuildOverlay(w, h int) {
	layer := v.alloc.NewLayer(w, h)
	lc := layer.Canvas()
	lc.Clear(nil)
	lc.SetTransform(v.m)
	drawLabelGrid(lc, float64(w), float64(h), v.style)

	v.overlay.layer = layer
	v.overlay.built = v.m
	v.overlay.builds++
	v.tracef("Overlay: rebuilt %dx%d (build %d)", w, h, v.overlay.builds)
}

// drawLabelGrid draws one centered label per cell, column by column.
func drawLabelGrid(c render.Canvas, w, h float64, style OverlayStyle) {
	paint := &render.Paint{
		Color:     style.Color,
		TextSize:  style.TextSize,
		AntiAlias: true,
		Style:     render.StyleFill,
		TextAlign: render.AlignCenter,
	}

	cell := style.CellSize
	for i := 0; float64(i)*cell < w; i++ {
		for j := 0; float64(j)*cell < h; j++ {
			mid := geometry.NewRect(float64(i)*cell, float64(j)*cell, cell, cell).Center()
			c.DrawText(style.Label, mid.X, mid.Y, paint)
		}
	}
}

package render

import (
	"image"
	"sync"
)

// Pool is an Allocator that recycles layer pixel buffers.
type Pool struct {
	buffers sync.Pool
	fonts   *FontCache
}

var _ Allocator = (*Pool)(nil)

// NewPool creates a layer pool whose canvases draw text with fonts
// (nil for the shared default).
func NewPool(fonts *FontCache) *Pool {
	return &Pool{fonts: fonts}
}

// NewLayer returns a fully transparent layer of the given size.
func (p *Pool) NewLayer(width, height int) Layer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	n := width * height * 4
	var pix []uint8
	if v, ok := p.buffers.Get().(*[]uint8); ok && cap(*v) >= n {
		pix = (*v)[:n]
		clear(pix)
	} else {
		pix = make([]uint8, n)
	}

	img := &image.RGBA{
		Pix:    pix,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	return &rgbaLayer{
		img:    img,
		canvas: NewImageCanvas(img, p.fonts),
		pool:   p,
	}
}

type rgbaLayer struct {
	img    *image.RGBA
	canvas *ImageCanvas
	pool   *Pool
}

func (l *rgbaLayer) Canvas() Canvas {
	return l.canvas
}

func (l *rgbaLayer) Image() image.Image {
	return l.img
}

func (l *rgbaLayer) Size() (int, int) {
	if l.img == nil {
		return 0, 0
	}
	return l.img.Rect.Dx(), l.img.Rect.Dy()
}

// Release hands the pixel buffer back to the pool. Further use of the
// layer's image is invalid; a second Release is a no-op.
func (l *rgbaLayer) Release() {
	if l.img == nil {
		return
	}
	pix := l.img.Pix
	l.img.Pix = nil
	l.img = nil
	l.canvas = nil
	l.pool.buffers.Put(&pix)
}

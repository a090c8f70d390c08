package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"zoompan/pkg/geometry"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Faces are cached per quarter pixel of size.
const faceSizeQuantum = 4

// FontCache hands out font faces of one typeface at arbitrary pixel sizes.
// It is not safe for concurrent use by multiple canvases drawing at once.
type FontCache struct {
	font  *opentype.Font
	faces *lru.Cache
}

// NewFontCache parses an OpenType/TrueType font and keeps up to capacity
// sized faces alive.
func NewFontCache(ttf []byte, capacity int) (*FontCache, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	faces, err := lru.NewWithEvict(capacity, func(_, value interface{}) {
		if face, ok := value.(font.Face); ok {
			face.Close()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face cache: %w", err)
	}
	return &FontCache{font: f, faces: faces}, nil
}

var (
	defaultFontsOnce sync.Once
	defaultFonts     *FontCache
)

// DefaultFonts returns the shared Go Regular font cache.
func DefaultFonts() *FontCache {
	defaultFontsOnce.Do(func() {
		fc, err := NewFontCache(goregular.TTF, 16)
		if err != nil {
			panic(err) // embedded font
		}
		defaultFonts = fc
	})
	return defaultFonts
}

// Face returns a face whose em size is px device pixels.
func (fc *FontCache) Face(px float64) font.Face {
	key := int(math.Round(px * faceSizeQuantum))
	if key < 1 {
		key = 1
	}
	if v, ok := fc.faces.Get(key); ok {
		return v.(font.Face)
	}

	face, err := opentype.NewFace(fc.font, &opentype.FaceOptions{
		Size:    float64(key) / faceSizeQuantum,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		panic(fmt.Sprintf("opentype face at %.2fpx: %v", px, err))
	}
	fc.faces.Add(key, face)
	return face
}

// textMask rasterizes s into an alpha mask positioned in device space.
// origin is the anchor on the baseline; the paint's alignment decides where
// the string starts relative to it.
func textMask(face font.Face, s string, origin geometry.Point2D, p Paint) *image.Alpha {
	bounds, advance := font.BoundString(face, s)
	width := float64(advance) / 64

	startX := origin.X
	switch p.TextAlign {
	case AlignCenter:
		startX -= width / 2
	case AlignRight:
		startX -= width
	}
	dot := fixed.Point26_6{X: toFixed(startX), Y: toFixed(origin.Y)}

	// one pixel of padding for the stroke outline
	r := image.Rect(
		(dot.X+bounds.Min.X).Floor()-1,
		(dot.Y+bounds.Min.Y).Floor()-1,
		(dot.X+bounds.Max.X).Ceil()+1,
		(dot.Y+bounds.Max.Y).Ceil()+1,
	)
	if r.Empty() {
		return nil
	}

	mask := image.NewAlpha(r)
	d := font.Drawer{Dst: mask, Src: image.Opaque, Face: face, Dot: dot}
	d.DrawString(s)

	if !p.AntiAlias {
		threshold(mask)
	}
	if p.Style == StyleStroke {
		mask = outline(mask)
	}
	return mask
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}

// threshold turns coverage into hard on/off pixels.
func threshold(a *image.Alpha) {
	for i, v := range a.Pix {
		if v >= 0x80 {
			a.Pix[i] = 0xff
		} else {
			a.Pix[i] = 0
		}
	}
}

// outline returns the one-pixel dilation of a minus a itself.
func outline(a *image.Alpha) *image.Alpha {
	out := image.NewAlpha(a.Rect)
	b := a.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			var grown uint8
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if v := a.AlphaAt(x+dx, y+dy).A; v > grown {
						grown = v
					}
				}
			}
			self := a.AlphaAt(x, y).A
			if grown > self {
				out.SetAlpha(x, y, color.Alpha{A: grown - self})
			}
		}
	}
	return out
}

package app

import (
	"image/color"

	"zoompan/internal/config"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

var defaultBackground = color.NRGBA{R: 0x20, G: 0x20, B: 0x24, A: 0xFF}

// ZoomTheme is the default Fyne theme with the window background taken from
// the config. The zoom canvas leaves the letterbox around the fitted image
// transparent, so this is the colour shown there.
type ZoomTheme struct {
	background color.Color
}

var _ fyne.Theme = (*ZoomTheme)(nil)

// NewZoomTheme builds a theme from cfg, falling back to a dark grey when the
// background colour does not parse.
func NewZoomTheme(cfg config.Config) *ZoomTheme {
	bg, err := config.ParseColor(cfg.Background)
	if err != nil {
		return &ZoomTheme{background: defaultBackground}
	}
	return &ZoomTheme{background: bg}
}

func (t *ZoomTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if name == theme.ColorNameBackground {
		return t.background
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (t *ZoomTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *ZoomTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *ZoomTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}

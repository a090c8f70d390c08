// Package app wires configuration, assets and the zoom view together.
package app

import (
	"fmt"
	"log"

	"zoompan/internal/asset"
	"zoompan/internal/config"
	"zoompan/internal/zoompan"
)

// OverlayStyle converts the label settings of cfg.
func OverlayStyle(cfg config.Config) (zoompan.OverlayStyle, error) {
	col, err := config.ParseColor(cfg.TextColor)
	if err != nil {
		return zoompan.OverlayStyle{}, err
	}
	return zoompan.OverlayStyle{
		Label:    cfg.Label,
		CellSize: cfg.CellSize,
		TextSize: cfg.TextSize,
		Color:    col,
	}, nil
}

// Density picks the configured density, falling back to the toolkit's value
// and finally to 1.
func Density(cfg config.Config, toolkit float64) float64 {
	switch {
	case cfg.Density > 0:
		return cfg.Density
	case toolkit > 0:
		return toolkit
	default:
		return 1
	}
}

// NewView loads the configured background and builds the zoom view.
// toolkitDensity is the display scale reported by the UI toolkit, queried
// once by the caller.
func NewView(cfg config.Config, toolkitDensity float64) (*zoompan.View, error) {
	img, err := asset.Resolve(cfg.Asset)
	if err != nil {
		return nil, fmt.Errorf("failed to load background: %w", err)
	}

	strategy, err := zoompan.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	style, err := OverlayStyle(cfg)
	if err != nil {
		return nil, err
	}

	density := Density(cfg, toolkitDensity)
	view, err := zoompan.New(img, zoompan.Options{
		Density:  density,
		Strategy: strategy,
		Overlay:  style,
		MinScale: cfg.MinScale,
		MaxScale: cfg.MaxScale,
		Debug:    cfg.Debug,
	})
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	log.Printf("View: %dx%d background, density %.2f, %s overlay", b.Dx(), b.Dy(), density, strategy)
	return view, nil
}

// ApplyConfig pushes settings that can change at runtime into view. A zero
// density leaves the current value alone.
func ApplyConfig(view *zoompan.View, cfg config.Config) error {
	style, err := OverlayStyle(cfg)
	if err != nil {
		return err
	}
	if err := view.SetOverlayStyle(style); err != nil {
		return err
	}
	if cfg.Density > 0 {
		return view.SetDensity(cfg.Density)
	}
	return nil
}

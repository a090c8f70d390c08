package app

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"zoompan/internal/config"
	"zoompan/internal/zoompan"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
)

func TestDensity(t *testing.T) {
	cfg := config.Default()
	if got := Density(cfg, 2); got != 2 {
		t.Errorf("toolkit density = %v, want 2", got)
	}
	if got := Density(cfg, 0); got != 1 {
		t.Errorf("fallback density = %v, want 1", got)
	}
	cfg.Density = 3
	if got := Density(cfg, 2); got != 3 {
		t.Errorf("override density = %v, want 3", got)
	}
}

func TestNewView(t *testing.T) {
	cfg := config.Default()
	cfg.Strategy = "simple"
	cfg.TextColor = "#0000ff"

	view, err := NewView(cfg, 2)
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	defer view.Close()

	if view.Strategy() != zoompan.Simple {
		t.Errorf("strategy = %v", view.Strategy())
	}
	if view.Density() != 2 {
		t.Errorf("density = %v", view.Density())
	}
	if got := view.OverlayStyle().Color; got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("overlay color = %v", got)
	}
}

func TestNewViewFailsOnMissingAsset(t *testing.T) {
	cfg := config.Default()
	cfg.Asset = "missing.jpg"
	if _, err := NewView(cfg, 1); err == nil {
		t.Error("expected error for missing asset")
	}

	cfg = config.Default()
	cfg.Strategy = "sideways"
	if _, err := NewView(cfg, 1); err == nil {
		t.Error("expected error for bad strategy")
	}
}

func TestApplyConfig(t *testing.T) {
	view, err := NewView(config.Default(), 1)
	if err != nil {
		t.Fatal(err)
	}
	defer view.Close()

	cfg := config.Default()
	cfg.Label = "Yo"
	cfg.CellSize = 30
	if err := ApplyConfig(view, cfg); err != nil {
		t.Fatal(err)
	}
	if got := view.OverlayStyle(); got.Label != "Yo" || got.CellSize != 30 {
		t.Errorf("style not applied: %+v", got)
	}
	if view.Density() != 1 {
		t.Errorf("zero density changed the view: %v", view.Density())
	}

	cfg.Density = 1.5
	if err := ApplyConfig(view, cfg); err != nil {
		t.Fatal(err)
	}
	if view.Density() != 1.5 {
		t.Errorf("density override not applied: %v", view.Density())
	}
}

func TestConfigReloader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zoompan", "config.toml")
	r, err := NewConfigReloader(path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewConfigReloader: %v", err)
	}
	defer r.Stop()

	changes := make(chan config.Config, 4)
	errs := make(chan error, 4)
	r.OnChange(func(cfg config.Config) { changes <- cfg })
	r.OnError(func(err error) { errs <- err })
	r.Start()

	if err := os.WriteFile(path, []byte("label = \"Yo\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	waitFor := time.After(5 * time.Second)
	for loaded := false; !loaded; {
		select {
		case cfg := <-changes:
			loaded = cfg.Label == "Yo"
		case err := <-errs:
			t.Fatalf("reload error: %v", err)
		case <-waitFor:
			t.Fatal("no reload with the new label after write")
		}
	}

	if err := os.WriteFile(path, []byte("cell_size = -3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-errs:
			return
		case cfg := <-changes:
			// a late reload of the first write is fine; the invalid one is not
			if cfg.CellSize != config.Default().CellSize {
				t.Fatalf("invalid config accepted: %+v", cfg)
			}
		case <-deadline:
			t.Fatal("no error after invalid write")
		}
	}
}

func TestConfigReloaderStopTwice(t *testing.T) {
	r, err := NewConfigReloader(filepath.Join(t.TempDir(), "config.toml"), time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	r.Start()
	r.Stop()
	r.Stop()
}

func TestZoomThemeBackground(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	cfg := config.Default()
	cfg.Background = "#102030"
	th := NewZoomTheme(cfg)
	if got := th.Color(theme.ColorNameBackground, theme.VariantDark); got != (color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}) {
		t.Errorf("background = %v", got)
	}
	want := theme.DefaultTheme().Color(theme.ColorNameForeground, theme.VariantDark)
	if got := th.Color(theme.ColorNameForeground, theme.VariantDark); got != want {
		t.Errorf("foreground = %v, want default %v", got, want)
	}

	cfg.Background = "nope"
	if got := NewZoomTheme(cfg).Color(theme.ColorNameBackground, theme.VariantLight); got != defaultBackground {
		t.Errorf("fallback background = %v", got)
	}
}

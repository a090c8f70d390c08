// Package main provides the entry point for the zoom/pan viewer.
package main

import (
	"log"
	"time"

	"zoompan/internal/app"
	"zoompan/internal/config"
	"zoompan/internal/version"
	"zoompan/internal/zoompan"
	"zoompan/ui/canvas"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
)

const reloadDebounce = 300 * time.Millisecond

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s", version.String())

	cfgPath := config.Path()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Config %s: %v (using defaults)", cfgPath, err)
		cfg = config.Default()
	}

	a := fyneapp.NewWithID("io.zoompan.viewer")
	a.Settings().SetTheme(app.NewZoomTheme(cfg))

	w := a.NewWindow(cfg.Title)

	// The window has no display scale until it is shown; without an
	// override the canvas measures it from the first frame.
	view, err := app.NewView(cfg, 1)
	if err != nil {
		log.Fatalf("Failed to create view: %v", err)
	}

	zc := canvas.NewZoomCanvas(view)
	zc.SetAutoDensity(cfg.Density == 0)
	w.SetContent(zc)
	w.Resize(fyne.NewSize(float32(cfg.WindowWidth), float32(cfg.WindowHeight)))

	lc := a.Lifecycle()
	lc.SetOnStarted(func() { log.Println("Lifecycle: started") })
	lc.SetOnStopped(func() { log.Println("Lifecycle: stopped") })
	lc.SetOnEnteredForeground(func() { log.Println("Lifecycle: entered foreground") })
	lc.SetOnExitedForeground(func() { log.Println("Lifecycle: exited foreground") })

	reloader := setupConfigReload(a, w, zc, cfgPath)

	w.ShowAndRun()

	if reloader != nil {
		reloader.Stop()
	}
	zc.Close()
}

// setupConfigReload applies overlay, density and theme settings from the
// config file while the window is open.
func setupConfigReload(a fyne.App, w fyne.Window, zc *canvas.ZoomCanvas, path string) *app.ConfigReloader {
	reloader, err := app.NewConfigReloader(path, reloadDebounce)
	if err != nil {
		log.Printf("Config reload: disabled: %v", err)
		return nil
	}

	reloader.OnChange(func(cfg config.Config) {
		log.Printf("Config reload: applying %s", path)
		w.SetTitle(cfg.Title)
		a.Settings().SetTheme(app.NewZoomTheme(cfg))
		zc.SetAutoDensity(cfg.Density == 0)
		zc.Update(func(v *zoompan.View) {
			if err := app.ApplyConfig(v, cfg); err != nil {
				log.Printf("Config reload: %v", err)
			}
		})
	})
	reloader.OnError(func(err error) {
		log.Printf("Config reload: %v", err)
	})

	log.Printf("Config reload: watching %s", reloader.Path())
	reloader.Start()
	return reloader
}

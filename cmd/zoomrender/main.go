// Command zoomrender replays a YAML gesture script against a zoom view and
// writes every painted frame as a PNG.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"zoompan/internal/app"
	"zoompan/internal/config"
	"zoompan/internal/script"
	"zoompan/internal/version"
	"zoompan/internal/zoompan"
)

func main() {
	scriptPath := flag.String("s", "", "Path to gesture script (YAML)")
	outDir := flag.String("o", ".", "Output directory for frames")
	cfgPath := flag.String("c", "", "Config file (default: user config)")
	strategy := flag.String("strategy", "", "Override overlay strategy (reprojected, simple)")
	asset := flag.String("asset", "", "Override base image (bundled name or file path)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *scriptPath == "" {
		fmt.Println("Usage: zoomrender -s <script.yaml> [-o <dir>] [-c <config.toml>] [-strategy simple]")
		os.Exit(1)
	}

	if *cfgPath == "" {
		*cfgPath = config.Path()
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *strategy != "" {
		cfg.Strategy = *strategy
	}
	if *asset != "" {
		cfg.Asset = *asset
	}

	f, err := os.Open(*scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open script: %v\n", err)
		os.Exit(1)
	}
	s, err := script.Parse(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", *scriptPath, err)
		os.Exit(1)
	}

	density := s.Density
	if density == 0 {
		density = 1
	}
	view, err := app.NewView(cfg, density)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create view: %v\n", err)
		os.Exit(1)
	}

	err = replay(view, s, *scriptPath, *outDir)
	view.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Replay failed: %v\n", err)
		os.Exit(1)
	}
}

// replay runs the script and writes each painted frame to outDir.
func replay(view *zoompan.View, s *script.Script, name, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	size := s.FrameSize(view.Density())
	fmt.Printf("=== Replaying %s: %d steps, %dx%d px, strategy %s ===\n",
		name, len(s.Steps), size.X, size.Y, view.Strategy())

	start := time.Now()
	frames := 0
	err := s.Run(view, func(fr script.Frame) error {
		if err := writePNG(filepath.Join(outDir, fr.Name), fr.Image); err != nil {
			return err
		}
		m := view.Transform()
		fmt.Printf("  %-20s scale=%.3f translate=(%.1f, %.1f)\n", fr.Name, m.ScaleFactor(), m.TX, m.TY)
		frames++
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nWrote %d frames to %s in %s\n", frames, outDir, time.Since(start).Round(time.Millisecond))
	return nil
}

func writePNG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

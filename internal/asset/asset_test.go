package asset

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestLoadBundled(t *testing.T) {
	img, err := Load(DefaultImage)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 480, 320) {
		t.Errorf("bounds = %v, want 480x320", got)
	}

	names, err := Names()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(names, DefaultImage) {
		t.Errorf("Names() = %v, missing %s", names, DefaultImage)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load("nope.jpg"); err == nil {
		t.Error("expected error for missing asset")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFileRejectsGarbage(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(p, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(p); err == nil {
		t.Error("expected decode error")
	}
}

func TestResolve(t *testing.T) {
	p := filepath.Join(t.TempDir(), "dot.png")
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(1, 1, color.White)
	if err := png.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	img, err := Resolve(p)
	if err != nil {
		t.Fatalf("Resolve(file): %v", err)
	}
	if img.Bounds().Dx() != 3 {
		t.Errorf("resolved wrong image: %v", img.Bounds())
	}

	if _, err := Resolve(""); err != nil {
		t.Errorf("Resolve(\"\"): %v", err)
	}
	if _, err := Resolve(DefaultImage); err != nil {
		t.Errorf("Resolve(bundled): %v", err)
	}
}

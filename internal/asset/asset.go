// Package asset loads the bitmaps bundled with the application.
package asset

import (
	"embed"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultImage is the bundled background shown when no override is configured.
const DefaultImage = "landscape.png"

//go:embed assets
var bundled embed.FS

// Names lists the bundled resource names.
func Names() ([]string, error) {
	entries, err := fs.ReadDir(bundled, "assets")
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Load decodes the bundled bitmap with the given name.
func Load(name string) (image.Image, error) {
	file, err := bundled.Open(path.Join("assets", name))
	if err != nil {
		return nil, fmt.Errorf("failed to open asset %q: %w", name, err)
	}
	defer file.Close()

	img, err := decode(file)
	if err != nil {
		return nil, fmt.Errorf("asset %q: %w", name, err)
	}
	return img, nil
}

// LoadFile decodes a bitmap from disk.
func LoadFile(filename string) (image.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, err := decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return img, nil
}

// Resolve loads ref from disk when it names an existing file and from the
// bundled assets otherwise. An empty ref selects DefaultImage.
func Resolve(ref string) (image.Image, error) {
	if ref == "" {
		return Load(DefaultImage)
	}
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return LoadFile(ref)
	}
	return Load(ref)
}

func decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("decoded image is empty")
	}
	return img, nil
}

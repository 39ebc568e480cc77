package imaging

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestImageCache_Load(t *testing.T) {
	path := writeTestPNG(t, 12, 8, color.RGBA{10, 200, 30, 255})
	cache := NewImageCache()

	first, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if first.Bounds().Dx() != 12 || first.Bounds().Dy() != 8 {
		t.Errorf("dimensions: got %v, want 12x8", first.Bounds())
	}
	if got := first.NRGBAAt(3, 3); got.R != 10 || got.G != 200 || got.B != 30 {
		t.Errorf("pixel: got %v, want (10,200,30)", got)
	}

	second, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if first != second {
		t.Error("second Load should return the cached image")
	}
	if cache.Len() != 1 {
		t.Errorf("cache size: got %d, want 1", cache.Len())
	}

	cache.Evict(path)
	if cache.Len() != 0 {
		t.Errorf("cache size after Evict: got %d, want 0", cache.Len())
	}

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load after Evict failed: %v", err)
	}
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("cache size after Clear: got %d, want 0", cache.Len())
	}
}

func TestImageCache_LoadErrors(t *testing.T) {
	cache := NewImageCache()
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.png")},
		{"undecodable file", garbage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cache.Load(tt.path)
			if !errors.Is(err, ErrAssetLoad) {
				t.Errorf("error: got %v, want ErrAssetLoad", err)
			}
		})
	}
	if cache.Len() != 0 {
		t.Error("failed loads must not be cached")
	}
}

func TestSaveImage(t *testing.T) {
	img := createEdgeTestImage(16, 16)
	dir := t.TempDir()

	for _, name := range []string{"out.png", "out.jpg", "out.JPEG", "out.bmp"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := SaveImage(img, path); err != nil {
				t.Fatalf("SaveImage failed: %v", err)
			}
			loaded, err := LoadImage(path)
			if err != nil {
				t.Fatalf("LoadImage failed: %v", err)
			}
			if loaded.Bounds().Dx() != 16 || loaded.Bounds().Dy() != 16 {
				t.Errorf("dimensions: got %v, want 16x16", loaded.Bounds())
			}
		})
	}
}

func TestSaveImage_Errors(t *testing.T) {
	img := createEdgeTestImage(4, 4)
	dir := t.TempDir()

	if err := SaveImage(img, filepath.Join(dir, "out.tiff")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("unsupported extension: got %v, want ErrUnsupportedFormat", err)
	}
	if err := SaveImage(img, filepath.Join(dir, "missing", "out.png")); err == nil {
		t.Error("expected error for missing output directory")
	}
}

func TestEncodePNG(t *testing.T) {
	enc, err := EncodePNG(createEdgeTestImage(20, 10))
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if enc.Width != 20 || enc.Height != 10 || enc.MimeType != "image/png" || enc.ImageBase64 == "" {
		t.Errorf("unexpected encoding: %dx%d %s (%d bytes)", enc.Width, enc.Height, enc.MimeType, len(enc.ImageBase64))
	}
}

// writeTestPNG saves a uniform image into a temp dir and returns its path.
func writeTestPNG(t *testing.T, width, height int, c color.RGBA) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.png")
	if err := SaveImage(createInMemoryImage(width, height, c), path); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

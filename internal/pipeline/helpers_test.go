package pipeline

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/vision-tools-mcp/internal/tracking"
)

var (
	purple = color.RGBA{128, 0, 255, 255}
	gray   = color.RGBA{128, 128, 128, 255}
	white  = color.RGBA{255, 255, 255, 255}
)

// stubBackend reports a scripted box on every update.
type stubBackend struct {
	box    image.Rectangle
	next   image.Rectangle
	inits  []image.Rectangle
	closed int
}

func (b *stubBackend) Init(_ image.Image, box image.Rectangle) error {
	b.inits = append(b.inits, box)
	b.box = box
	if b.next.Empty() {
		b.next = box
	}
	return nil
}

func (b *stubBackend) Update(image.Image) (image.Rectangle, bool) {
	b.box = b.next
	return b.box, true
}

func (b *stubBackend) Close() error {
	b.closed++
	return nil
}

func stubFactory(b *stubBackend) tracking.Factory {
	return tracking.Factory{Name: "stub", New: func() (tracking.Backend, error) { return b, nil }}
}

// countingPlayer records playback commands.
type countingPlayer struct {
	plays, stops int
}

func (p *countingPlayer) Play() error { p.plays++; return nil }
func (p *countingPlayer) Stop() error { p.stops++; return nil }

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

// blobScene is a gray 160x120 frame with one purple rectangle.
func blobScene(r image.Rectangle) *image.RGBA {
	img := solid(160, 120, gray)
	draw.Draw(img, r, image.NewUniform(purple), image.Point{}, draw.Src)
	return img
}

// squareMask is a black w x h frame with a white square.
func squareMask(w, h int, r image.Rectangle) *image.RGBA {
	img := solid(w, h, color.Black)
	draw.Draw(img, r, image.NewUniform(white), image.Point{}, draw.Src)
	return img
}

func noise(w, h int, seed int64) *image.Gray {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	return path
}

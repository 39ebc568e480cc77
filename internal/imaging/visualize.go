package imaging

import (
	"image"
	"image/color"
	"math/rand"
)

// DefaultLabelSeed seeds the label palette generator. Keeping it fixed makes
// overlays reproducible across runs.
const DefaultLabelSeed int64 = 42

// Blend weights of the label overlay and the original frame.
const (
	OverlayWeight  = 0.4
	OriginalWeight = 0.6
)

// LabelPalette returns maxLabel+1 colors. Entry 0 (background) is black; the
// others are drawn as three Intn(255) values per label from a generator seeded
// with seed.
func LabelPalette(maxLabel int, seed int64) []color.RGBA {
	rng := rand.New(rand.NewSource(seed))
	palette := make([]color.RGBA, maxLabel+1)
	for i := range palette {
		palette[i] = color.RGBA{
			R: uint8(rng.Intn(255)),
			G: uint8(rng.Intn(255)),
			B: uint8(rng.Intn(255)),
			A: 255,
		}
	}
	palette[0] = color.RGBA{A: 255}
	return palette
}

// VisualizeLabels paints every labeled pixel with its palette color and blends
// that overlay over frame at OverlayWeight / OriginalWeight.
func VisualizeLabels(frame image.Image, labels *LabelMap, seed int64) (*image.RGBA, error) {
	if err := checkSameSize(frame, labels); err != nil {
		return nil, err
	}

	palette := LabelPalette(int(labels.Max()), seed)
	bounds := frame.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, labels.Width, labels.Height))
	for y := 0; y < labels.Height; y++ {
		for x := 0; x < labels.Width; x++ {
			r, g, b, _ := frame.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			ov := palette[labels.Labels[y*labels.Width+x]]
			out.SetRGBA(x, y, color.RGBA{
				R: blend(uint8(r>>8), ov.R),
				G: blend(uint8(g>>8), ov.G),
				B: blend(uint8(b>>8), ov.B),
				A: 255,
			})
		}
	}
	return out, nil
}

// blend computes round(0.6*src + 0.4*overlay) in integer arithmetic.
func blend(src, overlay uint8) uint8 {
	return uint8((6*uint32(src) + 4*uint32(overlay) + 5) / 10)
}

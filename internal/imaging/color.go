package imaging

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Luma converts 8-bit RGB components to an intensity level using the fixed
// ITU-R BT.601 weights 0.299, 0.587 and 0.114, rounded to the nearest level.
func Luma(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b) + 500) / 1000)
}

// ToGray converts a frame to a single-channel intensity image anchored at (0,0).
//
// Single-channel inputs that already start at the origin are returned as is;
// callers must not mutate the result in that case.
func ToGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	if g, ok := img.(*image.Gray); ok && bounds.Min == (image.Point{}) {
		return g
	}

	width, height := bounds.Dx(), bounds.Dy()
	gray := image.NewGray(image.Rect(0, 0, width, height))

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < height; y++ {
			copy(gray.Pix[y*gray.Stride:y*gray.Stride+width], src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):])
		}
	case *image.NRGBA:
		for y := 0; y < height; y++ {
			row := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			for x := 0; x < width; x++ {
				gray.Pix[y*gray.Stride+x] = Luma(row[4*x], row[4*x+1], row[4*x+2])
			}
		}
	default:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				gray.Pix[y*gray.Stride+x] = Luma(uint8(r>>8), uint8(g>>8), uint8(b>>8))
			}
		}
	}
	return gray
}

// HSV is a color in hue/saturation/value space.
// H is in degrees [0,360); S and V are in [0,1].
type HSV struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	V float64 `json:"v"`
}

// HSVRange is an inclusive box in HSV space.
type HSVRange struct {
	Min HSV `json:"min"`
	Max HSV `json:"max"`
}

// Contains reports whether c lies inside the range on all three axes.
func (r HSVRange) Contains(c HSV) bool {
	return c.H >= r.Min.H && c.H <= r.Max.H &&
		c.S >= r.Min.S && c.S <= r.Max.S &&
		c.V >= r.Min.V && c.V <= r.Max.V
}

// ToHSV converts any color to HSV. Fully transparent colors map to black.
func ToHSV(c color.Color) HSV {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return HSV{}
	}
	h, s, v := cf.Hsv()
	return HSV{H: h, S: s, V: v}
}

// InRangeHSV builds a binary mask of the pixels whose HSV value lies in r.
func InRangeHSV(img image.Image, r HSVRange) *image.Gray {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	mask := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if r.Contains(ToHSV(img.At(bounds.Min.X+x, bounds.Min.Y+y))) {
				mask.Pix[y*mask.Stride+x] = 255
			}
		}
	}
	return mask
}

// HexColor parses "#RRGGBB" into an opaque RGBA color.
func HexColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, err
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

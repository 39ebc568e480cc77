package imaging

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// Effect is a visual filter applied to frames before display and tracking.
type Effect string

// Supported effects.
const (
	EffectNone     Effect = "none"
	EffectGray     Effect = "gray"
	EffectNegative Effect = "negative"
	EffectOtsu     Effect = "otsu"
	EffectBlur     Effect = "blur"
	EffectMedian   Effect = "median"
	EffectEdges    Effect = "edges"
	EffectErode    Effect = "erode"
	EffectDilate   Effect = "dilate"
	EffectOpen     Effect = "open"
	EffectClose    Effect = "close"
)

var effects = map[Effect]func(image.Image) image.Image{
	EffectNone:     func(img image.Image) image.Image { return img },
	EffectGray:     func(img image.Image) image.Image { return effect.Grayscale(img) },
	EffectNegative: func(img image.Image) image.Image { return effect.Invert(img) },
	EffectOtsu: func(img image.Image) image.Image {
		mask, _ := Binarize(img, OtsuMode())
		return mask
	},
	// A radius of 2 gives the 5x5 window of the mean and median filters.
	EffectBlur:   func(img image.Image) image.Image { return blur.Box(img, 2) },
	EffectMedian: func(img image.Image) image.Image { return effect.Median(img, 2) },
	EffectEdges:  func(img image.Image) image.Image { return Canny(img, DefaultCannyLow, DefaultCannyHigh) },
	EffectErode:  morphEffect(Erode),
	EffectDilate: morphEffect(Dilate),
	EffectOpen:   morphEffect(Open),
	EffectClose:  morphEffect(Close),
}

func morphEffect(op func(*image.Gray, int) *image.Gray) func(image.Image) image.Image {
	return func(img image.Image) image.Image {
		mask, _ := Binarize(img, OtsuMode())
		return op(mask, StructuringSize)
	}
}

// ParseEffect validates an effect name. The empty string means EffectNone.
func ParseEffect(name string) (Effect, error) {
	e := Effect(strings.ToLower(strings.TrimSpace(name)))
	if e == "" {
		return EffectNone, nil
	}
	if _, ok := effects[e]; !ok {
		return "", fmt.Errorf("unknown effect: %s (valid: %s)", name, strings.Join(EffectNames(), ", "))
	}
	return e, nil
}

// EffectNames lists the supported effect names in sorted order.
func EffectNames() []string {
	names := make([]string, 0, len(effects))
	for e := range effects {
		names = append(names, string(e))
	}
	sort.Strings(names)
	return names
}

// ApplyEffect returns a filtered copy of img. EffectNone and unknown effects
// return img itself. Single-channel results are the binary or edge masks.
func ApplyEffect(img image.Image, e Effect) image.Image {
	fn, ok := effects[e]
	if !ok {
		return img
	}
	return fn(img)
}

package imaging

import (
	"fmt"
	"image"
	"strings"
)

// ThresholdKind selects how Binarize chooses its threshold.
type ThresholdKind int

const (
	// ThresholdOtsu picks the threshold that maximizes between-class variance.
	ThresholdOtsu ThresholdKind = iota
	// ThresholdFixed uses Mode.Threshold as given.
	ThresholdFixed
)

// DefaultFixedThreshold is the threshold used by the fixed mode when none is configured.
const DefaultFixedThreshold = 127

func (k ThresholdKind) String() string {
	switch k {
	case ThresholdOtsu:
		return "otsu"
	case ThresholdFixed:
		return "fixed"
	default:
		return fmt.Sprintf("ThresholdKind(%d)", int(k))
	}
}

// Mode describes a binarization strategy.
type Mode struct {
	Kind ThresholdKind
	// Threshold is only read in fixed mode. Pixels strictly above it become 255.
	Threshold uint8
}

// OtsuMode returns the canonical binarization mode used by every analysis.
func OtsuMode() Mode {
	return Mode{Kind: ThresholdOtsu}
}

// FixedMode returns a fixed-threshold mode.
func FixedMode(threshold uint8) Mode {
	return Mode{Kind: ThresholdFixed, Threshold: threshold}
}

// ParseMode converts a configuration name ("otsu" or "fixed") to a Mode.
func ParseMode(name string, threshold int) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "otsu":
		return OtsuMode(), nil
	case "fixed":
		if threshold < 0 || threshold > 255 {
			return Mode{}, fmt.Errorf("fixed threshold %d outside 0-255", threshold)
		}
		return FixedMode(uint8(threshold)), nil
	default:
		return Mode{}, fmt.Errorf("unknown binarization mode: %s", name)
	}
}

// Binarize converts a frame into a binary mask and returns the threshold used.
//
// Multi-channel frames are converted with Luma first. A pixel becomes 255 when
// its intensity is strictly greater than the threshold and 0 otherwise, so the
// output never holds any other level.
func Binarize(img image.Image, mode Mode) (*image.Gray, uint8) {
	gray := ToGray(img)

	threshold := mode.Threshold
	if mode.Kind == ThresholdOtsu {
		threshold = OtsuThreshold(histogramGray(gray))
	}
	return thresholdGray(gray, threshold), threshold
}

// OtsuThreshold returns the level t that maximizes w0*w1*(mu0-mu1)^2 where
// class 0 holds levels <= t. Ties resolve to the lowest t; a histogram with a
// single populated level (or none) yields 0.
func OtsuThreshold(bins [256]int) uint8 {
	total := 0
	var sum float64
	for level, count := range bins {
		total += count
		sum += float64(level * count)
	}
	if total == 0 {
		return 0
	}

	var (
		weightB int
		sumB    float64
		best    = -1.0
		chosen  uint8
	)
	for level := 0; level < 256; level++ {
		weightB += bins[level]
		sumB += float64(level * bins[level])
		if weightB == 0 {
			continue
		}
		weightF := total - weightB
		if weightF == 0 {
			break
		}

		meanB := sumB / float64(weightB)
		meanF := (sum - sumB) / float64(weightF)
		between := float64(weightB) * float64(weightF) * (meanB - meanF) * (meanB - meanF)
		if between > best {
			best = between
			chosen = uint8(level)
		}
	}
	return chosen
}

func thresholdGray(gray *image.Gray, threshold uint8) *image.Gray {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	mask := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := gray.Pix[gray.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		out := mask.Pix[y*mask.Stride:]
		for x := 0; x < width; x++ {
			if row[x] > threshold {
				out[x] = 255
			}
		}
	}
	return mask
}

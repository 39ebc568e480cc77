package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"gonum.org/v1/gonum/stat"
)

// Histogram chart geometry. The tallest bar reaches HistogramHeight-20 pixels.
const (
	HistogramWidth  = 512
	HistogramHeight = 200
)

var (
	histogramBarColor = color.RGBA{R: 220, G: 50, B: 50, A: 255}
	histogramInk      = color.RGBA{A: 255}
)

// Histogram counts the pixels at each of the 256 intensity levels.
// Multi-channel frames are converted with Luma. The counts always sum to the
// pixel count of img.
func Histogram(img image.Image) [256]int {
	return histogramGray(ToGray(img))
}

func histogramGray(gray *image.Gray) [256]int {
	var bins [256]int
	bounds := gray.Bounds()
	width := bounds.Dx()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := gray.Pix[gray.PixOffset(bounds.Min.X, y):]
		for x := 0; x < width; x++ {
			bins[row[x]]++
		}
	}
	return bins
}

// HistogramStats summarizes an intensity distribution.
type HistogramStats struct {
	Pixels int     `json:"pixels"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

// ComputeHistogramStats returns the pixel count, weighted mean and standard
// deviation, and the lowest and highest populated levels of bins.
func ComputeHistogramStats(bins [256]int) HistogramStats {
	levels := make([]float64, 256)
	weights := make([]float64, 256)
	result := HistogramStats{Min: -1, Max: -1}
	for level, count := range bins {
		levels[level] = float64(level)
		weights[level] = float64(count)
		result.Pixels += count
		if count > 0 {
			if result.Min < 0 {
				result.Min = level
			}
			result.Max = level
		}
	}
	if result.Pixels == 0 {
		return result
	}

	if result.Pixels < 2 {
		result.Mean = stat.Mean(levels, weights)
		return result
	}
	result.Mean, result.StdDev = stat.MeanStdDev(levels, weights)
	return result
}

// RenderHistogram draws bins as a HistogramWidth x HistogramHeight bar chart
// with a 1px border and a title. Output is deterministic for identical bins.
func RenderHistogram(bins [256]int, title string) *image.RGBA {
	w, h := HistogramWidth, HistogramHeight
	chart := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(chart, chart.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	peak := 0
	for _, count := range bins {
		if count > peak {
			peak = count
		}
	}
	if peak == 0 {
		peak = 1
	}

	for level, count := range bins {
		x := level * w / len(bins)
		barHeight := int(float64(count) / float64(peak) * float64(h-20))
		for y := h - 1; y >= h-1-barHeight; y-- {
			chart.SetRGBA(x, y, histogramBarColor)
		}
	}

	DrawRect(chart, BoundingBox{X: 0, Y: 0, Width: w, Height: h}, histogramInk, 1)
	if title != "" {
		DrawText(chart, 10, 20, title, histogramInk)
	}
	return chart
}

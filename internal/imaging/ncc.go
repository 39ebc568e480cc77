package imaging

import (
	"image"
	"math"
)

// Match is the outcome of a template search. X and Y are the top-left offset
// of the template inside the frame.
type Match struct {
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Score float64 `json:"score"`
}

// Correlator scores a fixed grayscale template against frames with zero-mean
// normalized cross-correlation. Scores lie in [-1, 1]; windows where either
// the template or the frame patch has zero variance score 0.
//
// A Correlator is immutable after construction and safe for concurrent use.
type Correlator struct {
	w, h int
	pix  []int64
	sum  int64
	// spread is n*sum(T^2) - sum(T)^2, the unnormalized template variance.
	spread float64
}

// NewCorrelator converts tmpl to grayscale with Luma and precomputes its
// statistics. It returns nil for an empty template.
func NewCorrelator(tmpl image.Image) *Correlator {
	gray := ToGray(tmpl)
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil
	}

	c := &Correlator{w: w, h: h, pix: make([]int64, w*h)}
	var sq int64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := int64(gray.Pix[y*gray.Stride+x])
			c.pix[y*w+x] = v
			c.sum += v
			sq += v * v
		}
	}
	n := int64(w * h)
	c.spread = float64(n*sq - c.sum*c.sum)
	return c
}

// Size returns the template width and height.
func (c *Correlator) Size() (int, int) {
	return c.w, c.h
}

// Flat reports whether the template has zero variance. A flat template
// scores 0 everywhere.
func (c *Correlator) Flat() bool {
	return c.spread <= 0
}

// FirstMatch scans every offset of frame in row-major order and returns the
// first one scoring at least threshold.
func (c *Correlator) FirstMatch(frame image.Image, threshold float64) (Match, bool) {
	gray := ToGray(frame)
	it := newIntegral(gray)
	W, H := gray.Bounds().Dx(), gray.Bounds().Dy()
	for y := 0; y+c.h <= H; y++ {
		for x := 0; x+c.w <= W; x++ {
			if s := c.score(gray, it, x, y); s >= threshold {
				return Match{X: x, Y: y, Score: s}, true
			}
		}
	}
	return Match{}, false
}

// BestMatch returns the highest-scoring offset whose window lies inside both
// search and frame. Ties keep the first offset in row-major order. It
// reports false when no window fits.
func (c *Correlator) BestMatch(frame image.Image, search image.Rectangle) (Match, bool) {
	gray := ToGray(frame)
	area := search.Intersect(gray.Bounds())
	if area.Dx() < c.w || area.Dy() < c.h {
		return Match{}, false
	}

	it := newIntegral(gray)
	best := Match{Score: math.Inf(-1)}
	for y := area.Min.Y; y+c.h <= area.Max.Y; y++ {
		for x := area.Min.X; x+c.w <= area.Max.X; x++ {
			if s := c.score(gray, it, x, y); s > best.Score {
				best = Match{X: x, Y: y, Score: s}
			}
		}
	}
	return best, true
}

// ScoreAt returns the correlation of the template placed at (x, y), or 0 if
// the window does not fit inside frame.
func (c *Correlator) ScoreAt(frame image.Image, x, y int) float64 {
	gray := ToGray(frame)
	if x < 0 || y < 0 || x+c.w > gray.Bounds().Dx() || y+c.h > gray.Bounds().Dy() {
		return 0
	}
	return c.score(gray, newIntegral(gray), x, y)
}

func (c *Correlator) score(gray *image.Gray, it integral, x, y int) float64 {
	if c.spread <= 0 {
		return 0
	}
	n := int64(c.w * c.h)
	sum, sq := it.rect(x, y, c.w, c.h)
	spread := float64(n*sq - sum*sum)
	if spread <= 0 {
		return 0
	}

	var dot int64
	for ty := 0; ty < c.h; ty++ {
		row := gray.Pix[(y+ty)*gray.Stride+x:]
		tmpl := c.pix[ty*c.w : (ty+1)*c.w]
		for tx, t := range tmpl {
			dot += int64(row[tx]) * t
		}
	}
	return float64(n*dot-sum*c.sum) / math.Sqrt(spread*c.spread)
}

// integral holds summed-area tables of levels and squared levels, padded with
// a zero row and column so window sums need no bounds checks.
type integral struct {
	stride  int
	sum, sq []int64
}

func newIntegral(gray *image.Gray) integral {
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	it := integral{stride: w + 1, sum: make([]int64, (w+1)*(h+1)), sq: make([]int64, (w+1)*(h+1))}
	for y := 0; y < h; y++ {
		var rowSum, rowSq int64
		for x := 0; x < w; x++ {
			v := int64(gray.Pix[y*gray.Stride+x])
			rowSum += v
			rowSq += v * v
			i := (y+1)*it.stride + x + 1
			it.sum[i] = it.sum[i-it.stride] + rowSum
			it.sq[i] = it.sq[i-it.stride] + rowSq
		}
	}
	return it
}

// rect returns the level sum and squared-level sum of the w x h window at (x, y).
func (it integral) rect(x, y, w, h int) (int64, int64) {
	a := y*it.stride + x
	b := a + w
	c := (y+h)*it.stride + x
	d := c + w
	return it.sum[d] - it.sum[b] - it.sum[c] + it.sum[a], it.sq[d] - it.sq[b] - it.sq[c] + it.sq[a]
}

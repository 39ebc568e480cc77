package imaging

import (
	"image"
)

// Area counts the foreground (255) pixels of mask.
func Area(mask *image.Gray) int {
	bounds := mask.Bounds()
	width := bounds.Dx()
	area := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := mask.Pix[mask.PixOffset(bounds.Min.X, y):]
		for x := 0; x < width; x++ {
			if row[x] == 255 {
				area++
			}
		}
	}
	return area
}

// Perimeter sums the arc length of every external contour of mask.
// Holes do not contribute.
func Perimeter(mask *image.Gray) float64 {
	var total float64
	for _, c := range FindExternalContours(mask) {
		total += ArcLength(c)
	}
	return total
}

// Diameter returns the largest distance between two convex hull vertices of
// any single shape in mask, or 0 when mask has no foreground.
func Diameter(mask *image.Gray) float64 {
	var widest float64
	for _, c := range FindExternalContours(mask) {
		if d := hullDiameter(ConvexHull(c)); d > widest {
			widest = d
		}
	}
	return widest
}

// hullDiameter is the O(h^2) maximum pairwise distance over hull vertices.
func hullDiameter(hull []image.Point) float64 {
	var widest float64
	for i := 0; i < len(hull); i++ {
		for j := i + 1; j < len(hull); j++ {
			if d := distance(hull[i], hull[j]); d > widest {
				widest = d
			}
		}
	}
	return widest
}

// ShapeMeasurements bundles the per-mask descriptors reported by analyses.
type ShapeMeasurements struct {
	Area      int     `json:"area"`
	Perimeter float64 `json:"perimeter"`
	Diameter  float64 `json:"diameter"`
	Shapes    int     `json:"shapes"`
}

// Measure computes area, perimeter and diameter with a single contour pass.
func Measure(mask *image.Gray) ShapeMeasurements {
	contours := FindExternalContours(mask)
	m := ShapeMeasurements{Area: Area(mask), Shapes: len(contours)}
	for _, c := range contours {
		m.Perimeter += ArcLength(c)
		if d := hullDiameter(ConvexHull(c)); d > m.Diameter {
			m.Diameter = d
		}
	}
	return m
}

package imaging

import (
	"image"
	"math"
	"sort"
)

// Contour is an ordered, closed sequence of pixel centers tracing the outer
// boundary of one foreground region. The last point connects back to the first.
type Contour []image.Point

// neighbors8 lists the 8-neighborhood offsets in clockwise order (with Y
// pointing down), starting east.
var neighbors8 = [8]image.Point{
	{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1},
	{X: -1, Y: 0}, {X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
}

// grid is a dense, origin-anchored view of a binary mask.
type grid struct {
	w, h int
	on   []bool
}

func newGrid(mask *image.Gray) grid {
	bounds := mask.Bounds()
	g := grid{w: bounds.Dx(), h: bounds.Dy()}
	g.on = make([]bool, g.w*g.h)
	for y := 0; y < g.h; y++ {
		row := mask.Pix[mask.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		for x := 0; x < g.w; x++ {
			g.on[y*g.w+x] = row[x] == 255
		}
	}
	return g
}

func (g grid) at(p image.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.w && p.Y < g.h && g.on[p.Y*g.w+p.X]
}

// FindExternalContours extracts the outer boundary of every outermost
// foreground region of mask.
//
// Regions are 8-connected. Hole boundaries are ignored, and so are regions
// that sit inside the hole of another region. Every contour keeps all of its
// boundary pixels (no simplification). Contours are returned in raster-scan
// order of their top-left pixel.
func FindExternalContours(mask *image.Gray) []Contour {
	g := newGrid(mask)
	count, labels := labelGrid(g)
	if count == 0 {
		return nil
	}

	outside := outsideBackground(g)
	contours := make([]Contour, 0, count)
	seen := make([]bool, count+1)
	for i, label := range labels {
		if label == 0 || seen[label] {
			continue
		}
		seen[label] = true

		// The first pixel of a region in raster order has background above it.
		// That background belongs to whatever encloses the region.
		x, y := i%g.w, i/g.w
		if y > 0 && !outside[(y-1)*g.w+x] {
			continue
		}
		contours = append(contours, traceOuterBorder(g, image.Pt(x, y)))
	}
	return contours
}

// outsideBackground marks the background pixels 4-connected to the image border.
func outsideBackground(g grid) []bool {
	outside := make([]bool, g.w*g.h)
	queue := make([]int32, 0, 2*(g.w+g.h))
	push := func(x, y int) {
		i := y*g.w + x
		if g.on[i] || outside[i] {
			return
		}
		outside[i] = true
		queue = append(queue, int32(i))
	}

	for x := 0; x < g.w; x++ {
		push(x, 0)
		push(x, g.h-1)
	}
	for y := 0; y < g.h; y++ {
		push(0, y)
		push(g.w-1, y)
	}

	for head := 0; head < len(queue); head++ {
		i := int(queue[head])
		x, y := i%g.w, i/g.w
		if x > 0 {
			push(x-1, y)
		}
		if x < g.w-1 {
			push(x+1, y)
		}
		if y > 0 {
			push(x, y-1)
		}
		if y < g.h-1 {
			push(x, y+1)
		}
	}
	return outside
}

// traceOuterBorder follows the outer border of the region containing start
// (Suzuki-Abe border following). start must be the region's first pixel in
// raster order, so its west neighbor is background.
func traceOuterBorder(g grid, start image.Point) Contour {
	first := -1
	for k := 0; k < 8; k++ {
		d := (4 + k) % 8
		if g.at(start.Add(neighbors8[d])) {
			first = d
			break
		}
	}
	if first < 0 {
		return Contour{start}
	}

	second := start.Add(neighbors8[first])
	prev, cur := second, start
	contour := make(Contour, 0, 64)
	for {
		from := directionIndex(prev.Sub(cur))
		next := prev
		for k := 1; k <= 8; k++ {
			candidate := cur.Add(neighbors8[(from-k+16)%8])
			if g.at(candidate) {
				next = candidate
				break
			}
		}

		contour = append(contour, cur)
		if next == start && cur == second {
			return contour
		}
		prev, cur = cur, next
	}
}

func directionIndex(d image.Point) int {
	for i, n := range neighbors8 {
		if n == d {
			return i
		}
	}
	return 0
}

// ArcLength returns the length of the closed polyline through c.
func ArcLength(c Contour) float64 {
	if len(c) < 2 {
		return 0
	}
	var length float64
	for i := range c {
		next := c[(i+1)%len(c)]
		length += distance(c[i], next)
	}
	return length
}

// ContourArea returns the polygon area enclosed by c (shoelace formula).
func ContourArea(c Contour) float64 {
	if len(c) < 3 {
		return 0
	}
	var twice int
	for i := range c {
		next := c[(i+1)%len(c)]
		twice += c[i].X*next.Y - next.X*c[i].Y
	}
	return math.Abs(float64(twice)) / 2
}

// BoundingRect returns the smallest box containing every pixel of c.
func BoundingRect(c Contour) BoundingBox {
	if len(c) == 0 {
		return BoundingBox{}
	}
	minX, minY := c[0].X, c[0].Y
	maxX, maxY := minX, minY
	for _, p := range c[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return BoundingBox{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}

// ConvexHull returns the convex hull of points in counter-clockwise order
// (Andrew's monotone chain). Collinear and duplicate points are dropped.
func ConvexHull(points []image.Point) []image.Point {
	pts := make([]image.Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	unique := pts[:0]
	for _, p := range pts {
		if len(unique) == 0 || p != unique[len(unique)-1] {
			unique = append(unique, p)
		}
	}
	pts = unique
	if len(pts) < 3 {
		return pts
	}

	cross := func(o, a, b image.Point) int {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	hull := make([]image.Point, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

func distance(a, b image.Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

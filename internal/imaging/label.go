package imaging

import (
	"fmt"
	"image"
)

// LabelMap assigns a component id to every pixel of a mask.
// 0 is background; ids start at 1 and follow raster-scan discovery order.
type LabelMap struct {
	Width  int
	Height int
	Labels []int32
}

// At returns the label at (x, y).
func (m *LabelMap) At(x, y int) int32 {
	return m.Labels[y*m.Width+x]
}

// Max returns the largest label present, which equals the component count.
func (m *LabelMap) Max() int32 {
	var top int32
	for _, l := range m.Labels {
		if l > top {
			top = l
		}
	}
	return top
}

// Areas returns the pixel count of every label, indexed by label.
// Index 0 holds the background count.
func (m *LabelMap) Areas() []int {
	areas := make([]int, m.Max()+1)
	for _, l := range m.Labels {
		areas[l]++
	}
	return areas
}

// LabelComponents labels the 8-connected foreground regions of mask by region
// growth and returns the component count with the label map.
//
// The outer loop scans top-to-bottom, left-to-right. Each unvisited foreground
// pixel seeds a breadth-first fill driven by an explicit queue, so a fully
// white frame never deepens the call stack.
func LabelComponents(mask *image.Gray) (int, *LabelMap) {
	g := newGrid(mask)
	count, labels := labelGrid(g)
	return count, &LabelMap{Width: g.w, Height: g.h, Labels: labels}
}

// labelGrid runs the region growth. A pixel is enqueued at most once, so one
// queue the size of the image serves every component.
func labelGrid(g grid) (int, []int32) {
	labels := make([]int32, g.w*g.h)
	queue := make([]int32, g.w*g.h)
	var next int32

	for seed, on := range g.on {
		if !on || labels[seed] != 0 {
			continue
		}
		next++
		labels[seed] = next
		queue[0] = int32(seed)
		head, tail := 0, 1

		for head < tail {
			p := int(queue[head])
			head++
			px, py := p%g.w, p/g.w
			for _, d := range neighbors8 {
				nx, ny := px+d.X, py+d.Y
				if nx < 0 || ny < 0 || nx >= g.w || ny >= g.h {
					continue
				}
				n := ny*g.w + nx
				if g.on[n] && labels[n] == 0 {
					labels[n] = next
					queue[tail] = int32(n)
					tail++
				}
			}
		}
	}
	return int(next), labels
}

// ComponentBoxes returns the bounding box of every label, indexed by label-1.
func ComponentBoxes(m *LabelMap) []BoundingBox {
	count := int(m.Max())
	type extent struct{ minX, minY, maxX, maxY int }
	extents := make([]extent, count)
	for i := range extents {
		extents[i] = extent{minX: m.Width, minY: m.Height, maxX: -1, maxY: -1}
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			l := m.Labels[y*m.Width+x]
			if l == 0 {
				continue
			}
			e := &extents[l-1]
			e.minX = min(e.minX, x)
			e.minY = min(e.minY, y)
			e.maxX = max(e.maxX, x)
			e.maxY = max(e.maxY, y)
		}
	}

	boxes := make([]BoundingBox, count)
	for i, e := range extents {
		boxes[i] = BoundingBox{X: e.minX, Y: e.minY, Width: e.maxX - e.minX + 1, Height: e.maxY - e.minY + 1}
	}
	return boxes
}

func checkSameSize(img image.Image, m *LabelMap) error {
	b := img.Bounds()
	if b.Dx() != m.Width || b.Dy() != m.Height {
		return fmt.Errorf("label map %dx%d does not match frame %dx%d", m.Width, m.Height, b.Dx(), b.Dy())
	}
	return nil
}

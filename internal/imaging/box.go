package imaging

import (
	"fmt"
	"image"
)

// BoundingBox is an axis-aligned rectangle given by its top-left corner and size.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether the box has a positive width and height.
func (b BoundingBox) Valid() bool {
	return b.Width > 0 && b.Height > 0
}

// Rect converts the box to an image.Rectangle (max corner exclusive).
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Area returns Width*Height.
func (b BoundingBox) Area() int {
	return b.Width * b.Height
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", b.X, b.Y, b.Width, b.Height)
}

// BoxFromRect converts an image.Rectangle to a BoundingBox.
func BoxFromRect(r image.Rectangle) BoundingBox {
	r = r.Canon()
	return BoundingBox{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

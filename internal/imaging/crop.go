package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropBox extracts box from img. The result is anchored at (0,0).
func CropBox(img image.Image, box BoundingBox) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if !box.Valid() {
		return nil, fmt.Errorf("invalid crop box %v", box)
	}
	r := box.Rect().Add(bounds.Min)
	if !r.In(bounds) {
		return nil, fmt.Errorf("crop box %v outside image bounds (%d,%d)-(%d,%d)",
			box, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	return imaging.Crop(img, r), nil
}

// ClampBox intersects box with a width x height frame anchored at the origin.
func ClampBox(box BoundingBox, width, height int) BoundingBox {
	return BoxFromRect(box.Rect().Intersect(image.Rect(0, 0, width, height)))
}

// Clone returns a deep copy of img anchored at (0,0).
func Clone(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

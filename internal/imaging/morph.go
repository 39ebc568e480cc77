package imaging

import (
	"image"
)

// StructuringSize is the side of the square structuring element used by the
// detectors' noise suppression.
const StructuringSize = 5

// Erode replaces every pixel with the minimum over a size x size square
// centered on it. Pixels outside the image are ignored.
func Erode(src *image.Gray, size int) *image.Gray {
	return rankFilter(src, size, func(a, b uint8) bool { return a < b })
}

// Dilate replaces every pixel with the maximum over a size x size square
// centered on it. Pixels outside the image are ignored.
func Dilate(src *image.Gray, size int) *image.Gray {
	return rankFilter(src, size, func(a, b uint8) bool { return a > b })
}

// Open is an erosion followed by a dilation. It removes specks smaller than
// the structuring element.
func Open(src *image.Gray, size int) *image.Gray {
	return Dilate(Erode(src, size), size)
}

// Close is a dilation followed by an erosion. It fills gaps smaller than the
// structuring element.
func Close(src *image.Gray, size int) *image.Gray {
	return Erode(Dilate(src, size), size)
}

// rankFilter applies a separable min/max filter: rows first, then columns.
func rankFilter(src *image.Gray, size int, better func(a, b uint8) bool) *image.Gray {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	radius := size / 2

	rows := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		row := src.Pix[src.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		for x := 0; x < w; x++ {
			v := row[x]
			for k := max(0, x-radius); k <= min(w-1, x+radius); k++ {
				if better(row[k], v) {
					v = row[k]
				}
			}
			rows[y*w+x] = v
		}
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := rows[y*w+x]
			for k := max(0, y-radius); k <= min(h-1, y+radius); k++ {
				if better(rows[k*w+x], v) {
					v = rows[k*w+x]
				}
			}
			dst.Pix[y*dst.Stride+x] = v
		}
	}
	return dst
}

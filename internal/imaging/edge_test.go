package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestCanny(t *testing.T) {
	// Create an image with a clear edge (black rectangle on white background)
	img := createEdgeTestImage(100, 100)

	edges := Canny(img, 50, 150)

	if edges.Bounds().Dx() != 100 || edges.Bounds().Dy() != 100 {
		t.Errorf("dimensions: got %dx%d, want 100x100", edges.Bounds().Dx(), edges.Bounds().Dy())
	}

	for i, v := range edges.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("pixel %d has level %d, want 0 or 255", i, v)
		}
	}
	if Area(edges) == 0 {
		t.Error("rectangle outline produced no edge pixels")
	}
}

func TestCanny_DifferentThresholds(t *testing.T) {
	img := createEdgeTestImage(50, 50)

	tests := []struct {
		name      string
		low, high int
	}{
		{"low thresholds", 10, 50},
		{"medium thresholds", 50, 150},
		{"high thresholds", DefaultCannyLow, DefaultCannyHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges := Canny(img, tt.low, tt.high)
			if Area(edges) == 0 {
				t.Error("no edges detected")
			}
		})
	}
}

func TestCanny_UniformImage(t *testing.T) {
	// Uniform image should have no edges
	img := createInMemoryImage(50, 50, color.RGBA{128, 128, 128, 255})

	edges := Canny(img, 50, 150)
	if got := Area(edges); got != 0 {
		t.Errorf("uniform image produced %d edge pixels, want 0", got)
	}
}

func TestCanny_StrongEdge(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if x < 50 {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}

	edges := Canny(img, 50, 150)

	// The edge should be detected around x=50
	edgeFound := false
	for x := 48; x <= 52; x++ {
		if edges.GrayAt(x, 50).Y > 0 {
			edgeFound = true
			break
		}
	}
	if !edgeFound {
		t.Error("strong vertical edge was not detected")
	}
}

func TestCanny_SmallImage(t *testing.T) {
	// Very small image (edge cases for convolution)
	img := createInMemoryImage(5, 5, color.RGBA{128, 128, 128, 255})

	edges := Canny(img, 50, 150)
	if edges.Bounds().Dx() != 5 || edges.Bounds().Dy() != 5 {
		t.Errorf("dimensions: got %dx%d, want 5x5", edges.Bounds().Dx(), edges.Bounds().Dy())
	}
}

func TestGaussianBlur(t *testing.T) {
	// Create a simple test image as float array
	width, height := 10, 10
	img := make([][]float64, height)
	for y := 0; y < height; y++ {
		img[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			img[y][x] = 0.5 // uniform gray
		}
	}

	blurred := gaussianBlur(img, width, height)

	// Uniform image should remain uniform after blur
	for y := 2; y < height-2; y++ {
		for x := 2; x < width-2; x++ {
			if absFloat(blurred[y][x]-0.5) > 0.01 {
				t.Errorf("blurred[%d][%d]: got %.3f, want ~0.5", y, x, blurred[y][x])
			}
		}
	}
}

func TestGaussianBlur_WithSpot(t *testing.T) {
	// Create image with a bright spot
	width, height := 11, 11
	img := make([][]float64, height)
	for y := 0; y < height; y++ {
		img[y] = make([]float64, width)
	}
	img[5][5] = 1.0 // bright spot in center

	blurred := gaussianBlur(img, width, height)

	// Center should be reduced (spread to neighbors)
	if blurred[5][5] >= 1.0 {
		t.Error("bright spot should be reduced after blur")
	}

	// Neighbors should receive some of the brightness
	if blurred[5][4] == 0 || blurred[5][6] == 0 || blurred[4][5] == 0 || blurred[6][5] == 0 {
		t.Error("neighbors should receive some brightness from blur")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},    // within range
		{-1, 0, 10, 0},   // below min
		{15, 0, 10, 10},  // above max
		{0, 0, 10, 0},    // at min
		{10, 0, 10, 10},  // at max
	}

	for _, tt := range tests {
		got := clamp(tt.val, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%d, %d, %d): got %d, want %d",
				tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}

// Helper functions

// createEdgeTestImage creates an image with a black rectangle on white background
// to create clear edges for testing
func createEdgeTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	// White background
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}

	// Black rectangle in center (creates 4 edges)
	for y := height/4; y < 3*height/4; y++ {
		for x := width/4; x < 3*width/4; x++ {
			img.Set(x, y, color.Black)
		}
	}

	return img
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

package imaging

import (
	"image"
	"math"
	"testing"
)

func TestFindExternalContours(t *testing.T) {
	tests := []struct {
		name       string
		mask       *image.Gray
		wantCount  int
		wantLength float64
	}{
		{"empty", maskWithRects(10, 10), 0, 0},
		{"single pixel", maskWithRects(10, 10, image.Rect(4, 4, 5, 5)), 1, 0},
		{"horizontal line", maskWithRects(10, 10, image.Rect(2, 2, 5, 3)), 1, 4},
		{"2x2 block", maskWithRects(10, 10, image.Rect(2, 2, 4, 4)), 1, 4},
		{"touching border", maskWithRects(10, 10, image.Rect(0, 0, 10, 10)), 1, 36},
		{"two blocks", maskWithRects(20, 10, image.Rect(1, 1, 4, 4), image.Rect(10, 1, 13, 4)), 2, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contours := FindExternalContours(tt.mask)
			if len(contours) != tt.wantCount {
				t.Fatalf("contours: got %d, want %d", len(contours), tt.wantCount)
			}
			var total float64
			for _, c := range contours {
				total += ArcLength(c)
			}
			if math.Abs(total-tt.wantLength) > 1e-9 {
				t.Errorf("arc length: got %f, want %f", total, tt.wantLength)
			}
		})
	}
}

func TestFindExternalContours_DiagonalNeighborsJoin(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 5, 5))
	mask.Pix[1*5+1] = 255
	mask.Pix[2*5+2] = 255

	contours := FindExternalContours(mask)
	if len(contours) != 1 {
		t.Fatalf("contours: got %d, want 1", len(contours))
	}
	if got := ArcLength(contours[0]); math.Abs(got-2*math.Sqrt2) > 1e-9 {
		t.Errorf("arc length: got %f, want %f", got, 2*math.Sqrt2)
	}
}

func TestFindExternalContours_VisitsEveryBoundaryPixel(t *testing.T) {
	mask := maskWithRects(20, 20, image.Rect(3, 3, 13, 13))

	contours := FindExternalContours(mask)
	if len(contours) != 1 {
		t.Fatalf("contours: got %d, want 1", len(contours))
	}
	if got := len(contours[0]); got != 36 {
		t.Errorf("contour points: got %d, want 36", got)
	}
	if contours[0][0] != image.Pt(3, 3) {
		t.Errorf("first point: got %v, want (3,3)", contours[0][0])
	}
}

func TestContourArea(t *testing.T) {
	mask := maskWithRects(30, 30, image.Rect(5, 5, 15, 15))
	c := FindExternalContours(mask)[0]

	if got := ContourArea(c); math.Abs(got-81) > 1e-9 {
		t.Errorf("area: got %f, want 81", got)
	}
}

func TestBoundingRect(t *testing.T) {
	mask := maskWithRects(100, 80, image.Rect(30, 30, 80, 55))
	c := FindExternalContours(mask)[0]

	want := BoundingBox{X: 30, Y: 30, Width: 50, Height: 25}
	if got := BoundingRect(c); got != want {
		t.Errorf("bounding rect: got %v, want %v", got, want)
	}
}

func TestConvexHull(t *testing.T) {
	points := []image.Point{
		{0, 0}, {4, 0}, {4, 4}, {0, 4}, {2, 2}, {1, 3}, {4, 0}, {2, 0},
	}

	hull := ConvexHull(points)
	if len(hull) != 4 {
		t.Fatalf("hull size: got %d (%v), want 4", len(hull), hull)
	}
	corners := map[image.Point]bool{{0, 0}: true, {4, 0}: true, {4, 4}: true, {0, 4}: true}
	for _, p := range hull {
		if !corners[p] {
			t.Errorf("unexpected hull vertex %v", p)
		}
	}
}

func TestConvexHull_Degenerate(t *testing.T) {
	if hull := ConvexHull(nil); len(hull) != 0 {
		t.Errorf("empty input: got %v", hull)
	}
	if hull := ConvexHull([]image.Point{{3, 3}, {3, 3}}); len(hull) != 1 {
		t.Errorf("duplicate point: got %v, want one vertex", hull)
	}
}

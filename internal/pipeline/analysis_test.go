package pipeline

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/ironsheep/vision-tools-mcp/internal/imaging"
)

func TestAnalyzer_SquareScene(t *testing.T) {
	a := NewAnalyzer()
	frame := squareMask(50, 50, image.Rect(5, 5, 15, 15))

	tests := []struct {
		kind  AnalysisKind
		value float64
	}{
		{AnalysisArea, 100},
		{AnalysisDiameter, 9 * math.Sqrt2},
		{AnalysisObjects, 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			res, err := a.Run(tt.kind, frame)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if math.Abs(res.Value-tt.value) > 1e-6 {
				t.Errorf("value: got %v, want %v", res.Value, tt.value)
			}
			if res.Count != 1 {
				t.Errorf("count: got %d, want 1", res.Count)
			}
			if res.Kind != tt.kind || res.Text == "" {
				t.Errorf("result: %+v", res)
			}
		})
	}
}

func TestAnalyzer_PerimeterIsDeterministic(t *testing.T) {
	a := NewAnalyzer()
	frame := squareMask(50, 50, image.Rect(5, 5, 15, 15))

	first, err := a.Run(AnalysisPerimeter, frame)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if first.Value <= 0 {
		t.Fatalf("perimeter: got %v", first.Value)
	}
	for i := 0; i < 3; i++ {
		again, _ := a.Run(AnalysisPerimeter, frame)
		if math.Abs(again.Value-first.Value) > 1e-6 {
			t.Fatalf("run %d: got %v, want %v", i, again.Value, first.Value)
		}
	}
}

func TestAnalyzer_Objects(t *testing.T) {
	a := NewAnalyzer()
	frame := squareMask(100, 100, image.Rect(10, 10, 15, 15))
	fill := squareMask(100, 100, image.Rect(70, 70, 75, 75))
	for i := range frame.Pix {
		frame.Pix[i] |= fill.Pix[i]
	}

	res, err := a.Run(AnalysisObjects, frame)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Count != 2 {
		t.Fatalf("count: got %d, want 2", res.Count)
	}
	if len(res.Areas) != 2 || res.Areas[0] != 25 || res.Areas[1] != 25 {
		t.Errorf("areas: got %v, want [25 25]", res.Areas)
	}
	want := []imaging.BoundingBox{{X: 10, Y: 10, Width: 5, Height: 5}, {X: 70, Y: 70, Width: 5, Height: 5}}
	if len(res.Boxes) != 2 || res.Boxes[0] != want[0] || res.Boxes[1] != want[1] {
		t.Errorf("boxes: got %v, want %v", res.Boxes, want)
	}
	if len(res.Images) != 1 || res.Images[0].Image.Bounds() != frame.Bounds() {
		t.Errorf("overlay: got %d images", len(res.Images))
	}
}

func TestAnalyzer_ObjectsEmpty(t *testing.T) {
	res, err := NewAnalyzer().Run(AnalysisObjects, solid(20, 20, color.Black))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Count != 0 || len(res.Images) != 0 {
		t.Errorf("got count %d with %d images", res.Count, len(res.Images))
	}
}

func TestAnalyzer_Histogram(t *testing.T) {
	res, err := NewAnalyzer().Run(AnalysisHistogram, squareMask(50, 50, image.Rect(5, 5, 15, 15)))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Stats == nil || res.Stats.Pixels != 2500 {
		t.Fatalf("stats: %+v", res.Stats)
	}
	if len(res.Images) != 2 {
		t.Fatalf("images: got %d, want 2", len(res.Images))
	}
	for _, img := range res.Images {
		if b := img.Image.Bounds(); b.Dx() != imaging.HistogramWidth || b.Dy() != imaging.HistogramHeight {
			t.Errorf("%s: size %v", img.Title, b)
		}
	}
}

func TestAnalyzer_FixedMode(t *testing.T) {
	frame := solid(30, 30, color.Black)
	for y := 5; y < 15; y++ {
		for x := 5; x < 15; x++ {
			frame.SetRGBA(x, y, color.RGBA{100, 100, 100, 255})
		}
	}

	otsu, _ := NewAnalyzer().Run(AnalysisArea, frame)
	fixed, _ := (&Analyzer{Mode: imaging.FixedMode(127)}).Run(AnalysisArea, frame)
	if otsu.Value != 100 {
		t.Errorf("otsu area: got %v, want 100", otsu.Value)
	}
	if fixed.Value != 0 || fixed.Threshold != 127 {
		t.Errorf("fixed area: got %v at threshold %d, want 0 at 127", fixed.Value, fixed.Threshold)
	}
}

func TestAnalyzer_NoneAndEmpty(t *testing.T) {
	a := NewAnalyzer()

	res, err := a.Run(AnalysisNone, solid(4, 4, color.White))
	if err != nil || res.Text != "Select a valid analysis." {
		t.Errorf("none: got %+v, %v", res, err)
	}

	if _, err := a.Run(AnalysisArea, nil); !errors.Is(err, ErrEmptySource) {
		t.Errorf("nil frame: got %v, want ErrEmptySource", err)
	}
	if _, err := a.Run("bogus", solid(4, 4, color.White)); err == nil {
		t.Error("unknown kind: expected error")
	}
}

func TestParseAnalysisKind(t *testing.T) {
	tests := []struct {
		name    string
		want    AnalysisKind
		wantErr bool
	}{
		{"", AnalysisNone, false},
		{"area", AnalysisArea, false},
		{"Histogram", AnalysisHistogram, false},
		{"objects", AnalysisObjects, false},
		{"volume", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAnalysisKind(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
	if n := len(AnalysisKinds()); n != 6 {
		t.Errorf("AnalysisKinds: got %d, want 6", n)
	}
}

package pipeline

import (
	"fmt"
	"image"
	"sort"
	"strings"

	"github.com/ironsheep/vision-tools-mcp/internal/imaging"
)

// AnalysisKind names an on-demand analysis.
type AnalysisKind string

// Supported analyses.
const (
	AnalysisNone      AnalysisKind = "none"
	AnalysisHistogram AnalysisKind = "histogram"
	AnalysisArea      AnalysisKind = "area"
	AnalysisPerimeter AnalysisKind = "perimeter"
	AnalysisDiameter  AnalysisKind = "diameter"
	AnalysisObjects   AnalysisKind = "objects"
)

var analysisKinds = map[AnalysisKind]bool{
	AnalysisNone:      true,
	AnalysisHistogram: true,
	AnalysisArea:      true,
	AnalysisPerimeter: true,
	AnalysisDiameter:  true,
	AnalysisObjects:   true,
}

// ParseAnalysisKind resolves a kind by name. The empty string selects
// AnalysisNone.
func ParseAnalysisKind(name string) (AnalysisKind, error) {
	if name == "" {
		return AnalysisNone, nil
	}
	k := AnalysisKind(strings.ToLower(name))
	if !analysisKinds[k] {
		return "", fmt.Errorf("unknown analysis %q (valid: %s)", name, strings.Join(AnalysisKinds(), ", "))
	}
	return k, nil
}

// AnalysisKinds returns the supported kind names, sorted.
func AnalysisKinds() []string {
	names := make([]string, 0, len(analysisKinds))
	for k := range analysisKinds {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names
}

// Rendered is an image produced by an analysis.
type Rendered struct {
	Title string
	Image image.Image
}

// AnalysisResult is the outcome of one analysis. Text is always set; Images
// holds the charts or overlays the analysis rendered.
type AnalysisResult struct {
	Kind      AnalysisKind            `json:"kind"`
	Text      string                  `json:"text"`
	Threshold int                     `json:"threshold"`
	Value     float64                 `json:"value"`
	Count     int                     `json:"count,omitempty"`
	Areas     []int                   `json:"areas,omitempty"`
	Boxes     []imaging.BoundingBox   `json:"boxes,omitempty"`
	Stats     *imaging.HistogramStats `json:"stats,omitempty"`
	Images    []Rendered              `json:"-"`
}

// Analyzer runs the on-demand analyses with a fixed binarization mode and
// label palette seed. It holds no per-frame state and is safe for concurrent
// use.
type Analyzer struct {
	Mode imaging.Mode
	Seed int64
}

// NewAnalyzer returns an Analyzer using Otsu binarization and the default
// label seed.
func NewAnalyzer() *Analyzer {
	return &Analyzer{Mode: imaging.OtsuMode(), Seed: imaging.DefaultLabelSeed}
}

// Run executes kind on frame. frame is only read.
func (a *Analyzer) Run(kind AnalysisKind, frame image.Image) (*AnalysisResult, error) {
	if frame == nil || frame.Bounds().Empty() {
		return nil, ErrEmptySource
	}
	if kind == AnalysisNone || kind == "" {
		return &AnalysisResult{Kind: AnalysisNone, Text: "Select a valid analysis."}, nil
	}
	if !analysisKinds[kind] {
		return nil, fmt.Errorf("unknown analysis %q", kind)
	}

	mask, threshold := imaging.Binarize(frame, a.Mode)
	res := &AnalysisResult{Kind: kind, Threshold: int(threshold)}

	switch kind {
	case AnalysisHistogram:
		grayBins := imaging.Histogram(frame)
		stats := imaging.ComputeHistogramStats(grayBins)
		res.Stats = &stats
		res.Value = stats.Mean
		res.Text = fmt.Sprintf("Histogram generated (grayscale and binary). Mean %.2f, std dev %.2f.", stats.Mean, stats.StdDev)
		res.Images = []Rendered{
			{Title: "Grayscale histogram", Image: imaging.RenderHistogram(grayBins, "Grayscale histogram")},
			{Title: "Binary histogram", Image: imaging.RenderHistogram(imaging.Histogram(mask), "Binary histogram")},
		}

	case AnalysisArea, AnalysisPerimeter, AnalysisDiameter:
		m := imaging.Measure(mask)
		res.Count = m.Shapes
		switch kind {
		case AnalysisArea:
			res.Value = float64(m.Area)
			res.Text = fmt.Sprintf("Area (white pixels): %d", m.Area)
		case AnalysisPerimeter:
			res.Value = m.Perimeter
			res.Text = fmt.Sprintf("Total perimeter: %.2f", m.Perimeter)
		default:
			res.Value = m.Diameter
			res.Text = fmt.Sprintf("Maximum diameter: %.2f px", m.Diameter)
		}

	case AnalysisObjects:
		count, labels := imaging.LabelComponents(mask)
		res.Count = count
		res.Value = float64(count)
		res.Text = fmt.Sprintf("Objects found: %d", count)
		if count == 0 {
			res.Text += "\nNo objects to visualize."
			break
		}
		res.Areas = labels.Areas()[1:]
		res.Boxes = imaging.ComponentBoxes(labels)
		overlay, err := imaging.VisualizeLabels(frame, labels, a.Seed)
		if err != nil {
			return nil, err
		}
		res.Images = []Rendered{{Title: "Labeled objects", Image: overlay}}
	}
	return res, nil
}

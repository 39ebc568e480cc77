package detection

import (
	"fmt"
	"image"

	"github.com/ironsheep/vision-tools-mcp/internal/imaging"
)

// Color-blob acceptance defaults.
const (
	DefaultMinBlobArea = 1000.0
	DefaultMinAspect   = 1.5
	DefaultMaxAspect   = 4.5
	DefaultEdgeMargin  = 20
)

// DefaultHSVRange selects saturated purples: hue 250-310 degrees with
// saturation and value of at least 0.196.
func DefaultHSVRange() imaging.HSVRange {
	return imaging.HSVRange{
		Min: imaging.HSV{H: 250, S: 0.196, V: 0.196},
		Max: imaging.HSV{H: 310, S: 1, V: 1},
	}
}

// BlobConfig holds the ColorBlobDetector thresholds.
type BlobConfig struct {
	Range imaging.HSVRange
	// MinArea is compared against the contour's polygon area.
	MinArea float64
	// MinAspect and MaxAspect bound max(w,h)/(min(w,h)+1), both exclusive.
	MinAspect float64
	MaxAspect float64
	// EdgeMargin is the clearance the box must keep from every frame edge.
	EdgeMargin int
}

// DefaultBlobConfig returns the standard thresholds.
func DefaultBlobConfig() BlobConfig {
	return BlobConfig{
		Range:      DefaultHSVRange(),
		MinArea:    DefaultMinBlobArea,
		MinAspect:  DefaultMinAspect,
		MaxAspect:  DefaultMaxAspect,
		EdgeMargin: DefaultEdgeMargin,
	}
}

// ColorBlobDetector looks for one object of a known color.
type ColorBlobDetector struct {
	cfg     BlobConfig
	tracker Initializer
}

// NewColorBlobDetector returns a detector that seeds tracker on every
// detection. tracker may be nil.
func NewColorBlobDetector(cfg BlobConfig, tracker Initializer) *ColorBlobDetector {
	return &ColorBlobDetector{cfg: cfg, tracker: tracker}
}

// Config returns the detector thresholds.
func (d *ColorBlobDetector) Config() BlobConfig {
	return d.cfg
}

// Mask returns the in-range mask after opening then closing with a
// 5x5 square.
func (d *ColorBlobDetector) Mask(frame image.Image) *image.Gray {
	mask := imaging.InRangeHSV(frame, d.cfg.Range)
	mask = imaging.Open(mask, imaging.StructuringSize)
	return imaging.Close(mask, imaging.StructuringSize)
}

// Detect scans the external contours of the cleaned mask in order and stops
// at the first one that qualifies. It returns nil when nothing qualifies.
//
// A qualifying blob is always reported; the error describes a failed tracker
// seed and does not invalidate the event.
func (d *ColorBlobDetector) Detect(frame image.Image, frameIndex int64) (*Event, error) {
	bounds := frame.Bounds()
	for _, c := range imaging.FindExternalContours(d.Mask(frame)) {
		box, ok := d.qualify(c, bounds.Dx(), bounds.Dy())
		if !ok {
			continue
		}

		ev := &Event{Box: box, Source: SourceColorBlob, FrameIndex: frameIndex}
		if d.tracker != nil {
			if err := d.tracker.Init(frame, box); err != nil {
				return ev, fmt.Errorf("seed tracker from color blob: %w", err)
			}
		}
		return ev, nil
	}
	return nil, nil
}

func (d *ColorBlobDetector) qualify(c imaging.Contour, width, height int) (imaging.BoundingBox, bool) {
	if imaging.ContourArea(c) < d.cfg.MinArea {
		return imaging.BoundingBox{}, false
	}

	box := imaging.BoundingRect(c)
	aspect := float64(max(box.Width, box.Height)) / float64(min(box.Width, box.Height)+1)
	if aspect <= d.cfg.MinAspect || aspect >= d.cfg.MaxAspect {
		return imaging.BoundingBox{}, false
	}

	m := d.cfg.EdgeMargin
	if box.X <= m || box.Y <= m || box.X+box.Width >= width-m || box.Y+box.Height >= height-m {
		return imaging.BoundingBox{}, false
	}
	return box, true
}

package detection

import (
	"fmt"
	"image"

	"github.com/ironsheep/vision-tools-mcp/internal/imaging"
)

// Source identifies the detector that produced an Event.
type Source int

const (
	SourceColorBlob Source = iota
	SourceTemplate
)

func (s Source) String() string {
	switch s {
	case SourceColorBlob:
		return "color_blob"
	case SourceTemplate:
		return "template"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// MarshalText encodes the source by name.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Event records one detection on one frame.
type Event struct {
	Box        imaging.BoundingBox `json:"box"`
	Source     Source              `json:"source"`
	FrameIndex int64               `json:"frame_index"`
	// Score is the correlation of template detections; 0 for color blobs.
	Score float64 `json:"score,omitempty"`
}

// Initializer seeds a tracker with a detected box.
type Initializer interface {
	Init(frame image.Image, box imaging.BoundingBox) error
}

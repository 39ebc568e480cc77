package capture

import (
	"errors"
	"image"
	"time"
)

// ErrOpenCVUnavailable is returned by the video and camera constructors in
// builds without the opencv tag.
var ErrOpenCVUnavailable = errors.New("video capture requires a build with -tags opencv")

// DefaultFrameInterval paces sources that carry no timing of their own.
const DefaultFrameInterval = time.Second / 30

// Source produces frames.
type Source interface {
	// NextFrame returns the next frame, or false when the source is exhausted
	// or failed.
	NextFrame() (image.Image, bool)
	// IsOpen reports whether more frames may follow.
	IsOpen() bool
	// FrameInterval is the native time to hold the frame NextFrame last
	// returned. The worker asks again after every frame.
	FrameInterval() time.Duration
	// Name describes the source for logs and status.
	Name() string
	Close() error
}

func intervalFromFPS(fps float64) time.Duration {
	if fps <= 0 {
		return DefaultFrameInterval
	}
	return time.Duration(float64(time.Second) / fps)
}

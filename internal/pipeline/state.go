package pipeline

import (
	"image"
	"sync"

	"github.com/ironsheep/vision-tools-mcp/internal/imaging"
)

// State holds the frames shared between the capture worker, the render tick
// and on-demand callers. One mutex guards every field.
type State struct {
	mu       sync.Mutex
	live     image.Image
	still    image.Image
	rendered image.Image
	frames   int64
}

// NewState returns an empty State.
func NewState() *State {
	return &State{}
}

// Publish stores a copy of frame as the current live frame. It implements
// capture.Publisher.
func (s *State) Publish(frame image.Image) {
	if frame == nil {
		return
	}
	cp := imaging.Clone(frame)

	s.mu.Lock()
	s.live = cp
	s.frames++
	s.mu.Unlock()
}

// SetStill stores a copy of img as the static image used when no live source
// has published a frame.
func (s *State) SetStill(img image.Image) {
	var cp image.Image
	if img != nil {
		cp = imaging.Clone(img)
	}

	s.mu.Lock()
	s.still = cp
	s.mu.Unlock()
}

// ClearLive drops the live frame so Snapshot falls back to the still image.
func (s *State) ClearLive() {
	s.mu.Lock()
	s.live = nil
	s.mu.Unlock()
}

// Snapshot returns a private copy of the live frame, or of the still image
// when there is no live frame. ok is false when neither exists.
func (s *State) Snapshot() (frame image.Image, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.live
	if src == nil {
		src = s.still
	}
	if src == nil {
		return nil, false
	}
	return imaging.Clone(src), true
}

// Live reports whether a live frame is present.
func (s *State) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live != nil
}

// Published returns how many live frames have been published.
func (s *State) Published() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// SetRendered records the last processed frame. The caller gives up
// ownership of img.
func (s *State) SetRendered(img image.Image) {
	s.mu.Lock()
	s.rendered = img
	s.mu.Unlock()
}

// Rendered returns a copy of the last processed frame.
func (s *State) Rendered() (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rendered == nil {
		return nil, false
	}
	return imaging.Clone(s.rendered), true
}

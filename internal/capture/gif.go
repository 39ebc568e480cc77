package capture

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// GIFSource plays the frames of an animated GIF with their own delays.
type GIFSource struct {
	name string
	anim *gif.GIF
	loop bool

	mu     sync.Mutex
	next   int
	cur    int // index of the frame last returned
	canvas *image.RGBA
	prev   *image.RGBA
	closed bool
}

// OpenGIF decodes the animation at path. With loop set the animation
// restarts after the last frame instead of closing.
func OpenGIF(path string, loop bool) (*GIFSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open gif: %w", err)
	}
	defer f.Close()

	anim, err := gif.DecodeAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode gif: %w", err)
	}
	return NewGIFSource(filepath.Base(path), anim, loop)
}

// NewGIFSource plays an already decoded animation.
func NewGIFSource(name string, anim *gif.GIF, loop bool) (*GIFSource, error) {
	if len(anim.Image) == 0 {
		return nil, fmt.Errorf("gif %s has no frames", name)
	}
	w, h := anim.Config.Width, anim.Config.Height
	if w == 0 || h == 0 {
		b := anim.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}
	return &GIFSource{
		name:   name,
		anim:   anim,
		loop:   loop,
		canvas: image.NewRGBA(image.Rect(0, 0, w, h)),
	}, nil
}

// NextFrame composites the next GIF frame onto the canvas and returns a copy.
func (s *GIFSource) NextFrame() (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, false
	}
	if s.next >= len(s.anim.Image) {
		if !s.loop {
			s.closed = true
			return nil, false
		}
		s.next = 0
		draw.Draw(s.canvas, s.canvas.Bounds(), image.Transparent, image.Point{}, draw.Src)
	}

	i := s.next
	s.next++
	s.cur = i

	disposal := byte(gif.DisposalNone)
	if i < len(s.anim.Disposal) {
		disposal = s.anim.Disposal[i]
	}
	if disposal == gif.DisposalPrevious {
		s.prev = cloneRGBA(s.canvas)
	}

	frame := s.anim.Image[i]
	draw.Draw(s.canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
	out := cloneRGBA(s.canvas)

	switch disposal {
	case gif.DisposalBackground:
		draw.Draw(s.canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
	case gif.DisposalPrevious:
		s.canvas = s.prev
	}
	return out, true
}

// IsOpen reports whether frames remain.
func (s *GIFSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// FrameInterval returns the delay of the frame NextFrame last returned, or
// of the first frame before any was read. GIF delays are in hundredths of a
// second; a zero delay selects DefaultFrameInterval.
func (s *GIFSource) FrameInterval() time.Duration {
	s.mu.Lock()
	i := s.cur
	s.mu.Unlock()

	if i >= len(s.anim.Delay) || s.anim.Delay[i] <= 0 {
		return DefaultFrameInterval
	}
	return time.Duration(s.anim.Delay[i]) * 10 * time.Millisecond
}

func (s *GIFSource) Name() string {
	return "gif:" + s.name
}

func (s *GIFSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

package capture

import (
	"image"
	"sync"
	"testing"
	"time"
)

// sliceSource yields a fixed list of frames.
type sliceSource struct {
	mu       sync.Mutex
	frames   []image.Image
	interval time.Duration
	closed   bool
	closes   int
}

func newSliceSource(n int, interval time.Duration) *sliceSource {
	s := &sliceSource{interval: interval}
	for i := 0; i < n; i++ {
		s.frames = append(s.frames, image.NewGray(image.Rect(0, 0, 4+i, 4)))
	}
	return s
}

func (s *sliceSource) NextFrame() (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil, false
	}
	f := s.frames[0]
	s.frames = s.frames[1:]
	return f, true
}

func (s *sliceSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

func (s *sliceSource) FrameInterval() time.Duration { return s.interval }
func (s *sliceSource) Name() string                 { return "slice" }

func (s *sliceSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.closes++
	s.mu.Unlock()
	return nil
}

// slot keeps the most recent frame, like the pipeline's current-frame slot.
type slot struct {
	mu    sync.Mutex
	last  image.Image
	count int
}

func (s *slot) Publish(frame image.Image) {
	s.mu.Lock()
	s.last = frame
	s.count++
	s.mu.Unlock()
}

func waitDone(t *testing.T, w *Worker) {
	t.Helper()
	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not exit")
	}
}

func TestWorker_DrainsSource(t *testing.T) {
	src := newSliceSource(5, time.Millisecond)
	pub := &slot{}
	w := NewWorker(src, pub)
	w.Start()
	waitDone(t, w)

	if pub.count != 5 {
		t.Errorf("published: got %d, want 5", pub.count)
	}
	if pub.last.Bounds().Dx() != 8 {
		t.Errorf("last frame width: got %d, want 8", pub.last.Bounds().Dx())
	}
	if src.closes != 1 {
		t.Errorf("source closes: got %d, want 1", src.closes)
	}
	stats := w.Stats()
	if stats.Frames != 5 || stats.Running || stats.ID == "" || stats.Source != "slice" {
		t.Errorf("stats: got %+v", stats)
	}
}

func TestWorker_StopIsCooperative(t *testing.T) {
	src := newSliceSource(1000, 5*time.Millisecond)
	pub := &slot{}
	w := NewWorker(src, pub)
	w.Start()

	time.Sleep(30 * time.Millisecond)
	w.Stop()
	waitDone(t, w)

	if w.Stats().Running {
		t.Error("worker still reports running")
	}
	if pub.count == 0 || pub.count >= 1000 {
		t.Errorf("published %d frames, want some but not all", pub.count)
	}
	if src.closes != 1 {
		t.Errorf("source closes: got %d, want 1", src.closes)
	}
}

func TestWorker_Paces(t *testing.T) {
	src := newSliceSource(4, 20*time.Millisecond)
	w := NewWorker(src, &slot{})

	start := time.Now()
	w.Start()
	waitDone(t, w)

	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("4 frames at 20ms took %v, want at least 60ms", elapsed)
	}
}

// varyingSource reports a different interval for each frame it returned.
type varyingSource struct {
	*sliceSource
	intervals []time.Duration
	read      int
}

func (s *varyingSource) NextFrame() (image.Image, bool) {
	f, ok := s.sliceSource.NextFrame()
	if ok {
		s.mu.Lock()
		s.read++
		s.mu.Unlock()
	}
	return f, ok
}

func (s *varyingSource) FrameInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.read == 0 {
		return s.intervals[0]
	}
	return s.intervals[s.read-1]
}

func TestWorker_PacesEachFrame(t *testing.T) {
	src := &varyingSource{
		sliceSource: newSliceSource(2, 0),
		intervals:   []time.Duration{time.Millisecond, 80 * time.Millisecond},
	}
	w := NewWorker(src, &slot{})

	start := time.Now()
	w.Start()
	waitDone(t, w)

	if elapsed := time.Since(start); elapsed < 70*time.Millisecond {
		t.Errorf("second frame delay ignored: took %v, want at least 70ms", elapsed)
	}
}

func TestWorker_StartedSetAtConstruction(t *testing.T) {
	before := time.Now()
	w := NewWorker(newSliceSource(0, 0), &slot{})
	if started := w.Stats().Started; started.Before(before) || started.IsZero() {
		t.Errorf("started: got %v, want at or after %v", started, before)
	}
}

func TestWorker_UniqueIDs(t *testing.T) {
	a := NewWorker(newSliceSource(0, 0), &slot{})
	b := NewWorker(newSliceSource(0, 0), &slot{})
	if a.Stats().ID == b.Stats().ID {
		t.Error("workers share an id")
	}
}

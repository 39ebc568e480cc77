package capture

import (
	"image"
	"log"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Publisher receives frames from a Worker. Publish must not retain frame
// beyond copying it.
type Publisher interface {
	Publish(frame image.Image)
}

// Stats is a snapshot of a worker's progress.
type Stats struct {
	ID      string    `json:"id"`
	Source  string    `json:"source"`
	Frames  int64     `json:"frames"`
	Running bool      `json:"running"`
	Started time.Time `json:"started"`
}

// Worker runs one Source on a background goroutine.
type Worker struct {
	id      string
	src     Source
	pub     Publisher
	started time.Time

	running atomic.Bool
	frames  atomic.Int64
	done    chan struct{}
}

// NewWorker binds src to pub. Call Start to begin reading.
func NewWorker(src Source, pub Publisher) *Worker {
	return &Worker{
		id:      uuid.NewString(),
		src:     src,
		pub:     pub,
		started: time.Now(),
		done:    make(chan struct{}),
	}
}

// Start launches the read loop. It must be called at most once.
func (w *Worker) Start() {
	w.running.Store(true)
	log.Printf("Capture %s started: %s", w.id, w.src.Name())
	go w.run()
}

func (w *Worker) run() {
	defer close(w.done)
	defer func() {
		if err := w.src.Close(); err != nil {
			log.Printf("Capture %s close: %v", w.id, err)
		}
	}()

	for w.running.Load() && w.src.IsOpen() {
		start := time.Now()
		frame, ok := w.src.NextFrame()
		if !ok {
			break
		}
		// Sources with per-frame timing report the delay of this frame.
		interval := w.src.FrameInterval()
		w.pub.Publish(frame)
		w.frames.Add(1)

		if rest := interval - time.Since(start); rest > 0 {
			time.Sleep(rest)
		}
	}
	w.running.Store(false)
	log.Printf("Capture %s stopped after %d frames", w.id, w.frames.Load())
}

// Stop asks the loop to exit after the current frame. It does not wait; use
// Done for that.
func (w *Worker) Stop() {
	w.running.Store(false)
}

// Done is closed once the loop has exited and the source is closed.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Stats returns a snapshot of the worker's progress.
func (w *Worker) Stats() Stats {
	return Stats{
		ID:      w.id,
		Source:  w.src.Name(),
		Frames:  w.frames.Load(),
		Running: w.running.Load(),
		Started: w.started,
	}
}

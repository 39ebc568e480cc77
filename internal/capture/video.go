//go:build opencv

package capture

import (
	"fmt"
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// VideoSource reads frames from an OpenCV capture: a video file or a camera.
type VideoSource struct {
	name     string
	interval time.Duration

	mu     sync.Mutex
	cap    *gocv.VideoCapture
	mat    gocv.Mat
	closed bool
}

// OpenVideoFile opens a video file. Its native frame rate sets the interval.
func OpenVideoFile(path string) (Source, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video: %w", err)
	}
	return newVideoSource("video:"+path, vc), nil
}

// OpenCamera opens a capture device by index.
func OpenCamera(device int) (Source, error) {
	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %d: %w", device, err)
	}
	return newVideoSource(fmt.Sprintf("camera:%d", device), vc), nil
}

func newVideoSource(name string, vc *gocv.VideoCapture) *VideoSource {
	return &VideoSource{
		name:     name,
		interval: intervalFromFPS(vc.Get(gocv.VideoCaptureFPS)),
		cap:      vc,
		mat:      gocv.NewMat(),
	}
}

// NextFrame reads and converts the next frame. Empty reads end the stream.
func (s *VideoSource) NextFrame() (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, false
	}
	if ok := s.cap.Read(&s.mat); !ok || s.mat.Empty() {
		s.closed = true
		return nil, false
	}
	img, err := s.mat.ToImage()
	if err != nil {
		s.closed = true
		return nil, false
	}
	return img, true
}

func (s *VideoSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.cap.IsOpened()
}

func (s *VideoSource) FrameInterval() time.Duration {
	return s.interval
}

func (s *VideoSource) Name() string {
	return s.name
}

// Close releases the capture handle. It is safe to call more than once.
func (s *VideoSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cap == nil {
		return nil
	}
	s.closed = true
	s.mat.Close()
	err := s.cap.Close()
	s.cap = nil
	return err
}

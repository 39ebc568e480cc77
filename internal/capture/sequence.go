package capture

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ironsheep/vision-tools-mcp/internal/imaging"
)

// SequenceSource plays a directory of still images in file-name order.
type SequenceSource struct {
	dir      string
	files    []string
	interval time.Duration

	mu     sync.Mutex
	next   int
	closed bool
}

// sequenceExts lists the frame formats picked up from a directory.
var sequenceExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".bmp": true, ".gif": true,
}

// OpenSequence lists the image files in dir. fps sets the playback rate; 0
// or less selects DefaultFrameInterval.
func OpenSequence(dir string, fps float64) (*SequenceSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sequence directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !sequenceExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no image files in %s", dir)
	}
	sort.Strings(files)

	return &SequenceSource{dir: dir, files: files, interval: intervalFromFPS(fps)}, nil
}

// NextFrame loads the next file. Unreadable files are skipped.
func (s *SequenceSource) NextFrame() (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for !s.closed && s.next < len(s.files) {
		path := s.files[s.next]
		s.next++
		img, err := imaging.LoadImage(path)
		if err != nil {
			log.Printf("Sequence skipping %s: %v", path, err)
			continue
		}
		return img, true
	}
	s.closed = true
	return nil, false
}

// Len returns the number of frames in the sequence.
func (s *SequenceSource) Len() int {
	return len(s.files)
}

func (s *SequenceSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

func (s *SequenceSource) FrameInterval() time.Duration {
	return s.interval
}

func (s *SequenceSource) Name() string {
	return "sequence:" + s.dir
}

func (s *SequenceSource) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"

	"github.com/ironsheep/vision-tools-mcp/internal/imaging"
)

// Asset is a fully decoded audio clip.
type Asset struct {
	Path   string
	Format beep.Format
	buf    *beep.Buffer
}

// LoadAsset decodes the WAV or MP3 file at path into memory. Failures wrap
// imaging.ErrAssetLoad.
func LoadAsset(path string) (*Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", imaging.ErrAssetLoad, err)
	}

	stream, format, err := decode(path, f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", imaging.ErrAssetLoad, path, err)
	}
	defer stream.Close()

	buf := beep.NewBuffer(format)
	buf.Append(stream)
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", imaging.ErrAssetLoad, path, err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("%w: %s: no samples", imaging.ErrAssetLoad, path)
	}
	return &Asset{Path: path, Format: format, buf: buf}, nil
}

// decode picks the decoder by extension. The returned stream owns f.
func decode(path string, f io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return wav.Decode(f)
	case ".mp3":
		return mp3.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format %q", filepath.Ext(path))
	}
}

// Len returns the clip length in samples.
func (a *Asset) Len() int {
	return a.buf.Len()
}

// Duration returns the clip length.
func (a *Asset) Duration() time.Duration {
	return a.Format.SampleRate.D(a.buf.Len())
}

// Loop returns a streamer that repeats the clip forever.
func (a *Asset) Loop() beep.Streamer {
	return beep.Loop(-1, a.buf.Streamer(0, a.buf.Len()))
}

package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/ironsheep/vision-tools-mcp/internal/imaging"
)

// writeTone writes a mono 8 kHz WAV of n samples and returns its path.
func writeTone(t *testing.T, n int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	format := beep.Format{SampleRate: 8000, NumChannels: 1, Precision: 2}
	if err := wav.Encode(f, beep.Take(n, beep.Silence(-1)), format); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestLoadAsset_WAV(t *testing.T) {
	a, err := LoadAsset(writeTone(t, 800))
	if err != nil {
		t.Fatalf("LoadAsset failed: %v", err)
	}
	if a.Len() != 800 {
		t.Errorf("samples: got %d, want 800", a.Len())
	}
	if a.Duration() != 100*time.Millisecond {
		t.Errorf("duration: got %v, want 100ms", a.Duration())
	}
	if a.Format.SampleRate != 8000 {
		t.Errorf("sample rate: got %d, want 8000", a.Format.SampleRate)
	}
}

func TestAsset_LoopRepeats(t *testing.T) {
	a, err := LoadAsset(writeTone(t, 100))
	if err != nil {
		t.Fatalf("LoadAsset failed: %v", err)
	}

	samples := make([][2]float64, 350)
	n, ok := a.Loop().Stream(samples)
	if !ok || n != len(samples) {
		t.Errorf("loop stream: got n=%d ok=%v, want %d samples", n, ok, len(samples))
	}
}

func TestLoadAsset_Errors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "noise.wav")
	if err := os.WriteFile(garbage, []byte("RIFF but not really"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	text := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(text, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.wav")},
		{"corrupt wav", garbage},
		{"unsupported extension", text},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadAsset(tt.path); !errors.Is(err, imaging.ErrAssetLoad) {
				t.Errorf("error: got %v, want ErrAssetLoad", err)
			}
		})
	}
}

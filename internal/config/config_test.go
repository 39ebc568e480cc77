package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/vision-tools-mcp/internal/imaging"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vision.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.TickHz != 20 {
		t.Errorf("tick_hz: got %g, want 20", cfg.TickHz)
	}
	if cfg.BinarizeMode() != imaging.OtsuMode() {
		t.Errorf("binarization: got %+v, want otsu", cfg.BinarizeMode())
	}
	if !cfg.ColorBlob.Enabled {
		t.Error("color blob detection should be enabled by default")
	}
	if cfg.Template.InitTracker {
		t.Error("template matches should not seed the tracker by default")
	}
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
tick_hz: 10
effect: negative
analysis:
  binarization: fixed
  fixed_threshold: 90
tracker:
  backends: [ncc]
color_blob:
  hue_min: 90
  hue_max: 150
template:
  path: /tmp/logo.png
  init_tracker: true
viewer:
  addr: 127.0.0.1:8765
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TickHz != 10 || cfg.Effect != "negative" {
		t.Errorf("top level: got tick_hz=%g effect=%s", cfg.TickHz, cfg.Effect)
	}
	if cfg.BinarizeMode() != imaging.FixedMode(90) {
		t.Errorf("binarization: got %+v", cfg.BinarizeMode())
	}
	if len(cfg.Tracker.Backends) != 1 || cfg.Tracker.Backends[0] != "ncc" {
		t.Errorf("backends: got %v", cfg.Tracker.Backends)
	}
	if cfg.Tracker.MinSize != 5 {
		t.Errorf("min_size: got %d, want default 5", cfg.Tracker.MinSize)
	}

	r := cfg.ColorBlob.Range()
	if r.Min.H != 90 || r.Max.H != 150 || r.Min.S != 0.196 {
		t.Errorf("range: got %+v", r)
	}
	if cfg.ColorBlob.MinArea != 1000 {
		t.Errorf("min_area: got %g, want default 1000", cfg.ColorBlob.MinArea)
	}
	if !cfg.Template.InitTracker || cfg.Template.Threshold != 0.8 {
		t.Errorf("template: got %+v", cfg.Template)
	}
	if cfg.Viewer.Addr != "127.0.0.1:8765" {
		t.Errorf("viewer addr: got %q", cfg.Viewer.Addr)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"bad yaml", "tick_hz: [", "failed to parse config"},
		{"tick rate", "tick_hz: 0", "tick_hz"},
		{"effect", "effect: sepia", "unknown effect"},
		{"binarization", "analysis:\n  binarization: adaptive", "unknown binarization mode"},
		{"fixed threshold", "analysis:\n  binarization: fixed\n  fixed_threshold: 400", "outside 0-255"},
		{"hue order", "color_blob:\n  hue_min: 200\n  hue_max: 100", "hue range"},
		{"saturation", "color_blob:\n  sat_max: 2", "sat range"},
		{"aspect", "color_blob:\n  min_aspect: 5", "min_aspect"},
		{"template threshold", "template:\n  threshold: 1.5", "template.threshold"},
		{"overlay color", "overlay:\n  lost_color: purple", "lost_color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

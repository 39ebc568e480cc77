// Package config loads the server configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/vision-tools-mcp/internal/imaging"
)

// Config is the complete server configuration.
type Config struct {
	// TickHz is the render/analysis tick rate.
	TickHz    float64         `yaml:"tick_hz"`
	Effect    string          `yaml:"effect"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Tracker   TrackerConfig   `yaml:"tracker"`
	ColorBlob ColorBlobConfig `yaml:"color_blob"`
	Template  TemplateConfig  `yaml:"template"`
	Audio     AudioConfig     `yaml:"audio"`
	Capture   CaptureConfig   `yaml:"capture"`
	Viewer    ViewerConfig    `yaml:"viewer"`
	Overlay   OverlayConfig   `yaml:"overlay"`
}

// AnalysisConfig selects the binarization used by every analysis.
type AnalysisConfig struct {
	Binarization   string `yaml:"binarization"` // otsu, fixed
	FixedThreshold int    `yaml:"fixed_threshold"`
	LabelSeed      int64  `yaml:"label_seed"`
}

// TrackerConfig orders the tracking backends.
type TrackerConfig struct {
	Backends []string `yaml:"backends"` // empty = every registered backend
	MinSize  int      `yaml:"min_size"`
}

// ColorBlobConfig holds the color-blob detector thresholds. Hue is in
// degrees; saturation and value are in [0,1].
type ColorBlobConfig struct {
	Enabled    bool    `yaml:"enabled"`
	HueMin     float64 `yaml:"hue_min"`
	HueMax     float64 `yaml:"hue_max"`
	SatMin     float64 `yaml:"sat_min"`
	SatMax     float64 `yaml:"sat_max"`
	ValMin     float64 `yaml:"val_min"`
	ValMax     float64 `yaml:"val_max"`
	MinArea    float64 `yaml:"min_area"`
	MinAspect  float64 `yaml:"min_aspect"`
	MaxAspect  float64 `yaml:"max_aspect"`
	EdgeMargin int     `yaml:"edge_margin"`
}

// TemplateConfig configures the template matcher.
type TemplateConfig struct {
	Path        string  `yaml:"path"`
	Threshold   float64 `yaml:"threshold"`
	InitTracker bool    `yaml:"init_tracker"`
}

// AudioConfig configures the audio cue.
type AudioConfig struct {
	Path string `yaml:"path"`
	// Mute keeps the synchronizer running without opening the speaker.
	Mute bool `yaml:"mute"`
}

// CaptureConfig holds source defaults.
type CaptureConfig struct {
	SequenceFPS float64 `yaml:"sequence_fps"`
	LoopGIF     bool    `yaml:"loop_gif"`
}

// ViewerConfig enables the HTTP viewer when Addr is set.
type ViewerConfig struct {
	Addr string `yaml:"addr"`
}

// OverlayConfig sets the annotation colors as "#RRGGBB".
type OverlayConfig struct {
	TrackColor    string `yaml:"track_color"`
	TemplateColor string `yaml:"template_color"`
	LostColor     string `yaml:"lost_color"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		TickHz: 20,
		Effect: "none",
		Analysis: AnalysisConfig{
			Binarization:   "otsu",
			FixedThreshold: imaging.DefaultFixedThreshold,
			LabelSeed:      imaging.DefaultLabelSeed,
		},
		Tracker: TrackerConfig{MinSize: 5},
		ColorBlob: ColorBlobConfig{
			Enabled:    true,
			HueMin:     250,
			HueMax:     310,
			SatMin:     0.196,
			SatMax:     1,
			ValMin:     0.196,
			ValMax:     1,
			MinArea:    1000,
			MinAspect:  1.5,
			MaxAspect:  4.5,
			EdgeMargin: 20,
		},
		Template: TemplateConfig{Threshold: 0.8},
		Capture:  CaptureConfig{SequenceFPS: 10},
		Overlay: OverlayConfig{
			TrackColor:    "#00ff00",
			TemplateColor: "#ffc800",
			LostColor:     "#ff0000",
		},
	}
}

// Load reads the YAML file at path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// BinarizeMode returns the configured binarization mode. Call Validate first.
func (c *Config) BinarizeMode() imaging.Mode {
	mode, err := imaging.ParseMode(c.Analysis.Binarization, c.Analysis.FixedThreshold)
	if err != nil {
		return imaging.OtsuMode()
	}
	return mode
}

// Range returns the configured HSV range.
func (c ColorBlobConfig) Range() imaging.HSVRange {
	return imaging.HSVRange{
		Min: imaging.HSV{H: c.HueMin, S: c.SatMin, V: c.ValMin},
		Max: imaging.HSV{H: c.HueMax, S: c.SatMax, V: c.ValMax},
	}
}

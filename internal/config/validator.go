package config

import (
	"fmt"

	"github.com/ironsheep/vision-tools-mcp/internal/imaging"
)

// Validate checks the configuration and fills zero values that have a
// sensible default.
func Validate(cfg *Config) error {
	if cfg.TickHz <= 0 || cfg.TickHz > 120 {
		return fmt.Errorf("tick_hz must be in (0, 120], got %g", cfg.TickHz)
	}
	if _, err := imaging.ParseEffect(cfg.Effect); err != nil {
		return fmt.Errorf("effect: %w", err)
	}
	if _, err := imaging.ParseMode(cfg.Analysis.Binarization, cfg.Analysis.FixedThreshold); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}

	if cfg.Tracker.MinSize < 0 {
		return fmt.Errorf("tracker.min_size must be >= 0")
	}
	if cfg.Tracker.MinSize == 0 {
		cfg.Tracker.MinSize = 5
	}

	if err := validateColorBlob(cfg.ColorBlob); err != nil {
		return fmt.Errorf("color_blob: %w", err)
	}

	if cfg.Template.Threshold <= 0 || cfg.Template.Threshold > 1 {
		return fmt.Errorf("template.threshold must be in (0, 1], got %g", cfg.Template.Threshold)
	}
	if cfg.Capture.SequenceFPS < 0 {
		return fmt.Errorf("capture.sequence_fps must be >= 0")
	}
	if _, err := cfg.Overlay.Colors(); err != nil {
		return fmt.Errorf("overlay: %w", err)
	}
	return nil
}

func validateColorBlob(c ColorBlobConfig) error {
	if c.HueMin < 0 || c.HueMax > 360 || c.HueMin > c.HueMax {
		return fmt.Errorf("hue range [%g, %g] must lie within [0, 360]", c.HueMin, c.HueMax)
	}
	for _, r := range []struct {
		name     string
		min, max float64
	}{
		{"sat", c.SatMin, c.SatMax},
		{"val", c.ValMin, c.ValMax},
	} {
		if r.min < 0 || r.max > 1 || r.min > r.max {
			return fmt.Errorf("%s range [%g, %g] must lie within [0, 1]", r.name, r.min, r.max)
		}
	}
	if c.MinArea < 0 {
		return fmt.Errorf("min_area must be >= 0")
	}
	if c.MinAspect >= c.MaxAspect {
		return fmt.Errorf("min_aspect %g must be below max_aspect %g", c.MinAspect, c.MaxAspect)
	}
	if c.EdgeMargin < 0 {
		return fmt.Errorf("edge_margin must be >= 0")
	}
	return nil
}

package config

import (
	"fmt"

	"github.com/ironsheep/vision-tools-mcp/internal/detection"
	"github.com/ironsheep/vision-tools-mcp/internal/imaging"
	"github.com/ironsheep/vision-tools-mcp/internal/pipeline"
	"github.com/ironsheep/vision-tools-mcp/internal/tracking"
)

// EngineOptions translates the configuration into pipeline options. The
// sink and audio player are left for the caller.
func (c *Config) EngineOptions() (pipeline.Options, error) {
	factories, err := tracking.Factories(c.Tracker.Backends)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("tracker.backends: %w", err)
	}
	effect, err := imaging.ParseEffect(c.Effect)
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("effect: %w", err)
	}

	colors, err := c.Overlay.Colors()
	if err != nil {
		return pipeline.Options{}, fmt.Errorf("overlay: %w", err)
	}

	var blob *detection.BlobConfig
	if c.ColorBlob.Enabled {
		blob = &detection.BlobConfig{
			Range:      c.ColorBlob.Range(),
			MinArea:    c.ColorBlob.MinArea,
			MinAspect:  c.ColorBlob.MinAspect,
			MaxAspect:  c.ColorBlob.MaxAspect,
			EdgeMargin: c.ColorBlob.EdgeMargin,
		}
	}

	return pipeline.Options{
		TickHz:   c.TickHz,
		Analyzer: &pipeline.Analyzer{Mode: c.BinarizeMode(), Seed: c.Analysis.LabelSeed},
		Processor: pipeline.ProcessorOptions{
			MinSize:   c.Tracker.MinSize,
			Factories: factories,
			Blob:      blob,
			Template: detection.TemplateConfig{
				Threshold:   c.Template.Threshold,
				InitTracker: c.Template.InitTracker,
			},
			Cache:  imaging.NewImageCache(),
			Effect: effect,
			Colors: &colors,
		},
		SequenceFPS: c.Capture.SequenceFPS,
		LoopGIF:     c.Capture.LoopGIF,
		Mute:        c.Audio.Mute,
	}, nil
}

// Colors parses the overlay colors.
func (o OverlayConfig) Colors() (pipeline.Colors, error) {
	var (
		c   pipeline.Colors
		err error
	)
	if c.Track, err = imaging.HexColor(o.TrackColor); err != nil {
		return c, fmt.Errorf("track_color: %w", err)
	}
	if c.Template, err = imaging.HexColor(o.TemplateColor); err != nil {
		return c, fmt.Errorf("template_color: %w", err)
	}
	if c.Lost, err = imaging.HexColor(o.LostColor); err != nil {
		return c, fmt.Errorf("lost_color: %w", err)
	}
	return c, nil
}

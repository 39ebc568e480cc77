package pipeline

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/ironsheep/vision-tools-mcp/internal/audio"
	"github.com/ironsheep/vision-tools-mcp/internal/detection"
	"github.com/ironsheep/vision-tools-mcp/internal/imaging"
	"github.com/ironsheep/vision-tools-mcp/internal/tracking"
)

// Overlay text.
const (
	TrackingLabel = "Tracking"
	LostLabel     = "Lost object"
	TemplateLabel = "Template detected"
)

var (
	trackColor    = color.RGBA{G: 255, A: 255}
	templateColor = color.RGBA{R: 255, G: 200, A: 255}
	lostColor     = color.RGBA{R: 255, A: 255}
	labelBG       = color.RGBA{A: 160}
)

// Colors are the annotation colors.
type Colors struct {
	Track    color.RGBA
	Template color.RGBA
	Lost     color.RGBA
}

// DefaultColors returns green tracking boxes, amber template boxes and a
// red lost warning.
func DefaultColors() Colors {
	return Colors{Track: trackColor, Template: templateColor, Lost: lostColor}
}

// FrameReport describes what ProcessFrame did with one frame.
type FrameReport struct {
	Index        int64                `json:"frame_index"`
	TrackerState string               `json:"tracker_state"`
	Backend      string               `json:"backend,omitempty"`
	Box          *imaging.BoundingBox `json:"box,omitempty"`
	Events       []detection.Event    `json:"events,omitempty"`
	AudioState   string               `json:"audio_state"`
	Warnings     []string             `json:"warnings,omitempty"`
}

// ProcessorOptions configures a Processor.
type ProcessorOptions struct {
	// MinSize is the tracker's implausible-box limit; 0 selects the default.
	MinSize   int
	Factories []tracking.Factory
	// Blob enables the color-blob detector when non-nil.
	Blob     *detection.BlobConfig
	Template detection.TemplateConfig
	Cache    *imaging.ImageCache
	Effect   imaging.Effect
	// Colors overrides DefaultColors when non-nil.
	Colors *Colors
}

// Processor owns the state that survives between frames: the tracker, the
// detectors, the audio synchronizer, the display effect and the frame
// counter. Its methods serialize on an internal lock that is never shared
// with a frame producer.
type Processor struct {
	mu       sync.Mutex
	tracker  *tracking.Manager
	blob     *detection.ColorBlobDetector
	template *detection.TemplateMatcher
	audio    *audio.Synchronizer
	effect   imaging.Effect
	colors   Colors
	next     int64
}

// NewProcessor builds a Processor from opts.
func NewProcessor(opts ProcessorOptions) *Processor {
	mgr := tracking.NewManager(opts.MinSize, opts.Factories...)
	p := &Processor{
		tracker:  mgr,
		template: detection.NewTemplateMatcher(opts.Template, opts.Cache, mgr),
		audio:    audio.NewSynchronizer(),
		effect:   opts.Effect,
		colors:   DefaultColors(),
	}
	if opts.Colors != nil {
		p.colors = *opts.Colors
	}
	if opts.Blob != nil {
		p.blob = detection.NewColorBlobDetector(*opts.Blob, mgr)
	}
	if p.effect == "" {
		p.effect = imaging.EffectNone
	}
	return p
}

// ProcessFrame runs one tick over frame and returns the annotated result.
//
// The order is: display effect, tracker update, color-blob detection,
// template matching, audio update. Detectors see the filtered frame without
// annotations. Audio is active when the tracker ends the tick Tracking or
// any detector fired.
func (p *Processor) ProcessFrame(frame image.Image) (*image.RGBA, FrameReport) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.next
	p.next++
	report := FrameReport{Index: idx}

	view := imaging.ApplyEffect(frame, p.effect)

	p.tracker.Update(view)

	if p.blob != nil {
		ev, err := p.blob.Detect(view, idx)
		if err != nil {
			report.Warnings = append(report.Warnings, err.Error())
		}
		if ev != nil {
			report.Events = append(report.Events, *ev)
		}
	}

	ev, err := p.template.Match(view, idx)
	if err != nil {
		report.Warnings = append(report.Warnings, err.Error())
	}
	if ev != nil {
		report.Events = append(report.Events, *ev)
	}

	active := p.tracker.IsTracking() || len(report.Events) > 0
	report.AudioState = p.audio.Update(active).String()

	out := toRGBA(view)
	for _, e := range report.Events {
		if e.Source == detection.SourceTemplate {
			imaging.DrawRect(out, e.Box, p.colors.Template, 2)
			imaging.DrawLabel(out, e.Box.X, e.Box.Y-16, TemplateLabel, p.colors.Template, labelBG)
		}
	}

	report.TrackerState = p.tracker.State().String()
	switch p.tracker.State() {
	case tracking.StateTracking:
		box := p.tracker.Box()
		report.Box = &box
		report.Backend = p.tracker.Backend()
		imaging.DrawRect(out, box, p.colors.Track, 2)
		imaging.DrawLabel(out, box.X, box.Y-16, TrackingLabel, p.colors.Track, labelBG)
	case tracking.StateLost:
		imaging.DrawLabel(out, 20, 20, LostLabel, p.colors.Lost, labelBG)
	}
	return out, report
}

// SelectRegion seeds the tracker with box on frame, seen through the current
// display effect like every tracker update. The box is clipped to the frame
// first; a box with no area left, or with a side at or below the tracker's
// minimum size, returns tracking.ErrInvalidInput and leaves the tracker as
// it was.
func (p *Processor) SelectRegion(frame image.Image, box imaging.BoundingBox) error {
	if box.Valid() {
		b := frame.Bounds()
		box = imaging.ClampBox(box, b.Dx(), b.Dy())
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// A box the tracker would drop as degenerate on its first update is
	// refused up front.
	if limit := p.tracker.MinSize(); box.Valid() && (box.Width <= limit || box.Height <= limit) {
		return fmt.Errorf("%w: region %dx%d is too small to track, both sides must exceed %d px",
			tracking.ErrInvalidInput, box.Width, box.Height, limit)
	}
	return p.tracker.Init(imaging.ApplyEffect(frame, p.effect), box)
}

// ResetTracker discards any tracker instance and returns to Idle.
func (p *Processor) ResetTracker() {
	p.mu.Lock()
	p.tracker.Reset()
	p.mu.Unlock()
}

// LoadTemplate replaces the template used by the matcher. On failure the
// previous template is kept.
func (p *Processor) LoadTemplate(path string) error {
	return p.template.LoadTemplate(path)
}

// TemplatePath returns the loaded template path, or "".
func (p *Processor) TemplatePath() string {
	return p.template.Path()
}

// SetPlayer swaps the audio player, stopping the previous one.
func (p *Processor) SetPlayer(player audio.Player) {
	p.audio.SetPlayer(player)
}

// AudioLoaded reports whether an audio player is attached.
func (p *Processor) AudioLoaded() bool {
	return p.audio.Loaded()
}

// SetEffect selects the display effect applied before processing.
func (p *Processor) SetEffect(e imaging.Effect) {
	p.mu.Lock()
	p.effect = e
	p.mu.Unlock()
}

// Effect returns the current display effect.
func (p *Processor) Effect() imaging.Effect {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.effect
}

// TrackerState returns the tracker state with its backend name and box.
func (p *Processor) TrackerState() (tracking.State, string, imaging.BoundingBox) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tracker.State(), p.tracker.Backend(), p.tracker.Box()
}

// AudioState returns the synchronizer state.
func (p *Processor) AudioState() audio.State {
	return p.audio.State()
}

// toRGBA copies img into a new RGBA anchored at the origin.
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

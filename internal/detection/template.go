package detection

import (
	"fmt"
	"image"
	"log"
	"sync"

	"github.com/ironsheep/vision-tools-mcp/internal/imaging"
)

// DefaultMatchThreshold is the minimum correlation accepted as a match.
const DefaultMatchThreshold = 0.8

// TemplateConfig holds the TemplateMatcher settings.
type TemplateConfig struct {
	Threshold float64
	// InitTracker seeds the tracker with every match when set.
	InitTracker bool
}

// DefaultTemplateConfig returns the standard settings.
func DefaultTemplateConfig() TemplateConfig {
	return TemplateConfig{Threshold: DefaultMatchThreshold}
}

// TemplateMatcher locates a loaded template on frames.
//
// LoadTemplate may run concurrently with Match; a template swap is atomic
// from the point of view of Match.
type TemplateMatcher struct {
	cfg     TemplateConfig
	cache   *imaging.ImageCache
	tracker Initializer

	mu   sync.RWMutex
	corr *imaging.Correlator
	path string
}

// NewTemplateMatcher returns a matcher with no template loaded. cache and
// tracker may be nil.
func NewTemplateMatcher(cfg TemplateConfig, cache *imaging.ImageCache, tracker Initializer) *TemplateMatcher {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultMatchThreshold
	}
	if cache == nil {
		cache = imaging.NewImageCache()
	}
	return &TemplateMatcher{cfg: cfg, cache: cache, tracker: tracker}
}

// LoadTemplate reads the template at path. On failure the previous template
// stays in place and the error wraps imaging.ErrAssetLoad.
func (m *TemplateMatcher) LoadTemplate(path string) error {
	img, err := m.cache.Load(path)
	if err != nil {
		return err
	}
	corr := imaging.NewCorrelator(img)
	if corr == nil {
		return fmt.Errorf("%w: %s: empty template", imaging.ErrAssetLoad, path)
	}

	m.mu.Lock()
	m.corr, m.path = corr, path
	m.mu.Unlock()

	w, h := corr.Size()
	log.Printf("Template loaded: %s (%dx%d)", path, w, h)
	return nil
}

// Loaded reports whether a template is available.
func (m *TemplateMatcher) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.corr != nil
}

// Path returns the path of the loaded template, or "".
func (m *TemplateMatcher) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// Match returns an Event for the first offset, in row-major order, whose
// score reaches the threshold. Without a template, or with a template larger
// than the frame, it returns nil.
func (m *TemplateMatcher) Match(frame image.Image, frameIndex int64) (*Event, error) {
	m.mu.RLock()
	corr := m.corr
	m.mu.RUnlock()
	if corr == nil {
		return nil, nil
	}

	match, ok := corr.FirstMatch(frame, m.cfg.Threshold)
	if !ok {
		return nil, nil
	}

	w, h := corr.Size()
	ev := &Event{
		Box:        imaging.BoundingBox{X: match.X, Y: match.Y, Width: w, Height: h},
		Source:     SourceTemplate,
		FrameIndex: frameIndex,
		Score:      match.Score,
	}
	if m.cfg.InitTracker && m.tracker != nil {
		if err := m.tracker.Init(frame, ev.Box); err != nil {
			return ev, fmt.Errorf("seed tracker from template: %w", err)
		}
	}
	return ev, nil
}

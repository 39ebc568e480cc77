package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ironsheep/vision-tools-mcp/internal/audio"
	"github.com/ironsheep/vision-tools-mcp/internal/capture"
	"github.com/ironsheep/vision-tools-mcp/internal/imaging"
)

// DefaultTickHz is the render tick rate.
const DefaultTickHz = 20

// ErrEmptySource is returned when no live frame or still image is available.
var ErrEmptySource = errors.New("no image loaded: open an image or start a source")

// Sink receives every rendered frame.
type Sink interface {
	Show(frame image.Image, report FrameReport)
}

// Options configures an Engine.
type Options struct {
	TickHz    float64
	Analyzer  *Analyzer
	Processor ProcessorOptions
	// SequenceFPS paces image-sequence sources.
	SequenceFPS float64
	LoopGIF     bool
	// Mute attaches loaded audio to a silent player instead of the speaker.
	Mute bool
	Sink Sink
	// NewPlayer opens the output device for an asset. Nil selects the
	// speaker.
	NewPlayer func(*audio.Asset) (audio.Player, error)
}

// Status is a read-only summary of the engine, published after every tick
// and user action.
type Status struct {
	Source       string               `json:"source,omitempty"`
	SessionID    string               `json:"session_id,omitempty"`
	Capturing    bool                 `json:"capturing"`
	Still        string               `json:"still,omitempty"`
	Published    int64                `json:"frames_published"`
	FrameIndex   int64                `json:"frame_index"`
	TrackerState string               `json:"tracker_state"`
	Backend      string               `json:"backend,omitempty"`
	Box          *imaging.BoundingBox `json:"box,omitempty"`
	AudioState   string               `json:"audio_state"`
	AudioLoaded  bool                 `json:"audio_loaded"`
	Effect       string               `json:"effect"`
	Template     string               `json:"template,omitempty"`
	CachedAssets int                  `json:"cached_assets"`
}

// Engine owns the shared State, the Processor and at most one capture
// worker, and drives the render tick.
type Engine struct {
	state    *State
	proc     *Processor
	analyzer *Analyzer
	cache    *imaging.ImageCache
	opts     Options
	interval time.Duration

	mu     sync.Mutex // guards worker, still
	worker *capture.Worker
	still  string

	lastIndex atomic.Int64
	status    atomic.Pointer[Status]
}

// NewEngine returns an idle engine. Call Run to start the tick.
func NewEngine(opts Options) *Engine {
	if opts.TickHz <= 0 {
		opts.TickHz = DefaultTickHz
	}
	if opts.Analyzer == nil {
		opts.Analyzer = NewAnalyzer()
	}
	if opts.NewPlayer == nil {
		opts.NewPlayer = audio.NewSpeakerPlayer
	}
	if opts.Processor.Cache == nil {
		opts.Processor.Cache = imaging.NewImageCache()
	}
	e := &Engine{
		state:    NewState(),
		proc:     NewProcessor(opts.Processor),
		analyzer: opts.Analyzer,
		cache:    opts.Processor.Cache,
		opts:     opts,
		interval: time.Duration(float64(time.Second) / opts.TickHz),
	}
	e.lastIndex.Store(-1)
	e.publishStatus()
	return e
}

// Run ticks until ctx is done, then stops any running source.
func (e *Engine) Run(ctx context.Context) error {
	t := time.NewTicker(e.interval)
	defer t.Stop()
	defer e.StopSource()

	log.Printf("Render tick running at %v", e.interval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			e.Tick()
		}
	}
}

// Tick processes the current frame once and hands the result to the sink.
// It reports false when there is nothing to process.
func (e *Engine) Tick() bool {
	_, _, err := e.ProcessFrame()
	return err == nil
}

// ProcessFrame copies the current frame, runs it through the Processor and
// records the annotated result.
func (e *Engine) ProcessFrame() (*image.RGBA, FrameReport, error) {
	frame, ok := e.state.Snapshot()
	if !ok {
		return nil, FrameReport{}, ErrEmptySource
	}

	out, report := e.proc.ProcessFrame(frame)
	e.state.SetRendered(out)
	e.lastIndex.Store(report.Index)
	e.publishStatus()

	if e.opts.Sink != nil {
		e.opts.Sink.Show(out, report)
	}
	return out, report, nil
}

// Analyze runs kind on a fresh copy of the current frame.
func (e *Engine) Analyze(kind AnalysisKind) (*AnalysisResult, error) {
	frame, ok := e.state.Snapshot()
	if !ok {
		return nil, ErrEmptySource
	}
	return e.analyzer.Run(kind, frame)
}

// SelectRegion seeds tracking from a user-chosen box on the current frame.
func (e *Engine) SelectRegion(box imaging.BoundingBox) error {
	frame, ok := e.state.Snapshot()
	if !ok {
		return ErrEmptySource
	}
	err := e.proc.SelectRegion(frame, box)
	e.publishStatus()
	return err
}

// ResetTracker drops the tracked object and returns the tracker to idle.
func (e *Engine) ResetTracker() {
	e.proc.ResetTracker()
	log.Printf("Tracker reset")
	e.publishStatus()
}

// OpenImage loads a still image. It is processed whenever no live source
// has published a frame. The file is always re-read from disk.
func (e *Engine) OpenImage(path string) (image.Rectangle, error) {
	e.cache.Evict(path)
	img, err := e.cache.Load(path)
	if err != nil {
		return image.Rectangle{}, err
	}
	e.state.SetStill(img)

	e.mu.Lock()
	e.still = path
	e.mu.Unlock()

	log.Printf("Image opened: %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())
	e.publishStatus()
	return img.Bounds(), nil
}

// OpenSequence plays the images in dir in name order. fps <= 0 uses the
// configured sequence rate.
func (e *Engine) OpenSequence(dir string, fps float64) (capture.Stats, error) {
	if fps <= 0 {
		fps = e.opts.SequenceFPS
	}
	src, err := capture.OpenSequence(dir, fps)
	if err != nil {
		return capture.Stats{}, err
	}
	return e.startSource(src), nil
}

// OpenVideo plays a video file. Animated GIFs are decoded natively; other
// formats need the OpenCV build.
func (e *Engine) OpenVideo(path string) (capture.Stats, error) {
	var (
		src capture.Source
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".gif") {
		src, err = capture.OpenGIF(path, e.opts.LoopGIF)
	} else {
		src, err = capture.OpenVideoFile(path)
	}
	if err != nil {
		return capture.Stats{}, err
	}
	return e.startSource(src), nil
}

// StartCamera captures from a camera device.
func (e *Engine) StartCamera(device int) (capture.Stats, error) {
	src, err := capture.OpenCamera(device)
	if err != nil {
		return capture.Stats{}, err
	}
	return e.startSource(src), nil
}

func (e *Engine) startSource(src capture.Source) capture.Stats {
	e.StopSource()

	w := capture.NewWorker(src, e.state)
	e.mu.Lock()
	e.worker = w
	e.mu.Unlock()

	w.Start()
	e.publishStatus()
	return w.Stats()
}

// StopSource stops the live source, waits for its worker to release the
// handle and drops the live frame. It reports whether a source was running.
func (e *Engine) StopSource() bool {
	e.mu.Lock()
	w := e.worker
	e.worker = nil
	e.mu.Unlock()
	if w == nil {
		return false
	}

	w.Stop()
	<-w.Done()
	e.state.ClearLive()
	e.publishStatus()
	return true
}

// Capture returns the stats of the current source.
func (e *Engine) Capture() (capture.Stats, bool) {
	e.mu.Lock()
	w := e.worker
	e.mu.Unlock()
	if w == nil {
		return capture.Stats{}, false
	}
	return w.Stats(), true
}

// LoadTemplate replaces the template. On failure the previous one is kept.
func (e *Engine) LoadTemplate(path string) error {
	e.cache.Evict(path)
	err := e.proc.LoadTemplate(path)
	e.publishStatus()
	return err
}

// LoadAudio decodes the asset at path and attaches it to the synchronizer.
// When the output device cannot be opened, or the engine is muted, the
// asset is attached to a silent player so state changes are still tracked.
// On decode failure the previous asset stays attached.
func (e *Engine) LoadAudio(path string) (*audio.Asset, error) {
	asset, err := audio.LoadAsset(path)
	if err != nil {
		return nil, err
	}

	var player audio.Player
	if e.opts.Mute {
		player = audio.NewSilentPlayer(asset)
	} else if player, err = e.opts.NewPlayer(asset); err != nil {
		log.Printf("Audio output unavailable, continuing silently: %v", err)
		player = audio.NewSilentPlayer(asset)
	}

	e.proc.SetPlayer(player)
	log.Printf("Audio loaded: %s (%v)", path, asset.Duration())
	e.publishStatus()
	return asset, nil
}

// SetEffect selects the display effect by name.
func (e *Engine) SetEffect(name string) (imaging.Effect, error) {
	effect, err := imaging.ParseEffect(name)
	if err != nil {
		return "", err
	}
	e.proc.SetEffect(effect)
	e.publishStatus()
	return effect, nil
}

// SaveResult writes the last processed frame to path. Without one, the
// current frame is filtered and saved instead. The format follows the
// extension: PNG, JPEG or BMP.
func (e *Engine) SaveResult(path string) (image.Rectangle, error) {
	img, ok := e.state.Rendered()
	if !ok {
		frame, ok := e.state.Snapshot()
		if !ok {
			return image.Rectangle{}, ErrEmptySource
		}
		img = imaging.ApplyEffect(frame, e.proc.Effect())
	}
	if err := imaging.SaveImage(img, path); err != nil {
		return image.Rectangle{}, fmt.Errorf("save result: %w", err)
	}
	log.Printf("Result saved: %s", path)
	return img.Bounds(), nil
}

// Close stops any running source and drops cached images.
func (e *Engine) Close() {
	e.StopSource()
	e.cache.Clear()
	e.publishStatus()
}

// Status returns the last published status.
func (e *Engine) Status() Status {
	return *e.status.Load()
}

func (e *Engine) publishStatus() {
	state, backend, box := e.proc.TrackerState()
	s := &Status{
		Published:    e.state.Published(),
		FrameIndex:   e.lastIndex.Load(),
		TrackerState: state.String(),
		Backend:      backend,
		AudioState:   e.proc.AudioState().String(),
		AudioLoaded:  e.proc.AudioLoaded(),
		Effect:       string(e.proc.Effect()),
		Template:     e.proc.TemplatePath(),
		CachedAssets: e.cache.Len(),
	}
	if box.Valid() {
		s.Box = &box
	}

	e.mu.Lock()
	s.Still = e.still
	if e.worker != nil {
		st := e.worker.Stats()
		s.Source, s.SessionID, s.Capturing = st.Source, st.ID, st.Running
	}
	e.mu.Unlock()

	e.status.Store(s)
}

package tracking

import (
	"errors"
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/ironsheep/vision-tools-mcp/internal/imaging"
)

// Errors returned by Manager.Init.
var (
	ErrInvalidInput = errors.New("invalid bounding box")
	ErrUnavailable  = errors.New("no tracking backend available")
)

// DefaultMinSize is the side length at or below which an updated box is
// considered degenerate.
const DefaultMinSize = 5

// State is the tracker lifecycle state.
type State int

const (
	StateIdle State = iota
	StateTracking
	StateLost
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTracking:
		return "tracking"
	case StateLost:
		return "lost"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Backend is one tracking algorithm instance.
type Backend interface {
	// Init prepares the backend to follow the object inside box on frame.
	Init(frame image.Image, box image.Rectangle) error
	// Update locates the object on the next frame. ok is false when the
	// algorithm lost it.
	Update(frame image.Image) (box image.Rectangle, ok bool)
	// Close releases the instance.
	Close() error
}

// Factory constructs a fresh Backend.
type Factory struct {
	Name string
	New  func() (Backend, error)
}

// Manager runs the Idle/Tracking/Lost state machine over a list of factories.
type Manager struct {
	factories []Factory
	minSize   int

	state   State
	backend Backend
	name    string
	box     imaging.BoundingBox
}

// NewManager returns an Idle manager. A minSize of 0 or less selects
// DefaultMinSize.
func NewManager(minSize int, factories ...Factory) *Manager {
	if minSize <= 0 {
		minSize = DefaultMinSize
	}
	return &Manager{factories: factories, minSize: minSize}
}

// MinSize returns the side length at or below which a box counts as
// degenerate.
func (m *Manager) MinSize() int { return m.minSize }

// Init starts tracking box on frame.
//
// Boxes without a positive width and height return ErrInvalidInput and leave
// the manager untouched. When no factory yields a working backend the
// previous instance is released, the manager becomes Idle and ErrUnavailable
// is returned.
func (m *Manager) Init(frame image.Image, box imaging.BoundingBox) error {
	if !box.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidInput, box)
	}

	var failures []string
	for _, f := range m.factories {
		b, err := f.New()
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", f.Name, err))
			continue
		}
		if err := b.Init(frame, box.Rect()); err != nil {
			b.Close()
			failures = append(failures, fmt.Sprintf("%s: %v", f.Name, err))
			continue
		}

		m.release()
		m.backend, m.name, m.box = b, f.Name, box
		m.state = StateTracking
		log.Printf("Tracker %s initialized at %v", f.Name, box)
		return nil
	}

	m.release()
	m.state = StateIdle
	if len(failures) == 0 {
		return fmt.Errorf("%w: no backends registered", ErrUnavailable)
	}
	return fmt.Errorf("%w: %s", ErrUnavailable, strings.Join(failures, "; "))
}

// Update advances the tracker one frame. It only does work while Tracking.
//
// A backend failure, a box whose width or height is at most the minimum size,
// or a box whose origin falls outside the frame discards the instance and
// moves the manager to Lost. Lost persists until the next successful Init.
func (m *Manager) Update(frame image.Image) (imaging.BoundingBox, bool) {
	if m.state != StateTracking {
		return imaging.BoundingBox{}, false
	}

	r, ok := m.backend.Update(frame)
	box := imaging.BoxFromRect(r)
	if !ok || !m.plausible(box, frame.Bounds()) {
		log.Printf("Tracker %s lost object (last box %v)", m.name, box)
		m.release()
		m.state = StateLost
		return imaging.BoundingBox{}, false
	}
	m.box = box
	return box, true
}

func (m *Manager) plausible(box imaging.BoundingBox, bounds image.Rectangle) bool {
	if box.Width <= m.minSize || box.Height <= m.minSize {
		return false
	}
	return box.X >= 0 && box.Y >= 0 && box.X < bounds.Dx() && box.Y < bounds.Dy()
}

// Reset releases any instance and returns to Idle.
func (m *Manager) Reset() {
	m.release()
	m.state = StateIdle
}

func (m *Manager) release() {
	if m.backend != nil {
		if err := m.backend.Close(); err != nil {
			log.Printf("Tracker %s close: %v", m.name, err)
		}
	}
	m.backend, m.name, m.box = nil, "", imaging.BoundingBox{}
}

// State returns the current lifecycle state.
func (m *Manager) State() State { return m.state }

// IsTracking reports whether the manager is in the Tracking state.
func (m *Manager) IsTracking() bool { return m.state == StateTracking }

// Box returns the last accepted box. It is the zero box unless Tracking.
func (m *Manager) Box() imaging.BoundingBox { return m.box }

// Backend returns the name of the active backend, or "" when none is held.
func (m *Manager) Backend() string { return m.name }

// HasInstance reports whether a backend instance is currently held.
func (m *Manager) HasInstance() bool { return m.backend != nil }

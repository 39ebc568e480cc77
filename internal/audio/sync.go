package audio

import (
	"fmt"
	"log"
	"sync"
)

// State is the playback state.
type State int

const (
	StateStopped State = iota
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Player starts and halts looped playback of one asset.
type Player interface {
	Play() error
	Stop() error
}

// Synchronizer drives a Player from per-frame activity.
type Synchronizer struct {
	mu     sync.Mutex
	player Player
	state  State
}

// NewSynchronizer returns a Stopped synchronizer without a player.
func NewSynchronizer() *Synchronizer {
	return &Synchronizer{}
}

// SetPlayer replaces the player. Playback of the previous player is stopped
// first. A nil player detaches audio.
func (s *Synchronizer) SetPlayer(p Player) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StatePlaying && s.player != nil {
		if err := s.player.Stop(); err != nil {
			log.Printf("Audio stop: %v", err)
		}
	}
	s.player = p
	s.state = StateStopped
}

// Update applies one frame of activity and returns the resulting state.
func (s *Synchronizer) Update(active bool) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		s.state = StateStopped
		return s.state
	}

	switch {
	case active && s.state == StateStopped:
		if err := s.player.Play(); err != nil {
			log.Printf("Audio play: %v", err)
			return s.state
		}
		s.state = StatePlaying
	case !active && s.state == StatePlaying:
		if err := s.player.Stop(); err != nil {
			log.Printf("Audio stop: %v", err)
		}
		s.state = StateStopped
	}
	return s.state
}

// State returns the current playback state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Loaded reports whether a player is attached.
func (s *Synchronizer) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player != nil
}

// SilentPlayer tracks Play/Stop without producing sound. It stands in for the
// speaker on builds without audio output.
type SilentPlayer struct {
	mu      sync.Mutex
	asset   *Asset
	playing bool
}

// NewSilentPlayer returns a SilentPlayer for asset.
func NewSilentPlayer(asset *Asset) *SilentPlayer {
	return &SilentPlayer{asset: asset}
}

func (p *SilentPlayer) Play() error {
	p.mu.Lock()
	p.playing = true
	p.mu.Unlock()
	return nil
}

func (p *SilentPlayer) Stop() error {
	p.mu.Lock()
	p.playing = false
	p.mu.Unlock()
	return nil
}

// Playing reports whether Play was called more recently than Stop.
func (p *SilentPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

package audio

import (
	"errors"
	"testing"
)

// countingPlayer records how often Play and Stop are called.
type countingPlayer struct {
	plays, stops int
	playErr      error
}

func (p *countingPlayer) Play() error {
	p.plays++
	return p.playErr
}

func (p *countingPlayer) Stop() error {
	p.stops++
	return nil
}

func TestSynchronizer_NoAssetNeverPlays(t *testing.T) {
	s := NewSynchronizer()
	for _, active := range []bool{true, true, false, true, false, true} {
		if got := s.Update(active); got != StateStopped {
			t.Fatalf("Update(%v): got %v, want stopped", active, got)
		}
	}
	if s.Loaded() {
		t.Error("no player should be attached")
	}
}

func TestSynchronizer_Transitions(t *testing.T) {
	tests := []struct {
		name      string
		activity  []bool
		wantState State
		wantPlays int
		wantStops int
	}{
		{"stays stopped while inactive", []bool{false, false}, StateStopped, 0, 0},
		{"starts once while active", []bool{true, true, true}, StatePlaying, 1, 0},
		{"stops on falling edge", []bool{true, false, false}, StateStopped, 1, 1},
		{"restarts after stop", []bool{true, false, true}, StatePlaying, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &countingPlayer{}
			s := NewSynchronizer()
			s.SetPlayer(p)

			for _, active := range tt.activity {
				s.Update(active)
			}
			if s.State() != tt.wantState {
				t.Errorf("state: got %v, want %v", s.State(), tt.wantState)
			}
			if p.plays != tt.wantPlays || p.stops != tt.wantStops {
				t.Errorf("calls: plays=%d stops=%d, want %d and %d", p.plays, p.stops, tt.wantPlays, tt.wantStops)
			}
		})
	}
}

func TestSynchronizer_PlayFailureStaysStopped(t *testing.T) {
	p := &countingPlayer{playErr: errors.New("device busy")}
	s := NewSynchronizer()
	s.SetPlayer(p)

	if got := s.Update(true); got != StateStopped {
		t.Errorf("state: got %v, want stopped", got)
	}
	// The next active frame retries.
	s.Update(true)
	if p.plays != 2 {
		t.Errorf("plays: got %d, want 2", p.plays)
	}
}

func TestSynchronizer_SetPlayerStopsOld(t *testing.T) {
	old := &countingPlayer{}
	s := NewSynchronizer()
	s.SetPlayer(old)
	s.Update(true)

	replacement := &countingPlayer{}
	s.SetPlayer(replacement)
	if old.stops != 1 {
		t.Errorf("old player stops: got %d, want 1", old.stops)
	}
	if s.State() != StateStopped {
		t.Errorf("state after swap: got %v, want stopped", s.State())
	}

	s.Update(true)
	if replacement.plays != 1 {
		t.Errorf("replacement plays: got %d, want 1", replacement.plays)
	}

	s.SetPlayer(nil)
	if s.Update(true) != StateStopped {
		t.Error("detached synchronizer must stay stopped")
	}
}

func TestSilentPlayer(t *testing.T) {
	p := NewSilentPlayer(nil)
	s := NewSynchronizer()
	s.SetPlayer(p)

	s.Update(true)
	if !p.Playing() {
		t.Error("silent player should report playing")
	}
	s.Update(false)
	if p.Playing() {
		t.Error("silent player should report stopped")
	}
}

func TestState_String(t *testing.T) {
	if StateStopped.String() != "stopped" || StatePlaying.String() != "playing" {
		t.Errorf("unexpected names: %s, %s", StateStopped, StatePlaying)
	}
}

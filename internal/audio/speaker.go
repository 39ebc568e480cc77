//go:build cgo && linux

package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// speakerBuffer is the device buffer length.
const speakerBuffer = 100 * time.Millisecond

var (
	speakerOnce sync.Once
	speakerRate beep.SampleRate
	speakerErr  error
)

// initSpeaker opens the output device once, at the rate of the first asset.
func initSpeaker(rate beep.SampleRate) error {
	speakerOnce.Do(func() {
		speakerRate = rate
		speakerErr = speaker.Init(rate, rate.N(speakerBuffer))
	})
	return speakerErr
}

// SpeakerPlayer loops an asset on the default output device.
type SpeakerPlayer struct {
	asset *Asset
	ctrl  *beep.Ctrl
}

// NewSpeakerPlayer prepares asset for playback on the speaker.
func NewSpeakerPlayer(asset *Asset) (Player, error) {
	if err := initSpeaker(asset.Format.SampleRate); err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	return &SpeakerPlayer{asset: asset}, nil
}

func (p *SpeakerPlayer) Play() error {
	var s beep.Streamer = p.asset.Loop()
	if p.asset.Format.SampleRate != speakerRate {
		s = beep.Resample(4, p.asset.Format.SampleRate, speakerRate, s)
	}
	ctrl := &beep.Ctrl{Streamer: s}

	speaker.Lock()
	p.ctrl = ctrl
	speaker.Unlock()
	speaker.Play(ctrl)
	return nil
}

func (p *SpeakerPlayer) Stop() error {
	speaker.Lock()
	if p.ctrl != nil {
		// A nil streamer drains out of the mixer on the next pull.
		p.ctrl.Streamer = nil
		p.ctrl = nil
	}
	speaker.Unlock()
	return nil
}

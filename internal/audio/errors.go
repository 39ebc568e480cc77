package audio

import "errors"

// ErrPlaybackUnsupported is returned by NewSpeakerPlayer when the build has
// no audio output.
var ErrPlaybackUnsupported = errors.New("audio playback not supported in this build")

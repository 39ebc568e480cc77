//go:build !(cgo && linux)

package audio

// NewSpeakerPlayer reports ErrPlaybackUnsupported on builds without speaker
// output.
func NewSpeakerPlayer(asset *Asset) (Player, error) {
	return nil, ErrPlaybackUnsupported
}

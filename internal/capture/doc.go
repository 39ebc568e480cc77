// Package capture reads frames from live and file-backed sources.
//
// A Source yields frames one at a time and knows its native frame interval.
// A Worker drains one Source on its own goroutine, publishing every frame
// into a single-slot Publisher and sleeping out whatever remains of the
// interval. The worker stops cooperatively: Stop clears a flag that the loop
// polls between frames, and the source is closed when the loop exits.
//
// GIF animations and directories of still frames are read with the standard
// decoders and github.com/disintegration/imaging. Video files and cameras
// need the opencv build tag; without it their constructors return
// ErrOpenCVUnavailable.
package capture

// Package audio keeps an audio cue in step with detection activity.
//
// A Synchronizer holds a binary state, Stopped or Playing. Every processed
// frame reports whether the object is active (tracked, or detected on that
// frame); the synchronizer starts looped playback on the rising edge and
// stops it on the falling edge. It never issues a second Play while Playing,
// and it stays Stopped while no Player is attached.
//
// Assets are decoded with github.com/gopxl/beep into memory so they can be
// looped without touching the file again. Speaker output needs cgo on Linux;
// other builds fall back to a silent player that only tracks state.
package audio

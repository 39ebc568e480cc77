// Package pipeline ties the analysis and tracking components into one
// engine.
//
// A capture worker publishes frames into State, the only lock shared with a
// producer. Every tick the Engine copies the current frame out of State and
// hands the copy to the Processor, which runs the tracker, the detectors and
// the audio synchronizer and returns an annotated frame for the Sink.
// On-demand analyses take their own copy and never compute under the lock.
package pipeline

// Package tracking follows a single object across frames.
//
// A Manager owns at most one tracking Backend instance and moves through
// three states:
//
//	Idle ──Init──▶ Tracking ──implausible Update──▶ Lost
//	                  ▲                               │
//	                  └──────────────Init─────────────┘
//
// Backends are produced by an ordered list of Factory values. Init tries them
// in order and keeps the first one that both constructs and initializes on the
// given frame and box; the remaining factories are never invoked.
//
// The pure-Go "ncc" backend is always available. Builds with the opencv tag
// also register the OpenCV CSRT, KCF and MIL trackers through gocv.
//
// A Manager is not safe for concurrent use. The pipeline drives it from a
// single goroutine.
package tracking

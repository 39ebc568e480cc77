// Package detection finds the tracked object on individual frames.
//
// Two detectors are provided:
//
//   - ColorBlobDetector thresholds the frame in HSV space, cleans the mask
//     with a 5x5 opening and closing, and accepts the first external contour
//     whose area, aspect ratio and distance from the frame edges are plausible
//     for the object.
//   - TemplateMatcher slides a grayscale template over the frame with
//     zero-mean normalized cross-correlation and accepts the first offset, in
//     row-major order, that reaches the match threshold.
//
// Both report at most one Event per frame and may seed a tracker through the
// Initializer interface, which tracking.Manager satisfies.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounding boxes are given by top-left corner, width and height
package detection

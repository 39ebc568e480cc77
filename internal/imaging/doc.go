// Package imaging provides the binary-image analysis core of the vision server.
//
// This package implements the operations that turn a raster frame into
// quantitative shape descriptors: grayscale conversion, binarization (Otsu or
// fixed threshold), intensity histograms, external contour extraction, convex
// hulls, area/perimeter/diameter measurement and connected-component labeling.
// It also hosts the small raster utilities the tracking pipeline shares:
// morphology, visual effects, annotation drawing, cropping and asset I/O.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with the origin at the
// top-left corner, X increasing rightward and Y increasing downward. Binary
// masks and label maps produced here always start at (0,0), regardless of the
// bounds of the source frame.
//
// # Binary Masks
//
// A binary mask is an *image.Gray in which every pixel is exactly 0 or 255.
// Foreground is 255. Functions that accept a mask treat any other level as
// background.
//
// # Connectivity
//
// Foreground regions are 8-connected (diagonal neighbors join a region).
// Background regions are 4-connected, which is the dual that keeps a closed
// 8-connected ring from leaking into its hole.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Every other function is a
// pure function of its arguments and never mutates its input images, so
// different frames can be analyzed concurrently.
//
// # Determinism
//
// Label ids follow raster-scan discovery order and label colors come from a
// fixed-seed generator (DefaultLabelSeed), so repeated runs on identical input
// produce identical masks, measurements and overlays.
package imaging

//go:build !opencv

package capture

// OpenVideoFile reports ErrOpenCVUnavailable in builds without OpenCV.
func OpenVideoFile(path string) (Source, error) {
	return nil, ErrOpenCVUnavailable
}

// OpenCamera reports ErrOpenCVUnavailable in builds without OpenCV.
func OpenCamera(device int) (Source, error) {
	return nil, ErrOpenCVUnavailable
}

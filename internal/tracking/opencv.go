//go:build opencv

package tracking

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

func init() {
	register("csrt", 10, func() (Backend, error) { return newGocvBackend(contrib.NewTrackerCSRT()), nil })
	register("kcf", 20, func() (Backend, error) { return newGocvBackend(contrib.NewTrackerKCF()), nil })
	register("mil", 30, func() (Backend, error) { return newGocvBackend(gocv.NewTrackerMIL()), nil })
}

// gocvBackend adapts an OpenCV tracker to Backend.
type gocvBackend struct {
	tracker gocv.Tracker
}

func newGocvBackend(t gocv.Tracker) *gocvBackend {
	return &gocvBackend{tracker: t}
}

func (b *gocvBackend) Init(frame image.Image, box image.Rectangle) error {
	mat, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return fmt.Errorf("convert frame: %w", err)
	}
	defer mat.Close()

	if !b.tracker.Init(mat, box) {
		return errors.New("tracker rejected initial box")
	}
	return nil
}

func (b *gocvBackend) Update(frame image.Image) (image.Rectangle, bool) {
	mat, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return image.Rectangle{}, false
	}
	defer mat.Close()

	return b.tracker.Update(mat)
}

func (b *gocvBackend) Close() error {
	return b.tracker.Close()
}

package tracking

import (
	"errors"
	"image"

	"github.com/ironsheep/vision-tools-mcp/internal/imaging"
)

// NCC backend tuning.
const (
	// NCCMinScore is the correlation below which the object counts as lost.
	NCCMinScore = 0.5
	// nccMinMargin bounds the search window growth for small boxes.
	nccMinMargin = 8
)

func init() {
	register("ncc", 100, NewNCC)
}

// nccBackend follows the object by re-finding the template cut at Init inside
// a window around the previous box.
type nccBackend struct {
	corr *imaging.Correlator
	box  image.Rectangle
}

// NewNCC returns the pure-Go correlation tracker.
func NewNCC() (Backend, error) {
	return &nccBackend{}, nil
}

func (b *nccBackend) Init(frame image.Image, box image.Rectangle) error {
	tmpl, err := imaging.CropBox(frame, imaging.BoxFromRect(box.Sub(frame.Bounds().Min)))
	if err != nil {
		return err
	}
	corr := imaging.NewCorrelator(tmpl)
	if corr == nil || corr.Flat() {
		return errors.New("region has no texture to follow")
	}
	b.corr, b.box = corr, box
	return nil
}

func (b *nccBackend) Update(frame image.Image) (image.Rectangle, bool) {
	if b.corr == nil {
		return image.Rectangle{}, false
	}
	margin := max(nccMinMargin, max(b.box.Dx(), b.box.Dy())/2)
	m, ok := b.corr.BestMatch(frame, b.box.Inset(-margin))
	if !ok || m.Score < NCCMinScore {
		return b.box, false
	}
	b.box = image.Rect(m.X, m.Y, m.X+b.box.Dx(), m.Y+b.box.Dy())
	return b.box, true
}

func (b *nccBackend) Close() error {
	b.corr = nil
	return nil
}

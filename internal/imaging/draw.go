package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DrawRect outlines box on dst with the given line thickness. The outline is
// drawn inside the box and clipped to dst.
func DrawRect(dst draw.Image, box BoundingBox, c color.Color, thickness int) {
	if !box.Valid() {
		return
	}
	thickness = max(1, thickness)
	uniform := image.NewUniform(c)
	r := box.Rect()
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness),
		image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y),
		image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		e = e.Intersect(dst.Bounds())
		if !e.Empty() {
			draw.Draw(dst, e, uniform, image.Point{}, draw.Src)
		}
	}
}

// DrawText writes text with its baseline at (x, y) using the 7x13 bitmap face.
func DrawText(dst draw.Image, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// DrawLabel writes text on a filled background box whose top-left corner is
// at (x, y), clamped so the label stays inside dst.
func DrawLabel(dst draw.Image, x, y int, text string, fg, bg color.Color) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil() + 4
	height := face.Height + 2

	b := dst.Bounds()
	x = max(b.Min.X, min(x, b.Max.X-width))
	y = max(b.Min.Y, min(y, b.Max.Y-height))

	box := image.Rect(x, y, x+width, y+height).Intersect(b)
	draw.Draw(dst, box, image.NewUniform(bg), image.Point{}, draw.Over)
	DrawText(dst, x+2, y+face.Ascent+1, text, fg)
}

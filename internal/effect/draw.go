package effect

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Crop copies the part of src inside r into a new image whose bounds start at (0,0).
// The result is empty when r does not intersect src.
func Crop(src image.Image, r image.Rectangle) *image.NRGBA {
	return imaging.Crop(src, r)
}

// Paste copies src onto dst with src's top-left corner at p, replacing the
// destination pixels.
func Paste(dst draw.Image, src image.Image, p image.Point) {
	sb := src.Bounds()
	draw.Draw(dst, image.Rectangle{Min: p, Max: p.Add(sb.Size())}, src, sb.Min, draw.Src)
}

// Fill replaces every pixel of dst inside r with c.
func Fill(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

// Overlay composites c over the pixels of dst inside r.
func Overlay(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

// DashedRect strokes the outline of r with a dashed line of the given width.
// The dash pattern alternates dash pixels on and dash pixels off, continuing
// around the corners clockwise from the top-left. A non-positive dash draws a
// solid line.
func DashedRect(dst draw.Image, r image.Rectangle, c color.Color, width, dash int) {
	r = r.Canon()
	if r.Empty() || width <= 0 {
		return
	}

	src := image.NewUniform(c)
	bounds := dst.Bounds()
	half := width / 2
	pos := 0
	plot := func(x, y int) {
		if dash <= 0 || (pos/dash)%2 == 0 {
			dot := image.Rect(x-half, y-half, x-half+width, y-half+width).Intersect(bounds)
			draw.Draw(dst, dot, src, image.Point{}, draw.Src)
		}
		pos++
	}

	for x := r.Min.X; x < r.Max.X; x++ {
		plot(x, r.Min.Y)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		plot(r.Max.X, y)
	}
	for x := r.Max.X; x > r.Min.X; x-- {
		plot(x, r.Max.Y)
	}
	for y := r.Max.Y; y > r.Min.Y; y-- {
		plot(r.Min.X, y)
	}
}

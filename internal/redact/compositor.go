package redact

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/nao1215/imgshield/internal/effect"
	"github.com/nao1215/imgshield/internal/model"

	// Formats accepted by the analysis endpoint beyond the standard library's.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultMaxWidth is the widest surface a loaded image is scaled down to.
const DefaultMaxWidth = 800

// DefaultExportName is the file name used when exporting a redacted image.
const DefaultExportName = "redacted-safe-image.png"

// Preview stroke geometry.
const (
	previewLineWidth = 2
	previewDash      = 5
)

// Compositor renders regions onto a scaled copy of the loaded image.
// The base image is never modified after Load; every Redraw starts from it.
type Compositor struct {
	maxWidth int
	base     *image.NRGBA
	surface  *image.NRGBA
}

// NewCompositor returns a Compositor that scales images to at most maxWidth
// pixels wide. A non-positive maxWidth selects DefaultMaxWidth.
func NewCompositor(maxWidth int) *Compositor {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	return &Compositor{maxWidth: maxWidth}
}

// Decode reads an image in any supported format, applying its EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Open reads an image file, applying its EXIF orientation.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	return img, nil
}

// SurfaceSize returns the surface dimensions for an image of the given size:
// the image is scaled by min(maxWidth/width, 1) and the result truncated.
func SurfaceSize(width, height, maxWidth int) image.Point {
	if width <= 0 || height <= 0 {
		return image.Point{}
	}
	scale := min(float64(maxWidth)/float64(width), 1)
	return image.Pt(
		max(int(float64(width)*scale), 1),
		max(int(float64(height)*scale), 1),
	)
}

// Load resamples img to the surface size and keeps it as the base image.
// The surface shows the base without any regions afterwards.
func (c *Compositor) Load(img image.Image) {
	b := img.Bounds()
	size := SurfaceSize(b.Dx(), b.Dy(), c.maxWidth)
	if size == b.Size() {
		c.base = imaging.Clone(img)
	} else {
		c.base = imaging.Resize(img, size.X, size.Y, imaging.Linear)
	}
	c.surface = image.NewNRGBA(c.base.Bounds())
	copy(c.surface.Pix, c.base.Pix)
}

// Loaded reports whether an image has been loaded.
func (c *Compositor) Loaded() bool {
	return c.base != nil
}

// Bounds returns the surface bounds, or an empty rectangle before Load.
func (c *Compositor) Bounds() image.Rectangle {
	if c.surface == nil {
		return image.Rectangle{}
	}
	return c.surface.Bounds()
}

// Redraw rebuilds the surface from the base image and replays regions in order.
// It does nothing before Load.
func (c *Compositor) Redraw(regions []model.Region) {
	if !c.Loaded() {
		return
	}
	copy(c.surface.Pix, c.base.Pix)
	for _, r := range regions {
		effect.Apply(c.surface, r.Rect(), r.Effect, r.BlurParameter)
	}
}

// Preview draws the rectangle being dragged on top of the current surface:
// a red dashed outline and, for the blackout and opaque blur tools, a
// translucent fill. The next Redraw removes it.
func (c *Compositor) Preview(start, current image.Point, tool model.EffectType) {
	if !c.Loaded() {
		return
	}
	r := image.Rectangle{Min: start, Max: current}.Canon()
	effect.DashedRect(c.surface, r, effect.PreviewOutline, previewLineWidth, previewDash)
	if fill, ok := effect.PreviewFill(tool); ok {
		effect.Overlay(c.surface, r, fill)
	}
}

// Export writes the surface as PNG. Nothing is written when no image has
// been loaded, in which case Export reports false.
func (c *Compositor) Export(w io.Writer) (bool, error) {
	if !c.Loaded() {
		return false, nil
	}
	if err := imaging.Encode(w, c.surface, imaging.PNG); err != nil {
		return false, fmt.Errorf("failed to encode png: %w", err)
	}
	return true, nil
}

// Surface returns the current surface, or nil before Load.
// Callers must not modify it.
func (c *Compositor) Surface() *image.NRGBA {
	return c.surface
}

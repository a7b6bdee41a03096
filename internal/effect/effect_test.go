package effect

import (
	"image"
	"image/color"
	"testing"

	"github.com/nao1215/imgshield/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	Fill(img, img.Bounds(), c)
	return img
}

func TestCropAndPaste(t *testing.T) {
	t.Parallel()

	src := solid(10, 10, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(4, 5, color.NRGBA{R: 200, A: 255})

	patch := Crop(src, image.Rect(3, 3, 8, 8))
	require.Equal(t, image.Rect(0, 0, 5, 5), patch.Bounds())
	assert.Equal(t, color.NRGBA{R: 200, A: 255}, patch.NRGBAAt(1, 2))

	patch.SetNRGBA(0, 0, color.NRGBA{G: 99, A: 255})
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, src.NRGBAAt(3, 3), "crop must copy")

	Paste(src, patch, image.Pt(3, 3))
	assert.Equal(t, color.NRGBA{G: 99, A: 255}, src.NRGBAAt(3, 3))
}

func TestFillAndOverlay(t *testing.T) {
	t.Parallel()

	t.Run("fill replaces pixels inside the rectangle only", func(t *testing.T) {
		t.Parallel()

		img := solid(6, 6, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		Fill(img, image.Rect(2, 2, 4, 4), Black)

		assert.Equal(t, Black, img.NRGBAAt(2, 2))
		assert.Equal(t, Black, img.NRGBAAt(3, 3))
		assert.Equal(t, uint8(255), img.NRGBAAt(4, 4).R)
	})

	t.Run("overlay lightens towards white by the tint alpha", func(t *testing.T) {
		t.Parallel()

		glass := solid(4, 4, Black)
		Overlay(glass, glass.Bounds(), GlassTint)
		assert.InDelta(t, 26, int(glass.NRGBAAt(1, 1).R), 1)
		assert.Equal(t, uint8(255), glass.NRGBAAt(1, 1).A)

		opaque := solid(4, 4, Black)
		Overlay(opaque, opaque.Bounds(), OpaqueTint)
		assert.InDelta(t, 153, int(opaque.NRGBAAt(1, 1).R), 1)
	})
}

func TestDashedRect(t *testing.T) {
	t.Parallel()

	t.Run("alternates dashes along the top edge", func(t *testing.T) {
		t.Parallel()

		img := solid(40, 40, color.NRGBA{A: 255})
		DashedRect(img, image.Rect(5, 5, 35, 35), PreviewOutline, 1, 5)

		for x := 5; x < 10; x++ {
			assert.Equal(t, PreviewOutline, img.NRGBAAt(x, 5), "x=%d", x)
		}
		for x := 10; x < 15; x++ {
			assert.Equal(t, color.NRGBA{A: 255}, img.NRGBAAt(x, 5), "x=%d", x)
		}
		assert.Equal(t, PreviewOutline, img.NRGBAAt(15, 5))
		assert.Equal(t, color.NRGBA{A: 255}, img.NRGBAAt(20, 20), "interior stays untouched")
	})

	t.Run("non-positive dash draws a solid outline", func(t *testing.T) {
		t.Parallel()

		img := solid(20, 20, color.NRGBA{A: 255})
		DashedRect(img, image.Rect(15, 15, 2, 2), PreviewOutline, 1, 0)

		for x := 2; x < 15; x++ {
			assert.Equal(t, PreviewOutline, img.NRGBAAt(x, 2))
			assert.Equal(t, PreviewOutline, img.NRGBAAt(x, 15))
		}
	})

	t.Run("clips strokes that leave the image", func(t *testing.T) {
		t.Parallel()

		img := solid(10, 10, color.NRGBA{A: 255})
		assert.NotPanics(t, func() {
			DashedRect(img, image.Rect(-5, -5, 20, 20), PreviewOutline, 2, 5)
		})
	})
}

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("blackout fills the region with opaque black", func(t *testing.T) {
		t.Parallel()

		img := solid(30, 30, color.NRGBA{R: 120, G: 130, B: 140, A: 255})
		Apply(img, image.Rect(5, 5, 20, 20), model.EffectBlackout, 15)

		assert.Equal(t, Black, img.NRGBAAt(5, 5))
		assert.Equal(t, Black, img.NRGBAAt(19, 19))
		assert.Equal(t, uint8(120), img.NRGBAAt(20, 20).R)
	})

	t.Run("glass blur smooths the region under a faint tint", func(t *testing.T) {
		t.Parallel()

		img := solid(30, 30, Black)
		img.SetNRGBA(10, 10, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		Apply(img, image.Rect(5, 5, 20, 20), model.EffectGlassBlur, 15)

		center := img.NRGBAAt(10, 10)
		assert.Less(t, int(center.R), 255)
		assert.Greater(t, int(img.NRGBAAt(6, 6).R), 0, "tint reaches the region")
		assert.Equal(t, Black, img.NRGBAAt(25, 25), "outside the region is untouched")
	})

	t.Run("opaque blur tints more than glass blur", func(t *testing.T) {
		t.Parallel()

		glass := solid(20, 20, Black)
		opaque := solid(20, 20, Black)
		Apply(glass, glass.Bounds(), model.EffectGlassBlur, 1)
		Apply(opaque, opaque.Bounds(), model.EffectOpaqueBlur, 1)

		assert.Greater(t, opaque.NRGBAAt(5, 5).R, glass.NRGBAAt(5, 5).R)
	})

	t.Run("regions outside the surface are ignored", func(t *testing.T) {
		t.Parallel()

		img := solid(10, 10, color.NRGBA{R: 7, A: 255})
		Apply(img, image.Rect(50, 50, 80, 80), model.EffectBlackout, 0)

		assert.Equal(t, uint8(7), img.NRGBAAt(9, 9).R)
	})

	t.Run("regions partly outside the surface are clipped", func(t *testing.T) {
		t.Parallel()

		img := solid(10, 10, color.NRGBA{R: 7, A: 255})
		Apply(img, image.Rect(5, 5, 80, 80), model.EffectBlackout, 0)

		assert.Equal(t, Black, img.NRGBAAt(9, 9))
		assert.Equal(t, uint8(7), img.NRGBAAt(4, 4).R)
	})
}

func TestPreviewFill(t *testing.T) {
	t.Parallel()

	c, ok := PreviewFill(model.EffectBlackout)
	assert.True(t, ok)
	assert.Equal(t, PreviewBlackout, c)

	c, ok = PreviewFill(model.EffectOpaqueBlur)
	assert.True(t, ok)
	assert.Equal(t, PreviewOpaque, c)

	_, ok = PreviewFill(model.EffectGlassBlur)
	assert.False(t, ok)
}

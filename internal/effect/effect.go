package effect

import (
	"image"
	"image/color"

	"github.com/nao1215/imgshield/internal/model"
)

// Colours used by the redaction effects and the drag preview.
var (
	// Black fills blackout regions.
	Black = color.NRGBA{R: 0, G: 0, B: 0, A: 255}

	// GlassTint is the faint white wash over a glass blur (alpha 0.1).
	GlassTint = color.NRGBA{R: 255, G: 255, B: 255, A: 26}

	// OpaqueTint is the dense white wash over an opaque blur (alpha 0.6).
	OpaqueTint = color.NRGBA{R: 255, G: 255, B: 255, A: 153}

	// PreviewOutline is the dashed outline drawn while dragging.
	PreviewOutline = color.NRGBA{R: 255, G: 0, B: 0, A: 255}

	// PreviewBlackout previews a blackout region (alpha 0.7).
	PreviewBlackout = color.NRGBA{R: 0, G: 0, B: 0, A: 179}

	// PreviewOpaque previews an opaque blur region (alpha 0.3).
	PreviewOpaque = color.NRGBA{R: 255, G: 255, B: 255, A: 77}
)

// Apply redacts the part of surface inside r with the given effect.
// Blur effects work on a copy of the region so that the blur never reads
// pixels outside it. r is clipped to the surface; an empty intersection
// leaves the surface untouched.
func Apply(surface *image.NRGBA, r image.Rectangle, effect model.EffectType, strength int) {
	r = r.Canon().Intersect(surface.Bounds())
	if r.Empty() {
		return
	}

	switch effect {
	case model.EffectBlackout:
		Fill(surface, r, Black)
	case model.EffectGlassBlur, model.EffectOpaqueBlur:
		patch := Crop(surface, r)
		BoxBlur(patch, strength)
		Paste(surface, patch, r.Min)

		tint := GlassTint
		if effect == model.EffectOpaqueBlur {
			tint = OpaqueTint
		}
		Overlay(surface, r, tint)
	}
}

// PreviewFill returns the translucent fill shown while dragging with a tool.
// The glass blur tool has no fill, only the outline.
func PreviewFill(effect model.EffectType) (color.NRGBA, bool) {
	switch effect {
	case model.EffectBlackout:
		return PreviewBlackout, true
	case model.EffectOpaqueBlur:
		return PreviewOpaque, true
	default:
		return color.NRGBA{}, false
	}
}

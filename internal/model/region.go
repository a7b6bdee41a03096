package model

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
)

// MinRegionSize is the size in pixels that both sides of a region must exceed.
// A drag of exactly MinRegionSize pixels in either direction is discarded.
const MinRegionSize = 10

// DefaultBlurStrength is the number of blur iterations applied when the user
// has not chosen a strength.
const DefaultBlurStrength = 15

var (
	// ErrUnknownEffect is returned when an effect name does not match any EffectType.
	ErrUnknownEffect = errors.New("unknown redaction effect")

	// ErrInvalidRegion is returned when a textual region cannot be parsed.
	ErrInvalidRegion = errors.New("invalid region")
)

// EffectType identifies how a region obscures the pixels underneath it.
type EffectType int

const (
	// EffectGlassBlur blurs the region and adds a faint white tint.
	// It is the zero value, matching the tool selected on startup.
	EffectGlassBlur EffectType = iota

	// EffectOpaqueBlur blurs the region under a dense white tint.
	EffectOpaqueBlur

	// EffectBlackout paints the region solid black. It ignores the blur strength.
	EffectBlackout
)

// String returns the tool identifier of the effect.
func (e EffectType) String() string {
	switch e {
	case EffectGlassBlur:
		return "blur"
	case EffectOpaqueBlur:
		return "opaque-blur"
	case EffectBlackout:
		return "blackout"
	default:
		return "unknown"
	}
}

// IsBlur reports whether the effect runs the box blur.
func (e EffectType) IsBlur() bool {
	return e == EffectGlassBlur || e == EffectOpaqueBlur
}

// MarshalText implements encoding.TextMarshaler.
func (e EffectType) MarshalText() ([]byte, error) {
	if e < EffectGlassBlur || e > EffectBlackout {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEffect, int(e))
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *EffectType) UnmarshalText(text []byte) error {
	parsed, err := ParseEffectType(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// ParseEffectType converts a tool identifier into an EffectType.
// Matching is case-insensitive and accepts a few common spellings.
func ParseEffectType(name string) (EffectType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "blur", "glass", "glass-blur":
		return EffectGlassBlur, nil
	case "opaque-blur", "opaque", "opaque_blur":
		return EffectOpaqueBlur, nil
	case "blackout", "black":
		return EffectBlackout, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
}

// EffectTypes returns every effect in declaration order.
func EffectTypes() []EffectType {
	return []EffectType{EffectGlassBlur, EffectOpaqueBlur, EffectBlackout}
}

// Region is a committed redaction rectangle in surface coordinates.
// Width and Height are always positive for regions created by a drag.
type Region struct {
	// X is the left edge of the region.
	X int `json:"x" yaml:"x"`

	// Y is the top edge of the region.
	Y int `json:"y" yaml:"y"`

	// Width is the horizontal extent in pixels.
	Width int `json:"width" yaml:"width"`

	// Height is the vertical extent in pixels.
	Height int `json:"height" yaml:"height"`

	// Effect is the redaction applied inside the region.
	Effect EffectType `json:"effect" yaml:"effect"`

	// BlurParameter is the number of blur iterations.
	// It is only meaningful for blur effects.
	BlurParameter int `json:"blur_parameter" yaml:"blur_parameter"`
}

// RegionFromDrag builds a region from the two corners of a pointer drag.
// The corners may be given in any order. The second return value is false
// when the drag is too small to commit.
func RegionFromDrag(start, end image.Point, effect EffectType, blur int) (Region, bool) {
	r := Region{
		X:             min(start.X, end.X),
		Y:             min(start.Y, end.Y),
		Width:         abs(end.X - start.X),
		Height:        abs(end.Y - start.Y),
		Effect:        effect,
		BlurParameter: blur,
	}
	return r, r.Committable()
}

// Committable reports whether both sides exceed MinRegionSize.
func (r Region) Committable() bool {
	return r.Width > MinRegionSize && r.Height > MinRegionSize
}

// Rect returns the region as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// String formats the region the way ParseRegion reads it.
func (r Region) String() string {
	return fmt.Sprintf("%d,%d,%d,%d:%s", r.X, r.Y, r.Width, r.Height, r.Effect)
}

// ParseRegion reads a region written as "x,y,w,h" or "x,y,w,h:tool".
// When the tool is omitted, effect is used.
func ParseRegion(s string, effect EffectType, blur int) (Region, error) {
	spec, tool, hasTool := strings.Cut(strings.TrimSpace(s), ":")
	if hasTool {
		parsed, err := ParseEffectType(tool)
		if err != nil {
			return Region{}, fmt.Errorf("%w %q: %w", ErrInvalidRegion, s, err)
		}
		effect = parsed
	}

	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return Region{}, fmt.Errorf("%w %q: expected x,y,w,h", ErrInvalidRegion, s)
	}

	values := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Region{}, fmt.Errorf("%w %q: %w", ErrInvalidRegion, s, err)
		}
		values[i] = v
	}
	if values[2] < 0 || values[3] < 0 {
		return Region{}, fmt.Errorf("%w %q: negative size", ErrInvalidRegion, s)
	}

	return Region{
		X:             values[0],
		Y:             values[1],
		Width:         values[2],
		Height:        values[3],
		Effect:        effect,
		BlurParameter: blur,
	}, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package model

import (
	"encoding/json"
	"errors"
	"image"
	"testing"
)

func TestEffectType(t *testing.T) {
	t.Parallel()

	t.Run("round trips every effect through its name", func(t *testing.T) {
		t.Parallel()

		for _, e := range EffectTypes() {
			parsed, err := ParseEffectType(e.String())
			if err != nil {
				t.Fatalf("ParseEffectType(%q) returned error: %v", e.String(), err)
			}
			if parsed != e {
				t.Errorf("got %v, expected %v", parsed, e)
			}
		}
	})

	t.Run("accepts aliases case-insensitively", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			input    string
			expected EffectType
		}{
			{"BLUR", EffectGlassBlur},
			{"glass", EffectGlassBlur},
			{" opaque ", EffectOpaqueBlur},
			{"Black", EffectBlackout},
		}
		for _, tc := range testCases {
			got, err := ParseEffectType(tc.input)
			if err != nil {
				t.Fatalf("ParseEffectType(%q) returned error: %v", tc.input, err)
			}
			if got != tc.expected {
				t.Errorf("ParseEffectType(%q) = %v, expected %v", tc.input, got, tc.expected)
			}
		}
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		t.Parallel()

		_, err := ParseEffectType("pixelate")
		if !errors.Is(err, ErrUnknownEffect) {
			t.Errorf("expected ErrUnknownEffect, got %v", err)
		}
	})

	t.Run("only blur effects report IsBlur", func(t *testing.T) {
		t.Parallel()

		if !EffectGlassBlur.IsBlur() || !EffectOpaqueBlur.IsBlur() {
			t.Error("expected blur effects to report IsBlur")
		}
		if EffectBlackout.IsBlur() {
			t.Error("expected blackout not to report IsBlur")
		}
	})

	t.Run("marshals to JSON as a tool name", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(Region{X: 1, Y: 2, Width: 20, Height: 30, Effect: EffectOpaqueBlur, BlurParameter: 15})
		if err != nil {
			t.Fatalf("Marshal returned error: %v", err)
		}

		var decoded Region
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal returned error: %v", err)
		}
		if decoded.Effect != EffectOpaqueBlur {
			t.Errorf("expected opaque-blur, got %v (json %s)", decoded.Effect, data)
		}
	})
}

func TestRegionFromDrag(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		start, end image.Point
		expected   Region
		committed  bool
	}{
		{
			name:      "normalises a drag towards the top left",
			start:     image.Pt(50, 60),
			end:       image.Pt(20, 25),
			expected:  Region{X: 20, Y: 25, Width: 30, Height: 35},
			committed: true,
		},
		{
			name:      "discards a drag of exactly the minimum size",
			start:     image.Pt(0, 0),
			end:       image.Pt(10, 10),
			expected:  Region{X: 0, Y: 0, Width: 10, Height: 10},
			committed: false,
		},
		{
			name:      "accepts a drag one pixel over the minimum",
			start:     image.Pt(0, 0),
			end:       image.Pt(11, 11),
			expected:  Region{X: 0, Y: 0, Width: 11, Height: 11},
			committed: true,
		},
		{
			name:      "discards a wide but flat drag",
			start:     image.Pt(0, 0),
			end:       image.Pt(200, 5),
			expected:  Region{X: 0, Y: 0, Width: 200, Height: 5},
			committed: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := RegionFromDrag(tc.start, tc.end, EffectBlackout, 15)
			tc.expected.Effect = EffectBlackout
			tc.expected.BlurParameter = 15

			if ok != tc.committed {
				t.Errorf("committed = %v, expected %v", ok, tc.committed)
			}
			if got != tc.expected {
				t.Errorf("got %+v, expected %+v", got, tc.expected)
			}
		})
	}
}

func TestParseRegion(t *testing.T) {
	t.Parallel()

	t.Run("uses the default effect without a tool suffix", func(t *testing.T) {
		t.Parallel()

		r, err := ParseRegion("10, 20, 30, 40", EffectGlassBlur, 7)
		if err != nil {
			t.Fatalf("ParseRegion returned error: %v", err)
		}
		expected := Region{X: 10, Y: 20, Width: 30, Height: 40, Effect: EffectGlassBlur, BlurParameter: 7}
		if r != expected {
			t.Errorf("got %+v, expected %+v", r, expected)
		}
		if r.Rect() != image.Rect(10, 20, 40, 60) {
			t.Errorf("unexpected rect %v", r.Rect())
		}
	})

	t.Run("reads the tool suffix", func(t *testing.T) {
		t.Parallel()

		r, err := ParseRegion("0,0,50,50:blackout", EffectGlassBlur, 15)
		if err != nil {
			t.Fatalf("ParseRegion returned error: %v", err)
		}
		if r.Effect != EffectBlackout {
			t.Errorf("expected blackout, got %v", r.Effect)
		}
		if r.String() != "0,0,50,50:blackout" {
			t.Errorf("unexpected String() %q", r.String())
		}
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		t.Parallel()

		for _, input := range []string{"1,2,3", "a,b,c,d", "0,0,-5,20", "0,0,20,20:smudge"} {
			if _, err := ParseRegion(input, EffectGlassBlur, 15); !errors.Is(err, ErrInvalidRegion) {
				t.Errorf("ParseRegion(%q): expected ErrInvalidRegion, got %v", input, err)
			}
		}
	})
}

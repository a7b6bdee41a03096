package redact

import (
	"testing"

	"github.com/nao1215/imgshield/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	t.Parallel()

	t.Run("keeps regions in insertion order", func(t *testing.T) {
		t.Parallel()

		s := NewStore()
		first := model.Region{X: 1, Y: 1, Width: 20, Height: 20, Effect: model.EffectBlackout}
		second := model.Region{X: 5, Y: 5, Width: 30, Height: 30, Effect: model.EffectGlassBlur, BlurParameter: 15}
		s.Append(first)
		s.Append(second)

		require.Equal(t, 2, s.Len())
		assert.Equal(t, []model.Region{first, second}, s.List())
	})

	t.Run("List returns a copy", func(t *testing.T) {
		t.Parallel()

		s := NewStore()
		s.Append(model.Region{Width: 20, Height: 20})
		list := s.List()
		list[0].Width = 999

		assert.Equal(t, 20, s.List()[0].Width)
	})

	t.Run("SetGlobalBlurParameter only touches blur regions", func(t *testing.T) {
		t.Parallel()

		s := NewStore()
		s.Append(model.Region{Effect: model.EffectGlassBlur, BlurParameter: 15})
		s.Append(model.Region{Effect: model.EffectBlackout, BlurParameter: 15})
		s.Append(model.Region{Effect: model.EffectOpaqueBlur, BlurParameter: 15})

		s.SetGlobalBlurParameter(3)

		got := s.List()
		assert.Equal(t, 3, got[0].BlurParameter)
		assert.Equal(t, 15, got[1].BlurParameter)
		assert.Equal(t, 3, got[2].BlurParameter)
	})

	t.Run("Clear empties the store", func(t *testing.T) {
		t.Parallel()

		s := NewStore()
		s.Append(model.Region{})
		s.Clear()

		assert.Equal(t, 0, s.Len())
		assert.Empty(t, s.List())
	})
}

package game

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardGenerator_Generate(t *testing.T) {
	tests := []struct {
		name      string
		pairCount int
		wantErr   bool
	}{
		{name: "4x4", pairCount: 8},
		{name: "6x6", pairCount: 18},
		{name: "8x8", pairCount: 32},
		{name: "zero pairs", pairCount: 0, wantErr: true},
		{name: "unsupported tier", pairCount: 10, wantErr: true},
		{name: "more pairs than icons", pairCount: 33, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewBoardGenerator(nil)
			tiles, err := g.Generate(tt.pairCount)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDifficulty)
				assert.Nil(t, tiles)
				return
			}
			require.NoError(t, err)
			assert.Len(t, tiles, 2*tt.pairCount)

			counts := make(map[string]int)
			for i, tile := range tiles {
				assert.Equal(t, i, tile.ID)
				counts[tile.Icon]++
			}
			assert.Len(t, counts, tt.pairCount)
			for icon, n := range counts {
				assert.Equal(t, 2, n, "icon %s", icon)
			}
		})
	}
}

func TestBoardGenerator_GenerateFor(t *testing.T) {
	g := NewBoardGenerator(rand.New(rand.NewPCG(1, 2)))

	tiles, err := g.GenerateFor(types.Difficulty6x6)
	require.NoError(t, err)
	assert.Len(t, tiles, 36)

	_, err = g.GenerateFor(types.Difficulty("5x5"))
	assert.ErrorIs(t, err, ErrInvalidDifficulty)
}

func TestBoardGenerator_ShufflesIndependently(t *testing.T) {
	g := NewBoardGenerator(nil)
	first, err := g.Generate(8)
	require.NoError(t, err)

	// 16!/2^8 distinct boards; twenty identical draws in a row means no shuffle.
	differs := false
	for i := 0; i < 20 && !differs; i++ {
		next, err := g.Generate(8)
		require.NoError(t, err)
		differs = !slices.Equal(first, next)
	}
	assert.True(t, differs, "every generated board was identical")
}

func TestBoardGenerator_PositionDistribution(t *testing.T) {
	g := NewBoardGenerator(rand.New(rand.NewPCG(42, 7)))

	// Count how often the first icon lands in position 0. Uniform placement
	// gives 2/16 of the draws; allow a wide band.
	const draws = 4000
	hits := 0
	for i := 0; i < draws; i++ {
		tiles, err := g.Generate(8)
		require.NoError(t, err)
		if tiles[0].Icon == "🐶" {
			hits++
		}
	}
	assert.InDelta(t, draws/8, hits, draws/40)
}

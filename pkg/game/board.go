package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/poojachaurasiya603/psmemorygame/pkg/game/constants"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
)

// ErrInvalidDifficulty is returned for pair counts outside the supported tiers.
var ErrInvalidDifficulty = types.ErrInvalidDifficulty

// BoardGenerator produces shuffled decks of paired tiles.
type BoardGenerator struct {
	rng *rand.Rand
}

// NewBoardGenerator creates a generator. A nil rng uses the runtime-seeded
// global source, so every call yields an independent shuffle.
func NewBoardGenerator(rng *rand.Rand) *BoardGenerator {
	return &BoardGenerator{rng: rng}
}

// Generate returns 2*pairCount tiles where each of pairCount icons occurs twice,
// uniformly permuted, with ids renumbered to their board position.
func (g *BoardGenerator) Generate(pairCount int) ([]types.Tile, error) {
	if _, err := types.DifficultyForPairs(pairCount); err != nil {
		return nil, err
	}
	if pairCount > len(constants.Icons) {
		return nil, fmt.Errorf("%w: only %d icons available", ErrInvalidDifficulty, len(constants.Icons))
	}

	icons := make([]string, 0, pairCount*2)
	icons = append(icons, constants.Icons[:pairCount]...)
	icons = append(icons, constants.Icons[:pairCount]...)

	g.shuffle(len(icons), func(i, j int) {
		icons[i], icons[j] = icons[j], icons[i]
	})

	tiles := make([]types.Tile, len(icons))
	for i, icon := range icons {
		tiles[i] = types.Tile{ID: i, Icon: icon}
	}
	return tiles, nil
}

// GenerateFor is Generate for a difficulty tier.
func (g *BoardGenerator) GenerateFor(difficulty types.Difficulty) ([]types.Tile, error) {
	pairCount := difficulty.PairCount()
	if pairCount == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDifficulty, difficulty)
	}
	return g.Generate(pairCount)
}

func (g *BoardGenerator) shuffle(n int, swap func(i, j int)) {
	if g == nil || g.rng == nil {
		rand.Shuffle(n, swap)
		return
	}
	g.rng.Shuffle(n, swap)
}

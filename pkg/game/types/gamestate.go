package types

import "slices"

// MatchState is the authoritative snapshot of one game.
type MatchState struct {
	Mode       Mode
	Difficulty Difficulty
	// Tiles is the board in display order; Tiles[i].ID == i.
	Tiles []Tile
	// Flipped holds at most two face-up, unresolved tile ids.
	Flipped []int
	// Matched holds permanently face-up tile ids.
	Matched []int
	// Mismatched holds the two ids of a wrong guess until the reveal delay passes.
	Mismatched []int
	ScoreA     int
	ScoreB     int
	// Turn is ignored in single-player mode.
	Turn Side
	// Resolving is true iff two tiles are flipped and waiting for resolution.
	Resolving bool
	Phase     Phase
}

// NewMatchState returns a fresh playing snapshot over tiles.
func NewMatchState(mode Mode, difficulty Difficulty, tiles []Tile) MatchState {
	return MatchState{
		Mode:       mode,
		Difficulty: difficulty,
		Tiles:      slices.Clone(tiles),
		Flipped:    []int{},
		Matched:    []int{},
		Mismatched: []int{},
		Turn:       SideA,
		Phase:      PhasePlaying,
	}
}

// Copy returns a deep copy so callers can mutate the result freely.
func (s MatchState) Copy() MatchState {
	c := s
	c.Tiles = slices.Clone(s.Tiles)
	c.Flipped = cloneIDs(s.Flipped)
	c.Matched = cloneIDs(s.Matched)
	c.Mismatched = cloneIDs(s.Mismatched)
	return c
}

func cloneIDs(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return slices.Clone(ids)
}

func (s MatchState) TotalTiles() int {
	return len(s.Tiles)
}

func (s MatchState) PairCount() int {
	return len(s.Tiles) / 2
}

func (s MatchState) IsFlipped(id int) bool {
	return slices.Contains(s.Flipped, id)
}

func (s MatchState) IsMatched(id int) bool {
	return slices.Contains(s.Matched, id)
}

func (s MatchState) IsMismatched(id int) bool {
	return slices.Contains(s.Mismatched, id)
}

// Complete reports whether every tile has been matched.
func (s MatchState) Complete() bool {
	return len(s.Tiles) > 0 && len(s.Matched) == len(s.Tiles)
}

// Score returns the score of the given side.
func (s MatchState) Score(side Side) int {
	if side == SideB {
		return s.ScoreB
	}
	return s.ScoreA
}

// Tile returns the tile with the given id.
func (s MatchState) Tile(id int) (Tile, bool) {
	if id < 0 || id >= len(s.Tiles) {
		return Tile{}, false
	}
	return s.Tiles[id], true
}

package game

import (
	"errors"
	"fmt"

	"github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
)

var ErrInvalidState = errors.New("invalid match state")

// Validate checks the structural invariants of a match snapshot.
func Validate(s types.MatchState) error {
	if len(s.Tiles)%2 != 0 {
		return fmt.Errorf("%w: odd tile count %d", ErrInvalidState, len(s.Tiles))
	}
	icons := make(map[string]int, len(s.Tiles)/2)
	for i, tile := range s.Tiles {
		if tile.ID != i {
			return fmt.Errorf("%w: tile at %d has id %d", ErrInvalidState, i, tile.ID)
		}
		icons[tile.Icon]++
	}
	for icon, n := range icons {
		if n != 2 {
			return fmt.Errorf("%w: icon %s occurs %d times", ErrInvalidState, icon, n)
		}
	}

	if len(s.Flipped) > 2 {
		return fmt.Errorf("%w: %d tiles flipped", ErrInvalidState, len(s.Flipped))
	}
	if s.Resolving != (len(s.Flipped) == 2) {
		return fmt.Errorf("%w: resolving=%t with %d flipped", ErrInvalidState, s.Resolving, len(s.Flipped))
	}
	if len(s.Mismatched) != 0 && len(s.Mismatched) != 2 {
		return fmt.Errorf("%w: %d tiles mismatched", ErrInvalidState, len(s.Mismatched))
	}

	matched := make(map[int]bool, len(s.Matched))
	for _, id := range s.Matched {
		if _, ok := s.Tile(id); !ok {
			return fmt.Errorf("%w: matched id %d out of range", ErrInvalidState, id)
		}
		if matched[id] {
			return fmt.Errorf("%w: id %d matched twice", ErrInvalidState, id)
		}
		matched[id] = true
	}
	if len(s.Matched)%2 != 0 {
		return fmt.Errorf("%w: odd matched count %d", ErrInvalidState, len(s.Matched))
	}
	for i := 0; i+1 < len(s.Matched); i += 2 {
		a, b := s.Tiles[s.Matched[i]], s.Tiles[s.Matched[i+1]]
		if a.Icon != b.Icon {
			return fmt.Errorf("%w: matched pair %d/%d differs", ErrInvalidState, a.ID, b.ID)
		}
	}

	for _, id := range s.Flipped {
		if _, ok := s.Tile(id); !ok {
			return fmt.Errorf("%w: flipped id %d out of range", ErrInvalidState, id)
		}
		if matched[id] {
			return fmt.Errorf("%w: id %d both flipped and matched", ErrInvalidState, id)
		}
	}
	for _, id := range s.Mismatched {
		if matched[id] {
			return fmt.Errorf("%w: id %d both mismatched and matched", ErrInvalidState, id)
		}
	}

	if s.Phase == types.PhaseFinished && !s.Complete() {
		return fmt.Errorf("%w: finished with %d of %d matched", ErrInvalidState, len(s.Matched), len(s.Tiles))
	}
	if s.Turn != types.SideA && s.Turn != types.SideB {
		return fmt.Errorf("%w: turn %q", ErrInvalidState, s.Turn)
	}
	return nil
}

package types

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidDifficulty = errors.New("invalid difficulty")

// Tile is one card on the board. It never changes after the board is generated.
type Tile struct {
	ID   int    `json:"id" firestore:"id"`
	Icon string `json:"icon" firestore:"icon"`
}

// Side identifies one of the two seats of a match.
// In online mode the host plays SideA and the guest plays SideB.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

type Phase string

const (
	PhaseWaiting   Phase = "waiting"
	PhasePlaying   Phase = "playing"
	PhaseFinished  Phase = "finished"
	PhaseAbandoned Phase = "abandoned"
)

// rank orders phases for forward-only transitions.
func (p Phase) rank() int {
	switch p {
	case PhaseWaiting:
		return 0
	case PhasePlaying:
		return 1
	case PhaseFinished:
		return 2
	case PhaseAbandoned:
		return 3
	default:
		return -1
	}
}

// Precedes reports whether p comes strictly before other in the session lifecycle.
func (p Phase) Precedes(other Phase) bool {
	return p.rank() < other.rank()
}

type Mode string

const (
	ModeSingle Mode = "single"
	ModeLocal  Mode = "local"
	ModeOnline Mode = "online"
)

// TurnBased reports whether flips are restricted to the side holding the turn.
func (m Mode) TurnBased() bool {
	return m == ModeLocal || m == ModeOnline
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return ModeSingle, nil
	case "local", "multi":
		return ModeLocal, nil
	case "online":
		return ModeOnline, nil
	default:
		return "", fmt.Errorf("unknown mode: %s", s)
	}
}

// Difficulty is the board size tier.
type Difficulty string

const (
	Difficulty4x4 Difficulty = "4x4"
	Difficulty6x6 Difficulty = "6x6"
	Difficulty8x8 Difficulty = "8x8"
)

// PairCount returns the number of icon pairs on the board, or 0 for an unknown tier.
func (d Difficulty) PairCount() int {
	switch d {
	case Difficulty4x4:
		return 8
	case Difficulty6x6:
		return 18
	case Difficulty8x8:
		return 32
	default:
		return 0
	}
}

// Columns returns the board width for rendering.
func (d Difficulty) Columns() int {
	switch d {
	case Difficulty6x6:
		return 6
	case Difficulty8x8:
		return 8
	default:
		return 4
	}
}

func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if d.PairCount() == 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
	}
	return d, nil
}

// DifficultyForPairs maps a pair count back to its tier.
func DifficultyForPairs(pairCount int) (Difficulty, error) {
	for _, d := range []Difficulty{Difficulty4x4, Difficulty6x6, Difficulty8x8} {
		if d.PairCount() == pairCount {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %d pairs", ErrInvalidDifficulty, pairCount)
}

// Player is an identity taking part in a session.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

package game

import (
	"errors"
	"fmt"

	"github.com/poojachaurasiya603/psmemorygame/pkg/game/constants"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
)

// ErrIllegalFlip marks a rejected flip. Rejections never change state and are
// not user-facing errors; callers normally just drop them.
var ErrIllegalFlip = errors.New("illegal flip")

var (
	ErrNotPlaying       = fmt.Errorf("%w: match not in playing phase", ErrIllegalFlip)
	ErrUnknownTile      = fmt.Errorf("%w: unknown tile", ErrIllegalFlip)
	ErrResolving        = fmt.Errorf("%w: pair is resolving", ErrIllegalFlip)
	ErrAlreadyMatched   = fmt.Errorf("%w: tile already matched", ErrIllegalFlip)
	ErrAlreadyFlipped   = fmt.Errorf("%w: tile already flipped", ErrIllegalFlip)
	ErrWrongTurn        = fmt.Errorf("%w: not this side's turn", ErrIllegalFlip)
	ErrNothingToResolve = errors.New("no mismatch to resolve")
	ErrCannotRestart    = errors.New("match cannot be restarted")
)

type EventType string

const (
	EvtTileFlipped    EventType = "TileFlipped"
	EvtPairMatched    EventType = "PairMatched"
	EvtPairMismatched EventType = "PairMismatched"
	EvtTurnPassed     EventType = "TurnPassed"
	EvtGameCompleted  EventType = "GameCompleted"
	EvtGameRestarted  EventType = "GameRestarted"
)

type Event struct {
	Type  EventType
	Side  types.Side
	Tiles []int
}

// ContainsEvent reports whether events has one of the given type.
func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

// NewMatch returns a fresh playing match over tiles.
func NewMatch(mode types.Mode, difficulty types.Difficulty, tiles []types.Tile) types.MatchState {
	return types.NewMatchState(mode, difficulty, tiles)
}

// Flip applies a flip of tileID by actor. On the second flip of a turn the
// pair is evaluated immediately: a match is scored and cleared, a mismatch is
// left face-up with Resolving set until ResolveMismatch is applied.
func Flip(s types.MatchState, tileID int, actor types.Side) ([]Event, types.MatchState, error) {
	if s.Phase != types.PhasePlaying {
		return nil, s, ErrNotPlaying
	}
	if _, ok := s.Tile(tileID); !ok {
		return nil, s, ErrUnknownTile
	}
	if s.Resolving {
		return nil, s, ErrResolving
	}
	if s.IsMatched(tileID) {
		return nil, s, ErrAlreadyMatched
	}
	if s.IsFlipped(tileID) {
		return nil, s, ErrAlreadyFlipped
	}
	if s.Mode.TurnBased() && actor != s.Turn {
		return nil, s, ErrWrongTurn
	}

	side := actor
	if !s.Mode.TurnBased() {
		side = types.SideA
	}

	next := s.Copy()
	next.Flipped = append(next.Flipped, tileID)
	events := []Event{
		{Type: EvtTileFlipped, Side: side, Tiles: []int{tileID}},
	}

	if len(next.Flipped) < 2 {
		return events, next, nil
	}

	first, _ := next.Tile(next.Flipped[0])
	second, _ := next.Tile(next.Flipped[1])
	pair := []int{first.ID, second.ID}

	if first.Icon != second.Icon {
		next.Mismatched = pair
		next.Resolving = true
		events = append(events, Event{Type: EvtPairMismatched, Side: side, Tiles: pair})
		return events, next, nil
	}

	next.Matched = append(next.Matched, pair...)
	next.Flipped = []int{}
	next.Resolving = false
	if side == types.SideB {
		next.ScoreB += constants.MatchPoints
	} else {
		next.ScoreA += constants.MatchPoints
	}
	events = append(events, Event{Type: EvtPairMatched, Side: side, Tiles: pair})

	if next.Complete() {
		next.Phase = types.PhaseFinished
		events = append(events, Event{Type: EvtGameCompleted, Side: side})
	}
	return events, next, nil
}

// ResolveMismatch ends the reveal of a wrong guess: both tiles turn back
// face-down and, in turn-based modes, the turn passes to the other side.
func ResolveMismatch(s types.MatchState) ([]Event, types.MatchState, error) {
	if s.Phase != types.PhasePlaying || len(s.Mismatched) != 2 {
		return nil, s, ErrNothingToResolve
	}

	next := s.Copy()
	next.Flipped = []int{}
	next.Mismatched = []int{}
	next.Resolving = false

	var events []Event
	if next.Mode.TurnBased() {
		next.Turn = s.Turn.Other()
		events = append(events, Event{Type: EvtTurnPassed, Side: next.Turn})
	}
	return events, next, nil
}

// Restart resets s onto a freshly generated board. The caller decides who may
// restart; the engine only refuses matches that never started.
func Restart(s types.MatchState, tiles []types.Tile) ([]Event, types.MatchState, error) {
	switch s.Phase {
	case types.PhasePlaying, types.PhaseFinished:
	default:
		return nil, s, ErrCannotRestart
	}
	difficulty, err := types.DifficultyForPairs(len(tiles) / 2)
	if err != nil || len(tiles)%2 != 0 {
		return nil, s, fmt.Errorf("%w: %d tiles", ErrInvalidDifficulty, len(tiles))
	}
	next := NewMatch(s.Mode, difficulty, tiles)
	return []Event{{Type: EvtGameRestarted}}, next, nil
}

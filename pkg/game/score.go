package game

import (
	"github.com/poojachaurasiya603/psmemorygame/pkg/game/constants"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
)

// SinglePlayerScore adds the time bonus to the match points. The bonus budget
// is ten points per tile and drains one point per elapsed second.
func SinglePlayerScore(scoreA, totalTiles, elapsedSeconds int) int {
	bonus := totalTiles*constants.TimeBonusPerTile - elapsedSeconds
	if bonus < 0 {
		bonus = 0
	}
	return scoreA + bonus
}

// Winner returns the side with the higher score. tie is true when the scores are equal.
func Winner(s types.MatchState) (winner types.Side, tie bool) {
	switch {
	case s.ScoreA > s.ScoreB:
		return types.SideA, false
	case s.ScoreB > s.ScoreA:
		return types.SideB, false
	default:
		return "", true
	}
}

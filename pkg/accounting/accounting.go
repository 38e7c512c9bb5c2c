// Package accounting turns a finished match into updates of the persistent
// per-player counters.
package accounting

import (
	"context"
	"errors"
	"fmt"

	"github.com/poojachaurasiya603/psmemorygame/pkg/game"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
	"github.com/poojachaurasiya603/psmemorygame/pkg/log"
	"github.com/poojachaurasiya603/psmemorygame/pkg/repositories"
)

var ErrNoPlayer = errors.New("result has no player id")

// Result is the outcome of one finished match from the point of view of one identity.
type Result struct {
	PlayerID string
	Mode     types.Mode
	// Score is the identity's final score, including the time bonus in single-player.
	Score         int
	OpponentScore int
	Won           bool
}

// Settle computes the result for the identity playing side. elapsedSeconds
// only matters in single-player, where it drains the time bonus.
func Settle(mode types.Mode, side types.Side, playerID string, match types.MatchState, elapsedSeconds int) Result {
	r := Result{
		PlayerID: playerID,
		Mode:     mode,
	}
	if mode == types.ModeSingle {
		r.Score = game.SinglePlayerScore(match.ScoreA, match.TotalTiles(), elapsedSeconds)
		// finishing the board is the win condition
		r.Won = true
		return r
	}
	r.Score = match.Score(side)
	r.OpponentScore = match.Score(side.Other())
	r.Won = r.Score > r.OpponentScore
	return r
}

// Recorder persists results. Implementations may record asynchronously.
type Recorder interface {
	Record(ctx context.Context, result Result) error
}

// Accountant writes results straight to the stats repository.
type Accountant struct {
	repository repositories.Repository
}

func NewAccountant(repository repositories.Repository) *Accountant {
	return &Accountant{repository: repository}
}

// Record applies every counter update of result. Updates are independent:
// a failed one does not prevent the others and nothing is retried.
func (a *Accountant) Record(ctx context.Context, result Result) error {
	if result.PlayerID == "" {
		return ErrNoPlayer
	}

	var errs []error
	incr := func(field repositories.StatField, delta int64) {
		if err := a.repository.Increment(ctx, result.PlayerID, field, delta); err != nil {
			errs = append(errs, fmt.Errorf("increment %s: %w", field, err))
		}
	}

	if result.Mode == types.ModeSingle {
		if err := a.repository.SetIfGreater(ctx, result.PlayerID, repositories.FieldBestScore, int64(result.Score)); err != nil {
			errs = append(errs, fmt.Errorf("set %s: %w", repositories.FieldBestScore, err))
		}
	}
	incr(repositories.FieldTotalScore, int64(result.Score))
	incr(repositories.FieldTotalGames, 1)
	if result.Won {
		incr(repositories.FieldWins, 1)
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	log.Debug("Recorded %s result for player %s: score=%d won=%t", result.Mode, result.PlayerID, result.Score, result.Won)
	return nil
}

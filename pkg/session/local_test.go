package session

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/poojachaurasiya603/psmemorygame/pkg/game"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T, mode types.Mode, recorder *captureRecorder) *LocalDriver {
	t.Helper()
	opts := NewLocalDriverOptions{
		Mode:        mode,
		Difficulty:  types.Difficulty4x4,
		Player:      types.Player{ID: "p1", Name: "One"},
		Generator:   game.NewBoardGenerator(rand.New(rand.NewPCG(1, 1))),
		RevealDelay: 20 * time.Millisecond,
		ClockTick:   time.Hour,
	}
	if recorder != nil {
		opts.Recorder = recorder
	}
	d, err := NewLocalDriver(opts)
	require.NoError(t, err)
	return d
}

func TestNewLocalDriver_Validation(t *testing.T) {
	_, err := NewLocalDriver(NewLocalDriverOptions{Mode: types.ModeSingle, Difficulty: "3x3"})
	assert.ErrorIs(t, err, types.ErrInvalidDifficulty)

	_, err = NewLocalDriver(NewLocalDriverOptions{Mode: types.ModeOnline, Difficulty: types.Difficulty4x4})
	assert.Error(t, err)
}

func TestLocalDriver_SinglePlayerScenario(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := newLocal(t, types.ModeSingle, nil)
	exited := run(ctx, d)

	v := waitFor(t, d.Updates(), func(v View) bool { return len(v.Match.Tiles) == 16 })
	matching, mismatch := pairs(v.Match.Tiles)

	require.NoError(t, d.Flip(ctx, matching[0][0]))
	require.NoError(t, d.Flip(ctx, matching[0][1]))
	v = waitFor(t, d.Updates(), func(v View) bool { return len(v.Match.Matched) == 2 })
	assert.ElementsMatch(t, matching[0][:], v.Match.Matched)
	assert.Equal(t, 10, v.Match.ScoreA)
	assert.Empty(t, v.Match.Flipped)

	require.NoError(t, d.Flip(ctx, mismatch[0]))
	require.NoError(t, d.Flip(ctx, mismatch[1]))

	// the wrong guess stays up until the reveal delay passes
	err := d.Flip(ctx, matching[2][0])
	assert.ErrorIs(t, err, game.ErrResolving)

	v = waitFor(t, d.Updates(), func(v View) bool {
		return !v.Match.Resolving && len(v.Match.Mismatched) == 0 && len(v.Match.Flipped) == 0 && len(v.Match.Matched) == 2
	})
	assert.Equal(t, 10, v.Match.ScoreA)

	require.NoError(t, d.Leave(ctx))
	assert.NoError(t, waitExit(t, exited))
	for range d.Updates() {
	}
	assert.ErrorIs(t, d.Flip(ctx, 0), ErrStopped)
}

func TestLocalDriver_IllegalFlipsChangeNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := newLocal(t, types.ModeSingle, nil)
	run(ctx, d)

	v := waitFor(t, d.Updates(), func(v View) bool { return len(v.Match.Tiles) == 16 })
	matching, _ := pairs(v.Match.Tiles)

	require.NoError(t, d.Flip(ctx, matching[0][0]))
	assert.ErrorIs(t, d.Flip(ctx, matching[0][0]), game.ErrAlreadyFlipped)
	assert.ErrorIs(t, d.Flip(ctx, 99), game.ErrUnknownTile)
	require.NoError(t, d.Flip(ctx, matching[0][1]))
	assert.ErrorIs(t, d.Flip(ctx, matching[0][1]), game.ErrAlreadyMatched)

	v = waitFor(t, d.Updates(), func(v View) bool { return len(v.Match.Matched) == 2 })
	assert.Equal(t, 10, v.Match.ScoreA)
}

func TestLocalDriver_TwoPlayerTurns(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := newLocal(t, types.ModeLocal, nil)
	run(ctx, d)

	v := waitFor(t, d.Updates(), func(v View) bool { return len(v.Match.Tiles) == 16 })
	matching, mismatch := pairs(v.Match.Tiles)
	assert.Equal(t, types.SideA, v.Side)

	require.NoError(t, d.Flip(ctx, mismatch[0]))
	require.NoError(t, d.Flip(ctx, mismatch[1]))
	waitFor(t, d.Updates(), func(v View) bool { return v.Match.Turn == types.SideB && !v.Match.Resolving })

	require.NoError(t, d.Flip(ctx, matching[3][0]))
	require.NoError(t, d.Flip(ctx, matching[3][1]))
	v = waitFor(t, d.Updates(), func(v View) bool { return v.Match.ScoreB == 10 })
	assert.Equal(t, 0, v.Match.ScoreA)
	assert.Equal(t, types.SideB, v.Match.Turn, "a match keeps the turn")
}

func TestLocalDriver_FinishRecordsOnceAndRestart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	recorder := &captureRecorder{}
	d := newLocal(t, types.ModeSingle, recorder)
	run(ctx, d)

	v := waitFor(t, d.Updates(), func(v View) bool { return len(v.Match.Tiles) == 16 })
	firstBoard := v.Match.Tiles
	matching, _ := pairs(v.Match.Tiles)
	for _, pair := range matching {
		require.NoError(t, d.Flip(ctx, pair[0]))
		require.NoError(t, d.Flip(ctx, pair[1]))
	}

	v = waitFor(t, d.Updates(), func(v View) bool { return v.Match.Phase == types.PhaseFinished })
	require.NotNil(t, v.Result)
	assert.Equal(t, 80+160, v.Result.Score, "no time has elapsed on the hour-long clock")
	assert.True(t, v.Result.Won)

	results := recorder.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "p1", results[0].PlayerID)
	assert.Equal(t, types.ModeSingle, results[0].Mode)

	assert.ErrorIs(t, d.Flip(ctx, 0), game.ErrNotPlaying)

	require.NoError(t, d.Restart(ctx))
	v = waitFor(t, d.Updates(), func(v View) bool { return v.Match.Phase == types.PhasePlaying })
	assert.Equal(t, 0, v.Match.ScoreA)
	assert.Equal(t, 0, v.Match.ScoreB)
	assert.Empty(t, v.Match.Matched)
	assert.Empty(t, v.Match.Flipped)
	assert.Empty(t, v.Match.Mismatched)
	assert.Len(t, v.Match.Tiles, 16)
	assert.NotEqual(t, firstBoard, v.Match.Tiles)
	assert.Nil(t, v.Result)
	assert.Len(t, recorder.Results(), 1)
}

func TestLocalDriver_PlayClock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d, err := NewLocalDriver(NewLocalDriverOptions{
		Mode:       types.ModeSingle,
		Difficulty: types.Difficulty4x4,
		ClockTick:  5 * time.Millisecond,
	})
	require.NoError(t, err)
	run(ctx, d)

	v := waitFor(t, d.Updates(), func(v View) bool { return v.Elapsed >= 15*time.Millisecond })
	assert.Equal(t, types.PhasePlaying, v.Match.Phase)
}

func TestLocalDriver_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := newLocal(t, types.ModeSingle, nil)
	exited := run(ctx, d)
	waitFor(t, d.Updates(), func(v View) bool { return true })

	cancel()
	assert.ErrorIs(t, waitExit(t, exited), context.Canceled)
	assert.NoError(t, d.Leave(context.Background()), "leaving a stopped session is a no-op")
}

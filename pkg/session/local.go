package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/poojachaurasiya603/psmemorygame/pkg/accounting"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game/constants"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
	"github.com/poojachaurasiya603/psmemorygame/pkg/log"
)

var _ Driver = &LocalDriver{}

// LocalDriver plays single-player and same-device two-player games.
// Flips always act for the side holding the turn.
type LocalDriver struct {
	actor

	mode       types.Mode
	difficulty types.Difficulty
	// player is the identity stats are recorded for. In local two-player
	// games the device owner plays side A.
	player      types.Player
	generator   *game.BoardGenerator
	recorder    accounting.Recorder
	revealDelay time.Duration
	clockTick   time.Duration

	match   types.MatchState
	elapsed time.Duration
	result  *accounting.Result
}

type NewLocalDriverOptions struct {
	Mode       types.Mode
	Difficulty types.Difficulty
	Player     types.Player
	// Generator defaults to a generator over the global random source.
	Generator *game.BoardGenerator
	// Recorder receives the result of every finished game. Optional.
	Recorder    accounting.Recorder
	RevealDelay time.Duration
	ClockTick   time.Duration
}

// NewLocalDriver validates the setup and deals the first board.
func NewLocalDriver(opts NewLocalDriverOptions) (*LocalDriver, error) {
	switch opts.Mode {
	case types.ModeSingle, types.ModeLocal:
	default:
		return nil, fmt.Errorf("local driver cannot play mode %q", opts.Mode)
	}
	if opts.Difficulty.PairCount() == 0 {
		return nil, fmt.Errorf("%w: %q", types.ErrInvalidDifficulty, opts.Difficulty)
	}

	d := &LocalDriver{
		actor:       newActor(),
		mode:        opts.Mode,
		difficulty:  opts.Difficulty,
		player:      opts.Player,
		generator:   opts.Generator,
		recorder:    opts.Recorder,
		revealDelay: opts.RevealDelay,
		clockTick:   opts.ClockTick,
	}
	if d.generator == nil {
		d.generator = game.NewBoardGenerator(nil)
	}
	if d.revealDelay <= 0 {
		d.revealDelay = constants.MismatchRevealDelay
	}
	if d.clockTick <= 0 {
		d.clockTick = constants.PlayClockTick
	}

	tiles, err := d.generator.GenerateFor(d.difficulty)
	if err != nil {
		return nil, err
	}
	d.match = game.NewMatch(d.mode, d.difficulty, tiles)
	return d, nil
}

// Run returns nil after Leave, or the context error.
func (d *LocalDriver) Run(ctx context.Context) error {
	defer d.shutdown()

	d.timers.Schedule(TimerClock, d.clockTick)
	d.publishView()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-d.inbox:
			err := d.handleCommand(ctx, cmd)
			cmd.reply <- err
			if cmd.kind == cmdLeave {
				return nil
			}
		case fire := <-d.timers.C():
			if !d.timers.Accept(fire) {
				continue
			}
			d.handleTimer(ctx, fire.Key)
		}
	}
}

func (d *LocalDriver) handleCommand(ctx context.Context, cmd command) error {
	switch cmd.kind {
	case cmdFlip:
		return d.flip(ctx, cmd.tile)
	case cmdRestart:
		return d.restart()
	case cmdLeave:
		log.Debug("Leaving %s game", d.mode)
		return nil
	default:
		return fmt.Errorf("unknown command %d", cmd.kind)
	}
}

func (d *LocalDriver) flip(ctx context.Context, tileID int) error {
	events, next, err := game.Flip(d.match, tileID, d.match.Turn)
	if err != nil {
		log.Trace("Ignoring flip of tile %d: %v", tileID, err)
		return err
	}
	d.match = next

	if game.ContainsEvent(events, game.EvtPairMismatched) {
		d.timers.Schedule(TimerMismatch, d.revealDelay)
	}
	if game.ContainsEvent(events, game.EvtGameCompleted) {
		d.timers.Cancel(TimerClock)
		d.settle(ctx)
	}
	d.publishView()
	return nil
}

func (d *LocalDriver) restart() error {
	tiles, err := d.generator.GenerateFor(d.difficulty)
	if err != nil {
		return err
	}
	_, next, err := game.Restart(d.match, tiles)
	if err != nil {
		return err
	}
	d.match = next
	d.elapsed = 0
	d.result = nil
	d.timers.Cancel(TimerMismatch)
	d.timers.Schedule(TimerClock, d.clockTick)
	d.publishView()
	return nil
}

func (d *LocalDriver) handleTimer(ctx context.Context, key TimerKey) {
	switch key {
	case TimerMismatch:
		_, next, err := game.ResolveMismatch(d.match)
		if err != nil {
			log.Debug("Nothing to resolve: %v", err)
			return
		}
		d.match = next
		d.publishView()
	case TimerClock:
		if d.match.Phase != types.PhasePlaying {
			return
		}
		d.elapsed += d.clockTick
		d.timers.Schedule(TimerClock, d.clockTick)
		d.publishView()
	}
}

// settle runs accounting for the game that just finished.
func (d *LocalDriver) settle(ctx context.Context) {
	result := accounting.Settle(d.mode, types.SideA, d.player.ID, d.match, int(d.elapsed/time.Second))
	d.result = &result
	if d.recorder == nil || d.player.ID == "" {
		return
	}
	if err := d.recorder.Record(ctx, result); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Failed to record %s result: %v", d.mode, err)
	}
}

func (d *LocalDriver) publishView() {
	d.publish(View{
		Mode:    d.mode,
		Side:    d.match.Turn,
		Match:   d.match,
		Elapsed: d.elapsed,
		Result:  d.result,
	})
}

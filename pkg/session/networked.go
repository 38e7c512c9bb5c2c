package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/poojachaurasiya603/psmemorygame/pkg/accounting"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game/constants"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
	"github.com/poojachaurasiya603/psmemorygame/pkg/log"
	"github.com/poojachaurasiya603/psmemorygame/pkg/rooms"
	"github.com/poojachaurasiya603/psmemorygame/pkg/state"
)

var _ Driver = &NetworkedDriver{}

// NetworkedDriver plays one side of an online room. Every snapshot from the
// store replaces the local view; every local transition is written back as a
// full document by the client that caused it. The host seeds and restarts the
// board, and the client that revealed a mismatch also resolves it.
type NetworkedDriver struct {
	actor

	store          state.Store
	rooms          *rooms.Manager
	code           string
	player         types.Player
	generator      *game.BoardGenerator
	recorder       accounting.Recorder
	revealDelay    time.Duration
	clockTick      time.Duration
	abandonTimeout time.Duration
	now            func() time.Time

	doc       *types.RoomDocument
	side      types.Side
	elapsed   time.Duration
	result    *accounting.Result
	abandonAt time.Time
}

type NewNetworkedDriverOptions struct {
	Store state.Store
	// Rooms is used by the host to close the room. Defaults to a manager over Store.
	Rooms     *rooms.Manager
	Code      string
	Player    types.Player
	Generator *game.BoardGenerator
	// Recorder receives this player's result of every finished game. Optional.
	Recorder       accounting.Recorder
	RevealDelay    time.Duration
	ClockTick      time.Duration
	AbandonTimeout time.Duration
}

func NewNetworkedDriver(opts NewNetworkedDriverOptions) (*NetworkedDriver, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("networked driver needs a store")
	}
	if opts.Player.ID == "" {
		return nil, fmt.Errorf("networked driver needs a player id")
	}
	code, err := rooms.NormalizeCode(opts.Code)
	if err != nil {
		return nil, err
	}

	d := &NetworkedDriver{
		actor:          newActor(),
		store:          opts.Store,
		rooms:          opts.Rooms,
		code:           code,
		player:         opts.Player,
		generator:      opts.Generator,
		recorder:       opts.Recorder,
		revealDelay:    opts.RevealDelay,
		clockTick:      opts.ClockTick,
		abandonTimeout: opts.AbandonTimeout,
		now:            time.Now,
	}
	if d.rooms == nil {
		d.rooms = rooms.NewManager(rooms.NewManagerOptions{Store: opts.Store})
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
	if d.abandonTimeout <= 0 {
		d.abandonTimeout = constants.AbandonTimeout
	}
	return d, nil
}

// Run subscribes to the room and plays until the room closes, the player
// leaves, the subscription fails or ctx is cancelled. It returns nil after
// Leave, ErrRoomClosed when the room was closed or abandoned, and
// ErrDisconnected when the store stopped delivering snapshots.
func (d *NetworkedDriver) Run(ctx context.Context) error {
	defer d.shutdown()

	sub, err := d.store.Subscribe(ctx, d.code)
	if err != nil {
		d.publish(View{Mode: types.ModeOnline, Disconnected: true})
		return fmt.Errorf("%w: %v", ErrDisconnected, err)
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-sub.Snapshots():
			if !ok {
				snap.Err = errors.New("subscription ended")
			}
			if snap.Err != nil {
				log.Error("Room %s subscription failed: %v", d.code, snap.Err)
				d.publishView(func(v *View) { v.Disconnected = true })
				return fmt.Errorf("%w: %v", ErrDisconnected, snap.Err)
			}
			if err := d.observe(ctx, snap.Doc); err != nil {
				return err
			}
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
			if err := d.handleTimer(ctx, fire.Key); err != nil {
				return err
			}
		}
	}
}

// observe applies a snapshot from the store. Snapshots older than the current
// view are skipped; everything else replaces it.
func (d *NetworkedDriver) observe(ctx context.Context, doc *types.RoomDocument) error {
	if doc == nil || doc.Status == types.RoomStatusClosed {
		log.Info("Room %s closed", d.code)
		if doc != nil {
			d.doc = doc
		}
		d.publishView(func(v *View) { v.Closed = true })
		return ErrRoomClosed
	}
	if d.doc != nil && doc.Version < d.doc.Version {
		log.Trace("Skipping stale snapshot v%d of room %s (have v%d)", doc.Version, d.code, d.doc.Version)
		return nil
	}
	// a new board is the only way back to an earlier phase
	if d.doc != nil && len(doc.Tiles) > 0 && slices.Equal(d.doc.Tiles, doc.Tiles) {
		have := game.PhaseFromStatus(d.doc.Status)
		if got := game.PhaseFromStatus(doc.Status); got.Precedes(have) {
			log.Warn("Ignoring room %s moving back from %s to %s (v%d)", d.code, have, got, doc.Version)
			return nil
		}
	}

	if d.side == "" {
		room := game.RoomFromDocument(d.code, doc)
		side, ok := room.SideOf(d.player.ID)
		if !ok {
			d.publishView(func(v *View) { v.Closed = true })
			return fmt.Errorf("%w: %s in room %s", ErrNotMember, d.player.ID, d.code)
		}
		d.side = side
	}

	d.transition(ctx, doc)

	// host-authoritative board generation
	if d.side == types.SideA && doc.Status == types.RoomStatusPlaying && len(doc.Tiles) == 0 {
		if err := d.seed(ctx); err != nil {
			log.Error("Failed to seed room %s: %v", d.code, err)
		}
	}
	return nil
}

// transition installs next as the current document and runs the side effects
// of the phase change, once per change.
func (d *NetworkedDriver) transition(ctx context.Context, next *types.RoomDocument) {
	prev := d.doc
	d.doc = next

	prevPlaying := prev != nil && prev.Status == types.RoomStatusPlaying
	nowPlaying := next.Status == types.RoomStatusPlaying && len(next.Tiles) > 0
	newBoard := nowPlaying && (prev == nil || !slices.Equal(prev.Tiles, next.Tiles))

	if newBoard && prevPlaying && d.result == nil && next.Previous != nil && next.Round == prev.Round+1 {
		// the finished snapshot of the last round was never delivered
		d.settle(ctx, types.MatchState{ScoreA: next.Previous.ScoreA, ScoreB: next.Previous.ScoreB})
	}
	if newBoard {
		d.elapsed = 0
		d.result = nil
		d.timers.Schedule(TimerClock, d.clockTick)
	}
	if nowPlaying {
		d.abandonAt = time.Time{}
		d.timers.Cancel(TimerAbandon)
	}
	if next.Status == types.RoomStatusFinished {
		d.timers.Cancel(TimerClock)
		d.timers.Cancel(TimerMismatch)
		if prevPlaying {
			d.settle(ctx, game.RoomFromDocument(d.code, next).Match)
		}
		if !d.timers.Pending(TimerAbandon) {
			d.abandonAt = d.now().Add(d.abandonTimeout)
			d.timers.Schedule(TimerAbandon, d.abandonTimeout)
		}
	}
	if !next.Resolving {
		d.timers.Cancel(TimerMismatch)
	}

	d.publishView(nil)
}

func (d *NetworkedDriver) handleCommand(ctx context.Context, cmd command) error {
	switch cmd.kind {
	case cmdFlip:
		return d.flip(ctx, cmd.tile)
	case cmdRestart:
		return d.restart(ctx)
	case cmdLeave:
		d.leave(ctx)
		return nil
	default:
		return fmt.Errorf("unknown command %d", cmd.kind)
	}
}

// flip validates against the latest snapshot, not against anything speculative.
func (d *NetworkedDriver) flip(ctx context.Context, tileID int) error {
	if d.doc == nil {
		return fmt.Errorf("%w: room not loaded", game.ErrIllegalFlip)
	}
	match := game.RoomFromDocument(d.code, d.doc).Match
	events, next, err := game.Flip(match, tileID, d.side)
	if err != nil {
		log.Trace("Ignoring flip of tile %d in room %s: %v", tileID, d.code, err)
		return err
	}

	if err := d.commit(ctx, next); err != nil {
		return err
	}
	if game.ContainsEvent(events, game.EvtPairMismatched) {
		d.timers.Schedule(TimerMismatch, d.revealDelay)
	}
	return nil
}

// commit writes the document carrying next as this client's transition.
func (d *NetworkedDriver) commit(ctx context.Context, next types.MatchState) error {
	doc := d.doc.Copy()
	game.ApplyMatch(doc, next)
	return d.write(ctx, doc)
}

// write commits doc as the successor of the current version. A version
// conflict drops it and reloads the room; any other write failure keeps the
// optimistic local state.
func (d *NetworkedDriver) write(ctx context.Context, doc *types.RoomDocument) error {
	doc.UpdatedBy = d.player.ID

	err := state.WriteNext(ctx, d.store, d.code, doc)
	switch {
	case err == nil:
		d.transition(ctx, doc)
		return nil
	case errors.Is(err, state.ErrVersionConflict):
		log.Warn("Room %s changed under transition, reloading: %v", d.code, err)
		d.reload(ctx)
		return err
	default:
		log.Error("Failed to write room %s: %v", d.code, err)
		d.transition(ctx, doc)
		return nil
	}
}

func (d *NetworkedDriver) reload(ctx context.Context) {
	latest, err := d.store.Read(ctx, d.code)
	if err != nil {
		log.Error("Failed to reload room %s: %v", d.code, err)
		return
	}
	if latest.Version >= d.doc.Version && latest.Status != types.RoomStatusClosed {
		d.transition(ctx, latest)
	}
}

func (d *NetworkedDriver) seed(ctx context.Context) error {
	tiles, err := d.generator.GenerateFor(d.doc.Difficulty)
	if err != nil {
		return err
	}
	log.Info("Seeding room %s with %d tiles", d.code, len(tiles))
	return d.commit(ctx, game.NewMatch(types.ModeOnline, d.doc.Difficulty, tiles))
}

func (d *NetworkedDriver) restart(ctx context.Context) error {
	if d.side != types.SideA {
		return ErrNotOwner
	}
	if d.doc == nil || len(d.doc.Tiles) == 0 {
		return game.ErrCannotRestart
	}
	tiles, err := d.generator.GenerateFor(d.doc.Difficulty)
	if err != nil {
		return err
	}
	match := game.RoomFromDocument(d.code, d.doc).Match
	_, next, err := game.Restart(match, tiles)
	if err != nil {
		return err
	}
	log.Info("Restarting room %s", d.code)
	doc := d.doc.Copy()
	game.ApplyMatch(doc, next)
	doc.Round++
	doc.Previous = &types.GameSummary{ScoreA: match.ScoreA, ScoreB: match.ScoreB}
	return d.write(ctx, doc)
}

func (d *NetworkedDriver) handleTimer(ctx context.Context, key TimerKey) error {
	switch key {
	case TimerMismatch:
		if d.doc == nil || !d.doc.Resolving {
			return nil
		}
		match := game.RoomFromDocument(d.code, d.doc).Match
		_, next, err := game.ResolveMismatch(match)
		if err != nil {
			log.Debug("Nothing to resolve in room %s: %v", d.code, err)
			return nil
		}
		if err := d.commit(ctx, next); err != nil {
			log.Warn("Mismatch resolution in room %s was dropped: %v", d.code, err)
		}
	case TimerClock:
		if d.doc == nil || d.doc.Status != types.RoomStatusPlaying {
			return nil
		}
		d.elapsed += d.clockTick
		d.timers.Schedule(TimerClock, d.clockTick)
		d.publishView(nil)
	case TimerAbandon:
		if d.doc == nil || d.doc.Status != types.RoomStatusFinished {
			return nil
		}
		log.Info("Room %s idle for %s after game over, leaving", d.code, d.abandonTimeout)
		d.leave(ctx)
		d.publishView(func(v *View) { v.Closed = true })
		return ErrRoomClosed
	}
	return nil
}

// leave closes the room when the host leaves. A guest just detaches.
func (d *NetworkedDriver) leave(ctx context.Context) {
	d.timers.Stop()
	if d.side != types.SideA {
		return
	}
	if err := d.rooms.CloseRoom(ctx, d.code, d.player.ID); err != nil {
		log.Error("Failed to close room %s: %v", d.code, err)
	}
}

// settle accounts match, the final state of a game, once per game.
func (d *NetworkedDriver) settle(ctx context.Context, match types.MatchState) {
	if d.result != nil {
		return
	}
	result := accounting.Settle(types.ModeOnline, d.side, d.player.ID, match, int(d.elapsed/time.Second))
	d.result = &result
	if d.recorder == nil {
		return
	}
	if err := d.recorder.Record(ctx, result); err != nil {
		log.Error("Failed to record result in room %s: %v", d.code, err)
	}
}

func (d *NetworkedDriver) publishView(mutate func(v *View)) {
	v := View{
		Mode:      types.ModeOnline,
		Side:      d.side,
		Elapsed:   d.elapsed,
		Result:    d.result,
		AbandonAt: d.abandonAt,
	}
	if d.doc != nil {
		v.Room = game.RoomFromDocument(d.code, d.doc)
		v.Match = v.Room.Match
	}
	if mutate != nil {
		mutate(&v)
	}
	d.publish(v)
}

// Package session drives matches in real time. LocalDriver runs single-player
// and same-device games; NetworkedDriver keeps an online room in sync through
// the shared state store. Both are single-goroutine actors around the pure
// engine in pkg/game.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/poojachaurasiya603/psmemorygame/pkg/accounting"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
)

var (
	ErrDisconnected = errors.New("lost connection to room")
	ErrRoomClosed   = errors.New("room closed")
	ErrStopped      = errors.New("session stopped")
	ErrNotMember    = errors.New("player is not a member of the room")
	ErrNotOwner     = errors.New("only the session owner can restart")
)

// Driver is the surface the CLI plays through.
type Driver interface {
	// Run processes commands, snapshots and timers until the session ends.
	Run(ctx context.Context) error
	Flip(ctx context.Context, tileID int) error
	Restart(ctx context.Context) error
	Leave(ctx context.Context) error
	Updates() <-chan View
}

// View is what a client renders. Match is a private copy.
type View struct {
	Mode  types.Mode
	Side  types.Side
	Match types.MatchState
	// Elapsed is the play clock of the current game.
	Elapsed time.Duration
	// Room is set for online sessions.
	Room *types.Room
	// Result is set once the current game has been accounted.
	Result *accounting.Result
	// AbandonAt is when an idle finished room will be left.
	AbandonAt    time.Time
	Closed       bool
	Disconnected bool
}

// Waiting reports whether an online session is still waiting for its guest or
// for the host to seed the board.
func (v View) Waiting() bool {
	if v.Room == nil {
		return false
	}
	return v.Match.Phase == types.PhaseWaiting || (v.Match.Phase == types.PhasePlaying && !v.Room.Seeded())
}

type commandKind int

const (
	cmdFlip commandKind = iota
	cmdRestart
	cmdLeave
)

type command struct {
	kind  commandKind
	tile  int
	reply chan error
}

// actor is the inbox, timers and update stream shared by both drivers. Only the
// Run goroutine touches driver state.
type actor struct {
	inbox   chan command
	done    chan struct{}
	updates chan View
	timers  *Timers
}

func newActor() actor {
	return actor{
		inbox:   make(chan command, 16),
		done:    make(chan struct{}),
		updates: make(chan View, 1),
		timers:  NewTimers(),
	}
}

func (a *actor) Updates() <-chan View {
	return a.updates
}

// Done is closed when Run has returned.
func (a *actor) Done() <-chan struct{} {
	return a.done
}

func (a *actor) Flip(ctx context.Context, tileID int) error {
	return a.send(ctx, command{kind: cmdFlip, tile: tileID})
}

func (a *actor) Restart(ctx context.Context) error {
	return a.send(ctx, command{kind: cmdRestart})
}

func (a *actor) Leave(ctx context.Context) error {
	err := a.send(ctx, command{kind: cmdLeave})
	if errors.Is(err, ErrStopped) {
		return nil
	}
	return err
}

// send hands cmd to the Run goroutine and waits for it to be processed.
func (a *actor) send(ctx context.Context, cmd command) error {
	cmd.reply = make(chan error, 1)
	select {
	case a.inbox <- cmd:
	case <-a.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-a.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// publish replaces any unread view with v.
func (a *actor) publish(v View) {
	v.Match = v.Match.Copy()
	select {
	case <-a.updates:
	default:
	}
	a.updates <- v
}

// shutdown must run exactly once, from Run.
func (a *actor) shutdown() {
	a.timers.Stop()
	close(a.done)
	close(a.updates)
}

// Package rooms manages the lifecycle of online rooms in the shared store:
// creation under a fresh code, a single guest joining, and the host closing it.
package rooms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/poojachaurasiya603/psmemorygame/pkg/game"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game/constants"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
	"github.com/poojachaurasiya603/psmemorygame/pkg/log"
	"github.com/poojachaurasiya603/psmemorygame/pkg/state"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomNotJoinable = errors.New("room is not joinable")
	ErrNotHost         = errors.New("only the host can do that")
	ErrInvalidRoomCode = errors.New("invalid room code")
	ErrNoFreeCode      = errors.New("no free room code")
)

// writeRetries bounds re-reads after a version conflict.
const writeRetries = 3

type Manager struct {
	store        state.Store
	generateCode func() (string, error)
	now          func() time.Time
}

type NewManagerOptions struct {
	Store state.Store
	// GenerateCode defaults to GenerateCode.
	GenerateCode func() (string, error)
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewManager(opts NewManagerOptions) *Manager {
	m := &Manager{
		store:        opts.Store,
		generateCode: opts.GenerateCode,
		now:          opts.Now,
	}
	if m.generateCode == nil {
		m.generateCode = GenerateCode
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// CreateRoom persists a waiting room owned by host and returns its code.
func (m *Manager) CreateRoom(ctx context.Context, host types.Player, difficulty types.Difficulty) (string, error) {
	if difficulty.PairCount() == 0 {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidDifficulty, difficulty)
	}
	if host.ID == "" {
		return "", fmt.Errorf("host has no id")
	}

	room := &types.Room{
		HostID:     host.ID,
		HostName:   host.Name,
		Difficulty: difficulty,
		Match: types.MatchState{
			Mode:       types.ModeOnline,
			Difficulty: difficulty,
			Turn:       types.SideA,
			Phase:      types.PhaseWaiting,
		},
		UpdatedBy: host.ID,
		CreatedAt: m.now().UTC(),
	}
	doc := game.DocumentFromRoom(room)

	for attempt := 0; attempt < constants.RoomCodeMaxRetries; attempt++ {
		code, err := m.generateCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate room code: %w", err)
		}
		_, created, err := m.store.CreateOrGet(ctx, code, doc)
		if err != nil {
			return "", fmt.Errorf("failed to create room: %w", err)
		}
		if created {
			log.Info("Created room %s for host %s (%s)", code, host.ID, difficulty)
			return code, nil
		}
		log.Debug("Room code %s is taken, retrying", code)
	}
	return "", ErrNoFreeCode
}

// JoinRoom attaches guest to a waiting room and moves it to playing. The board
// is left empty for the host to seed.
func (m *Manager) JoinRoom(ctx context.Context, code string, guest types.Player) (*types.Room, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}
	if guest.ID == "" {
		return nil, fmt.Errorf("guest has no id")
	}

	for attempt := 0; ; attempt++ {
		doc, err := m.read(ctx, code)
		if err != nil {
			return nil, err
		}
		if doc.Status != types.RoomStatusWaiting || doc.GuestID != "" {
			return nil, fmt.Errorf("%w: room %s is %s", ErrRoomNotJoinable, code, doc.Status)
		}
		if doc.HostID == guest.ID {
			return nil, fmt.Errorf("%w: host cannot join own room", ErrRoomNotJoinable)
		}

		doc.GuestID = guest.ID
		doc.GuestName = guest.Name
		doc.Status = types.RoomStatusPlaying
		doc.Tiles = nil
		doc.UpdatedBy = guest.ID

		err = state.WriteNext(ctx, m.store, code, doc)
		if errors.Is(err, state.ErrVersionConflict) && attempt < writeRetries {
			continue
		}
		if errors.Is(err, state.ErrVersionConflict) {
			return nil, fmt.Errorf("%w: room %s is contended", ErrRoomNotJoinable, code)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to join room: %w", err)
		}
		log.Info("Player %s joined room %s", guest.ID, code)
		return game.RoomFromDocument(code, doc), nil
	}
}

// CloseRoom marks the room closed. Attached clients leave once they observe it.
func (m *Manager) CloseRoom(ctx context.Context, code string, actorID string) error {
	code, err := NormalizeCode(code)
	if err != nil {
		return err
	}

	for attempt := 0; ; attempt++ {
		doc, err := m.read(ctx, code)
		if err != nil {
			return err
		}
		if doc.HostID != actorID {
			return ErrNotHost
		}
		if doc.Status == types.RoomStatusClosed {
			return nil
		}

		doc.Status = types.RoomStatusClosed
		doc.Resolving = false
		doc.UpdatedBy = actorID

		err = state.WriteNext(ctx, m.store, code, doc)
		if errors.Is(err, state.ErrVersionConflict) && attempt < writeRetries {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to close room: %w", err)
		}
		log.Info("Closed room %s", code)
		return nil
	}
}

func (m *Manager) GetRoom(ctx context.Context, code string) (*types.Room, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}
	doc, err := m.read(ctx, code)
	if err != nil {
		return nil, err
	}
	return game.RoomFromDocument(code, doc), nil
}

func (m *Manager) read(ctx context.Context, code string) (*types.RoomDocument, error) {
	doc, err := m.store.Read(ctx, code)
	if errors.Is(err, state.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read room %s: %w", code, err)
	}
	return doc, nil
}

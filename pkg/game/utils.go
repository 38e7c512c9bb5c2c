package game

import (
	"github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
)

// StatusFromPhase maps a match phase onto the room status carried on the wire.
func StatusFromPhase(phase types.Phase) types.RoomStatus {
	switch phase {
	case types.PhasePlaying:
		return types.RoomStatusPlaying
	case types.PhaseFinished:
		return types.RoomStatusFinished
	case types.PhaseAbandoned:
		return types.RoomStatusClosed
	default:
		return types.RoomStatusWaiting
	}
}

// PhaseFromStatus is the inverse of StatusFromPhase. Unknown statuses read as closed.
func PhaseFromStatus(status types.RoomStatus) types.Phase {
	switch status {
	case types.RoomStatusWaiting:
		return types.PhaseWaiting
	case types.RoomStatusPlaying:
		return types.PhasePlaying
	case types.RoomStatusFinished:
		return types.PhaseFinished
	default:
		return types.PhaseAbandoned
	}
}

func DocumentFromRoom(room *types.Room) *types.RoomDocument {
	m := room.Match.Copy()
	turn := m.Turn
	if turn == "" {
		turn = types.SideA
	}
	return &types.RoomDocument{
		HostID:     room.HostID,
		GuestID:    room.GuestID,
		HostName:   room.HostName,
		GuestName:  room.GuestName,
		Difficulty: room.Difficulty,
		Status:     StatusFromPhase(m.Phase),
		Tiles:      m.Tiles,
		Flipped:    m.Flipped,
		Matched:    m.Matched,
		Mismatched: m.Mismatched,
		ScoreA:     m.ScoreA,
		ScoreB:     m.ScoreB,
		Turn:       turn,
		Resolving:  m.Resolving,
		Version:    room.Version,
		UpdatedBy:  room.UpdatedBy,
		CreatedAt:  room.CreatedAt,
	}
}

func RoomFromDocument(code string, doc *types.RoomDocument) *types.Room {
	d := doc.Copy()
	turn := d.Turn
	if turn != types.SideB {
		turn = types.SideA
	}
	return &types.Room{
		Code:       code,
		HostID:     d.HostID,
		GuestID:    d.GuestID,
		HostName:   d.HostName,
		GuestName:  d.GuestName,
		Difficulty: d.Difficulty,
		Match: types.MatchState{
			Mode:       types.ModeOnline,
			Difficulty: d.Difficulty,
			Tiles:      d.Tiles,
			Flipped:    d.Flipped,
			Matched:    d.Matched,
			Mismatched: d.Mismatched,
			ScoreA:     d.ScoreA,
			ScoreB:     d.ScoreB,
			Turn:       turn,
			Resolving:  d.Resolving,
			Phase:      PhaseFromStatus(d.Status),
		},
		Version:   d.Version,
		UpdatedBy: d.UpdatedBy,
		CreatedAt: d.CreatedAt,
	}
}

// ApplyMatch copies the match fields of m onto doc, leaving the room identity untouched.
func ApplyMatch(doc *types.RoomDocument, m types.MatchState) {
	m = m.Copy()
	doc.Status = StatusFromPhase(m.Phase)
	doc.Tiles = m.Tiles
	doc.Flipped = m.Flipped
	doc.Matched = m.Matched
	doc.Mismatched = m.Mismatched
	doc.ScoreA = m.ScoreA
	doc.ScoreB = m.ScoreB
	doc.Turn = m.Turn
	doc.Resolving = m.Resolving
}

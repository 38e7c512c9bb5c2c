package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/poojachaurasiya603/psmemorygame/pkg/game"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
	"github.com/poojachaurasiya603/psmemorygame/pkg/session"
)

// renderer prints views and keeps the single-player best score current.
type renderer struct {
	w    io.Writer
	best int
}

func (r *renderer) render(v session.View) {
	if v.Mode == types.ModeSingle && v.Result != nil && v.Result.Score > r.best {
		r.best = v.Result.Score
	}
	renderView(r.w, v, r.best)
}

func renderView(w io.Writer, v session.View, best int) {
	switch {
	case v.Disconnected:
		fmt.Fprintln(w, "Disconnected from room")
		return
	case v.Closed:
		fmt.Fprintln(w, "Room closed")
		return
	case v.Waiting():
		fmt.Fprintf(w, "Room %s: waiting for players\n", v.Room.Code)
		return
	}

	fmt.Fprint(w, renderBoard(v.Match))
	fmt.Fprintln(w, renderStatus(v, best))
}

// renderBoard lays tiles out in rows of the difficulty's width. Face-down tiles
// show their id.
func renderBoard(m types.MatchState) string {
	var b strings.Builder
	columns := m.Difficulty.Columns()
	for i, tile := range m.Tiles {
		switch {
		case m.IsMatched(tile.ID):
			fmt.Fprintf(&b, " %s ", tile.Icon)
		case m.IsFlipped(tile.ID), m.IsMismatched(tile.ID):
			fmt.Fprintf(&b, "[%s]", tile.Icon)
		default:
			fmt.Fprintf(&b, " %2d ", tile.ID)
		}
		if (i+1)%columns == 0 {
			b.WriteString("\n")
		}
	}
	if len(m.Tiles)%columns != 0 {
		b.WriteString("\n")
	}
	return b.String()
}

// sideName is the display name of the player on side.
func sideName(v session.View, side types.Side) string {
	if v.Room != nil {
		name := v.Room.HostName
		if side == types.SideB {
			name = v.Room.GuestName
		}
		if name != "" {
			return name
		}
	}
	return fmt.Sprintf("Player %s", side)
}

func renderStatus(v session.View, best int) string {
	m := v.Match
	elapsed := v.Elapsed.Truncate(time.Second)
	switch m.Phase {
	case types.PhaseFinished:
		if v.Mode == types.ModeSingle {
			score := m.ScoreA
			if v.Result != nil {
				score = v.Result.Score
			}
			return fmt.Sprintf("Solved in %s, score %d, best %d. Type restart or quit.", elapsed, score, best)
		}
		winner, tie := game.Winner(m)
		if tie {
			return fmt.Sprintf("Tie at %d. Type restart or quit.", m.ScoreA)
		}
		return fmt.Sprintf("%s wins %d to %d. Type restart or quit.", sideName(v, winner), m.Score(winner), m.Score(winner.Other()))
	case types.PhasePlaying:
		if v.Mode == types.ModeSingle {
			return fmt.Sprintf("%s | score %d | best %d | %d/%d pairs", elapsed, m.ScoreA, best, len(m.Matched)/2, m.PairCount())
		}
		turn := fmt.Sprintf("%s to flip", sideName(v, m.Turn))
		if v.Mode == types.ModeOnline && m.Turn == v.Side {
			turn = "your turn"
		}
		return fmt.Sprintf("%s | %s %d - %s %d | %s", elapsed, sideName(v, types.SideA), m.ScoreA, sideName(v, types.SideB), m.ScoreB, turn)
	default:
		return string(m.Phase)
	}
}

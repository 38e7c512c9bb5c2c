package main

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/poojachaurasiya603/psmemorygame/pkg/accounting"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
	"github.com/poojachaurasiya603/psmemorygame/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line    string
		want    userCommand
		wantErr bool
	}{
		{line: "", want: userCommand{kind: commandNone}},
		{line: "flip 3", want: userCommand{kind: commandFlip, tile: 3}},
		{line: "  12 ", want: userCommand{kind: commandFlip, tile: 12}},
		{line: "F 0", want: userCommand{kind: commandFlip, tile: 0}},
		{line: "restart", want: userCommand{kind: commandRestart}},
		{line: "Q", want: userCommand{kind: commandQuit}},
		{line: "flip", wantErr: true},
		{line: "dance", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseCommand(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderBoard(t *testing.T) {
	m := types.NewMatchState(types.ModeSingle, types.Difficulty4x4, []types.Tile{
		{ID: 0, Icon: "🐶"}, {ID: 1, Icon: "🐱"}, {ID: 2, Icon: "🐶"}, {ID: 3, Icon: "🐱"},
	})
	m.Matched = []int{0, 2}
	m.Flipped = []int{1}

	assert.Equal(t, " 🐶 [🐱] 🐶   3 \n", renderBoard(m))
}

func TestRenderView(t *testing.T) {
	m := types.NewMatchState(types.ModeLocal, types.Difficulty4x4, []types.Tile{{ID: 0, Icon: "🐶"}, {ID: 1, Icon: "🐶"}})
	m.ScoreB = 10
	m.Turn = types.SideB

	var buf bytes.Buffer
	r := &renderer{w: &buf}
	r.render(session.View{Mode: types.ModeLocal, Match: m, Elapsed: 1500 * time.Millisecond})
	assert.Contains(t, buf.String(), "1s | Player A 0 - Player B 10 | Player B to flip")

	buf.Reset()
	r.render(session.View{Closed: true})
	assert.Equal(t, "Room closed\n", buf.String())
}

func TestRenderStatus_OnlineNames(t *testing.T) {
	m := types.NewMatchState(types.ModeOnline, types.Difficulty4x4, []types.Tile{{ID: 0, Icon: "🐶"}, {ID: 1, Icon: "🐶"}})
	room := &types.Room{Code: "ABC123", HostName: "Ada", GuestName: "Grace", Match: m}
	v := session.View{Mode: types.ModeOnline, Side: types.SideB, Match: m, Room: room}

	assert.Equal(t, "0s | Ada 0 - Grace 0 | Ada to flip", renderStatus(v, 0))

	v.Match.Turn = types.SideB
	assert.Contains(t, renderStatus(v, 0), "your turn")

	v.Match.Phase = types.PhaseFinished
	v.Match.Matched = []int{0, 1}
	v.Match.ScoreB = 10
	assert.Equal(t, "Grace wins 10 to 0. Type restart or quit.", renderStatus(v, 0))
}

func TestRenderer_TracksBest(t *testing.T) {
	m := types.NewMatchState(types.ModeSingle, types.Difficulty4x4, []types.Tile{{ID: 0, Icon: "🐶"}, {ID: 1, Icon: "🐶"}})
	m.Phase = types.PhaseFinished
	m.Matched = []int{0, 1}
	m.ScoreA = 10

	var buf bytes.Buffer
	r := &renderer{w: &buf, best: 50}
	r.render(session.View{Mode: types.ModeSingle, Match: m, Result: &accounting.Result{Score: 30}})
	assert.Contains(t, buf.String(), "score 30, best 50")

	buf.Reset()
	r.render(session.View{Mode: types.ModeSingle, Match: m, Result: &accounting.Result{Score: 70}})
	assert.Contains(t, buf.String(), "score 70, best 70")
	assert.Equal(t, 70, r.best)
}

func TestRejection(t *testing.T) {
	_, ok := rejection(nil)
	assert.False(t, ok)

	_, ok = rejection(fmt.Errorf("flip: %w", game.ErrWrongTurn))
	assert.False(t, ok, "illegal flips are ignored silently")

	msg, ok := rejection(session.ErrNotOwner)
	assert.True(t, ok)
	assert.Equal(t, "Rejected: only the session owner can restart", msg)
}

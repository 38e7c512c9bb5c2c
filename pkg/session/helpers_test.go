package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/poojachaurasiya603/psmemorygame/pkg/accounting"
	"github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

// waitFor reads views until one satisfies pred.
func waitFor(t *testing.T, updates <-chan View, pred func(View) bool) View {
	t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case v, ok := <-updates:
			require.True(t, ok, "updates closed before the expected view")
			if pred(v) {
				return v
			}
		case <-deadline:
			t.Fatal("timed out waiting for view")
			return View{}
		}
	}
}

// pairs returns the tile id pairs of a board, and two ids from the last two
// pairs that do not match.
func pairs(tiles []types.Tile) (matching [][2]int, mismatch [2]int) {
	byIcon := make(map[string][]int)
	for _, tile := range tiles {
		byIcon[tile.Icon] = append(byIcon[tile.Icon], tile.ID)
	}
	for _, tile := range tiles {
		ids := byIcon[tile.Icon]
		if ids[0] == tile.ID {
			matching = append(matching, [2]int{ids[0], ids[1]})
		}
	}
	a := matching[len(matching)-1]
	b := matching[len(matching)-2]
	return matching, [2]int{a[0], b[0]}
}

type runResult struct {
	err error
}

func run(ctx context.Context, d Driver) <-chan runResult {
	out := make(chan runResult, 1)
	go func() {
		out <- runResult{err: d.Run(ctx)}
	}()
	return out
}

func waitExit(t *testing.T, exited <-chan runResult) error {
	t.Helper()
	select {
	case r := <-exited:
		return r.err
	case <-time.After(waitTimeout):
		t.Fatal("driver did not exit")
		return nil
	}
}

// captureRecorder collects recorded results.
type captureRecorder struct {
	lock    sync.Mutex
	results []accounting.Result
}

func (r *captureRecorder) Record(ctx context.Context, result accounting.Result) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.results = append(r.results, result)
	return nil
}

func (r *captureRecorder) Results() []accounting.Result {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]accounting.Result(nil), r.results...)
}

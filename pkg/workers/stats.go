package workers

import (
	"context"
	"errors"
	"time"

	"github.com/poojachaurasiya603/psmemorygame/pkg/accounting"
	"github.com/poojachaurasiya603/psmemorygame/pkg/log"
	"github.com/poojachaurasiya603/psmemorygame/pkg/queue"
)

var ErrQueueFull = errors.New("stats queue is full")

var _ accounting.Recorder = &StatsWorker{}

// StatsWorker records match results off the game loop.
type StatsWorker struct {
	recorder accounting.Recorder
	queue    queue.Queue[accounting.Result]
	interval time.Duration
	flushed  chan struct{}
}

type NewStatsWorkerOptions struct {
	// Recorder performs the writes, normally an *accounting.Accountant.
	Recorder accounting.Recorder
	Queue    queue.Queue[accounting.Result]
	Interval time.Duration
}

// NewStatsWorker creates a new StatsWorker.
// Drivers enqueue results through Record and the worker periodically drains
// the queue into the recorder.
func NewStatsWorker(opts NewStatsWorkerOptions) *StatsWorker {
	q := opts.Queue
	if q == nil {
		q = queue.NewInMemoryQueue[accounting.Result]()
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Second
	}
	return &StatsWorker{
		recorder: opts.Recorder,
		queue:    q,
		interval: interval,
		flushed:  make(chan struct{}),
	}
}

// Record enqueues result. It never blocks on the repository.
func (w *StatsWorker) Record(ctx context.Context, result accounting.Result) error {
	if result.PlayerID == "" {
		return accounting.ErrNoPlayer
	}
	if !w.queue.Enqueue(result) {
		return ErrQueueFull
	}
	return nil
}

// Start drains the queue every interval until ctx is cancelled, then flushes
// whatever is still pending. It blocks, so callers run it in a goroutine.
func (w *StatsWorker) Start(ctx context.Context) {
	defer close(w.flushed)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// the parent context is gone; the final flush gets its own deadline
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			w.drain(flushCtx)
			cancel()
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// Flushed is closed once Start has returned after its final drain.
func (w *StatsWorker) Flushed() <-chan struct{} {
	return w.flushed
}

func (w *StatsWorker) drain(ctx context.Context) {
	for _, result := range w.queue.ReadAllMessages() {
		if err := w.recorder.Record(ctx, result); err != nil {
			log.Error("Failed to record stats for player %s: %v", result.PlayerID, err)
		}
	}
}

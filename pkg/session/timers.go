package session

import (
	"sync"
	"time"
)

type TimerKey string

const (
	TimerMismatch TimerKey = "mismatch"
	TimerClock    TimerKey = "clock"
	TimerAbandon  TimerKey = "abandon"
)

// Fire is delivered on Timers.C when a scheduled timer expires.
type Fire struct {
	Key TimerKey
	Gen uint64
}

// Timers owns the scheduled tasks of one driver. Each key holds at most one
// pending timer; rescheduling or cancelling a key bumps its generation so a
// fire that was already in flight is rejected by Accept.
type Timers struct {
	lock     sync.Mutex
	timers   map[TimerKey]*time.Timer
	gens     map[TimerKey]uint64
	fires    chan Fire
	done     chan struct{}
	stopOnce sync.Once
}

func NewTimers() *Timers {
	return &Timers{
		timers: make(map[TimerKey]*time.Timer),
		gens:   make(map[TimerKey]uint64),
		fires:  make(chan Fire, 8),
		done:   make(chan struct{}),
	}
}

// C delivers expired timers. Receivers must check Accept before acting.
func (t *Timers) C() <-chan Fire {
	return t.fires
}

// Schedule arms key to fire after d, replacing any pending timer for key.
func (t *Timers) Schedule(key TimerKey, d time.Duration) {
	t.lock.Lock()
	defer t.lock.Unlock()
	select {
	case <-t.done:
		return
	default:
	}

	if old, ok := t.timers[key]; ok {
		old.Stop()
	}
	t.gens[key]++
	fire := Fire{Key: key, Gen: t.gens[key]}
	t.timers[key] = time.AfterFunc(d, func() {
		select {
		case t.fires <- fire:
		case <-t.done:
		}
	})
}

func (t *Timers) Cancel(key TimerKey) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if old, ok := t.timers[key]; ok {
		old.Stop()
		delete(t.timers, key)
	}
	t.gens[key]++
}

// Pending reports whether key is armed and not yet accepted.
func (t *Timers) Pending(key TimerKey) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	_, ok := t.timers[key]
	return ok
}

// Accept reports whether f is the current fire for its key and consumes it.
func (t *Timers) Accept(f Fire) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	if _, ok := t.timers[f.Key]; !ok || t.gens[f.Key] != f.Gen {
		return false
	}
	delete(t.timers, f.Key)
	return true
}

// Stop cancels every timer. Timers cannot be scheduled afterwards.
func (t *Timers) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
		t.lock.Lock()
		defer t.lock.Unlock()
		for key, timer := range t.timers {
			timer.Stop()
			delete(t.timers, key)
			t.gens[key]++
		}
	})
}

package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	gametypes "github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
)

var (
	ErrNotFound        = errors.New("room document not found")
	ErrVersionConflict = errors.New("room document version conflict")
	ErrClosed          = errors.New("store is closed")
)

// Store is the shared document store both clients of a room synchronize through.
// Implementations must be thread-safe and must never share document memory with callers.
type Store interface {
	// CreateOrGet stores doc under key if the key is free. It returns the stored
	// document and whether this call created it.
	CreateOrGet(ctx context.Context, key string, doc *gametypes.RoomDocument) (*gametypes.RoomDocument, bool, error)
	// Read returns the current document or ErrNotFound.
	Read(ctx context.Context, key string) (*gametypes.RoomDocument, error)
	// Write replaces the whole document.
	Write(ctx context.Context, key string, doc *gametypes.RoomDocument) error
	// Subscribe streams full snapshots of key, starting with the current one.
	Subscribe(ctx context.Context, key string) (*Subscription, error)
	Close() error
}

// VersionedStore is implemented by stores that can reject a write when the
// stored document moved past the version the writer last saw.
type VersionedStore interface {
	Store
	WriteIfVersion(ctx context.Context, key string, expected int64, doc *gametypes.RoomDocument) error
}

// WriteNext commits doc as the successor of the version it carries. The version
// is bumped in place. Stores without conditional writes fall back to a plain
// last-writer-wins Write.
func WriteNext(ctx context.Context, store Store, key string, doc *gametypes.RoomDocument) error {
	expected := doc.Version
	doc.Version = expected + 1
	if vs, ok := store.(VersionedStore); ok {
		if err := vs.WriteIfVersion(ctx, key, expected, doc); err != nil {
			doc.Version = expected
			return err
		}
		return nil
	}
	if err := store.Write(ctx, key, doc); err != nil {
		doc.Version = expected
		return err
	}
	return nil
}

// Snapshot is one delivery of a subscription. Doc is nil when the document does
// not exist; Err is set when the subscription failed and no more snapshots follow.
type Snapshot struct {
	Doc *gametypes.RoomDocument
	Err error
}

// Subscription delivers snapshots of a single key. Only the latest undelivered
// snapshot is kept: a slow reader skips intermediate versions but always sees
// the newest one.
type Subscription struct {
	ch        chan Snapshot
	done      chan struct{}
	closeOnce sync.Once
	lock      sync.Mutex
	cancel    func()
}

func newSubscription(cancel func()) *Subscription {
	return &Subscription{
		ch:     make(chan Snapshot, 1),
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

// Snapshots returns the delivery channel. It is closed after Unsubscribe or
// after a snapshot carrying an error.
func (s *Subscription) Snapshots() <-chan Snapshot {
	return s.ch
}

// Done is closed once the subscription has been released.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Unsubscribe releases the subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	s.release()
}

func (s *Subscription) release() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.cancel != nil {
			s.cancel()
		}
		s.lock.Lock()
		defer s.lock.Unlock()
		close(s.ch)
	})
}

// deliver replaces any pending snapshot with snap. It reports false once the
// subscription has been released.
func (s *Subscription) deliver(snap Snapshot) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case <-s.ch:
	default:
	}
	s.ch <- snap
	return true
}

// fail delivers a terminal error snapshot and releases the subscription. The
// error is still readable from the closed channel.
func (s *Subscription) fail(err error) {
	s.deliver(Snapshot{Err: fmt.Errorf("subscription failed: %w", err)})
	s.release()
}

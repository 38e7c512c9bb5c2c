package state

import (
	"context"
	"fmt"
	"sync"

	gametypes "github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
)

// InMemoryStore keeps room documents in process memory. Both clients of a room
// must share the same instance.
type InMemoryStore struct {
	lock        sync.RWMutex
	docs        map[string]*gametypes.RoomDocument
	subscribers map[string]map[*Subscription]struct{}
	closed      bool
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		docs:        make(map[string]*gametypes.RoomDocument),
		subscribers: make(map[string]map[*Subscription]struct{}),
	}
}

func (m *InMemoryStore) CreateOrGet(ctx context.Context, key string, doc *gametypes.RoomDocument) (*gametypes.RoomDocument, bool, error) {
	if doc == nil {
		return nil, false, fmt.Errorf("room document is nil")
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.closed {
		return nil, false, ErrClosed
	}

	if existing, ok := m.docs[key]; ok {
		return existing.Copy(), false, nil
	}
	m.docs[key] = doc.Copy()
	m.publish(key)
	return doc.Copy(), true, nil
}

func (m *InMemoryStore) Read(ctx context.Context, key string) (*gametypes.RoomDocument, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	doc, ok := m.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return doc.Copy(), nil
}

func (m *InMemoryStore) Write(ctx context.Context, key string, doc *gametypes.RoomDocument) error {
	if doc == nil {
		return fmt.Errorf("room document is nil")
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.closed {
		return ErrClosed
	}

	m.docs[key] = doc.Copy()
	m.publish(key)
	return nil
}

func (m *InMemoryStore) WriteIfVersion(ctx context.Context, key string, expected int64, doc *gametypes.RoomDocument) error {
	if doc == nil {
		return fmt.Errorf("room document is nil")
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.closed {
		return ErrClosed
	}

	current, ok := m.docs[key]
	if !ok {
		return ErrNotFound
	}
	if current.Version != expected {
		return fmt.Errorf("%w: have %d, expected %d", ErrVersionConflict, current.Version, expected)
	}
	m.docs[key] = doc.Copy()
	m.publish(key)
	return nil
}

func (m *InMemoryStore) Subscribe(ctx context.Context, key string) (*Subscription, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	var sub *Subscription
	sub = newSubscription(func() {
		m.lock.Lock()
		defer m.lock.Unlock()
		delete(m.subscribers[key], sub)
		if len(m.subscribers[key]) == 0 {
			delete(m.subscribers, key)
		}
	})
	if m.subscribers[key] == nil {
		m.subscribers[key] = make(map[*Subscription]struct{})
	}
	m.subscribers[key][sub] = struct{}{}
	sub.deliver(Snapshot{Doc: m.current(key)})

	go func() {
		select {
		case <-ctx.Done():
			sub.Unsubscribe()
		case <-sub.Done():
		}
	}()
	return sub, nil
}

// Close releases every subscription. The store rejects all calls afterwards.
func (m *InMemoryStore) Close() error {
	m.lock.Lock()
	if m.closed {
		m.lock.Unlock()
		return nil
	}
	m.closed = true
	var subs []*Subscription
	for _, set := range m.subscribers {
		for sub := range set {
			subs = append(subs, sub)
		}
	}
	m.lock.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
	return nil
}

// publish must be called with the write lock held.
func (m *InMemoryStore) publish(key string) {
	doc := m.current(key)
	for sub := range m.subscribers[key] {
		sub.deliver(Snapshot{Doc: doc.Copy()})
	}
}

func (m *InMemoryStore) current(key string) *gametypes.RoomDocument {
	doc, ok := m.docs[key]
	if !ok {
		return nil
	}
	return doc.Copy()
}

package state

import (
	"context"
	"testing"
	"time"

	gametypes "github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitingDoc() *gametypes.RoomDocument {
	return &gametypes.RoomDocument{
		HostID:     "host",
		HostName:   "Host",
		Difficulty: gametypes.Difficulty4x4,
		Status:     gametypes.RoomStatusWaiting,
		Flipped:    []int{},
		Matched:    []int{},
		Mismatched: []int{},
		Turn:       gametypes.SideA,
	}
}

func receive(t *testing.T, sub *Subscription) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-sub.Snapshots():
		require.True(t, ok, "subscription closed")
		return snap
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestInMemoryStore_CreateOrGet(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	got, created, err := store.CreateOrGet(ctx, "ABC123", waitingDoc())
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "host", got.HostID)

	other := waitingDoc()
	other.HostID = "intruder"
	got, created, err = store.CreateOrGet(ctx, "ABC123", other)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "host", got.HostID)
}

func TestInMemoryStore_ReadReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	_, err := store.Read(ctx, "NOPE00")
	assert.ErrorIs(t, err, ErrNotFound)

	doc := waitingDoc()
	require.NoError(t, store.Write(ctx, "ABC123", doc))
	doc.Matched = append(doc.Matched, 1)

	got, err := store.Read(ctx, "ABC123")
	require.NoError(t, err)
	assert.Empty(t, got.Matched)

	got.Flipped = append(got.Flipped, 3)
	again, err := store.Read(ctx, "ABC123")
	require.NoError(t, err)
	assert.Empty(t, again.Flipped)
}

func TestInMemoryStore_WriteIfVersion(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	_, _, err := store.CreateOrGet(ctx, "ABC123", waitingDoc())
	require.NoError(t, err)

	first, err := store.Read(ctx, "ABC123")
	require.NoError(t, err)
	second, err := store.Read(ctx, "ABC123")
	require.NoError(t, err)

	first.GuestID = "guest-1"
	require.NoError(t, WriteNext(ctx, store, "ABC123", first))
	assert.Equal(t, int64(1), first.Version)

	second.GuestID = "guest-2"
	err = WriteNext(ctx, store, "ABC123", second)
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.Equal(t, int64(0), second.Version, "version restored after a failed write")

	got, err := store.Read(ctx, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, "guest-1", got.GuestID)

	err = store.WriteIfVersion(ctx, "NOPE00", 0, waitingDoc())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStore_Subscribe(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	sub, err := store.Subscribe(ctx, "ABC123")
	require.NoError(t, err)
	defer sub.Unsubscribe()

	snap := receive(t, sub)
	assert.NoError(t, snap.Err)
	assert.Nil(t, snap.Doc, "absent document is a nil snapshot")

	_, _, err = store.CreateOrGet(ctx, "ABC123", waitingDoc())
	require.NoError(t, err)
	snap = receive(t, sub)
	require.NotNil(t, snap.Doc)
	assert.Equal(t, gametypes.RoomStatusWaiting, snap.Doc.Status)
}

func TestInMemoryStore_SubscribeLatestWins(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	_, _, err := store.CreateOrGet(ctx, "ABC123", waitingDoc())
	require.NoError(t, err)

	sub, err := store.Subscribe(ctx, "ABC123")
	require.NoError(t, err)
	defer sub.Unsubscribe()

	// nobody reads while three writes land
	for i := 0; i < 3; i++ {
		doc, err := store.Read(ctx, "ABC123")
		require.NoError(t, err)
		require.NoError(t, WriteNext(ctx, store, "ABC123", doc))
	}

	snap := receive(t, sub)
	require.NotNil(t, snap.Doc)
	assert.Equal(t, int64(3), snap.Doc.Version)
	select {
	case <-sub.Snapshots():
		t.Fatal("stale snapshot was buffered")
	default:
	}
}

func TestInMemoryStore_Unsubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := NewInMemoryStore()

	sub, err := store.Subscribe(ctx, "ABC123")
	require.NoError(t, err)
	receive(t, sub)

	cancel()
	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("context cancellation did not release the subscription")
	}
	_, ok := <-sub.Snapshots()
	assert.False(t, ok)
	sub.Unsubscribe()

	// writes after release must not block or panic
	require.NoError(t, store.Write(context.Background(), "ABC123", waitingDoc()))
	store.lock.RLock()
	assert.Empty(t, store.subscribers)
	store.lock.RUnlock()
}

func TestInMemoryStore_Close(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	sub, err := store.Subscribe(ctx, "ABC123")
	require.NoError(t, err)

	require.NoError(t, store.Close())
	<-sub.Done()

	_, err = store.Read(ctx, "ABC123")
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, store.Close())
}

func TestSubscription_Fail(t *testing.T) {
	sub := newSubscription(nil)
	sub.fail(assert.AnError)

	snap, ok := <-sub.Snapshots()
	require.True(t, ok)
	assert.ErrorIs(t, snap.Err, assert.AnError)
	_, ok = <-sub.Snapshots()
	assert.False(t, ok)
	assert.False(t, sub.deliver(Snapshot{}))
}

func TestDocumentCodec(t *testing.T) {
	doc := waitingDoc()
	doc.Tiles = []gametypes.Tile{{ID: 0, Icon: "🐶"}, {ID: 1, Icon: "🐶"}}
	doc.Version = 7

	data, err := EncodeDocument(doc)
	require.NoError(t, err)
	got, err := DecodeDocument(data)
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	_, err = DecodeDocument([]byte("not zstd"))
	assert.Error(t, err)
}

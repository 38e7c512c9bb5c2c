package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	gametypes "github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func assertNoSnapshot(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case snap := <-sub.Snapshots():
		t.Fatalf("unexpected snapshot %+v", snap)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRedisStore_CreateOrGet(t *testing.T) {
	ctx := context.Background()
	store := newTestRedisStore(t)

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

func TestRedisStore_WriteIfVersion(t *testing.T) {
	ctx := context.Background()
	store := newTestRedisStore(t)

	_, err := store.Read(ctx, "NOPE00")
	assert.ErrorIs(t, err, ErrNotFound)
	err = store.WriteIfVersion(ctx, "NOPE00", 0, waitingDoc())
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = store.CreateOrGet(ctx, "ABC123", waitingDoc())
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
	assert.Equal(t, int64(1), got.Version)
}

func TestRedisStore_Subscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store := newTestRedisStore(t)

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

	doc, err := store.Read(ctx, "ABC123")
	require.NoError(t, err)
	doc.Status = gametypes.RoomStatusPlaying
	require.NoError(t, WriteNext(ctx, store, "ABC123", doc))
	snap = receive(t, sub)
	require.NotNil(t, snap.Doc)
	assert.Equal(t, int64(1), snap.Doc.Version)
	assert.Equal(t, gametypes.RoomStatusPlaying, snap.Doc.Status)

	cancel()
	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("context cancellation did not release the subscription")
	}
}

func TestRedisStore_SubscribeStartsWithCurrent(t *testing.T) {
	ctx := context.Background()
	store := newTestRedisStore(t)
	_, _, err := store.CreateOrGet(ctx, "ABC123", waitingDoc())
	require.NoError(t, err)

	sub, err := store.Subscribe(ctx, "ABC123")
	require.NoError(t, err)
	defer sub.Unsubscribe()

	snap := receive(t, sub)
	require.NotNil(t, snap.Doc)
	assert.Equal(t, "host", snap.Doc.HostID)
}

func TestWatchError(t *testing.T) {
	assert.NoError(t, watchError("ABC123", nil))
	assert.ErrorIs(t, watchError("ABC123", redis.TxFailedErr), ErrVersionConflict)
	assert.ErrorIs(t, watchError("ABC123", ErrNotFound), ErrNotFound)

	err := watchError("ABC123", errors.New("connection reset"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrVersionConflict)
}

func encodedMessage(t *testing.T, version int64) *redis.Message {
	t.Helper()
	doc := waitingDoc()
	doc.Version = version
	data, err := EncodeDocument(doc)
	require.NoError(t, err)
	return &redis.Message{Channel: snapshotChannel("ABC123"), Payload: string(data)}
}

func TestPumpSnapshots_SkipsStaleVersions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messages := make(chan interface{}, 4)
	sub := newSubscription(nil)
	go pumpSnapshots(ctx, "ABC123", sub, messages, 3, nil)

	messages <- encodedMessage(t, 2)
	assertNoSnapshot(t, sub)

	messages <- &redis.Message{Payload: "garbage"}
	messages <- encodedMessage(t, 4)
	snap := receive(t, sub)
	require.NotNil(t, snap.Doc)
	assert.Equal(t, int64(4), snap.Doc.Version)

	cancel()
	<-sub.Done()
}

func TestPumpSnapshots_ClosedChannelFails(t *testing.T) {
	messages := make(chan interface{})
	sub := newSubscription(nil)
	go pumpSnapshots(context.Background(), "ABC123", sub, messages, -1, nil)

	close(messages)
	snap := receive(t, sub)
	assert.Error(t, snap.Err)
	assert.Nil(t, snap.Doc)
	<-sub.Done()
}

func TestPumpSnapshots_ResubscribeReadsAgain(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	messages := make(chan interface{}, 4)
	sub := newSubscription(nil)

	reads := make(chan struct{}, 4)
	reread := func(ctx context.Context) (*gametypes.RoomDocument, error) {
		reads <- struct{}{}
		doc := waitingDoc()
		doc.Version = 7
		return doc, nil
	}
	go pumpSnapshots(ctx, "ABC123", sub, messages, 3, reread)

	messages <- &redis.Subscription{Kind: "unsubscribe", Channel: snapshotChannel("ABC123")}
	assertNoSnapshot(t, sub)
	assert.Len(t, reads, 0)

	messages <- &redis.Subscription{Kind: "subscribe", Channel: snapshotChannel("ABC123"), Count: 1}
	snap := receive(t, sub)
	require.NotNil(t, snap.Doc)
	assert.Equal(t, int64(7), snap.Doc.Version)
	assert.Len(t, reads, 1)

	// anything older than the re-read is stale
	messages <- encodedMessage(t, 5)
	assertNoSnapshot(t, sub)
}

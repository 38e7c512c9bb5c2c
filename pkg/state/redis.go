package state

import (
	"context"
	"errors"
	"fmt"

	gametypes "github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
	"github.com/poojachaurasiya603/psmemorygame/pkg/log"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "rooms:"

// RedisStore keeps room documents in Redis and fans snapshots out over pub/sub.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to a redis:// or rediss:// URL.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %v", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func docKey(key string) string { return redisKeyPrefix + key }

func snapshotChannel(key string) string { return redisKeyPrefix + key + ":snapshots" }

func (s *RedisStore) CreateOrGet(ctx context.Context, key string, doc *gametypes.RoomDocument) (*gametypes.RoomDocument, bool, error) {
	data, err := EncodeDocument(doc)
	if err != nil {
		return nil, false, err
	}
	created, err := s.rdb.SetNX(ctx, docKey(key), data, 0).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to create room %s: %w", key, err)
	}
	if created {
		if err := s.rdb.Publish(ctx, snapshotChannel(key), data).Err(); err != nil {
			log.Warn("Failed to publish snapshot of room %s: %v", key, err)
		}
		return doc.Copy(), true, nil
	}
	existing, err := s.Read(ctx, key)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *RedisStore) Read(ctx context.Context, key string) (*gametypes.RoomDocument, error) {
	data, err := s.rdb.Get(ctx, docKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read room %s: %w", key, err)
	}
	return DecodeDocument(data)
}

func (s *RedisStore) Write(ctx context.Context, key string, doc *gametypes.RoomDocument) error {
	data, err := EncodeDocument(doc)
	if err != nil {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, docKey(key), data, 0)
		pipe.Publish(ctx, snapshotChannel(key), data)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write room %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) WriteIfVersion(ctx context.Context, key string, expected int64, doc *gametypes.RoomDocument) error {
	data, err := EncodeDocument(doc)
	if err != nil {
		return err
	}

	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, docKey(key)).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		current, err := DecodeDocument(raw)
		if err != nil {
			return err
		}
		if current.Version != expected {
			return fmt.Errorf("%w: have %d, expected %d", ErrVersionConflict, current.Version, expected)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, docKey(key), data, 0)
			pipe.Publish(ctx, snapshotChannel(key), data)
			return nil
		})
		return err
	}, docKey(key))

	return watchError(key, err)
}

// watchError maps the outcome of an optimistic transaction onto store errors.
func watchError(key string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr):
		return fmt.Errorf("%w: room %s changed during write", ErrVersionConflict, key)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrVersionConflict):
		return err
	default:
		return fmt.Errorf("failed to write room %s: %w", key, err)
	}
}

func (s *RedisStore) Subscribe(ctx context.Context, key string) (*Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)
	pubsub := s.rdb.Subscribe(subCtx, snapshotChannel(key))
	// wait for the subscription to be confirmed so no write after Read is missed
	if _, err := pubsub.Receive(subCtx); err != nil {
		cancel()
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to room %s: %w", key, err)
	}

	current, err := s.Read(subCtx, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		cancel()
		pubsub.Close()
		return nil, err
	}

	sub := newSubscription(func() {
		cancel()
		pubsub.Close()
	})
	sub.deliver(Snapshot{Doc: current})

	lastVersion := int64(-1)
	if current != nil {
		lastVersion = current.Version
	}
	reread := func(ctx context.Context) (*gametypes.RoomDocument, error) {
		return s.Read(ctx, key)
	}
	go pumpSnapshots(subCtx, key, sub, pubsub.ChannelWithSubscriptions(), lastVersion, reread)
	return sub, nil
}

// pumpSnapshots forwards pub/sub payloads to sub until messages closes or ctx
// ends. go-redis resubscribes by itself after a dropped connection; the
// confirmation it then delivers triggers a fresh read, since anything
// published while disconnected is gone.
func pumpSnapshots(ctx context.Context, key string, sub *Subscription, messages <-chan interface{}, lastVersion int64, reread func(context.Context) (*gametypes.RoomDocument, error)) {
	for {
		select {
		case <-ctx.Done():
			sub.Unsubscribe()
			return
		case msg, ok := <-messages:
			if !ok {
				select {
				case <-sub.Done():
				default:
					sub.fail(fmt.Errorf("redis channel for room %s closed", key))
				}
				return
			}

			var doc *gametypes.RoomDocument
			switch m := msg.(type) {
			case *redis.Subscription:
				if m.Kind != "subscribe" {
					continue
				}
				log.Info("Resubscribed to room %s, reading it again", key)
				current, err := reread(ctx)
				switch {
				case errors.Is(err, ErrNotFound):
				case err != nil:
					log.Error("Failed to read room %s after resubscribing: %v", key, err)
					continue
				default:
					doc = current
				}
			case *redis.Message:
				decoded, err := DecodeDocument([]byte(m.Payload))
				if err != nil {
					log.Error("Dropping undecodable snapshot of room %s: %v", key, err)
					continue
				}
				doc = decoded
			default:
				continue
			}

			if doc != nil {
				// pub/sub may still carry messages published before the last read
				if doc.Version < lastVersion {
					continue
				}
				lastVersion = doc.Version
			}
			if !sub.deliver(Snapshot{Doc: doc}) {
				return
			}
		}
	}
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

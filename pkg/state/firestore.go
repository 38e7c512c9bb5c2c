package state

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	gametypes "github.com/poojachaurasiya603/psmemorygame/pkg/game/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const roomsCollection = "rooms"

// FirestoreStore keeps room documents in the Firestore "rooms" collection.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(ctx context.Context, app *firebase.App) (*FirestoreStore, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Firestore client: %v", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) ref(key string) *firestore.DocumentRef {
	return s.client.Collection(roomsCollection).Doc(key)
}

func (s *FirestoreStore) CreateOrGet(ctx context.Context, key string, doc *gametypes.RoomDocument) (*gametypes.RoomDocument, bool, error) {
	_, err := s.ref(key).Create(ctx, doc)
	if err == nil {
		return doc.Copy(), true, nil
	}
	if status.Code(err) != codes.AlreadyExists {
		return nil, false, fmt.Errorf("failed to create room %s: %w", key, err)
	}
	existing, err := s.Read(ctx, key)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *FirestoreStore) Read(ctx context.Context, key string) (*gametypes.RoomDocument, error) {
	snap, err := s.ref(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read room %s: %w", key, err)
	}
	return documentFromSnapshot(snap)
}

func (s *FirestoreStore) Write(ctx context.Context, key string, doc *gametypes.RoomDocument) error {
	if _, err := s.ref(key).Set(ctx, doc); err != nil {
		return fmt.Errorf("failed to write room %s: %w", key, err)
	}
	return nil
}

func (s *FirestoreStore) WriteIfVersion(ctx context.Context, key string, expected int64, doc *gametypes.RoomDocument) error {
	ref := s.ref(key)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		current, err := documentFromSnapshot(snap)
		if err != nil {
			return err
		}
		if current.Version != expected {
			return fmt.Errorf("%w: have %d, expected %d", ErrVersionConflict, current.Version, expected)
		}
		return tx.Set(ref, doc)
	})
	if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrVersionConflict) {
		return err
	}
	return fmt.Errorf("failed to write room %s: %w", key, err)
}

func (s *FirestoreStore) Subscribe(ctx context.Context, key string) (*Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)
	it := s.ref(key).Snapshots(subCtx)
	sub := newSubscription(cancel)

	go func() {
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if subCtx.Err() != nil || status.Code(err) == codes.Canceled {
					sub.Unsubscribe()
					return
				}
				sub.fail(err)
				return
			}

			var doc *gametypes.RoomDocument
			if snap.Exists() {
				doc, err = documentFromSnapshot(snap)
				if err != nil {
					sub.fail(err)
					return
				}
			}
			if !sub.deliver(Snapshot{Doc: doc}) {
				return
			}
		}
	}()
	return sub, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func documentFromSnapshot(snap *firestore.DocumentSnapshot) (*gametypes.RoomDocument, error) {
	doc := &gametypes.RoomDocument{}
	if err := snap.DataTo(doc); err != nil {
		return nil, fmt.Errorf("failed to decode room %s: %v", snap.Ref.ID, err)
	}
	if doc.Flipped == nil {
		doc.Flipped = []int{}
	}
	if doc.Matched == nil {
		doc.Matched = []int{}
	}
	if doc.Mismatched == nil {
		doc.Mismatched = []int{}
	}
	return doc, nil
}

package repositories

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"github.com/poojachaurasiya603/psmemorygame/pkg/repositories/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

// FirestoreRepository stores stats as fields of users/<playerID> documents.
type FirestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(ctx context.Context, app *firebase.App) (Repository, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Firestore client: %v", err)
	}
	return &FirestoreRepository{client: client}, nil
}

func (r *FirestoreRepository) Close(ctx context.Context) error {
	return r.client.Close()
}

func (r *FirestoreRepository) Increment(ctx context.Context, playerID string, field StatField, delta int64) error {
	if _, err := column(field); err != nil {
		return err
	}
	_, err := r.client.Collection(usersCollection).Doc(playerID).Set(ctx, map[string]interface{}{
		string(field): firestore.Increment(delta),
		"updatedAt":   firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to increment %s: %v", field, err)
	}
	return nil
}

func (r *FirestoreRepository) SetIfGreater(ctx context.Context, playerID string, field StatField, value int64) error {
	if _, err := column(field); err != nil {
		return err
	}
	ref := r.client.Collection(usersCollection).Doc(playerID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}
		if snap != nil && snap.Exists() {
			if current, err := snap.DataAt(string(field)); err == nil {
				if n, ok := current.(int64); ok && n >= value {
					return nil
				}
			}
		}
		return tx.Set(ref, map[string]interface{}{
			string(field): value,
			"updatedAt":   time.Now().UTC(),
		}, firestore.MergeAll)
	})
	if err != nil {
		return fmt.Errorf("failed to set %s: %v", field, err)
	}
	return nil
}

func (r *FirestoreRepository) GetStats(ctx context.Context, playerID string) (*models.PlayerStats, error) {
	snap, err := r.client.Collection(usersCollection).Doc(playerID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, &ErrNotFound{}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player stats: %v", err)
	}
	stats := &models.PlayerStats{}
	if err := snap.DataTo(stats); err != nil {
		return nil, fmt.Errorf("failed to decode player stats: %v", err)
	}
	stats.PlayerID = playerID
	return stats, nil
}

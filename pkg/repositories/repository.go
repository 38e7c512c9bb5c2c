package repositories

import (
	"context"

	"github.com/poojachaurasiya603/psmemorygame/pkg/repositories/models"
)

// Repository persists per-player game statistics.
type Repository interface {
	Close(ctx context.Context) error
	// Increment adds delta to field, creating the player's record if needed.
	Increment(ctx context.Context, playerID string, field StatField, delta int64) error
	// SetIfGreater stores value in field only if it exceeds the current value.
	SetIfGreater(ctx context.Context, playerID string, field StatField, value int64) error
	GetStats(ctx context.Context, playerID string) (*models.PlayerStats, error)
}

package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/poojachaurasiya603/psmemorygame/pkg/repositories/models"
)

// InMemoryRepository keeps stats for the lifetime of the process.
type InMemoryRepository struct {
	lock  sync.RWMutex
	stats map[string]*models.PlayerStats
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		stats: make(map[string]*models.PlayerStats),
	}
}

func (r *InMemoryRepository) Close(ctx context.Context) error {
	return nil
}

func (r *InMemoryRepository) Increment(ctx context.Context, playerID string, field StatField, delta int64) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	p, err := r.counter(playerID, field)
	if err != nil {
		return err
	}
	*p += delta
	return nil
}

func (r *InMemoryRepository) SetIfGreater(ctx context.Context, playerID string, field StatField, value int64) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	p, err := r.counter(playerID, field)
	if err != nil {
		return err
	}
	if value > *p {
		*p = value
	}
	return nil
}

func (r *InMemoryRepository) GetStats(ctx context.Context, playerID string) (*models.PlayerStats, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	stats, ok := r.stats[playerID]
	if !ok {
		return nil, &ErrNotFound{}
	}
	c := *stats
	return &c, nil
}

// counter must be called with the write lock held.
func (r *InMemoryRepository) counter(playerID string, field StatField) (*int64, error) {
	if _, err := column(field); err != nil {
		return nil, err
	}
	stats, ok := r.stats[playerID]
	if !ok {
		stats = &models.PlayerStats{PlayerID: playerID}
		r.stats[playerID] = stats
	}
	stats.UpdatedAt = time.Now().UTC()
	switch field {
	case FieldBestScore:
		return &stats.BestScore, nil
	case FieldTotalScore:
		return &stats.TotalScore, nil
	case FieldTotalGames:
		return &stats.TotalGames, nil
	default:
		return &stats.Wins, nil
	}
}

package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/poojachaurasiya603/psmemorygame/pkg/repositories/models"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string, migrations string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	dir, err := os.ReadDir(migrations)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to read migrations directory: %v", err)
	}

	for _, entry := range dir {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}

		migrationPath := filepath.Join(migrations, entry.Name())
		migration, err := os.ReadFile(migrationPath)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to read migration %s: %v", migrationPath, err)
		}

		if _, err := db.ExecContext(ctx, string(migration)); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute migration %s: %v", migrationPath, err)
		}
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) Increment(ctx context.Context, playerID string, field StatField, delta int64) error {
	col, err := column(field)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(`
	INSERT INTO player_stats (player_id, %[1]s, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(player_id) DO UPDATE SET %[1]s = %[1]s + excluded.%[1]s, updated_at = excluded.updated_at;
	`, col)
	if _, err := r.db.ExecContext(ctx, q, playerID, delta, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to increment %s: %v", field, err)
	}
	return nil
}

func (r *SQLiteRepository) SetIfGreater(ctx context.Context, playerID string, field StatField, value int64) error {
	col, err := column(field)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(`
	INSERT INTO player_stats (player_id, %[1]s, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(player_id) DO UPDATE SET %[1]s = MAX(%[1]s, excluded.%[1]s), updated_at = excluded.updated_at;
	`, col)
	if _, err := r.db.ExecContext(ctx, q, playerID, value, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to set %s: %v", field, err)
	}
	return nil
}

func (r *SQLiteRepository) GetStats(ctx context.Context, playerID string) (*models.PlayerStats, error) {
	q := `
	SELECT best_score, total_score, total_games, wins, updated_at FROM player_stats WHERE player_id = ?;
	`
	stats := &models.PlayerStats{PlayerID: playerID}
	var updatedAt int64
	err := r.db.QueryRowContext(ctx, q, playerID).Scan(&stats.BestScore, &stats.TotalScore, &stats.TotalGames, &stats.Wins, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan player stats: %v", err)
	}
	stats.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return stats, nil
}

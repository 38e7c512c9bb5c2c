package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/poojachaurasiya603/psmemorygame/pkg/log"
	"github.com/poojachaurasiya603/psmemorygame/pkg/repositories/models"
)

// PostgresRepository is not safe for concurrent use; the stats worker is its only caller.
type PostgresRepository struct {
	conn *pgx.Conn
}

// NewPostgresRepository creates a new PostgresRepository.
// The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string) (Repository, error) {
	conn, err := connectDb(ctx, connStr)
	if err != nil {
		return nil, err
	}
	return &PostgresRepository{
		conn: conn,
	}, nil
}

func connectDb(ctx context.Context, connStr string) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	var username string
	var database string
	err = conn.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("unable to query database: %v", err)
	}

	log.Info("Connected to %s as %s", database, username)

	return conn, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) Increment(ctx context.Context, playerID string, field StatField, delta int64) error {
	col, err := column(field)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(`
	INSERT INTO player_stats (player_id, %[1]s, updated_at) VALUES ($1, $2, $3)
	ON CONFLICT (player_id) DO UPDATE SET %[1]s = player_stats.%[1]s + EXCLUDED.%[1]s, updated_at = EXCLUDED.updated_at;
	`, col)
	if _, err := r.conn.Exec(ctx, q, playerID, delta, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to increment %s: %v", field, err)
	}
	return nil
}

func (r *PostgresRepository) SetIfGreater(ctx context.Context, playerID string, field StatField, value int64) error {
	col, err := column(field)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(`
	INSERT INTO player_stats (player_id, %[1]s, updated_at) VALUES ($1, $2, $3)
	ON CONFLICT (player_id) DO UPDATE SET %[1]s = GREATEST(player_stats.%[1]s, EXCLUDED.%[1]s), updated_at = EXCLUDED.updated_at;
	`, col)
	if _, err := r.conn.Exec(ctx, q, playerID, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to set %s: %v", field, err)
	}
	return nil
}

func (r *PostgresRepository) GetStats(ctx context.Context, playerID string) (*models.PlayerStats, error) {
	q := `
	SELECT best_score, total_score, total_games, wins, updated_at FROM player_stats WHERE player_id = $1;
	`
	stats := &models.PlayerStats{PlayerID: playerID}
	err := r.conn.QueryRow(ctx, q, playerID).Scan(&stats.BestScore, &stats.TotalScore, &stats.TotalGames, &stats.Wins, &stats.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan player stats: %v", err)
	}
	return stats, nil
}

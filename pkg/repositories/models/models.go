package models

import "time"

type PlayerStats struct {
	PlayerID   string    `json:"player_id" firestore:"-"`
	BestScore  int64     `json:"best_score" firestore:"bestScore"`
	TotalScore int64     `json:"total_score" firestore:"totalScore"`
	TotalGames int64     `json:"total_games" firestore:"totalGames"`
	Wins       int64     `json:"wins" firestore:"wins"`
	UpdatedAt  time.Time `json:"updated_at" firestore:"updatedAt"`
}

package repositories

import (
	"errors"
	"fmt"
)

type ErrNotFound struct {
}

func (e *ErrNotFound) Error() string {
	return "not found"
}

func IsNotFound(err error) bool {
	var notFound *ErrNotFound
	return errors.As(err, &notFound)
}

var ErrUnknownField = errors.New("unknown stats field")

// StatField names one of the persistent per-player counters.
type StatField string

const (
	FieldBestScore  StatField = "bestScore"
	FieldTotalScore StatField = "totalScore"
	FieldTotalGames StatField = "totalGames"
	FieldWins       StatField = "wins"
)

var fieldColumns = map[StatField]string{
	FieldBestScore:  "best_score",
	FieldTotalScore: "total_score",
	FieldTotalGames: "total_games",
	FieldWins:       "wins",
}

// column returns the SQL column backing field. Only whitelisted names are
// returned, so the result is safe to splice into a query.
func column(field StatField) (string, error) {
	c, ok := fieldColumns[field]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return c, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/quiz-bank-bot/internal/domain/entities"
	"github.com/aliskhannn/quiz-bank-bot/internal/infra/postgres"
)

// Transactor runs fn inside a database transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// ResultRepository stores graded quiz results and per-user aggregates.
type ResultRepository struct {
	db postgres.DBTX
	tr Transactor
}

func NewResultRepository(db postgres.DBTX, tr Transactor) *ResultRepository {
	return &ResultRepository{db: db, tr: tr}
}

// Append inserts the result and updates the user's aggregates in one
// transaction. It returns the ID of the inserted row.
func (r *ResultRepository) Append(ctx context.Context, result *entities.QuizResult) (int64, error) {
	var id int64

	err := r.tr.WithinTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		insert := `
			INSERT INTO quiz_results (
				user_id, session_id, total_questions, correct_answers,
				score_percentage, passed, time_spent_seconds, expired, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		`

		err := tx.QueryRow(ctx, insert,
			result.UserID,
			result.SessionID,
			result.Total,
			result.CorrectAnswers,
			result.ScorePercentage,
			result.Passed,
			int64(result.TimeSpent/time.Second),
			result.Expired,
			result.CreatedAt,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("insert result: %w", err)
		}

		update := `
			UPDATE users SET
				attempts = attempts + 1,
				passed = passed + CASE WHEN $2 THEN 1 ELSE 0 END,
				best_score = GREATEST(best_score, $3)
			WHERE id = $1
		`

		if _, err := tx.Exec(ctx, update, result.UserID, result.Passed, result.ScorePercentage); err != nil {
			return fmt.Errorf("update user stats: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// ListByUser returns up to limit results of the user, newest first.
func (r *ResultRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.QuizResult, error) {
	query := `
		SELECT id, user_id, session_id, total_questions, correct_answers,
		       score_percentage, passed, time_spent_seconds, expired, created_at
		FROM quiz_results
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []*entities.QuizResult
	for rows.Next() {
		var (
			res     entities.QuizResult
			seconds int64
		)
		if err := rows.Scan(
			&res.ID,
			&res.UserID,
			&res.SessionID,
			&res.Total,
			&res.CorrectAnswers,
			&res.ScorePercentage,
			&res.Passed,
			&seconds,
			&res.Expired,
			&res.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		res.TimeSpent = time.Duration(seconds) * time.Second
		results = append(results, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}

	return results, nil
}

// Stats returns the aggregates kept on the user row. A user without a row
// gets zero stats.
func (r *ResultRepository) Stats(ctx context.Context, userID int64) (*entities.UserStats, error) {
	query := `
		SELECT attempts, passed, best_score
		FROM users
		WHERE id = $1
	`

	var stats entities.UserStats
	err := r.db.QueryRow(ctx, query, userID).Scan(&stats.Attempts, &stats.Passed, &stats.BestScore)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entities.UserStats{}, nil
		}
		return nil, fmt.Errorf("get stats: %w", err)
	}

	return &stats, nil
}

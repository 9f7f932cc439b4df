package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const dbTimeout = 5 * time.Second

// PostgresStore is a PostgreSQL-backed Store implementation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed progress store.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema creates the progress table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS topic_progress (
			user_id            TEXT        NOT NULL,
			subject_key        TEXT        NOT NULL,
			topic              TEXT        NOT NULL,
			coaching_completed BOOLEAN     NOT NULL DEFAULT FALSE,
			practice_completed BOOLEAN     NOT NULL DEFAULT FALSE,
			exam_completed     BOOLEAN     NOT NULL DEFAULT FALSE,
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, subject_key, topic)
		)`)
	if err != nil {
		return fmt.Errorf("ensure progress schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, userID, subjectKey string) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx,
		`SELECT topic, coaching_completed, practice_completed, exam_completed, updated_at
		 FROM topic_progress
		 WHERE user_id = $1 AND subject_key = $2
		 ORDER BY topic ASC`,
		userID,
		subjectKey,
	)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(
			&rec.Topic,
			&rec.CoachingCompleted,
			&rec.PracticeCompleted,
			&rec.ExamCompleted,
			&rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan progress record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress records: %w", err)
	}

	return records, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, userID, subjectKey string, rec Record) error {
	if rec.Topic == "" {
		return fmt.Errorf("topic is required")
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO topic_progress
		   (user_id, subject_key, topic, coaching_completed, practice_completed, exam_completed, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW())
		 ON CONFLICT (user_id, subject_key, topic) DO UPDATE SET
		   coaching_completed = EXCLUDED.coaching_completed,
		   practice_completed = EXCLUDED.practice_completed,
		   exam_completed     = EXCLUDED.exam_completed,
		   updated_at         = NOW()`,
		userID,
		subjectKey,
		rec.Topic,
		rec.CoachingCompleted,
		rec.PracticeCompleted,
		rec.ExamCompleted,
	)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}

	return nil
}

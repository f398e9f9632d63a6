package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/NguyenDinhAn-2002/quiz-game-backend/internal"
)

// Store persists quiz definitions and finished-game results in Postgres.
// Questions are stored as a jsonb document per quiz; the orchestrator treats
// them as immutable.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS quizzes (
			id        TEXT PRIMARY KEY,
			title     TEXT NOT NULL DEFAULT '',
			questions JSONB NOT NULL
		);

		CREATE TABLE IF NOT EXISTS game_results (
			id        BIGSERIAL PRIMARY KEY,
			room_id   TEXT NOT NULL,
			quiz_id   TEXT NOT NULL,
			scores    JSONB NOT NULL,
			ended_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// AddQuiz inserts or replaces a quiz definition.
func (s *Store) AddQuiz(ctx context.Context, id, title string, questions []internal.Question) error {
	doc, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("encoding questions: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO quizzes (id, title, questions) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, questions = EXCLUDED.questions
	`, id, title, doc)
	if err != nil {
		return fmt.Errorf("upserting quiz %s: %w", id, err)
	}
	return nil
}

// GetQuiz loads a quiz's questions by id.
func (s *Store) GetQuiz(ctx context.Context, ref string) ([]internal.Question, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT questions FROM quizzes WHERE id = $1`, ref).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("quiz %q not found", ref)
	}
	if err != nil {
		return nil, fmt.Errorf("querying quiz %s: %w", ref, err)
	}

	var questions []internal.Question
	if err := json.Unmarshal(doc, &questions); err != nil {
		return nil, fmt.Errorf("decoding quiz %s: %w", ref, err)
	}
	return questions, nil
}

// SaveResults records the final standings of a finished game.
func (s *Store) SaveResults(ctx context.Context, roomID, quizRef string, scores []internal.FinalScore) error {
	doc, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("encoding scores: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO game_results (room_id, quiz_id, scores) VALUES ($1, $2, $3)
	`, roomID, quizRef, doc)
	if err != nil {
		return fmt.Errorf("inserting results for room %s: %w", roomID, err)
	}
	return nil
}

// Package store persists evaluation and training run history in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS evaluation_runs (
		id TEXT PRIMARY KEY,
		profile TEXT NOT NULL,
		task_count INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS model_accuracies (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		model TEXT NOT NULL,
		hits INTEGER NOT NULL,
		accuracy REAL NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (run_id) REFERENCES evaluation_runs(id)
	);

	CREATE TABLE IF NOT EXISTS training_runs (
		id TEXT PRIMARY KEY,
		eval_run_id TEXT,
		model TEXT NOT NULL,
		base_model TEXT NOT NULL,
		iterations INTEGER NOT NULL,
		example_count INTEGER NOT NULL,
		artifact_object TEXT,
		status TEXT DEFAULT 'running',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (eval_run_id) REFERENCES evaluation_runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_accuracies_run ON model_accuracies(run_id);
	CREATE INDEX IF NOT EXISTS idx_training_eval ON training_runs(eval_run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// EvaluationRun records one accuracy evaluation over a task batch.
type EvaluationRun struct {
	ID        string
	Profile   string
	TaskCount int
	CreatedAt time.Time
}

// ModelAccuracy is one model's score within an evaluation run.
type ModelAccuracy struct {
	RunID    string
	Model    string
	Hits     int
	Accuracy float64
}

// TrainingRun records one fine-tuning invocation triggered by the gate.
type TrainingRun struct {
	ID             string
	EvalRunID      string
	Model          string
	BaseModel      string
	Iterations     int
	ExampleCount   int
	ArtifactObject string
	Status         string
	CreatedAt      time.Time
}

// Stats summarises the run history.
type Stats struct {
	EvaluationRuns int
	TrainingRuns   int
	CompletedRuns  int
}

func (s *Store) SaveEvaluationRun(ctx context.Context, run EvaluationRun) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO evaluation_runs (id, profile, task_count, created_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Profile, run.TaskCount, run.CreatedAt)
	return err
}

func (s *Store) SaveModelAccuracy(ctx context.Context, runID, model string, hits int, accuracy float64) error {
	id := fmt.Sprintf("%s_%s", runID, model)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO model_accuracies (id, run_id, model, hits, accuracy) VALUES (?, ?, ?, ?, ?)`,
		id, runID, model, hits, accuracy)
	return err
}

func (s *Store) SaveTrainingRun(ctx context.Context, run TrainingRun) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO training_runs (id, eval_run_id, model, base_model, iterations, example_count, artifact_object, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.EvalRunID, run.Model, run.BaseModel, run.Iterations, run.ExampleCount, run.ArtifactObject, run.Status, run.CreatedAt)
	return err
}

// CompleteTrainingRun updates a training run's final status.
func (s *Store) CompleteTrainingRun(ctx context.Context, id, status string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE training_runs SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id)
	return err
}

// ListEvaluationRuns returns evaluation runs, most recent first.
func (s *Store) ListEvaluationRuns(ctx context.Context) ([]EvaluationRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, profile, task_count, created_at FROM evaluation_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []EvaluationRun
	for rows.Next() {
		var r EvaluationRun
		if err := rows.Scan(&r.ID, &r.Profile, &r.TaskCount, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListModelAccuracies returns the per-model scores of one evaluation run.
func (s *Store) ListModelAccuracies(ctx context.Context, runID string) ([]ModelAccuracy, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, model, hits, accuracy FROM model_accuracies WHERE run_id = ? ORDER BY model`,
		runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accs []ModelAccuracy
	for rows.Next() {
		var a ModelAccuracy
		if err := rows.Scan(&a.RunID, &a.Model, &a.Hits, &a.Accuracy); err != nil {
			return nil, err
		}
		accs = append(accs, a)
	}
	return accs, rows.Err()
}

// ListTrainingRuns returns training runs, most recent first.
func (s *Store) ListTrainingRuns(ctx context.Context) ([]TrainingRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, eval_run_id, model, base_model, iterations, example_count, artifact_object, status, created_at FROM training_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []TrainingRun
	for rows.Next() {
		var r TrainingRun
		if err := rows.Scan(&r.ID, &r.EvalRunID, &r.Model, &r.BaseModel, &r.Iterations, &r.ExampleCount, &r.ArtifactObject, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Stats returns summary statistics for the run history.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM evaluation_runs`).Scan(&stats.EvaluationRuns)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0)
		FROM training_runs`).Scan(&stats.TrainingRuns, &stats.CompletedRuns)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

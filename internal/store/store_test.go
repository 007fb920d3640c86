package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_New_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path/test.db")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestStore_SaveEvaluationRun(t *testing.T) {
	s := newTestStore(t)

	run := EvaluationRun{
		ID:        "run-1",
		Profile:   "train",
		TaskCount: 12,
		CreatedAt: time.Now(),
	}
	if err := s.SaveEvaluationRun(context.Background(), run); err != nil {
		t.Errorf("SaveEvaluationRun failed: %v", err)
	}
}

func TestStore_ListEvaluationRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, id := range []string{"run-1", "run-2"} {
		run := EvaluationRun{
			ID:        id,
			Profile:   "train",
			TaskCount: 10 + i,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}
		if err := s.SaveEvaluationRun(ctx, run); err != nil {
			t.Fatalf("SaveEvaluationRun failed: %v", err)
		}
	}

	runs, err := s.ListEvaluationRuns(ctx)
	if err != nil {
		t.Fatalf("ListEvaluationRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-2" {
		t.Errorf("expected most recent run first, got %s", runs[0].ID)
	}
}

func TestStore_ModelAccuracies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := EvaluationRun{ID: "run-1", Profile: "train", TaskCount: 10, CreatedAt: time.Now()}
	if err := s.SaveEvaluationRun(ctx, run); err != nil {
		t.Fatalf("SaveEvaluationRun failed: %v", err)
	}

	if err := s.SaveModelAccuracy(ctx, "run-1", "dummy", 5, 0.5); err != nil {
		t.Fatalf("SaveModelAccuracy failed: %v", err)
	}
	if err := s.SaveModelAccuracy(ctx, "run-1", "v2", 8, 0.8); err != nil {
		t.Fatalf("SaveModelAccuracy failed: %v", err)
	}

	accs, err := s.ListModelAccuracies(ctx, "run-1")
	if err != nil {
		t.Fatalf("ListModelAccuracies failed: %v", err)
	}
	if len(accs) != 2 {
		t.Fatalf("expected 2 accuracies, got %d", len(accs))
	}
	if accs[0].Model != "dummy" || accs[0].Hits != 5 || accs[0].Accuracy != 0.5 {
		t.Errorf("unexpected first accuracy: %+v", accs[0])
	}
}

func TestStore_TrainingRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := TrainingRun{
		ID:             "tr-1",
		EvalRunID:      "run-1",
		Model:          "dummy",
		BaseModel:      "en_core_web_sm",
		Iterations:     30,
		ExampleCount:   42,
		ArtifactObject: "spacy/models/dummy.bin",
		Status:         "running",
		CreatedAt:      time.Now(),
	}
	if err := s.SaveTrainingRun(ctx, run); err != nil {
		t.Fatalf("SaveTrainingRun failed: %v", err)
	}

	if err := s.CompleteTrainingRun(ctx, "tr-1", "completed"); err != nil {
		t.Fatalf("CompleteTrainingRun failed: %v", err)
	}

	runs, err := s.ListTrainingRuns(ctx)
	if err != nil {
		t.Fatalf("ListTrainingRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 training run, got %d", len(runs))
	}
	if runs[0].Status != "completed" {
		t.Errorf("expected status 'completed', got %q", runs[0].Status)
	}
	if runs[0].ExampleCount != 42 {
		t.Errorf("expected 42 examples, got %d", runs[0].ExampleCount)
	}
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveEvaluationRun(ctx, EvaluationRun{ID: "run-1", Profile: "train", TaskCount: 3, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("SaveEvaluationRun failed: %v", err)
	}
	if err := s.SaveTrainingRun(ctx, TrainingRun{ID: "tr-1", EvalRunID: "run-1", Model: "dummy", BaseModel: "en_core_web_sm", Iterations: 30, ExampleCount: 2, Status: "completed", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("SaveTrainingRun failed: %v", err)
	}
	if err := s.SaveTrainingRun(ctx, TrainingRun{ID: "tr-2", EvalRunID: "run-1", Model: "dummy", BaseModel: "en_core_web_sm", Iterations: 30, ExampleCount: 2, Status: "failed", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("SaveTrainingRun failed: %v", err)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.EvaluationRuns != 1 {
		t.Errorf("expected 1 evaluation run, got %d", stats.EvaluationRuns)
	}
	if stats.TrainingRuns != 2 {
		t.Errorf("expected 2 training runs, got %d", stats.TrainingRuns)
	}
	if stats.CompletedRuns != 1 {
		t.Errorf("expected 1 completed run, got %d", stats.CompletedRuns)
	}
}

package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExecute_RunsInOrder(t *testing.T) {
	var order []string
	steps := []Step{
		{Name: "first", Run: func(ctx context.Context) error { order = append(order, "first"); return nil }},
		{Name: "second", Run: func(ctx context.Context) error { order = append(order, "second"); return nil }},
		{Name: "third", Run: func(ctx context.Context) error { order = append(order, "third"); return nil }},
	}

	result := New(steps, Config{}).Execute(context.Background())

	if err := result.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Completed != 3 {
		t.Errorf("expected 3 completed steps, got %d", result.Completed)
	}
	if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "third" {
		t.Errorf("unexpected execution order: %v", order)
	}
}

func TestExecute_StopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	var thirdRan bool

	steps := []Step{
		{Name: "first", Run: func(ctx context.Context) error { return nil }},
		{Name: "second", Run: func(ctx context.Context) error { return boom }},
		{Name: "third", Run: func(ctx context.Context) error { thirdRan = true; return nil }},
	}

	result := New(steps, Config{}).Execute(context.Background())

	if thirdRan {
		t.Error("steps after a failure must not run")
	}
	if result.Completed != 1 {
		t.Errorf("expected 1 completed step, got %d", result.Completed)
	}
	err := result.Err()
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped boom error, got %v", err)
	}
}

func TestExecute_StepTimeout(t *testing.T) {
	steps := []Step{
		{Name: "slow", Run: func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Second):
				return nil
			}
		}},
	}

	result := New(steps, Config{StepTimeout: 20 * time.Millisecond}).Execute(context.Background())

	err := result.Err()
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestExecute_RecordsLatency(t *testing.T) {
	steps := []Step{
		{Name: "sleepy", Run: func(ctx context.Context) error {
			time.Sleep(10 * time.Millisecond)
			return nil
		}},
	}

	result := New(steps, Config{}).Execute(context.Background())

	if len(result.Steps) != 1 {
		t.Fatalf("expected 1 step result, got %d", len(result.Steps))
	}
	if result.Steps[0].Latency < 10*time.Millisecond {
		t.Errorf("expected latency >= 10ms, got %v", result.Steps[0].Latency)
	}
}

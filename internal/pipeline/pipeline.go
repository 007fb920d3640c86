// Package pipeline runs named workflow steps strictly in order. Steps pass
// values by closure; there is no shared state and no concurrency, so each
// step sees everything its predecessors finished.
package pipeline

import (
	"context"
	"fmt"
	"time"
)

type Config struct {
	// StepTimeout bounds each individual step. Zero means no bound beyond
	// the parent context.
	StepTimeout time.Duration
}

// Step is one unit of the workflow.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// StepResult records one executed step.
type StepResult struct {
	Name    string
	Latency time.Duration
	Err     error
}

// Result accumulates the execution trace.
type Result struct {
	Steps     []StepResult
	Completed int
}

// Err returns the error that stopped the pipeline, if any.
func (r *Result) Err() error {
	for _, s := range r.Steps {
		if s.Err != nil {
			return fmt.Errorf("step %s: %w", s.Name, s.Err)
		}
	}
	return nil
}

type Runner struct {
	steps  []Step
	config Config
}

func New(steps []Step, config Config) *Runner {
	return &Runner{
		steps:  steps,
		config: config,
	}
}

// Execute runs the steps sequentially and stops at the first failure.
func (r *Runner) Execute(ctx context.Context) *Result {
	result := &Result{
		Steps: make([]StepResult, 0, len(r.steps)),
	}

	for _, step := range r.steps {
		stepCtx := ctx
		cancel := func() {}
		if r.config.StepTimeout > 0 {
			stepCtx, cancel = context.WithTimeout(ctx, r.config.StepTimeout)
		}

		start := time.Now()
		err := step.Run(stepCtx)
		cancel()

		result.Steps = append(result.Steps, StepResult{
			Name:    step.Name,
			Latency: time.Since(start),
			Err:     err,
		})
		if err != nil {
			return result
		}
		result.Completed++
	}

	return result
}

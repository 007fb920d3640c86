// Package evaluator computes per-model exact-match accuracy from reviewed
// annotation tasks.
package evaluator

import (
	"errors"
	"slices"

	"github.com/artefactory-fr/nertrain/internal/annotation"
)

// ErrNoTasks is returned when an evaluation batch is empty. Accuracy is
// hits over batch size, so an empty batch has no defined accuracy.
var ErrNoTasks = errors.New("no annotation tasks to evaluate")

// Tally holds raw evaluation counts before division.
type Tally struct {
	TaskCount int
	Hits      map[string]int
}

// spanEqual defines the exact-match contract: start, end, text, and the
// label sequence must all be identical. Tool-assigned ids are ignored on
// both sides.
func spanEqual(a, b annotation.Span) bool {
	return a.Start == b.Start &&
		a.End == b.End &&
		a.Text == b.Text &&
		slices.Equal(a.Labels, b.Labels)
}

// Count tallies exact-match hits per model over the batch. A prediction
// with a missing or mismatched payload counts as a miss, not an error.
// Models that never appear in any task's predictions are absent from the
// tally. Returns ErrNoTasks for an empty batch.
func Count(tasks []annotation.Task) (*Tally, error) {
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}

	hits := make(map[string]int)
	for _, task := range tasks {
		accepted, ok := task.Accepted()
		for _, pred := range task.Predictions {
			hit := ok && pred.Result != nil && spanEqual(*pred.Result, accepted)
			if hit {
				hits[pred.ModelVersion]++
			} else if _, seen := hits[pred.ModelVersion]; !seen {
				// Register the model so a batch full of misses still
				// reports 0.0 rather than omitting it.
				hits[pred.ModelVersion] = 0
			}
		}
	}

	return &Tally{TaskCount: len(tasks), Hits: hits}, nil
}

// Accuracy converts the tally into a per-model hit rate in [0, 1]. The
// denominator is always the full batch size.
func (t *Tally) Accuracy() map[string]float64 {
	acc := make(map[string]float64, len(t.Hits))
	for model, hits := range t.Hits {
		acc[model] = float64(hits) / float64(t.TaskCount)
	}
	return acc
}

// Evaluate computes per-model accuracy for the batch in one call.
func Evaluate(tasks []annotation.Task) (map[string]float64, error) {
	tally, err := Count(tasks)
	if err != nil {
		return nil, err
	}
	return tally.Accuracy(), nil
}

// Package trainer holds the conditional retraining gate: retrain only when
// the designated model scores below the accuracy threshold.
package trainer

import (
	"context"
	"errors"
	"fmt"

	"github.com/artefactory-fr/nertrain/internal/annotation"
	"github.com/artefactory-fr/nertrain/internal/ner"
	"github.com/artefactory-fr/nertrain/internal/trainfmt"
)

// ErrModelUnscored is returned when the designated model is absent from the
// accuracy mapping, meaning it never appeared in the batch's predictions.
var ErrModelUnscored = errors.New("designated model has no accuracy score")

// Uploader persists the trained model artifact.
type Uploader interface {
	Upload(ctx context.Context, bucket, object string, data []byte, contentType string) error
}

// Config parameterizes the gate. All values come from the workflow profile.
type Config struct {
	Model          string
	BaseModel      string
	Threshold      float64
	Iterations     int
	ArtifactBucket string
	ArtifactObject string
}

// Outcome reports what the gate decided and did.
type Outcome struct {
	Model          string
	Accuracy       float64
	Threshold      float64
	Trained        bool
	ExampleCount   int
	ArtifactObject string
}

// Trainer applies the gate and drives the external fine-tuning service.
type Trainer struct {
	svc ner.Service
	up  Uploader
	cfg Config
}

func New(svc ner.Service, up Uploader, cfg Config) *Trainer {
	return &Trainer{svc: svc, up: up, cfg: cfg}
}

// MaybeTrain retrains the designated model when its accuracy is below the
// threshold. At or above threshold it is a no-op. No retries and no partial
// recovery: the first failure is returned as-is.
func (t *Trainer) MaybeTrain(ctx context.Context, accuracy map[string]float64, tasks []annotation.Task) (*Outcome, error) {
	acc, ok := accuracy[t.cfg.Model]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelUnscored, t.cfg.Model)
	}

	outcome := &Outcome{
		Model:     t.cfg.Model,
		Accuracy:  acc,
		Threshold: t.cfg.Threshold,
	}

	if acc >= t.cfg.Threshold {
		return outcome, nil
	}

	examples := trainfmt.Format(tasks)
	if len(examples) == 0 {
		return nil, fmt.Errorf("no tasks with accepted entities to train on")
	}
	outcome.ExampleCount = len(examples)

	artifact, err := t.svc.Train(ctx, t.cfg.BaseModel, examples, t.cfg.Iterations)
	if err != nil {
		return nil, fmt.Errorf("fine-tuning failed: %w", err)
	}

	if err := t.up.Upload(ctx, t.cfg.ArtifactBucket, t.cfg.ArtifactObject, artifact, "application/octet-stream"); err != nil {
		return nil, fmt.Errorf("failed to persist model artifact: %w", err)
	}

	outcome.Trained = true
	outcome.ArtifactObject = t.cfg.ArtifactObject
	return outcome, nil
}

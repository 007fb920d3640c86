// Package ner is the boundary to the external NLP toolkit. Model
// architecture, optimizer, and batching all live on the other side of this
// interface; this package only ships examples over and model artifacts back.
package ner

import (
	"context"

	"github.com/artefactory-fr/nertrain/internal/trainfmt"
)

// Service fine-tunes a pretrained NER model.
type Service interface {
	Name() string
	IsAvailable(ctx context.Context) error
	// Train fine-tunes the named base model on the examples for the given
	// number of iterations and returns the serialized model artifact.
	Train(ctx context.Context, model string, examples []trainfmt.Example, iterations int) ([]byte, error)
}

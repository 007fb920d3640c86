// Package trainfmt converts reviewed annotation tasks into training
// examples for the external NER fine-tuning service.
package trainfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/artefactory-fr/nertrain/internal/annotation"
)

// Entity is one labeled offset range in a training example.
type Entity struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
}

// Example pairs a source text with its accepted entities.
type Example struct {
	Text     string   `json:"text"`
	Entities []Entity `json:"entities"`
}

// Format converts tasks into training examples. Every accepted result
// contributes one entity per label. Tasks with no accepted entities carry
// no training signal and are dropped.
func Format(tasks []annotation.Task) []Example {
	var examples []Example
	for _, task := range tasks {
		var entities []Entity
		for _, res := range task.Results {
			for _, label := range res.Value.Labels {
				entities = append(entities, Entity{
					Start: res.Value.Start,
					End:   res.Value.End,
					Label: label,
				})
			}
		}
		if len(entities) == 0 {
			continue
		}
		examples = append(examples, Example{Text: task.Text(), Entities: entities})
	}
	return examples
}

// WriteJSONL writes one example per line.
func WriteJSONL(w io.Writer, examples []Example) error {
	enc := json.NewEncoder(w)
	for i, ex := range examples {
		if err := enc.Encode(ex); err != nil {
			return fmt.Errorf("failed to encode example %d: %w", i, err)
		}
	}
	return nil
}

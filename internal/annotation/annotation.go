// Package annotation decodes Label Studio NER export batches.
package annotation

import (
	"encoding/json"
	"fmt"
)

// Span is one labeled text region. Start and End are rune offsets into the
// task text as exported by the annotation tool. ID is assigned by the tool
// and carries no annotation semantics.
type Span struct {
	ID     string   `json:"id,omitempty"`
	Start  int      `json:"start"`
	End    int      `json:"end"`
	Text   string   `json:"text"`
	Labels []string `json:"labels"`
}

// Result is one recorded annotation result on a task.
type Result struct {
	ID       string `json:"id,omitempty"`
	Value    Span   `json:"value"`
	FromName string `json:"from_name,omitempty"`
	ToName   string `json:"to_name,omitempty"`
	Type     string `json:"type,omitempty"`
	Origin   string `json:"origin,omitempty"`
}

// Prediction is one model's annotation of a task. Result is nil when the
// model produced no payload for the task.
type Prediction struct {
	ModelVersion string `json:"model_version"`
	Result       *Span  `json:"result"`
}

// SourceData carries the raw text the task was created from.
type SourceData struct {
	Text string `json:"text"`
}

// Source wraps the task's input record.
type Source struct {
	Data SourceData `json:"data"`
}

// Task is one unit of human review: the source text, the human results,
// and each model's prediction. Tasks are read-only here.
type Task struct {
	ID          int64        `json:"id"`
	Task        Source       `json:"task"`
	Results     []Result     `json:"result"`
	Predictions []Prediction `json:"predictions"`
}

// Text returns the task's source text.
func (t *Task) Text() string {
	return t.Task.Data.Text
}

// Accepted returns the accepted human annotation: the first recorded
// result's span with the tool-assigned id stripped. ok is false when the
// task has no recorded result.
func (t *Task) Accepted() (Span, bool) {
	if len(t.Results) == 0 {
		return Span{}, false
	}
	span := t.Results[0].Value
	span.ID = ""
	return span, true
}

// Parse decodes a byte-serialized JSON array of annotation tasks as
// exported by the annotation tool.
func Parse(data []byte) ([]Task, error) {
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse annotation export: %w", err)
	}
	return tasks, nil
}

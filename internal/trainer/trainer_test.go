package trainer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/artefactory-fr/nertrain/internal/annotation"
	"github.com/artefactory-fr/nertrain/internal/trainfmt"
)

type mockService struct {
	trainFunc func(ctx context.Context, model string, examples []trainfmt.Example, iterations int) ([]byte, error)
	calls     atomic.Int32
}

func (m *mockService) Name() string { return "mock" }

func (m *mockService) IsAvailable(ctx context.Context) error { return nil }

func (m *mockService) Train(ctx context.Context, model string, examples []trainfmt.Example, iterations int) ([]byte, error) {
	m.calls.Add(1)
	if m.trainFunc != nil {
		return m.trainFunc(ctx, model, examples, iterations)
	}
	return []byte("artifact"), nil
}

type mockUploader struct {
	bucket, object string
	data           []byte
	calls          int
	err            error
}

func (m *mockUploader) Upload(ctx context.Context, bucket, object string, data []byte, contentType string) error {
	m.calls++
	m.bucket, m.object, m.data = bucket, object, data
	return m.err
}

func sampleTasks() []annotation.Task {
	var task annotation.Task
	task.Task.Data.Text = "Chennai is a city."
	task.Results = []annotation.Result{{
		Value: annotation.Span{Start: 0, End: 7, Text: "Chennai", Labels: []string{"LOC"}},
	}}
	return []annotation.Task{task}
}

func gateConfig() Config {
	return Config{
		Model:          "dummy",
		BaseModel:      "en_core_web_sm",
		Threshold:      0.7,
		Iterations:     30,
		ArtifactBucket: "models",
		ArtifactObject: "spacy/dummy.bin",
	}
}

func TestMaybeTrain_SkipsAboveThreshold(t *testing.T) {
	svc := &mockService{}
	up := &mockUploader{}
	tr := New(svc, up, gateConfig())

	outcome, err := tr.MaybeTrain(context.Background(), map[string]float64{"dummy": 0.8}, sampleTasks())
	if err != nil {
		t.Fatalf("MaybeTrain failed: %v", err)
	}

	if outcome.Trained {
		t.Error("expected no retraining at accuracy 0.8 with threshold 0.7")
	}
	if svc.calls.Load() != 0 {
		t.Errorf("expected 0 training calls, got %d", svc.calls.Load())
	}
	if up.calls != 0 {
		t.Errorf("expected 0 uploads, got %d", up.calls)
	}
}

func TestMaybeTrain_SkipsAtThreshold(t *testing.T) {
	svc := &mockService{}
	tr := New(svc, &mockUploader{}, gateConfig())

	outcome, err := tr.MaybeTrain(context.Background(), map[string]float64{"dummy": 0.7}, sampleTasks())
	if err != nil {
		t.Fatalf("MaybeTrain failed: %v", err)
	}
	if outcome.Trained {
		t.Error("accuracy equal to threshold must skip retraining")
	}
}

func TestMaybeTrain_TrainsBelowThreshold(t *testing.T) {
	var gotModel string
	var gotIterations int
	svc := &mockService{
		trainFunc: func(ctx context.Context, model string, examples []trainfmt.Example, iterations int) ([]byte, error) {
			gotModel = model
			gotIterations = iterations
			return []byte("trained"), nil
		},
	}
	up := &mockUploader{}
	tr := New(svc, up, gateConfig())

	outcome, err := tr.MaybeTrain(context.Background(), map[string]float64{"dummy": 0.5}, sampleTasks())
	if err != nil {
		t.Fatalf("MaybeTrain failed: %v", err)
	}

	if !outcome.Trained {
		t.Fatal("expected retraining at accuracy 0.5 with threshold 0.7")
	}
	if svc.calls.Load() != 1 {
		t.Errorf("expected exactly 1 training call, got %d", svc.calls.Load())
	}
	if gotModel != "en_core_web_sm" {
		t.Errorf("expected base model 'en_core_web_sm', got %q", gotModel)
	}
	if gotIterations != 30 {
		t.Errorf("expected 30 iterations, got %d", gotIterations)
	}
	if up.calls != 1 {
		t.Errorf("expected exactly 1 upload, got %d", up.calls)
	}
	if up.bucket != "models" || up.object != "spacy/dummy.bin" {
		t.Errorf("artifact uploaded to gs://%s/%s", up.bucket, up.object)
	}
	if string(up.data) != "trained" {
		t.Errorf("unexpected uploaded artifact: %q", up.data)
	}
	if outcome.ExampleCount != 1 {
		t.Errorf("expected 1 example, got %d", outcome.ExampleCount)
	}
}

func TestMaybeTrain_UnscoredModel(t *testing.T) {
	tr := New(&mockService{}, &mockUploader{}, gateConfig())

	_, err := tr.MaybeTrain(context.Background(), map[string]float64{"other": 0.9}, sampleTasks())
	if !errors.Is(err, ErrModelUnscored) {
		t.Errorf("expected ErrModelUnscored, got %v", err)
	}
}

func TestMaybeTrain_NoTrainableExamples(t *testing.T) {
	var empty annotation.Task
	empty.Task.Data.Text = "Nothing annotated."

	svc := &mockService{}
	tr := New(svc, &mockUploader{}, gateConfig())

	_, err := tr.MaybeTrain(context.Background(), map[string]float64{"dummy": 0.5}, []annotation.Task{empty})
	if err == nil {
		t.Error("expected error when no task has accepted entities")
	}
	if svc.calls.Load() != 0 {
		t.Errorf("expected no training call, got %d", svc.calls.Load())
	}
}

func TestMaybeTrain_TrainFailurePropagates(t *testing.T) {
	svc := &mockService{
		trainFunc: func(ctx context.Context, model string, examples []trainfmt.Example, iterations int) ([]byte, error) {
			return nil, errors.New("server exploded")
		},
	}
	up := &mockUploader{}
	tr := New(svc, up, gateConfig())

	_, err := tr.MaybeTrain(context.Background(), map[string]float64{"dummy": 0.5}, sampleTasks())
	if err == nil {
		t.Fatal("expected training error to propagate")
	}
	if up.calls != 0 {
		t.Errorf("expected no upload after failed training, got %d", up.calls)
	}
}

func TestMaybeTrain_UploadFailurePropagates(t *testing.T) {
	up := &mockUploader{err: errors.New("bucket gone")}
	tr := New(&mockService{}, up, gateConfig())

	_, err := tr.MaybeTrain(context.Background(), map[string]float64{"dummy": 0.5}, sampleTasks())
	if err == nil {
		t.Error("expected upload error to propagate")
	}
}

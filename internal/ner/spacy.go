package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/artefactory-fr/nertrain/internal/trainfmt"
)

// SpacyService talks to a spaCy model server over HTTP. Training can run
// for many iterations, hence the generous client timeout; callers bound the
// call further through the request context.
type SpacyService struct {
	baseURL string
	client  *http.Client
}

type trainRequest struct {
	Model      string             `json:"model"`
	Iterations int                `json:"iterations"`
	Examples   []trainfmt.Example `json:"examples"`
}

// NewSpacyService creates a client for a spaCy model server.
func NewSpacyService(baseURL string) *SpacyService {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &SpacyService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Minute},
	}
}

func (s *SpacyService) Name() string {
	return "spacy"
}

// Train posts the examples to the server's fine-tuning endpoint and returns
// the serialized model artifact from the response body.
func (s *SpacyService) Train(ctx context.Context, model string, examples []trainfmt.Example, iterations int) ([]byte, error) {
	reqBody := trainRequest{
		Model:      model,
		Iterations: iterations,
		Examples:   examples,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal train request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/train", s.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create train request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("train request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("model server returned status %d", resp.StatusCode)
	}

	artifact, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	if len(artifact) == 0 {
		return nil, fmt.Errorf("model server returned an empty artifact")
	}

	return artifact, nil
}

func (s *SpacyService) IsAvailable(ctx context.Context) error {
	req, _ := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/health", s.baseURL), nil)
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("model server not available: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model server returned status %d", resp.StatusCode)
	}
	return nil
}

package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/hrtriage/ticket-service/internal/config"
	"github.com/hrtriage/ticket-service/internal/domain"
)

var (
	// ErrNoToken is returned when no API token is configured; no request is made.
	ErrNoToken = errors.New("no API token configured")

	// ErrModelLoading indicates the inference endpoint is still warming the model up.
	ErrModelLoading = errors.New("classification model is loading")

	// ErrMalformedResponse indicates the endpoint answered with a body the
	// client cannot interpret as a zero-shot result.
	ErrMalformedResponse = errors.New("malformed classification response")
)

// Result is the winning label of a zero-shot classification call.
type Result struct {
	Category   string
	Confidence float64
}

// Client calls a HuggingFace-style zero-shot classification endpoint.
type Client struct {
	apiURL string
	token  string
	labels []string
	client *http.Client
	logger *zap.Logger
}

// NewClient builds a classification client from config. The candidate label
// set is fixed to the triage categories.
func NewClient(cfg config.ClassifierConfig, logger *zap.Logger) *Client {
	return &Client{
		apiURL: cfg.APIURL,
		token:  cfg.APIToken,
		labels: domain.CandidateLabels,
		client: &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify sends text to the endpoint and returns the highest-scoring label.
// The endpoint has answered in three shapes across API revisions; all are
// accepted. A confidence outside [0,1] is treated as a malformed response.
func (c *Client) Classify(ctx context.Context, text string) (*Result, error) {
	body, err := c.post(ctx, text, c.labels)
	if err != nil {
		return nil, err
	}

	result, err := parseResult(body)
	if err != nil {
		c.logger.Warn("unexpected classification response", zap.ByteString("body", truncate(body, 512)), zap.Error(err))
		return nil, err
	}
	return result, nil
}

func (c *Client) post(ctx context.Context, text string, labels []string) ([]byte, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}

	payload, err := json.Marshal(inferenceRequest{
		Inputs:     text,
		Parameters: inferenceParameters{CandidateLabels: labels},
	})
	if err != nil {
		return nil, fmt.Errorf("encode inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call inference endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read inference response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusServiceUnavailable:
		return nil, ErrModelLoading
	default:
		return nil, fmt.Errorf("inference endpoint returned %d", resp.StatusCode)
	}
}

// parseResult accepts the three response shapes the endpoint has used:
// a flat [{label,score},...] list, a nested [[{label,score},...]] list, and
// the legacy {labels:[...],scores:[...]} object. The first entry wins.
func parseResult(body []byte) (*Result, error) {
	var flat []labelScore
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 && flat[0].Label != "" {
		return newResult(flat[0].Label, flat[0].Score)
	}

	var nested [][]labelScore
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 && nested[0][0].Label != "" {
		return newResult(nested[0][0].Label, nested[0][0].Score)
	}

	var legacy struct {
		Labels []string  `json:"labels"`
		Scores []float64 `json:"scores"`
	}
	if err := json.Unmarshal(body, &legacy); err == nil && len(legacy.Labels) > 0 && len(legacy.Scores) > 0 {
		return newResult(legacy.Labels[0], legacy.Scores[0])
	}

	return nil, ErrMalformedResponse
}

func newResult(label string, score float64) (*Result, error) {
	if score < 0 || score > 1 {
		return nil, fmt.Errorf("%w: confidence %v out of range", ErrMalformedResponse, score)
	}
	return &Result{Category: label, Confidence: score}, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}

// Package analyzer provides implementations of the opaque face-analysis
// collaborator consumed by the facial extractor.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/vigil/internal/domain/facial"
	"github.com/okian/vigil/internal/domain/model"
)

// Default HTTP analyzer configuration constants.
const (
	defaultTimeout = 500 * time.Millisecond
)

// HTTPOption applies a configuration option to the HTTPAnalyzer.
type HTTPOption func(*HTTPAnalyzer)

// WithTimeout bounds one sidecar round trip.
func WithTimeout(d time.Duration) HTTPOption {
	return func(a *HTTPAnalyzer) {
		if d > 0 {
			a.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(a *HTTPAnalyzer) {
		if c != nil {
			a.client = c
		}
	}
}

// analyzeRequest mirrors the sidecar's POST body: frame dimensions plus the
// raw luminance plane (base64-encoded by encoding/json).
type analyzeRequest struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Pixels []byte `json:"pixels"`
}

// faceResponse is one detected face in the sidecar's reply.
type faceResponse struct {
	Emotion    string             `json:"emotion"`
	Confidence float64            `json:"confidence"`
	Indicators map[string]float64 `json:"indicators,omitempty"`
}

type analyzeResponse struct {
	Faces []faceResponse `json:"faces"`
}

// HTTPAnalyzer posts frames to an inference sidecar and maps its JSON reply
// onto face analyses. The sidecar owns the emotion and landmark models; this
// adapter owns nothing but the wire format.
type HTTPAnalyzer struct {
	url    string
	client *http.Client
}

// NewHTTPAnalyzer creates an analyzer talking to the sidecar at url.
func NewHTTPAnalyzer(url string, opts ...HTTPOption) *HTTPAnalyzer {
	a := &HTTPAnalyzer{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}

	// Apply all options
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Analyze posts one frame and returns the detected faces. Transport and
// decode failures surface as errors; the extractor degrades them to an empty
// indicator set so a flaky sidecar never aborts the pipeline.
func (a *HTTPAnalyzer) Analyze(ctx context.Context, frame model.FrameSample) ([]facial.FaceAnalysis, error) {
	body, err := json.Marshal(analyzeRequest{
		Width:  frame.Width,
		Height: frame.Height,
		Pixels: frame.Pixels,
	})
	if err != nil {
		return nil, fmt.Errorf("encode analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyze request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analyze request failed: %w", errStatus(resp.StatusCode))
	}

	var decoded analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode analyze response: %w", err)
	}

	faces := make([]facial.FaceAnalysis, len(decoded.Faces))
	for i, f := range decoded.Faces {
		faces[i] = facial.FaceAnalysis{
			Emotion:    f.Emotion,
			Confidence: f.Confidence,
			Indicators: f.Indicators,
		}
	}
	return faces, nil
}

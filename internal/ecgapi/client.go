// Package ecgapi is the HTTP client for the ECG authentication backend. The
// backend performs all signal processing, model training, and storage; this
// client only fetches and normalizes.
package ecgapi

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/calderlab/cardia/internal/model"
	"github.com/calderlab/cardia/internal/normalize"
)

// DefaultOrigin is used when no backend origin is configured.
const DefaultOrigin = "http://localhost:5104"

const requestTimeout = 30 * time.Second

// Client talks to one backend origin.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for the given backend origin. An empty origin
// selects the default.
func NewClient(origin string) *Client {
	if origin == "" {
		origin = DefaultOrigin
	}
	return &Client{
		baseURL: origin,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// CollectRequest is the optional context attached to a capture.
type CollectRequest struct {
	Metadata *model.SessionMetadata `json:"metadata,omitempty"`
	Tags     []string               `json:"tags,omitempty"`
	Notes    string                 `json:"notes,omitempty"`
}

// ContinuousRequest configures one continuous-verify run. Absent fields are
// omitted from the wire so the backend applies its own defaults.
type ContinuousRequest struct {
	Threshold     *float64 `json:"threshold,omitempty"`
	WindowMinutes *int     `json:"windowMinutes,omitempty"`
	StrideMinutes *int     `json:"strideMinutes,omitempty"`
}

// ListSessions fetches every stored session.
func (c *Client) ListSessions(ctx context.Context) ([]model.SessionRecord, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/ecg-auth/sessions", nil)
	if err != nil {
		return nil, err
	}

	var items []map[string]any
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to decode session list: %w", err)
	}

	raws := make([]normalize.Raw, 0, len(items))
	for _, item := range items {
		raws = append(raws, normalize.Raw(item))
	}
	return normalize.Sessions(raws), nil
}

// CollectSession triggers one capture on the backend and returns the
// resulting session record.
func (c *Client) CollectSession(ctx context.Context, req CollectRequest) (model.SessionRecord, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return model.SessionRecord{}, fmt.Errorf("failed to encode collect request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/api/ecg-auth/collect-session", payload)
	if err != nil {
		return model.SessionRecord{}, err
	}

	raw, err := decodeObject(body, "session")
	if err != nil {
		return model.SessionRecord{}, err
	}
	return normalize.Session(raw), nil
}

// Train runs one training pass over the stored sessions.
func (c *Client) Train(ctx context.Context, maxPairsPerUser int) (model.TrainingResult, error) {
	path := "/api/ecg-auth/train?maxPairsPerUser=" + strconv.Itoa(maxPairsPerUser)
	body, err := c.do(ctx, http.MethodPost, path, nil)
	if err != nil {
		return model.TrainingResult{}, err
	}

	raw, err := decodeObject(body, "training result")
	if err != nil {
		return model.TrainingResult{}, err
	}
	return normalize.Training(raw), nil
}

// Verify runs one verification attempt against the trained model. The
// attempt identity is generated client-side; label and notes are attached by
// the caller afterwards.
func (c *Client) Verify(ctx context.Context, threshold float64) (model.VerifyAttempt, error) {
	path := "/api/ecg-auth/verify?threshold=" + strconv.FormatFloat(threshold, 'f', -1, 64)
	body, err := c.do(ctx, http.MethodPost, path, nil)
	if err != nil {
		return model.VerifyAttempt{}, err
	}

	raw, err := decodeObject(body, "verify result")
	if err != nil {
		return model.VerifyAttempt{}, err
	}

	attempt := normalize.Attempt(raw)
	attempt.ID = NewAttemptID()
	if attempt.Threshold == 0 {
		attempt.Threshold = threshold
	}
	return attempt, nil
}

// ContinuousVerify runs one rolling-window verification pass.
func (c *Client) ContinuousVerify(ctx context.Context, req ContinuousRequest) (model.ContinuousVerifyResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return model.ContinuousVerifyResponse{}, fmt.Errorf("failed to encode continuous request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/api/ecg-auth/continuous-verify", payload)
	if err != nil {
		return model.ContinuousVerifyResponse{}, err
	}

	raw, err := decodeObject(body, "continuous-verify result")
	if err != nil {
		return model.ContinuousVerifyResponse{}, err
	}
	return normalize.Continuous(raw), nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read backend response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("backend returned %d for %s %s: %s",
			resp.StatusCode, method, path, truncate(string(body), 200))
	}
	return body, nil
}

func decodeObject(body []byte, what string) (normalize.Raw, error) {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", what, err)
	}
	return normalize.Raw(m), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// NewAttemptID returns a unique identity for a client-synthesized record. It
// prefers a random UUID and falls back to a time+random token when UUID
// generation fails.
func NewAttemptID() string {
	if id, err := uuid.NewRandom(); err == nil {
		return id.String()
	}
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("attempt-%d-%x", time.Now().UnixNano(), buf)
}

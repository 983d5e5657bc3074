package rehearsal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/okian/draftreveal/internal/domain/types"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// do sends a request and decodes a JSON answer into out when want matches.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, want int, headers ...string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != want {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// health checks the metrics endpoint.
func (c *HTTPClient) health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, StatusOK)
}

// generate creates a session from the default roster of size members.
func (c *HTTPClient) generate(ctx context.Context, size int) (types.Frame, error) {
	var f types.Frame
	err := c.do(ctx, http.MethodPost, "/session", map[string]int{"league_size": size}, &f, StatusCreated)
	return f, err
}

// frame reads the current frame.
func (c *HTTPClient) frame(ctx context.Context) (types.Frame, error) {
	var f types.Frame
	err := c.do(ctx, http.MethodGet, "/session", nil, &f, StatusOK)
	return f, err
}

// act posts an action with a fresh request id.
func (c *HTTPClient) act(ctx context.Context, action string) (types.Outcome, error) {
	return c.actWithID(ctx, action, uuid.NewString())
}

func (c *HTTPClient) actWithID(ctx context.Context, action, id string) (types.Outcome, error) {
	var out types.Outcome
	err := c.do(ctx, http.MethodPost, "/session/actions/"+action, nil, &out, StatusOK, "X-Request-ID", id)
	return out, err
}

// results reads the final board.
func (c *HTTPClient) results(ctx context.Context) ([]types.Result, error) {
	var out []types.Result
	err := c.do(ctx, http.MethodGet, "/session/results", nil, &out, StatusOK)
	return out, err
}

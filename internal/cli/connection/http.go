package connection

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/devloop/internal/core/domain"
	"github.com/yndnr/devloop/internal/infra/buildinfo"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 5 * time.Second

const apiPrefix = "/api/devloop/"

// maxBody caps how much of a response the client will read.
const maxBody = 64 << 10

// HTTPClient provides HTTP communication with the server.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a new HTTP client.
func NewHTTPClient(server string) *HTTPClient {
	baseURL := strings.TrimRight(server, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	return &HTTPClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "devloop/"+buildinfo.Version)
	return c.client.Do(req)
}

// LiveVersion returns the server's live-reload version.
func (c *HTTPClient) LiveVersion(ctx context.Context) (int64, error) {
	body, err := c.getText(ctx, apiPrefix+"version")
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(strings.TrimSpace(body), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse version %q: %w", body, err)
	}
	return v, nil
}

// LiveStatus returns the server's status message; empty means none is set.
func (c *HTTPClient) LiveStatus(ctx context.Context) (string, error) {
	return c.getText(ctx, apiPrefix+"status")
}

// Health is the data of GET /health.
type Health struct {
	Status      string `json:"status"`
	Build       string `json:"build"`
	LiveVersion int64  `json:"live_version"`
	StatusSet   bool   `json:"status_set"`
}

// Health fetches GET /health.
func (c *HTTPClient) Health(ctx context.Context) (*Health, error) {
	resp, err := c.Get(ctx, "/health")
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Data Health `json:"data"`
	}
	if err := ParseResponse(resp, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

func (c *HTTPClient) getText(ctx context.Context, path string) (string, error) {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%s not served (live reload disabled?)", path)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(data), nil
}

// ParseResponse parses a JSON response body into the target struct.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("[%s] %s", errResp.Code, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

// Probe reads the live version and status of the server described by state.
func Probe(ctx context.Context, state *domain.ServerState) (int64, string, error) {
	c := NewHTTPClient(state.URL())
	v, err := c.LiveVersion(ctx)
	if err != nil {
		return 0, "", err
	}
	msg, err := c.LiveStatus(ctx)
	if err != nil {
		return 0, "", err
	}
	return v, msg, nil
}

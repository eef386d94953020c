// ABOUTME: HTTP client for the vm-migration-sizer API
// ABOUTME: Wraps the /api/v1 endpoints with typed request and response bodies

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/markalston/vm-migration-sizer/models"
)

const defaultTimeout = 30 * time.Second

// Client talks to a running sizing service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// BaseURL returns the service URL the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health calls GET /api/v1/health
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var health models.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Profiles calls GET /api/v1/profiles
func (c *Client) Profiles(ctx context.Context) (*models.ProfilesResponse, error) {
	var profiles models.ProfilesResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/profiles", nil, &profiles); err != nil {
		return nil, err
	}
	return &profiles, nil
}

// PolicyDefaults calls GET /api/v1/policy/defaults
func (c *Client) PolicyDefaults(ctx context.Context) (*models.SizingPolicy, error) {
	var policy models.SizingPolicy
	if err := c.do(ctx, http.MethodGet, "/api/v1/policy/defaults", nil, &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

// Plan calls POST /api/v1/plan
func (c *Client) Plan(ctx context.Context, req *models.PlanRequest) (*models.PlanResult, error) {
	var plan models.PlanResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/plan", req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Recommend calls POST /api/v1/plan/recommend
func (c *Client) Recommend(ctx context.Context, req *models.RecommendRequest) (*models.RecommendResponse, error) {
	var resp models.RecommendResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/plan/recommend", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Compare calls POST /api/v1/plan/compare
func (c *Client) Compare(ctx context.Context, req *models.CompareRequest) (*models.PlanComparison, error) {
	var comparison models.PlanComparison
	if err := c.do(ctx, http.MethodPost, "/api/v1/plan/compare", req, &comparison); err != nil {
		return nil, err
	}
	return &comparison, nil
}

// do sends body as JSON (when non-nil) and decodes a 200 response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled")
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// APIError is a non-200 response from the service.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	if e.Details != "" {
		return fmt.Sprintf("backend error: %s: %s", e.Message, e.Details)
	}
	return fmt.Sprintf("backend error: %s", e.Message)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
		apiErr.Message = errResp.Error
		apiErr.Details = errResp.Details
	}
	return apiErr
}

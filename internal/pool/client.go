// Package pool talks to the BitcoinPuzzles pool API: it fetches key-range
// assignments and submits batches of candidate private keys.
package pool

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

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// SubmitBatchSize is the number of keys the pool expects per submission.
	SubmitBatchSize = 10

	// requestTimeout bounds every HTTP call to the pool.
	requestTimeout = 20 * time.Second

	// tokenHeader carries the pool credential on every request.
	tokenHeader = "pool-token"

	// maxErrorBody caps how much of an error response body is carried in an
	// APIError.
	maxErrorBody = 4 * 1024
)

// ErrEmptyBatch is returned when SubmitKeys is called with no keys. The pool
// requires a non-empty batch, so the call is rejected before any network
// activity.
var ErrEmptyBatch = errors.New("pool: empty key batch")

// Service defines the two calls the pool exposes.
type Service interface {
	FetchAssignment(ctx context.Context, big bool) (*Assignment, error)
	SubmitKeys(ctx context.Context, keys []string, big bool) (json.RawMessage, error)
}

// APIError is a non-2xx response from the pool, with the body kept for
// diagnostics.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pool returned %d: %s", e.Status, e.Body)
}

// Client implements Service over HTTP.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a pool client for the given base URL and token.
func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: requestTimeout},
		// One request per second with room for a fetch+submit pair, so a
		// zero-delay loop cannot hammer the pool.
		limiter: rate.NewLimiter(1, 2),
		logger:  logger,
	}
}

// endpoint returns the block endpoint for the requested mode.
func (c *Client) endpoint(big bool) string {
	if big {
		return c.baseURL + "/big_block"
	}
	return c.baseURL + "/block"
}

// FetchAssignment requests the next block assignment from the pool.
func (c *Client) FetchAssignment(ctx context.Context, big bool) (*Assignment, error) {
	url := c.endpoint(big)
	c.logger.Info("fetching assignment", zap.String("url", url))

	body, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch assignment: %w", err)
	}

	var a Assignment
	if err := json.Unmarshal(body, &a); err != nil {
		return nil, fmt.Errorf("unmarshal assignment: %w (body: %s)", err, truncate(body))
	}
	return &a, nil
}

// SubmitKeys posts a batch of candidate keys to the pool and returns the raw
// acknowledgment body. The batch must be non-empty.
func (c *Client) SubmitKeys(ctx context.Context, keys []string, big bool) (json.RawMessage, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyBatch
	}

	payload, err := json.Marshal(submitRequest{PrivateKeys: keys})
	if err != nil {
		return nil, fmt.Errorf("marshal submission: %w", err)
	}

	url := c.endpoint(big)
	c.logger.Info("submitting keys", zap.String("url", url), zap.Int("count", len(keys)))

	body, err := c.do(ctx, http.MethodPost, url, payload)
	if err != nil {
		return nil, fmt.Errorf("submit keys: %w", err)
	}
	return json.RawMessage(body), nil
}

// do performs one authenticated HTTP exchange and returns the response body.
// Non-2xx statuses become an *APIError.
func (c *Client) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(tokenHeader, c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{Status: resp.StatusCode, Body: truncate(respBody)}
	}
	return respBody, nil
}

// truncate bounds a response body for inclusion in errors and logs.
func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		b = b[:maxErrorBody]
	}
	return string(b)
}

// Package notify delivers review notifications to an external reviewer
// service over HTTP.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/snishimura/agentdeck/internal/domain"
)

const defaultTimeout = 15 * time.Second

// Ensure Client implements domain.Notifier.
var _ domain.Notifier = (*Client)(nil)

// Client posts review requests to a configured endpoint. Each request is a
// single call returning success or failure; retrying is the caller's
// concern (the worker monitor retries on later ticks).
type Client struct {
	http *http.Client
	url  string
}

// New creates a new Client for the given endpoint URL. An empty URL yields
// a client that fails every notification, which the monitor logs and
// retries; the board itself keeps working without a reviewer service.
func New(url string) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: defaultTimeout},
	}
}

// NotifyReview requests a review for an idle worker.
func (c *Client) NotifyReview(ctx context.Context, req domain.ReviewRequest) error {
	if c.url == "" {
		return fmt.Errorf("notify: no endpoint configured")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal review request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build review request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send review request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("review endpoint returned %s", resp.Status)
	}
	return nil
}

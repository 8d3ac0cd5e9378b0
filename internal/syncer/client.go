// Package syncer pushes terminal snapshots to the shop server. Pushes
// are best effort: fired on their own goroutine, bounded by a fixed
// timeout, and dropped with a log line when they fail. The terminal
// never waits for the network.
package syncer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"gameshop/backend/internal/domain"
)

const defaultTimeout = 5 * time.Second

type Client struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
}

// New returns a client pushing to endpoint, e.g. "http://shop:8080/sync".
// A non-positive timeout falls back to the default.
func New(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		timeout:  timeout,
		client:   &http.Client{Timeout: timeout},
	}
}

// Push sends the snapshot without blocking the caller. There is no
// retry queue: the next mutating operation pushes the full state again,
// so a dropped push only delays the dashboard.
func (c *Client) Push(snap *domain.Snapshot) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		if err := c.PushNow(ctx, snap); err != nil {
			log.Printf("[syncer] WARN: push failed: %v", err)
		}
	}()
}

// PushNow sends the snapshot synchronously. The terminal's explicit
// "sync" command uses it to report the outcome to the operator.
func (c *Client) PushNow(ctx context.Context, snap *domain.Snapshot) error {
	payload := domain.PayloadFromSnapshot(snap)
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("post %s: status %d", c.endpoint, resp.StatusCode)
	}
	return nil
}

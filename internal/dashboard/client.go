// Package dashboard hosts the aggregation layer of the employee
// dashboard: it polls the feed service, joins employee, timesheet,
// company and task rows, and serves the derived summary.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aroy/employee-dashboard/internal/feed"
)

// Client fetches feed snapshots over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a feed client for the given base URL. The request
// timeout keeps a slow feed server from stalling the poll loop past the
// next tick.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Fetch retrieves one feed and its generation counter. The generation
// comes from the X-Feed-Generation response header and advances on every
// successful reload, letting the poller skip recomputation when nothing
// changed.
func (c *Client) Fetch(ctx context.Context, name string) ([]feed.Row, uint64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+name, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("feed %s: unexpected status %d", name, resp.StatusCode)
	}
	var rows []feed.Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, 0, fmt.Errorf("feed %s: decode: %w", name, err)
	}
	gen, _ := strconv.ParseUint(resp.Header.Get("X-Feed-Generation"), 10, 64)
	return rows, gen, nil
}

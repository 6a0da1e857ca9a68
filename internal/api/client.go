// Package api is the REST client for the catalog service. It implements the
// paged search contract the list controller consumes: every search call is
// idempotent, never mutates its filter set, and reports failures as plain
// errors with a human-readable message.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"

	"hangarview/internal/domain"
)

const (
	// DefaultTimeout is the default timeout for HTTP requests
	DefaultTimeout = 10 * time.Second

	// maxResponseSize bounds a response body (4MB)
	maxResponseSize = 4 * 1024 * 1024

	// maxTries is the retry budget for transient failures
	maxTries = 3

	userAgent = "hangarview/1.0"
)

// HTTPError is returned for non-2xx responses
type HTTPError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d from %s: %s", e.StatusCode, e.URL, e.Message)
}

// Counts holds the unfiltered totals of the three collections
type Counts struct {
	Gear      int
	Batteries int
	Aircraft  int
}

// Client talks to one catalog service instance
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a catalog client. If timeout is 0, DefaultTimeout is
// used.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// page mirrors the catalog service's search response
type page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// SearchGear fetches one page of the gear catalog
func (c *Client) SearchGear(ctx context.Context, f domain.SearchFilters, limit, offset int) ([]domain.GearItem, int, error) {
	return searchCollection[domain.GearItem](ctx, c, "gear", f, limit, offset)
}

// SearchBatteries fetches one page of the battery inventory
func (c *Client) SearchBatteries(ctx context.Context, f domain.SearchFilters, limit, offset int) ([]domain.Battery, int, error) {
	return searchCollection[domain.Battery](ctx, c, "batteries", f, limit, offset)
}

// SearchAircraft fetches one page of the aircraft inventory
func (c *Client) SearchAircraft(ctx context.Context, f domain.SearchFilters, limit, offset int) ([]domain.Aircraft, int, error) {
	return searchCollection[domain.Aircraft](ctx, c, "aircraft", f, limit, offset)
}

// ModerateGear approves or rejects a gear item and returns the updated item
func (c *Client) ModerateGear(ctx context.Context, id string, approve bool) (domain.GearItem, error) {
	action := "reject"
	if approve {
		action = "approve"
	}
	u := fmt.Sprintf("%s/api/v1/gear/%s/%s", c.baseURL, url.PathEscape(id), action)

	body, err := c.do(ctx, http.MethodPost, u)
	if err != nil {
		return domain.GearItem{}, err
	}

	var item domain.GearItem
	if err := json.Unmarshal(body, &item); err != nil {
		return domain.GearItem{}, fmt.Errorf("failed to decode moderation response: %w", err)
	}
	return item, nil
}

// TotalCounts fetches the sizes of all three collections in parallel, for
// the tab bar badges
func (c *Client) TotalCounts(ctx context.Context) (Counts, error) {
	var counts Counts
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, n, err := c.SearchGear(ctx, domain.SearchFilters{}, 1, 0)
		counts.Gear = n
		return err
	})
	g.Go(func() error {
		_, n, err := c.SearchBatteries(ctx, domain.SearchFilters{}, 1, 0)
		counts.Batteries = n
		return err
	})
	g.Go(func() error {
		_, n, err := c.SearchAircraft(ctx, domain.SearchFilters{}, 1, 0)
		counts.Aircraft = n
		return err
	})

	if err := g.Wait(); err != nil {
		return Counts{}, err
	}
	return counts, nil
}

// searchCollection runs one paged search against a collection endpoint
func searchCollection[T any](ctx context.Context, c *Client, collection string, f domain.SearchFilters, limit, offset int) ([]T, int, error) {
	q := url.Values{}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Sort != "" {
		q.Set("sort", string(f.Sort))
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	u := fmt.Sprintf("%s/api/v1/%s?%s", c.baseURL, collection, q.Encode())

	body, err := c.do(ctx, http.MethodGet, u)
	if err != nil {
		return nil, 0, err
	}

	var p page[T]
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s response: %w", collection, err)
	}
	return p.Items, p.Total, nil
}

// do executes a request, retrying transient failures with exponential
// backoff. 4xx responses are permanent; transport errors and 5xx retry up
// to the budget.
func (c *Client) do(ctx context.Context, method, u string) ([]byte, error) {
	return backoff.Retry(ctx, func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, method, u, nil)
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}

		httpErr := &HTTPError{StatusCode: resp.StatusCode, URL: u, Message: errorMessage(body, resp.Status)}
		if resp.StatusCode >= 500 {
			return nil, httpErr
		}
		return nil, backoff.Permanent(httpErr)
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(maxTries))
}

// errorMessage pulls the service's error field out of a failure body,
// falling back to the HTTP status line
func errorMessage(body []byte, status string) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return status
}

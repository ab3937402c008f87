// Package fetch retrieves flat hierarchy rows from the remote graph API.
//
// The endpoint returns {"data": [...]} where entries are either flat rows
// with a "parent" pointer or already-nested objects with "children"; both
// shapes are normalized into [tree.FlatNode] rows before they reach the
// hierarchy builder. Transient failures (connection errors, 5xx) are
// retried with exponential backoff; 4xx responses fail immediately.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/arborview/arborview/pkg/tree"
)

// DefaultTimeout bounds a single request attempt.
const DefaultTimeout = 10 * time.Second

// maxBodySize caps response bodies to keep a misbehaving endpoint from
// exhausting memory. One million rows fit comfortably.
const maxBodySize = 32 << 20

// ErrStatus is returned when the endpoint answers with a non-200 status.
var ErrStatus = errors.New("unexpected response status")

// Client fetches rows from a graph API endpoint.
type Client struct {
	httpClient *http.Client
	url        string
}

// NewClient creates a client for the given endpoint URL. If httpClient is
// nil, a default client with DefaultTimeout is used.
func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{httpClient: httpClient, url: url}
}

// URL returns the endpoint this client fetches from.
func (c *Client) URL() string { return c.url }

// Rows fetches and normalizes the row set, retrying transient failures up
// to three times with exponential backoff.
func (c *Client) Rows(ctx context.Context) ([]tree.FlatNode, error) {
	var rows []tree.FlatNode
	err := RetryWithBackoff(ctx, func() error {
		var err error
		rows, err = c.fetchOnce(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) fetchOnce(ctx context.Context) ([]tree.FlatNode, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, Retryable(fmt.Errorf("fetch %s: %w", c.url, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: %s from %s", ErrStatus, resp.Status, c.url)
		if resp.StatusCode >= 500 {
			return nil, Retryable(err)
		}
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, Retryable(fmt.Errorf("read response: %w", err))
	}
	return tree.Normalize(body)
}

package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Fetcher retrieves record batches from a device bridge.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchRecords(ctx context.Context, query Query) (Batch, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the bridge HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultBridge    = "127.0.0.1:7490"
	defaultUserAgent = "portscope/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client for the bridge at addr (host:port or URL).
func NewClient(addr string) (*Client, error) {
	base, err := parseBaseURL(addr)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Query configures /api/records requests.
type Query struct {
	Since uint64
	Limit int
}

// FetchRecords retrieves records with a sequence number greater than
// query.Since.
func (c *Client) FetchRecords(ctx context.Context, query Query) (Batch, error) {
	if c == nil {
		return Batch{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	if query.Since > 0 {
		values.Set("since", strconv.FormatUint(query.Since, 10))
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	rel := &url.URL{Path: "/api/records", RawQuery: values.Encode()}
	var payload Batch
	if err := c.doURL(ctx, http.MethodGet, rel, &payload); err != nil {
		return Batch{}, err
	}
	return payload, nil
}

// FetchLink retrieves the bridge's device connection state.
func (c *Client) FetchLink(ctx context.Context) (Link, error) {
	if c == nil {
		return Link{}, fmt.Errorf("client is nil")
	}
	var payload Link
	if err := c.doURL(ctx, http.MethodGet, &url.URL{Path: "/api/link"}, &payload); err != nil {
		return Link{}, err
	}
	return payload, nil
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(addr string) (*url.URL, error) {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		trimmed = defaultBridge
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse feed url %q: %w", addr, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

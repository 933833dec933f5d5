package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "http://localhost:5002"

	searchPath = "/search"
	healthPath = "/health"
	statsPath  = "/stats"

	formContentType = "application/x-www-form-urlencoded"
)

var (
	// ErrMalformedResponse is returned when a response body is not the expected JSON object.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrUnhealthy is returned alongside the decoded body when /health reports a failure.
	ErrUnhealthy = errors.New("service unhealthy")
)

type Client struct {
	restyClient *resty.Client
}

// Option configures a Client.
type Option func(*resty.Client)

// WithTimeout bounds every request made by the client.
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) {
		c.SetTimeout(d)
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	for _, opt := range opts {
		opt(client)
	}
	return &Client{restyClient: client}
}

// EncodeComponent percent-encodes s the way a browser's encodeURIComponent does for
// the characters a domain can carry: spaces become %20, never '+'.
func EncodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Search submits domain to POST /search as a form body. The response body is decoded
// as JSON whatever the status code; a server-reported failure comes back in
// SearchResult.Error, not as an error.
func (c *Client) Search(ctx context.Context, domain string) (*SearchResult, error) {
	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", formContentType).
		SetHeader("Accept", "application/json").
		SetBody("domain=" + EncodeComponent(domain)).
		Post(searchPath)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", domain, err)
	}

	var result SearchResult
	if err := decodeObject(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("search %q (status %d): %w", domain, resp.StatusCode(), err)
	}
	return &result, nil
}

// Health queries GET /health. A 503 body is decoded and returned together with ErrUnhealthy.
func (c *Client) Health(ctx context.Context) (*HealthData, error) {
	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(healthPath)
	if err != nil {
		return nil, fmt.Errorf("health: %w", err)
	}

	var data HealthData
	if err := decodeObject(resp.Body(), &data); err != nil {
		return nil, fmt.Errorf("health (status %d): %w", resp.StatusCode(), err)
	}
	if resp.IsError() || !data.Healthy() {
		msg := data.Message
		if msg == "" {
			msg = resp.Status()
		}
		return &data, fmt.Errorf("%w: %s", ErrUnhealthy, msg)
	}
	return &data, nil
}

// Stats queries GET /stats.
func (c *Client) Stats(ctx context.Context) (*StatsData, error) {
	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(statsPath)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}

	var data StatsData
	if err := decodeObject(resp.Body(), &data); err != nil {
		return nil, fmt.Errorf("stats (status %d): %w", resp.StatusCode(), err)
	}
	if data.Error != "" {
		return nil, fmt.Errorf("API error: %s", data.Error)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("API error: %s", resp.Status())
	}
	return &data, nil
}

// decodeObject unmarshals body into v, rejecting anything that is not a JSON object.
func decodeObject(body []byte, v any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: expected a JSON object", ErrMalformedResponse)
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

package http

import (
	"context"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"

	"github.com/storacha/go-scitt/transport"
)

// maxErrorBody is the number of bytes of an unsuccessful response body kept
// in the error message.
const maxErrorBody = 512

// Option is an option configuring a HTTP channel.
type Option func(cfg *chanConfig)

type chanConfig struct {
	client   *http.Client
	headers  http.Header
	statuses []int
}

// WithClient configures the HTTP client the channel should use to make
// requests.
func WithClient(c *http.Client) Option {
	return func(cfg *chanConfig) {
		cfg.client = c
	}
}

// WithHeader configures a header that is sent with every request. Headers
// set on a request take precedence.
func WithHeader(key, value string) Option {
	return func(cfg *chanConfig) {
		if cfg.headers == nil {
			cfg.headers = http.Header{}
		}
		cfg.headers.Set(key, value)
	}
}

// WithSuccessStatusCode configures the HTTP status code(s) that will indicate a
// successful request.
func WithSuccessStatusCode(codes ...int) Option {
	return func(cfg *chanConfig) {
		cfg.statuses = codes
	}
}

type channel struct {
	url      *url.URL
	client   *http.Client
	headers  http.Header
	statuses []int
}

func (c *channel) Request(ctx context.Context, req transport.HTTPRequest) (transport.HTTPResponse, error) {
	u := c.url.JoinPath(req.Path())
	method := req.Method()
	if method == "" {
		method = http.MethodPost
	}
	hr, err := http.NewRequestWithContext(ctx, method, u.String(), req.Body())
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	hr.Header = maps.Clone(c.headers)
	if hr.Header == nil {
		hr.Header = http.Header{}
	}
	for k, v := range req.Headers() {
		hr.Header[k] = v
	}

	res, err := c.client.Do(hr)
	if err != nil {
		return nil, fmt.Errorf("doing HTTP request: %w", err)
	}
	if !slices.Contains(c.statuses, res.StatusCode) {
		defer res.Body.Close()
		msg := fmt.Sprintf("HTTP Request failed. %s %s → %d", hr.Method, u.String(), res.StatusCode)
		if body, err := io.ReadAll(io.LimitReader(res.Body, maxErrorBody)); err == nil && len(body) > 0 {
			msg = fmt.Sprintf("%s: %s", msg, body)
		}
		return nil, NewHTTPError(msg, res.StatusCode, res.Header)
	}

	return NewResponse(res.StatusCode, res.Body, res.Header), nil
}

// NewChannel creates a channel that sends requests to paths below the base
// URL.
func NewChannel(base *url.URL, options ...Option) transport.Channel {
	cfg := chanConfig{}
	for _, opt := range options {
		opt(&cfg)
	}
	if cfg.client == nil {
		cfg.client = &http.Client{}
	}
	if len(cfg.statuses) == 0 {
		cfg.statuses = append(cfg.statuses, http.StatusOK)
	}
	return &channel{
		url:      base,
		client:   cfg.client,
		headers:  cfg.headers,
		statuses: cfg.statuses,
	}
}

// Package transport provides the HTTP client shared by the external
// sources: timeouts, common headers, optional authentication and mapping
// of transport and status failures to FetchError.
package transport

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agentstation/playermap/pkg/constants"
	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/logging"
)

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 512

// Client performs GET requests against external sources.
type Client struct {
	http      *http.Client
	auth      Authenticator
	token     string
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithAuth applies auth with token to every request. An empty token
// disables authentication.
func WithAuth(auth Authenticator, token string) Option {
	return func(c *Client) {
		c.auth = auth
		c.token = token
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a new transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: constants.DefaultHTTPTimeout},
		auth:      &NoAuth{},
		userAgent: constants.UserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET request with common headers applied. Transport
// failures are returned as FetchError; the status is not checked.
func (c *Client) Get(ctx context.Context, source, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapFetch(source, url, err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" && c.auth != nil {
		c.auth.Apply(req, c.token)
	}

	logger := logging.FromContext(ctx)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug().Err(err).Str("source", source).Str("url", url).Msg("Request failed")
		return nil, wrapTransportError(source, url, err)
	}
	logger.Debug().
		Str("source", source).
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Fetched")
	return resp, nil
}

// Fetch performs a GET request and returns the body of a 200 response.
func (c *Client) Fetch(ctx context.Context, source, url, accept string) ([]byte, error) {
	resp, err := c.Get(ctx, source, url, accept)
	if err != nil {
		return nil, err
	}
	return ReadResponse(resp, source)
}

// FetchJSON performs a GET request and decodes a 200 JSON response into target.
func (c *Client) FetchJSON(ctx context.Context, source, url string, target any) error {
	resp, err := c.Get(ctx, source, url, "application/json")
	if err != nil {
		return err
	}
	return DecodeResponse(resp, source, target)
}

// ReadResponse reads and closes the response body. Any status other than
// 200 is a FetchError carrying the start of the body.
func ReadResponse(resp *http.Response, source string) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()

	url := ""
	if resp.Request != nil && resp.Request.URL != nil {
		url = resp.Request.URL.String()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapFetch(source, url, fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, errors.NewFetchError(source, url, resp.StatusCode, msg)
	}
	return body, nil
}

// DecodeResponse decodes a JSON response into the target structure.
func DecodeResponse(resp *http.Response, source string, target any) error {
	body, err := ReadResponse(resp, source)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", source, err)
	}
	return nil
}

func wrapTransportError(source, url string, err error) error {
	fe := &errors.FetchError{Source: source, URL: url, Message: err.Error(), Err: err}
	var timeout interface{ Timeout() bool }
	switch {
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.As(err, &timeout) && timeout.Timeout():
		fe.Err = stderrors.Join(errors.ErrTimeout, err)
	case stderrors.Is(err, context.Canceled):
		fe.Err = stderrors.Join(errors.ErrCanceled, err)
	}
	return fe
}

package appflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"git.home.luguber.info/inful/appflowbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/appflowbuild/internal/version"
)

// DefaultAPIURL is the public build service API.
const DefaultAPIURL = "https://api.ionicjs.com/"

// DefaultTimeout bounds every individual request.
const DefaultTimeout = 5 * time.Second

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 64 << 10

// Requester is the authenticated request/response capability the resolvers,
// dispatcher and monitor depend on.
type Requester interface {
	Get(ctx context.Context, endpoint string, result any) error
	Post(ctx context.Context, endpoint string, body, result any) error
}

// Client talks JSON to the build service with bearer token auth.
type Client struct {
	httpClient *http.Client
	apiURL     string
	token      string
	userAgent  string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests, custom transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates a client for apiURL. An empty apiURL selects DefaultAPIURL and a
// non-positive timeout selects DefaultTimeout.
func NewClient(apiURL, token string, timeout time.Duration, opts ...Option) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiURL:     apiURL,
		token:      token,
		userAgent:  version.UserAgent(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIURL returns the configured base URL.
func (c *Client) APIURL() string { return c.apiURL }

// APIError is a non-2xx response from the build service.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Status)
}

// ResponseBody exposes the captured body to the CLI error adapter.
func (e *APIError) ResponseBody() []byte { return e.Body }

// NewRequest creates an HTTP request relative to the API base URL.
// Endpoint should be a relative path like "/stacks" or "apps/{id}/commits?page=1";
// query strings are preserved and trailing slashes are kept.
func (c *Client) NewRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	cleanEndpoint := strings.TrimPrefix(endpoint, "/")

	var rawQuery string
	if idx := strings.Index(cleanEndpoint, "?"); idx != -1 {
		rawQuery = cleanEndpoint[idx+1:]
		cleanEndpoint = cleanEndpoint[:idx]
	}

	u, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, errors.ConfigError("failed to parse API URL").
			WithCause(err).
			WithContext("api_url", c.apiURL).
			Build()
	}

	basePath := strings.TrimSuffix(u.Path, "/")
	u.Path = path.Join("/", basePath, cleanEndpoint)
	if strings.HasSuffix(cleanEndpoint, "/") && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = rawQuery

	var reader io.Reader = http.NoBody
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, errors.InternalError("failed to marshal request body").WithCause(err).Build()
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, errors.InternalError("failed to create request").
			WithCause(err).
			WithContext("method", method).
			WithContext("url", u.String()).
			Build()
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

// Do executes req and decodes a 2xx JSON response into result (when non-nil).
func (c *Client) Do(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WrapError(err, errors.CategoryNetwork, "failed to execute request").
			Retryable().
			WithContext("method", req.Method).
			WithContext("url", req.URL.String()).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &APIError{
			Method:     req.Method,
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       body,
		}

		var b *errors.ErrorBuilder
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			b = errors.WrapError(apiErr, errors.CategoryAuth, "build service rejected credentials").UserAction()
		case http.StatusNotFound:
			b = errors.WrapError(apiErr, errors.CategoryNotFound, "build service resource not found")
		default:
			b = errors.WrapError(apiErr, errors.CategoryRemote, "build service API error").Retryable()
		}
		return b.WithContext("status", resp.StatusCode).
			WithContext("url", req.URL.String()).
			Build()
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return errors.WrapError(err, errors.CategoryRemote, "failed to decode response").
			Retryable().
			WithContext("url", req.URL.String()).
			Build()
	}
	return nil
}

// Get issues a GET to endpoint and decodes the response into result.
func (c *Client) Get(ctx context.Context, endpoint string, result any) error {
	req, err := c.NewRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.Do(req, result)
}

// Post issues a JSON POST to endpoint and decodes the response into result.
func (c *Client) Post(ctx context.Context, endpoint string, body, result any) error {
	req, err := c.NewRequest(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return err
	}
	return c.Do(req, result)
}

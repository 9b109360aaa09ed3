// Package supabase talks to the hosted backend's storage and auth REST endpoints.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultRetryWaitMin = 200 * time.Millisecond
	defaultRetryWaitMax = 2 * time.Second
)

// ErrNotConfigured is returned when the client has no base URL or key.
var ErrNotConfigured = errors.New("supabase: url and key are required")

// Options configures a Client.
type Options struct {
	URL string
	// Key is sent as apikey and bearer token for storage calls (service role key).
	Key          string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// Client is a thin REST client. It does not retry unless Options.RetryMax > 0.
type Client struct {
	baseURL string
	key     string
	timeout time.Duration
	http    *retryablehttp.Client
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("supabase: status %d", e.StatusCode)
	}
	return fmt.Sprintf("supabase: status %d: %s", e.StatusCode, e.Message)
}

// NewClient creates a client for the project at opts.URL.
func NewClient(opts Options) (*Client, error) {
	if opts.URL == "" || opts.Key == "" {
		return nil, ErrNotConfigured
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RetryWaitMin <= 0 {
		opts.RetryWaitMin = defaultRetryWaitMin
	}
	if opts.RetryWaitMax <= 0 {
		opts.RetryWaitMax = defaultRetryWaitMax
	}
	return &Client{
		baseURL: strings.TrimRight(opts.URL, "/"),
		key:     opts.Key,
		timeout: opts.Timeout,
		http:    createRetryableClient(opts.RetryMax, opts.RetryWaitMin, opts.RetryWaitMax),
	}, nil
}

func createRetryableClient(retryMax int, retryWaitMin, retryWaitMax time.Duration) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.RetryWaitMin = retryWaitMin
	client.RetryWaitMax = retryWaitMax
	client.Logger = nil
	client.CheckRetry = connectionOnlyRetryPolicy
	// Hand the last response back instead of retryablehttp's generic "giving up" error.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return client
}

// connectionOnlyRetryPolicy retries transport failures only; any HTTP answer is final.
func connectionOnlyRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if resp != nil {
		return false, nil
	}
	return err != nil, nil
}

// request describes one REST call.
type request struct {
	method      string
	path        string
	body        []byte
	contentType string
	headers     map[string]string
	bearer      string
}

func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body interface{}
	if r.body != nil {
		body = r.body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	bearer := r.bearer
	if bearer == "" {
		bearer = c.key
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}
	return c.do(ctx, request{method: method, path: path, body: payload, contentType: "application/json"}, out)
}

func decodeAPIError(status int, data []byte) error {
	var payload struct {
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
	}
	apiErr := &APIError{StatusCode: status}
	if err := json.Unmarshal(data, &payload); err == nil {
		for _, m := range []string{payload.Message, payload.ErrorDescription, payload.Msg, payload.Error} {
			if m != "" {
				apiErr.Message = m
				break
			}
		}
	} else {
		apiErr.Message = string(bytes.TrimSpace(data))
	}
	return apiErr
}

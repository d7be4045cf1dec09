package portainer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gotel "github.com/GlintPay/grip/otel"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
)

type Client struct {
	url         string
	token       string
	http        *http.Client
	maxRetries  uint64
	backOff     func() backoff.BackOff
	enableTrace bool
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = uint64(n)
		}
	}
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithBackOff replaces the exponential policy, e.g. with a zero-delay one in tests
func WithBackOff(f func() backoff.BackOff) Option {
	return func(c *Client) {
		c.backOff = f
	}
}

func WithTracing(enabled bool) Option {
	return func(c *Client) {
		c.enableTrace = enabled
	}
}

func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		url:        strings.TrimRight(baseURL, "/"),
		token:      token,
		http:       &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
		backOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff(backoff.WithInitialInterval(500*time.Millisecond), backoff.WithMaxElapsedTime(time.Minute))
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) GetStack(ctx context.Context, id int) (*Stack, error) {
	var resp Stack
	if err := c.do(ctx, http.MethodGet, "/api/stacks/"+strconv.Itoa(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetStackFile(ctx context.Context, id int) (string, error) {
	var resp StackFile
	if err := c.do(ctx, http.MethodGet, "/api/stacks/"+strconv.Itoa(id)+"/file", nil, nil, &resp); err != nil {
		return "", err
	}
	return resp.StackFileContent, nil
}

// UpdateStack replaces the compose file of an existing stack and redeploys it on the given endpoint
func (c *Client) UpdateStack(ctx context.Context, id int, endpointID int, req StackUpdateRequest) (*Stack, error) {
	if req.Env == nil {
		req.Env = []Pair{}
	}
	query := url.Values{"endpointId": []string{strconv.Itoa(endpointID)}}

	var resp Stack
	if err := c.do(ctx, http.MethodPut, "/api/stacks/"+strconv.Itoa(id), query, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListEndpoints(ctx context.Context) ([]Endpoint, error) {
	var resp []Endpoint
	if err := c.do(ctx, http.MethodGet, "/api/endpoints", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Status(ctx context.Context) (*SystemStatus, error) {
	var resp SystemStatus
	if err := c.do(ctx, http.MethodGet, "/api/system/status", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, result any) error {
	ctx, end := gotel.StartSpan(ctx, c.enableTrace, "portainer "+method+" "+path, gotel.ClientOptions)
	defer end()

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = data
	}

	target := c.url + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	attempt := 0
	operation := func() error {
		attempt++
		err := c.once(ctx, method, target, payload, result)
		if err == nil {
			return nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Temporary() {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}

		log.Warn().Err(err).Int("attempt", attempt).Msgf("%s %s failed", method, path)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.backOff(), c.maxRetries), ctx)
	return backoff.Retry(operation, policy)
}

func (c *Client) once(ctx context.Context, method, target string, payload []byte, result any) error {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-API-Key", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			return &APIError{
				StatusCode: resp.StatusCode,
				Message:    errResp.Message,
				Details:    errResp.Details,
			}
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
		}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

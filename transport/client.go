package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/JonathanRiche/go-quantcast/core"
	"github.com/JonathanRiche/go-quantcast/ratelimit"
)

const maxErrorBodyBytes = 4096

type Config struct {
	Endpoint             string
	Timeout              time.Duration
	RetryAttempts        int
	RetryDelay           time.Duration
	MaxResponseBodyBytes int64
}

func DefaultConfig() Config {
	return Config{
		Endpoint:             core.DefaultEndpoint,
		Timeout:              core.DefaultTimeoutMS * time.Millisecond,
		RetryAttempts:        core.DefaultRetryAttempts,
		RetryDelay:           core.DefaultRetryDelayMS * time.Millisecond,
		MaxResponseBodyBytes: defaultResponseBodyLimit,
	}
}

// ConfigFromCore converts the millisecond settings of core.Config.
func ConfigFromCore(cfg core.Config) Config {
	out := DefaultConfig()
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		out.Endpoint = endpoint
	}
	if cfg.TimeoutMS > 0 {
		out.Timeout = cfg.Timeout()
	}
	if cfg.RetryAttempts > 0 {
		out.RetryAttempts = cfg.RetryAttempts
	}
	if cfg.RetryDelayMS >= 0 {
		out.RetryDelay = cfg.RetryDelay()
	}
	return out
}

// Sleeper waits for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration) error

func ContextSleeper(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type Option func(*Client)

func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.graphql = NewGraphQLAdapter(c.config.Endpoint, client)
		}
	}
}

func WithSleeper(sleeper Sleeper) Option {
	return func(c *Client) {
		if sleeper != nil {
			c.sleep = sleeper
		}
	}
}

func WithLogger(logger core.Logger) Option {
	return func(c *Client) {
		c.observer.Logger = logger
	}
}

func WithMetricsRecorder(recorder core.MetricsRecorder) Option {
	return func(c *Client) {
		c.observer.Metrics = recorder
	}
}

func WithRateLimitTracker(tracker *ratelimit.Tracker) Option {
	return func(c *Client) {
		c.tracker = tracker
	}
}

// Client executes GraphQL requests with bearer authentication, a
// per-attempt deadline and linear-backoff retries for transient failures.
type Client struct {
	config   Config
	tokens   core.TokenProvider
	graphql  *GraphQLAdapter
	sleep    Sleeper
	tracker  *ratelimit.Tracker
	observer core.Observer
}

func NewClient(tokens core.TokenProvider, cfg Config, opts ...Option) (*Client, error) {
	if tokens == nil {
		return nil, fmt.Errorf("transport: token provider is required")
	}
	defaults := DefaultConfig()
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaults.Endpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = defaults.RetryAttempts
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = defaults.RetryDelay
	}
	if cfg.MaxResponseBodyBytes <= 0 {
		cfg.MaxResponseBodyBytes = defaults.MaxResponseBodyBytes
	}

	client := &Client{
		config:   cfg,
		tokens:   tokens,
		sleep:    ContextSleeper,
		observer: core.Observer{Prefix: "quantcast"},
	}
	client.graphql = NewGraphQLAdapter(cfg.Endpoint, nil)
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

func (c *Client) Config() Config {
	return c.config
}

// Query runs req, retrying network and HTTP failures up to the configured
// number of attempts with a delay of RetryDelay times the attempt number.
func (c *Client) Query(ctx context.Context, req core.GraphQLRequest) (core.GraphQLResponse, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	body, err := c.graphql.Encode(req)
	if err != nil {
		return core.GraphQLResponse{}, err
	}
	operation := strings.TrimSpace(req.OperationName)

	var lastErr error
	for attempt := 1; attempt <= c.config.RetryAttempts; attempt++ {
		resp, err := c.execute(ctx, body, operation, attempt)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !core.IsRetryable(err) || attempt >= c.config.RetryAttempts {
			break
		}

		delay := c.config.RetryDelay * time.Duration(attempt)
		c.observer.Count(ctx, "graphql.retry.total", 1, map[string]string{"kind": string(core.KindOf(err))})
		c.observer.Log(ctx, "warn", "graphql attempt failed, retrying", map[string]any{
			"attempt":        attempt,
			"delay_ms":       delay.Milliseconds(),
			"operation_name": operation,
			"error":          err.Error(),
		})
		if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
			break
		}
	}
	return core.GraphQLResponse{}, lastErr
}

// RateLimitInfo normalizes the telemetry block of resp.
func (c *Client) RateLimitInfo(resp core.GraphQLResponse) (core.RateLimitInfo, bool) {
	return ratelimit.Extract(resp)
}

func (c *Client) execute(ctx context.Context, body []byte, operation string, attempt int) (resp core.GraphQLResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"attempt": attempt, "operation_name": operation}
	defer func() {
		if resp.StatusCode > 0 {
			fields["status_code"] = resp.StatusCode
		}
		c.observer.Observe(ctx, startedAt, "graphql.attempt", err, fields)
	}()

	token, err := c.tokens.GetValidToken(ctx)
	if err != nil {
		if core.KindOf(err) == core.KindAuthentication {
			return core.GraphQLResponse{}, err
		}
		return core.GraphQLResponse{}, core.NewAuthenticationError("transport: obtain access token", 0, "", err)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	res, err := c.graphql.Post(attemptCtx, body, map[string]string{
		"Authorization": "Bearer " + token,
	}, 0, c.config.MaxResponseBodyBytes)
	if err != nil {
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return core.GraphQLResponse{}, core.NewNetworkError(
				fmt.Sprintf("request timeout after %dms", c.config.Timeout.Milliseconds()),
				true,
				err,
			)
		}
		return core.GraphQLResponse{}, core.NewNetworkError("network request failed", false, err)
	}
	fields["status_code"] = res.StatusCode
	return c.classify(res)
}

func (c *Client) classify(res core.TransportResponse) (core.GraphQLResponse, error) {
	status := res.StatusCode
	text := truncate(string(res.Body), maxErrorBodyBytes)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return core.GraphQLResponse{StatusCode: status}, core.NewAuthenticationError(
			fmt.Sprintf("authentication failed: %d %s", status, text),
			status,
			text,
			nil,
		)
	case status == http.StatusTooManyRequests:
		details := ratelimit.FromHeaders(res.Headers)
		c.tracker.ObserveThrottle(details)
		rateErr := core.NewRateLimitError(fmt.Sprintf("rate limit exceeded: %s", text), details)
		rateErr.Body = text
		return core.GraphQLResponse{StatusCode: status}, rateErr
	case status < 200 || status > 299:
		return core.GraphQLResponse{StatusCode: status}, core.NewHTTPError(status, text)
	}

	var envelope core.GraphQLResponse
	if err := json.Unmarshal(res.Body, &envelope); err != nil {
		return core.GraphQLResponse{StatusCode: status}, core.NewNetworkError("decode graphql response", false, err)
	}
	envelope.StatusCode = status
	if info, ok := ratelimit.Extract(envelope); ok {
		c.tracker.ObserveTelemetry(info)
	}
	if len(envelope.Errors) > 0 {
		return envelope, core.NewGraphQLError(status, envelope.Errors)
	}
	return envelope, nil
}

func truncate(value string, limit int) string {
	if limit <= 0 || len(value) <= limit {
		return value
	}
	return value[:limit]
}

var _ core.GraphQLExecutor = (*Client)(nil)

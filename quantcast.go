// Package quantcast is a client for the Quantcast GraphQL API. It combines an
// OAuth2 client-credentials token manager with a retrying GraphQL transport
// and exposes typed account, campaign and report operations.
package quantcast

import (
	"context"
	"fmt"
	"time"

	"github.com/JonathanRiche/go-quantcast/auth"
	"github.com/JonathanRiche/go-quantcast/core"
	"github.com/JonathanRiche/go-quantcast/queries"
	"github.com/JonathanRiche/go-quantcast/ratelimit"
	"github.com/JonathanRiche/go-quantcast/transport"
	glog "github.com/goliatone/go-logger/glog"
)

type Config = core.Config

type Credentials = core.Credentials

type Error = core.Error

type ErrorKind = core.ErrorKind

const (
	KindAuthentication = core.KindAuthentication
	KindRateLimit      = core.KindRateLimit
	KindGraphQL        = core.KindGraphQL
	KindNetwork        = core.KindNetwork
	KindHTTP           = core.KindHTTP
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// Client is safe for concurrent use. All operations share one token manager
// and one transport.
type Client struct {
	config    Config
	tokens    core.TokenProvider
	transport *transport.Client
	tracker   *ratelimit.Tracker
	ledger    core.ReportLedger
	sleep     transport.Sleeper
	now       func() time.Time
	logger    core.Logger
	observer  core.Observer
}

// New resolves cfg against the configured provider and defaults, then wires
// the token manager and transport.
func New(cfg Config, opts ...Option) (*Client, error) {
	b := defaultClientBuilder()
	for _, opt := range opts {
		if opt != nil {
			opt(&b)
		}
	}

	resolved, err := core.ResolveConfig(context.Background(), b.configProvider, b.optionsResolver, cfg)
	if err != nil {
		return nil, err
	}

	loggerProvider, logger := glog.Resolve("quantcast", b.loggerProvider, b.logger)
	metrics := b.metricsRecorder
	if metrics == nil {
		metrics = core.NopMetricsRecorder{}
	}
	tracker := b.tracker
	if tracker == nil {
		tracker = ratelimit.NewTracker()
	}

	tokens := b.tokens
	if tokens == nil {
		if err := resolved.Credentials().Validate(); err != nil {
			return nil, fmt.Errorf("quantcast: %w", err)
		}
		tokens, err = auth.NewTokenManager(auth.TokenManagerConfig{
			Credentials:    resolved.Credentials(),
			TokenURL:       resolved.AuthURL,
			HTTPClient:     b.httpClient,
			RequestTimeout: resolved.Timeout(),
			Now:            b.now,
			Logger:         loggerProvider.GetLogger("quantcast.auth"),
			Metrics:        metrics,
		})
		if err != nil {
			return nil, err
		}
	}

	transportOpts := []transport.Option{
		transport.WithLogger(loggerProvider.GetLogger("quantcast.transport")),
		transport.WithMetricsRecorder(metrics),
		transport.WithRateLimitTracker(tracker),
		transport.WithSleeper(b.sleep),
	}
	if b.httpClient != nil {
		transportOpts = append(transportOpts, transport.WithHTTPClient(b.httpClient))
	}
	executor, err := transport.NewClient(tokens, transport.ConfigFromCore(resolved), transportOpts...)
	if err != nil {
		return nil, err
	}

	now := b.now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Client{
		config:    resolved,
		tokens:    tokens,
		transport: executor,
		tracker:   tracker,
		ledger:    b.ledger,
		sleep:     b.sleep,
		now:       now,
		logger:    logger,
		observer:  core.Observer{Logger: logger, Metrics: metrics, Prefix: "quantcast"},
	}, nil
}

func (c *Client) Config() Config {
	return c.config
}

// Query sends a raw GraphQL request through the resilient transport.
func (c *Client) Query(ctx context.Context, req core.GraphQLRequest) (core.GraphQLResponse, error) {
	return c.transport.Query(ctx, req)
}

// AuthInfo reports the token manager state without network access.
func (c *Client) AuthInfo() core.TokenInfo {
	return c.tokens.TokenInfo()
}

// RefreshAuthToken forces a token refresh.
func (c *Client) RefreshAuthToken(ctx context.Context) (string, error) {
	return c.tokens.RefreshToken(ctx)
}

// LastRateLimit returns the last rate-limit state observed by any operation.
func (c *Client) LastRateLimit() ratelimit.Snapshot {
	return c.tracker.Snapshot()
}

// GetRateLimitInfo issues a minimal accounts query and returns its telemetry.
// The boolean is false when the server sent none.
func (c *Client) GetRateLimitInfo(ctx context.Context) (core.RateLimitInfo, bool, error) {
	limit := 1
	resp, err := c.run(ctx, "get_rate_limit_info", queries.GetAccounts, AccountsArgs{Limit: &limit}, nil, nil)
	if err != nil {
		return core.RateLimitInfo{}, false, err
	}
	info, ok := c.transport.RateLimitInfo(resp)
	return info, ok, nil
}

var _ core.GraphQLExecutor = (*Client)(nil)

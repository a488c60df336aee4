package quantcast

import (
	"net/http"
	"time"

	"github.com/JonathanRiche/go-quantcast/core"
	"github.com/JonathanRiche/go-quantcast/ratelimit"
	"github.com/JonathanRiche/go-quantcast/transport"
)

type clientBuilder struct {
	logger          core.Logger
	loggerProvider  core.LoggerProvider
	metricsRecorder core.MetricsRecorder
	configProvider  core.ConfigProvider
	optionsResolver core.OptionsResolver
	httpClient      *http.Client
	tokens          core.TokenProvider
	tracker         *ratelimit.Tracker
	ledger          core.ReportLedger
	sleep           transport.Sleeper
	now             func() time.Time
}

type Option func(*clientBuilder)

func defaultClientBuilder() clientBuilder {
	return clientBuilder{
		configProvider:  core.NewCfgxConfigProvider(nil),
		optionsResolver: core.GoOptionsResolver{},
		sleep:           transport.ContextSleeper,
	}
}

func WithLogger(logger core.Logger) Option {
	return func(b *clientBuilder) {
		b.logger = logger
	}
}

func WithLoggerProvider(provider core.LoggerProvider) Option {
	return func(b *clientBuilder) {
		b.loggerProvider = provider
	}
}

func WithMetricsRecorder(recorder core.MetricsRecorder) Option {
	return func(b *clientBuilder) {
		b.metricsRecorder = recorder
	}
}

// WithConfigProvider sets where configuration is loaded from before runtime
// values are layered on top. The default loads nothing.
func WithConfigProvider(provider core.ConfigProvider) Option {
	return func(b *clientBuilder) {
		if provider != nil {
			b.configProvider = provider
		}
	}
}

func WithOptionsResolver(resolver core.OptionsResolver) Option {
	return func(b *clientBuilder) {
		if resolver != nil {
			b.optionsResolver = resolver
		}
	}
}

// WithHTTPClient is used for both token and GraphQL requests.
func WithHTTPClient(client *http.Client) Option {
	return func(b *clientBuilder) {
		b.httpClient = client
	}
}

// WithTokenProvider replaces the built-in token manager.
func WithTokenProvider(tokens core.TokenProvider) Option {
	return func(b *clientBuilder) {
		b.tokens = tokens
	}
}

func WithRateLimitTracker(tracker *ratelimit.Tracker) Option {
	return func(b *clientBuilder) {
		b.tracker = tracker
	}
}

// WithReportLedger records async report requests and their status.
func WithReportLedger(ledger core.ReportLedger) Option {
	return func(b *clientBuilder) {
		b.ledger = ledger
	}
}

// WithSleeper replaces the wait used between retries and report polls.
func WithSleeper(sleeper transport.Sleeper) Option {
	return func(b *clientBuilder) {
		if sleeper != nil {
			b.sleep = sleeper
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *clientBuilder) {
		b.now = now
	}
}

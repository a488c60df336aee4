// Package cli implements the quantcast command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	quantcast "github.com/JonathanRiche/go-quantcast"
	"github.com/JonathanRiche/go-quantcast/adapters/gologger"
	"github.com/JonathanRiche/go-quantcast/command"
	"github.com/JonathanRiche/go-quantcast/core"
	"github.com/JonathanRiche/go-quantcast/metrics/prom"
	"github.com/JonathanRiche/go-quantcast/query"
	sqlstore "github.com/JonathanRiche/go-quantcast/store/sql"
	"github.com/JonathanRiche/go-quantcast/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

// App carries the process environment of one CLI invocation. Zero fields
// fall back to the real process.
type App struct {
	Stdout     io.Writer
	Stderr     io.Writer
	LookupEnv  func(key string) (string, bool)
	HTTPClient *http.Client
	Sleeper    transport.Sleeper
	Now        func() time.Time

	flags    globalFlags
	client   *quantcast.Client
	ledger   core.ReportLedger
	logger   *gologger.ZapLogger
	registry *prometheus.Registry
	cleanup  []func()
}

type globalFlags struct {
	format        string
	verbose       bool
	endpoint      string
	timeoutMS     int
	retryAttempts int
	retryDelayMS  int
	ledger        string
}

func NewApp() *App {
	return &App{
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		LookupEnv: os.LookupEnv,
	}
}

// Run executes args and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	a.defaults()
	root := a.RootCommand()
	root.SetArgs(args)
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)

	err := root.ExecuteContext(ctx)
	a.close()
	if err != nil {
		fmt.Fprintf(a.Stderr, "Error: %s\n", describeError(err))
		return ExitCode(err)
	}
	return 0
}

func (a *App) RootCommand() *cobra.Command {
	a.defaults()
	root := &cobra.Command{
		Use:           "quantcast",
		Short:         "Query the Quantcast GraphQL API",
		Long:          "Query accounts, campaigns and metrics reports from the Quantcast GraphQL API.\nCredentials are read from QUANTCAST_API_KEY and QUANTCAST_API_SECRET.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.flags.format, "format", formatJSON, "Output format: json|table")
	flags.BoolVar(&a.flags.verbose, "verbose", false, "Enable debug logging and print client metrics on exit")
	flags.StringVar(&a.flags.endpoint, "endpoint", "", "GraphQL endpoint (default from QUANTCAST_ENDPOINT or the public API)")
	flags.IntVar(&a.flags.timeoutMS, "timeout", 0, "Per-attempt timeout in milliseconds")
	flags.IntVar(&a.flags.retryAttempts, "retry-attempts", 0, "Total attempts per request")
	flags.IntVar(&a.flags.retryDelayMS, "retry-delay", 0, "Base retry delay in milliseconds")
	flags.StringVar(&a.flags.ledger, "ledger", "", "Report ledger DSN (sqlite path or postgres:// URL)")

	root.AddCommand(
		a.accountsCommand(),
		a.accountCommand(),
		a.campaignsCommand(),
		a.campaignCommand(),
		a.campaignsWithAdsetsCommand(),
		a.metricsCommand(),
		a.reportCommand(),
		a.asyncReportCommand(),
		a.asyncReportStatusCommand(),
		a.reportsCommand(),
		a.authInfoCommand(),
		a.rateLimitCommand(),
	)
	return root
}

func (a *App) defaults() {
	if a.Stdout == nil {
		a.Stdout = os.Stdout
	}
	if a.Stderr == nil {
		a.Stderr = os.Stderr
	}
	if a.LookupEnv == nil {
		a.LookupEnv = os.LookupEnv
	}
}

func (a *App) setup(ctx context.Context) error {
	switch a.flags.format {
	case formatJSON, formatTable:
	default:
		return fmt.Errorf("unknown format %q (use json or table)", a.flags.format)
	}

	level := "warn"
	if a.flags.verbose {
		level = "debug"
	}
	a.logger = gologger.NewJSONLogger(a.Stderr, level)
	a.cleanup = append(a.cleanup, func() { _ = a.logger.Sync() })

	a.registry = prometheus.NewRegistry()
	recorder, err := prom.NewRecorder(a.registry)
	if err != nil {
		return err
	}

	runtime := core.Config{
		Endpoint:      a.flags.endpoint,
		TimeoutMS:     a.flags.timeoutMS,
		RetryAttempts: a.flags.retryAttempts,
		RetryDelayMS:  a.flags.retryDelayMS,
		ReportLedger:  a.flags.ledger,
	}
	provider := core.NewCfgxConfigProvider(core.EnvConfigLoader{Lookup: a.LookupEnv})
	resolved, err := core.ResolveConfig(ctx, provider, core.GoOptionsResolver{}, runtime)
	if err != nil {
		return err
	}
	if resolved.Credentials().Validate() != nil {
		return errMissingCredentials
	}

	opts := []quantcast.Option{
		quantcast.WithLoggerProvider(a.logger),
		quantcast.WithMetricsRecorder(recorder),
		quantcast.WithHTTPClient(a.HTTPClient),
		quantcast.WithSleeper(a.Sleeper),
	}
	if a.Now != nil {
		opts = append(opts, quantcast.WithClock(a.Now))
	}
	if dsn := strings.TrimSpace(resolved.ReportLedger); dsn != "" {
		store, err := a.openLedger(ctx, dsn)
		if err != nil {
			return err
		}
		a.ledger = store
		opts = append(opts, quantcast.WithReportLedger(store))
	}

	client, err := quantcast.New(resolved, opts...)
	if err != nil {
		return err
	}
	a.client = client

	var requests query.ReportRequestReader
	if a.ledger != nil {
		requests = a.ledger
	}
	querySubs := query.Subscribe(client, requests)
	commandSubs := command.Subscribe(client)
	a.cleanup = append(a.cleanup, querySubs.Unsubscribe, commandSubs.Unsubscribe)
	return nil
}

func (a *App) openLedger(ctx context.Context, dsn string) (*sqlstore.ReportStore, error) {
	persistenceClient, err := sqlstore.Open(ctx, dsn, a.flags.verbose)
	if err != nil {
		return nil, fmt.Errorf("open report ledger: %w", err)
	}
	a.cleanup = append(a.cleanup, func() { _ = persistenceClient.Close() })
	return sqlstore.NewReportStore(persistenceClient.DB())
}

func (a *App) close() {
	if a.flags.verbose && a.registry != nil && a.logger != nil {
		a.logMetrics()
	}
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	a.cleanup = nil
}

// logMetrics writes one debug line per counter series recorded during the
// invocation.
func (a *App) logMetrics() {
	families, err := a.registry.Gather()
	if err != nil {
		return
	}
	for _, family := range families {
		if !strings.HasSuffix(family.GetName(), "_total") {
			continue
		}
		for _, metric := range family.GetMetric() {
			fields := []any{"value", metric.GetCounter().GetValue()}
			labels := metric.GetLabel()
			sort.SliceStable(labels, func(i, j int) bool { return labels[i].GetName() < labels[j].GetName() })
			for _, label := range labels {
				if label.GetValue() != "" {
					fields = append(fields, label.GetName(), label.GetValue())
				}
			}
			a.logger.Debug("client metric", fields...)
		}
	}
}

func (a *App) progressf(format string, args ...any) {
	fmt.Fprintf(a.Stderr, format+"\n", args...)
}

var errMissingCredentials = errors.New("missing credentials: set QUANTCAST_API_KEY and QUANTCAST_API_SECRET")

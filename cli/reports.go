package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	quantcast "github.com/JonathanRiche/go-quantcast"
	"github.com/JonathanRiche/go-quantcast/adapters/gocommand"
	"github.com/JonathanRiche/go-quantcast/command"
	"github.com/JonathanRiche/go-quantcast/core"
	"github.com/JonathanRiche/go-quantcast/query"
	"github.com/spf13/cobra"
)

const (
	defaultStartDate      = "2024-01-01"
	defaultEndDate        = "2024-01-31"
	defaultAsyncEndDate   = "2024-03-31"
	defaultTimezone       = "UTC"
	defaultMetrics        = "Impressions"
	defaultBreakdowns     = "Campaign Name"
	allMetricsPlaceholder = "ALL"
)

type reportFlags struct {
	startDate  string
	endDate    string
	timezone   string
	metrics    string
	breakdowns string
	filters    []string
}

func (f *reportFlags) bind(cmd *cobra.Command, endDate string) {
	flags := cmd.Flags()
	flags.StringVar(&f.startDate, "start-date", defaultStartDate, "Start date (YYYY-MM-DD)")
	flags.StringVar(&f.endDate, "end-date", endDate, "End date (YYYY-MM-DD)")
	flags.StringVar(&f.metrics, "metrics", defaultMetrics, `Comma-separated metrics, or "ALL" for every available metric`)
	flags.StringVar(&f.breakdowns, "breakdowns", defaultBreakdowns, "Comma-separated breakdowns")
	flags.StringArrayVar(&f.filters, "filter", nil, "Filter as breakdown=value1,value2 (repeatable)")
}

func (a *App) metricsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics <accountId>",
		Short: "List the metrics and breakdowns available to an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseID("account", args[0])
			if err != nil {
				return err
			}
			a.progressf("Fetching available metrics and breakdowns for account %d...", accountID)
			available, err := a.availableMetrics(cmd.Context(), accountID)
			if err != nil {
				return err
			}

			out := struct {
				Breakdowns []string `json:"breakdowns"`
				Metrics    []string `json:"metrics"`
			}{Breakdowns: available.BreakdownNames(), Metrics: available.MetricNames()}
			rows := make([][]string, 0, len(out.Breakdowns)+len(out.Metrics))
			for _, name := range out.Breakdowns {
				rows = append(rows, []string{"breakdown", name})
			}
			for _, name := range out.Metrics {
				rows = append(rows, []string{"metric", name})
			}
			return a.render(out, []string{"Kind", "Name"}, rows)
		},
	}
}

func (a *App) reportCommand() *cobra.Command {
	var flags reportFlags
	cmd := &cobra.Command{
		Use:   "report <accountId>",
		Short: "Run a synchronous metrics report for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseID("account", args[0])
			if err != nil {
				return err
			}
			if err := validateDates(flags.startDate, flags.endDate); err != nil {
				return err
			}
			filters, err := parseFilters(flags.filters)
			if err != nil {
				return err
			}
			metrics, err := a.resolveMetrics(cmd.Context(), accountID, splitList(flags.metrics))
			if err != nil {
				return err
			}
			breakdowns := splitList(flags.breakdowns)

			a.progressf("Generating report for account %d...", accountID)
			a.progressf("Date range: %s to %s", flags.startDate, flags.endDate)
			a.progressf("Metrics: %s", strings.Join(metrics, ", "))
			a.progressf("Breakdowns: %s", strings.Join(breakdowns, ", "))

			rows, err := gocommand.Query[query.AccountMetricsReportMessage, []core.MetricsReportRow](cmd.Context(), query.AccountMetricsReportMessage{
				Args: core.AccountMetricsReportArgs{
					AccountID:  accountID,
					StartDate:  flags.startDate,
					EndDate:    flags.endDate,
					Timezone:   flags.timezone,
					Filters:    filters,
					Breakdowns: breakdowns,
					Metrics:    metrics,
				},
			})
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				a.progressf("No data found for the specified parameters")
			} else {
				a.progressf("Report (%d rows)", len(rows))
			}

			flat := make([]map[string]any, 0, len(rows))
			for _, row := range rows {
				flat = append(flat, row.Flatten())
			}
			headers, cells := reportTable(rows)
			return a.render(flat, headers, cells)
		},
	}
	flags.bind(cmd, defaultEndDate)
	cmd.Flags().StringVar(&flags.timezone, "timezone", defaultTimezone, "Report timezone")
	return cmd
}

func (a *App) asyncReportCommand() *cobra.Command {
	var (
		flags        reportFlags
		pollInterval time.Duration
		pollAttempts int
		noWait       bool
	)
	cmd := &cobra.Command{
		Use:   "async-report <accountId>",
		Short: "Request a large metrics report and wait for its download URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseID("account", args[0])
			if err != nil {
				return err
			}
			if err := validateDates(flags.startDate, flags.endDate); err != nil {
				return err
			}
			filters, err := parseFilters(flags.filters)
			if err != nil {
				return err
			}
			metrics, err := a.resolveMetrics(cmd.Context(), accountID, splitList(flags.metrics))
			if err != nil {
				return err
			}

			entity := core.Entity{ID: accountID, Type: core.EntityTypeAccount}
			a.progressf("Requesting async report for account %d...", accountID)
			record, err := gocommand.DispatchResult[command.RequestAsyncReportMessage, core.AsyncMetricsReportRecord](cmd.Context(), command.RequestAsyncReportMessage{
				Args: core.AsyncMetricsReportArgs{
					MetricsReportRequest: core.MetricsReportRequestInput{
						Entity: entity,
						DateRange: core.AbsoluteDateRange{AbsoluteDateRange: core.DateRange{
							StartDate: flags.startDate,
							EndDate:   flags.endDate,
						}},
						Filters:    filters,
						Breakdowns: splitList(flags.breakdowns),
						Metrics:    metrics,
					},
					FileName: fmt.Sprintf("Report_%d_%d", accountID, a.now().UnixMilli()),
				},
			})
			if err != nil {
				return err
			}
			a.progressf("Report requested with ID: %d", record.ReportRequestID)
			a.progressf("Status: %s", record.Status)
			if noWait {
				return a.renderFields(record, [][2]string{
					{"Report request", strconv.FormatInt(record.ReportRequestID, 10)},
					{"Status", string(record.Status)},
					{"File", record.FileName},
				})
			}

			a.progressf("Polling for completion...")
			result, err := a.client.WaitForAsyncReport(cmd.Context(), core.AsyncMetricsReportDownloadArgs{
				Entity:          entity,
				ReportRequestID: record.ReportRequestID,
			}, quantcast.PollOptions{
				Interval:    pollInterval,
				MaxAttempts: pollAttempts,
				OnPoll: func(attempt int, status core.AsyncMetricsReportDownloadURL) {
					a.progressf("Check %d: Status is %s", attempt, status.Status)
				},
			})
			if err != nil {
				return err
			}
			return a.renderDownload(record.ReportRequestID, result)
		},
	}
	flags.bind(cmd, defaultAsyncEndDate)
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", quantcast.DefaultPollInterval, "Wait between status checks")
	cmd.Flags().IntVar(&pollAttempts, "poll-attempts", quantcast.DefaultPollMaxAttempts, "Maximum status checks")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Return after the report is requested")
	return cmd
}

func (a *App) asyncReportStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "async-report-status <accountId> <reportRequestId>",
		Short: "Check an async report once",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseID("account", args[0])
			if err != nil {
				return err
			}
			reportRequestID, err := parseID("report request", args[1])
			if err != nil {
				return err
			}
			result, err := gocommand.Query[query.AsyncReportStatusMessage, core.AsyncMetricsReportDownloadURL](cmd.Context(), query.AsyncReportStatusMessage{
				Args: core.AsyncMetricsReportDownloadArgs{
					Entity:          core.Entity{ID: accountID, Type: core.EntityTypeAccount},
					ReportRequestID: reportRequestID,
				},
			})
			if err != nil {
				return err
			}
			return a.renderDownload(reportRequestID, result)
		},
	}
}

func (a *App) reportsCommand() *cobra.Command {
	var entityID int64
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List async report requests recorded in the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.ledger == nil {
				return fmt.Errorf("report ledger is not configured (use --ledger or QUANTCAST_REPORT_LEDGER)")
			}
			entries, err := gocommand.Query[query.ListReportRequestsMessage, []core.ReportLedgerEntry](cmd.Context(), query.ListReportRequestsMessage{EntityID: entityID})
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					strconv.FormatInt(entry.ReportRequestID, 10),
					string(entry.EntityType),
					strconv.FormatInt(entry.EntityID, 10),
					string(entry.Status),
					entry.FileName,
					entry.DownloadURL,
					entry.CreatedAt.Format(time.RFC3339),
				})
			}
			return a.render(entries, []string{"Report request", "Entity type", "Entity", "Status", "File", "Download URL", "Created"}, rows)
		},
	}
	cmd.Flags().Int64Var(&entityID, "entity", 0, "Only list requests for this entity ID")
	return cmd
}

func (a *App) renderDownload(reportRequestID int64, result core.AsyncMetricsReportDownloadURL) error {
	switch result.Status {
	case core.AsyncReportCompleted:
		a.progressf("Report is ready")
	case core.AsyncReportFailed:
		a.progressf("Report generation failed")
	case core.AsyncReportTimeout:
		a.progressf("Report generation timed out")
	}
	if err := a.renderFields(result, [][2]string{
		{"Report request", strconv.FormatInt(reportRequestID, 10)},
		{"Status", string(result.Status)},
		{"Download URL", result.DownloadURL},
		{"Expires", result.ExpiresAt},
	}); err != nil {
		return err
	}
	if result.Status == core.AsyncReportFailed || result.Status == core.AsyncReportTimeout {
		return fmt.Errorf("report %d finished with status %s", reportRequestID, result.Status)
	}
	return nil
}

func (a *App) availableMetrics(ctx context.Context, accountID int64) (core.AvailableBreakdownsAndMetrics, error) {
	return gocommand.Query[query.AvailableBreakdownsAndMetricsMessage, core.AvailableBreakdownsAndMetrics](ctx, query.AvailableBreakdownsAndMetricsMessage{AccountID: accountID})
}

// resolveMetrics expands a lone "ALL" into every metric the account offers.
func (a *App) resolveMetrics(ctx context.Context, accountID int64, metrics []string) ([]string, error) {
	if len(metrics) != 1 || !strings.EqualFold(metrics[0], allMetricsPlaceholder) {
		return metrics, nil
	}
	a.progressf("Fetching all available metrics for account %d...", accountID)
	available, err := a.availableMetrics(ctx, accountID)
	if err != nil {
		return nil, err
	}
	names := available.MetricNames()
	a.progressf("Found %d available metrics", len(names))
	return names, nil
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// reportTable orders columns by first appearance, breakdowns before metrics.
func reportTable(rows []core.MetricsReportRow) ([]string, [][]string) {
	var headers []string
	seen := map[string]bool{}
	add := func(key string) {
		if !seen[key] {
			seen[key] = true
			headers = append(headers, key)
		}
	}
	for _, row := range rows {
		for _, breakdown := range row.Breakdowns {
			add(breakdown.Key)
		}
	}
	for _, row := range rows {
		for _, metric := range row.Metrics {
			add(metric.Key)
		}
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		flat := row.Flatten()
		line := make([]string, len(headers))
		for i, header := range headers {
			if value, ok := flat[header]; ok && value != nil {
				line[i] = fmt.Sprint(value)
			}
		}
		cells = append(cells, line)
	}
	return headers, cells
}

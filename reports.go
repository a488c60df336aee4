package quantcast

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonathanRiche/go-quantcast/core"
	"github.com/JonathanRiche/go-quantcast/queries"
	"github.com/google/uuid"
)

const (
	DefaultPollInterval    = 10 * time.Second
	DefaultPollMaxAttempts = 30
)

// ErrPollExhausted is returned by WaitForAsyncReport when the report is still
// not in a terminal state after the last poll.
var ErrPollExhausted = errors.New("quantcast: async report still in progress after maximum poll attempts")

type PollOptions struct {
	Interval    time.Duration
	MaxAttempts int
	// OnPoll is called after every status check with the 1-based attempt.
	OnPoll func(attempt int, status core.AsyncMetricsReportDownloadURL)
}

func (o PollOptions) withDefaults() PollOptions {
	if o.Interval <= 0 {
		o.Interval = DefaultPollInterval
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultPollMaxAttempts
	}
	return o
}

func (c *Client) GetAccountMetricsReport(ctx context.Context, args core.AccountMetricsReportArgs) ([]core.MetricsReportRow, error) {
	var data struct {
		Rows []core.MetricsReportRow `json:"accountMetricsReport"`
	}
	fields := map[string]any{"account_id": args.AccountID}
	if _, err := c.run(ctx, "get_account_metrics_report", queries.AccountMetricsReport, args, &data, fields); err != nil {
		return nil, err
	}
	if data.Rows == nil {
		return []core.MetricsReportRow{}, nil
	}
	return data.Rows, nil
}

func (c *Client) GetAvailableBreakdownsAndMetrics(ctx context.Context, accountID int64) (core.AvailableBreakdownsAndMetrics, error) {
	var data struct {
		Available core.AvailableBreakdownsAndMetrics `json:"availableBreakdownsAndMetrics"`
	}
	variables := map[string]any{"accountId": accountID}
	fields := map[string]any{"account_id": accountID}
	if _, err := c.run(ctx, "get_available_breakdowns_and_metrics", queries.AvailableBreakdownsAndMetrics, variables, &data, fields); err != nil {
		return core.AvailableBreakdownsAndMetrics{}, err
	}
	return data.Available, nil
}

// RequestAsyncMetricsReport starts a report job. When a ledger is configured
// the request is recorded; ledger failures are logged, not returned.
func (c *Client) RequestAsyncMetricsReport(ctx context.Context, args core.AsyncMetricsReportArgs) (core.AsyncMetricsReportRecord, error) {
	var data struct {
		Record core.AsyncMetricsReportRecord `json:"asyncMetricsReport"`
	}
	entity := args.MetricsReportRequest.Entity
	fields := map[string]any{"entity_id": entity.ID, "entity_type": string(entity.Type)}
	if _, err := c.run(ctx, "request_async_metrics_report", queries.AsyncMetricsReport, args, &data, fields); err != nil {
		return core.AsyncMetricsReportRecord{}, err
	}
	record := data.Record
	if record.FileName == "" {
		record.FileName = args.FileName
	}

	if c.ledger != nil {
		now := c.now()
		_, err := c.ledger.Record(ctx, core.ReportLedgerEntry{
			ID:              uuid.NewString(),
			EntityType:      entity.Type,
			EntityID:        entity.ID,
			ReportRequestID: record.ReportRequestID,
			FileName:        record.FileName,
			Status:          record.Status,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			c.observer.Log(ctx, "warn", "report ledger record failed", map[string]any{
				"report_request_id": record.ReportRequestID,
				"error":             err.Error(),
			})
		}
	}
	return record, nil
}

func (c *Client) GetAsyncMetricsReportDownloadURL(ctx context.Context, args core.AsyncMetricsReportDownloadArgs) (core.AsyncMetricsReportDownloadURL, error) {
	var data struct {
		Download core.AsyncMetricsReportDownloadURL `json:"asyncMetricsReportDownloadURL"`
	}
	fields := map[string]any{"report_request_id": args.ReportRequestID, "entity_id": args.Entity.ID}
	if _, err := c.run(ctx, "get_async_metrics_report_download_url", queries.GetAsyncMetricsReportDownloadURL, args, &data, fields); err != nil {
		return core.AsyncMetricsReportDownloadURL{}, err
	}
	c.updateLedger(ctx, args.ReportRequestID, data.Download)
	return data.Download, nil
}

// WaitForAsyncReport polls at a fixed interval until the report reaches a
// terminal status. Each poll waits first, then checks. Poll failures end the
// wait; the transport has already applied its own retries.
func (c *Client) WaitForAsyncReport(ctx context.Context, args core.AsyncMetricsReportDownloadArgs, opts PollOptions) (core.AsyncMetricsReportDownloadURL, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opts = opts.withDefaults()

	var last core.AsyncMetricsReportDownloadURL
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if err := c.sleep(ctx, opts.Interval); err != nil {
			return last, err
		}
		status, err := c.GetAsyncMetricsReportDownloadURL(ctx, args)
		if err != nil {
			return last, err
		}
		last = status
		if opts.OnPoll != nil {
			opts.OnPoll(attempt, status)
		}
		if status.Status.Terminal() {
			return status, nil
		}
	}
	return last, fmt.Errorf("%w (report %d, %d attempts)", ErrPollExhausted, args.ReportRequestID, opts.MaxAttempts)
}

// ReportLedger returns the configured ledger, or nil.
func (c *Client) ReportLedger() core.ReportLedger {
	return c.ledger
}

func (c *Client) updateLedger(ctx context.Context, reportRequestID int64, status core.AsyncMetricsReportDownloadURL) {
	if c.ledger == nil || strings.TrimSpace(string(status.Status)) == "" {
		return
	}
	if err := c.ledger.UpdateStatus(ctx, reportRequestID, status.Status, status.DownloadURL); err != nil {
		c.observer.Log(ctx, "debug", "report ledger update skipped", map[string]any{
			"report_request_id": reportRequestID,
			"error":             err.Error(),
		})
	}
}

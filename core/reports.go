package core

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type MetricValue struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type BreakdownValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type MetricsReportRow struct {
	Metrics    []MetricValue    `json:"metrics"`
	Breakdowns []BreakdownValue `json:"breakdowns"`
}

// Flatten merges breakdowns and metrics into one keyed row; metrics win on
// key collisions.
func (r MetricsReportRow) Flatten() map[string]any {
	out := make(map[string]any, len(r.Metrics)+len(r.Breakdowns))
	for _, breakdown := range r.Breakdowns {
		out[breakdown.Key] = breakdown.Value
	}
	for _, metric := range r.Metrics {
		out[metric.Key] = metric.Value
	}
	return out
}

type ReportFilterInput struct {
	Breakdown string   `json:"breakdown"`
	Values    []string `json:"values"`
}

type AccountMetricsReportArgs struct {
	AccountID  int64               `json:"accountId"`
	StartDate  string              `json:"startDate"`
	EndDate    string              `json:"endDate"`
	Timezone   string              `json:"timezone,omitempty"`
	Filters    []ReportFilterInput `json:"filters,omitempty"`
	Breakdowns []string            `json:"breakdowns,omitempty"`
	Metrics    []string            `json:"metrics"`
}

func (a AccountMetricsReportArgs) Validate() error {
	if a.AccountID <= 0 {
		return fmt.Errorf("core: account id must be positive")
	}
	if err := ValidateDate(a.StartDate); err != nil {
		return fmt.Errorf("core: invalid start date: %w", err)
	}
	if err := ValidateDate(a.EndDate); err != nil {
		return fmt.Errorf("core: invalid end date: %w", err)
	}
	if len(a.Metrics) == 0 {
		return fmt.Errorf("core: at least one metric is required")
	}
	return nil
}

type BreakdownDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type MetricDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
}

type AvailableBreakdownsAndMetrics struct {
	Breakdowns []BreakdownDescriptor `json:"breakdowns"`
	Metrics    []MetricDescriptor    `json:"metrics"`
}

func (a AvailableBreakdownsAndMetrics) MetricNames() []string {
	names := make([]string, 0, len(a.Metrics))
	for _, metric := range a.Metrics {
		names = append(names, metric.Name)
	}
	return names
}

func (a AvailableBreakdownsAndMetrics) BreakdownNames() []string {
	names := make([]string, 0, len(a.Breakdowns))
	for _, breakdown := range a.Breakdowns {
		names = append(names, breakdown.Name)
	}
	return names
}

type AsyncReportStatus string

const (
	AsyncReportInProgress AsyncReportStatus = "IN_PROGRESS"
	AsyncReportCompleted  AsyncReportStatus = "COMPLETED"
	AsyncReportFailed     AsyncReportStatus = "FAILED"
	AsyncReportTimeout    AsyncReportStatus = "TIMEOUT"
)

func (s AsyncReportStatus) Terminal() bool {
	switch s {
	case AsyncReportCompleted, AsyncReportFailed, AsyncReportTimeout:
		return true
	default:
		return false
	}
}

type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type AbsoluteDateRange struct {
	AbsoluteDateRange DateRange `json:"absoluteDateRange"`
}

type MetricsReportRequestInput struct {
	Entity     Entity              `json:"entity"`
	DateRange  AbsoluteDateRange   `json:"dateRange"`
	Filters    []ReportFilterInput `json:"filters,omitempty"`
	Breakdowns []string            `json:"breakdowns,omitempty"`
	Metrics    []string            `json:"metrics"`
}

type AsyncMetricsReportArgs struct {
	MetricsReportRequest MetricsReportRequestInput `json:"metricsReportRequest"`
	FileName             string                    `json:"fileName,omitempty"`
}

func (a AsyncMetricsReportArgs) Validate() error {
	req := a.MetricsReportRequest
	if req.Entity.ID <= 0 {
		return fmt.Errorf("core: report entity id must be positive")
	}
	if strings.TrimSpace(string(req.Entity.Type)) == "" {
		return fmt.Errorf("core: report entity type is required")
	}
	if err := ValidateDate(req.DateRange.AbsoluteDateRange.StartDate); err != nil {
		return fmt.Errorf("core: invalid start date: %w", err)
	}
	if err := ValidateDate(req.DateRange.AbsoluteDateRange.EndDate); err != nil {
		return fmt.Errorf("core: invalid end date: %w", err)
	}
	if len(req.Metrics) == 0 {
		return fmt.Errorf("core: at least one metric is required")
	}
	return nil
}

type AsyncMetricsReportRecord struct {
	Status          AsyncReportStatus `json:"status"`
	ReportRequestID int64             `json:"reportRequestId"`
	FileName        string            `json:"fileName,omitempty"`
	CreatedAt       string            `json:"createdAt,omitempty"`
	CompletedAt     string            `json:"completedAt,omitempty"`
}

type AsyncMetricsReportDownloadArgs struct {
	Entity          Entity `json:"entity"`
	ReportRequestID int64  `json:"reportRequestId"`
}

type AsyncMetricsReportDownloadURL struct {
	Status      AsyncReportStatus `json:"status"`
	DownloadURL string            `json:"downloadUrl"`
	ExpiresAt   string            `json:"expiresAt,omitempty"`
}

// ValidateDate accepts calendar dates in YYYY-MM-DD form only.
func ValidateDate(value string) error {
	value = strings.TrimSpace(value)
	if len(value) != len(DateLayout) {
		return fmt.Errorf("%q is not in YYYY-MM-DD format", value)
	}
	if _, err := time.Parse(DateLayout, value); err != nil {
		return fmt.Errorf("%q is not a valid date", value)
	}
	return nil
}

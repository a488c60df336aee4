package core

import (
	"context"
	"errors"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

// TokenProvider supplies bearer tokens for outbound GraphQL calls.
type TokenProvider interface {
	GetValidToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	IsTokenExpired() bool
	TokenInfo() TokenInfo
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type TransportRequest struct {
	Method               string
	URL                  string
	Headers              map[string]string
	Body                 []byte
	Metadata             map[string]any
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

// GraphQLExecutor runs a single GraphQL request envelope.
type GraphQLExecutor interface {
	Query(ctx context.Context, req GraphQLRequest) (GraphQLResponse, error)
}

var ErrReportRequestNotFound = errors.New("core: report request not found")

// ReportLedger keeps bookkeeping for async report requests so their status
// can be checked again later.
type ReportLedger interface {
	Record(ctx context.Context, entry ReportLedgerEntry) (ReportLedgerEntry, error)
	UpdateStatus(ctx context.Context, reportRequestID int64, status AsyncReportStatus, downloadURL string) error
	// Get and UpdateStatus return ErrReportRequestNotFound for unknown ids.
	Get(ctx context.Context, reportRequestID int64) (ReportLedgerEntry, error)
	// List returns entries for entityID, newest first. Zero lists all.
	List(ctx context.Context, entityID int64) ([]ReportLedgerEntry, error)
}

package command

import (
	"context"
	"errors"
	"testing"

	"github.com/JonathanRiche/go-quantcast/adapters/gocommand"
	"github.com/JonathanRiche/go-quantcast/core"
	gocmd "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"
)

type stubService struct {
	requestFn func(ctx context.Context, args core.AsyncMetricsReportArgs) (core.AsyncMetricsReportRecord, error)
	refreshFn func(ctx context.Context) (string, error)
	info      core.TokenInfo
	calls     int
}

func (s *stubService) RequestAsyncMetricsReport(ctx context.Context, args core.AsyncMetricsReportArgs) (core.AsyncMetricsReportRecord, error) {
	s.calls++
	if s.requestFn != nil {
		return s.requestFn(ctx, args)
	}
	return core.AsyncMetricsReportRecord{}, nil
}

func (s *stubService) RefreshAuthToken(ctx context.Context) (string, error) {
	s.calls++
	if s.refreshFn != nil {
		return s.refreshFn(ctx)
	}
	return "token", nil
}

func (s *stubService) AuthInfo() core.TokenInfo { return s.info }

func validAsyncArgs() core.AsyncMetricsReportArgs {
	return core.AsyncMetricsReportArgs{
		MetricsReportRequest: core.MetricsReportRequestInput{
			Entity: core.Entity{ID: 9, Type: core.EntityTypeAccount},
			DateRange: core.AbsoluteDateRange{AbsoluteDateRange: core.DateRange{
				StartDate: "2024-01-01",
				EndDate:   "2024-03-31",
			}},
			Metrics: []string{"Impressions"},
		},
	}
}

func TestRequestAsyncReportCommand_ExecuteDelegatesAndStoresResult(t *testing.T) {
	svc := &stubService{
		requestFn: func(_ context.Context, args core.AsyncMetricsReportArgs) (core.AsyncMetricsReportRecord, error) {
			if args.MetricsReportRequest.Entity.ID != 9 {
				t.Fatalf("unexpected entity: %#v", args.MetricsReportRequest.Entity)
			}
			return core.AsyncMetricsReportRecord{ReportRequestID: 31, Status: core.AsyncReportInProgress}, nil
		},
	}

	collector := gocmd.NewResult[core.AsyncMetricsReportRecord]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)
	if err := NewRequestAsyncReportCommand(svc).Execute(ctx, RequestAsyncReportMessage{Args: validAsyncArgs()}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	result, ok := collector.Load()
	if !ok {
		t.Fatalf("expected result to be stored")
	}
	if result.ReportRequestID != 31 {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestRequestAsyncReportCommand_InvalidArgs(t *testing.T) {
	svc := &stubService{}
	err := NewRequestAsyncReportCommand(svc).Execute(context.Background(), RequestAsyncReportMessage{})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.Category != goerrors.CategoryValidation {
		t.Fatalf("expected validation envelope, got %T %v", err, err)
	}
	if svc.calls != 0 {
		t.Fatalf("service must not be called for invalid input")
	}
}

func TestRefreshTokenCommand_PropagatesFailure(t *testing.T) {
	svc := &stubService{refreshFn: func(context.Context) (string, error) {
		return "", errors.New("denied")
	}}
	if err := NewRefreshTokenCommand(svc).Execute(context.Background(), RefreshTokenMessage{}); err == nil {
		t.Fatalf("expected refresh failure")
	}
}

func TestSubscribeDispatchesRefresh(t *testing.T) {
	svc := &stubService{info: core.TokenInfo{HasToken: true}}
	subs := Subscribe(svc)
	defer subs.Unsubscribe()

	info, err := gocommand.DispatchResult[RefreshTokenMessage, core.TokenInfo](context.Background(), RefreshTokenMessage{})
	if err != nil {
		t.Fatalf("dispatch refresh: %v", err)
	}
	if !info.HasToken {
		t.Fatalf("expected token info to be returned, got %#v", info)
	}
}

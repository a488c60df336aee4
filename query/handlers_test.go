package query

import (
	"context"
	"net/http"
	"testing"

	quantcast "github.com/JonathanRiche/go-quantcast"
	"github.com/JonathanRiche/go-quantcast/adapters/gocommand"
	"github.com/JonathanRiche/go-quantcast/core"
	goerrors "github.com/goliatone/go-errors"
)

type stubReader struct {
	accountsFn func(ctx context.Context, args quantcast.AccountsArgs) (core.AccountsConnection, error)
	statusFn   func(ctx context.Context, args core.AsyncMetricsReportDownloadArgs) (core.AsyncMetricsReportDownloadURL, error)
	calls      int
}

func (s *stubReader) GetAccounts(ctx context.Context, args quantcast.AccountsArgs) (core.AccountsConnection, error) {
	s.calls++
	if s.accountsFn != nil {
		return s.accountsFn(ctx, args)
	}
	return core.AccountsConnection{}, nil
}

func (s *stubReader) GetAccountByID(_ context.Context, accountID int64) (*core.Account, error) {
	s.calls++
	return &core.Account{ID: core.ID("42"), Name: "Acme"}, nil
}

func (s *stubReader) GetCampaigns(context.Context, quantcast.CampaignsArgs) (core.CampaignsConnection, error) {
	s.calls++
	return core.CampaignsConnection{}, nil
}

func (s *stubReader) GetCampaignByID(context.Context, int64) (*core.Campaign, error) {
	s.calls++
	return nil, nil
}

func (s *stubReader) GetCampaignsWithAdsets(context.Context, int64, quantcast.CampaignsWithAdsetsOptions) (core.CampaignsWithAdsetsConnection, error) {
	s.calls++
	return core.CampaignsWithAdsetsConnection{}, nil
}

func (s *stubReader) GetAccountMetricsReport(context.Context, core.AccountMetricsReportArgs) ([]core.MetricsReportRow, error) {
	s.calls++
	return []core.MetricsReportRow{}, nil
}

func (s *stubReader) GetAvailableBreakdownsAndMetrics(context.Context, int64) (core.AvailableBreakdownsAndMetrics, error) {
	s.calls++
	return core.AvailableBreakdownsAndMetrics{}, nil
}

func (s *stubReader) GetAsyncMetricsReportDownloadURL(ctx context.Context, args core.AsyncMetricsReportDownloadArgs) (core.AsyncMetricsReportDownloadURL, error) {
	s.calls++
	if s.statusFn != nil {
		return s.statusFn(ctx, args)
	}
	return core.AsyncMetricsReportDownloadURL{}, nil
}

type stubLedger struct {
	entries []core.ReportLedgerEntry
	lastID  int64
}

func (s *stubLedger) List(_ context.Context, entityID int64) ([]core.ReportLedgerEntry, error) {
	s.lastID = entityID
	return s.entries, nil
}

func TestListAccountsQuery_QueryDelegates(t *testing.T) {
	reader := &stubReader{
		accountsFn: func(_ context.Context, args quantcast.AccountsArgs) (core.AccountsConnection, error) {
			if args.Limit == nil || *args.Limit != 25 {
				t.Fatalf("unexpected limit: %v", args.Limit)
			}
			return core.AccountsConnection{TotalCount: 3}, nil
		},
	}

	result, err := NewListAccountsQuery(reader).Query(context.Background(), ListAccountsMessage{
		Args: quantcast.AccountsArgs{Limit: quantcast.Int(25)},
	})
	if err != nil {
		t.Fatalf("query accounts: %v", err)
	}
	if result.TotalCount != 3 {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestGetAccountMessage_ValidateReturnsRichError(t *testing.T) {
	err := (GetAccountMessage{}).Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryValidation {
		t.Fatalf("expected validation category, got %q", rich.Category)
	}
	if rich.TextCode != core.ServiceErrorBadInput {
		t.Fatalf("expected %q text code, got %q", core.ServiceErrorBadInput, rich.TextCode)
	}
	if rich.Code != http.StatusBadRequest {
		t.Fatalf("expected %d code, got %d", http.StatusBadRequest, rich.Code)
	}
	validation := rich.AllValidationErrors()
	if len(validation) == 0 || validation[0].Field != "account_id" {
		t.Fatalf("expected account_id validation field, got %#v", validation)
	}
}

func TestInvalidMessageSkipsReader(t *testing.T) {
	reader := &stubReader{}
	_, err := NewAccountMetricsReportQuery(reader).Query(context.Background(), AccountMetricsReportMessage{
		Args: core.AccountMetricsReportArgs{AccountID: 1, StartDate: "2024-13-01", EndDate: "2024-01-31", Metrics: []string{"Impressions"}},
	})
	if err == nil {
		t.Fatalf("expected invalid date to fail")
	}
	if reader.calls != 0 {
		t.Fatalf("expected reader not to be called, got %d calls", reader.calls)
	}
}

func TestNilReaderReturnsRichError(t *testing.T) {
	var q *ListReportRequestsQuery
	_, err := q.Query(context.Background(), ListReportRequestsMessage{})
	if err == nil {
		t.Fatalf("expected dependency error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}
	if rich.TextCode != core.ServiceErrorInternal {
		t.Fatalf("expected %q text code, got %q", core.ServiceErrorInternal, rich.TextCode)
	}
}

func TestSubscribeRoutesThroughDispatcher(t *testing.T) {
	reader := &stubReader{
		statusFn: func(_ context.Context, args core.AsyncMetricsReportDownloadArgs) (core.AsyncMetricsReportDownloadURL, error) {
			if args.ReportRequestID != 77 {
				t.Fatalf("unexpected report request id %d", args.ReportRequestID)
			}
			return core.AsyncMetricsReportDownloadURL{Status: core.AsyncReportCompleted, DownloadURL: "https://example.com/r.csv"}, nil
		},
	}
	ledger := &stubLedger{entries: []core.ReportLedgerEntry{{ReportRequestID: 77}}}
	subs := Subscribe(reader, ledger)
	defer subs.Unsubscribe()

	account, err := gocommand.Query[GetAccountMessage, *core.Account](context.Background(), GetAccountMessage{AccountID: 42})
	if err != nil {
		t.Fatalf("dispatch account query: %v", err)
	}
	if account == nil || account.Name != "Acme" {
		t.Fatalf("unexpected account: %#v", account)
	}

	status, err := gocommand.Query[AsyncReportStatusMessage, core.AsyncMetricsReportDownloadURL](context.Background(), AsyncReportStatusMessage{
		Args: core.AsyncMetricsReportDownloadArgs{
			Entity:          core.Entity{ID: 5, Type: core.EntityTypeAccount},
			ReportRequestID: 77,
		},
	})
	if err != nil {
		t.Fatalf("dispatch status query: %v", err)
	}
	if status.Status != core.AsyncReportCompleted {
		t.Fatalf("unexpected status: %#v", status)
	}

	entries, err := gocommand.Query[ListReportRequestsMessage, []core.ReportLedgerEntry](context.Background(), ListReportRequestsMessage{EntityID: 5})
	if err != nil {
		t.Fatalf("dispatch ledger query: %v", err)
	}
	if len(entries) != 1 || ledger.lastID != 5 {
		t.Fatalf("unexpected ledger listing: %#v (entity %d)", entries, ledger.lastID)
	}
}

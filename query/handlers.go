package query

import (
	"context"

	quantcast "github.com/JonathanRiche/go-quantcast"
	"github.com/JonathanRiche/go-quantcast/core"
)

type AccountReader interface {
	GetAccounts(ctx context.Context, args quantcast.AccountsArgs) (core.AccountsConnection, error)
	GetAccountByID(ctx context.Context, accountID int64) (*core.Account, error)
}

type CampaignReader interface {
	GetCampaigns(ctx context.Context, args quantcast.CampaignsArgs) (core.CampaignsConnection, error)
	GetCampaignByID(ctx context.Context, campaignID int64) (*core.Campaign, error)
	GetCampaignsWithAdsets(ctx context.Context, accountID int64, opts quantcast.CampaignsWithAdsetsOptions) (core.CampaignsWithAdsetsConnection, error)
}

type ReportReader interface {
	GetAccountMetricsReport(ctx context.Context, args core.AccountMetricsReportArgs) ([]core.MetricsReportRow, error)
	GetAvailableBreakdownsAndMetrics(ctx context.Context, accountID int64) (core.AvailableBreakdownsAndMetrics, error)
	GetAsyncMetricsReportDownloadURL(ctx context.Context, args core.AsyncMetricsReportDownloadArgs) (core.AsyncMetricsReportDownloadURL, error)
}

type ReportRequestReader interface {
	List(ctx context.Context, entityID int64) ([]core.ReportLedgerEntry, error)
}

type ListAccountsQuery struct {
	reader AccountReader
}

func NewListAccountsQuery(reader AccountReader) *ListAccountsQuery {
	return &ListAccountsQuery{reader: reader}
}

func (q *ListAccountsQuery) Query(ctx context.Context, msg ListAccountsMessage) (core.AccountsConnection, error) {
	if q == nil || q.reader == nil {
		return core.AccountsConnection{}, queryDependencyError("query: account reader is required")
	}
	if err := msg.Validate(); err != nil {
		return core.AccountsConnection{}, err
	}
	return q.reader.GetAccounts(ctx, msg.Args)
}

type GetAccountQuery struct {
	reader AccountReader
}

func NewGetAccountQuery(reader AccountReader) *GetAccountQuery {
	return &GetAccountQuery{reader: reader}
}

func (q *GetAccountQuery) Query(ctx context.Context, msg GetAccountMessage) (*core.Account, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: account reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.reader.GetAccountByID(ctx, msg.AccountID)
}

type ListCampaignsQuery struct {
	reader CampaignReader
}

func NewListCampaignsQuery(reader CampaignReader) *ListCampaignsQuery {
	return &ListCampaignsQuery{reader: reader}
}

func (q *ListCampaignsQuery) Query(ctx context.Context, msg ListCampaignsMessage) (core.CampaignsConnection, error) {
	if q == nil || q.reader == nil {
		return core.CampaignsConnection{}, queryDependencyError("query: campaign reader is required")
	}
	if err := msg.Validate(); err != nil {
		return core.CampaignsConnection{}, err
	}
	return q.reader.GetCampaigns(ctx, msg.Args)
}

type GetCampaignQuery struct {
	reader CampaignReader
}

func NewGetCampaignQuery(reader CampaignReader) *GetCampaignQuery {
	return &GetCampaignQuery{reader: reader}
}

func (q *GetCampaignQuery) Query(ctx context.Context, msg GetCampaignMessage) (*core.Campaign, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: campaign reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.reader.GetCampaignByID(ctx, msg.CampaignID)
}

type ListCampaignsWithAdsetsQuery struct {
	reader CampaignReader
}

func NewListCampaignsWithAdsetsQuery(reader CampaignReader) *ListCampaignsWithAdsetsQuery {
	return &ListCampaignsWithAdsetsQuery{reader: reader}
}

func (q *ListCampaignsWithAdsetsQuery) Query(
	ctx context.Context,
	msg ListCampaignsWithAdsetsMessage,
) (core.CampaignsWithAdsetsConnection, error) {
	if q == nil || q.reader == nil {
		return core.CampaignsWithAdsetsConnection{}, queryDependencyError("query: campaign reader is required")
	}
	if err := msg.Validate(); err != nil {
		return core.CampaignsWithAdsetsConnection{}, err
	}
	return q.reader.GetCampaignsWithAdsets(ctx, msg.AccountID, msg.Options)
}

type AccountMetricsReportQuery struct {
	reader ReportReader
}

func NewAccountMetricsReportQuery(reader ReportReader) *AccountMetricsReportQuery {
	return &AccountMetricsReportQuery{reader: reader}
}

func (q *AccountMetricsReportQuery) Query(ctx context.Context, msg AccountMetricsReportMessage) ([]core.MetricsReportRow, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: report reader is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.reader.GetAccountMetricsReport(ctx, msg.Args)
}

type AvailableBreakdownsAndMetricsQuery struct {
	reader ReportReader
}

func NewAvailableBreakdownsAndMetricsQuery(reader ReportReader) *AvailableBreakdownsAndMetricsQuery {
	return &AvailableBreakdownsAndMetricsQuery{reader: reader}
}

func (q *AvailableBreakdownsAndMetricsQuery) Query(
	ctx context.Context,
	msg AvailableBreakdownsAndMetricsMessage,
) (core.AvailableBreakdownsAndMetrics, error) {
	if q == nil || q.reader == nil {
		return core.AvailableBreakdownsAndMetrics{}, queryDependencyError("query: report reader is required")
	}
	if err := msg.Validate(); err != nil {
		return core.AvailableBreakdownsAndMetrics{}, err
	}
	return q.reader.GetAvailableBreakdownsAndMetrics(ctx, msg.AccountID)
}

type AsyncReportStatusQuery struct {
	reader ReportReader
}

func NewAsyncReportStatusQuery(reader ReportReader) *AsyncReportStatusQuery {
	return &AsyncReportStatusQuery{reader: reader}
}

func (q *AsyncReportStatusQuery) Query(
	ctx context.Context,
	msg AsyncReportStatusMessage,
) (core.AsyncMetricsReportDownloadURL, error) {
	if q == nil || q.reader == nil {
		return core.AsyncMetricsReportDownloadURL{}, queryDependencyError("query: report reader is required")
	}
	if err := msg.Validate(); err != nil {
		return core.AsyncMetricsReportDownloadURL{}, err
	}
	return q.reader.GetAsyncMetricsReportDownloadURL(ctx, msg.Args)
}

type ListReportRequestsQuery struct {
	reader ReportRequestReader
}

func NewListReportRequestsQuery(reader ReportRequestReader) *ListReportRequestsQuery {
	return &ListReportRequestsQuery{reader: reader}
}

func (q *ListReportRequestsQuery) Query(ctx context.Context, msg ListReportRequestsMessage) ([]core.ReportLedgerEntry, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: report ledger is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return q.reader.List(ctx, msg.EntityID)
}

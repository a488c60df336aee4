package query

import (
	"github.com/JonathanRiche/go-quantcast/core"
	gocmd "github.com/goliatone/go-command"
)

var (
	_ gocmd.Querier[ListAccountsMessage, core.AccountsConnection]                             = (*ListAccountsQuery)(nil)
	_ gocmd.Querier[GetAccountMessage, *core.Account]                                         = (*GetAccountQuery)(nil)
	_ gocmd.Querier[ListCampaignsMessage, core.CampaignsConnection]                           = (*ListCampaignsQuery)(nil)
	_ gocmd.Querier[GetCampaignMessage, *core.Campaign]                                       = (*GetCampaignQuery)(nil)
	_ gocmd.Querier[ListCampaignsWithAdsetsMessage, core.CampaignsWithAdsetsConnection]       = (*ListCampaignsWithAdsetsQuery)(nil)
	_ gocmd.Querier[AccountMetricsReportMessage, []core.MetricsReportRow]                     = (*AccountMetricsReportQuery)(nil)
	_ gocmd.Querier[AvailableBreakdownsAndMetricsMessage, core.AvailableBreakdownsAndMetrics] = (*AvailableBreakdownsAndMetricsQuery)(nil)
	_ gocmd.Querier[AsyncReportStatusMessage, core.AsyncMetricsReportDownloadURL]             = (*AsyncReportStatusQuery)(nil)
	_ gocmd.Querier[ListReportRequestsMessage, []core.ReportLedgerEntry]                      = (*ListReportRequestsQuery)(nil)
)

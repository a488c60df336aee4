package query

import (
	"github.com/JonathanRiche/go-quantcast/adapters/gocommand"
)

// Reader is the read surface of the client.
type Reader interface {
	AccountReader
	CampaignReader
	ReportReader
}

// Subscribe registers every query handler on the dispatcher. ledger may be
// nil, in which case report request listing fails with a dependency error.
func Subscribe(reader Reader, ledger ReportRequestReader) gocommand.Subscriptions {
	subs := gocommand.Subscriptions{
		gocommand.SubscribeQuery(NewListAccountsQuery(reader)),
		gocommand.SubscribeQuery(NewGetAccountQuery(reader)),
		gocommand.SubscribeQuery(NewListCampaignsQuery(reader)),
		gocommand.SubscribeQuery(NewGetCampaignQuery(reader)),
		gocommand.SubscribeQuery(NewListCampaignsWithAdsetsQuery(reader)),
		gocommand.SubscribeQuery(NewAccountMetricsReportQuery(reader)),
		gocommand.SubscribeQuery(NewAvailableBreakdownsAndMetricsQuery(reader)),
		gocommand.SubscribeQuery(NewAsyncReportStatusQuery(reader)),
	}
	var requests *ListReportRequestsQuery
	if ledger != nil {
		requests = NewListReportRequestsQuery(ledger)
	}
	return append(subs, gocommand.SubscribeQuery(requests))
}

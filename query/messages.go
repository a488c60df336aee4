package query

import (
	"strings"

	quantcast "github.com/JonathanRiche/go-quantcast"
	"github.com/JonathanRiche/go-quantcast/core"
)

const (
	TypeListAccounts                  = "quantcast.query.accounts.list"
	TypeGetAccount                    = "quantcast.query.account.get"
	TypeListCampaigns                 = "quantcast.query.campaigns.list"
	TypeGetCampaign                   = "quantcast.query.campaign.get"
	TypeListCampaignsWithAdsets       = "quantcast.query.campaigns_with_adsets.list"
	TypeAccountMetricsReport          = "quantcast.query.report.account_metrics"
	TypeAvailableBreakdownsAndMetrics = "quantcast.query.report.available"
	TypeAsyncReportStatus             = "quantcast.query.report.async_status"
	TypeListReportRequests            = "quantcast.query.report.requests.list"
)

type ListAccountsMessage struct {
	Args quantcast.AccountsArgs
}

func (ListAccountsMessage) Type() string { return TypeListAccounts }

func (m ListAccountsMessage) Validate() error {
	return validatePaging(m.Args.Limit, m.Args.Offset)
}

type GetAccountMessage struct {
	AccountID int64
}

func (GetAccountMessage) Type() string { return TypeGetAccount }

func (m GetAccountMessage) Validate() error {
	if m.AccountID <= 0 {
		return queryValidationError("account_id", "account id must be positive")
	}
	return nil
}

type ListCampaignsMessage struct {
	Args quantcast.CampaignsArgs
}

func (ListCampaignsMessage) Type() string { return TypeListCampaigns }

func (m ListCampaignsMessage) Validate() error {
	return validatePaging(m.Args.Limit, m.Args.Offset)
}

type GetCampaignMessage struct {
	CampaignID int64
}

func (GetCampaignMessage) Type() string { return TypeGetCampaign }

func (m GetCampaignMessage) Validate() error {
	if m.CampaignID <= 0 {
		return queryValidationError("campaign_id", "campaign id must be positive")
	}
	return nil
}

type ListCampaignsWithAdsetsMessage struct {
	AccountID int64
	Options   quantcast.CampaignsWithAdsetsOptions
}

func (ListCampaignsWithAdsetsMessage) Type() string { return TypeListCampaignsWithAdsets }

func (m ListCampaignsWithAdsetsMessage) Validate() error {
	if m.AccountID <= 0 {
		return queryValidationError("account_id", "account id must be positive")
	}
	if m.Options.CampaignLimit != nil && *m.Options.CampaignLimit < 0 {
		return queryValidationError("campaign_limit", "campaign limit must be >= 0")
	}
	if m.Options.AdsetLimit != nil && *m.Options.AdsetLimit < 0 {
		return queryValidationError("adset_limit", "adset limit must be >= 0")
	}
	return nil
}

type AccountMetricsReportMessage struct {
	Args core.AccountMetricsReportArgs
}

func (AccountMetricsReportMessage) Type() string { return TypeAccountMetricsReport }

func (m AccountMetricsReportMessage) Validate() error {
	return queryWrapValidation(m.Args.Validate(), "query: invalid metrics report request")
}

type AvailableBreakdownsAndMetricsMessage struct {
	AccountID int64
}

func (AvailableBreakdownsAndMetricsMessage) Type() string { return TypeAvailableBreakdownsAndMetrics }

func (m AvailableBreakdownsAndMetricsMessage) Validate() error {
	if m.AccountID <= 0 {
		return queryValidationError("account_id", "account id must be positive")
	}
	return nil
}

type AsyncReportStatusMessage struct {
	Args core.AsyncMetricsReportDownloadArgs
}

func (AsyncReportStatusMessage) Type() string { return TypeAsyncReportStatus }

func (m AsyncReportStatusMessage) Validate() error {
	if m.Args.ReportRequestID <= 0 {
		return queryValidationError("report_request_id", "report request id must be positive")
	}
	if strings.TrimSpace(string(m.Args.Entity.Type)) == "" {
		return queryValidationError("entity_type", "entity type is required")
	}
	return nil
}

// ListReportRequestsMessage lists ledger entries; a zero EntityID lists all.
type ListReportRequestsMessage struct {
	EntityID int64
}

func (ListReportRequestsMessage) Type() string { return TypeListReportRequests }

func (m ListReportRequestsMessage) Validate() error {
	if m.EntityID < 0 {
		return queryValidationError("entity_id", "entity id must be >= 0")
	}
	return nil
}

func validatePaging(limit, offset *int) error {
	if limit != nil && *limit < 0 {
		return queryValidationError("limit", "limit must be >= 0")
	}
	if offset != nil && *offset < 0 {
		return queryValidationError("offset", "offset must be >= 0")
	}
	return nil
}

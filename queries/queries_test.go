package queries

import (
	"strings"
	"testing"
)

func TestDocumentsNameTheirOperation(t *testing.T) {
	documents := map[string]string{
		"GetAccounts":                      GetAccounts,
		"GetAccountById":                   GetAccountByID,
		"GetCampaigns":                     GetCampaigns,
		"GetCampaignsWithAdsets":           GetCampaignsWithAdsets,
		"GetCampaignById":                  GetCampaignByID,
		"AccountMetricsReport":             AccountMetricsReport,
		"AvailableBreakdownsAndMetrics":    AvailableBreakdownsAndMetrics,
		"AsyncMetricsReport":               AsyncMetricsReport,
		"GetAsyncMetricsReportDownloadURL": GetAsyncMetricsReportDownloadURL,
	}
	for name, document := range documents {
		if !strings.Contains(document, "query "+name) {
			t.Fatalf("expected document to declare query %s", name)
		}
		if strings.Count(document, "{") != strings.Count(document, "}") {
			t.Fatalf("%s: unbalanced braces", name)
		}
	}
}

func TestConnectionDocumentsSelectPageInfo(t *testing.T) {
	for name, document := range map[string]string{"accounts": GetAccounts, "campaigns": GetCampaigns} {
		if !strings.Contains(document, "hasMore") || !strings.Contains(document, "totalCount") {
			t.Fatalf("%s: expected page info selection", name)
		}
	}
}

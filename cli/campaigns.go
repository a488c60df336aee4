package cli

import (
	"fmt"
	"strconv"

	quantcast "github.com/JonathanRiche/go-quantcast"
	"github.com/JonathanRiche/go-quantcast/adapters/gocommand"
	"github.com/JonathanRiche/go-quantcast/core"
	"github.com/JonathanRiche/go-quantcast/query"
	"github.com/spf13/cobra"
)

const (
	campaignsListLimit       = 50
	campaignsWithAdsetsLimit = 10
	adsetsPerCampaignLimit   = 5
	campaignsListAdsetLimit  = 0
)

type campaignSummary struct {
	ID   core.ID `json:"id"`
	Name string  `json:"name"`
}

type campaignWithAdsetsSummary struct {
	ID     core.ID           `json:"id"`
	Name   string            `json:"name"`
	Adsets []campaignSummary `json:"adsets"`
}

func (a *App) campaignsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "campaigns [accountId]",
		Short: "List campaigns, optionally for one account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var summaries []campaignSummary
			if len(args) == 1 {
				accountID, err := parseID("account", args[0])
				if err != nil {
					return err
				}
				a.progressf("Fetching campaigns for account %d...", accountID)
				campaigns, err := gocommand.Query[query.ListCampaignsWithAdsetsMessage, core.CampaignsWithAdsetsConnection](cmd.Context(), query.ListCampaignsWithAdsetsMessage{
					AccountID: accountID,
					Options: quantcast.CampaignsWithAdsetsOptions{
						CampaignLimit: quantcast.Int(campaignsListLimit),
						AdsetLimit:    quantcast.Int(campaignsListAdsetLimit),
					},
				})
				if err != nil {
					return err
				}
				for _, campaign := range campaigns.Edges {
					summaries = append(summaries, campaignSummary{ID: campaign.ID, Name: campaign.Name})
				}
				a.progressf("Found %d campaigns", len(summaries))
			} else {
				a.progressf("Fetching all campaigns...")
				campaigns, err := gocommand.Query[query.ListCampaignsMessage, core.CampaignsConnection](cmd.Context(), query.ListCampaignsMessage{
					Args: quantcast.CampaignsArgs{Limit: quantcast.Int(campaignsListLimit)},
				})
				if err != nil {
					return err
				}
				for _, campaign := range campaigns.Edges {
					summaries = append(summaries, campaignSummary{ID: campaign.ID, Name: campaign.Name})
				}
				a.progressf("Found %d campaigns", campaigns.TotalCount)
			}
			if summaries == nil {
				summaries = []campaignSummary{}
			}

			rows := make([][]string, 0, len(summaries))
			for _, summary := range summaries {
				rows = append(rows, []string{summary.ID.String(), summary.Name})
			}
			return a.render(summaries, []string{"ID", "Name"}, rows)
		},
	}
}

func (a *App) campaignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "campaign <id>",
		Short: "Get a campaign by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			campaignID, err := parseID("campaign", args[0])
			if err != nil {
				return err
			}
			a.progressf("Fetching campaign %d...", campaignID)
			campaign, err := gocommand.Query[query.GetCampaignMessage, *core.Campaign](cmd.Context(), query.GetCampaignMessage{CampaignID: campaignID})
			if err != nil {
				return err
			}
			if campaign == nil {
				return fmt.Errorf("campaign %d not found", campaignID)
			}
			return a.renderFields(campaign, [][2]string{
				{"ID", campaign.ID.String()},
				{"Name", campaign.Name},
				{"Account", campaign.AccountID},
				{"Status", campaign.Status},
				{"Budget", formatOptionalFloat(campaign.Budget)},
				{"Start", campaign.StartDate},
				{"End", campaign.EndDate},
				{"Objective", campaign.Objective},
				{"Bid strategy", campaign.BidStrategy},
			})
		},
	}
}

func (a *App) campaignsWithAdsetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "campaigns-with-adsets <accountId>",
		Short: "List an account's campaigns with their adsets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseID("account", args[0])
			if err != nil {
				return err
			}
			a.progressf("Fetching campaigns with adsets for account %d...", accountID)
			campaigns, err := gocommand.Query[query.ListCampaignsWithAdsetsMessage, core.CampaignsWithAdsetsConnection](cmd.Context(), query.ListCampaignsWithAdsetsMessage{
				AccountID: accountID,
				Options: quantcast.CampaignsWithAdsetsOptions{
					CampaignLimit: quantcast.Int(campaignsWithAdsetsLimit),
					AdsetLimit:    quantcast.Int(adsetsPerCampaignLimit),
				},
			})
			if err != nil {
				return err
			}

			summaries := make([]campaignWithAdsetsSummary, 0, len(campaigns.Edges))
			var rows [][]string
			for _, campaign := range campaigns.Edges {
				summary := campaignWithAdsetsSummary{ID: campaign.ID, Name: campaign.Name, Adsets: []campaignSummary{}}
				for _, adset := range campaign.Adsets.Edges {
					summary.Adsets = append(summary.Adsets, campaignSummary{ID: adset.ID, Name: adset.Name})
					rows = append(rows, []string{campaign.ID.String(), campaign.Name, adset.ID.String(), adset.Name})
				}
				if len(campaign.Adsets.Edges) == 0 {
					rows = append(rows, []string{campaign.ID.String(), campaign.Name, "", ""})
				}
				summaries = append(summaries, summary)
			}
			return a.render(summaries, []string{"Campaign ID", "Campaign", "Adset ID", "Adset"}, rows)
		},
	}
}

func formatOptionalFloat(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

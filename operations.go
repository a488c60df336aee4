package quantcast

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/JonathanRiche/go-quantcast/core"
	"github.com/JonathanRiche/go-quantcast/queries"
)

const (
	DefaultCampaignLimit = 10
	DefaultAdsetLimit    = 10
)

type AccountsArgs struct {
	Filter *core.AccountsFilterInput `json:"filter,omitempty"`
	Order  core.OrderByInput         `json:"order,omitempty"`
	Limit  *int                      `json:"limit,omitempty"`
	Offset *int                      `json:"offset,omitempty"`
}

type CampaignsArgs struct {
	Filter *core.CampaignsFilterInput `json:"filter,omitempty"`
	Order  core.OrderByInput          `json:"order,omitempty"`
	Limit  *int                       `json:"limit,omitempty"`
	Offset *int                       `json:"offset,omitempty"`
}

// CampaignsWithAdsetsOptions limits the nested selection. Nil limits use
// DefaultCampaignLimit and DefaultAdsetLimit; zero is sent as zero.
type CampaignsWithAdsetsOptions struct {
	CampaignLimit *int
	AdsetLimit    *int
}

// Int returns a pointer to n for the optional limit fields.
func Int(n int) *int {
	return &n
}

func (c *Client) GetAccounts(ctx context.Context, args AccountsArgs) (core.AccountsConnection, error) {
	var data struct {
		Accounts core.AccountsConnection `json:"accounts"`
	}
	if _, err := c.run(ctx, "get_accounts", queries.GetAccounts, args, &data, nil); err != nil {
		return core.AccountsConnection{}, err
	}
	return data.Accounts, nil
}

// GetAccountByID returns nil without error when no account matches.
func (c *Client) GetAccountByID(ctx context.Context, accountID int64) (*core.Account, error) {
	var data struct {
		Accounts core.AccountsConnection `json:"accounts"`
	}
	variables := map[string]any{"accountId": accountID}
	if _, err := c.run(ctx, "get_account_by_id", queries.GetAccountByID, variables, &data, map[string]any{"account_id": accountID}); err != nil {
		return nil, err
	}
	if len(data.Accounts.Edges) == 0 {
		return nil, nil
	}
	account := data.Accounts.Edges[0]
	return &account, nil
}

func (c *Client) GetCampaigns(ctx context.Context, args CampaignsArgs) (core.CampaignsConnection, error) {
	var data struct {
		Campaigns core.CampaignsConnection `json:"campaigns"`
	}
	if _, err := c.run(ctx, "get_campaigns", queries.GetCampaigns, args, &data, nil); err != nil {
		return core.CampaignsConnection{}, err
	}
	return data.Campaigns, nil
}

// GetCampaignsWithAdsets returns an empty connection when the account does
// not exist.
func (c *Client) GetCampaignsWithAdsets(ctx context.Context, accountID int64, opts CampaignsWithAdsetsOptions) (core.CampaignsWithAdsetsConnection, error) {
	campaignLimit, adsetLimit := DefaultCampaignLimit, DefaultAdsetLimit
	if opts.CampaignLimit != nil {
		campaignLimit = *opts.CampaignLimit
	}
	if opts.AdsetLimit != nil {
		adsetLimit = *opts.AdsetLimit
	}
	var data struct {
		Accounts struct {
			Edges []struct {
				Campaigns core.CampaignsWithAdsetsConnection `json:"campaigns"`
			} `json:"edges"`
		} `json:"accounts"`
	}
	variables := map[string]any{
		"accountId":     accountID,
		"campaignLimit": campaignLimit,
		"adsetLimit":    adsetLimit,
	}
	if _, err := c.run(ctx, "get_campaigns_with_adsets", queries.GetCampaignsWithAdsets, variables, &data, map[string]any{"account_id": accountID}); err != nil {
		return core.CampaignsWithAdsetsConnection{}, err
	}
	if len(data.Accounts.Edges) == 0 {
		return core.CampaignsWithAdsetsConnection{Edges: []core.CampaignWithAdsets{}}, nil
	}
	campaigns := data.Accounts.Edges[0].Campaigns
	if campaigns.Edges == nil {
		campaigns.Edges = []core.CampaignWithAdsets{}
	}
	return campaigns, nil
}

// GetCampaignByID returns nil without error when no campaign matches.
func (c *Client) GetCampaignByID(ctx context.Context, campaignID int64) (*core.Campaign, error) {
	var data struct {
		Campaigns core.CampaignsConnection `json:"campaigns"`
	}
	variables := map[string]any{"campaignId": campaignID}
	if _, err := c.run(ctx, "get_campaign_by_id", queries.GetCampaignByID, variables, &data, map[string]any{"campaign_id": campaignID}); err != nil {
		return nil, err
	}
	if len(data.Campaigns.Edges) == 0 {
		return nil, nil
	}
	campaign := data.Campaigns.Edges[0]
	return &campaign, nil
}

// run executes document with variables and decodes the data payload into
// target when target is not nil.
func (c *Client) run(
	ctx context.Context,
	operation string,
	document string,
	variables any,
	target any,
	fields map[string]any,
) (resp core.GraphQLResponse, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	startedAt := time.Now()
	defer func() {
		c.observer.Observe(ctx, startedAt, operation, err, fields)
	}()

	vars, err := toVariables(variables)
	if err != nil {
		return core.GraphQLResponse{}, fmt.Errorf("quantcast: %s: encode variables: %w", operation, err)
	}
	resp, err = c.transport.Query(ctx, core.GraphQLRequest{Query: document, Variables: vars})
	if err != nil {
		return resp, err
	}
	if target != nil {
		if err = resp.Decode(target); err != nil {
			return resp, fmt.Errorf("quantcast: %s: %w", operation, err)
		}
	}
	return resp, nil
}

// toVariables converts typed arguments into a variables object through
// their JSON form, so omitempty fields are left out.
func toVariables(value any) (map[string]any, error) {
	switch typed := value.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return typed, nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(encoded))
	decoder.UseNumber()
	vars := map[string]any{}
	if err := decoder.Decode(&vars); err != nil {
		return nil, err
	}
	return vars, nil
}

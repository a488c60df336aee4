package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is a Quantcast entity identifier. The API declares ids as Long but may
// serialize them either as numbers or strings.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(raw))
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("core: invalid id %s: %w", string(data), err)
	}
	*id = ID(number.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

func (id ID) Int64() (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(string(id)), 10, 64)
}

type EntityType string

const (
	EntityTypeAccount  EntityType = "ACCOUNT"
	EntityTypeCampaign EntityType = "CAMPAIGN"
	EntityTypeAdset    EntityType = "ADSET"
	EntityTypeCreative EntityType = "CREATIVE"
)

type Entity struct {
	ID   int64      `json:"id"`
	Type EntityType `json:"type"`
}

type PageInfo struct {
	HasMore bool `json:"hasMore"`
}

type Connection[T any] struct {
	Edges      []T      `json:"edges"`
	PageInfo   PageInfo `json:"pageInfo"`
	TotalCount int      `json:"totalCount"`
}

type Account struct {
	ID             ID     `json:"id"`
	Name           string `json:"name"`
	OrganizationID string `json:"organizationId,omitempty"`
	Timezone       string `json:"timezone,omitempty"`
	Currency       string `json:"currency,omitempty"`
	Status         string `json:"status,omitempty"`
}

type Campaign struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	AccountID   string   `json:"accountId,omitempty"`
	Status      string   `json:"status,omitempty"`
	Budget      *float64 `json:"budget,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	EndDate     string   `json:"endDate,omitempty"`
	Objective   string   `json:"objective,omitempty"`
	BidStrategy string   `json:"bidStrategy,omitempty"`
}

type Adset struct {
	ID         ID       `json:"id"`
	Name       string   `json:"name"`
	CampaignID string   `json:"campaignId,omitempty"`
	Status     string   `json:"status,omitempty"`
	Budget     *float64 `json:"budget,omitempty"`
	BidAmount  *float64 `json:"bidAmount,omitempty"`
}

type CampaignWithAdsets struct {
	Campaign
	Adsets Connection[Adset] `json:"adsets"`
}

type AccountsConnection = Connection[Account]

type CampaignsConnection = Connection[Campaign]

type CampaignsWithAdsetsConnection = Connection[CampaignWithAdsets]

// FilterInput mirrors the API's generic field filter. Only set operators are
// serialized.
type FilterInput struct {
	Eq         any    `json:"eq,omitempty"`
	Ne         any    `json:"ne,omitempty"`
	In         []any  `json:"in,omitempty"`
	Nin        []any  `json:"nin,omitempty"`
	Gt         any    `json:"gt,omitempty"`
	Gte        any    `json:"gte,omitempty"`
	Lt         any    `json:"lt,omitempty"`
	Lte        any    `json:"lte,omitempty"`
	Contains   string `json:"contains,omitempty"`
	StartsWith string `json:"startsWith,omitempty"`
	EndsWith   string `json:"endsWith,omitempty"`
}

type AccountsFilterInput struct {
	ID             *FilterInput `json:"id,omitempty"`
	Name           *FilterInput `json:"name,omitempty"`
	OrganizationID *FilterInput `json:"organizationId,omitempty"`
	Status         *FilterInput `json:"status,omitempty"`
}

type CampaignsFilterInput struct {
	ID        *FilterInput `json:"id,omitempty"`
	Name      *FilterInput `json:"name,omitempty"`
	AccountID *FilterInput `json:"accountId,omitempty"`
	Status    *FilterInput `json:"status,omitempty"`
}

// OrderByInput maps order keys (e.g. ACCOUNTS_NAME) to asc or desc.
type OrderByInput map[string]string

package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Credentials struct {
	APIKey    string
	APISecret string
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("core: api key is required")
	}
	if strings.TrimSpace(c.APISecret) == "" {
		return fmt.Errorf("core: api secret is required")
	}
	return nil
}

// TokenInfo is a diagnostic snapshot of the token manager state.
type TokenInfo struct {
	HasToken  bool       `json:"hasToken"`
	IsExpired bool       `json:"isExpired"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

type GraphQLRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName,omitempty"`
}

type GraphQLErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type GraphQLError struct {
	Message    string                 `json:"message"`
	Locations  []GraphQLErrorLocation `json:"locations,omitempty"`
	Path       []any                  `json:"path,omitempty"`
	Extensions map[string]any         `json:"extensions,omitempty"`
}

type RateLimitExtension struct {
	QueryComplexityRemaining int    `json:"queryComplexityRemaining"`
	RequestRemaining         int    `json:"requestRemaining"`
	QueryComplexityResetTime string `json:"queryComplexityResetTime"`
	QueryComplexityLimit     int    `json:"queryComplexityLimit"`
	RequestLimit             int    `json:"requestLimit"`
	RequestResetTime         string `json:"requestResetTime"`
	QueryComplexity          int    `json:"queryComplexity"`
}

type ResponseExtensions struct {
	RateLimit *RateLimitExtension `json:"rateLimit,omitempty"`
}

// GraphQLResponse is the {data, errors, extensions} envelope. Data stays raw
// until a caller decodes it into a typed shape.
type GraphQLResponse struct {
	Data       json.RawMessage     `json:"data,omitempty"`
	Errors     []GraphQLError      `json:"errors,omitempty"`
	Extensions *ResponseExtensions `json:"extensions,omitempty"`
	StatusCode int                 `json:"-"`
}

func (r GraphQLResponse) HasData() bool {
	trimmed := bytes.TrimSpace(r.Data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Decode unmarshals the data payload into target.
func (r GraphQLResponse) Decode(target any) error {
	if !r.HasData() {
		return fmt.Errorf("core: graphql response has no data")
	}
	if err := json.Unmarshal(r.Data, target); err != nil {
		return fmt.Errorf("core: decode graphql data: %w", err)
	}
	return nil
}

// RateLimitInfo is the normalized view of the rateLimit extension.
type RateLimitInfo struct {
	Complexity          int    `json:"complexity"`
	RemainingComplexity int    `json:"remainingComplexity"`
	RemainingRequests   int    `json:"remainingRequests"`
	ComplexityResetTime string `json:"complexityResetTime"`
	RequestResetTime    string `json:"requestResetTime"`
}

// RateLimitDetails carries the X-RateLimit-* headers of a throttled response.
// Nil pointers mean the header was absent.
type RateLimitDetails struct {
	ResetTime           string     `json:"resetTime,omitempty"`
	ResetAt             *time.Time `json:"resetAt,omitempty"`
	RemainingRequests   *int       `json:"remainingRequests,omitempty"`
	RemainingComplexity *int       `json:"remainingComplexity,omitempty"`
}

type ReportLedgerEntry struct {
	ID              string            `json:"id"`
	EntityType      EntityType        `json:"entityType"`
	EntityID        int64             `json:"entityId"`
	ReportRequestID int64             `json:"reportRequestId"`
	FileName        string            `json:"fileName,omitempty"`
	Status          AsyncReportStatus `json:"status"`
	DownloadURL     string            `json:"downloadUrl,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

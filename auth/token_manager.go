package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/JonathanRiche/go-quantcast/core"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"
)

// ExpiryBuffer is how long before the real expiry a token is treated as
// expired.
const ExpiryBuffer = 5 * time.Minute

const (
	DefaultTokenRequestTimeout = 30 * time.Second
	maxErrorBodyBytes          = 4096
	refreshFlightKey           = "access_token"
)

var DefaultScopes = []string{"api_access", "read_reports"}

type TokenManagerConfig struct {
	Credentials    core.Credentials
	TokenURL       string
	Scopes         []string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Now            func() time.Time
	Logger         core.Logger
	Metrics        core.MetricsRecorder
}

// TokenManager caches one client-credentials access token and refreshes it
// on demand. Concurrent refreshes collapse into a single token request.
type TokenManager struct {
	config   TokenManagerConfig
	grant    clientcredentials.Config
	observer core.Observer
	flight   singleflight.Group

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time
}

func NewTokenManager(cfg TokenManagerConfig) (*TokenManager, error) {
	creds := core.Credentials{
		APIKey:    strings.TrimSpace(cfg.Credentials.APIKey),
		APISecret: strings.TrimSpace(cfg.Credentials.APISecret),
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	tokenURL := firstNonEmpty(cfg.TokenURL, core.DefaultTokenURL)
	scopes := normalizeValues(cfg.Scopes)
	if len(scopes) == 0 {
		scopes = append([]string(nil), DefaultScopes...)
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultTokenRequestTimeout
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &TokenManager{
		config: TokenManagerConfig{
			Credentials:    creds,
			TokenURL:       tokenURL,
			Scopes:         scopes,
			HTTPClient:     httpClient,
			RequestTimeout: timeout,
			Now:            now,
			Logger:         cfg.Logger,
			Metrics:        cfg.Metrics,
		},
		grant: clientcredentials.Config{
			ClientID:     creds.APIKey,
			ClientSecret: creds.APISecret,
			TokenURL:     tokenURL,
			Scopes:       scopes,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		observer: core.Observer{Logger: cfg.Logger, Metrics: cfg.Metrics, Prefix: "quantcast"},
	}, nil
}

// GetValidToken returns the cached token when it is outside the expiry
// buffer, otherwise it refreshes or joins the refresh already in flight.
func (m *TokenManager) GetValidToken(ctx context.Context) (string, error) {
	if token, ok := m.cachedToken(); ok {
		return token, nil
	}
	return m.refresh(ctx, true)
}

// RefreshToken forces a new token request unless one is already in flight,
// in which case the caller shares its result.
func (m *TokenManager) RefreshToken(ctx context.Context) (string, error) {
	return m.refresh(ctx, false)
}

func (m *TokenManager) IsTokenExpired() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.expiredLocked()
}

func (m *TokenManager) TokenInfo() core.TokenInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info := core.TokenInfo{
		HasToken:  m.accessToken != "",
		IsExpired: m.expiredLocked(),
	}
	if !m.expiresAt.IsZero() {
		expiresAt := m.expiresAt
		info.ExpiresAt = &expiresAt
	}
	return info
}

func (m *TokenManager) cachedToken() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.accessToken == "" || m.expiredLocked() {
		return "", false
	}
	return m.accessToken, true
}

func (m *TokenManager) expiredLocked() bool {
	if m.accessToken == "" || m.expiresAt.IsZero() {
		return true
	}
	return !m.config.Now().Before(m.expiresAt.Add(-ExpiryBuffer))
}

func (m *TokenManager) refresh(ctx context.Context, reuseFresh bool) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	// The shared request must outlive any single waiter, so it runs on a
	// context detached from the caller's cancellation.
	detached := context.WithoutCancel(ctx)
	result := m.flight.DoChan(refreshFlightKey, func() (any, error) {
		if reuseFresh {
			if token, ok := m.cachedToken(); ok {
				return token, nil
			}
		}
		fetchCtx, cancel := context.WithTimeout(detached, m.config.RequestTimeout)
		defer cancel()
		return m.fetchToken(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return "", core.NewAuthenticationError("auth: token refresh abandoned", 0, "", ctx.Err())
	case res := <-result:
		if res.Err != nil {
			return "", res.Err
		}
		token, _ := res.Val.(string)
		return token, nil
	}
}

func (m *TokenManager) fetchToken(ctx context.Context) (token string, err error) {
	startedAt := time.Now()
	fields := map[string]any{"auth_url": m.config.TokenURL}
	defer func() {
		m.observer.Observe(ctx, startedAt, "token.refresh", err, fields)
	}()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.config.HTTPClient)
	issued, err := m.grant.Token(ctx)
	if err != nil {
		return "", classifyTokenError(err)
	}
	if strings.TrimSpace(issued.AccessToken) == "" {
		return "", core.NewAuthenticationError("auth: no access token received from token endpoint", 0, "", nil)
	}

	now := m.config.Now()
	expiresAt := now
	if seconds, ok := expiresInSeconds(issued); ok {
		expiresAt = now.Add(time.Duration(seconds * float64(time.Second)))
	} else if !issued.Expiry.IsZero() {
		expiresAt = issued.Expiry
	}

	m.mu.Lock()
	m.accessToken = issued.AccessToken
	m.expiresAt = expiresAt
	m.mu.Unlock()

	fields["expires_at"] = expiresAt.Format(time.RFC3339)
	return issued.AccessToken, nil
}

func classifyTokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		body := truncate(string(retrieveErr.Body), maxErrorBodyBytes)
		return core.NewAuthenticationError(
			fmt.Sprintf("auth: oauth authentication failed: %d %s", status, body),
			status,
			body,
			err,
		)
	}
	if strings.Contains(err.Error(), "missing access_token") {
		return core.NewAuthenticationError("auth: no access token received from token endpoint", 0, "", err)
	}
	return core.NewAuthenticationError("auth: token request failed", 0, "", err)
}

func expiresInSeconds(token *oauth2.Token) (float64, bool) {
	switch typed := token.Extra("expires_in").(type) {
	case float64:
		return typed, true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func truncate(value string, limit int) string {
	if limit <= 0 || len(value) <= limit {
		return value
	}
	return value[:limit]
}

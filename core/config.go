package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultEndpoint      = "https://developers.quantcast.com/api/v2/graphql"
	DefaultTokenURL      = "https://auth.quantcast.com/oauth2/default/v1/token"
	DefaultTimeoutMS     = 30000
	DefaultRetryAttempts = 3
	DefaultRetryDelayMS  = 1000
)

type Config struct {
	Endpoint      string `koanf:"endpoint" mapstructure:"endpoint"`
	AuthURL       string `koanf:"auth_url" mapstructure:"auth_url"`
	TimeoutMS     int    `koanf:"timeout_ms" mapstructure:"timeout_ms"`
	RetryAttempts int    `koanf:"retry_attempts" mapstructure:"retry_attempts"`
	RetryDelayMS  int    `koanf:"retry_delay_ms" mapstructure:"retry_delay_ms"`
	APIKey        string `koanf:"api_key" mapstructure:"api_key"`
	APISecret     string `koanf:"api_secret" mapstructure:"api_secret"`
	ReportLedger  string `koanf:"report_ledger" mapstructure:"report_ledger"`
}

func DefaultConfig() Config {
	return Config{
		Endpoint:      DefaultEndpoint,
		AuthURL:       DefaultTokenURL,
		TimeoutMS:     DefaultTimeoutMS,
		RetryAttempts: DefaultRetryAttempts,
		RetryDelayMS:  DefaultRetryDelayMS,
	}
}

func (c Config) Validate() error {
	if err := validateURL("endpoint", c.Endpoint); err != nil {
		return err
	}
	if err := validateURL("auth_url", c.AuthURL); err != nil {
		return err
	}
	if c.TimeoutMS <= 0 {
		return fmt.Errorf("core: timeout_ms must be positive")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("core: retry_attempts must be at least 1")
	}
	if c.RetryDelayMS < 0 {
		return fmt.Errorf("core: retry_delay_ms must not be negative")
	}
	return nil
}

func (c Config) Credentials() Credentials {
	return Credentials{APIKey: c.APIKey, APISecret: c.APISecret}
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

func (c Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMS) * time.Millisecond
}

func validateURL(field string, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("core: %s is required", field)
	}
	parsed, err := url.Parse(value)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("core: %s must be an absolute url", field)
	}
	return nil
}

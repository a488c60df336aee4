package ratelimit

import (
	"strconv"
	"strings"
	"time"

	"github.com/JonathanRiche/go-quantcast/core"
)

const (
	HeaderReset               = "X-RateLimit-Reset"
	HeaderRemainingRequests   = "X-RateLimit-Remaining-Requests"
	HeaderRemainingComplexity = "X-RateLimit-Remaining-Complexity"
)

// FromHeaders reads the throttle headers of a 429 response. Absent or
// malformed values leave the matching field unset.
func FromHeaders(headers map[string]string) core.RateLimitDetails {
	details := core.RateLimitDetails{
		ResetTime: headerValue(headers, HeaderReset),
	}
	if resetAt, ok := parseResetAt(details.ResetTime); ok {
		details.ResetAt = &resetAt
	}
	if remaining, ok := parseHeaderInt(headers, HeaderRemainingRequests); ok {
		details.RemainingRequests = &remaining
	}
	if remaining, ok := parseHeaderInt(headers, HeaderRemainingComplexity); ok {
		details.RemainingComplexity = &remaining
	}
	return details
}

func parseHeaderInt(headers map[string]string, key string) (int, bool) {
	value := headerValue(headers, key)
	if value == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// parseResetAt accepts unix seconds or an RFC3339 instant.
func parseResetAt(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if unix, err := strconv.ParseInt(value, 10, 64); err == nil {
		if unix <= 0 {
			return time.Time{}, false
		}
		return time.Unix(unix, 0).UTC(), true
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC(), true
	}
	return time.Time{}, false
}

func headerValue(headers map[string]string, key string) string {
	if len(headers) == 0 {
		return ""
	}
	for existing, value := range headers {
		if strings.EqualFold(strings.TrimSpace(existing), strings.TrimSpace(key)) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

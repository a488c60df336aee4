package ratelimit

import "github.com/JonathanRiche/go-quantcast/core"

// Extract normalizes the rateLimit extension of a response. It reports false
// when the server did not include one.
func Extract(resp core.GraphQLResponse) (core.RateLimitInfo, bool) {
	if resp.Extensions == nil || resp.Extensions.RateLimit == nil {
		return core.RateLimitInfo{}, false
	}
	ext := resp.Extensions.RateLimit
	return core.RateLimitInfo{
		Complexity:          ext.QueryComplexity,
		RemainingComplexity: ext.QueryComplexityRemaining,
		RemainingRequests:   ext.RequestRemaining,
		ComplexityResetTime: ext.QueryComplexityResetTime,
		RequestResetTime:    ext.RequestResetTime,
	}, true
}

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/JonathanRiche/go-quantcast/core"
	goerrors "github.com/goliatone/go-errors"
)

const (
	exitFailure        = 1
	exitAuthentication = 2
	exitRateLimit      = 3
	exitGraphQL        = 4
	exitNetwork        = 5
	exitHTTP           = 6
)

// ExitCode maps a failure onto a process exit status by error kind.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch core.KindOf(err) {
	case core.KindAuthentication:
		return exitAuthentication
	case core.KindRateLimit:
		return exitRateLimit
	case core.KindGraphQL:
		return exitGraphQL
	case core.KindNetwork:
		return exitNetwork
	case core.KindHTTP:
		return exitHTTP
	default:
		return exitFailure
	}
}

func describeError(err error) string {
	if err == nil {
		return ""
	}
	if typed, ok := core.AsError(err); ok {
		message := typed.Error()
		if typed.Kind == core.KindRateLimit && typed.RateLimit != nil {
			if reset := describeReset(*typed.RateLimit); reset != "" {
				message += " (resets at " + reset + ")"
			}
		}
		return message
	}

	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		fields := rich.AllValidationErrors()
		if len(fields) > 0 {
			parts := make([]string, 0, len(fields))
			for _, field := range fields {
				parts = append(parts, fmt.Sprintf("%s: %s", field.Field, field.Message))
			}
			return fmt.Sprintf("%s (%s)", err.Error(), strings.Join(parts, "; "))
		}
	}
	return err.Error()
}

func describeReset(details core.RateLimitDetails) string {
	if details.ResetAt != nil {
		return details.ResetAt.UTC().Format(time.RFC3339)
	}
	return strings.TrimSpace(details.ResetTime)
}

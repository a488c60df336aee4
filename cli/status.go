package cli

import (
	"strconv"
	"time"

	"github.com/JonathanRiche/go-quantcast/adapters/gocommand"
	"github.com/JonathanRiche/go-quantcast/command"
	"github.com/JonathanRiche/go-quantcast/core"
	"github.com/spf13/cobra"
)

func (a *App) authInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "auth-info",
		Short: "Fetch a token and show its expiry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.progressf("Requesting access token...")
			info, err := gocommand.DispatchResult[command.RefreshTokenMessage, core.TokenInfo](cmd.Context(), command.RefreshTokenMessage{})
			if err != nil {
				return err
			}
			expires := ""
			if info.ExpiresAt != nil {
				expires = info.ExpiresAt.UTC().Format(time.RFC3339)
			}
			return a.renderFields(info, [][2]string{
				{"Has token", strconv.FormatBool(info.HasToken)},
				{"Expires at", expires},
				{"Expired", strconv.FormatBool(info.IsExpired)},
			})
		},
	}
}

func (a *App) rateLimitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rate-limit",
		Short: "Show the current query complexity and request budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info, ok, err := a.client.GetRateLimitInfo(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				a.progressf("The API did not report rate limit information")
				return a.printJSON(nil)
			}
			return a.renderFields(info, [][2]string{
				{"Complexity", strconv.Itoa(info.Complexity)},
				{"Remaining complexity", strconv.Itoa(info.RemainingComplexity)},
				{"Remaining requests", strconv.Itoa(info.RemainingRequests)},
				{"Complexity reset", info.ComplexityResetTime},
				{"Request reset", info.RequestResetTime},
			})
		},
	}
}

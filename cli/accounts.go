package cli

import (
	"fmt"

	quantcast "github.com/JonathanRiche/go-quantcast"
	"github.com/JonathanRiche/go-quantcast/adapters/gocommand"
	"github.com/JonathanRiche/go-quantcast/core"
	"github.com/JonathanRiche/go-quantcast/query"
	"github.com/spf13/cobra"
)

const accountsListLimit = 100

func (a *App) accountsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.progressf("Fetching accounts...")
			accounts, err := gocommand.Query[query.ListAccountsMessage, core.AccountsConnection](cmd.Context(), query.ListAccountsMessage{
				Args: quantcast.AccountsArgs{Limit: quantcast.Int(accountsListLimit)},
			})
			if err != nil {
				return err
			}
			a.progressf("Found %d accounts", accounts.TotalCount)

			rows := make([][]string, 0, len(accounts.Edges))
			for _, account := range accounts.Edges {
				rows = append(rows, []string{account.ID.String(), account.Name, account.Status, account.Timezone, account.Currency})
			}
			return a.render(accounts.Edges, []string{"ID", "Name", "Status", "Timezone", "Currency"}, rows)
		},
	}
}

func (a *App) accountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "account <id>",
		Short: "Get an account by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseID("account", args[0])
			if err != nil {
				return err
			}
			a.progressf("Fetching account %d...", accountID)
			account, err := gocommand.Query[query.GetAccountMessage, *core.Account](cmd.Context(), query.GetAccountMessage{AccountID: accountID})
			if err != nil {
				return err
			}
			if account == nil {
				return fmt.Errorf("account %d not found", accountID)
			}
			return a.renderFields(account, [][2]string{
				{"ID", account.ID.String()},
				{"Name", account.Name},
				{"Organization", account.OrganizationID},
				{"Status", account.Status},
				{"Timezone", account.Timezone},
				{"Currency", account.Currency},
			})
		},
	}
}

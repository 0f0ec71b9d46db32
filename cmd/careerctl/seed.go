package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khoahotran/career-compass/internal/app"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo accounts if they are missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			accounts, err := c.SeedAccounts.Execute(ctx)
			if err != nil {
				return fmt.Errorf("seed accounts: %w", err)
			}
			for _, a := range accounts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", a.ID, a.Email, a.Name)
			}
			return nil
		})
	},
}

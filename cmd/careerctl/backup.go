package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/khoahotran/career-compass/internal/app"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Upload a JSON snapshot of every plan to Cloudinary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
			if c.Backup == nil {
				return errors.New("cloudinary is not configured (CLOUDINARY_CLOUD_NAME)")
			}
			out, err := c.Backup.Execute(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "backed up %d plans to %s (pruned %d old snapshots)\n", out.Count, out.URL, out.Pruned)
			return nil
		})
	},
}

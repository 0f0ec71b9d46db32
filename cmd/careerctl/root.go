package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/khoahotran/career-compass/internal/app"
	"github.com/khoahotran/career-compass/internal/config"
	"github.com/khoahotran/career-compass/pkg/logger"
)

var (
	configDir string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "careerctl",
	Short:         "Operator tooling for Career Compass",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory holding config.yaml")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", formatHTML, "Output format: html or terminal")
	renderCmd.Flags().IntVar(&renderWidth, "width", 80, "Word wrap width for terminal output")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(backupCmd)
}

// withContainer loads configuration, builds the application and hands it to fn.
func withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *app.Container) error) error {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return err
	}

	log := logger.NewZapLogger(cfg.App.Env)
	defer log.Sync()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	container, err := app.NewContainer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer container.Close()

	return fn(ctx, container)
}

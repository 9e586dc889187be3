package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"etemplate-service/internal/bootstrap"
	"etemplate-service/internal/config"
	"etemplate-service/internal/logger"
)

// NewRootCmd builds etemplate-cli with all sub-commands registered.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "etemplate-cli",
		Short: "Convert legacy eTemplates and maintain the template cache",
		Long: `etemplate-cli converts legacy eTemplate XML (.xet) into web-component
markup and keeps the template cache of an install warm.

warm and customize read the same environment as the server, e.g.
TEMPLATE_ROOT, CACHE_BACKEND, CACHE_DIR, REDIS_URL and DATABASE_URL.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newConvertCmd(),
		newWarmCmd(),
		newListCmd(),
		newCustomizeCmd(),
	)
	return rootCmd
}

// loadApp reads the server configuration and wires the template service.
func loadApp(ctx context.Context) (*config.Config, *bootstrap.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logFile := logger.Init(cfg.Logger)

	app, err := bootstrap.New(ctx, cfg, nil)
	if err != nil {
		logFile.Close()
		return nil, nil, nil, fmt.Errorf("init template service: %w", err)
	}

	return cfg, app, func() {
		app.Close()
		logFile.Close()
	}, nil
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HerbHall/rigplanner/internal/engine"
	"github.com/HerbHall/rigplanner/internal/mcptools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the engine as MCP tools over stdio",
	Long: `Serve estimate_power, check_compatibility, filter_catalog and
compare_components to an MCP client over stdin/stdout. Logs go to stderr.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	settings, err := loadSettings()
	if err != nil {
		logger.Error("failed to load configuration", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	acc, closeCatalog, err := openCatalog(ctx, settings, logger)
	if err != nil {
		logger.Error("failed to open catalog", zap.Error(err))
		return err
	}
	defer closeCatalog()

	eng := engine.New(acc, engine.Options{
		Currency:    settings.Compare.Currency,
		MaxSpecRows: settings.Compare.MaxSpecRows,
		Workers:     settings.Compare.Workers,
	})
	return mcptools.NewServer(eng, logger).Run(ctx)
}

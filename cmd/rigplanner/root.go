package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HerbHall/rigplanner/internal/config"
	"github.com/HerbHall/rigplanner/internal/services"
	"github.com/HerbHall/rigplanner/internal/store"
	"github.com/HerbHall/rigplanner/pkg/catalog"
)

var (
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "rigplanner",
	Short: "PC build configurator and comparison engine",
	Long: `rigplanner picks compatible PC parts, estimates power draw, filters the
component catalog by facet and compares parts side by side.

Commands:
  serve    HTTP API with /metrics
  mcp      Model Context Protocol tools over stdio
  import   load a YAML/JSON catalog into the SQLite database
  parts    list the components stored in the database`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to configuration file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if flagVerbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loadSettings() (config.Settings, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Settings{}, err
	}
	return cfg.Settings()
}

// openCatalog returns the accessor selected by catalog.source. The returned
// close function releases the database when one was opened.
func openCatalog(ctx context.Context, s config.Settings, logger *zap.Logger) (catalog.Accessor, func(), error) {
	switch s.Catalog.Source {
	case config.SourceFile:
		logger.Info("using file catalog", zap.String("path", s.Catalog.Path))
		return catalog.NewFileCatalog(s.Catalog.Path), func() {}, nil
	case config.SourceSQLite:
		db, err := store.New(s.Database.Path)
		if err != nil {
			return nil, nil, err
		}
		repo, err := services.NewSQLiteComponentRepository(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("using sqlite catalog", zap.String("path", s.Database.Path))
		return repo, func() { db.Close() }, nil
	default:
		logger.Info("using embedded catalog")
		return catalog.NewCatalog(), func() {}, nil
	}
}

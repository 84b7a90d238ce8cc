package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HerbHall/rigplanner/internal/services"
	"github.com/HerbHall/rigplanner/internal/store"
	"github.com/HerbHall/rigplanner/pkg/catalog"
)

var flagImportFile string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the stored catalog with a YAML or JSON document",
	Long: `Validate a catalog document and replace every component and prebuilt in
the SQLite database with its contents. Set catalog.source to sqlite to serve
the imported catalog.

Examples:
  rigplanner import --file catalog.yaml
  rigplanner import --file parts.json --config rigplanner.yaml`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVarP(&flagImportFile, "file", "f", "", "Catalog document to import (.yaml, .yml or .json)")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(flagImportFile)
	if err != nil {
		return fmt.Errorf("read %q: %w", flagImportFile, err)
	}
	doc, err := catalog.Decode(data, strings.TrimPrefix(filepath.Ext(flagImportFile), "."))
	if err != nil {
		return fmt.Errorf("decode %q: %w", flagImportFile, err)
	}

	db, err := store.New(settings.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	repo, err := services.NewSQLiteComponentRepository(cmd.Context(), db)
	if err != nil {
		return err
	}
	res, err := repo.Import(cmd.Context(), doc)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	logger.Info("catalog imported",
		zap.String("file", flagImportFile),
		zap.String("database", settings.Database.Path),
		zap.Int("components", res.Components),
		zap.Int("prebuilts", res.Prebuilts),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d component(s) and %d prebuilt(s) into %s\n",
		res.Components, res.Prebuilts, settings.Database.Path)
	return nil
}

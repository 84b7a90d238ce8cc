package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/HerbHall/rigplanner/internal/build"
	catalogapi "github.com/HerbHall/rigplanner/internal/catalog"
	"github.com/HerbHall/rigplanner/internal/engine"
	"github.com/HerbHall/rigplanner/internal/metrics"
	"github.com/HerbHall/rigplanner/internal/server"
	"github.com/HerbHall/rigplanner/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
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
	m := metrics.New()

	srv := server.New(settings.Server.Addr(), logger, m,
		server.Options{
			RateLimit: settings.Server.RateLimit,
			RateBurst: settings.Server.RateBurst,
		},
		catalogapi.NewHandler(catalogapi.NewService(eng, m), logger),
		build.NewHandler(build.NewStore(), acc, m, logger),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	logger.Info("rigplanner server ready",
		zap.String("addr", settings.Server.Addr()),
		zap.String("version", version.Version),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), settings.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}
	logger.Info("rigplanner server stopped")
	return nil
}

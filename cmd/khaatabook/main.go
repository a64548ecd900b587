package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"khaatabook/internal/cli"
	apphttp "khaatabook/internal/http"
	"khaatabook/internal/ledger"
	applog "khaatabook/internal/log"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg.LogLevel)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	publisher, err := cli.InitPublisher(ctx, cfg, logger.WithComponent(applog.ComponentSheets))
	if err != nil {
		logger.Error("Failed to initialize Google Sheets publisher", applog.FieldError, err)
		os.Exit(1)
	}

	store := ledger.New(ledger.WithLogger(logger.WithComponent(applog.ComponentLedger)))

	opts := []apphttp.Option{
		apphttp.WithExportDir(cfg.ExportDir),
		apphttp.WithLogger(logger),
	}
	if publisher != nil {
		opts = append(opts, apphttp.WithPublisher(publisher))
	}
	srv := apphttp.NewServer(net.JoinHostPort("", cfg.Port), store, opts...)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 45 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting khaatabook server",
			applog.FieldOperation, applog.OpStartup,
			"port", cfg.Port,
			"export_dir", cfg.ExportDir,
			"sheets", publisher != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

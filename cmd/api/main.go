package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	httpadapter "github.com/kirillkom/eac-compliance-desk/internal/adapters/http"
	"github.com/kirillkom/eac-compliance-desk/internal/bootstrap"
	"github.com/kirillkom/eac-compliance-desk/internal/config"
	"github.com/kirillkom/eac-compliance-desk/internal/observability/logging"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("dotenv_load_failed", "error", err)
		os.Exit(1)
	}
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("api", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	router := httpadapter.NewRouter(cfg, httpadapter.Services{
		Session:  app.Session,
		Settings: app.Settings,
		Ledger:   app.Ledger,
		Receipts: app.Receipts,
		Desk:     app.Desk,
		Advisory: app.Advisory,
	}, httpadapter.WithMetrics(app.Metrics)).Handler()
	if cfg.APIH2C {
		// HTTP/2 without TLS for callers behind a TLS-terminating mesh.
		router = h2c.NewHandler(router, &http2.Server{})
	}

	server := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.AdvisoryTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("api_listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_failed", "error", err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/bye2money/internal/app"
	"github.com/MrJamesThe3rd/bye2money/internal/config"
	appHttp "github.com/MrJamesThe3rd/bye2money/internal/http"
	entryHandler "github.com/MrJamesThe3rd/bye2money/internal/http/entry"
	externalHandler "github.com/MrJamesThe3rd/bye2money/internal/http/external"
	importHandler "github.com/MrJamesThe3rd/bye2money/internal/http/importcsv"
	monthHandler "github.com/MrJamesThe3rd/bye2money/internal/http/month"
)

const shutdownTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to start ledger", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	var (
		entriesH  = entryHandler.NewHandler(a.Ledger, a.Factory)
		monthsH   = monthHandler.NewHandler(a.Ledger, a.Export, a.Formatter)
		importH   = importHandler.NewHandler(a.Importer)
		externalH = externalHandler.NewHandler(a.Ledger)
	)

	router := appHttp.New(appHttp.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		Timeout:     cfg.Server.Timeout,
	}, entriesH, monthsH, importH, externalH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		return a.Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("stopped with error", "error", err)
		a.Close()
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

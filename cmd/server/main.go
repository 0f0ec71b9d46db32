package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/career-compass/internal/app"
	"github.com/khoahotran/career-compass/internal/config"
	"github.com/khoahotran/career-compass/pkg/logger"
	"github.com/khoahotran/career-compass/pkg/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	appLogger.Info("Starting Career Compass API server...", zap.String("env", cfg.App.Env))

	shutdownTracer, err := tracing.Setup(cfg, appLogger, "career-compass-api")
	if err != nil {
		appLogger.Fatal("Failed to initialize tracer", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", err)
		}
	}()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.NewContainer(rootCtx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to build application", err)
	}
	defer container.Close()

	if _, err := container.SeedAccounts.Execute(rootCtx); err != nil {
		appLogger.Fatal("Failed to seed demo accounts", err)
	}

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           container.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("HTTP server stopped unexpectedly", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	appLogger.Info("Server exited")
}

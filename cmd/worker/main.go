package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/khoahotran/career-compass/adapters/event"
	"github.com/khoahotran/career-compass/internal/app"
	"github.com/khoahotran/career-compass/internal/config"
	"github.com/khoahotran/career-compass/internal/jobs"
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

	appLogger.Info("Starting Career Compass worker...")

	shutdownTracer, err := tracing.Setup(cfg, appLogger, "career-compass-worker")
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.NewContainer(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to build application", err)
	}
	defer container.Close()

	if container.Backup != nil {
		backupJob := jobs.NewBackupJob(cfg.Backup.Schedule, container.Backup.RunScheduled, appLogger)
		if err := backupJob.SetupAndStart(); err != nil {
			appLogger.Fatal("Failed to start backup job", err)
		}
		defer backupJob.Stop()
	} else {
		appLogger.Warn("Cloudinary not configured; plan backups are disabled")
	}

	if !cfg.KafkaEnabled() {
		appLogger.Warn("No Kafka brokers configured; worker only runs scheduled jobs")
		<-ctx.Done()
		appLogger.Info("Worker exited")
		return
	}

	consumer := event.NewPlanEventConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, container.ProcessPlanEvent.Execute, appLogger)
	defer consumer.Close()

	if err := consumer.Run(ctx); err != nil {
		appLogger.Error("Plan event consumer stopped", err)
	}
	appLogger.Info("Worker exited")
}

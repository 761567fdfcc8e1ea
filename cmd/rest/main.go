package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-blog-be/internal/bootstrap"
	"ai-blog-be/internal/config"
	"ai-blog-be/internal/pkg/logger"
	"ai-blog-be/internal/server"
	"ai-blog-be/internal/tracer"
	"ai-blog-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	isProd := cfg.App.Environment == "production"
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, isProd)

	// 2. Tracing, off unless OTEL_ENABLED=true
	shutdownTracer := tracer.InitTracer("ai-blog-backend", sysLogger)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, !isProd)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(gormDB, cfg, sysLogger)
	if err != nil {
		log.Panicf("Unable to build container: %v", err)
	}
	defer container.Close()

	// 5. Start Background Services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := container.Start(ctx); err != nil {
		log.Panicf("Unable to start background services: %v", err)
	}

	// 6. Run Server until interrupted
	srv := server.New(cfg, container)
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		sysLogger.Info("HTTP", "Shutting down", nil)
		_ = srv.Shutdown()
	}()

	if err := srv.Run(); err != nil {
		sysLogger.Error("HTTP", "Server stopped", map[string]interface{}{"error": err.Error()})
	}
}

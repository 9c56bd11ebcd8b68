package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"project-ledger-be/internal/bootstrap"
	"project-ledger-be/internal/config"
	"project-ledger-be/internal/pkg/logger"
	"project-ledger-be/internal/server"
	"project-ledger-be/internal/tracer"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	shutdownTracer := tracer.InitTracer(cfg.Otel)
	defer shutdownTracer(context.Background())

	// 2. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(cfg, sysLogger)
	if err != nil {
		log.Panicf("Unable to bootstrap: %v", err)
	}
	defer container.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Start Background Services before the ledger loads, the startup
	// fingerprint goes through the consumer like every other one
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Panicf("Unable to start consumer: %v", err)
	}
	go container.WebSocketHub.Run(ctx)

	if err := container.Store.Load(ctx); err != nil {
		log.Panicf("Unable to load ledger: %v", err)
	}
	container.Store.Flush()
	fingerprint, _ := container.Store.Fingerprint()
	sysLogger.Info("MAIN", "Ledger ready", map[string]interface{}{"fingerprint": fingerprint})

	// 4. Run Server
	srv := server.New(cfg, container)
	go func() {
		if err := srv.Run(); err != nil {
			log.Printf("Server stopped: %v", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	if err := srv.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	container.Store.Flush()
	cancel()
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"aable-presence/common/logger"
	"aable-presence/internal/config"
	"aable-presence/internal/service"

	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "aable-presence")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting aable-presence batch run")

	svc, err := service.NewPresenceService(cfg, log)
	if err != nil {
		log.Fatal("Failed to create presence service", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听系统信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan error, 1)
	go func() {
		results, err := svc.Run(ctx, cfg.Presence.DateFrom, cfg.Presence.DateTo)
		for _, res := range results {
			log.Info("Batch finished",
				zap.String("batch_id", res.BatchID),
				zap.Int("identities", len(res.Timelines)),
				zap.Int("segments", len(res.Segments)),
				zap.Int("anomalies", len(res.Anomalies.Events)),
			)
		}
		done <- err
	}()

	exitCode := 0
	select {
	case sig := <-sigChan:
		log.Info("Received signal, cancelling batch run", zap.String("signal", sig.String()))
		cancel()
		if err := <-done; err != nil {
			log.Warn("Batch run interrupted", zap.Error(err))
		}
		exitCode = 1
	case err := <-done:
		if err != nil {
			log.Error("Batch run failed", zap.Error(err))
			exitCode = 1
		}
	}

	if err := svc.Stop(); err != nil {
		log.Error("Error stopping service", zap.Error(err))
	}
	log.Info("Service stopped")

	if exitCode != 0 {
		log.Sync()
		os.Exit(exitCode)
	}
}

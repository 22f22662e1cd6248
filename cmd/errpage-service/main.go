package main

import (
	"os"

	"go.uber.org/zap"

	"errpage-service/internal/app"
	"errpage-service/internal/config"
	"errpage-service/internal/logger"
)

func main() {
	// Bootstrap logger until the configured one is available
	bootLog := logger.NewLogger("errpage-service", "info", "json", false)

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		bootLog.Fatal("Failed to load config", zap.String("path", path), zap.Error(err))
	}
	_ = bootLog.Sync()

	log := logger.NewLogger(cfg.App.Name, cfg.Logger.Level, cfg.Logger.Encoding, cfg.Logger.Development)
	defer func() {
		_ = log.Sync()
	}()

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}

	if err := application.Run(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}

	log.Info("Server stopped")
}

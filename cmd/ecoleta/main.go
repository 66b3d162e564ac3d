package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vbonduro/ecoleta/internal/config"
	"github.com/vbonduro/ecoleta/internal/db"
	"github.com/vbonduro/ecoleta/internal/events"
	"github.com/vbonduro/ecoleta/internal/events/mqtt"
	"github.com/vbonduro/ecoleta/internal/logging"
	"github.com/vbonduro/ecoleta/internal/photostore/local"
	"github.com/vbonduro/ecoleta/internal/service"
	"github.com/vbonduro/ecoleta/internal/store"
	"github.com/vbonduro/ecoleta/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile, cfg.LogMaxSizeMB)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		cleanup()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	photoStg, err := local.NewLocalPhotoStore(cfg.UploadsPath)
	if err != nil {
		return err
	}

	publisher, closePublisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	pointService := service.NewPointService(
		store.NewPointStore(database),
		store.NewItemStore(database),
		photoStg,
		publisher,
		cfg.UploadsURL(),
		logger,
	)
	server := web.NewServer(pointService, photoStg, web.Options{
		MaxUploadBytes: int64(cfg.MaxUploadMB) << 20,
		CORSOrigins:    cfg.CORSOrigins,
	}, logger)

	return server.Run(ctx, cfg.ListenAddr)
}

func newPublisher(cfg *config.Config, logger *slog.Logger) (events.Publisher, func(), error) {
	if cfg.MQTTBroker == "" {
		logger.Info("event publishing disabled")
		return events.Nop{}, func() {}, nil
	}
	p, err := mqtt.NewPublisher(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopic)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("publishing point events", "broker", cfg.MQTTBroker, "topic", cfg.MQTTTopic)
	return p, p.Close, nil
}

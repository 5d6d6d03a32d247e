package main

import (
	"context"
	"errors"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"trashminder/internal/app"
	"trashminder/internal/domain/detection"
	"trashminder/internal/infra/camera"
	"trashminder/internal/infra/config"
	"trashminder/internal/infra/hass"
	"trashminder/internal/infra/logger"
	"trashminder/internal/infra/notify"
	"trashminder/internal/infra/vision"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("FATAL: Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.WithFields(logrus.Fields{
		"window":    cfg.Window.String(),
		"camera":    cfg.CameraEntity,
		"channel":   cfg.NotifyChannel,
		"test_mode": cfg.TestMode,
	}).Info("configuration loaded")

	cam := camera.NewClient(cfg.HassAPIURL, cfg.SupervisorToken, cfg.CameraEntity, log)
	classifier := vision.NewClassifier(cfg.OpenAIAPIKey, log)
	reporter := hass.NewStateClient(cfg.HassAPIURL, cfg.SupervisorToken, log)

	var notifier detection.Notifier
	switch cfg.NotifyChannel {
	case config.ChannelTelegram:
		notifier, err = notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, log)
		if err != nil {
			log.Fatalf("FATAL: Could not create Telegram notifier: %v", err)
		}
	default:
		notifier = notify.NewPushoverNotifier(cfg.PushoverAPIToken, cfg.PushoverUserKey, log)
	}

	monitor := app.NewMonitorService(
		cfg.Window,
		cfg.TestMode,
		cam,
		classifier,
		notifier,
		reporter,
		app.NewSystemClock(),
		rand.New(rand.NewSource(time.Now().UnixNano())),
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := monitor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("FATAL: Monitor loop exited unexpectedly: %v", err)
	}
	log.Info("shut down gracefully")
}

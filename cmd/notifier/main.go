package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bekzodm/oshxona/internal/config"
	kafkax "github.com/bekzodm/oshxona/internal/kafka"
	"github.com/bekzodm/oshxona/internal/logging"
	"github.com/bekzodm/oshxona/internal/notify"
	"github.com/bekzodm/oshxona/internal/orders"
	"github.com/bekzodm/oshxona/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	if err := logging.Init(os.Getenv("ENV") == "development"); err != nil {
		panic(err)
	}
	defer logging.Sync()
	log := logging.L()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	var sender notify.Sender
	if cfg.SMSGatewayURL != "" {
		sender = notify.NewGatewaySender(cfg.SMSGatewayURL, cfg.SMSGatewayToken)
	} else {
		log.Warn("SMS_GATEWAY_URL not set, notifications go to the log")
		sender = &notify.LogSender{Log: log}
	}

	svc := &notify.Service{
		Redis:       rdb,
		Sender:      sender,
		Log:         log,
		ServiceName: cfg.ServiceName + "-notifier",
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.NotifierGroup, orders.TopicNotifications, cfg.NotifierWorkers, log)
	go func() {
		log.Info("notifier consumer started",
			zap.String("group", cfg.NotifierGroup),
			zap.String("topic", orders.TopicNotifications),
			zap.Int("workers", cfg.NotifierWorkers))
		if err := cons.Start(ctx, svc.HandleNotification); err != nil {
			log.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

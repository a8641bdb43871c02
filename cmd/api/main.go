package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bekzodm/oshxona/internal/config"
	"github.com/bekzodm/oshxona/internal/httpx"
	kafkax "github.com/bekzodm/oshxona/internal/kafka"
	"github.com/bekzodm/oshxona/internal/logging"
	"github.com/bekzodm/oshxona/internal/menu"
	"github.com/bekzodm/oshxona/internal/orders"
	"github.com/bekzodm/oshxona/internal/postgres"
	"github.com/bekzodm/oshxona/internal/realtime"
	"github.com/bekzodm/oshxona/internal/redisx"
	"github.com/bekzodm/oshxona/internal/staff"
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

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	changes := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderChanges, 1024, log)
	changes.Start(ctx)
	notify := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicNotifications, 1024, log)
	notify.Start(ctx)

	orderRepo := &orders.Repo{DB: db}
	menuRepo := &menu.Repo{DB: db}
	staffRepo := &staff.Repo{DB: db}
	svc := orders.NewService(orderRepo, changes, notify, log, cfg.ServiceName)

	// staff board: snapshot primed from the DB, then reconciled from the
	// change feed
	board := realtime.NewStore(log)
	if recent, err := orderRepo.ListRecent(ctx, 200); err != nil {
		log.Warn("prime order board", zap.Error(err))
	} else {
		board.Prime(recent)
	}
	boardConsumer := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ServiceName+"-board", orders.TopicOrderChanges, 2, log)
	go func() {
		if err := boardConsumer.Start(ctx, board.HandleMessage); err != nil {
			log.Error("board consumer exit", zap.Error(err))
		}
	}()

	auth := &httpx.Auth{Secret: cfg.JWTSecret}
	router := httpx.NewRouter()
	(&httpx.OrdersHandler{Service: svc, Board: board, Redis: rdb}).Register(router, auth)
	(&httpx.MenuHandler{Repo: menuRepo}).Register(router, auth)
	(&httpx.StaffHandler{Repo: staffRepo, JWTSecret: cfg.JWTSecret}).Register(router, auth)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	changes.Close()
	notify.Close()
	changes.WaitClosed()
	notify.WaitClosed()
	cancel() // stop the board consumer
}

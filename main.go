package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dinehall-pos-services/internal/config"
	"dinehall-pos-services/internal/db"
	httpapi "dinehall-pos-services/internal/http"
	"dinehall-pos-services/internal/logger"
	"dinehall-pos-services/internal/queue"
	"dinehall-pos-services/internal/ws"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	var queueClient *queue.Client
	if cfg.RabbitMQURL != "" {
		qc, err := queue.New(cfg.RabbitMQURL)
		if err != nil {
			if cfg.Env == "production" {
				log.Fatal("rabbitmq connection failed", zap.Error(err))
			}
			log.Warn("rabbitmq connection failed; continuing without kitchen events", zap.Error(err))
			qc = nil
		}
		if qc != nil {
			if err := queue.EnsureKitchenTopology(qc); err != nil {
				if cfg.Env == "production" {
					log.Fatal("rabbitmq topology failed", zap.Error(err))
				}
				log.Warn("rabbitmq topology failed; continuing without kitchen events", zap.Error(err))
				_ = qc.Close()
				qc = nil
			}
		}

		queueClient = qc
		if qc != nil {
			log.Info("kitchen events enabled", zap.String("exchange", queue.EventsExchange))
			defer qc.Close()

			if cfg.KitchenConsumerMode == "daemon" {
				log.Info("kitchen consumer enabled", zap.String("queue", queue.KitchenQueue))
				go func() {
					err := queueClient.ConsumeWithRetry(queue.KitchenQueue, func(ctx context.Context, body []byte) error {
						return queue.LogKitchenTicket(log, body)
					}, 5, 5*time.Second)
					if err != nil {
						log.Error("kitchen consumer stopped", zap.Error(err))
					}
				}()
			}
		}
	} else {
		log.Info("kitchen events disabled (RABBITMQ_URL is empty)")
	}

	wsServer := ws.New(pool, log, cfg)
	apiServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(pool, log, cfg, queueClient, wsServer),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("pos api ready", zap.String("base", "/api"))
		log.Info("pos service listening", zap.String("addr", cfg.HTTPAddr))
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	wsServer.Close()
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxShutdown); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
}

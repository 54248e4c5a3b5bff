package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/TemirB/order-enrichment/internal/application/enrichment"
	"github.com/TemirB/order-enrichment/internal/application/handler"
	"github.com/TemirB/order-enrichment/internal/application/service"
	"github.com/TemirB/order-enrichment/internal/cache"
	"github.com/TemirB/order-enrichment/internal/config"
	"github.com/TemirB/order-enrichment/internal/database"
	"github.com/TemirB/order-enrichment/internal/httpapi"
	"github.com/TemirB/order-enrichment/internal/kafka"
	"github.com/TemirB/order-enrichment/internal/mailer"
	"github.com/TemirB/order-enrichment/internal/observability"
	"github.com/TemirB/order-enrichment/internal/pkg/breaker"

	"go.uber.org/zap"
)

const metricsWindow = 1000

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Service stopped with error", zap.Error(err))
	}
	logger.Info("Service stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if cfg.API.InsecureSkipVerify {
		logger.Warn("TLS certificate verification is disabled for the store API")
	}
	metrics := observability.NewInmem(metricsWindow)

	// Results
	results, closeResults, err := newResultCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeResults()

	// Orders
	orders, err := cache.NewOrders(cfg.Cache.OrderCap)
	if err != nil {
		return err
	}

	var storage service.Storage
	if cfg.Pg.DSN != "" {
		pool, err := database.Connect(ctx, cfg.Pg.DSN, logger)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := database.Migrate(pool, logger); err != nil {
			return err
		}
		repo := database.New(pool)
		orders.Warm(ctx, repo)
		storage = repo
	} else {
		logger.Info("PG_DSN is empty, orders are kept in memory only")
	}
	svc := service.NewService(orders, storage, logger, metrics)

	// Notifications
	var mail enrichment.Mailer
	if cfg.SMTPEnabled() {
		smtp, err := mailer.NewSMTP(cfg.SMTP, cfg.Notify.From, logger)
		if err != nil {
			return err
		}
		mail = smtp
	} else {
		logger.Info("SMTP_HOST is empty, notifications go to the log")
		mail = mailer.NewLog(logger)
	}

	// Enrichment
	fetcher, err := enrichment.NewFetcher(enrichment.NewHTTPClient(cfg.API), cfg.API, results, metrics, logger)
	if err != nil {
		return err
	}
	flow := enrichment.NewFlow(
		fetcher,
		enrichment.NewPresenter(results, svc, metrics, logger, enrichment.WithRawHTML(cfg.API.ResponsesHTML)),
		enrichment.NewNotifier(mail, cfg.Notify.Recipients, metrics, logger),
		logger,
	)

	h := handler.NewHandler(svc, flow, breaker.New(cfg.Breaker), cfg.Retry, metrics, logger)

	if cfg.KafkaEnabled() {
		if err := kafka.EnsureTopic(ctx, cfg.Kafka, logger); err != nil {
			return err
		}
		reader := kafka.NewReader(cfg.Kafka)
		defer reader.Close()

		consumer := kafka.NewConsumer(h, reader, cfg.Kafka.Workers, logger, kafka.WithSkip(handler.IsPoison))
		go consumer.Start(ctx)
	}

	server := httpapi.New(h, flow, svc, logger, metrics)
	logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
	if err := server.ListenAndServe(ctx, cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newResultCache(ctx context.Context, cfg config.Config, logger *zap.Logger) (enrichment.ResultCache, func(), error) {
	if cfg.Cache.Backend != "redis" {
		return cache.NewResults(cfg.Cache.Cap, cfg.Cache.TTL), func() {}, nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.Redis, logger)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewRedisResults(client, cfg.Cache.TTL, logger), func() { _ = client.Close() }, nil
}

// Package handler turns an order-processing event into a persisted order and
// a cached enrichment result.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/TemirB/order-enrichment/internal/config"
	"github.com/TemirB/order-enrichment/internal/domain"
	"github.com/TemirB/order-enrichment/internal/observability"
	"github.com/TemirB/order-enrichment/internal/pkg/retry"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

//go:generate mockgen -source internal/application/handler/handler.go -destination=internal/application/handler/handler_mock_test.go -package=handler

var (
	ErrBadJSON     = errors.New("bad json")
	ErrUpsert      = errors.New("upsert failed")
	ErrFetch       = errors.New("fetch failed")
	ErrCircuitOpen = errors.New("circuit breaker open")
)

type Service interface {
	Upsert(ctx context.Context, order *domain.Order) error
}

type Flow interface {
	OnOrderProcessing(ctx context.Context, order domain.Order) (domain.FetchResult, error)
}

type brk interface {
	Allow() error
	Success()
	Failure()
}

type Handler struct {
	service     Service
	flow        Flow
	breaker     brk
	metrics     observability.Metrics
	logger      *zap.Logger
	retryPolicy config.Retry
}

func NewHandler(service Service, flow Flow, brk brk, retryPolicy config.Retry, metrics observability.Metrics, logger *zap.Logger) *Handler {
	if metrics == nil {
		metrics = observability.Noop{}
	}
	return &Handler{
		service:     service,
		flow:        flow,
		breaker:     brk,
		metrics:     metrics,
		logger:      logger,
		retryPolicy: retryPolicy,
	}
}

// Handle is called by the consumer to process a single message.
// The consumer commits the offset itself after Handle returns nil.
func (h *Handler) Handle(ctx context.Context, message kafkago.Message) error {
	start := time.Now()
	fields := []zap.Field{
		zap.Int("partition", message.Partition),
		zap.Int64("offset", message.Offset),
	}

	var order domain.Order
	if err := json.Unmarshal(message.Value, &order); err != nil {
		h.logger.Error("bad json format", append(fields, zap.Error(err))...)
		h.metrics.ObserveEvent(convertToMs(start), false)
		return ErrBadJSON
	}

	_, err := h.Process(ctx, order)
	h.metrics.ObserveEvent(convertToMs(start), err == nil)
	if err != nil {
		return err
	}

	h.logger.Info("successfully processed order", append(fields,
		zap.Int64("order_id", int64(order.ID)),
		zap.Int("key_bytes", len(message.Key)),
		zap.Int("value_bytes", len(message.Value)),
	)...)
	return nil
}

// Process persists the order and runs the enrichment fetch. The result is
// returned whatever the API said; the error reports only what stopped the
// order from being processed.
// Malformed orders are rejected before the breaker is consulted and never
// count as failures: they say nothing about the health of the store.
func (h *Handler) Process(ctx context.Context, order domain.Order) (domain.FetchResult, error) {
	if err := order.Validate(); err != nil {
		h.logger.Error("missing order id", zap.Int64("order_id", int64(order.ID)))
		return domain.FetchResult{}, ErrBadJSON
	}

	if err := h.breaker.Allow(); err != nil {
		h.logger.Warn("circuit breaker is open",
			zap.Int64("order_id", int64(order.ID)),
			zap.Error(err),
		)
		return domain.FetchResult{}, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}

	if err := retry.Do(ctx, h.retryPolicy, func() error {
		return h.service.Upsert(ctx, &order)
	}); err != nil {
		h.logger.Error("upsert failed after retries",
			zap.Int64("order_id", int64(order.ID)),
			zap.Error(err),
		)
		h.breaker.Failure()
		return domain.FetchResult{}, fmt.Errorf("%w: %v", ErrUpsert, err)
	}

	result, err := h.flow.OnOrderProcessing(ctx, order)
	if err != nil {
		h.logger.Error("fetch result was not stored",
			zap.Int64("order_id", int64(order.ID)),
			zap.Error(err),
		)
		h.breaker.Failure()
		return result, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	h.breaker.Success()
	return result, nil
}

// IsPoison reports errors after which retrying the same message cannot help.
func IsPoison(err error) bool {
	return errors.Is(err, ErrBadJSON)
}

func convertToMs(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}

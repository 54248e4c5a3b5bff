// Package service keeps the orders seen in processing events so their billing
// email can be read back when the thank-you page is rendered.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/TemirB/order-enrichment/internal/domain"
	"github.com/TemirB/order-enrichment/internal/observability"
	"go.uber.org/zap"
)

//go:generate mockgen -source internal/application/service/service.go -destination=internal/application/service/service_mock_test.go -package=service

type Cache interface {
	Set(*domain.Order)
	Get(domain.OrderID) (*domain.Order, bool)
}

type Storage interface {
	Upsert(context.Context, *domain.Order) error
	GetByID(context.Context, domain.OrderID) (*domain.Order, error)
}

type Service struct {
	cache   Cache
	storage Storage
	logger  *zap.Logger
	metrics observability.Metrics
}

// NewService accepts a nil storage: orders then live in the cache only.
func NewService(cache Cache, storage Storage, logger *zap.Logger, metrics observability.Metrics) *Service {
	if metrics == nil {
		metrics = observability.Noop{}
	}
	return &Service{
		cache:   cache,
		storage: storage,
		logger:  logger,
		metrics: metrics,
	}
}

func (s *Service) UpsertWithStats(ctx context.Context, order *domain.Order) (UpsertStats, error) {
	var st UpsertStats

	if err := order.Validate(); err != nil {
		return st, fmt.Errorf("upsert order %d: %w", order.ID, err)
	}

	if s.storage != nil {
		t0 := time.Now()
		if err := s.storage.Upsert(ctx, order); err != nil {
			s.logger.Error(
				"Error while upserting order in db",
				zap.Int64("order_id", int64(order.ID)),
				zap.Error(err),
			)
			return st, err
		}
		st.DBWriteMs = convertToMs(t0)
		st.Persisted = true
	}

	s.cache.Set(order)

	s.logger.Info("Order upserted",
		zap.Int64("order_id", int64(order.ID)),
		zap.Bool("persisted", st.Persisted),
		zap.Float64("db_write_ms", st.DBWriteMs),
	)

	return st, nil
}

func (s *Service) Upsert(ctx context.Context, order *domain.Order) error {
	_, err := s.UpsertWithStats(ctx, order)
	return err
}

func (s *Service) GetByID(ctx context.Context, id domain.OrderID) (*domain.Order, error) {
	o, _, err := s.GetByIDWithStats(ctx, id)
	return o, err
}

func (s *Service) GetByIDWithStats(ctx context.Context, id domain.OrderID) (*domain.Order, LookupStats, error) {
	var st LookupStats

	// Try cache
	tCacheStart := time.Now()
	if order, ok := s.cache.Get(id); ok {
		st.Source = SourceCache
		st.CacheMs = convertToMs(tCacheStart)
		s.metrics.ObserveLookup(string(st.Source), st.CacheMs, 0)

		s.logger.Debug("Order fetched from cache",
			zap.Int64("order_id", int64(id)),
			zap.Float64("cache_ms", st.CacheMs),
		)

		return order, st, nil
	}
	st.CacheMs = convertToMs(tCacheStart)

	if s.storage == nil {
		s.metrics.ObserveLookup("", st.CacheMs, 0)
		return nil, st, fmt.Errorf("order %d: %w", id, domain.ErrNotFound)
	}

	// Try DB
	tDbStart := time.Now()
	order, err := s.storage.GetByID(ctx, id)
	if err != nil {
		s.logger.Error(
			"Can't find order",
			zap.Int64("order_id", int64(id)),
			zap.Error(err),
			zap.Float64("cache_ms", st.CacheMs),
		)
		s.metrics.ObserveLookup("", st.CacheMs, convertToMs(tDbStart))
		return nil, st, err
	}

	st.Source = SourceDB
	st.DBMs = convertToMs(tDbStart)

	s.cache.Set(order)

	s.metrics.ObserveLookup(string(st.Source), st.CacheMs, st.DBMs)
	s.logger.Info("Order fetched from DB",
		zap.Int64("order_id", int64(id)),
		zap.Float64("cache_ms", st.CacheMs),
		zap.Float64("db_ms", st.DBMs),
	)

	return order, st, nil
}

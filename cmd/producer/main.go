// Command producer publishes fake order-processing events for local runs.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/TemirB/order-enrichment/internal/config"
	orderkafka "github.com/TemirB/order-enrichment/internal/kafka"
	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type producerConfig struct {
	Addr            string  `env:"PRODUCER_ADDR" envDefault:":8082"`
	TargetProductID int64   `env:"TARGET_PRODUCT_ID" envDefault:"1608"`
	BadRate         float64 `env:"PRODUCER_BAD_RATE" envDefault:"0"`
	Kafka           config.Kafka
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Spammer struct {
	writer    messageWriter
	gen       *generator
	logger    *zap.Logger
	isRunning atomic.Bool
	totalSent atomic.Int64
	mu        sync.Mutex
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

type SpamRequest struct {
	Rate     int    `json:"rate"`
	Duration string `json:"duration"`
}

func NewSpammer(writer messageWriter, gen *generator, logger *zap.Logger) *Spammer {
	return &Spammer{writer: writer, gen: gen, logger: logger}
}

func (s *Spammer) StartSpam(rate int, duration time.Duration) bool {
	if !s.isRunning.CompareAndSwap(false, true) {
		return false
	}
	s.totalSent.Store(0)

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.logger.Info("Starting spam", zap.Int("rate", rate), zap.Duration("duration", duration))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.isRunning.Store(false)
		defer cancel()

		ticker := time.NewTicker(time.Second / time.Duration(rate))
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.writer.WriteMessages(ctx, s.gen.Next()); err != nil {
					if ctx.Err() == nil {
						s.logger.Error("Error sending message to Kafka", zap.Error(err))
					}
					continue
				}
				s.totalSent.Add(1)
			case <-ctx.Done():
				s.logger.Info("Spam finished", zap.Int64("total_sent", s.totalSent.Load()))
				return
			}
		}
	}()
	return true
}

func (s *Spammer) StopSpam() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

func (s *Spammer) routes() http.Handler {
	r := chi.NewRouter()

	r.Post("/start", func(w http.ResponseWriter, r *http.Request) {
		var req SpamRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if req.Rate <= 0 {
			req.Rate = 10
		}
		duration, err := time.ParseDuration(req.Duration)
		if err != nil || duration <= 0 {
			http.Error(w, "Invalid duration", http.StatusBadRequest)
			return
		}
		if !s.StartSpam(req.Rate, duration) {
			http.Error(w, "already running", http.StatusConflict)
			return
		}
		writeJSON(w, map[string]any{"status": "started", "rate": req.Rate, "duration": duration.String()})
	})

	r.Post("/stop", func(w http.ResponseWriter, _ *http.Request) {
		s.StopSpam()
		writeJSON(w, map[string]any{"status": "stopped", "total_sent": s.totalSent.Load()})
	})

	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"is_running": s.isRunning.Load(), "total_sent": s.totalSent.Load()})
	})

	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	_ = godotenv.Load("env/.env")
	cfg, err := env.ParseAs[producerConfig]()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{"kafka:9092"}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := orderkafka.EnsureTopic(ctx, cfg.Kafka, logger); err != nil {
		logger.Warn("Topic bootstrap failed", zap.Error(err))
	}

	writer := orderkafka.NewWriter(cfg.Kafka)
	defer writer.Close()

	spammer := NewSpammer(writer, newGenerator(cfg.TargetProductID, cfg.BadRate), logger)
	defer spammer.StopSpam()

	srv := &http.Server{Addr: cfg.Addr, Handler: spammer.routes(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	logger.Info("Producer started", zap.String("addr", cfg.Addr), zap.Strings("brokers", cfg.Kafka.Brokers))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(fmt.Sprintf("listen: %v", err))
	}
}

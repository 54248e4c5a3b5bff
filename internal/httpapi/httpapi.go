// Package httpapi exposes the order lifecycle hooks over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/TemirB/order-enrichment/internal/application/enrichment"
	"github.com/TemirB/order-enrichment/internal/application/handler"
	"github.com/TemirB/order-enrichment/internal/application/service"
	"github.com/TemirB/order-enrichment/internal/domain"
	"github.com/TemirB/order-enrichment/internal/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

//go:generate mockgen -source internal/httpapi/httpapi.go -destination=internal/httpapi/httpapi_mock_test.go -package=httpapi

const maxRequestBytes = 1 << 20

type Processor interface {
	Process(ctx context.Context, order domain.Order) (domain.FetchResult, error)
}

type Renderer interface {
	OnThankYou(ctx context.Context, ref domain.OrderRef) enrichment.View
	OnEmailBeforeOrderTable(ctx context.Context, ref domain.OrderRef, plainText bool) enrichment.View
}

type OrderLookup interface {
	GetByIDWithStats(ctx context.Context, id domain.OrderID) (*domain.Order, service.LookupStats, error)
}

type snapshotter interface {
	Snapshot() observability.Snapshot
}

type Server struct {
	processor Processor
	renderer  Renderer
	orders    OrderLookup
	router    chi.Router
	logger    *zap.Logger
	metrics   observability.Metrics
}

func New(processor Processor, renderer Renderer, orders OrderLookup, logger *zap.Logger, metrics observability.Metrics) *Server {
	if metrics == nil {
		metrics = observability.Noop{}
	}
	s := &Server{
		processor: processor,
		renderer:  renderer,
		orders:    orders,
		logger:    logger,
		router:    chi.NewRouter(),
		metrics:   metrics,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		RequestLogger(s.logger),
		middleware.Recoverer,
		ServerTimingApp(s.metrics),
	)

	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.router.Post("/hooks/order-processing", s.orderProcessing)
	s.router.Post("/hooks/email-before-order-table", s.emailBeforeOrderTable)
	s.router.Get("/orders/{orderID}/thank-you", s.thankYou)
	s.router.Get("/orders/{orderID}", s.getOrder)

	if snap, ok := s.metrics.(snapshotter); ok {
		s.router.Get("/debug/metrics", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, snap.Snapshot())
		})
	}
}

type processingResponse struct {
	OrderID domain.OrderID `json:"order_id"`
	Outcome string         `json:"outcome"`
}

func (s *Server) orderProcessing(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r) {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var order domain.Order
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(&order); err != nil {
		s.logger.Error(
			"Error while decoding JSON",
			zap.Error(err),
		)
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if err := order.Validate(); err != nil {
		http.Error(w, "order id is required", http.StatusBadRequest)
		return
	}

	start := time.Now()
	result, err := s.processor.Process(r.Context(), order)
	if err != nil {
		http.Error(w, http.StatusText(processStatus(err)), processStatus(err))
		return
	}
	observability.AppendServerTiming(w, "process", observability.MsSince(start), "")

	writeJSON(w, http.StatusAccepted, processingResponse{
		OrderID: order.ID,
		Outcome: result.Trigger().String(),
	})
}

func processStatus(err error) int {
	switch {
	case errors.Is(err, handler.ErrBadJSON):
		return http.StatusBadRequest
	case errors.Is(err, handler.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) thankYou(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(r)
	if !ok {
		http.Error(w, "order id must be a positive integer", http.StatusBadRequest)
		return
	}

	writeView(w, s.renderer.OnThankYou(r.Context(), domain.RawID(id)))
}

type emailBlockRequest struct {
	Order     domain.JSONOrderRef `json:"order"`
	PlainText bool                `json:"plain_text"`
}

func (s *Server) emailBeforeOrderTable(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r) {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var req emailBlockRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.logger.Warn("Error while decoding email block request", zap.Error(err))
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	writeView(w, s.renderer.OnEmailBeforeOrderTable(r.Context(), req.Order.Ref, req.PlainText))
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := orderIDParam(r)
	if !ok {
		http.Error(w, "order id must be a positive integer", http.StatusBadRequest)
		return
	}

	order, st, err := s.orders.GetByIDWithStats(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "no order with this id", http.StatusNotFound)
			return
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	observability.AppendServerTiming(w, "cache", st.CacheMs, "")
	observability.AppendServerTiming(w, "db", st.DBMs, "")
	observability.AppendServerTiming(w, "source", 0, string(st.Source))
	w.Header().Set("X-Source", string(st.Source))
	observability.SetIfPos(w, "X-Cache-Time", st.CacheMs)
	observability.SetIfPos(w, "X-DB-Time", st.DBMs)

	writeJSON(w, http.StatusOK, order)
}

func orderIDParam(r *http.Request) (domain.OrderID, bool) {
	n, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return domain.OrderID(n), true
}

// writeView always answers 200: error blocks are content for the customer,
// not request failures.
func writeView(w http.ResponseWriter, view enrichment.View) {
	w.Header().Set("Content-Type", view.Format.ContentType())
	w.Header().Set("X-Trigger", view.Trigger.String())
	if view.EmailQuery != "" {
		w.Header().Set("X-Email-Query", view.EmailQuery)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, view.Body)
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	return srv.ListenAndServe()
}

func (s *Server) Handler() http.Handler { return s.router }

package enrichment

import (
	"context"
	"net/url"

	"github.com/TemirB/order-enrichment/internal/domain"
	"github.com/TemirB/order-enrichment/internal/observability"
	"go.uber.org/zap"
)

// View is one rendered response block plus what the notifier needs to act
// on it.
type View struct {
	OrderID domain.OrderID
	Trigger domain.Trigger
	Result  domain.FetchResult
	Format  Format
	Body    string
	// EmailQuery is "&email=<billing email>" for the page template; empty
	// when no email is known or the block is an error.
	EmailQuery string
}

type Presenter struct {
	cache   ResultCache
	orders  OrderLookup
	metrics observability.Metrics
	logger  *zap.Logger
	rawHTML bool
}

type PresenterOption func(*Presenter)

// WithRawHTML makes the HTML block trust the API's response lines as markup.
func WithRawHTML(raw bool) PresenterOption {
	return func(p *Presenter) { p.rawHTML = raw }
}

func NewPresenter(cache ResultCache, orders OrderLookup, metrics observability.Metrics, logger *zap.Logger, opts ...PresenterOption) *Presenter {
	if metrics == nil {
		metrics = observability.Noop{}
	}
	p := &Presenter{
		cache:   cache,
		orders:  orders,
		metrics: metrics,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Present never fails: every problem degrades to the generic error block.
func (p *Presenter) Present(ctx context.Context, ref domain.OrderRef, format Format) View {
	view := View{Format: format}

	id, err := domain.Normalize(ref)
	if err != nil {
		p.logger.Warn("Cannot resolve order reference", zap.Error(err))
		return p.fail(view, domain.TriggerEmptyResult)
	}
	view.OrderID = id

	entry, ok, err := p.cache.Get(ctx, id)
	if err != nil {
		p.logger.Error("Error while reading cached result",
			zap.Int64("order_id", int64(id)),
			zap.Error(err),
		)
		p.metrics.IncCacheMiss()
		return p.fail(view, domain.TriggerEmptyResult)
	}
	if !ok {
		p.metrics.IncCacheMiss()
		p.logger.Info("No cached result for order", zap.Int64("order_id", int64(id)))
		return p.fail(view, domain.TriggerEmptyResult)
	}
	p.metrics.IncCacheHit()
	view.Result = entry.Result

	if trigger := entry.Result.Trigger(); trigger != domain.TriggerNone {
		return p.fail(view, trigger)
	}

	body, err := renderSuccess(format, entry.Result.Responses, p.rawHTML)
	if err != nil {
		p.logger.Error("Error while rendering responses",
			zap.Int64("order_id", int64(id)),
			zap.Error(err),
		)
		return p.fail(view, domain.TriggerEmptyResult)
	}
	view.Body = body
	view.Trigger = domain.TriggerNone
	view.EmailQuery = p.emailQuery(ctx, entry)

	p.metrics.ObserveRender(view.Trigger.String())
	return view
}

func (p *Presenter) fail(view View, trigger domain.Trigger) View {
	view.Trigger = trigger
	view.Body = renderError(view.Format)
	p.metrics.ObserveRender(trigger.String())
	return view
}

// emailQuery prefers the billing email captured at fetch time and falls
// back to the order store.
func (p *Presenter) emailQuery(ctx context.Context, entry domain.CacheEntry) string {
	email := entry.BillingEmail
	if email == "" && p.orders != nil {
		order, err := p.orders.GetByID(ctx, entry.OrderID)
		if err != nil {
			p.logger.Warn("Cannot look up billing email",
				zap.Int64("order_id", int64(entry.OrderID)),
				zap.Error(err),
			)
			return ""
		}
		email = order.BillingEmail
	}
	if email == "" {
		return ""
	}
	return "&email=" + url.QueryEscape(email)
}

package enrichment

import (
	"context"

	"github.com/TemirB/order-enrichment/internal/domain"
	"go.uber.org/zap"
)

// Flow runs the three order lifecycle events against the fetcher, presenter
// and notifier.
type Flow struct {
	fetcher   *Fetcher
	presenter *Presenter
	notifier  *Notifier
	logger    *zap.Logger
}

func NewFlow(fetcher *Fetcher, presenter *Presenter, notifier *Notifier, logger *zap.Logger) *Flow {
	return &Flow{
		fetcher:   fetcher,
		presenter: presenter,
		notifier:  notifier,
		logger:    logger,
	}
}

// OnOrderProcessing fetches and caches the API result for an order that
// just moved to processing.
func (f *Flow) OnOrderProcessing(ctx context.Context, order domain.Order) (domain.FetchResult, error) {
	return f.fetcher.Fetch(ctx, order)
}

// OnThankYou renders the HTML block and alerts the administrators when it is
// an error block. A failed alert never changes what the customer sees.
func (f *Flow) OnThankYou(ctx context.Context, ref domain.OrderRef) View {
	view := f.presenter.Present(ctx, ref, FormatHTML)
	if view.Trigger == domain.TriggerNone {
		return view
	}
	if err := f.notifier.Notify(ctx, view.OrderID, view.Trigger, view.Result); err != nil {
		f.logger.Warn("Thank-you notification failed",
			zap.Int64("order_id", int64(view.OrderID)),
			zap.Error(err),
		)
	}
	return view
}

// OnEmailBeforeOrderTable renders the block for an order email. It never
// notifies.
func (f *Flow) OnEmailBeforeOrderTable(ctx context.Context, ref domain.OrderRef, plainText bool) View {
	format := FormatHTML
	if plainText {
		format = FormatText
	}
	return f.presenter.Present(ctx, ref, format)
}

// Package enrichment fetches per-order data from the enrichment API, keeps
// the result for a short window and renders it for the thank-you page and
// order emails, alerting an administrator when the result is unusable.
//
// Nothing here keeps per-request state on shared structs: everything a later
// step needs (trigger, result, order id) is returned and passed on.
package enrichment

import (
	"context"
	"net/http"

	"github.com/TemirB/order-enrichment/internal/domain"
)

//go:generate mockgen -source internal/application/enrichment/enrichment.go -destination=internal/application/enrichment/enrichment_mock_test.go -package=enrichment

// ResultCache stores at most one CacheEntry per order; Set overwrites.
// Get reports ok=false for a missing or expired entry.
type ResultCache interface {
	Set(ctx context.Context, entry domain.CacheEntry) error
	Get(ctx context.Context, id domain.OrderID) (domain.CacheEntry, bool, error)
}

type OrderLookup interface {
	GetByID(ctx context.Context, id domain.OrderID) (*domain.Order, error)
}

type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

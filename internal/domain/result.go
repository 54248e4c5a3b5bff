package domain

import "time"

const (
	cacheKeySuffix = "_api_email_string"

	// DefaultResultTTL is how long a fetch result stays readable.
	DefaultResultTTL = 120 * time.Second
)

// CacheKey is the single derivation of the result key, shared by every
// writer and reader.
func CacheKey(id OrderID) string {
	return id.String() + cacheKeySuffix
}

// FetchResult is a snapshot of one enrichment API call.
// Responses is nil when the body carried no valid "responses" list;
// an empty non-nil slice is a valid, empty list.
type FetchResult struct {
	Responses []string `json:"responses"`
	RawBody   string   `json:"raw_body"`
	Error     string   `json:"error,omitempty"`
}

func (r FetchResult) Trigger() Trigger {
	switch {
	case r.Error != "":
		return TriggerAPIError
	case r.Responses == nil:
		return TriggerEmptyResult
	default:
		return TriggerNone
	}
}

type CacheEntry struct {
	OrderID      OrderID     `json:"order_id"`
	Result       FetchResult `json:"result"`
	BillingEmail string      `json:"billing_email,omitempty"`
	FetchedAt    time.Time   `json:"fetched_at"`
}

func (e CacheEntry) Key() string { return CacheKey(e.OrderID) }

// Trigger selects which administrator notification, if any, a rendered
// result needs.
type Trigger uint8

const (
	TriggerNone Trigger = iota
	TriggerAPIError
	TriggerEmptyResult
)

func (t Trigger) String() string {
	switch t {
	case TriggerNone:
		return "none"
	case TriggerAPIError:
		return "api_error"
	case TriggerEmptyResult:
		return "empty_result"
	default:
		return "unknown"
	}
}

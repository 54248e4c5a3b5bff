package enrichment

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/TemirB/order-enrichment/internal/config"
	"github.com/TemirB/order-enrichment/internal/domain"
	"github.com/TemirB/order-enrichment/internal/observability"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// NewHTTPClient builds the client used for the API call. Certificate
// verification is only skipped when cfg.InsecureSkipVerify is set.
func NewHTTPClient(cfg config.API) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // opt-in via API_INSECURE_SKIP_VERIFY
	}
	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}
}

type Fetcher struct {
	client          HTTPDoer
	endpoint        string
	safeEndpoint    string
	targetProductID int64
	cache           ResultCache
	metrics         observability.Metrics
	logger          *zap.Logger
	now             func() time.Time
}

func NewFetcher(client HTTPDoer, cfg config.API, cache ResultCache, metrics observability.Metrics, logger *zap.Logger) (*Fetcher, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", cfg.URL)
	}
	safe := *u
	safe.RawQuery = ""

	q := u.Query()
	q.Set("apiKey", cfg.Key)
	u.RawQuery = q.Encode()

	if metrics == nil {
		metrics = observability.Noop{}
	}

	return &Fetcher{
		client:          client,
		endpoint:        u.String(),
		safeEndpoint:    safe.String(),
		targetProductID: cfg.TargetProductID,
		cache:           cache,
		metrics:         metrics,
		logger:          logger,
		now:             time.Now,
	}, nil
}

// Fetch calls the API for order and caches the outcome, success or not.
// API failures are carried in the returned result; the error is only set
// when the result could not be cached.
func (f *Fetcher) Fetch(ctx context.Context, order domain.Order) (domain.FetchResult, error) {
	start := time.Now()
	idCount := order.QuantityOf(f.targetProductID)

	result, err := f.call(ctx, idCount)
	durMs := float64(time.Since(start).Microseconds()) / 1000.0

	outcome := "ok"
	if err != nil {
		outcome = domain.Kind(err)
		f.logger.Warn("Enrichment API call failed",
			zap.Int64("order_id", int64(order.ID)),
			zap.Int("id_count", idCount),
			zap.String("kind", outcome),
			zap.Error(err),
		)
	} else {
		f.logger.Info("Enrichment API call succeeded",
			zap.Int64("order_id", int64(order.ID)),
			zap.Int("id_count", idCount),
			zap.Int("responses", len(result.Responses)),
			zap.Float64("dur_ms", durMs),
		)
	}
	f.metrics.ObserveFetch(outcome, durMs)

	entry := domain.CacheEntry{
		OrderID:      order.ID,
		Result:       result,
		BillingEmail: order.BillingEmail,
		FetchedAt:    f.now(),
	}
	// The entry is written even if the caller has gone away.
	if err := f.cache.Set(context.WithoutCancel(ctx), entry); err != nil {
		f.logger.Error("Error while caching fetch result",
			zap.Int64("order_id", int64(order.ID)),
			zap.Error(err),
		)
		return result, fmt.Errorf("cache result for order %d: %w", order.ID, err)
	}
	return result, nil
}

func (f *Fetcher) call(ctx context.Context, idCount int) (domain.FetchResult, error) {
	form := url.Values{}
	form.Set("idCount", strconv.Itoa(idCount))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.FetchResult{Error: err.Error()}, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		msg := f.transportMessage(err)
		return domain.FetchResult{Error: msg}, fmt.Errorf("%w: %s", domain.ErrTransport, msg)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		msg := f.transportMessage(err)
		return domain.FetchResult{Error: msg}, fmt.Errorf("%w: read body: %s", domain.ErrTransport, msg)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		f.logger.Warn("Enrichment API returned an error status",
			zap.Int("status", resp.StatusCode),
			zap.Int("body_bytes", len(body)),
		)
	}

	raw := string(body)
	lines, err := parseResponses(body)
	switch {
	case errors.Is(err, domain.ErrParse):
		return domain.FetchResult{RawBody: raw, Error: err.Error()}, err
	case err != nil:
		return domain.FetchResult{RawBody: raw}, err
	}
	return domain.FetchResult{Responses: lines, RawBody: raw}, nil
}

// transportMessage strips the request URL, which carries the API key, from
// client errors.
func (f *Fetcher) transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Sprintf("%s %q: %v", urlErr.Op, f.safeEndpoint, urlErr.Err)
	}
	return err.Error()
}

// parseResponses extracts the "responses" list. Malformed JSON is ErrParse;
// well-formed JSON without a list of strings under "responses" is
// ErrEmptyResult.
func parseResponses(body []byte) ([]string, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fmt.Errorf("%w: empty body", domain.ErrEmptyResult)
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: body is not an object", domain.ErrEmptyResult)
	}
	list, ok := obj["responses"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: no responses list", domain.ErrEmptyResult)
	}

	lines := make([]string, 0, len(list))
	for i, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: responses[%d] is not a string", domain.ErrEmptyResult, i)
		}
		lines = append(lines, s)
	}
	return lines, nil
}

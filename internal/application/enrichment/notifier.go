package enrichment

import (
	"context"
	"fmt"

	"github.com/TemirB/order-enrichment/internal/domain"
	"github.com/TemirB/order-enrichment/internal/observability"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	subjectAPIError    = "Store API error"
	subjectEmptyResult = "Store API error - Empty results"
)

type Notifier struct {
	mailer     Mailer
	recipients []string
	metrics    observability.Metrics
	logger     *zap.Logger
}

func NewNotifier(mailer Mailer, recipients []string, metrics observability.Metrics, logger *zap.Logger) *Notifier {
	if metrics == nil {
		metrics = observability.Noop{}
	}
	return &Notifier{
		mailer:     mailer,
		recipients: recipients,
		metrics:    metrics,
		logger:     logger,
	}
}

// Notify emails the administrators about an unusable result. It is a no-op
// for TriggerNone.
func (n *Notifier) Notify(ctx context.Context, id domain.OrderID, trigger domain.Trigger, result domain.FetchResult) error {
	subject, body, ok := composeNotification(id, trigger, result)
	if !ok {
		return nil
	}

	notificationID := uuid.NewString()
	if err := n.mailer.Send(ctx, n.recipients, subject, body); err != nil {
		n.metrics.ObserveNotify(trigger.String(), false)
		n.logger.Error("Error while sending API error notification",
			zap.String("notification_id", notificationID),
			zap.Int64("order_id", int64(id)),
			zap.String("trigger", trigger.String()),
			zap.Error(err),
		)
		return fmt.Errorf("notify order %d: %w", id, err)
	}

	n.metrics.ObserveNotify(trigger.String(), true)
	n.logger.Info("API error notification sent",
		zap.String("notification_id", notificationID),
		zap.Int64("order_id", int64(id)),
		zap.String("trigger", trigger.String()),
		zap.Strings("recipients", n.recipients),
	)
	return nil
}

func composeNotification(id domain.OrderID, trigger domain.Trigger, result domain.FetchResult) (subject, body string, ok bool) {
	switch trigger {
	case domain.TriggerAPIError:
		return subjectAPIError,
			fmt.Sprintf("Order #: %d The API is returning the error \"%s\"", id, result.Error),
			true
	case domain.TriggerEmptyResult:
		return subjectEmptyResult,
			fmt.Sprintf("Order #: %d The API is returning an empty result set.%s", id, result.RawBody),
			true
	default:
		return "", "", false
	}
}

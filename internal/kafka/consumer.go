// Package kafka consumes order-processing events.
package kafka

import (
	"context"
	"errors"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

//go:generate mockgen -source internal/kafka/consumer.go -destination=internal/kafka/consumer_mock_test.go -package=kafka

type MessageHandler interface {
	Handle(ctx context.Context, msg kafkago.Message) error
}

type Reader interface {
	Config() kafkago.ReaderConfig
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Option customizes a Consumer.
type Option func(*Consumer)

// WithSkip marks handler errors after which the message is committed anyway.
// Use it for messages that can never succeed, such as malformed payloads.
func WithSkip(skip func(error) bool) Option {
	return func(c *Consumer) { c.skip = skip }
}

// WithBackoff overrides the pauses after handler and fetch failures.
func WithBackoff(failure, fetch time.Duration) Option {
	return func(c *Consumer) {
		c.failureBackoff = failure
		c.fetchBackoff = fetch
	}
}

type Consumer struct {
	handler MessageHandler
	reader  Reader
	zlogger *zap.Logger
	skip    func(error) bool

	workerPoolSize int
	jobs           chan jobItem

	failureBackoff time.Duration
	fetchBackoff   time.Duration
}

type jobItem struct {
	msg    kafkago.Message
	result chan error
}

func NewConsumer(handler MessageHandler, reader Reader, workers int, logger *zap.Logger, opts ...Option) *Consumer {
	if workers < 1 {
		workers = 1
	}
	c := &Consumer{
		handler:        handler,
		reader:         reader,
		zlogger:        logger,
		skip:           func(error) bool { return false },
		workerPoolSize: workers,
		jobs:           make(chan jobItem, workers*2),
		failureBackoff: 200 * time.Millisecond,
		fetchBackoff:   500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start blocks until ctx is done.
func (c *Consumer) Start(ctx context.Context) {
	rc := c.reader.Config()
	c.zlogger.Info("Starting Kafka consumer",
		zap.Strings("brokers", rc.Brokers),
		zap.String("group", rc.GroupID),
		zap.String("topic", rc.Topic),
		zap.Int("workers", c.workerPoolSize),
	)

	for i := 0; i < c.workerPoolSize; i++ {
		go c.worker(ctx, i)
	}

	// Each message is handed to a worker and awaited before the next fetch,
	// so offsets are committed in the order they were received.
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			if isBenignFetchTimeout(err) {
				c.zlogger.Debug("fetch timeout (idle), backing off", zap.Error(err))
				sleepWithContext(ctx, 20*c.fetchBackoff)
				continue
			}

			// Rebalancing and coordinator changes are transient.
			c.zlogger.Warn("FetchMessage error, backing off", zap.Error(err))
			sleepWithContext(ctx, c.fetchBackoff)
			continue
		}

		if err := c.handleUntilDone(ctx, msg); err != nil {
			return
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.zlogger.Warn(
				"commit failed",
				zap.Error(err),
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
			)
			sleepWithContext(ctx, c.failureBackoff)
			continue
		}
		c.zlogger.Debug("message committed",
			zap.String("topic", msg.Topic), zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset))
	}
}

// handleUntilDone retries msg until the handler accepts it or the error is
// skippable. The reader never rewinds, so moving on to the next message and
// committing it would drop msg for good. It returns an error only when ctx
// is done.
func (c *Consumer) handleUntilDone(ctx context.Context, msg kafkago.Message) error {
	for attempt := 1; ; attempt++ {
		err := c.dispatch(ctx, msg)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fields := []zap.Field{
			zap.Error(err),
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
		}
		if c.skip(err) {
			c.zlogger.Warn("skipping unprocessable message", fields...)
			return nil
		}
		c.zlogger.Error("handler failed; retrying the same message",
			append(fields, zap.Int("attempt", attempt))...)
		sleepWithContext(ctx, c.failureBackoff)
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg kafkago.Message) error {
	done := make(chan error, 1)
	select {
	case c.jobs <- jobItem{msg: msg, result: done}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Consumer) worker(ctx context.Context, id int) {
	logger := c.zlogger.With(zap.Int("worker", id))

	for {
		select {
		case <-ctx.Done():
			return
		case it := <-c.jobs:
			if it.result == nil {
				continue
			}

			msg := it.msg
			start := time.Now()

			err := c.handler.Handle(ctx, msg)

			elapsed := time.Since(start)
			if err != nil {
				logger.Error("message handling failed",
					zap.Error(err),
					zap.String("topic", msg.Topic),
					zap.Int("partition", msg.Partition),
					zap.Int64("offset", msg.Offset),
					zap.Duration("elapsed", elapsed),
				)
				it.result <- err
				continue
			}

			logger.Debug("message handled",
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Int("value_bytes", len(msg.Value)),
				zap.Duration("elapsed", elapsed),
			)
			it.result <- nil
		}
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func isBenignFetchTimeout(err error) bool {
	s := err.Error()
	return strings.Contains(s, "Request Timed Out") ||
		strings.Contains(s, "no messages received from kafka within the allocated time")
}

// Package database persists the orders seen in processing events.
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/TemirB/order-enrichment/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"go.uber.org/zap"
)

var _ domain.OrderRepository = (*Repo)(nil)

type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Connect opens a pool that traces queries through logger and checks it
// with a ping.
func Connect(ctx context.Context, dsn string, logger *zap.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   newZapTracer(logger),
		LogLevel: tracelog.LogLevelInfo,
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// Upsert replaces the stored order and its line items in one transaction.
func (r *Repo) Upsert(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, billing_email, status, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET
		  billing_email=EXCLUDED.billing_email,
		  status=EXCLUDED.status,
		  updated_at=EXCLUDED.updated_at
	`, int64(o.ID), o.BillingEmail, o.Status)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, int64(o.ID)); err != nil {
		return err
	}
	batch := &pgx.Batch{}
	for i, it := range o.Items {
		batch.Queue(`
			INSERT INTO order_items (order_id, line_no, product_id, quantity)
			VALUES ($1, $2, $3, $4)
		`, int64(o.ID), i, it.ProductID, it.Quantity)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *Repo) GetByID(ctx context.Context, id domain.OrderID) (*domain.Order, error) {
	o := domain.Order{ID: id}
	err := r.pool.QueryRow(ctx, `
		SELECT billing_email, status FROM orders WHERE id=$1
	`, int64(id)).Scan(&o.BillingEmail, &o.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT product_id, quantity FROM order_items WHERE order_id=$1 ORDER BY line_no
	`, int64(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.LineItem
		if err := rows.Scan(&it.ProductID, &it.Quantity); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return &o, rows.Err()
}

// RecentOrderIDs lists the most recently updated orders, newest first.
func (r *Repo) RecentOrderIDs(ctx context.Context, limit int) ([]domain.OrderID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM orders
		ORDER BY updated_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []domain.OrderID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, domain.OrderID(id))
	}
	return ids, rows.Err()
}

package domain

import (
	"context"
)

type OrderRepository interface {
	Upsert(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id OrderID) (*Order, error)
}

package cache

import (
	"context"

	"github.com/TemirB/order-enrichment/internal/domain"

	lru "github.com/hashicorp/golang-lru/v2"
)

//go:generate mockgen -source internal/cache/orders.go -destination=internal/cache/cache_mock_test.go -package=cache

type repo interface {
	GetByID(ctx context.Context, id domain.OrderID) (*domain.Order, error)
	RecentOrderIDs(ctx context.Context, limit int) ([]domain.OrderID, error)
}

// Orders keeps the most recently seen orders so the presenter can find a
// billing email without a database round trip.
type Orders struct {
	size int
	lru  *lru.Cache[domain.OrderID, domain.Order]
}

func NewOrders(size int) (*Orders, error) {
	c, err := lru.New[domain.OrderID, domain.Order](size)
	if err != nil {
		return nil, err
	}
	return &Orders{
		size: size,
		lru:  c,
	}, nil
}

func (c *Orders) Warm(ctx context.Context, repo repo) {
	if ids, err := repo.RecentOrderIDs(ctx, c.size); err == nil {
		for _, id := range ids {
			if o, err := repo.GetByID(ctx, id); err == nil {
				c.Set(o)
			}
		}
	}
}

func (c *Orders) Get(id domain.OrderID) (*domain.Order, bool) {
	order, ok := c.lru.Get(id)
	if !ok {
		return nil, false
	}
	return &order, true
}

func (c *Orders) Set(order *domain.Order) {
	c.lru.Add(order.ID, *order)
}

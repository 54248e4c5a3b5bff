package main

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/TemirB/order-enrichment/internal/domain"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// generator builds order-processing events. Roughly badRate of them carry a
// malformed payload.
type generator struct {
	targetProductID int64
	badRate         float64
	faker           *gofakeit.Faker
	nextID          atomic.Int64
}

func newGenerator(targetProductID int64, badRate float64) *generator {
	g := &generator{
		targetProductID: targetProductID,
		badRate:         badRate,
		faker:           gofakeit.New(0),
	}
	g.nextID.Store(time.Now().Unix() % 1_000_000 * 1000)
	return g
}

func (g *generator) Next() kafka.Message {
	eventID := uuid.NewString()
	headers := []kafka.Header{{Key: "event-id", Value: []byte(eventID)}}

	if g.faker.Float64() < g.badRate {
		return kafka.Message{
			Key:     []byte(eventID),
			Value:   []byte(fmt.Sprintf(`{"id": "%s", "broken": true,`, eventID)),
			Headers: headers,
		}
	}

	order := g.order()
	payload, _ := json.Marshal(order)
	return kafka.Message{
		Key:     []byte(order.ID.String()),
		Value:   payload,
		Headers: headers,
	}
}

func (g *generator) order() domain.Order {
	order := domain.Order{
		ID:           domain.OrderID(g.nextID.Add(1)),
		BillingEmail: g.faker.Email(),
		Status:       "processing",
	}

	for i := 0; i < g.faker.Number(1, 4); i++ {
		productID := int64(g.faker.Number(1000, 9999))
		if g.faker.Bool() {
			productID = g.targetProductID
		}
		order.Items = append(order.Items, domain.LineItem{
			ProductID: productID,
			Quantity:  g.faker.Number(1, 5),
		})
	}
	return order
}

package domain

import "strconv"

// OrderID is the host commerce system's numeric order identifier.
type OrderID int64

func (id OrderID) String() string { return strconv.FormatInt(int64(id), 10) }

type LineItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Order is owned by the host system; the service only reads it.
type Order struct {
	ID           OrderID    `json:"id"`
	BillingEmail string     `json:"billing_email"`
	Status       string     `json:"status,omitempty"`
	Items        []LineItem `json:"items"`
}

// QuantityOf sums the quantity of every line item carrying productID.
func (o Order) QuantityOf(productID int64) int {
	total := 0
	for _, it := range o.Items {
		if it.ProductID == productID {
			total += it.Quantity
		}
	}
	return total
}

func (o Order) Validate() error {
	if o.ID <= 0 {
		return ErrInvalidOrder
	}
	return nil
}

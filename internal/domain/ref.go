package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// OrderRef is how hooks identify an order: either a bare id or an order
// object exposing an id. Only RawID and OrderObject implement it.
type OrderRef interface {
	orderID() OrderID
}

type RawID OrderID

func (r RawID) orderID() OrderID { return OrderID(r) }

type OrderObject struct {
	ID OrderID `json:"id"`
}

func (o OrderObject) orderID() OrderID { return o.ID }

// Normalize resolves any OrderRef to a plain OrderID.
func Normalize(ref OrderRef) (OrderID, error) {
	if ref == nil {
		return 0, fmt.Errorf("%w: empty order reference", ErrInvalidOrder)
	}
	id := ref.orderID()
	if id <= 0 {
		return 0, fmt.Errorf("%w: order id %d", ErrInvalidOrder, id)
	}
	return id, nil
}

// JSONOrderRef decodes 100, "100" and {"id": 100} into an OrderRef.
type JSONOrderRef struct {
	Ref OrderRef
}

func (r *JSONOrderRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		r.Ref = nil
		return nil
	}

	switch data[0] {
	case '{':
		var obj OrderObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
		}
		r.Ref = obj
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
		}
		data = []byte(s)
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not an order id", ErrInvalidOrder, data)
	}
	r.Ref = RawID(n)
	return nil
}

func (r JSONOrderRef) MarshalJSON() ([]byte, error) {
	switch v := r.Ref.(type) {
	case nil:
		return []byte("null"), nil
	case OrderObject:
		return json.Marshal(v)
	default:
		return json.Marshal(int64(v.orderID()))
	}
}

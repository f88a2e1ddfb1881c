package meli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrIncompleteOrder marks an order document missing the fields this
// system needs (buyer, order_items). Treated as a skip, never a crash.
var ErrIncompleteOrder = errors.New("order document incomplete")

type OrderService interface {
	// Get fetches one order by id. Returns ErrIncompleteOrder when the
	// response lacks a buyer or any order items.
	Get(ctx context.Context, orderID string) (*Order, error)
}

type orderService struct {
	client *Client
}

func (s *orderService) Get(ctx context.Context, orderID string) (*Order, error) {
	route := "/orders/" + orderID

	var order Order
	if err := s.client.do(ctx, http.MethodGet, route, nil, nil, &order); err != nil {
		return nil, err
	}

	if order.Buyer == nil {
		return nil, fmt.Errorf("%w: missing buyer", ErrIncompleteOrder)
	}
	if len(order.OrderItems) == 0 {
		return nil, fmt.Errorf("%w: missing order_items", ErrIncompleteOrder)
	}

	return &order, nil
}

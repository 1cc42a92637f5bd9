package iorderitemrepo

import (
	"context"

	"github.com/mashson/order-app/internal/service/models/orderitem"
)

// IOrderItemRepository is an interface for the order item postgres repository.
type IOrderItemRepository interface {
	// Insert inserts one order line snapshot and returns it with its ID.
	Insert(ctx context.Context, item orderitem.OrderItem) (*orderitem.OrderItem, error)

	Query(ctx context.Context, filter *orderitem.QueryOrderItemsModel) ([]orderitem.OrderItem, error)
}

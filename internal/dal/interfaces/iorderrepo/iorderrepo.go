package iorderrepo

import (
	"context"

	"github.com/mashson/order-app/internal/service/models/order"
	"github.com/mashson/order-app/internal/service/models/orderstatus"
)

// IOrderRepository is an interface for the order postgres repository.
type IOrderRepository interface {
	Insert(ctx context.Context, ord order.Order) (*order.Order, error)
	GetByID(ctx context.Context, id int64) (*order.Order, error)
	Query(ctx context.Context, filter *order.QueryOrdersModel) ([]order.Order, error)

	// UpdateStatus sets the status of an order, guarded by the expected
	// current status. Returns the updated order, or nil when the guard
	// did not match any row.
	UpdateStatus(
		ctx context.Context,
		id int64,
		current, target orderstatus.Status,
	) (*order.Order, error)

	Stats(ctx context.Context) (*order.Stats, error)
}

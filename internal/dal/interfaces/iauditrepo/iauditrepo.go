package iauditrepo

import (
	"context"

	"github.com/mashson/order-app/internal/service/models/order"
)

// IAuditRepository publishes order lifecycle events for auditing.
type IAuditRepository interface {
	LogOrderCreated(ctx context.Context, ord order.Order) error
}

package order

import (
	"time"

	"github.com/mashson/order-app/internal/service/models/orderitem"
	"github.com/mashson/order-app/internal/service/models/orderstatus"
)

// Order represents a placed order and its line items.
type Order struct {
	ID         int64                 `json:"id"`
	OrderTime  time.Time             `json:"order_time"`
	TotalPrice int64                 `json:"total_price"`
	Status     orderstatus.Status    `json:"status"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
	Items      []orderitem.OrderItem `json:"items"`
}

// Stats holds aggregate order counts for the administrator dashboard.
type Stats struct {
	TotalOrders      int64 `json:"total_orders"`
	ReceivedOrders   int64 `json:"received_orders"`
	InProgressOrders int64 `json:"in_progress_orders"`
	CompletedOrders  int64 `json:"completed_orders"`
}

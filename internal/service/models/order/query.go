package order

import "github.com/mashson/order-app/internal/service/models/orderstatus"

// QueryOrdersModel represents filter parameters for querying orders.
type QueryOrdersModel struct {
	Ids    []int64            `json:"ids,omitempty"`
	Status orderstatus.Status `json:"status,omitempty"`
	Limit  int                `json:"limit,omitempty"`
}

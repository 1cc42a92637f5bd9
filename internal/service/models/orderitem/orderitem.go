package orderitem

import "time"

// OrderItem is a line of an order. Unit price and the selected option ids
// are snapshots captured at order time, decoupled from later catalog changes.
type OrderItem struct {
	ID              int64     `json:"id"`
	OrderID         int64     `json:"order_id"`
	MenuID          int64     `json:"menu_id"`
	MenuName        string    `json:"menu_name,omitempty"`
	Quantity        int       `json:"quantity"`
	UnitPrice       int64     `json:"unit_price"`
	Subtotal        int64     `json:"subtotal"`
	SelectedOptions []int64   `json:"selected_options"`
	CreatedAt       time.Time `json:"created_at"`
}

package orderitem

// QueryOrderItemsModel represents filter parameters for querying order items.
type QueryOrderItemsModel struct {
	Ids      []int64 `json:"ids,omitempty"`
	OrderIds []int64 `json:"order_ids,omitempty"`
	MenuIds  []int64 `json:"menu_ids,omitempty"`
}

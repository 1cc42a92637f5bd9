package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mashson/order-app/internal/service/models/apperror"
	"github.com/mashson/order-app/internal/service/models/order"
	"github.com/mashson/order-app/internal/service/models/orderitem"
	"github.com/mashson/order-app/internal/transport/http/v1/response"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, ord order.Order) (*order.Order, error)
}

type createOrderItem struct {
	MenuID          int64   `json:"menu_id"`
	Quantity        int     `json:"quantity"`
	UnitPrice       int64   `json:"unit_price"`
	Subtotal        int64   `json:"subtotal"`
	SelectedOptions []int64 `json:"selected_options"`
}

type createOrderRequest struct {
	Items      []createOrderItem `json:"items"`
	TotalPrice int64             `json:"total_price"`
}

type createOrderResponse struct {
	OrderID    int64     `json:"order_id"`
	OrderTime  time.Time `json:"order_time"`
	TotalPrice int64     `json:"total_price"`
	Status     string    `json:"status"`
}

// CreateOrder handles the order placement request.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Error decoding request body for create order", "error", err)
		response.Error(w, apperror.ErrInvalidOrderData)

		return
	}

	ord := order.Order{
		TotalPrice: req.TotalPrice,
		Items:      make([]orderitem.OrderItem, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		selected := item.SelectedOptions
		if selected == nil {
			selected = []int64{}
		}

		ord.Items = append(ord.Items, orderitem.OrderItem{
			MenuID:          item.MenuID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			Subtotal:        item.Subtotal,
			SelectedOptions: selected,
		})
	}

	created, err := service.CreateOrder(r.Context(), ord)
	if err != nil {
		slog.Error("Error creating order", "error", err)
		response.Error(w, err)

		return
	}

	response.JSON(w, http.StatusCreated, createOrderResponse{
		OrderID:    created.ID,
		OrderTime:  created.OrderTime,
		TotalPrice: created.TotalPrice,
		Status:     created.Status.String(),
	})
}

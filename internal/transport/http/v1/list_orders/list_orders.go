package listorders

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mashson/order-app/internal/service/models/apperror"
	"github.com/mashson/order-app/internal/service/models/order"
	"github.com/mashson/order-app/internal/service/models/orderstatus"
	"github.com/mashson/order-app/internal/transport/http/v1/response"
)

// defaultLimit caps the administrator order list when no limit is given.
const defaultLimit = 10

// service is an interface for the service layer.
type service interface {
	ListOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
}

// ListOrders handles the administrator order list request with optional
// status filter and result limit.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	query := r.URL.Query()

	filter := order.QueryOrdersModel{
		Limit: defaultLimit,
	}

	if statusStr := query.Get("status"); statusStr != "" {
		status, err := orderstatus.Parse(statusStr)
		if err != nil {
			response.Error(w, apperror.ErrInvalidStatus)

			return
		}
		filter.Status = status
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	orders, err := service.ListOrders(r.Context(), filter)
	if err != nil {
		slog.Error("Error listing orders", "error", err)
		response.Error(w, err)

		return
	}

	response.JSON(w, http.StatusOK, orders)
}

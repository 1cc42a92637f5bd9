package updateorderstatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mashson/order-app/internal/service/models/apperror"
	"github.com/mashson/order-app/internal/service/models/order"
	"github.com/mashson/order-app/internal/service/models/orderstatus"
	"github.com/mashson/order-app/internal/transport/http/v1/response"
)

// service is an interface for the service layer.
type service interface {
	UpdateStatus(ctx context.Context, id int64, target orderstatus.Status) (*order.Order, error)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus handles the administrator order status change request.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, apperror.ErrOrderNotFound)

		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apperror.ErrInvalidStatus)

		return
	}

	target, err := orderstatus.Parse(req.Status)
	if err != nil {
		response.Error(w, apperror.ErrInvalidStatus)

		return
	}

	updated, err := service.UpdateStatus(r.Context(), id, target)
	if err != nil {
		slog.Error("Error updating order status", "error", err, "order_id", id)
		response.Error(w, err)

		return
	}

	response.JSON(w, http.StatusOK, updated)
}

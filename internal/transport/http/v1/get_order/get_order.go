package getorder

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mashson/order-app/internal/service/models/apperror"
	"github.com/mashson/order-app/internal/service/models/order"
	"github.com/mashson/order-app/internal/transport/http/v1/response"
)

// service is an interface for the service layer.
type service interface {
	GetOrder(ctx context.Context, id int64) (*order.Order, error)
}

// GetOrder handles the fetch order request.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, apperror.ErrOrderNotFound)

		return
	}

	ord, err := service.GetOrder(r.Context(), id)
	if err != nil {
		slog.Error("Error getting order", "error", err, "order_id", id)
		response.Error(w, err)

		return
	}

	response.JSON(w, http.StatusOK, ord)
}

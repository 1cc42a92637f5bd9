package updatestock

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mashson/order-app/internal/service/models/apperror"
	"github.com/mashson/order-app/internal/service/models/menu"
	"github.com/mashson/order-app/internal/transport/http/v1/response"
)

// service is an interface for the service layer.
type service interface {
	SetStock(ctx context.Context, menuID int64, quantity int) (*menu.MenuItem, error)
}

type updateStockRequest struct {
	// Pointer so a missing field is distinguishable from zero.
	StockQuantity *int `json:"stock_quantity"`
}

// UpdateStock handles the administrator stock override request.
func UpdateStock(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, apperror.ErrItemNotFound)

		return
	}

	var req updateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StockQuantity == nil {
		response.Error(w, apperror.ErrInvalidStockQuantity)

		return
	}

	updated, err := service.SetStock(r.Context(), id, *req.StockQuantity)
	if err != nil {
		slog.Error("Error updating stock", "error", err, "menu_id", id)
		response.Error(w, err)

		return
	}

	response.JSON(w, http.StatusOK, updated)
}

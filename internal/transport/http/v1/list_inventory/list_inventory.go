package listinventory

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mashson/order-app/internal/service/models/menu"
	"github.com/mashson/order-app/internal/transport/http/v1/response"
)

// service is an interface for the service layer.
type service interface {
	ListInventory(ctx context.Context) ([]menu.InventoryRow, error)
}

// ListInventory handles the administrator inventory list request.
func ListInventory(w http.ResponseWriter, r *http.Request, service service) {
	rows, err := service.ListInventory(r.Context())
	if err != nil {
		slog.Error("Error listing inventory", "error", err)
		response.Error(w, err)

		return
	}

	response.JSON(w, http.StatusOK, rows)
}

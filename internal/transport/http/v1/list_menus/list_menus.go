package listmenus

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mashson/order-app/internal/service/models/menu"
	"github.com/mashson/order-app/internal/transport/http/v1/response"
)

// service is an interface for the service layer.
type service interface {
	ListMenus(ctx context.Context) ([]menu.MenuItem, error)
}

// ListMenus handles the customer menu list request.
func ListMenus(w http.ResponseWriter, r *http.Request, service service) {
	menus, err := service.ListMenus(r.Context())
	if err != nil {
		slog.Error("Error listing menus", "error", err)
		response.Error(w, err)

		return
	}

	response.JSON(w, http.StatusOK, menus)
}

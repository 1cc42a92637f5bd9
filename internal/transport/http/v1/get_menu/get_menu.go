package getmenu

import (
	"context"
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
	GetMenu(ctx context.Context, id int64) (*menu.MenuItem, error)
}

// GetMenu handles the single menu fetch request.
func GetMenu(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.Error(w, apperror.ErrMenuNotFound)

		return
	}

	item, err := service.GetMenu(r.Context(), id)
	if err != nil {
		slog.Error("Error getting menu", "error", err, "menu_id", id)
		response.Error(w, err)

		return
	}

	response.JSON(w, http.StatusOK, item)
}

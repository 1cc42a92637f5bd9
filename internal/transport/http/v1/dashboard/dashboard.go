package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/mashson/order-app/internal/service/models/order"
	"github.com/mashson/order-app/internal/transport/http/v1/response"
)

// service is an interface for the service layer.
type service interface {
	Stats(ctx context.Context) (*order.Stats, error)
}

// Dashboard handles the administrator dashboard stats request.
func Dashboard(w http.ResponseWriter, r *http.Request, service service) {
	stats, err := service.Stats(r.Context())
	if err != nil {
		slog.Error("Error getting dashboard stats", "error", err)
		response.Error(w, err)

		return
	}

	response.JSON(w, http.StatusOK, stats)
}

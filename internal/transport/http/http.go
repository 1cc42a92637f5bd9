package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mashson/order-app/internal/service/models/menu"
	"github.com/mashson/order-app/internal/service/models/order"
	"github.com/mashson/order-app/internal/service/models/orderstatus"
	createorder "github.com/mashson/order-app/internal/transport/http/v1/create_order"
	"github.com/mashson/order-app/internal/transport/http/v1/dashboard"
	getmenu "github.com/mashson/order-app/internal/transport/http/v1/get_menu"
	getorder "github.com/mashson/order-app/internal/transport/http/v1/get_order"
	listinventory "github.com/mashson/order-app/internal/transport/http/v1/list_inventory"
	listmenus "github.com/mashson/order-app/internal/transport/http/v1/list_menus"
	listorders "github.com/mashson/order-app/internal/transport/http/v1/list_orders"
	"github.com/mashson/order-app/internal/transport/http/v1/response"
	updateorderstatus "github.com/mashson/order-app/internal/transport/http/v1/update_order_status"
	updatestock "github.com/mashson/order-app/internal/transport/http/v1/update_stock"
	"github.com/mashson/order-app/pkg/http/middleware/trace"
	"github.com/mashson/order-app/pkg/logger"
	"github.com/spf13/viper"
)

type orderService interface {
	CreateOrder(ctx context.Context, ord order.Order) (*order.Order, error)
	GetOrder(ctx context.Context, id int64) (*order.Order, error)
	ListOrders(ctx context.Context, filter order.QueryOrdersModel) ([]order.Order, error)
	UpdateStatus(ctx context.Context, id int64, target orderstatus.Status) (*order.Order, error)
	Stats(ctx context.Context) (*order.Stats, error)
}

type catalogService interface {
	ListMenus(ctx context.Context) ([]menu.MenuItem, error)
	GetMenu(ctx context.Context, id int64) (*menu.MenuItem, error)
	ListInventory(ctx context.Context) ([]menu.InventoryRow, error)
	SetStock(ctx context.Context, menuID int64, quantity int) (*menu.MenuItem, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	orders  orderService
	catalog catalogService
}

func NewHTTPTransport(orders orderService, catalog catalogService) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:  server,
		router:  router,
		orders:  orders,
		catalog: catalog,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)

		r.Route("/menus", func(r chi.Router) {
			r.Get("/", h.listMenus)
			r.Get("/{id}", h.getMenu)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.createOrder)
			r.Get("/{id}", h.getOrder)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/dashboard", h.dashboard)
			r.Get("/inventory", h.listInventory)
			r.Patch("/inventory/{id}", h.updateStock)
			r.Get("/orders", h.listOrders)
			r.Patch("/orders/{id}", h.updateOrderStatus)
		})
	})
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.orders)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.orders)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orders)
}

func (h *HTTPTransport) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	updateorderstatus.UpdateOrderStatus(w, r, h.orders)
}

func (h *HTTPTransport) dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard.Dashboard(w, r, h.orders)
}

func (h *HTTPTransport) listMenus(w http.ResponseWriter, r *http.Request) {
	listmenus.ListMenus(w, r, h.catalog)
}

func (h *HTTPTransport) getMenu(w http.ResponseWriter, r *http.Request) {
	getmenu.GetMenu(w, r, h.catalog)
}

func (h *HTTPTransport) listInventory(w http.ResponseWriter, r *http.Request) {
	listinventory.ListInventory(w, r, h.catalog)
}

func (h *HTTPTransport) updateStock(w http.ResponseWriter, r *http.Request) {
	updatestock.UpdateStock(w, r, h.catalog)
}

func (h *HTTPTransport) health(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]any{
		"message":   "Server is healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(trace.NewTraceMiddleware)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}

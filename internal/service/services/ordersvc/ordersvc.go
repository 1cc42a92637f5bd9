package ordersvc

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mashson/order-app/internal/dal/interfaces/iauditrepo"
	"github.com/mashson/order-app/internal/dal/interfaces/imenurepo"
	"github.com/mashson/order-app/internal/dal/interfaces/iorderitemrepo"
	"github.com/mashson/order-app/internal/dal/interfaces/iorderrepo"
	"github.com/mashson/order-app/internal/dal/interfaces/ioutboxrepo"
	"github.com/mashson/order-app/internal/dal/postgres"
	"github.com/mashson/order-app/internal/dal/repositories/audit"
	"github.com/mashson/order-app/internal/dal/uow"
	"github.com/mashson/order-app/internal/service/models/apperror"
	"github.com/mashson/order-app/internal/service/models/order"
	"github.com/mashson/order-app/internal/service/models/orderitem"
	"github.com/mashson/order-app/internal/service/models/orderstatus"
	"github.com/mashson/order-app/internal/service/models/outbox"
	"go.opentelemetry.io/otel"
)

// OrderService is a service for placing orders and tracking their status.
type OrderService struct {
	pgClient   *postgres.Client
	newUOW     func() unitOfWork
	auditRepo  iauditrepo.IAuditRepository
	outboxRepo ioutboxrepo.IOutboxRepository
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	MenuRepository() imenurepo.IMenuRepository
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.newUOW == nil {
		s.newUOW = func() unitOfWork {
			return uow.NewUnitOfWork(s.pgClient)
		}
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// WithAuditRepository sets the audit publisher for created orders.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditRepository(repo iauditrepo.IAuditRepository) option {
	return func(s *OrderService) {
		s.auditRepo = repo
	}
}

// WithOutboxRepository sets the outbox fallback for failed audit publishes.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOutboxRepository(repo ioutboxrepo.IOutboxRepository) option {
	return func(s *OrderService) {
		s.outboxRepo = repo
	}
}

// WithUnitOfWorkFactory overrides how units of work are created.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.newUOW = factory
	}
}

// CreateOrder creates the order header, its line snapshots and the stock
// reservations as one all-or-nothing unit. Any failed reservation or insert
// rolls the whole unit back.
func (s *OrderService) CreateOrder(ctx context.Context, ord order.Order) (*order.Order, error) {
	if err := validateOrder(ord); err != nil {
		return nil, err
	}

	tracer := otel.Tracer("order-app")
	ctx, span := tracer.Start(ctx, "OrderService.CreateOrder")
	defer span.End()

	ord.Status = orderstatus.StatusReceived

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, apperror.ErrOrderCreationFailed.WithCause(err)
	}

	created, err := s.placeOrder(ctx, work, ord)
	if err != nil {
		if rbErr := work.Rollback(ctx); rbErr != nil {
			slog.Error("Failed to roll back order transaction", "error", rbErr)
		}

		return nil, apperror.ErrOrderCreationFailed.WithCause(err)
	}

	if err := work.Commit(ctx); err != nil {
		return nil, apperror.ErrOrderCreationFailed.WithCause(err)
	}

	s.logOrderCreated(ctx, *created)

	return created, nil
}

func validateOrder(ord order.Order) error {
	if len(ord.Items) == 0 {
		return apperror.ErrInvalidOrderData
	}
	for _, item := range ord.Items {
		if item.Quantity <= 0 {
			return apperror.ErrInvalidOrderData
		}
	}
	if ord.TotalPrice <= 0 {
		return apperror.ErrInvalidTotalPrice
	}

	return nil
}

// placeOrder runs inside the transaction held by work: insert the header,
// then for each line in input order insert the snapshot and reserve stock.
func (s *OrderService) placeOrder(
	ctx context.Context,
	work unitOfWork,
	ord order.Order,
) (*order.Order, error) {
	created, err := work.OrderRepository().Insert(ctx, ord)
	if err != nil {
		return nil, err
	}

	items := make([]orderitem.OrderItem, 0, len(ord.Items))
	for _, item := range ord.Items {
		item.OrderID = created.ID

		inserted, err := work.OrderItemRepository().Insert(ctx, item)
		if err != nil {
			return nil, err
		}

		if err := work.MenuRepository().Reserve(ctx, item.MenuID, item.Quantity); err != nil {
			return nil, err
		}

		items = append(items, *inserted)
	}

	created.Items = items

	return created, nil
}

// logOrderCreated publishes the audit event, parking it in the outbox when
// the broker is unavailable.
func (s *OrderService) logOrderCreated(ctx context.Context, ord order.Order) {
	if s.auditRepo == nil {
		return
	}

	err := s.auditRepo.LogOrderCreated(ctx, ord)
	if err == nil {
		return
	}

	slog.Error("Failed to publish order created event", "error", err, "order_id", ord.ID)

	if s.outboxRepo == nil {
		return
	}

	payload, marshalErr := json.Marshal(ord)
	if marshalErr != nil {
		slog.Error("Failed to marshal order for outbox", "error", marshalErr, "order_id", ord.ID)

		return
	}

	now := time.Now()
	msg := outbox.Message{
		RoutingKey:  audit.QueueName,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  5,
		LastError:   err.Error(),
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}

	if outboxErr := s.outboxRepo.Insert(ctx, msg); outboxErr != nil {
		slog.Error("Failed to insert outbox message", "error", outboxErr, "order_id", ord.ID)
	}
}

// GetOrder retrieves one order with its line items.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*order.Order, error) {
	work := s.newUOW()

	ord, err := work.OrderRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := work.OrderItemRepository().Query(ctx, &orderitem.QueryOrderItemsModel{
		OrderIds: []int64{ord.ID},
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []orderitem.OrderItem{}
	}
	ord.Items = items

	return ord, nil
}

// ListOrders retrieves orders with their items based on filter, most
// recent first.
func (s *OrderService) ListOrders(
	ctx context.Context,
	filter order.QueryOrdersModel,
) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().Query(ctx, &filter)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	itemQuery := &orderitem.QueryOrderItemsModel{}
	for _, o := range orders {
		itemQuery.OrderIds = append(itemQuery.OrderIds, o.ID)
	}
	items, err := work.OrderItemRepository().Query(ctx, itemQuery)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].Items = append(orders[i].Items, item)
			}
		}
	}

	return orders, nil
}

// UpdateStatus transitions an order to target, enforcing the legal
// next-state rules. Terminal states reject every transition.
func (s *OrderService) UpdateStatus(
	ctx context.Context,
	id int64,
	target orderstatus.Status,
) (*order.Order, error) {
	work := s.newUOW()

	ord, err := work.OrderRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !ord.Status.CanTransitionTo(target) {
		return nil, apperror.ErrInvalidStatusTransition
	}

	updated, err := work.OrderRepository().UpdateStatus(ctx, id, ord.Status, target)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// The status moved underneath us between the read and the
		// guarded update.
		return nil, apperror.ErrInvalidStatusTransition
	}

	return updated, nil
}

// Stats retrieves aggregate order counts for the dashboard.
func (s *OrderService) Stats(ctx context.Context) (*order.Stats, error) {
	work := s.newUOW()

	return work.OrderRepository().Stats(ctx)
}

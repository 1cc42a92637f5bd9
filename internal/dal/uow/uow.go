package uow

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mashson/order-app/internal/dal/interfaces/imenurepo"
	"github.com/mashson/order-app/internal/dal/interfaces/iorderitemrepo"
	"github.com/mashson/order-app/internal/dal/interfaces/iorderrepo"
	"github.com/mashson/order-app/internal/dal/postgres"
	menurepo "github.com/mashson/order-app/internal/dal/repositories/menu/postgres"
	orderrepo "github.com/mashson/order-app/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/mashson/order-app/internal/dal/repositories/orderitem/postgres"
)

// unitOfWork scopes the order, order item and menu repositories to a single
// transaction once Begin is called. Before Begin the repositories run
// directly against the pool.
type unitOfWork struct {
	pool          *pgxpool.Pool
	tx            pgx.Tx
	orderRepo     iorderrepo.IOrderRepository
	orderItemRepo iorderitemrepo.IOrderItemRepository
	menuRepo      imenurepo.IMenuRepository
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.orderItemRepo
}

func (u *unitOfWork) MenuRepository() imenurepo.IMenuRepository {
	return u.menuRepo
}

func NewUnitOfWork(db *postgres.Client) *unitOfWork {
	return &unitOfWork{
		pool:          db.Pool(),
		orderRepo:     orderrepo.NewPostgresOrderRepository(db.Pool()),
		orderItemRepo: orderitemrepo.NewPostgresOrderItemRepository(db.Pool()),
		menuRepo:      menurepo.NewPostgresMenuRepository(db.Pool()),
	}
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(tx)
	u.menuRepo = menurepo.NewPostgresMenuRepository(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit(ctx)
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback(ctx)
}

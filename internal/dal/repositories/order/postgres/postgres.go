package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mashson/order-app/internal/service/models/apperror"
	"github.com/mashson/order-app/internal/service/models/order"
	"github.com/mashson/order-app/internal/service/models/orderitem"
	"github.com/mashson/order-app/internal/service/models/orderstatus"
)

// OrderDal represents order data access layer model.
type OrderDal struct {
	Id         int64     `db:"id"`
	OrderTime  time.Time `db:"order_time"`
	TotalPrice int64     `db:"total_price"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	status, err := orderstatus.Parse(o.Status)
	if err != nil {
		return nil, err
	}

	return &order.Order{
		ID:         o.Id,
		OrderTime:  o.OrderTime,
		TotalPrice: o.TotalPrice,
		Status:     status,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
		Items:      []orderitem.OrderItem{}, // Will be populated separately
	}, nil
}

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresOrderRepository represents a Postgres order repository.
type PostgresOrderRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn GenericConn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var orderColumns = []string{
	"id",
	"order_time",
	"total_price",
	"status",
	"created_at",
	"updated_at",
}

func scanOrder(row pgx.Row) (*OrderDal, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.Id,
		&dal.OrderTime,
		&dal.TotalPrice,
		&dal.Status,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &dal, nil
}

// Insert inserts the order header and returns it with its generated
// identity and timestamps.
func (r *PostgresOrderRepository) Insert(ctx context.Context, ord order.Order) (*order.Order, error) {
	sql := `
		INSERT INTO orders (total_price, status)
		VALUES ($1, $2)
		RETURNING id, order_time, total_price, status, created_at, updated_at
	`

	dal, err := scanOrder(r.conn.QueryRow(ctx, sql, ord.TotalPrice, ord.Status.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
	}

	model.Items = append(model.Items, ord.Items...)

	return model, nil
}

// GetByID retrieves one order header.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	query := r.sb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	dal, err := scanOrder(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrOrderNotFound
		}

		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
	}

	return model, nil
}

// Query retrieves orders based on filter criteria, most recent first.
func (r *PostgresOrderRepository) Query(
	ctx context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	query := r.sb.
		Select(orderColumns...).
		From("orders").
		OrderBy("order_time DESC")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"id": filter.Ids})
	}

	if filter.Status != "" {
		query = query.Where(sq.Eq{"status": filter.Status.String()})
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		dal, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// UpdateStatus sets the status of an order guarded by the expected current
// status. Returns nil when no row matched the guard.
func (r *PostgresOrderRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	current, target orderstatus.Status,
) (*order.Order, error) {
	query := r.sb.
		Update("orders").
		Set("status", target.String()).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id, "status": current.String()}).
		Suffix("RETURNING id, order_time, total_price, status, created_at, updated_at")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	dal, err := scanOrder(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	model, err := dal.ToModel()
	if err != nil {
		return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
	}

	return model, nil
}

// Stats retrieves aggregate order counts by status.
func (r *PostgresOrderRepository) Stats(ctx context.Context) (*order.Stats, error) {
	sql := `
		SELECT
			COUNT(*) AS total_orders,
			COUNT(*) FILTER (WHERE status = 'received') AS received_orders,
			COUNT(*) FILTER (WHERE status = 'in_progress') AS in_progress_orders,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed_orders
		FROM orders
	`

	var stats order.Stats
	err := r.conn.QueryRow(ctx, sql).Scan(
		&stats.TotalOrders,
		&stats.ReceivedOrders,
		&stats.InProgressOrders,
		&stats.CompletedOrders,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query order stats: %w", err)
	}

	return &stats, nil
}

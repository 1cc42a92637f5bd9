package postgresrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mashson/order-app/internal/service/models/orderitem"
)

// OrderItemDal represents order item data access layer model.
type OrderItemDal struct {
	Id              int64     `db:"id"`
	OrderId         int64     `db:"order_id"`
	MenuId          int64     `db:"menu_id"`
	MenuName        string    `db:"menu_name"`
	Quantity        int       `db:"quantity"`
	UnitPrice       int64     `db:"unit_price"`
	Subtotal        int64     `db:"subtotal"`
	SelectedOptions []byte    `db:"selected_options"`
	CreatedAt       time.Time `db:"created_at"`
}

// ToModel converts OrderItemDal to service layer OrderItem model.
func (oi *OrderItemDal) ToModel() (*orderitem.OrderItem, error) {
	selected := []int64{}
	if len(oi.SelectedOptions) > 0 {
		if err := json.Unmarshal(oi.SelectedOptions, &selected); err != nil {
			return nil, fmt.Errorf("failed to decode selected options: %w", err)
		}
	}

	return &orderitem.OrderItem{
		ID:              oi.Id,
		OrderID:         oi.OrderId,
		MenuID:          oi.MenuId,
		MenuName:        oi.MenuName,
		Quantity:        oi.Quantity,
		UnitPrice:       oi.UnitPrice,
		Subtotal:        oi.Subtotal,
		SelectedOptions: selected,
		CreatedAt:       oi.CreatedAt,
	}, nil
}

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresOrderItemRepository represents a Postgres order item repository.
type PostgresOrderItemRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderItemRepository creates a new Postgres order item repository.
func NewPostgresOrderItemRepository(conn GenericConn) *PostgresOrderItemRepository {
	return &PostgresOrderItemRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert inserts one order line snapshot. The selected option ids are
// serialized to JSONB as-is, without re-validation against the catalog.
func (r *PostgresOrderItemRepository) Insert(
	ctx context.Context,
	item orderitem.OrderItem,
) (*orderitem.OrderItem, error) {
	selected, err := json.Marshal(item.SelectedOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode selected options: %w", err)
	}

	sql := `
		INSERT INTO order_items (order_id, menu_id, quantity, unit_price, subtotal, selected_options)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	var id int64
	var createdAt pgtype.Timestamptz
	err = r.conn.QueryRow(ctx, sql,
		item.OrderID,
		item.MenuID,
		item.Quantity,
		item.UnitPrice,
		item.Subtotal,
		selected,
	).Scan(&id, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order item: %w", err)
	}

	item.ID = id
	item.CreatedAt = createdAt.Time

	return &item, nil
}

// Query retrieves order items based on filter criteria, joined with the
// menu name for display.
func (r *PostgresOrderItemRepository) Query(
	ctx context.Context,
	filter *orderitem.QueryOrderItemsModel,
) ([]orderitem.OrderItem, error) {
	query := r.sb.
		Select(
			"oi.id",
			"oi.order_id",
			"oi.menu_id",
			"m.name",
			"oi.quantity",
			"oi.unit_price",
			"oi.subtotal",
			"oi.selected_options",
			"oi.created_at",
		).
		From("order_items oi").
		Join("menus m ON m.id = oi.menu_id").
		OrderBy("oi.id")

	if len(filter.Ids) > 0 {
		query = query.Where(sq.Eq{"oi.id": filter.Ids})
	}

	if len(filter.OrderIds) > 0 {
		query = query.Where(sq.Eq{"oi.order_id": filter.OrderIds})
	}

	if len(filter.MenuIds) > 0 {
		query = query.Where(sq.Eq{"oi.menu_id": filter.MenuIds})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var result []orderitem.OrderItem
	for rows.Next() {
		var dal OrderItemDal
		var createdAt pgtype.Timestamptz

		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.MenuId,
			&dal.MenuName,
			&dal.Quantity,
			&dal.UnitPrice,
			&dal.Subtotal,
			&dal.SelectedOptions,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		dal.CreatedAt = createdAt.Time

		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order item dal to model: %w", err)
		}

		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

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
	"github.com/mashson/order-app/internal/service/models/menu"
	"github.com/mashson/order-app/internal/service/models/option"
)

// MenuDal represents menu data access layer model.
type MenuDal struct {
	Id            int64     `db:"id"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	Price         int64     `db:"price"`
	ImageUrl      string    `db:"image_url"`
	StockQuantity int       `db:"stock_quantity"`
	IsAvailable   bool      `db:"is_available"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// ToModel converts MenuDal to service layer MenuItem model.
func (m *MenuDal) ToModel() *menu.MenuItem {
	return &menu.MenuItem{
		ID:            m.Id,
		Name:          m.Name,
		Description:   m.Description,
		Price:         m.Price,
		ImageURL:      m.ImageUrl,
		StockQuantity: m.StockQuantity,
		IsAvailable:   m.IsAvailable,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		Options:       []option.Option{},
	}
}

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresMenuRepository represents a Postgres menu repository.
type PostgresMenuRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresMenuRepository creates a new Postgres menu repository.
func NewPostgresMenuRepository(conn GenericConn) *PostgresMenuRepository {
	return &PostgresMenuRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var menuColumns = []string{
	"id",
	"name",
	"description",
	"price",
	"image_url",
	"stock_quantity",
	"is_available",
	"created_at",
	"updated_at",
}

func scanMenu(row pgx.Row) (*MenuDal, error) {
	var dal MenuDal
	err := row.Scan(
		&dal.Id,
		&dal.Name,
		&dal.Description,
		&dal.Price,
		&dal.ImageUrl,
		&dal.StockQuantity,
		&dal.IsAvailable,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &dal, nil
}

// ListAvailable retrieves available menu items with their available options.
func (r *PostgresMenuRepository) ListAvailable(ctx context.Context) ([]menu.MenuItem, error) {
	query := r.sb.
		Select(menuColumns...).
		From("menus").
		Where(sq.Eq{"is_available": true}).
		OrderBy("id")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query menus: %w", err)
	}
	defer rows.Close()

	var result []menu.MenuItem
	for rows.Next() {
		dal, err := scanMenu(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	if err := r.attachOptions(ctx, result); err != nil {
		return nil, err
	}

	return result, nil
}

// GetAvailable retrieves one available menu item with its available options.
func (r *PostgresMenuRepository) GetAvailable(ctx context.Context, id int64) (*menu.MenuItem, error) {
	query := r.sb.
		Select(menuColumns...).
		From("menus").
		Where(sq.Eq{"id": id, "is_available": true})

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	dal, err := scanMenu(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrMenuNotFound
		}

		return nil, fmt.Errorf("failed to query menu: %w", err)
	}

	items := []menu.MenuItem{*dal.ToModel()}
	if err := r.attachOptions(ctx, items); err != nil {
		return nil, err
	}

	return &items[0], nil
}

// attachOptions loads available options for the given menus and stitches
// them onto the models.
func (r *PostgresMenuRepository) attachOptions(ctx context.Context, menus []menu.MenuItem) error {
	if len(menus) == 0 {
		return nil
	}

	menuIds := make([]int64, len(menus))
	for i, m := range menus {
		menuIds[i] = m.ID
	}

	query := r.sb.
		Select("id", "menu_id", "name", "price").
		From("options").
		Where(sq.Eq{"menu_id": menuIds, "is_available": true}).
		OrderBy("id")

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	byMenu := make(map[int64][]option.Option)
	for rows.Next() {
		var opt option.Option
		if err := rows.Scan(&opt.ID, &opt.MenuID, &opt.Name, &opt.Price); err != nil {
			return fmt.Errorf("failed to scan option: %w", err)
		}
		byMenu[opt.MenuID] = append(byMenu[opt.MenuID], opt)
	}

	if err = rows.Err(); err != nil {
		return fmt.Errorf("rows iteration error: %w", err)
	}

	for i := range menus {
		if opts, ok := byMenu[menus[i].ID]; ok {
			menus[i].Options = opts
		}
	}

	return nil
}

// ListInventory retrieves raw stock rows for the administrator view.
func (r *PostgresMenuRepository) ListInventory(ctx context.Context) ([]menu.InventoryRow, error) {
	query := r.sb.
		Select("id", "name", "stock_quantity", "is_available").
		From("menus").
		OrderBy("id")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	var result []menu.InventoryRow
	for rows.Next() {
		var row menu.InventoryRow
		if err := rows.Scan(&row.ID, &row.Name, &row.StockQuantity, &row.IsAvailable); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		result = append(result, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Reserve decrements stock by quantity with a non-negative guard evaluated
// atomically in the database, and recomputes the availability flag from the
// remaining stock. Concurrent reservations on the same row serialize on the
// row lock, so two orders cannot both take the last unit.
func (r *PostgresMenuRepository) Reserve(ctx context.Context, menuID int64, quantity int) error {
	sql := `
		UPDATE menus
		SET stock_quantity = stock_quantity - $2,
		    is_available = (stock_quantity - $2) > 0,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND stock_quantity >= $2
	`

	tag, err := r.conn.Exec(ctx, sql, menuID, quantity)
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}

	if tag.RowsAffected() > 0 {
		return nil
	}

	// The guard rejected the update: distinguish a missing menu from an
	// insufficient stock level.
	var available int
	err = r.conn.QueryRow(ctx, `SELECT stock_quantity FROM menus WHERE id = $1`, menuID).
		Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperror.ErrMenuNotFound
		}

		return fmt.Errorf("failed to check stock: %w", err)
	}

	return &apperror.InsufficientStockError{
		MenuID:    menuID,
		Requested: quantity,
		Available: available,
	}
}

// SetStock sets absolute stock for a menu item and recomputes availability.
func (r *PostgresMenuRepository) SetStock(
	ctx context.Context,
	menuID int64,
	quantity int,
) (*menu.MenuItem, error) {
	query := r.sb.
		Update("menus").
		Set("stock_quantity", quantity).
		Set("is_available", quantity > 0).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": menuID}).
		Suffix("RETURNING " + "id, name, description, price, image_url, stock_quantity, is_available, created_at, updated_at")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	dal, err := scanMenu(r.conn.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.ErrItemNotFound
		}

		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	return dal.ToModel(), nil
}

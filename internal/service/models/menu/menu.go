package menu

import (
	"time"

	"github.com/mashson/order-app/internal/service/models/option"
)

// MenuItem represents a sellable item in the catalog. Prices are in the
// minor currency unit.
type MenuItem struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         int64           `json:"price"`
	ImageURL      string          `json:"image_url"`
	StockQuantity int             `json:"stock_quantity"`
	IsAvailable   bool            `json:"is_available"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Options       []option.Option `json:"options"`
}

// InventoryRow is the administrator projection of a menu item's stock.
type InventoryRow struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stock_quantity"`
	IsAvailable   bool   `json:"is_available"`
}

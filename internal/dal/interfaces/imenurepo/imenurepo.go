package imenurepo

import (
	"context"

	"github.com/mashson/order-app/internal/service/models/menu"
)

// IMenuRepository is an interface for the menu postgres repository.
type IMenuRepository interface {
	// ListAvailable returns available menu items with their available options.
	ListAvailable(ctx context.Context) ([]menu.MenuItem, error)

	// GetAvailable returns one available menu item with its available options.
	GetAvailable(ctx context.Context, id int64) (*menu.MenuItem, error)

	// ListInventory returns raw stock rows for the administrator view.
	ListInventory(ctx context.Context) ([]menu.InventoryRow, error)

	// Reserve atomically decrements stock by quantity, failing if the
	// remaining stock would go negative, and recomputes availability.
	Reserve(ctx context.Context, menuID int64, quantity int) error

	// SetStock sets absolute stock and recomputes availability.
	SetStock(ctx context.Context, menuID int64, quantity int) (*menu.MenuItem, error)
}

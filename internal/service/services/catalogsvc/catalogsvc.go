package catalogsvc

import (
	"context"

	"github.com/mashson/order-app/internal/dal/interfaces/imenurepo"
	"github.com/mashson/order-app/internal/dal/postgres"
	menurepo "github.com/mashson/order-app/internal/dal/repositories/menu/postgres"
	"github.com/mashson/order-app/internal/service/models/apperror"
	"github.com/mashson/order-app/internal/service/models/menu"
)

// CatalogService serves menu reads and administrator stock overrides.
type CatalogService struct {
	menuRepo imenurepo.IMenuRepository
}

// option is a function that configures the CatalogService.
type option func(*CatalogService)

// MustNewCatalogService creates a new CatalogService.
func MustNewCatalogService(opts ...option) *CatalogService {
	s := &CatalogService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithPostgresClient wires the menu repository over the Postgres client.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *CatalogService) {
		s.menuRepo = menurepo.NewPostgresMenuRepository(pgClient.Pool())
	}
}

// WithMenuRepository sets the menu repository directly.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithMenuRepository(repo imenurepo.IMenuRepository) option {
	return func(s *CatalogService) {
		s.menuRepo = repo
	}
}

// ListMenus returns available menu items with their available options.
func (s *CatalogService) ListMenus(ctx context.Context) ([]menu.MenuItem, error) {
	items, err := s.menuRepo.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	if items == nil {
		items = []menu.MenuItem{}
	}

	return items, nil
}

// GetMenu returns one available menu item with its available options.
func (s *CatalogService) GetMenu(ctx context.Context, id int64) (*menu.MenuItem, error) {
	return s.menuRepo.GetAvailable(ctx, id)
}

// ListInventory returns raw stock rows for the administrator view.
func (s *CatalogService) ListInventory(ctx context.Context) ([]menu.InventoryRow, error) {
	rows, err := s.menuRepo.ListInventory(ctx)
	if err != nil {
		return nil, err
	}

	if rows == nil {
		rows = []menu.InventoryRow{}
	}

	return rows, nil
}

// SetStock sets absolute stock for a menu item. Availability is recomputed
// from the new quantity.
func (s *CatalogService) SetStock(
	ctx context.Context,
	menuID int64,
	quantity int,
) (*menu.MenuItem, error) {
	if quantity < 0 {
		return nil, apperror.ErrInvalidStockQuantity
	}

	return s.menuRepo.SetStock(ctx, menuID, quantity)
}

package ordersvc

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/mashson/order-app/internal/dal/interfaces/imenurepo"
	"github.com/mashson/order-app/internal/dal/interfaces/iorderitemrepo"
	"github.com/mashson/order-app/internal/dal/interfaces/iorderrepo"
	"github.com/mashson/order-app/internal/service/models/apperror"
	"github.com/mashson/order-app/internal/service/models/menu"
	"github.com/mashson/order-app/internal/service/models/order"
	"github.com/mashson/order-app/internal/service/models/orderitem"
	"github.com/mashson/order-app/internal/service/models/orderstatus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore emulates the database shared by all units of work. A unit of
// work holds the store lock between Begin and Commit/Rollback, which gives
// the same serialization guarantee the row lock gives in Postgres.
type fakeStore struct {
	mu         sync.Mutex
	stock      map[int64]int
	available  map[int64]bool
	orders     map[int64]order.Order
	items      map[int64]orderitem.OrderItem
	nextOrder  int64
	nextItem   int64
	beginCount int
}

func newFakeStore(stock map[int64]int) *fakeStore {
	s := &fakeStore{
		stock:     map[int64]int{},
		available: map[int64]bool{},
		orders:    map[int64]order.Order{},
		items:     map[int64]orderitem.OrderItem{},
	}
	for id, qty := range stock {
		s.stock[id] = qty
		s.available[id] = qty > 0
	}
	return s
}

type storeSnapshot struct {
	stock     map[int64]int
	available map[int64]bool
	orders    map[int64]order.Order
	items     map[int64]orderitem.OrderItem
	nextOrder int64
	nextItem  int64
}

func (s *fakeStore) snapshot() *storeSnapshot {
	snap := &storeSnapshot{
		stock:     map[int64]int{},
		available: map[int64]bool{},
		orders:    map[int64]order.Order{},
		items:     map[int64]orderitem.OrderItem{},
		nextOrder: s.nextOrder,
		nextItem:  s.nextItem,
	}
	for k, v := range s.stock {
		snap.stock[k] = v
	}
	for k, v := range s.available {
		snap.available[k] = v
	}
	for k, v := range s.orders {
		snap.orders[k] = v
	}
	for k, v := range s.items {
		snap.items[k] = v
	}
	return snap
}

func (s *fakeStore) restore(snap *storeSnapshot) {
	s.stock = snap.stock
	s.available = snap.available
	s.orders = snap.orders
	s.items = snap.items
	s.nextOrder = snap.nextOrder
	s.nextItem = snap.nextItem
}

type fakeUOW struct {
	store *fakeStore
	snap  *storeSnapshot
	inTx  bool
}

func (u *fakeUOW) Begin(_ context.Context) error {
	u.store.mu.Lock()
	u.store.beginCount++
	u.snap = u.store.snapshot()
	u.inTx = true
	return nil
}

func (u *fakeUOW) Commit(_ context.Context) error {
	if u.inTx {
		u.inTx = false
		u.store.mu.Unlock()
	}
	return nil
}

func (u *fakeUOW) Rollback(_ context.Context) error {
	if u.inTx {
		u.store.restore(u.snap)
		u.inTx = false
		u.store.mu.Unlock()
	}
	return nil
}

func (u *fakeUOW) OrderRepository() iorderrepo.IOrderRepository {
	return &fakeOrderRepo{store: u.store}
}

func (u *fakeUOW) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return &fakeOrderItemRepo{store: u.store}
}

func (u *fakeUOW) MenuRepository() imenurepo.IMenuRepository {
	return &fakeMenuRepo{store: u.store}
}

type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) Insert(_ context.Context, ord order.Order) (*order.Order, error) {
	r.store.nextOrder++
	ord.ID = r.store.nextOrder
	ord.OrderTime = time.Now()
	ord.CreatedAt = ord.OrderTime
	ord.UpdatedAt = ord.OrderTime

	stored := ord
	stored.Items = nil
	r.store.orders[ord.ID] = stored

	return &ord, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id int64) (*order.Order, error) {
	ord, ok := r.store.orders[id]
	if !ok {
		return nil, apperror.ErrOrderNotFound
	}
	ord.Items = []orderitem.OrderItem{}
	return &ord, nil
}

func (r *fakeOrderRepo) Query(
	_ context.Context,
	filter *order.QueryOrdersModel,
) ([]order.Order, error) {
	var result []order.Order
	for _, ord := range r.store.orders {
		if filter.Status != "" && ord.Status != filter.Status {
			continue
		}
		result = append(result, ord)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].OrderTime.After(result[j].OrderTime)
	})
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *fakeOrderRepo) UpdateStatus(
	_ context.Context,
	id int64,
	current, target orderstatus.Status,
) (*order.Order, error) {
	ord, ok := r.store.orders[id]
	if !ok || ord.Status != current {
		return nil, nil
	}
	ord.Status = target
	ord.UpdatedAt = time.Now()
	r.store.orders[id] = ord
	return &ord, nil
}

func (r *fakeOrderRepo) Stats(_ context.Context) (*order.Stats, error) {
	stats := &order.Stats{}
	for _, ord := range r.store.orders {
		stats.TotalOrders++
		switch ord.Status {
		case orderstatus.StatusReceived:
			stats.ReceivedOrders++
		case orderstatus.StatusInProgress:
			stats.InProgressOrders++
		case orderstatus.StatusCompleted:
			stats.CompletedOrders++
		}
	}
	return stats, nil
}

type fakeOrderItemRepo struct {
	store *fakeStore
}

func (r *fakeOrderItemRepo) Insert(
	_ context.Context,
	item orderitem.OrderItem,
) (*orderitem.OrderItem, error) {
	r.store.nextItem++
	item.ID = r.store.nextItem
	item.CreatedAt = time.Now()
	r.store.items[item.ID] = item
	return &item, nil
}

func (r *fakeOrderItemRepo) Query(
	_ context.Context,
	filter *orderitem.QueryOrderItemsModel,
) ([]orderitem.OrderItem, error) {
	var result []orderitem.OrderItem
	for _, item := range r.store.items {
		for _, orderID := range filter.OrderIds {
			if item.OrderID == orderID {
				result = append(result, item)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type fakeMenuRepo struct {
	store *fakeStore
}

func (r *fakeMenuRepo) Reserve(_ context.Context, menuID int64, quantity int) error {
	available, ok := r.store.stock[menuID]
	if !ok {
		return apperror.ErrMenuNotFound
	}
	if available < quantity {
		return &apperror.InsufficientStockError{
			MenuID:    menuID,
			Requested: quantity,
			Available: available,
		}
	}
	r.store.stock[menuID] = available - quantity
	r.store.available[menuID] = available-quantity > 0
	return nil
}

func (r *fakeMenuRepo) SetStock(
	_ context.Context,
	menuID int64,
	quantity int,
) (*menu.MenuItem, error) {
	if _, ok := r.store.stock[menuID]; !ok {
		return nil, apperror.ErrItemNotFound
	}
	r.store.stock[menuID] = quantity
	r.store.available[menuID] = quantity > 0
	return &menu.MenuItem{ID: menuID, StockQuantity: quantity, IsAvailable: quantity > 0}, nil
}

func (r *fakeMenuRepo) ListAvailable(_ context.Context) ([]menu.MenuItem, error) {
	return nil, nil
}

func (r *fakeMenuRepo) GetAvailable(_ context.Context, _ int64) (*menu.MenuItem, error) {
	return nil, apperror.ErrMenuNotFound
}

func (r *fakeMenuRepo) ListInventory(_ context.Context) ([]menu.InventoryRow, error) {
	return nil, nil
}

func newService(store *fakeStore) *OrderService {
	return MustNewOrderService(
		WithUnitOfWorkFactory(func() unitOfWork {
			return &fakeUOW{store: store}
		}),
	)
}

func cartLine(menuID int64, qty int, unitPrice int64) orderitem.OrderItem {
	return orderitem.OrderItem{
		MenuID:          menuID,
		Quantity:        qty,
		UnitPrice:       unitPrice,
		Subtotal:        unitPrice * int64(qty),
		SelectedOptions: []int64{},
	}
}

func TestCreateOrder_Success(t *testing.T) {
	store := newFakeStore(map[int64]int{1: 10})
	svc := newService(store)

	created, err := svc.CreateOrder(context.Background(), order.Order{
		TotalPrice: 8000,
		Items:      []orderitem.OrderItem{cartLine(1, 2, 4000)},
	})

	require.NoError(t, err)
	assert.Equal(t, orderstatus.StatusReceived, created.Status)
	assert.Equal(t, int64(8000), created.TotalPrice)
	assert.NotZero(t, created.ID)
	assert.Len(t, created.Items, 1)

	assert.Equal(t, 8, store.stock[1])
	assert.True(t, store.available[1])
	assert.Len(t, store.orders, 1)
	assert.Len(t, store.items, 1)
}

func TestCreateOrder_InvalidInputBeforeAnyMutation(t *testing.T) {
	tests := []struct {
		name    string
		ord     order.Order
		wantErr *apperror.AppError
	}{
		{
			name:    "empty items",
			ord:     order.Order{TotalPrice: 4000},
			wantErr: apperror.ErrInvalidOrderData,
		},
		{
			name: "zero quantity",
			ord: order.Order{
				TotalPrice: 4000,
				Items:      []orderitem.OrderItem{cartLine(1, 0, 4000)},
			},
			wantErr: apperror.ErrInvalidOrderData,
		},
		{
			name: "negative quantity",
			ord: order.Order{
				TotalPrice: 4000,
				Items:      []orderitem.OrderItem{cartLine(1, -1, 4000)},
			},
			wantErr: apperror.ErrInvalidOrderData,
		},
		{
			name: "zero total price",
			ord: order.Order{
				TotalPrice: 0,
				Items:      []orderitem.OrderItem{cartLine(1, 1, 4000)},
			},
			wantErr: apperror.ErrInvalidTotalPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore(map[int64]int{1: 10})
			svc := newService(store)

			_, err := svc.CreateOrder(context.Background(), tt.ord)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			// InvalidInput must surface before any mutation attempt.
			assert.Zero(t, store.beginCount)
			assert.Equal(t, 10, store.stock[1])
			assert.Empty(t, store.orders)
		})
	}
}

func TestCreateOrder_InsufficientStockRollsBackEverything(t *testing.T) {
	store := newFakeStore(map[int64]int{1: 5, 2: 1})
	svc := newService(store)

	_, err := svc.CreateOrder(context.Background(), order.Order{
		TotalPrice: 23000,
		Items: []orderitem.OrderItem{
			cartLine(1, 2, 4000),
			cartLine(2, 3, 5000),
		},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrOrderCreationFailed)

	var stockErr *apperror.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(2), stockErr.MenuID)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)

	// Nothing from the unit may remain: the first line's reservation and
	// insert are rolled back together with the header.
	assert.Equal(t, 5, store.stock[1])
	assert.Equal(t, 1, store.stock[2])
	assert.Empty(t, store.orders)
	assert.Empty(t, store.items)
}

func TestCreateOrder_UnknownMenuRollsBack(t *testing.T) {
	store := newFakeStore(map[int64]int{1: 5})
	svc := newService(store)

	_, err := svc.CreateOrder(context.Background(), order.Order{
		TotalPrice: 4000,
		Items:      []orderitem.OrderItem{cartLine(99, 1, 4000)},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrOrderCreationFailed)
	assert.ErrorIs(t, err, apperror.ErrMenuNotFound)
	assert.Empty(t, store.orders)
	assert.Empty(t, store.items)
}

func TestCreateOrder_LastUnitRace(t *testing.T) {
	store := newFakeStore(map[int64]int{1: 1})
	svc := newService(store)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateOrder(context.Background(), order.Order{
				TotalPrice: 4000,
				Items:      []orderitem.OrderItem{cartLine(1, 1, 4000)},
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, failures int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		failures++
		var stockErr *apperror.InsufficientStockError
		assert.ErrorAs(t, err, &stockErr)
	}

	assert.Equal(t, 1, successes, "exactly one order may take the last unit")
	assert.Equal(t, 1, failures)
	assert.Equal(t, 0, store.stock[1])
	assert.False(t, store.available[1])
	assert.Len(t, store.orders, 1)
}

func TestGetOrder(t *testing.T) {
	store := newFakeStore(map[int64]int{1: 10})
	svc := newService(store)

	created, err := svc.CreateOrder(context.Background(), order.Order{
		TotalPrice: 8000,
		Items:      []orderitem.OrderItem{cartLine(1, 2, 4000)},
	})
	require.NoError(t, err)

	fetched, err := svc.GetOrder(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Len(t, fetched.Items, 1)
	assert.Equal(t, int64(1), fetched.Items[0].MenuID)

	_, err = svc.GetOrder(context.Background(), 404)
	assert.ErrorIs(t, err, apperror.ErrOrderNotFound)
}

func TestListOrders_StatusFilterAndLimit(t *testing.T) {
	store := newFakeStore(map[int64]int{1: 100})
	svc := newService(store)

	for i := 0; i < 3; i++ {
		_, err := svc.CreateOrder(context.Background(), order.Order{
			TotalPrice: 4000,
			Items:      []orderitem.OrderItem{cartLine(1, 1, 4000)},
		})
		require.NoError(t, err)
	}

	_, err := svc.UpdateStatus(context.Background(), 1, orderstatus.StatusInProgress)
	require.NoError(t, err)

	received, err := svc.ListOrders(context.Background(), order.QueryOrdersModel{
		Status: orderstatus.StatusReceived,
	})
	require.NoError(t, err)
	assert.Len(t, received, 2)

	limited, err := svc.ListOrders(context.Background(), order.QueryOrdersModel{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
	assert.Len(t, limited[0].Items, 1)
}

func TestUpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    orderstatus.Status
		target  orderstatus.Status
		wantErr bool
	}{
		{"received to in_progress", orderstatus.StatusReceived, orderstatus.StatusInProgress, false},
		{"received to cancelled", orderstatus.StatusReceived, orderstatus.StatusCancelled, false},
		{"received to completed", orderstatus.StatusReceived, orderstatus.StatusCompleted, true},
		{"in_progress to completed", orderstatus.StatusInProgress, orderstatus.StatusCompleted, false},
		{"in_progress to cancelled", orderstatus.StatusInProgress, orderstatus.StatusCancelled, false},
		{"completed is terminal", orderstatus.StatusCompleted, orderstatus.StatusCancelled, true},
		{"cancelled is terminal", orderstatus.StatusCancelled, orderstatus.StatusInProgress, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore(nil)
			store.nextOrder = 1
			store.orders[1] = order.Order{ID: 1, TotalPrice: 4000, Status: tt.from}
			svc := newService(store)

			updated, err := svc.UpdateStatus(context.Background(), 1, tt.target)

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperror.ErrInvalidStatusTransition)
				assert.Equal(t, tt.from, store.orders[1].Status)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.target, updated.Status)
			assert.Equal(t, tt.target, store.orders[1].Status)
		})
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	svc := newService(newFakeStore(nil))

	_, err := svc.UpdateStatus(context.Background(), 77, orderstatus.StatusInProgress)
	assert.ErrorIs(t, err, apperror.ErrOrderNotFound)
}

func TestStats(t *testing.T) {
	store := newFakeStore(nil)
	store.orders[1] = order.Order{ID: 1, Status: orderstatus.StatusReceived}
	store.orders[2] = order.Order{ID: 2, Status: orderstatus.StatusInProgress}
	store.orders[3] = order.Order{ID: 3, Status: orderstatus.StatusCompleted}
	store.orders[4] = order.Order{ID: 4, Status: orderstatus.StatusCompleted}
	svc := newService(store)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.ReceivedOrders)
	assert.Equal(t, int64(1), stats.InProgressOrders)
	assert.Equal(t, int64(2), stats.CompletedOrders)
}

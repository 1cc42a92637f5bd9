package updatestock

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mashson/order-app/internal/service/models/apperror"
	"github.com/mashson/order-app/internal/service/models/menu"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	gotMenuID   int64
	gotQuantity int
	calls       int
	err         error
}

func (s *fakeService) SetStock(_ context.Context, menuID int64, quantity int) (*menu.MenuItem, error) {
	s.calls++
	s.gotMenuID = menuID
	s.gotQuantity = quantity
	if s.err != nil {
		return nil, s.err
	}
	return &menu.MenuItem{ID: menuID, StockQuantity: quantity, IsAvailable: quantity > 0}, nil
}

func doRequest(t *testing.T, svc *fakeService, id, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/inventory/"+id, strings.NewReader(body))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	UpdateStock(rec, req, svc)
	return rec
}

func TestUpdateStock_Success(t *testing.T) {
	svc := &fakeService{}

	rec := doRequest(t, svc, "3", `{"stock_quantity":5}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), svc.gotMenuID)
	assert.Equal(t, 5, svc.gotQuantity)
	assert.Contains(t, rec.Body.String(), `"is_available":true`)
}

func TestUpdateStock_ZeroQuantityIsValid(t *testing.T) {
	svc := &fakeService{}

	rec := doRequest(t, svc, "1", `{"stock_quantity":0}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, svc.gotQuantity)
	assert.Contains(t, rec.Body.String(), `"is_available":false`)
}

func TestUpdateStock_MissingQuantityField(t *testing.T) {
	svc := &fakeService{}

	rec := doRequest(t, svc, "1", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"INVALID_STOCK_QUANTITY"`)
	assert.Zero(t, svc.calls)
}

func TestUpdateStock_BadID(t *testing.T) {
	svc := &fakeService{}

	rec := doRequest(t, svc, "latte", `{"stock_quantity":5}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ITEM_NOT_FOUND"`)
	assert.Zero(t, svc.calls)
}

func TestUpdateStock_ServiceError(t *testing.T) {
	svc := &fakeService{err: apperror.ErrInvalidStockQuantity}

	rec := doRequest(t, svc, "1", `{"stock_quantity":-2}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"INVALID_STOCK_QUANTITY"`)
}

package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesrecords/pkg/domain/model"
	"salesrecords/pkg/domain/service"
)

type stubSalesService struct {
	createdReq *service.CreateSaleRequest
	sale       *model.Sale
	view       *service.SaleView
	views      []service.SaleView
	err        error
}

var _ service.SalesService = &stubSalesService{}

func (s *stubSalesService) CreateSale(_ context.Context, req service.CreateSaleRequest) (*model.Sale, error) {
	s.createdReq = &req
	return s.sale, s.err
}

func (s *stubSalesService) ReadSale(_ context.Context, _ uuid.UUID) (*service.SaleView, error) {
	return s.view, s.err
}

func (s *stubSalesService) ReadAllSales(_ context.Context) ([]service.SaleView, error) {
	return s.views, s.err
}

func (s *stubSalesService) UpdateSale(_ context.Context, _ service.UpdateSaleRequest) error {
	return s.err
}

func (s *stubSalesService) DeleteSale(_ context.Context, _ uuid.UUID) error {
	return s.err
}

func TestCreateSaleHandler(t *testing.T) {
	saleID := uuid.New()
	stub := &stubSalesService{sale: &model.Sale{ID: saleID, Discount: 10}}
	router := Router(stub)

	productID := uuid.New()
	body, err := json.Marshal(map[string]interface{}{
		"branch_id":   uuid.New(),
		"customer_id": uuid.New(),
		"items":       []map[string]interface{}{{"product_id": productID, "quantity": 3}},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, stub.createdReq)
	require.Len(t, stub.createdReq.Items, 1)
	assert.Equal(t, productID, stub.createdReq.Items[0].ProductID)
	assert.Equal(t, 3, stub.createdReq.Items[0].Quantity)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, saleID.String(), resp["id"])
	assert.Equal(t, float64(10), resp["discount"])
}

func TestCreateSaleHandlerUnknownReference(t *testing.T) {
	router := Router(&stubSalesService{err: model.ErrBranchNotFound})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewReader([]byte(`{}`))))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSaleHandlerStockConflict(t *testing.T) {
	router := Router(&stubSalesService{err: model.ErrOptimisticLock})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sales", bytes.NewReader([]byte(`{}`))))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetSaleHandler(t *testing.T) {
	saleID := uuid.New()
	branch := &service.BranchSummary{ID: uuid.New(), Name: "Downtown"}
	stub := &stubSalesService{view: &service.SaleView{
		ID:        saleID,
		Discount:  20,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
		Branch:    branch,
		LineItems: []service.SaleLineView{{
			ID:          uuid.New(),
			ProductID:   uuid.New(),
			ProductName: "Coffee",
			Quantity:    2,
			UnitPrice:   decimal.RequireFromString("12.50"),
		}},
	}}
	router := Router(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sales/"+saleID.String(), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp saleViewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, saleID, resp.ID)
	assert.Equal(t, 20, resp.Discount)
	require.NotNil(t, resp.Branch)
	assert.Equal(t, "Downtown", resp.Branch.Name)
	assert.Nil(t, resp.Customer)
	require.Len(t, resp.LineItems, 1)
	assert.Equal(t, "Coffee", resp.LineItems[0].ProductName)
}

func TestGetSaleHandlerNotFound(t *testing.T) {
	router := Router(&stubSalesService{err: model.ErrSaleNotFound})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sales/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSaleHandlerInvalidID(t *testing.T) {
	router := Router(&stubSalesService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sales/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSalesHandlerEmpty(t *testing.T) {
	router := Router(&stubSalesService{views: []service.SaleView{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sales", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestDeleteSaleHandler(t *testing.T) {
	router := Router(&stubSalesService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/sales/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

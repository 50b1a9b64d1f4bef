package transport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"salesrecords/pkg/domain/model"
	"salesrecords/pkg/domain/service"
)

func Router(sales service.SalesService) http.Handler {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", health).Methods(http.MethodGet)

	s := r.PathPrefix("/api/v1").Subrouter()
	h := &salesHandler{sales: sales}
	s.HandleFunc("/sales", h.createSale).Methods(http.MethodPost)
	s.HandleFunc("/sales", h.listSales).Methods(http.MethodGet)
	s.HandleFunc("/sales/{ID}", h.getSale).Methods(http.MethodGet)
	s.HandleFunc("/sales", h.updateSale).Methods(http.MethodPut)
	s.HandleFunc("/sales/{ID}", h.deleteSale).Methods(http.MethodDelete)
	return logMiddleware(r)
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type salesHandler struct {
	sales service.SalesService
}

type createSaleItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type createSaleRequest struct {
	BranchID   uuid.UUID               `json:"branch_id"`
	CustomerID uuid.UUID               `json:"customer_id"`
	Items      []createSaleItemRequest `json:"items"`
}

type createSaleResponse struct {
	ID       uuid.UUID `json:"id"`
	Discount int       `json:"discount"`
}

type updateSaleRequest struct {
	ID          uuid.UUID `json:"id"`
	BranchID    uuid.UUID `json:"branch_id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	Discount    int       `json:"discount"`
	IsActive    bool      `json:"is_active"`
	IsCancelled bool      `json:"is_cancelled"`
}

type saleViewResponse struct {
	ID          uuid.UUID              `json:"id"`
	Discount    int                    `json:"discount"`
	IsCancelled bool                   `json:"is_cancelled"`
	IsActive    bool                   `json:"is_active"`
	CreatedAt   string                 `json:"created_at"`
	UpdatedAt   *string                `json:"updated_at,omitempty"`
	Branch      *summaryResponse       `json:"branch,omitempty"`
	Customer    *summaryResponse       `json:"customer,omitempty"`
	LineItems   []saleLineViewResponse `json:"line_items"`
}

type saleLineViewResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type summaryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (h *salesHandler) createSale(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items := make([]service.SaleItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.SaleItemRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	sale, err := h.sales.CreateSale(r.Context(), service.CreateSaleRequest{
		BranchID:   req.BranchID,
		CustomerID: req.CustomerID,
		Items:      items,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createSaleResponse{ID: sale.ID, Discount: sale.Discount})
}

func (h *salesHandler) listSales(w http.ResponseWriter, r *http.Request) {
	views, err := h.sales.ReadAllSales(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]saleViewResponse, 0, len(views))
	for _, view := range views {
		out = append(out, toSaleViewResponse(view))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *salesHandler) getSale(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["ID"])
	if err != nil {
		http.Error(w, "invalid sale id", http.StatusBadRequest)
		return
	}

	view, err := h.sales.ReadSale(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSaleViewResponse(*view))
}

func (h *salesHandler) updateSale(w http.ResponseWriter, r *http.Request) {
	var req updateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err := h.sales.UpdateSale(r.Context(), service.UpdateSaleRequest{
		ID:          req.ID,
		BranchID:    req.BranchID,
		CustomerID:  req.CustomerID,
		Discount:    req.Discount,
		IsActive:    req.IsActive,
		IsCancelled: req.IsCancelled,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *salesHandler) deleteSale(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["ID"])
	if err != nil {
		http.Error(w, "invalid sale id", http.StatusBadRequest)
		return
	}

	if err := h.sales.DeleteSale(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func toSaleViewResponse(view service.SaleView) saleViewResponse {
	resp := saleViewResponse{
		ID:          view.ID,
		Discount:    view.Discount,
		IsCancelled: view.IsCancelled,
		IsActive:    view.IsActive,
		CreatedAt:   view.CreatedAt.Format(time.RFC3339),
		LineItems:   make([]saleLineViewResponse, 0, len(view.LineItems)),
	}
	if view.UpdatedAt != nil {
		updated := view.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &updated
	}
	if view.Branch != nil {
		resp.Branch = &summaryResponse{ID: view.Branch.ID, Name: view.Branch.Name}
	}
	if view.Customer != nil {
		resp.Customer = &summaryResponse{ID: view.Customer.ID, Name: view.Customer.Name}
	}
	for _, item := range view.LineItems {
		resp.LineItems = append(resp.LineItems, saleLineViewResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("write response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrBranchNotFound),
		errors.Is(err, model.ErrCustomerNotFound),
		errors.Is(err, model.ErrProductNotFound):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, model.ErrSaleNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, model.ErrOptimisticLock):
		// a concurrent sale raced on the same stock; the client may retry
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.WithError(err).Error("request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}

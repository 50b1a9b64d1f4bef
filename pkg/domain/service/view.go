package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"salesrecords/pkg/domain/model"
)

// SaleView is the denormalized read projection of a sale. It surfaces
// exactly what was persisted at sale time; price and discount are never
// re-derived from the live product.
type SaleView struct {
	ID          uuid.UUID
	Discount    int
	IsCancelled bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	Branch      *BranchSummary
	Customer    *CustomerSummary
	LineItems   []SaleLineView
}

type SaleLineView struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

type BranchSummary struct {
	ID   uuid.UUID
	Name string
}

type CustomerSummary struct {
	ID   uuid.UUID
	Name string
}

func newSaleView(
	sale model.Sale,
	items []model.LineItemWithProduct,
	branches map[uuid.UUID]model.Branch,
	customers map[uuid.UUID]model.Customer,
) SaleView {
	view := SaleView{
		ID:          sale.ID,
		Discount:    sale.Discount,
		IsCancelled: sale.IsCancelled,
		IsActive:    sale.IsActive,
		CreatedAt:   sale.CreatedAt,
		UpdatedAt:   sale.UpdatedAt,
		LineItems:   make([]SaleLineView, 0, len(items)),
	}

	for _, item := range items {
		view.LineItems = append(view.LineItems, SaleLineView{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	if branch, ok := branches[sale.BranchID]; ok {
		view.Branch = &BranchSummary{ID: branch.ID, Name: branch.Name}
	}
	if customer, ok := customers[sale.CustomerID]; ok {
		view.Customer = &CustomerSummary{ID: customer.ID, Name: customer.Name}
	}
	return view
}

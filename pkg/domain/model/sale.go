package model

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrSaleNotFound = errors.New("sale not found")

type Sale struct {
	ID          uuid.UUID
	BranchID    uuid.UUID
	CustomerID  uuid.UUID
	Discount    int
	IsCancelled bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// SaleLineItem captures quantity and unit price as they were at sale time.
// UnitPrice is a copy, never a reference to the live product price.
type SaleLineItem struct {
	ID        uuid.UUID
	SaleID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// LineItemWithProduct is the store-side join used by reads: the product name
// is resolved by the store, empty when the product no longer exists.
type LineItemWithProduct struct {
	SaleLineItem
	ProductName string
}

type SaleRepository interface {
	NextID() (uuid.UUID, error)
	Add(ctx context.Context, sale *Sale) error
	Find(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindAll(ctx context.Context) ([]Sale, error)
	Update(ctx context.Context, sale *Sale) error
}

type SaleLineItemRepository interface {
	NextID() (uuid.UUID, error)
	AddBatch(ctx context.Context, items []SaleLineItem) error
	FindBySaleIDs(ctx context.Context, saleIDs []uuid.UUID) ([]LineItemWithProduct, error)
}

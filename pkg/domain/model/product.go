package model

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOptimisticLock  = errors.New("product was modified concurrently")
)

type Product struct {
	ID        uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	IsActive  bool
	Version   int
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// ProductRepository.Update performs an optimistic version check: the caller
// passes the product with the version it read, the store persists version+1
// and fails with ErrOptimisticLock when the stored version moved on.
type ProductRepository interface {
	NextID() (uuid.UUID, error)
	Add(ctx context.Context, product *Product) error
	Find(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context) ([]Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Product, error)
	Update(ctx context.Context, product *Product) error
}

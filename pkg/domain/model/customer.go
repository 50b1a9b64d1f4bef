package model

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrCustomerNotFound = errors.New("customer not found")

type Customer struct {
	ID        uuid.UUID
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type CustomerRepository interface {
	NextID() (uuid.UUID, error)
	Add(ctx context.Context, customer *Customer) error
	Find(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindAll(ctx context.Context) ([]Customer, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Customer, error)
	Update(ctx context.Context, customer *Customer) error
}

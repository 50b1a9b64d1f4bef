package model

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrBranchNotFound = errors.New("branch not found")

type Branch struct {
	ID        uuid.UUID
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type BranchRepository interface {
	NextID() (uuid.UUID, error)
	Add(ctx context.Context, branch *Branch) error
	Find(ctx context.Context, id uuid.UUID) (*Branch, error)
	FindAll(ctx context.Context) ([]Branch, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Branch, error)
	Update(ctx context.Context, branch *Branch) error
}

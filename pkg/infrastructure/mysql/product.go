package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"salesrecords/pkg/domain/model"
)

type ProductRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

var _ model.ProductRepository = &ProductRepository{}

type productRow struct {
	ID        uuid.UUID       `db:"id"`
	Name      string          `db:"name"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	Quantity  int             `db:"quantity"`
	IsActive  bool            `db:"is_active"`
	Version   int             `db:"version"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt *time.Time      `db:"updated_at"`
}

func (r productRow) toModel() model.Product {
	return model.Product{
		ID:        r.ID,
		Name:      r.Name,
		UnitPrice: r.UnitPrice,
		Quantity:  r.Quantity,
		IsActive:  r.IsActive,
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r *ProductRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *ProductRepository) Add(ctx context.Context, product *model.Product) error {
	_, err := ext(ctx, r.db).ExecContext(ctx, `
		INSERT INTO products (id, name, unit_price, quantity, is_active, version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		product.ID, product.Name, product.UnitPrice, product.Quantity,
		product.IsActive, product.Version, product.CreatedAt)
	return errors.Wrap(err, "insert product")
}

func (r *ProductRepository) Find(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var row productRow
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, `
		SELECT id, name, unit_price, quantity, is_active, version, created_at, updated_at
		FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find product")
	}
	product := row.toModel()
	return &product, nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	var rows []productRow
	err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, `
		SELECT id, name, unit_price, quantity, is_active, version, created_at, updated_at
		FROM products ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toModel())
	}
	return products, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Product, error) {
	result := make(map[uuid.UUID]model.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, name, unit_price, quantity, is_active, version, created_at, updated_at
		FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "build product batch query")
	}

	var rows []productRow
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "batch find products")
	}
	for _, row := range rows {
		result[row.ID] = row.toModel()
	}
	return result, nil
}

// Update replaces the product's mutable fields, guarded by the version the
// caller read. A concurrent writer bumps the version first and this update
// fails with ErrOptimisticLock instead of silently overwriting its stock
// decrement.
func (r *ProductRepository) Update(ctx context.Context, product *model.Product) error {
	now := time.Now().UTC()
	res, err := ext(ctx, r.db).ExecContext(ctx, `
		UPDATE products
		SET name = ?, unit_price = ?, quantity = ?, is_active = ?, version = ?, updated_at = ?
		WHERE id = ? AND version = ?`,
		product.Name, product.UnitPrice, product.Quantity, product.IsActive,
		product.Version+1, now, product.ID, product.Version)
	if err != nil {
		return errors.Wrap(err, "update product")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update product")
	}
	if affected == 0 {
		if _, findErr := r.Find(ctx, product.ID); findErr != nil {
			return findErr
		}
		return model.ErrOptimisticLock
	}
	product.Version++
	product.UpdatedAt = &now
	return nil
}

package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"salesrecords/pkg/domain/model"
)

type CustomerRepository struct {
	db *sqlx.DB
}

func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

var _ model.CustomerRepository = &CustomerRepository{}

type customerRow struct {
	ID        uuid.UUID  `db:"id"`
	Name      string     `db:"name"`
	IsActive  bool       `db:"is_active"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

func (r customerRow) toModel() model.Customer {
	return model.Customer{
		ID:        r.ID,
		Name:      r.Name,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r *CustomerRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *CustomerRepository) Add(ctx context.Context, customer *model.Customer) error {
	_, err := ext(ctx, r.db).ExecContext(ctx, `
		INSERT INTO customers (id, name, is_active, created_at)
		VALUES (?, ?, ?, ?)`,
		customer.ID, customer.Name, customer.IsActive, customer.CreatedAt)
	return errors.Wrap(err, "insert customer")
}

func (r *CustomerRepository) Find(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var row customerRow
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, `
		SELECT id, name, is_active, created_at, updated_at
		FROM customers WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCustomerNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find customer")
	}
	customer := row.toModel()
	return &customer, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]model.Customer, error) {
	var rows []customerRow
	err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, `
		SELECT id, name, is_active, created_at, updated_at
		FROM customers ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	customers := make([]model.Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, row.toModel())
	}
	return customers, nil
}

func (r *CustomerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Customer, error) {
	result := make(map[uuid.UUID]model.Customer, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, name, is_active, created_at, updated_at
		FROM customers WHERE id IN (?)`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "build customer batch query")
	}

	var rows []customerRow
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "batch find customers")
	}
	for _, row := range rows {
		result[row.ID] = row.toModel()
	}
	return result, nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *model.Customer) error {
	now := time.Now().UTC()
	res, err := ext(ctx, r.db).ExecContext(ctx, `
		UPDATE customers SET name = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		customer.Name, customer.IsActive, now, customer.ID)
	if err != nil {
		return errors.Wrap(err, "update customer")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update customer")
	}
	if affected == 0 {
		return model.ErrCustomerNotFound
	}
	customer.UpdatedAt = &now
	return nil
}

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

type SaleRepository struct {
	db *sqlx.DB
}

func NewSaleRepository(db *sqlx.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

var _ model.SaleRepository = &SaleRepository{}

type saleRow struct {
	ID          uuid.UUID  `db:"id"`
	BranchID    uuid.UUID  `db:"branch_id"`
	CustomerID  uuid.UUID  `db:"customer_id"`
	Discount    int        `db:"discount"`
	IsCancelled bool       `db:"is_cancelled"`
	IsActive    bool       `db:"is_active"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}

func (r saleRow) toModel() model.Sale {
	return model.Sale{
		ID:          r.ID,
		BranchID:    r.BranchID,
		CustomerID:  r.CustomerID,
		Discount:    r.Discount,
		IsCancelled: r.IsCancelled,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r *SaleRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *SaleRepository) Add(ctx context.Context, sale *model.Sale) error {
	_, err := ext(ctx, r.db).ExecContext(ctx, `
		INSERT INTO sales (id, branch_id, customer_id, discount, is_cancelled, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sale.ID, sale.BranchID, sale.CustomerID, sale.Discount,
		sale.IsCancelled, sale.IsActive, sale.CreatedAt)
	return errors.Wrap(err, "insert sale")
}

func (r *SaleRepository) Find(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var row saleRow
	err := sqlx.GetContext(ctx, ext(ctx, r.db), &row, `
		SELECT id, branch_id, customer_id, discount, is_cancelled, is_active, created_at, updated_at
		FROM sales WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrSaleNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find sale")
	}
	sale := row.toModel()
	return &sale, nil
}

func (r *SaleRepository) FindAll(ctx context.Context) ([]model.Sale, error) {
	var rows []saleRow
	err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, `
		SELECT id, branch_id, customer_id, discount, is_cancelled, is_active, created_at, updated_at
		FROM sales ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "list sales")
	}
	sales := make([]model.Sale, 0, len(rows))
	for _, row := range rows {
		sales = append(sales, row.toModel())
	}
	return sales, nil
}

func (r *SaleRepository) Update(ctx context.Context, sale *model.Sale) error {
	now := time.Now().UTC()
	res, err := ext(ctx, r.db).ExecContext(ctx, `
		UPDATE sales
		SET branch_id = ?, customer_id = ?, discount = ?, is_cancelled = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		sale.BranchID, sale.CustomerID, sale.Discount,
		sale.IsCancelled, sale.IsActive, now, sale.ID)
	if err != nil {
		return errors.Wrap(err, "update sale")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update sale")
	}
	if affected == 0 {
		return model.ErrSaleNotFound
	}
	sale.UpdatedAt = &now
	return nil
}

type SaleLineItemRepository struct {
	db *sqlx.DB
}

func NewSaleLineItemRepository(db *sqlx.DB) *SaleLineItemRepository {
	return &SaleLineItemRepository{db: db}
}

var _ model.SaleLineItemRepository = &SaleLineItemRepository{}

type lineItemRow struct {
	ID          uuid.UUID       `db:"id"`
	SaleID      uuid.UUID       `db:"sale_id"`
	ProductID   uuid.UUID       `db:"product_id"`
	Quantity    int             `db:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	ProductName string          `db:"product_name"`
}

func (r *SaleLineItemRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *SaleLineItemRepository) AddBatch(ctx context.Context, items []model.SaleLineItem) error {
	for _, item := range items {
		_, err := ext(ctx, r.db).ExecContext(ctx, `
			INSERT INTO sale_line_items (id, sale_id, product_id, quantity, unit_price)
			VALUES (?, ?, ?, ?, ?)`,
			item.ID, item.SaleID, item.ProductID, item.Quantity, item.UnitPrice)
		if err != nil {
			return errors.Wrap(err, "insert sale line item")
		}
	}
	return nil
}

// FindBySaleIDs returns the line items of all the given sales joined with
// the product name. The join is for the name only; quantity and unit price
// come from the line item itself.
func (r *SaleLineItemRepository) FindBySaleIDs(ctx context.Context, saleIDs []uuid.UUID) ([]model.LineItemWithProduct, error) {
	items := make([]model.LineItemWithProduct, 0)
	if len(saleIDs) == 0 {
		return items, nil
	}

	query, args, err := sqlx.In(`
		SELECT li.id, li.sale_id, li.product_id, li.quantity, li.unit_price,
		       COALESCE(p.name, '') AS product_name
		FROM sale_line_items li
		LEFT JOIN products p ON p.id = li.product_id
		WHERE li.sale_id IN (?)`, saleIDs)
	if err != nil {
		return nil, errors.Wrap(err, "build line item batch query")
	}

	var rows []lineItemRow
	if err := sqlx.SelectContext(ctx, ext(ctx, r.db), &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "batch find sale line items")
	}
	for _, row := range rows {
		items = append(items, model.LineItemWithProduct{
			SaleLineItem: model.SaleLineItem{
				ID:        row.ID,
				SaleID:    row.SaleID,
				ProductID: row.ProductID,
				Quantity:  row.Quantity,
				UnitPrice: row.UnitPrice,
			},
			ProductName: row.ProductName,
		})
	}
	return items, nil
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"salesrecords/pkg/domain/model"
)

// A single line item never consumes more than this many units, no matter
// what was requested.
const maxLineItemQuantity = 20

type SaleItemRequest struct {
	ProductID uuid.UUID
	Quantity  int
}

type CreateSaleRequest struct {
	BranchID   uuid.UUID
	CustomerID uuid.UUID
	Items      []SaleItemRequest
}

type UpdateSaleRequest struct {
	ID          uuid.UUID
	BranchID    uuid.UUID
	CustomerID  uuid.UUID
	Discount    int
	IsActive    bool
	IsCancelled bool
}

type SalesService interface {
	CreateSale(ctx context.Context, req CreateSaleRequest) (*model.Sale, error)
	ReadSale(ctx context.Context, saleID uuid.UUID) (*SaleView, error)
	ReadAllSales(ctx context.Context) ([]SaleView, error)
	UpdateSale(ctx context.Context, req UpdateSaleRequest) error
	DeleteSale(ctx context.Context, saleID uuid.UUID) error
}

func NewSalesService(
	branches model.BranchRepository,
	customers model.CustomerRepository,
	products model.ProductRepository,
	sales model.SaleRepository,
	lineItems model.SaleLineItemRepository,
	transactor model.Transactor,
) SalesService {
	return &salesService{
		branches:   branches,
		customers:  customers,
		products:   products,
		sales:      sales,
		lineItems:  lineItems,
		transactor: transactor,
	}
}

type salesService struct {
	branches   model.BranchRepository
	customers  model.CustomerRepository
	products   model.ProductRepository
	sales      model.SaleRepository
	lineItems  model.SaleLineItemRepository
	transactor model.Transactor
}

// CreateSale validates the referenced branch, customer and products, resolves
// each line against current stock and persists the sale, its line items and
// the stock decrements as one transaction. Requested quantities are clamped
// to stock and the per-line cap instead of failing; a zero-quantity line is
// recorded as such. Note that nothing guards two concurrent requests from
// reading the same pre-decrement stock beyond the optimistic version check
// the product repository applies on update.
func (s *salesService) CreateSale(ctx context.Context, req CreateSaleRequest) (*model.Sale, error) {
	if _, err := s.branches.Find(ctx, req.BranchID); err != nil {
		return nil, err
	}
	if _, err := s.customers.Find(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, 0, len(req.Items))
	seen := make(map[uuid.UUID]bool, len(req.Items))
	for _, item := range req.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			productIDs = append(productIDs, item.ProductID)
		}
	}

	fetched, err := s.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	for _, item := range req.Items {
		if _, ok := fetched[item.ProductID]; !ok {
			return nil, model.ErrProductNotFound
		}
	}

	// Working copies: when one product appears on several lines, later lines
	// see the stock already consumed by earlier ones.
	working := make(map[uuid.UUID]*model.Product, len(fetched))
	for id := range fetched {
		product := fetched[id]
		working[id] = &product
	}

	saleID, err := s.sales.NextID()
	if err != nil {
		return nil, err
	}

	sale := &model.Sale{
		ID:          saleID,
		BranchID:    req.BranchID,
		CustomerID:  req.CustomerID,
		Discount:    discountFor(len(req.Items)),
		IsCancelled: false,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}

	items := make([]model.SaleLineItem, 0, len(req.Items))
	for _, item := range req.Items {
		product := working[item.ProductID]
		quantity := clampQuantity(item.Quantity, product.Quantity)
		product.Quantity -= quantity

		itemID, err := s.lineItems.NextID()
		if err != nil {
			return nil, err
		}
		items = append(items, model.SaleLineItem{
			ID:        itemID,
			SaleID:    saleID,
			ProductID: product.ID,
			Quantity:  quantity,
			UnitPrice: product.UnitPrice,
		})
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, id := range productIDs {
			if err := s.products.Update(ctx, working[id]); err != nil {
				return err
			}
		}
		if err := s.sales.Add(ctx, sale); err != nil {
			return err
		}
		return s.lineItems.AddBatch(ctx, items)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *salesService) ReadSale(ctx context.Context, saleID uuid.UUID) (*SaleView, error) {
	sale, err := s.sales.Find(ctx, saleID)
	if err != nil {
		return nil, err
	}

	views, err := s.assembleViews(ctx, []model.Sale{*sale})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *salesService) ReadAllSales(ctx context.Context) ([]SaleView, error) {
	sales, err := s.sales.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.assembleViews(ctx, sales)
}

// assembleViews denormalizes sales into read views with three batched
// lookups, whatever the number of sales.
func (s *salesService) assembleViews(ctx context.Context, sales []model.Sale) ([]SaleView, error) {
	views := make([]SaleView, 0, len(sales))
	if len(sales) == 0 {
		return views, nil
	}

	branchIDs := make([]uuid.UUID, 0, len(sales))
	customerIDs := make([]uuid.UUID, 0, len(sales))
	saleIDs := make([]uuid.UUID, 0, len(sales))
	seenBranch := make(map[uuid.UUID]bool)
	seenCustomer := make(map[uuid.UUID]bool)
	for _, sale := range sales {
		if !seenBranch[sale.BranchID] {
			seenBranch[sale.BranchID] = true
			branchIDs = append(branchIDs, sale.BranchID)
		}
		if !seenCustomer[sale.CustomerID] {
			seenCustomer[sale.CustomerID] = true
			customerIDs = append(customerIDs, sale.CustomerID)
		}
		saleIDs = append(saleIDs, sale.ID)
	}

	// The three lookups are independent point-in-time reads; run them
	// concurrently and fail together on the first store error.
	var (
		branches  map[uuid.UUID]model.Branch
		customers map[uuid.UUID]model.Customer
		items     []model.LineItemWithProduct
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		branches, err = s.branches.FindByIDs(gctx, branchIDs)
		return err
	})
	g.Go(func() error {
		var err error
		customers, err = s.customers.FindByIDs(gctx, customerIDs)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.lineItems.FindBySaleIDs(gctx, saleIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	grouped := make(map[uuid.UUID][]model.LineItemWithProduct, len(sales))
	for _, item := range items {
		grouped[item.SaleID] = append(grouped[item.SaleID], item)
	}

	for _, sale := range sales {
		views = append(views, newSaleView(sale, grouped[sale.ID], branches, customers))
	}
	return views, nil
}

func (s *salesService) UpdateSale(ctx context.Context, req UpdateSaleRequest) error {
	sale, err := s.sales.Find(ctx, req.ID)
	if err != nil {
		return err
	}

	sale.BranchID = req.BranchID
	sale.CustomerID = req.CustomerID
	sale.Discount = req.Discount
	sale.IsActive = req.IsActive
	sale.IsCancelled = req.IsCancelled

	return s.sales.Update(ctx, sale)
}

// DeleteSale deactivates the sale; records are never removed.
func (s *salesService) DeleteSale(ctx context.Context, saleID uuid.UUID) error {
	sale, err := s.sales.Find(ctx, saleID)
	if err != nil {
		return err
	}

	sale.IsActive = false
	return s.sales.Update(ctx, sale)
}

// clampQuantity resolves a requested quantity down to what the line may
// consume: never more than the per-line cap, never more than is on hand.
func clampQuantity(requested, stock int) int {
	quantity := requested
	if quantity > maxLineItemQuantity {
		quantity = maxLineItemQuantity
	}
	if quantity > stock {
		quantity = stock
	}
	return quantity
}

// discountFor picks the sale-wide discount percentage from the number of
// line items in the request. Counts above twenty keep the top tier.
func discountFor(lineItemCount int) int {
	switch {
	case lineItemCount >= 10:
		return 20
	case lineItemCount >= 4:
		return 10
	default:
		return 0
	}
}

package service

import (
	"errors"
	"fmt"

	"github.com/dussanclaurer/Licoreria/internal/fefo"
	"github.com/dussanclaurer/Licoreria/internal/model"
	"github.com/dussanclaurer/Licoreria/internal/repository"
	"github.com/dussanclaurer/Licoreria/internal/ws"
	"github.com/dussanclaurer/Licoreria/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

// InsufficientStockError carries the product identity so the boundary layer
// can tell the cashier which line failed.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s", e.ProductName)
}

type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid4"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type RegisterSaleRequest struct {
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=CASH CARD QR"`
}

// SaleService registers sales: gate on an open cash session, allocate stock
// FEFO per line, deduct batches with their audit entries, and persist the
// priced sale — all as one transaction.
type SaleService interface {
	RegisterSale(req *RegisterSaleRequest, userID uuid.UUID, userName string) (*model.Sale, error)
	GetSaleByID(id uuid.UUID) (*model.Sale, error)
}

type saleService struct {
	products repository.ProductRepository
	batches  repository.BatchRepository
	sales    repository.SaleRepository
	gate     CashSessionService
	db       Transactor
	wsHub    *ws.Hub
}

func NewSaleService(
	products repository.ProductRepository,
	batches repository.BatchRepository,
	sales repository.SaleRepository,
	gate CashSessionService,
	db Transactor,
	hub *ws.Hub,
) SaleService {
	return &saleService{
		products: products,
		batches:  batches,
		sales:    sales,
		gate:     gate,
		db:       db,
		wsHub:    hub,
	}
}

func (s *saleService) RegisterSale(req *RegisterSaleRequest, userID uuid.UUID, userName string) (*model.Sale, error) {
	// 1. Validate request shape
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Session gate: fail fast before touching stock
	session, err := s.gate.RequireOpen(userID)
	if err != nil {
		return nil, err
	}

	// Bulk sales get their own audit tag
	reason := "Sale"
	if len(req.Items) > 1 {
		reason = "Bulk Sale"
	}

	sale := &model.Sale{
		CashSessionID: &session.ID,
		PaymentMethod: req.PaymentMethod,
	}
	sale.CreatedBy = userID.String()
	sale.UpdatedBy = userID.String()

	// 3. One transaction wraps every line: either all deductions, audit
	// entries and the sale itself commit, or none of them do. Concurrent
	// sales serialize on the locked batch rows per product.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range req.Items {
			productID, err := uuid.Parse(item.ProductID)
			if err != nil {
				return ErrProductNotFound
			}

			product, err := s.products.FindByIDTx(tx, productID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrProductNotFound
				}
				return err
			}

			// FEFO-ordered, locked for the rest of this transaction
			batches, err := s.batches.FindForUpdate(tx, product.ID)
			if err != nil {
				return err
			}

			// Expired batches are spoilage, not sellable stock; they stay
			// visible to the alerts endpoint instead.
			available := make([]fefo.BatchStock, 0, len(batches))
			totalStock := 0
			for _, b := range batches {
				if b.IsExpired() {
					continue
				}
				available = append(available, fefo.BatchStock{BatchID: b.ID, Available: b.CurrentStock})
				totalStock += b.CurrentStock
			}

			if totalStock < item.Quantity {
				return &InsufficientStockError{ProductName: product.Name}
			}

			plan, err := fefo.Plan(item.Quantity, available)
			if err != nil {
				if errors.Is(err, fefo.ErrInsufficientStock) {
					return &InsufficientStockError{ProductName: product.Name}
				}
				return err
			}

			if err := s.batches.ApplyDeductions(tx, plan, reason); err != nil {
				return err
			}

			// Line priced at the product's current catalog price
			sale.Lines = append(sale.Lines, model.NewSaleLine(product, item.Quantity))
		}

		// 4. Finalize and persist the sale with its lines
		sale.Total = sale.ComputeTotal()
		return s.sales.Create(tx, sale)
	})
	if err != nil {
		return nil, err
	}

	if s.wsHub != nil {
		go s.wsHub.Publish(map[string]interface{}{
			"type":    "stock_update",
			"action":  "sale_registered",
			"sale_id": sale.ID,
			"total":   sale.Total,
			"message": fmt.Sprintf("%s registered a sale of %d item(s)", userName, len(sale.Lines)),
		})
	}

	return sale, nil
}

func (s *saleService) GetSaleByID(id uuid.UUID) (*model.Sale, error) {
	return s.sales.FindByID(id)
}

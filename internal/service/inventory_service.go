package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/dussanclaurer/Licoreria/internal/model"
	"github.com/dussanclaurer/Licoreria/internal/repository"
	"github.com/dussanclaurer/Licoreria/internal/ws"
	"github.com/dussanclaurer/Licoreria/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AddBatchRequest struct {
	ProductID      string `json:"product_id" validate:"required,uuid4"`
	Quantity       int    `json:"quantity" validate:"required,gt=0"`
	ExpirationDate string `json:"expiration_date" validate:"required"` // RFC 3339
}

// InventoryService owns the catalog and restock side of the stock ledger.
// Sale-side deductions live in SaleService.
type InventoryService interface {
	CreateProduct(req *model.Product, userID string) error
	UpdateProduct(id uuid.UUID, req *model.Product, userID string) (*model.Product, error)
	DeleteProduct(id uuid.UUID, userID string) error
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)

	AddBatch(req *AddBatchRequest, userID, userName string) (*model.Batch, error)
	GetExpiringBatches(days int) ([]model.Batch, error)
	GetInventoryLogs(start, end time.Time, productID *uuid.UUID) ([]repository.InventoryLogEntry, error)
}

type inventoryService struct {
	products repository.ProductRepository
	batches  repository.BatchRepository
	logs     repository.InventoryLogRepository
	db       Transactor
	wsHub    *ws.Hub
}

func NewInventoryService(
	products repository.ProductRepository,
	batches repository.BatchRepository,
	logs repository.InventoryLogRepository,
	db Transactor,
	hub *ws.Hub,
) InventoryService {
	return &inventoryService{
		products: products,
		batches:  batches,
		logs:     logs,
		db:       db,
		wsHub:    hub,
	}
}

func (s *inventoryService) CreateProduct(req *model.Product, userID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if req.Price.IsNegative() {
		return errors.New("price cannot be negative")
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID

	return s.products.Create(req)
}

func (s *inventoryService) UpdateProduct(id uuid.UUID, req *model.Product, userID string) (*model.Product, error) {
	existing, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	existing.Name = req.Name
	existing.Price = req.Price
	existing.Description = req.Description
	existing.ImageURL = req.ImageURL
	existing.MinStock = req.MinStock
	existing.UpdatedBy = userID

	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	if err := s.products.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *inventoryService) DeleteProduct(id uuid.UUID, userID string) error {
	if _, err := s.products.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.products.Delete(id, userID)
}

func (s *inventoryService) GetAllProducts() ([]model.Product, error) {
	return s.products.FindAll()
}

func (s *inventoryService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// AddBatch registers a restock: a new batch plus its positive audit entry,
// atomically.
func (s *inventoryService) AddBatch(req *AddBatchRequest, userID, userName string) (*model.Batch, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	expiration, err := time.Parse(time.RFC3339, req.ExpirationDate)
	if err != nil {
		return nil, errors.New("invalid expiration_date, use RFC 3339 (e.g. 2026-12-31T00:00:00Z)")
	}

	product, err := s.products.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	batch := &model.Batch{
		ProductID:      product.ID,
		InitialStock:   req.Quantity,
		CurrentStock:   req.Quantity,
		ExpirationDate: expiration,
	}
	batch.CreatedBy = userID
	batch.UpdatedBy = userID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.batches.CreateWithLog(tx, batch, "Restock")
	})
	if err != nil {
		return nil, err
	}

	if s.wsHub != nil {
		go s.wsHub.Publish(map[string]interface{}{
			"type":    "stock_update",
			"action":  "batch_added",
			"product": map[string]interface{}{"id": product.ID, "name": product.Name},
			"batch": map[string]interface{}{
				"id":              batch.ID,
				"quantity":        batch.CurrentStock,
				"expiration_date": batch.ExpirationDate,
			},
			"message": fmt.Sprintf("%s restocked %d units of '%s'", userName, req.Quantity, product.Name),
		})
	}

	return batch, nil
}

func (s *inventoryService) GetExpiringBatches(days int) ([]model.Batch, error) {
	if days <= 0 {
		days = 30
	}
	return s.batches.FindExpiringSoon(days)
}

func (s *inventoryService) GetInventoryLogs(start, end time.Time, productID *uuid.UUID) ([]repository.InventoryLogEntry, error) {
	return s.logs.FindByDateRange(start, end, productID)
}

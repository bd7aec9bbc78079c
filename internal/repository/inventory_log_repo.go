package repository

import (
	"time"

	"github.com/dussanclaurer/Licoreria/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryLogEntry is the audit read model: one stock change joined with its
// batch's product for display.
type InventoryLogEntry struct {
	ID          uuid.UUID `json:"id"`
	BatchID     uuid.UUID `json:"batch_id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"` // Negative for sales, positive for restock
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
}

type InventoryLogRepository interface {
	// FindByDateRange lists audit entries in the window, newest first,
	// optionally restricted to one product. Read-only: entries are only ever
	// written by the batch repository alongside the stock change itself.
	FindByDateRange(start, end time.Time, productID *uuid.UUID) ([]InventoryLogEntry, error)
}

type inventoryLogRepo struct {
	db *gorm.DB
}

func NewInventoryLogRepo(db *gorm.DB) InventoryLogRepository {
	return &inventoryLogRepo{db}
}

func (r *inventoryLogRepo) FindByDateRange(start, end time.Time, productID *uuid.UUID) ([]InventoryLogEntry, error) {
	query := r.db.Model(&model.InventoryLog{}).
		Select(`inventory_logs.id, inventory_logs.batch_id, products.id AS product_id,
			products.name AS product_name, inventory_logs.quantity,
			inventory_logs.reason, inventory_logs.created_at`).
		Joins("JOIN batches ON batches.id = inventory_logs.batch_id").
		Joins("JOIN products ON products.id = batches.product_id").
		Where("inventory_logs.created_at BETWEEN ? AND ?", start, end)

	if productID != nil {
		query = query.Where("batches.product_id = ?", *productID)
	}

	rows, err := query.Order("inventory_logs.created_at DESC").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []InventoryLogEntry
	for rows.Next() {
		var e InventoryLogEntry
		if err := rows.Scan(&e.ID, &e.BatchID, &e.ProductID, &e.ProductName,
			&e.Quantity, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, nil
}

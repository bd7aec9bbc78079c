package repository

import (
	"errors"
	"time"

	"github.com/dussanclaurer/Licoreria/internal/fefo"
	"github.com/dussanclaurer/Licoreria/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrBatchNotFound means an allocation plan referenced a batch that no longer
// exists (or no longer holds the planned stock). Always fatal to the current
// sale attempt; the surrounding transaction rolls back.
var ErrBatchNotFound = errors.New("batch not found")

type BatchRepository interface {
	// CreateWithLog inserts a restock batch plus its positive-delta audit
	// entry in the caller's transaction.
	CreateWithLog(tx *gorm.DB, batch *model.Batch, reason string) error

	// FindByProductID returns the product's batches in FEFO order:
	// expiration date ascending, batch ID as the stable tie-breaker.
	FindByProductID(productID uuid.UUID) ([]model.Batch, error)

	// FindForUpdate is FindByProductID with row locks, for use inside a sale
	// transaction. Locking the batch rows serializes check-and-update per
	// product so concurrent sales cannot over-deduct.
	FindForUpdate(tx *gorm.DB, productID uuid.UUID) ([]model.Batch, error)

	// ApplyDeductions applies a FEFO plan: for each step it decrements the
	// batch stock and appends one inventory log row with the negative delta
	// and the given reason. All writes run in the caller's transaction.
	ApplyDeductions(tx *gorm.DB, plan []fefo.Deduction, reason string) error

	// FindExpiringSoon lists batches with remaining stock whose expiration
	// falls within the threshold (used for spoilage alerts).
	FindExpiringSoon(days int) ([]model.Batch, error)
}

type batchRepo struct {
	db *gorm.DB
}

func NewBatchRepo(db *gorm.DB) BatchRepository {
	return &batchRepo{db}
}

func (r *batchRepo) CreateWithLog(tx *gorm.DB, batch *model.Batch, reason string) error {
	if err := tx.Create(batch).Error; err != nil {
		return err
	}
	entry := &model.InventoryLog{
		BatchID:  batch.ID,
		Quantity: batch.CurrentStock,
		Reason:   reason,
	}
	return tx.Create(entry).Error
}

func (r *batchRepo) FindByProductID(productID uuid.UUID) ([]model.Batch, error) {
	var batches []model.Batch
	err := r.db.
		Where("product_id = ?", productID).
		Order("expiration_date ASC, id ASC"). // FEFO priority
		Find(&batches).Error
	return batches, err
}

func (r *batchRepo) FindForUpdate(tx *gorm.DB, productID uuid.UUID) ([]model.Batch, error) {
	var batches []model.Batch
	err := tx.Set("gorm:query_option", "FOR UPDATE").
		Where("product_id = ?", productID).
		Order("expiration_date ASC, id ASC").
		Find(&batches).Error
	return batches, err
}

func (r *batchRepo) ApplyDeductions(tx *gorm.DB, plan []fefo.Deduction, reason string) error {
	for _, step := range plan {
		// Guarded decrement: refuses to drive stock below zero even if the
		// planned snapshot went stale.
		res := tx.Model(&model.Batch{}).
			Where("id = ? AND current_stock >= ?", step.BatchID, step.Quantity).
			UpdateColumn("current_stock", gorm.Expr("current_stock - ?", step.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBatchNotFound
		}

		entry := &model.InventoryLog{
			BatchID:  step.BatchID,
			Quantity: -step.Quantity,
			Reason:   reason,
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *batchRepo) FindExpiringSoon(days int) ([]model.Batch, error) {
	threshold := time.Now().AddDate(0, 0, days)

	var batches []model.Batch
	err := r.db.Preload("Product").
		Where("expiration_date <= ? AND current_stock > 0", threshold).
		Order("expiration_date ASC").
		Find(&batches).Error
	return batches, err
}

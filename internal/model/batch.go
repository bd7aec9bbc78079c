package model

import (
	"time"

	"github.com/google/uuid"
)

// Batch is a discrete receipt of stock for one product, carrying its own
// expiration date. Stock is only ever changed through the batch repository
// (stock update + inventory log in one transaction), and batches are never
// deleted: a batch at stock 0 stays around for the audit trail.
type Batch struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`

	InitialStock   int       `gorm:"not null" json:"initial_stock"`
	CurrentStock   int       `gorm:"not null;default:0" json:"current_stock" validate:"gte=0"`
	ExpirationDate time.Time `gorm:"not null;index" json:"expiration_date" validate:"required"`
}

// IsExpired reports whether the batch's expiration date has passed
func (b *Batch) IsExpired() bool {
	return b.ExpirationDate.Before(time.Now())
}

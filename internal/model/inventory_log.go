package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryLog is one entry in the append-only stock audit trail. Quantity is
// signed: negative for sale deductions, positive for restocks. Entries are
// never updated or deleted, so this model deliberately carries no soft-delete
// or updated-at columns.
type InventoryLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	BatchID   uuid.UUID `gorm:"type:uuid;not null;index" json:"batch_id"`
	Batch     *Batch    `gorm:"foreignKey:BatchID" json:"batch,omitempty"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Reason    string    `gorm:"type:varchar(255);not null" json:"reason"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (log *InventoryLog) BeforeCreate(tx *gorm.DB) (err error) {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	return
}

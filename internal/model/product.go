package model

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Name        string          `gorm:"type:varchar(255);not null" json:"name" validate:"required,min=3"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	ImageURL    string          `gorm:"type:varchar(500)" json:"image_url,omitempty"`
	MinStock    int             `gorm:"not null;default:10" json:"min_stock" validate:"gte=0"`

	// Relations
	Batches []Batch `json:"batches,omitempty"`
}

// TotalStock sums the remaining stock across all loaded batches.
// Only meaningful when Batches has been preloaded.
func (p *Product) TotalStock() int {
	total := 0
	for _, b := range p.Batches {
		total += b.CurrentStock
	}
	return total
}

// IsLowStock reports whether remaining stock is below the product's threshold
func (p *Product) IsLowStock() bool {
	return p.TotalStock() < p.MinStock
}

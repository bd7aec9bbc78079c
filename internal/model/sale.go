package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at the register
const (
	PaymentCash = "CASH"
	PaymentCard = "CARD"
	PaymentQR   = "QR"
)

// Sale is the immutable record of one registered sale. It and its lines are
// created once at registration time and never updated afterwards.
type Sale struct {
	BaseModel
	CashSessionID *uuid.UUID   `gorm:"type:uuid;index" json:"cash_session_id,omitempty"`
	CashSession   *CashSession `gorm:"foreignKey:CashSessionID" json:"cash_session,omitempty"`

	PaymentMethod string          `gorm:"type:varchar(10);not null" json:"payment_method" validate:"required,oneof=CASH CARD QR"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`

	Lines []SaleLine `gorm:"foreignKey:SaleID" json:"lines"`
}

// SaleLine snapshots the product name and unit price at the time of sale,
// so later catalog changes never rewrite history.
type SaleLine struct {
	BaseModel
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}

// NewSaleLine builds a line from the product's current catalog price.
// Subtotal = quantity * unit price, in decimal arithmetic.
func NewSaleLine(product *Product, quantity int) SaleLine {
	return SaleLine{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   product.Price,
		Subtotal:    product.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

// ComputeTotal sums the line subtotals. The persisted Total column is this
// value snapshotted at registration; reconstructing a Sale from its stored
// lines reproduces the same figure.
func (s *Sale) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.Subtotal)
	}
	return total
}

package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotalSumsLineSubtotals(t *testing.T) {
	beer := &Product{Name: "Beer", Price: decimal.RequireFromString("10.00")}
	rum := &Product{Name: "Rum", Price: decimal.RequireFromString("5.00")}

	sale := &Sale{
		PaymentMethod: PaymentCash,
		Lines: []SaleLine{
			NewSaleLine(beer, 2),
			NewSaleLine(rum, 1),
		},
	}

	assert.True(t, sale.ComputeTotal().Equal(decimal.RequireFromString("25.00")),
		"expected 25.00, got %s", sale.ComputeTotal())
}

func TestComputeTotalRoundTripsFromPersistedLines(t *testing.T) {
	beer := &Product{Name: "Beer", Price: decimal.RequireFromString("10.00")}
	rum := &Product{Name: "Rum", Price: decimal.RequireFromString("5.00")}

	original := &Sale{
		PaymentMethod: PaymentCard,
		Lines:         []SaleLine{NewSaleLine(beer, 2), NewSaleLine(rum, 1)},
	}
	original.Total = original.ComputeTotal()

	// Rebuild the sale from its stored columns only, the way a report or a
	// receipt reprint would.
	restored := &Sale{PaymentMethod: original.PaymentMethod}
	for _, line := range original.Lines {
		restored.Lines = append(restored.Lines, SaleLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal,
		})
	}

	assert.True(t, restored.ComputeTotal().Equal(original.Total))
}

func TestNewSaleLineSnapshotsCurrentPrice(t *testing.T) {
	product := &Product{Name: "Aguardiente", Price: decimal.RequireFromString("32.50")}

	line := NewSaleLine(product, 3)
	require.True(t, line.Subtotal.Equal(decimal.RequireFromString("97.50")))

	// A later catalog price change must not rewrite the line
	product.Price = decimal.RequireFromString("40.00")
	assert.True(t, line.UnitPrice.Equal(decimal.RequireFromString("32.50")))
	assert.True(t, line.Subtotal.Equal(decimal.RequireFromString("97.50")))
}

func TestNoFloatDriftOnManySmallLines(t *testing.T) {
	product := &Product{Name: "Candy", Price: decimal.RequireFromString("0.10")}

	sale := &Sale{}
	for i := 0; i < 100; i++ {
		sale.Lines = append(sale.Lines, NewSaleLine(product, 1))
	}

	// 100 * 0.10 must be exactly 10.00
	assert.True(t, sale.ComputeTotal().Equal(decimal.RequireFromString("10.00")))
}

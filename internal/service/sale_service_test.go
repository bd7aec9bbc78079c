package service

import (
	"testing"
	"time"

	"github.com/dussanclaurer/Licoreria/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saleFixture struct {
	svc      SaleService
	gate     CashSessionService
	products *fakeProductRepo
	batches  *fakeBatchRepo
	sales    *fakeSaleRepo
	userID   uuid.UUID
}

func newSaleFixture(t *testing.T, openSession bool, products ...*model.Product) *saleFixture {
	t.Helper()

	productRepo := newFakeProductRepo(products...)
	batchRepo := &fakeBatchRepo{}
	saleRepo := &fakeSaleRepo{}
	sessionRepo := &fakeSessionRepo{}
	gate := NewCashSessionService(sessionRepo, fakeTransactor{})

	userID := uuid.New()
	if openSession {
		_, err := gate.Open(userID, decimal.RequireFromString("100.00"), userID.String())
		require.NoError(t, err)
	}

	return &saleFixture{
		svc:      NewSaleService(productRepo, batchRepo, saleRepo, gate, fakeTransactor{}, nil),
		gate:     gate,
		products: productRepo,
		batches:  batchRepo,
		sales:    saleRepo,
		userID:   userID,
	}
}

func (f *saleFixture) addBatch(productID uuid.UUID, stock int, expires time.Time) uuid.UUID {
	batch := &model.Batch{
		ProductID:      productID,
		InitialStock:   stock,
		CurrentStock:   stock,
		ExpirationDate: expires,
	}
	batch.ID = uuid.New()
	f.batches.batches = append(f.batches.batches, batch)
	return batch.ID
}

func beerProduct() *model.Product {
	return &model.Product{Name: "Test Beer", Price: decimal.RequireFromString("10.00"), MinStock: 5}
}

func saleRequest(productID uuid.UUID, qty int) *RegisterSaleRequest {
	return &RegisterSaleRequest{
		Items:         []SaleItemRequest{{ProductID: productID.String(), Quantity: qty}},
		PaymentMethod: model.PaymentCash,
	}
}

func TestRegisterSaleDeductsFEFO(t *testing.T) {
	beer := beerProduct()
	f := newSaleFixture(t, true, beer)

	soon := time.Now().AddDate(0, 1, 0)
	later := time.Now().AddDate(0, 2, 0)
	// Created in reverse order on purpose: allocation must follow
	// expiration, not insertion
	b2 := f.addBatch(beer.ID, 20, later)
	b1 := f.addBatch(beer.ID, 10, soon)

	sale, err := f.svc.RegisterSale(saleRequest(beer.ID, 15), f.userID, "Cashier")
	require.NoError(t, err)

	// 10 from the sooner batch, 5 from the later one
	assert.Equal(t, 0, f.batches.stockOf(b1))
	assert.Equal(t, 15, f.batches.stockOf(b2))

	// Audit symmetry: one negative entry per affected batch, in plan order
	require.Len(t, f.batches.logs, 2)
	assert.Equal(t, b1, f.batches.logs[0].BatchID)
	assert.Equal(t, -10, f.batches.logs[0].Quantity)
	assert.Equal(t, b2, f.batches.logs[1].BatchID)
	assert.Equal(t, -5, f.batches.logs[1].Quantity)
	assert.Equal(t, "Sale", f.batches.logs[0].Reason)

	// Sale priced at catalog price
	require.Len(t, sale.Lines, 1)
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("150.00")))
	assert.Equal(t, beer.Name, sale.Lines[0].ProductName)
}

func TestRegisterSaleInsufficientStockIsSideEffectFree(t *testing.T) {
	beer := beerProduct()
	f := newSaleFixture(t, true, beer)
	b1 := f.addBatch(beer.ID, 10, time.Now().AddDate(0, 1, 0))

	_, err := f.svc.RegisterSale(saleRequest(beer.ID, 15), f.userID, "Cashier")

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Test Beer", insufficient.ProductName)

	// No stock change, no audit entry, no sale
	assert.Equal(t, 10, f.batches.stockOf(b1))
	assert.Empty(t, f.batches.logs)
	assert.Empty(t, f.sales.sales)
}

func TestRegisterSaleExactExhaustion(t *testing.T) {
	beer := beerProduct()
	f := newSaleFixture(t, true, beer)
	b1 := f.addBatch(beer.ID, 10, time.Now().AddDate(0, 1, 0))
	b2 := f.addBatch(beer.ID, 20, time.Now().AddDate(0, 2, 0))

	_, err := f.svc.RegisterSale(saleRequest(beer.ID, 30), f.userID, "Cashier")
	require.NoError(t, err)

	assert.Equal(t, 0, f.batches.stockOf(b1))
	assert.Equal(t, 0, f.batches.stockOf(b2))
}

func TestRegisterSaleRequiresOpenSession(t *testing.T) {
	beer := beerProduct()
	f := newSaleFixture(t, false, beer)
	b1 := f.addBatch(beer.ID, 10, time.Now().AddDate(0, 1, 0))

	_, err := f.svc.RegisterSale(saleRequest(beer.ID, 5), f.userID, "Cashier")

	assert.ErrorIs(t, err, ErrNoOpenSession)
	assert.Equal(t, 10, f.batches.stockOf(b1))
	assert.Empty(t, f.batches.logs)
	assert.Empty(t, f.sales.sales)
}

func TestRegisterSaleUnknownProduct(t *testing.T) {
	f := newSaleFixture(t, true)

	_, err := f.svc.RegisterSale(saleRequest(uuid.New(), 1), f.userID, "Cashier")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestRegisterSaleExcludesExpiredBatches(t *testing.T) {
	beer := beerProduct()
	f := newSaleFixture(t, true, beer)
	expired := f.addBatch(beer.ID, 5, time.Now().AddDate(0, 0, -1))
	fresh := f.addBatch(beer.ID, 10, time.Now().AddDate(0, 1, 0))

	// Expired stock does not count toward availability
	_, err := f.svc.RegisterSale(saleRequest(beer.ID, 12), f.userID, "Cashier")
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	// And the expired batch is never drawn from
	_, err = f.svc.RegisterSale(saleRequest(beer.ID, 8), f.userID, "Cashier")
	require.NoError(t, err)
	assert.Equal(t, 5, f.batches.stockOf(expired))
	assert.Equal(t, 2, f.batches.stockOf(fresh))
}

func TestRegisterSaleBulkTagsAuditReason(t *testing.T) {
	beer := beerProduct()
	rum := &model.Product{Name: "Rum", Price: decimal.RequireFromString("5.00"), MinStock: 5}
	f := newSaleFixture(t, true, beer, rum)
	f.addBatch(beer.ID, 10, time.Now().AddDate(0, 1, 0))
	f.addBatch(rum.ID, 10, time.Now().AddDate(0, 1, 0))

	req := &RegisterSaleRequest{
		Items: []SaleItemRequest{
			{ProductID: beer.ID.String(), Quantity: 2},
			{ProductID: rum.ID.String(), Quantity: 1},
		},
		PaymentMethod: model.PaymentQR,
	}

	sale, err := f.svc.RegisterSale(req, f.userID, "Cashier")
	require.NoError(t, err)

	require.Len(t, f.batches.logs, 2)
	for _, entry := range f.batches.logs {
		assert.Equal(t, "Bulk Sale", entry.Reason)
	}

	// Totals across lines: 2*10.00 + 1*5.00
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("25.00")))
	assert.Len(t, sale.Lines, 2)
}

func TestRegisterSalePersistsSaleWithSessionLink(t *testing.T) {
	beer := beerProduct()
	f := newSaleFixture(t, true, beer)
	f.addBatch(beer.ID, 10, time.Now().AddDate(0, 1, 0))

	sale, err := f.svc.RegisterSale(saleRequest(beer.ID, 3), f.userID, "Cashier")
	require.NoError(t, err)

	require.Len(t, f.sales.sales, 1)
	persisted := f.sales.sales[0]
	assert.Equal(t, sale.ID, persisted.ID)
	require.NotNil(t, persisted.CashSessionID)

	open, err := f.gate.RequireOpen(f.userID)
	require.NoError(t, err)
	assert.Equal(t, open.ID, *persisted.CashSessionID)
}

func TestRegisterSaleRejectsInvalidPaymentMethod(t *testing.T) {
	beer := beerProduct()
	f := newSaleFixture(t, true, beer)
	f.addBatch(beer.ID, 10, time.Now().AddDate(0, 1, 0))

	req := saleRequest(beer.ID, 1)
	req.PaymentMethod = "CHECK"

	_, err := f.svc.RegisterSale(req, f.userID, "Cashier")
	assert.Error(t, err)
	assert.Empty(t, f.batches.logs)
}

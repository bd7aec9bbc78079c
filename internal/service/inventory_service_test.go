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

func newInventoryFixture(products ...*model.Product) (InventoryService, *fakeBatchRepo) {
	batchRepo := &fakeBatchRepo{}
	svc := NewInventoryService(newFakeProductRepo(products...), batchRepo, &fakeInventoryLogRepo{}, fakeTransactor{}, nil)
	return svc, batchRepo
}

func TestAddBatchCreatesRestockLog(t *testing.T) {
	beer := beerProduct()
	svc, batches := newInventoryFixture(beer)

	expires := time.Now().AddDate(0, 6, 0).UTC().Truncate(time.Second)
	batch, err := svc.AddBatch(&AddBatchRequest{
		ProductID:      beer.ID.String(),
		Quantity:       24,
		ExpirationDate: expires.Format(time.RFC3339),
	}, "admin-id", "Admin")
	require.NoError(t, err)

	assert.Equal(t, 24, batch.InitialStock)
	assert.Equal(t, 24, batch.CurrentStock)
	assert.True(t, batch.ExpirationDate.Equal(expires))

	// Restock leaves a positive audit entry
	require.Len(t, batches.logs, 1)
	assert.Equal(t, batch.ID, batches.logs[0].BatchID)
	assert.Equal(t, 24, batches.logs[0].Quantity)
	assert.Equal(t, "Restock", batches.logs[0].Reason)
}

func TestAddBatchUnknownProduct(t *testing.T) {
	svc, batches := newInventoryFixture()

	_, err := svc.AddBatch(&AddBatchRequest{
		ProductID:      uuid.New().String(),
		Quantity:       10,
		ExpirationDate: time.Now().AddDate(0, 1, 0).Format(time.RFC3339),
	}, "admin-id", "Admin")

	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Empty(t, batches.batches)
}

func TestAddBatchRejectsBadExpiration(t *testing.T) {
	beer := beerProduct()
	svc, batches := newInventoryFixture(beer)

	_, err := svc.AddBatch(&AddBatchRequest{
		ProductID:      beer.ID.String(),
		Quantity:       10,
		ExpirationDate: "31/12/2026",
	}, "admin-id", "Admin")

	assert.Error(t, err)
	assert.Empty(t, batches.batches)
}

func TestAddBatchRejectsNonPositiveQuantity(t *testing.T) {
	beer := beerProduct()
	svc, _ := newInventoryFixture(beer)

	_, err := svc.AddBatch(&AddBatchRequest{
		ProductID:      beer.ID.String(),
		Quantity:       0,
		ExpirationDate: time.Now().AddDate(0, 1, 0).Format(time.RFC3339),
	}, "admin-id", "Admin")

	assert.Error(t, err)
}

func TestGetExpiringBatchesDefaultsWindow(t *testing.T) {
	beer := beerProduct()
	svc, batches := newInventoryFixture(beer)

	near := &model.Batch{ProductID: beer.ID, InitialStock: 5, CurrentStock: 5, ExpirationDate: time.Now().AddDate(0, 0, 10)}
	near.ID = uuid.New()
	far := &model.Batch{ProductID: beer.ID, InitialStock: 5, CurrentStock: 5, ExpirationDate: time.Now().AddDate(1, 0, 0)}
	far.ID = uuid.New()
	drained := &model.Batch{ProductID: beer.ID, InitialStock: 5, CurrentStock: 0, ExpirationDate: time.Now().AddDate(0, 0, 5)}
	drained.ID = uuid.New()
	batches.batches = append(batches.batches, near, far, drained)

	result, err := svc.GetExpiringBatches(0)
	require.NoError(t, err)

	// Only the near batch with remaining stock alerts
	require.Len(t, result, 1)
	assert.Equal(t, near.ID, result[0].ID)
}

func TestUpdateProductNotFound(t *testing.T) {
	svc, _ := newInventoryFixture()

	_, err := svc.UpdateProduct(uuid.New(), &model.Product{Name: "Gone", Price: decimal.RequireFromString("1.00"), MinStock: 1}, "admin-id")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	svc, _ := newInventoryFixture()

	err := svc.CreateProduct(&model.Product{Name: "Bad", Price: decimal.RequireFromString("-1.00"), MinStock: 1}, "admin-id")
	assert.Error(t, err)
}

package service

import (
	"database/sql"
	"sort"
	"time"

	"github.com/dussanclaurer/Licoreria/internal/fefo"
	"github.com/dussanclaurer/Licoreria/internal/model"
	"github.com/dussanclaurer/Licoreria/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeTransactor runs the callback without a database. Rollback behavior is
// exercised against Postgres; these fakes cover the decision logic, which is
// written to fail before any mutation on every error path it owns.
type fakeTransactor struct{}

func (fakeTransactor) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	return fc(nil)
}

type fakeSessionRepo struct {
	sessions []*model.CashSession
}

func (f *fakeSessionRepo) Create(tx *gorm.DB, session *model.CashSession) error {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	f.sessions = append(f.sessions, session)
	return nil
}

func (f *fakeSessionRepo) Update(tx *gorm.DB, session *model.CashSession) error {
	return nil // Sessions are shared pointers, mutation already visible
}

func (f *fakeSessionRepo) FindByID(id uuid.UUID) (*model.CashSession, error) {
	for _, s := range f.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSessionRepo) FindOpenByUserID(userID uuid.UUID) (*model.CashSession, error) {
	for _, s := range f.sessions {
		if s.UserID == userID && s.Status == model.SessionOpen {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSessionRepo) FindOpenForUpdate(tx *gorm.DB, userID uuid.UUID) (*model.CashSession, error) {
	return f.FindOpenByUserID(userID)
}

type fakeProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newFakeProductRepo(products ...*model.Product) *fakeProductRepo {
	f := &fakeProductRepo{products: make(map[uuid.UUID]*model.Product)}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeProductRepo) Create(product *model.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) FindAll() ([]model.Product, error) {
	var all []model.Product
	for _, p := range f.products {
		all = append(all, *p)
	}
	return all, nil
}

func (f *fakeProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	return f.FindByID(id)
}

func (f *fakeProductRepo) Update(product *model.Product) error {
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) Delete(id uuid.UUID, deletedBy string) error {
	delete(f.products, id)
	return nil
}

type fakeBatchRepo struct {
	batches []*model.Batch
	logs    []model.InventoryLog
}

func (f *fakeBatchRepo) CreateWithLog(tx *gorm.DB, batch *model.Batch, reason string) error {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	f.batches = append(f.batches, batch)
	f.logs = append(f.logs, model.InventoryLog{
		ID:       uuid.New(),
		BatchID:  batch.ID,
		Quantity: batch.CurrentStock,
		Reason:   reason,
	})
	return nil
}

func (f *fakeBatchRepo) FindByProductID(productID uuid.UUID) ([]model.Batch, error) {
	var result []model.Batch
	for _, b := range f.batches {
		if b.ProductID == productID {
			result = append(result, *b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ExpirationDate.Equal(result[j].ExpirationDate) {
			return result[i].ExpirationDate.Before(result[j].ExpirationDate)
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result, nil
}

func (f *fakeBatchRepo) FindForUpdate(tx *gorm.DB, productID uuid.UUID) ([]model.Batch, error) {
	return f.FindByProductID(productID)
}

func (f *fakeBatchRepo) ApplyDeductions(tx *gorm.DB, plan []fefo.Deduction, reason string) error {
	for _, step := range plan {
		var target *model.Batch
		for _, b := range f.batches {
			if b.ID == step.BatchID {
				target = b
				break
			}
		}
		if target == nil || target.CurrentStock < step.Quantity {
			return repository.ErrBatchNotFound
		}
		target.CurrentStock -= step.Quantity
		f.logs = append(f.logs, model.InventoryLog{
			ID:       uuid.New(),
			BatchID:  step.BatchID,
			Quantity: -step.Quantity,
			Reason:   reason,
		})
	}
	return nil
}

func (f *fakeBatchRepo) FindExpiringSoon(days int) ([]model.Batch, error) {
	threshold := time.Now().AddDate(0, 0, days)
	var result []model.Batch
	for _, b := range f.batches {
		if b.CurrentStock > 0 && !b.ExpirationDate.After(threshold) {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (f *fakeBatchRepo) stockOf(id uuid.UUID) int {
	for _, b := range f.batches {
		if b.ID == id {
			return b.CurrentStock
		}
	}
	return -1
}

type fakeInventoryLogRepo struct {
	entries []repository.InventoryLogEntry
}

func (f *fakeInventoryLogRepo) FindByDateRange(start, end time.Time, productID *uuid.UUID) ([]repository.InventoryLogEntry, error) {
	return f.entries, nil
}

type fakeSaleRepo struct {
	sales []*model.Sale
}

func (f *fakeSaleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	sale.ID = uuid.New()
	sale.CreatedAt = time.Now()
	f.sales = append(f.sales, sale)
	return nil
}

func (f *fakeSaleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	for _, s := range f.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSaleRepo) FindByDateRange(start, end time.Time) ([]model.Sale, error) {
	var result []model.Sale
	for _, s := range f.sales {
		result = append(result, *s)
	}
	return result, nil
}

func (f *fakeSaleRepo) GetSalesAggregatedByDate(start, end time.Time, groupBy string) ([]repository.SalesReportEntry, error) {
	return nil, nil
}

func (f *fakeSaleRepo) GetTopProducts(start, end time.Time, limit int) ([]repository.TopProductEntry, error) {
	return nil, nil
}

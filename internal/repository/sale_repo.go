package repository

import (
	"time"

	"github.com/dussanclaurer/Licoreria/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesReportEntry aggregates sales for one period bucket
type SalesReportEntry struct {
	Date             string          `json:"date"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TransactionCount int64           `json:"transaction_count"`
	Cash             decimal.Decimal `json:"cash"`
	Card             decimal.Decimal `json:"card"`
	QR               decimal.Decimal `json:"qr"`
}

// TopProductEntry ranks a product by units sold in a window
type TopProductEntry struct {
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	TotalQuantitySold int64           `json:"total_quantity_sold"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
}

type SaleRepository interface {
	// Create persists the sale and its lines inside the caller's transaction.
	// Every finalized sale is saved exactly once, alongside its deductions.
	Create(tx *gorm.DB, sale *model.Sale) error
	FindByID(id uuid.UUID) (*model.Sale, error)
	FindByDateRange(start, end time.Time) ([]model.Sale, error)

	// GetSalesAggregatedByDate buckets sales by day/week/month with a
	// payment-method breakdown.
	GetSalesAggregatedByDate(start, end time.Time, groupBy string) ([]SalesReportEntry, error)
	// GetTopProducts ranks products by quantity sold in the window.
	GetTopProducts(start, end time.Time, limit int) ([]TopProductEntry, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	// Lines are inserted through the association in the same statement batch
	return tx.Create(sale).Error
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := r.db.Preload("Lines").Preload("CashSession").First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) FindByDateRange(start, end time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Lines").
		Where("created_at BETWEEN ? AND ?", start, end).
		Order("created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) GetSalesAggregatedByDate(start, end time.Time, groupBy string) ([]SalesReportEntry, error) {
	// groupBy is validated by the service to one of day/week/month,
	// so interpolating it into DATE_TRUNC is safe.
	rows, err := r.db.Model(&model.Sale{}).
		Select(`
			TO_CHAR(DATE_TRUNC('`+groupBy+`', created_at), 'YYYY-MM-DD') AS date,
			COALESCE(SUM(total), 0) AS total_sales,
			COUNT(*) AS transaction_count,
			COALESCE(SUM(CASE WHEN payment_method = 'CASH' THEN total ELSE 0 END), 0) AS cash,
			COALESCE(SUM(CASE WHEN payment_method = 'CARD' THEN total ELSE 0 END), 0) AS card,
			COALESCE(SUM(CASE WHEN payment_method = 'QR' THEN total ELSE 0 END), 0) AS qr
		`).
		Where("created_at BETWEEN ? AND ?", start, end).
		Group("DATE_TRUNC('" + groupBy + "', created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SalesReportEntry
	for rows.Next() {
		var entry SalesReportEntry
		if err := rows.Scan(&entry.Date, &entry.TotalSales, &entry.TransactionCount,
			&entry.Cash, &entry.Card, &entry.QR); err != nil {
			return nil, err
		}
		results = append(results, entry)
	}

	return results, nil
}

func (r *saleRepo) GetTopProducts(start, end time.Time, limit int) ([]TopProductEntry, error) {
	rows, err := r.db.Model(&model.SaleLine{}).
		Select(`sale_lines.product_id, sale_lines.product_name,
			COALESCE(SUM(sale_lines.quantity), 0) AS total_quantity_sold,
			COALESCE(SUM(sale_lines.subtotal), 0) AS total_revenue`).
		Joins("JOIN sales ON sales.id = sale_lines.sale_id").
		Where("sales.created_at BETWEEN ? AND ?", start, end).
		Group("sale_lines.product_id, sale_lines.product_name").
		Order("total_quantity_sold DESC").
		Limit(limit).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []TopProductEntry
	for rows.Next() {
		var entry TopProductEntry
		if err := rows.Scan(&entry.ProductID, &entry.ProductName,
			&entry.TotalQuantitySold, &entry.TotalRevenue); err != nil {
			return nil, err
		}
		results = append(results, entry)
	}

	return results, nil
}

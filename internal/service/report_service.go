package service

import (
	"errors"
	"time"

	"github.com/dussanclaurer/Licoreria/internal/repository"
)

var ErrInvalidGroupBy = errors.New("group_by must be one of: day, week, month")

type ReportService interface {
	GetSalesReport(start, end time.Time, groupBy string) ([]repository.SalesReportEntry, error)
	GetTopProducts(start, end time.Time, limit int) ([]repository.TopProductEntry, error)
}

type reportService struct {
	sales repository.SaleRepository
}

func NewReportService(sales repository.SaleRepository) ReportService {
	return &reportService{sales: sales}
}

func (s *reportService) GetSalesReport(start, end time.Time, groupBy string) ([]repository.SalesReportEntry, error) {
	switch groupBy {
	case "day", "week", "month":
	case "":
		groupBy = "day"
	default:
		return nil, ErrInvalidGroupBy
	}

	return s.sales.GetSalesAggregatedByDate(start, end, groupBy)
}

func (s *reportService) GetTopProducts(start, end time.Time, limit int) ([]repository.TopProductEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.sales.GetTopProducts(start, end, limit)
}

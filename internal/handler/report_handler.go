package handler

import (
	"errors"
	"time"

	"github.com/dussanclaurer/Licoreria/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ReportHandler struct {
	reports   service.ReportService
	inventory service.InventoryService
}

func NewReportHandler(reports service.ReportService, inventory service.InventoryService) *ReportHandler {
	return &ReportHandler{reports: reports, inventory: inventory}
}

// parseDateRange reads start/end query params (YYYY-MM-DD), defaulting to the
// last 30 days. The end date is pushed to end-of-day so it is inclusive.
func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if s := c.Query("start"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid start date, use YYYY-MM-DD")
		}
		start = parsed
	}
	if e := c.Query("end"); e != "" {
		parsed, err := time.Parse("2006-01-02", e)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid end date, use YYYY-MM-DD")
		}
		end = parsed.Add(24*time.Hour - time.Second)
	}

	return start, end, nil
}

// GetSalesReport aggregates sales per period with payment-method breakdown
// GET /api/v1/reports/sales?start=...&end=...&group_by=day|week|month
func (h *ReportHandler) GetSalesReport(c *fiber.Ctx) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	entries, err := h.reports.GetSalesReport(start, end, c.Query("group_by", "day"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidGroupBy) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build sales report"})
	}

	return c.JSON(fiber.Map{"data": entries, "total": len(entries)})
}

// GetTopProducts ranks products by quantity sold
// GET /api/v1/reports/top-products?start=...&end=...&limit=10
func (h *ReportHandler) GetTopProducts(c *fiber.Ctx) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	entries, err := h.reports.GetTopProducts(start, end, c.QueryInt("limit", 10))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to build top products report"})
	}

	return c.JSON(fiber.Map{"data": entries, "total": len(entries)})
}

// GetInventoryLogs lists the stock audit trail for a date range
// GET /api/v1/reports/inventory-logs?start=...&end=...&product_id=...
func (h *ReportHandler) GetInventoryLogs(c *fiber.Ctx) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	var productID *uuid.UUID
	if p := c.Query("product_id"); p != "" {
		parsed, err := uuid.Parse(p)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid product_id"})
		}
		productID = &parsed
	}

	entries, err := h.inventory.GetInventoryLogs(start, end, productID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch inventory logs"})
	}

	return c.JSON(fiber.Map{"data": entries, "total": len(entries)})
}

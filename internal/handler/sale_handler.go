package handler

import (
	"errors"

	"github.com/dussanclaurer/Licoreria/internal/service"
	"github.com/dussanclaurer/Licoreria/pkg/validator"

	"github.com/gofiber/fiber/v2"
)

type SaleHandler struct {
	service service.SaleService
}

func NewSaleHandler(s service.SaleService) *SaleHandler {
	return &SaleHandler{service: s}
}

// RegisterSale runs the full sale flow: session gate, FEFO allocation,
// atomic deductions, sale persistence.
// POST /api/v1/sales
func (h *SaleHandler) RegisterSale(c *fiber.Ctx) error {
	var req service.RegisterSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{
			"error": "Validation failed",
			"field": errs[0].FailedField,
			"tag":   errs[0].Tag,
		})
	}

	userID, err := parseUUID(getUserID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	sale, err := h.service.RegisterSale(&req, userID, getUserName(c))
	if err != nil {
		// Domain errors pass through unchanged so they map cleanly here
		var insufficientStock *service.InsufficientStockError
		switch {
		case errors.As(err, &insufficientStock):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrProductNotFound):
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, service.ErrNoOpenSession):
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(500).JSON(fiber.Map{"error": "Failed to register sale"})
		}
	}

	return c.Status(201).JSON(fiber.Map{"message": "Sale registered", "data": sale})
}

// GetSale fetches one sale with its lines
// GET /api/v1/sales/:id
func (h *SaleHandler) GetSale(c *fiber.Ctx) error {
	saleID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid sale ID"})
	}

	sale, err := h.service.GetSaleByID(saleID)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Sale not found"})
	}
	return c.JSON(sale)
}

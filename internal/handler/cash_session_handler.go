package handler

import (
	"errors"

	"github.com/dussanclaurer/Licoreria/internal/service"
	"github.com/dussanclaurer/Licoreria/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type OpenSessionRequest struct {
	InitialAmount decimal.Decimal `json:"initial_amount" validate:"decimal_gte0"`
}

type CloseSessionRequest struct {
	FinalAmount decimal.Decimal `json:"final_amount" validate:"decimal_gte0"`
}

type CashSessionHandler struct {
	service service.CashSessionService
}

func NewCashSessionHandler(s service.CashSessionService) *CashSessionHandler {
	return &CashSessionHandler{service: s}
}

// OpenSession opens a register session for the authenticated user
// POST /api/v1/cash-sessions/open
func (h *CashSessionHandler) OpenSession(c *fiber.Ctx) error {
	var req OpenSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "initial_amount must be a non-negative amount"})
	}

	userID, err := parseUUID(getUserID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	session, err := h.service.Open(userID, req.InitialAmount, getUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrSessionAlreadyOpen) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to open session"})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Session opened", "data": session})
}

// CloseSession closes the user's open session, recording the declared amount
// POST /api/v1/cash-sessions/close
func (h *CashSessionHandler) CloseSession(c *fiber.Ctx) error {
	var req CloseSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "final_amount must be a non-negative amount"})
	}

	userID, err := parseUUID(getUserID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	session, err := h.service.Close(userID, req.FinalAmount, getUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrNoOpenSession) {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Failed to close session"})
	}

	return c.JSON(fiber.Map{"message": "Session closed", "data": session})
}

// SessionStatus reports whether the user currently has an open session
// GET /api/v1/cash-sessions/status
func (h *CashSessionHandler) SessionStatus(c *fiber.Ctx) error {
	userID, err := parseUUID(getUserID(c))
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	isOpen, session, err := h.service.Status(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to check session status"})
	}

	return c.JSON(fiber.Map{"is_open": isOpen, "session": session})
}

package handlers

import (
	"github.com/Patricemapiye-ctrl/navira-forge/models"
	"github.com/Patricemapiye-ctrl/navira-forge/returns"
	"github.com/Patricemapiye-ctrl/navira-forge/web/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Returns exposes the return-request lifecycle.
type Returns struct {
	DB        *gorm.DB
	Processor *returns.Processor
}

// Request files a return against a prior sale.
func (h *Returns) Request(c *fiber.Ctx) error {
	var in struct {
		SaleID        uint   `json:"sale_id"`
		Reason        string `json:"reason"`
		WarrantyClaim bool   `json:"warranty_claim"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if in.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A return reason is required"})
	}

	var requestedBy *uint
	if claims := middleware.Claims(c); claims != nil {
		requestedBy = &claims.UserID
	}

	ret, err := h.Processor.Request(c.Context(), in.SaleID, in.Reason, in.WarrantyClaim, requestedBy)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ret)
}

// List returns return requests, newest first, optionally filtered by
// ?status=.
func (h *Returns) List(c *fiber.Ctx) error {
	q := h.DB.WithContext(c.Context()).Model(&models.Return{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var list []models.Return
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"returns": list, "count": len(list)})
}

// Approve approves a pending return with an optional refund amount.
func (h *Returns) Approve(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var in struct {
		RefundAmount *float64 `json:"refund_amount"`
		Notes        string   `json:"notes"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	claims := middleware.Claims(c)
	if err := h.Processor.Approve(c.Context(), id, claims.UserID, in.RefundAmount, in.Notes); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"return_id": id, "status": models.ReturnApproved})
}

// Reject rejects a pending return.
func (h *Returns) Reject(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var in struct {
		Notes string `json:"notes"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	claims := middleware.Claims(c)
	if err := h.Processor.Reject(c.Context(), id, claims.UserID, in.Notes); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"return_id": id, "status": models.ReturnRejected})
}

// Complete finalizes an approved return after the refund is paid out.
func (h *Returns) Complete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	claims := middleware.Claims(c)
	if err := h.Processor.Complete(c.Context(), id, claims.UserID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"return_id": id, "status": models.ReturnCompleted})
}

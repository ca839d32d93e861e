package handlers

import (
	"github.com/Patricemapiye-ctrl/navira-forge/sales"
	"github.com/Patricemapiye-ctrl/navira-forge/web/middleware"
	"github.com/gofiber/fiber/v2"
)

// Orders exposes the fulfillment queue for online orders.
type Orders struct {
	Fulfillment *sales.Fulfillment
}

// Pending lists online orders waiting for staff action, oldest first.
func (h *Orders) Pending(c *fiber.Ctx) error {
	orders, err := h.Fulfillment.PendingOrders(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"orders": orders, "count": len(orders)})
}

// Complete marks a pending order as fulfilled.
func (h *Orders) Complete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	claims := middleware.Claims(c)
	if err := h.Fulfillment.Complete(c.Context(), id, claims.UserID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"sale_id": id, "status": "completed"})
}

// Cancel cancels a pending order, restocking its items.
func (h *Orders) Cancel(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	claims := middleware.Claims(c)
	if err := h.Fulfillment.Cancel(c.Context(), id, claims.UserID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"sale_id": id, "status": "cancelled"})
}

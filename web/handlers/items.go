package handlers

import (
	"fmt"
	"strconv"

	"github.com/Patricemapiye-ctrl/navira-forge/inventory"
	"github.com/gofiber/fiber/v2"
)

// Items exposes the catalog: public storefront reads plus staff-only
// mutations.
type Items struct {
	Service *inventory.Service
}

// List returns catalog items, filtered by ?search= and ?category=.
func (h *Items) List(c *fiber.Ctx) error {
	items, err := h.Service.List(c.Context(), c.Query("search"), c.Query("category"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"items": items, "count": len(items)})
}

// Available returns in-stock items for the storefront and POS pickers.
func (h *Items) Available(c *fiber.Ctx) error {
	items, err := h.Service.Available(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"items": items, "count": len(items)})
}

// LowStock returns items at or below their reorder level.
func (h *Items) LowStock(c *fiber.Ctx) error {
	items, err := h.Service.LowStock(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"items": items, "count": len(items)})
}

// Get returns one item.
func (h *Items) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	item, err := h.Service.Get(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(item)
}

// Create inserts a catalog item.
func (h *Items) Create(c *fiber.Ctx) error {
	var in inventory.ItemInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	item, err := h.Service.Create(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update rewrites a catalog item.
func (h *Items) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var in inventory.ItemInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	item, err := h.Service.Update(c.Context(), id, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(item)
}

// AddStock credits received units onto an item.
func (h *Items) AddStock(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var in struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.Service.AddStock(c.Context(), id, in.Quantity); err != nil {
		return fail(c, err)
	}

	item, err := h.Service.Get(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(item)
}

// Delete removes a catalog item.
func (h *Items) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := h.Service.Delete(c.Context(), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseID reads a positive integer route parameter. Failures surface as
// errInvalidID so callers map them to a 400 through fail.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %s", errInvalidID, name)
	}
	return uint(id), nil
}

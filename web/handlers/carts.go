package handlers

import (
	"github.com/Patricemapiye-ctrl/navira-forge/cart"
	"github.com/Patricemapiye-ctrl/navira-forge/inventory"
	"github.com/gofiber/fiber/v2"
)

// Carts manages storefront shopping carts. Carts live in Redis and are
// only advisory: stock is re-checked against a fresh item snapshot on
// every mutation, and enforced for real at checkout.
type Carts struct {
	Store *cart.Store
	Items *inventory.Service
}

// Create starts an empty cart and returns its ID.
func (h *Carts) Create(c *fiber.Ctx) error {
	ct := cart.New(cart.NewCartID())
	if err := h.Store.Save(c.Context(), ct); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cartView(ct))
}

// Get returns the cart contents and recomputed totals.
func (h *Carts) Get(c *fiber.Ctx) error {
	ct, err := h.Store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cartView(ct))
}

// AddItem adds a quantity of a catalog item to the cart, snapshotting the
// item's current name, price and available stock into the line.
func (h *Carts) AddItem(c *fiber.Ctx) error {
	var in struct {
		InventoryID uint `json:"inventory_id"`
		Quantity    int  `json:"quantity"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if in.Quantity <= 0 {
		in.Quantity = 1
	}

	ct, err := h.Store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	item, err := h.Items.Get(c.Context(), in.InventoryID)
	if err != nil {
		return fail(c, err)
	}

	if err := ct.Add(*item, in.Quantity); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.Store.Save(c.Context(), ct); err != nil {
		return fail(c, err)
	}
	return c.JSON(cartView(ct))
}

// UpdateItem sets a line's quantity, clamping to the snapshotted stock.
// The response carries the quantity actually applied so the client can
// reconcile.
func (h *Carts) UpdateItem(c *fiber.Ctx) error {
	itemID, err := parseID(c, "itemId")
	if err != nil {
		return fail(c, err)
	}

	var in struct {
		Quantity int `json:"quantity"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ct, err := h.Store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	applied, err := ct.UpdateQuantity(itemID, in.Quantity)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.Store.Save(c.Context(), ct); err != nil {
		return fail(c, err)
	}

	resp := cartView(ct)
	resp["applied_quantity"] = applied
	resp["clamped"] = applied != in.Quantity
	return c.JSON(resp)
}

// RemoveItem drops a line from the cart.
func (h *Carts) RemoveItem(c *fiber.Ctx) error {
	itemID, err := parseID(c, "itemId")
	if err != nil {
		return fail(c, err)
	}

	ct, err := h.Store.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	ct.Remove(itemID)

	if err := h.Store.Save(c.Context(), ct); err != nil {
		return fail(c, err)
	}
	return c.JSON(cartView(ct))
}

func cartView(ct *cart.Cart) fiber.Map {
	return fiber.Map{
		"cart_id":    ct.ID,
		"lines":      ct.Lines,
		"total":      ct.Total(),
		"item_count": ct.ItemCount(),
	}
}

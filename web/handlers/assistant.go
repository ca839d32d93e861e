package handlers

import (
	"errors"

	"github.com/Patricemapiye-ctrl/navira-forge/assistant"
	"github.com/Patricemapiye-ctrl/navira-forge/inventory"
	"github.com/gofiber/fiber/v2"
)

// Assistant exposes the catalog-aware shopping assistant.
type Assistant struct {
	Client *assistant.Client
	Items  *inventory.Service
}

// Chat answers a free-form customer message with the current in-stock
// catalog as context.
func (h *Assistant) Chat(c *fiber.Ctx) error {
	var in struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&in); err != nil || in.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A message is required"})
	}

	items, err := h.Items.Available(c.Context())
	if err != nil {
		return fail(c, err)
	}

	reply, err := h.Client.Chat(c.Context(), in.Message, items)
	if err != nil {
		return assistantFail(c, err)
	}
	return c.JSON(fiber.Map{"reply": reply})
}

// Identify maps a described-but-unnamed tool onto likely catalog items.
func (h *Assistant) Identify(c *fiber.Ctx) error {
	var in struct {
		Description string `json:"description"`
	}
	if err := c.BodyParser(&in); err != nil || in.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A description is required"})
	}

	items, err := h.Items.Available(c.Context())
	if err != nil {
		return fail(c, err)
	}

	answer, err := h.Client.Identify(c.Context(), in.Description, items)
	if err != nil {
		return assistantFail(c, err)
	}
	return c.JSON(fiber.Map{"result": answer})
}

func assistantFail(c *fiber.Ctx, err error) error {
	if errors.Is(err, assistant.ErrNotConfigured) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "The assistant is not configured",
		})
	}
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
}

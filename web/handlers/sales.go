package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Patricemapiye-ctrl/navira-forge/cart"
	"github.com/Patricemapiye-ctrl/navira-forge/models"
	"github.com/Patricemapiye-ctrl/navira-forge/sales"
	"github.com/Patricemapiye-ctrl/navira-forge/web/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// idempotencyTTL bounds how long a checkout response is replayable.
const idempotencyTTL = 24 * time.Hour

// replayCache is the Redis subset backing Idempotency-Key replay. Nil
// disables replay; tests swap in a fake.
type replayCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Sales handles POS sale recording, storefront checkout and sale lookups.
type Sales struct {
	DB       *gorm.DB
	Recorder *sales.Recorder
	Carts    *cart.Store
	Redis    replayCache
}

type posLine struct {
	InventoryID uint    `json:"inventory_id"`
	ItemName    string  `json:"item_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// CreatePOS records an in-person sale at the counter. The operator comes
// from the token, not the request body.
func (h *Sales) CreatePOS(c *fiber.Ctx) error {
	var in struct {
		Lines           []posLine `json:"lines"`
		PaymentMethod   string    `json:"payment_method"`
		CustomerName    string    `json:"customer_name"`
		CustomerContact string    `json:"customer_contact"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	claims := middleware.Claims(c)
	soldBy := claims.UserID

	lines := make([]sales.Line, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, sales.Line{
			InventoryID: l.InventoryID,
			ItemName:    l.ItemName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}

	rec, err := h.Recorder.Checkout(c.Context(), sales.CheckoutInput{
		Lines:           lines,
		PaymentMethod:   models.PaymentMethod(in.PaymentMethod),
		CustomerName:    in.CustomerName,
		CustomerContact: in.CustomerContact,
		SoldBy:          &soldBy,
		Online:          false,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// Checkout converts a storefront cart into a pending online order. When
// the client sends an Idempotency-Key header, a retry of the same key
// replays the recorded response instead of charging stock twice; a retry
// that races a still-running checkout gets a 409.
func (h *Sales) Checkout(c *fiber.Ctx) error {
	var in struct {
		CartID          string `json:"cart_id"`
		PaymentMethod   string `json:"payment_method"`
		CustomerName    string `json:"customer_name"`
		CustomerContact string `json:"customer_contact"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if in.CartID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cart_id is required"})
	}

	// Reserve the key before touching stock so two concurrent retries
	// cannot both record a sale. An empty value marks a checkout still
	// in flight; the committed response overwrites it.
	idemKey := c.Get("Idempotency-Key")
	if idemKey != "" && h.Redis != nil {
		reserved, err := h.Redis.SetNX(c.Context(), idemRedisKey(idemKey), "", idempotencyTTL).Result()
		if err == nil && !reserved {
			cached, err := h.Redis.Get(c.Context(), idemRedisKey(idemKey)).Result()
			if err == nil && cached != "" {
				c.Set("Idempotent-Replayed", "true")
				c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
				return c.Status(fiber.StatusCreated).SendString(cached)
			}
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A checkout with this Idempotency-Key is already in progress",
			})
		}
	}

	ct, err := h.Carts.Get(c.Context(), in.CartID)
	if err != nil {
		h.releaseIdem(c, idemKey)
		return fail(c, err)
	}
	if ct.IsEmpty() {
		h.releaseIdem(c, idemKey)
		return fail(c, sales.ErrEmptyCart)
	}

	lines := make([]sales.Line, 0, len(ct.Lines))
	for _, l := range ct.Lines {
		lines = append(lines, sales.Line{
			InventoryID: l.InventoryID,
			ItemName:    l.ItemName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}

	rec, err := h.Recorder.Checkout(c.Context(), sales.CheckoutInput{
		Lines:           lines,
		PaymentMethod:   models.PaymentMethod(in.PaymentMethod),
		CustomerName:    in.CustomerName,
		CustomerContact: in.CustomerContact,
		Online:          true,
	})
	if err != nil {
		h.releaseIdem(c, idemKey)
		return fail(c, err)
	}

	// The cart is spent. If the delete fails the sale is still committed
	// and the cart expires on its own.
	_ = h.Carts.Delete(c.Context(), in.CartID)

	if idemKey != "" && h.Redis != nil {
		if body, err := json.Marshal(rec); err == nil {
			h.Redis.Set(c.Context(), idemRedisKey(idemKey), body, idempotencyTTL)
		}
	}

	return c.Status(fiber.StatusCreated).JSON(rec)
}

// List returns recent sales, newest first. ?status= and ?online= filter;
// ?limit= caps the page (default 50).
func (h *Sales) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}

	q := h.DB.WithContext(c.Context()).Model(&models.Sale{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if online := c.Query("online"); online != "" {
		q = q.Where("is_online = ?", online == "true")
	}

	var list []models.Sale
	if err := q.Order("sale_date DESC").Limit(limit).Find(&list).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"sales": list, "count": len(list)})
}

// Get returns one sale with its line items.
func (h *Sales) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var sale models.Sale
	if err := h.DB.WithContext(c.Context()).First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, sales.ErrSaleNotFound)
		}
		return fail(c, err)
	}

	var items []models.SaleItem
	if err := h.DB.WithContext(c.Context()).Find(&items, "sale_id = ?", id).Error; err != nil {
		return fail(c, err)
	}

	return c.JSON(sales.RecordedSale{Sale: sale, Items: items})
}

// releaseIdem drops an idempotency reservation after a failed checkout
// so the client can retry with the same key.
func (h *Sales) releaseIdem(c *fiber.Ctx, key string) {
	if key != "" && h.Redis != nil {
		h.Redis.Del(c.Context(), idemRedisKey(key))
	}
}

func idemRedisKey(key string) string {
	return "idem:checkout:" + key
}

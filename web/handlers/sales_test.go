package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/Patricemapiye-ctrl/navira-forge/cart"
	"github.com/Patricemapiye-ctrl/navira-forge/models"
	"github.com/Patricemapiye-ctrl/navira-forge/sales"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeRedis backs both the cart store and the idempotency replay cache in
// tests.
type fakeRedis struct {
	data map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	if val, ok := f.data[key]; ok {
		cmd.SetVal(val)
	} else {
		cmd.SetErr(redis.Nil)
	}
	return cmd
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	if _, ok := f.data[key]; ok {
		cmd.SetVal(false)
		return cmd
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	default:
		f.data[key] = ""
	}
	cmd.SetVal(true)
	return cmd
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	var n int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func checkoutFixture(t *testing.T) (*fiber.App, *gorm.DB, string, *fakeRedis) {
	t.Helper()

	db := openTestDB(t)
	item := models.InventoryItem{
		ItemCode: "HW-DRL-001", ItemName: "Cordless Drill", Category: "Power Tools",
		Quantity: 5, UnitPrice: 10,
	}
	require.NoError(t, db.Create(&item).Error)

	rdb := newFakeRedis()
	store := cart.NewStore(rdb, time.Hour)

	ct := cart.New(cart.NewCartID())
	require.NoError(t, ct.Add(item, 2))
	require.NoError(t, store.Save(context.Background(), ct))

	h := &Sales{
		DB:       db,
		Recorder: sales.NewRecorder(db, nil),
		Carts:    store,
		Redis:    rdb,
	}

	app := fiber.New()
	app.Post("/checkout", h.Checkout)
	app.Get("/sales/:id", h.Get)
	return app, db, ct.ID, rdb
}

func TestCheckoutFromCart(t *testing.T) {
	app, db, cartID, _ := checkoutFixture(t)

	resp, err := app.Test(jsonRequest("POST", "/checkout", map[string]string{
		"cart_id":        cartID,
		"payment_method": "card",
		"customer_name":  "Thandi M",
	}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var item models.InventoryItem
	require.NoError(t, db.First(&item, "item_code = ?", "HW-DRL-001").Error)
	assert.Equal(t, 3, item.Quantity)

	var sale models.Sale
	require.NoError(t, db.First(&sale).Error)
	assert.True(t, sale.IsOnline)
	assert.Equal(t, models.SalePending, sale.Status)
	assert.InDelta(t, 20.00, sale.TotalAmount, 0.001)

	// The cart is consumed: checking out again finds it empty.
	resp, err = app.Test(jsonRequest("POST", "/checkout", map[string]string{
		"cart_id":        cartID,
		"payment_method": "card",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCheckoutIdempotencyReplay(t *testing.T) {
	app, db, cartID, _ := checkoutFixture(t)

	body := map[string]string{
		"cart_id":        cartID,
		"payment_method": "eft",
	}

	first := jsonRequest("POST", "/checkout", body)
	first.Header.Set("Idempotency-Key", "order-attempt-1")
	resp, err := app.Test(first)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Idempotent-Replayed"))

	// Network retry of the same request must not sell the stock twice.
	retry := jsonRequest("POST", "/checkout", body)
	retry.Header.Set("Idempotency-Key", "order-attempt-1")
	resp, err = app.Test(retry)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("Idempotent-Replayed"))

	var saleCount int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&saleCount).Error)
	assert.EqualValues(t, 1, saleCount)

	var item models.InventoryItem
	require.NoError(t, db.First(&item, "item_code = ?", "HW-DRL-001").Error)
	assert.Equal(t, 3, item.Quantity)

	replayed := decodeBody(t, resp)
	require.Contains(t, replayed, "sale")
}

func TestCheckoutIdempotencyInFlight(t *testing.T) {
	app, db, cartID, rdb := checkoutFixture(t)

	// Another request holds the reservation but has not committed yet.
	rdb.data[idemRedisKey("order-attempt-1")] = ""

	req := jsonRequest("POST", "/checkout", map[string]string{
		"cart_id":        cartID,
		"payment_method": "card",
	})
	req.Header.Set("Idempotency-Key", "order-attempt-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// No second sale, no stock movement.
	var saleCount int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&saleCount).Error)
	assert.Zero(t, saleCount)

	var item models.InventoryItem
	require.NoError(t, db.First(&item, "item_code = ?", "HW-DRL-001").Error)
	assert.Equal(t, 5, item.Quantity)
}

func TestCheckoutIdempotencyReleasedOnFailure(t *testing.T) {
	app, db, cartID, rdb := checkoutFixture(t)

	// A checkout that fails after reserving the key must release it.
	req := jsonRequest("POST", "/checkout", map[string]string{
		"cart_id":        "no-such-cart",
		"payment_method": "card",
	})
	req.Header.Set("Idempotency-Key", "order-attempt-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	_, held := rdb.data[idemRedisKey("order-attempt-1")]
	assert.False(t, held, "failed checkout must not pin the key")

	// The same key then works against the real cart.
	retry := jsonRequest("POST", "/checkout", map[string]string{
		"cart_id":        cartID,
		"payment_method": "card",
	})
	retry.Header.Set("Idempotency-Key", "order-attempt-1")
	resp, err = app.Test(retry)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var saleCount int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&saleCount).Error)
	assert.EqualValues(t, 1, saleCount)
}

func TestCheckoutValidationErrors(t *testing.T) {
	app, _, _, _ := checkoutFixture(t)

	resp, err := app.Test(jsonRequest("POST", "/checkout", map[string]string{
		"payment_method": "card",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(jsonRequest("POST", "/checkout", map[string]string{
		"cart_id":        "no-such-cart",
		"payment_method": "card",
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "missing cart reads as empty")
}

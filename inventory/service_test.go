package inventory

import (
	"context"
	"testing"

	"github.com/Patricemapiye-ctrl/navira-forge/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func testInput(code string, qty int) ItemInput {
	return ItemInput{
		ItemCode:  code,
		ItemName:  "Item " + code,
		Category:  "Hand Tools",
		Quantity:  qty,
		UnitPrice: 49.99,
	}
}

func TestCreateDefaultsReorderLevel(t *testing.T) {
	db := openTestDB(t)
	s := NewService(db, nil)

	item, err := s.Create(context.Background(), testInput("HW-HAM-001", 5))
	require.NoError(t, err)
	assert.Equal(t, 10, item.ReorderLevel)
	assert.NotZero(t, item.ID)
}

func TestCreateValidation(t *testing.T) {
	db := openTestDB(t)
	s := NewService(db, nil)

	_, err := s.Create(context.Background(), ItemInput{ItemName: "No code", Category: "Misc"})
	assert.Error(t, err)

	in := testInput("HW-NEG-001", -1)
	_, err = s.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrNegativeQuantity)

	in = testInput("HW-PRC-001", 1)
	in.UnitPrice = -5
	_, err = s.Create(context.Background(), in)
	assert.Error(t, err)
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	db := openTestDB(t)
	s := NewService(db, nil)

	_, err := s.Create(context.Background(), testInput("HW-DUP-001", 5))
	require.NoError(t, err)

	_, err = s.Create(context.Background(), testInput("HW-DUP-001", 3))
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

func TestUpdateRewritesFields(t *testing.T) {
	db := openTestDB(t)
	s := NewService(db, nil)

	item, err := s.Create(context.Background(), testInput("HW-UPD-001", 5))
	require.NoError(t, err)

	in := testInput("HW-UPD-001", 12)
	in.ItemName = "Renamed"
	in.UnitPrice = 99.50
	updated, err := s.Update(context.Background(), item.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.ItemName)
	assert.Equal(t, 12, updated.Quantity)
	assert.InDelta(t, 99.50, updated.UnitPrice, 0.001)

	_, err = s.Update(context.Background(), 999, in)
	assert.ErrorIs(t, err, ErrNotFound)

	in.Quantity = -2
	_, err = s.Update(context.Background(), item.ID, in)
	assert.ErrorIs(t, err, ErrNegativeQuantity)
}

func TestAddStock(t *testing.T) {
	db := openTestDB(t)
	s := NewService(db, nil)

	item, err := s.Create(context.Background(), testInput("HW-RCV-001", 2))
	require.NoError(t, err)

	require.NoError(t, s.AddStock(context.Background(), item.ID, 8))

	got, err := s.Get(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)

	assert.Error(t, s.AddStock(context.Background(), item.ID, 0))
	assert.Error(t, s.AddStock(context.Background(), item.ID, -3))
	assert.ErrorIs(t, s.AddStock(context.Background(), 999, 1), ErrNotFound)
}

func TestDelete(t *testing.T) {
	db := openTestDB(t)
	s := NewService(db, nil)

	item, err := s.Create(context.Background(), testInput("HW-DEL-001", 1))
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), item.ID))
	_, err = s.Get(context.Background(), item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete(context.Background(), item.ID), ErrNotFound)
}

func TestListFilters(t *testing.T) {
	db := openTestDB(t)
	s := NewService(db, nil)

	drill := testInput("HW-DRL-001", 5)
	drill.ItemName = "Cordless Drill"
	drill.Category = "Power Tools"
	_, err := s.Create(context.Background(), drill)
	require.NoError(t, err)

	hammer := testInput("HW-HAM-001", 5)
	hammer.ItemName = "Claw Hammer"
	_, err = s.Create(context.Background(), hammer)
	require.NoError(t, err)

	byName, err := s.List(context.Background(), "drill", "")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Cordless Drill", byName[0].ItemName)

	byCode, err := s.List(context.Background(), "HW-HAM", "")
	require.NoError(t, err)
	require.Len(t, byCode, 1)

	byCategory, err := s.List(context.Background(), "", "Power Tools")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)

	all, err := s.List(context.Background(), "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestAvailableExcludesOutOfStock(t *testing.T) {
	db := openTestDB(t)
	s := NewService(db, nil)

	_, err := s.Create(context.Background(), testInput("HW-IN-001", 3))
	require.NoError(t, err)
	_, err = s.Create(context.Background(), testInput("HW-OUT-001", 0))
	require.NoError(t, err)

	items, err := s.Available(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "HW-IN-001", items[0].ItemCode)
}

func TestLowStockBoundary(t *testing.T) {
	db := openTestDB(t)
	s := NewService(db, nil)

	at := testInput("HW-AT-001", 10) // exactly at the default reorder level
	_, err := s.Create(context.Background(), at)
	require.NoError(t, err)

	above := testInput("HW-ABV-001", 11)
	_, err = s.Create(context.Background(), above)
	require.NoError(t, err)

	empty := testInput("HW-EMP-001", 0)
	_, err = s.Create(context.Background(), empty)
	require.NoError(t, err)

	low, err := s.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "HW-EMP-001", low[0].ItemCode, "most depleted first")
	assert.Equal(t, "HW-AT-001", low[1].ItemCode)
}

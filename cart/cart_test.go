package cart

import (
	"testing"

	"github.com/Patricemapiye-ctrl/navira-forge/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drill(stock int) models.InventoryItem {
	return models.InventoryItem{
		ID:        1,
		ItemCode:  "HW-DRL-001",
		ItemName:  "Cordless Drill",
		Category:  "Power Tools",
		Quantity:  stock,
		UnitPrice: 899.99,
	}
}

func TestAddNewLine(t *testing.T) {
	c := New(NewCartID())
	require.NoError(t, c.Add(drill(5), 2))

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, 5, c.Lines[0].AvailableStock)
	assert.Equal(t, "Cordless Drill", c.Lines[0].ItemName)
	assert.InDelta(t, 1799.98, c.Total(), 0.001)
}

func TestAddMergesExistingLine(t *testing.T) {
	c := New(NewCartID())
	require.NoError(t, c.Add(drill(5), 2))

	// Stock moved between adds; the snapshot refreshes.
	require.NoError(t, c.Add(drill(4), 1))

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 3, c.Lines[0].Quantity)
	assert.Equal(t, 4, c.Lines[0].AvailableStock)
}

func TestAddRejectsBeyondStock(t *testing.T) {
	c := New(NewCartID())

	err := c.Add(drill(3), 4)
	assert.ErrorIs(t, err, ErrStockExceeded)
	assert.True(t, c.IsEmpty())

	require.NoError(t, c.Add(drill(3), 2))
	err = c.Add(drill(3), 2)
	assert.ErrorIs(t, err, ErrStockExceeded)
	assert.Equal(t, 2, c.Lines[0].Quantity, "rejected add must leave the cart unchanged")
}

func TestAddRejectsInvalidQuantity(t *testing.T) {
	c := New(NewCartID())
	assert.ErrorIs(t, c.Add(drill(3), 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add(drill(3), -1), ErrInvalidQuantity)
}

func TestUpdateQuantityClampsToStock(t *testing.T) {
	c := New(NewCartID())
	require.NoError(t, c.Add(drill(5), 1))

	applied, err := c.UpdateQuantity(1, 99)
	require.NoError(t, err)
	assert.Equal(t, 5, applied)
	assert.Equal(t, 5, c.Lines[0].Quantity)
}

func TestUpdateQuantityFloorsAtOne(t *testing.T) {
	c := New(NewCartID())
	require.NoError(t, c.Add(drill(5), 3))

	applied, err := c.UpdateQuantity(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	applied, err = c.UpdateQuantity(1, -7)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
}

func TestUpdateQuantityUnknownLine(t *testing.T) {
	c := New(NewCartID())
	_, err := c.UpdateQuantity(42, 1)
	assert.ErrorIs(t, err, ErrLineNotFound)
}

func TestRemove(t *testing.T) {
	c := New(NewCartID())
	require.NoError(t, c.Add(drill(5), 2))

	c.Remove(1)
	assert.True(t, c.IsEmpty())

	// Removing an absent line is a no-op.
	c.Remove(1)
	assert.True(t, c.IsEmpty())
}

func TestTotalsRecomputed(t *testing.T) {
	c := New(NewCartID())
	require.NoError(t, c.Add(drill(10), 2))

	saw := models.InventoryItem{ID: 2, ItemCode: "HW-SAW-001", ItemName: "Circular Saw", Category: "Power Tools", Quantity: 3, UnitPrice: 100}
	require.NoError(t, c.Add(saw, 1))

	assert.InDelta(t, 2*899.99+100, c.Total(), 0.001)
	assert.Equal(t, 3, c.ItemCount())

	_, err := c.UpdateQuantity(2, 3)
	require.NoError(t, err)
	assert.InDelta(t, 2*899.99+300, c.Total(), 0.001)
}

func TestNewCartIDShape(t *testing.T) {
	a, b := NewCartID(), NewCartID()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

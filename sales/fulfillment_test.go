package sales

import (
	"context"
	"testing"

	"github.com/Patricemapiye-ctrl/navira-forge/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func placeOnlineOrder(t *testing.T, db *gorm.DB, item models.InventoryItem, qty int) *RecordedSale {
	t.Helper()

	rec, err := NewRecorder(db, nil).Checkout(context.Background(), CheckoutInput{
		Lines:         []Line{{InventoryID: item.ID, ItemName: item.ItemName, Quantity: qty, UnitPrice: item.UnitPrice}},
		PaymentMethod: models.PaymentCard,
		Online:        true,
	})
	require.NoError(t, err)
	return rec
}

func TestCompleteStampsHandler(t *testing.T) {
	db := openTestDB(t)
	f := NewFulfillment(db, nil)
	item := seedItem(t, db, "HW-DRL-001", 5, 100)
	rec := placeOnlineOrder(t, db, item, 2)

	require.NoError(t, f.Complete(context.Background(), rec.Sale.ID, 7))

	var sale models.Sale
	require.NoError(t, db.First(&sale, "id = ?", rec.Sale.ID).Error)
	assert.Equal(t, models.SaleCompleted, sale.Status)
	require.NotNil(t, sale.HandledBy)
	assert.EqualValues(t, 7, *sale.HandledBy)
	assert.NotNil(t, sale.HandledAt)

	// Completion ships the goods; stock stays decremented.
	assert.Equal(t, 3, stockOf(t, db, item.ID))
}

func TestCancelRestocks(t *testing.T) {
	db := openTestDB(t)
	f := NewFulfillment(db, nil)
	item := seedItem(t, db, "HW-SND-001", 5, 60)
	rec := placeOnlineOrder(t, db, item, 3)
	require.Equal(t, 2, stockOf(t, db, item.ID))

	require.NoError(t, f.Cancel(context.Background(), rec.Sale.ID, 7))

	var sale models.Sale
	require.NoError(t, db.First(&sale, "id = ?", rec.Sale.ID).Error)
	assert.Equal(t, models.SaleCancelled, sale.Status)
	assert.Equal(t, 5, stockOf(t, db, item.ID))
}

func TestTransitionsAreTerminal(t *testing.T) {
	db := openTestDB(t)
	f := NewFulfillment(db, nil)
	item := seedItem(t, db, "HW-GRN-001", 5, 30)
	rec := placeOnlineOrder(t, db, item, 1)

	require.NoError(t, f.Complete(context.Background(), rec.Sale.ID, 7))

	assert.ErrorIs(t, f.Complete(context.Background(), rec.Sale.ID, 7), ErrAlreadyHandled)
	assert.ErrorIs(t, f.Cancel(context.Background(), rec.Sale.ID, 7), ErrAlreadyHandled)

	// A cancel that bounced off a completed order must not restock.
	assert.Equal(t, 4, stockOf(t, db, item.ID))
}

func TestFulfillmentRejectsPOSSales(t *testing.T) {
	db := openTestDB(t)
	f := NewFulfillment(db, nil)
	item := seedItem(t, db, "HW-BIT-001", 5, 12)

	operator := uint(1)
	rec, err := NewRecorder(db, nil).Checkout(context.Background(), CheckoutInput{
		Lines:         []Line{{InventoryID: item.ID, ItemName: item.ItemName, Quantity: 1, UnitPrice: 12}},
		PaymentMethod: models.PaymentCash,
		SoldBy:        &operator,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.Complete(context.Background(), rec.Sale.ID, 7), ErrNotOnlineOrder)
	assert.ErrorIs(t, f.Cancel(context.Background(), rec.Sale.ID, 7), ErrNotOnlineOrder)
}

func TestFulfillmentUnknownSale(t *testing.T) {
	db := openTestDB(t)
	f := NewFulfillment(db, nil)

	assert.ErrorIs(t, f.Complete(context.Background(), 999, 7), ErrSaleNotFound)
	assert.ErrorIs(t, f.Cancel(context.Background(), 999, 7), ErrSaleNotFound)
}

func TestPendingOrdersExcludesHandledAndPOS(t *testing.T) {
	db := openTestDB(t)
	f := NewFulfillment(db, nil)
	item := seedItem(t, db, "HW-HEX-001", 20, 9)

	first := placeOnlineOrder(t, db, item, 1)
	second := placeOnlineOrder(t, db, item, 1)
	handled := placeOnlineOrder(t, db, item, 1)
	require.NoError(t, f.Complete(context.Background(), handled.Sale.ID, 7))

	operator := uint(1)
	_, err := NewRecorder(db, nil).Checkout(context.Background(), CheckoutInput{
		Lines:         []Line{{InventoryID: item.ID, ItemName: item.ItemName, Quantity: 1, UnitPrice: 9}},
		PaymentMethod: models.PaymentCash,
		SoldBy:        &operator,
	})
	require.NoError(t, err)

	pending, err := f.PendingOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.Sale.ID, pending[0].ID, "oldest first")
	assert.Equal(t, second.Sale.ID, pending[1].ID)
}

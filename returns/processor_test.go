package returns

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

func seedSale(t *testing.T, db *gorm.DB, total float64) models.Sale {
	t.Helper()

	sale := models.Sale{
		SaleNumber:    "SALE-20260901-0001",
		TotalAmount:   total,
		PaymentMethod: models.PaymentCash,
		Status:        models.SaleCompleted,
	}
	require.NoError(t, db.Create(&sale).Error)
	return sale
}

func statusOf(t *testing.T, db *gorm.DB, id uint) models.Return {
	t.Helper()

	var ret models.Return
	require.NoError(t, db.First(&ret, "id = ?", id).Error)
	return ret
}

func TestRequestCreatesPendingReturn(t *testing.T) {
	db := openTestDB(t)
	p := NewProcessor(db, nil)
	sale := seedSale(t, db, 120)

	requester := uint(3)
	ret, err := p.Request(context.Background(), sale.ID, "Blade arrived chipped", true, &requester)
	require.NoError(t, err)

	assert.Equal(t, models.ReturnPending, ret.Status)
	assert.Equal(t, sale.ID, ret.SaleID)
	assert.True(t, ret.WarrantyClaim)
	assert.Nil(t, ret.RefundAmount)
}

func TestRequestValidation(t *testing.T) {
	db := openTestDB(t)
	p := NewProcessor(db, nil)

	_, err := p.Request(context.Background(), 999, "missing sale", false, nil)
	assert.ErrorIs(t, err, ErrSaleNotFound)

	sale := seedSale(t, db, 50)
	_, err = p.Request(context.Background(), sale.ID, "", false, nil)
	assert.Error(t, err)
}

func TestApproveRecordsRefundAndNotes(t *testing.T) {
	db := openTestDB(t)
	p := NewProcessor(db, nil)
	sale := seedSale(t, db, 200)
	ret, err := p.Request(context.Background(), sale.ID, "Wrong size", false, nil)
	require.NoError(t, err)

	refund := 150.0
	require.NoError(t, p.Approve(context.Background(), ret.ID, 7, &refund, "partial: missing packaging"))

	got := statusOf(t, db, ret.ID)
	assert.Equal(t, models.ReturnApproved, got.Status)
	require.NotNil(t, got.RefundAmount)
	assert.InDelta(t, 150.0, *got.RefundAmount, 0.001)
	require.NotNil(t, got.ProcessedBy)
	assert.EqualValues(t, 7, *got.ProcessedBy)
	assert.NotNil(t, got.ProcessedAt)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "partial: missing packaging", *got.Notes)
}

func TestRefundBounds(t *testing.T) {
	db := openTestDB(t)
	p := NewProcessor(db, nil)
	sale := seedSale(t, db, 100)
	ret, err := p.Request(context.Background(), sale.ID, "Faulty", false, nil)
	require.NoError(t, err)

	over := 100.01
	assert.ErrorIs(t, p.Approve(context.Background(), ret.ID, 7, &over, ""), ErrInvalidRefund)

	negative := -1.0
	assert.ErrorIs(t, p.Approve(context.Background(), ret.ID, 7, &negative, ""), ErrInvalidRefund)

	// A rejected refund leaves the return pending and decidable.
	assert.Equal(t, models.ReturnPending, statusOf(t, db, ret.ID).Status)

	full := 100.0
	assert.NoError(t, p.Approve(context.Background(), ret.ID, 7, &full, ""))
}

func TestDecisionsAreTerminal(t *testing.T) {
	db := openTestDB(t)
	p := NewProcessor(db, nil)
	sale := seedSale(t, db, 80)

	rejected, err := p.Request(context.Background(), sale.ID, "Changed mind", false, nil)
	require.NoError(t, err)
	require.NoError(t, p.Reject(context.Background(), rejected.ID, 7, "outside return window"))

	assert.ErrorIs(t, p.Approve(context.Background(), rejected.ID, 7, nil, ""), ErrAlreadyProcessed)
	assert.ErrorIs(t, p.Reject(context.Background(), rejected.ID, 7, ""), ErrAlreadyProcessed)
	assert.ErrorIs(t, p.Complete(context.Background(), rejected.ID, 7), ErrNotApproved)
}

func TestCompleteRequiresApproval(t *testing.T) {
	db := openTestDB(t)
	p := NewProcessor(db, nil)
	sale := seedSale(t, db, 60)
	ret, err := p.Request(context.Background(), sale.ID, "Defective", false, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, p.Complete(context.Background(), ret.ID, 7), ErrNotApproved)

	refund := 60.0
	require.NoError(t, p.Approve(context.Background(), ret.ID, 7, &refund, ""))
	require.NoError(t, p.Complete(context.Background(), ret.ID, 9))

	got := statusOf(t, db, ret.ID)
	assert.Equal(t, models.ReturnCompleted, got.Status)
	require.NotNil(t, got.ProcessedBy)
	assert.EqualValues(t, 9, *got.ProcessedBy)

	assert.ErrorIs(t, p.Complete(context.Background(), ret.ID, 9), ErrNotApproved)
}

func TestUnknownReturn(t *testing.T) {
	db := openTestDB(t)
	p := NewProcessor(db, nil)

	assert.ErrorIs(t, p.Approve(context.Background(), 999, 7, nil, ""), ErrReturnNotFound)
	assert.ErrorIs(t, p.Reject(context.Background(), 999, 7, ""), ErrReturnNotFound)
	assert.ErrorIs(t, p.Complete(context.Background(), 999, 7), ErrReturnNotFound)
}

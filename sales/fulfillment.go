package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Patricemapiye-ctrl/navira-forge/metrics"
	"github.com/Patricemapiye-ctrl/navira-forge/models"
	"github.com/Patricemapiye-ctrl/navira-forge/realtime"
	"gorm.io/gorm"
)

var (
	// ErrSaleNotFound is returned when the sale does not exist.
	ErrSaleNotFound = errors.New("sales: sale not found")

	// ErrNotOnlineOrder is returned for fulfillment calls against
	// in-person sales, which have no pending lifecycle.
	ErrNotOnlineOrder = errors.New("sales: not an online order")

	// ErrAlreadyHandled is returned when the order has already left
	// pending. Completed and cancelled are terminal.
	ErrAlreadyHandled = errors.New("sales: order already handled")
)

// Fulfillment moves online orders out of pending. Transitions are guarded
// by a conditional update on the current status, so a double-click or a
// second device can never transition the same order twice.
type Fulfillment struct {
	db   *gorm.DB
	feed *realtime.Hub
}

// NewFulfillment creates the fulfillment workflow. feed may be nil.
func NewFulfillment(db *gorm.DB, feed *realtime.Hub) *Fulfillment {
	return &Fulfillment{db: db, feed: feed}
}

// Complete marks a pending online order as completed, stamping the handler.
func (f *Fulfillment) Complete(ctx context.Context, saleID, handledBy uint) error {
	if err := f.transition(ctx, saleID, handledBy, models.SaleCompleted, false); err != nil {
		return err
	}
	metrics.OrdersHandled.WithLabelValues("completed").Inc()
	return nil
}

// Cancel marks a pending online order as cancelled and credits the sold
// quantities back to inventory in the same transaction: the stock was
// decremented at checkout and the goods never left the store.
func (f *Fulfillment) Cancel(ctx context.Context, saleID, handledBy uint) error {
	if err := f.transition(ctx, saleID, handledBy, models.SaleCancelled, true); err != nil {
		return err
	}
	metrics.OrdersHandled.WithLabelValues("cancelled").Inc()
	return nil
}

func (f *Fulfillment) transition(ctx context.Context, saleID, handledBy uint, to models.SaleStatus, restock bool) error {
	err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Sale{}).
			Where("id = ? AND is_online = ? AND status = ?", saleID, true, models.SalePending).
			Updates(map[string]interface{}{
				"status":     to,
				"handled_by": handledBy,
				"handled_at": now,
			})
		if res.Error != nil {
			return fmt.Errorf("update order status: %w", res.Error)
		}

		if res.RowsAffected == 0 {
			var sale models.Sale
			err := tx.First(&sale, "id = ?", saleID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSaleNotFound
			}
			if err != nil {
				return err
			}
			if !sale.IsOnline {
				return ErrNotOnlineOrder
			}
			return fmt.Errorf("%w: status is %s", ErrAlreadyHandled, sale.Status)
		}

		if restock {
			var items []models.SaleItem
			if err := tx.Find(&items, "sale_id = ?", saleID).Error; err != nil {
				return fmt.Errorf("load sale items: %w", err)
			}
			for _, item := range items {
				res := tx.Model(&models.InventoryItem{}).
					Where("id = ?", item.InventoryID).
					UpdateColumn("quantity", gorm.Expr("quantity + ?", item.Quantity))
				if res.Error != nil {
					return fmt.Errorf("restock item %d: %w", item.InventoryID, res.Error)
				}
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	if f.feed != nil {
		f.feed.Publish(realtime.EventOrderUpdated, map[string]interface{}{
			"sale_id": saleID,
			"status":  to,
		})
		if restock {
			f.feed.Publish(realtime.EventInventoryUpdated, map[string]interface{}{
				"sale_id":   saleID,
				"restocked": true,
			})
		}
	}
	return nil
}

// PendingOrders lists online orders still waiting for staff action,
// oldest first.
func (f *Fulfillment) PendingOrders(ctx context.Context) ([]models.Sale, error) {
	var orders []models.Sale
	err := f.db.WithContext(ctx).
		Where("is_online = ? AND status = ?", true, models.SalePending).
		Order("sale_date ASC").
		Find(&orders).Error
	return orders, err
}

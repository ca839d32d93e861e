// Package sales implements the sale recorder and the fulfillment workflow
// for online orders. The recorder is the only path that decrements
// inventory: a checkout runs as a single database transaction covering
// number allocation, the sale header, its line items, and a conditional
// stock decrement per line, so a failure at any step leaves no partial
// sale behind.
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
	// ErrEmptyCart is returned when a checkout carries no lines.
	ErrEmptyCart = errors.New("sales: cart is empty")

	// ErrInvalidLine is returned for a line with a non-positive quantity
	// or a negative unit price.
	ErrInvalidLine = errors.New("sales: invalid line")

	// ErrInvalidPayment is returned for an unknown payment method.
	ErrInvalidPayment = errors.New("sales: invalid payment method")

	// ErrUnknownItem is returned when a line references an inventory item
	// that does not exist.
	ErrUnknownItem = errors.New("sales: unknown inventory item")

	// ErrInsufficientStock is returned when the conditional decrement
	// matched no row: the item exists but holds fewer units than the line
	// asks for. The whole sale is rolled back.
	ErrInsufficientStock = errors.New("sales: insufficient stock")
)

// Line is one item of a checkout: the inventory reference plus the
// quantity and the unit price and name the customer saw in their cart.
// Name and price are denormalized onto the sale item so later catalog
// edits never rewrite history.
type Line struct {
	InventoryID uint
	ItemName    string
	Quantity    int
	UnitPrice   float64
}

// CheckoutInput describes a finalized cart ready to be recorded.
type CheckoutInput struct {
	Lines           []Line
	PaymentMethod   models.PaymentMethod
	CustomerName    string
	CustomerContact string

	// SoldBy identifies the operator for in-person sales; nil for
	// storefront checkouts.
	SoldBy *uint

	// Online marks storefront checkouts, which start in pending status
	// and go through fulfillment. In-person sales complete at the counter.
	Online bool
}

// RecordedSale is a committed sale with its lines, ready for receipt
// rendering.
type RecordedSale struct {
	Sale  models.Sale       `json:"sale"`
	Items []models.SaleItem `json:"items"`
}

// Recorder converts finalized carts into persisted sales.
type Recorder struct {
	db   *gorm.DB
	feed *realtime.Hub
}

// NewRecorder creates a recorder. feed may be nil when no realtime
// notifications are wanted (tests, batch tools).
func NewRecorder(db *gorm.DB, feed *realtime.Hub) *Recorder {
	return &Recorder{db: db, feed: feed}
}

// Checkout records a sale and decrements inventory, all inside one
// transaction. The stock check is the atomic conditional update
//
//	UPDATE inventory SET quantity = quantity - n
//	WHERE id = ? AND quantity >= n
//
// so two concurrent sales for the last unit can never both commit: the
// loser's update matches zero rows and its whole sale rolls back with
// ErrInsufficientStock.
func (r *Recorder) Checkout(ctx context.Context, in CheckoutInput) (*RecordedSale, error) {
	if len(in.Lines) == 0 {
		metrics.CheckoutRejected.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}
	if !in.PaymentMethod.Valid() {
		metrics.CheckoutRejected.WithLabelValues("invalid_payment").Inc()
		return nil, fmt.Errorf("%w: %q", ErrInvalidPayment, in.PaymentMethod)
	}

	var total float64
	var units int
	for _, l := range in.Lines {
		if l.Quantity <= 0 || l.UnitPrice < 0 {
			metrics.CheckoutRejected.WithLabelValues("invalid_line").Inc()
			return nil, fmt.Errorf("%w: item %d qty %d price %.2f", ErrInvalidLine, l.InventoryID, l.Quantity, l.UnitPrice)
		}
		total += float64(l.Quantity) * l.UnitPrice
		units += l.Quantity
	}

	var rec *RecordedSale
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		number, err := NextNumber(tx, now)
		if err != nil {
			return err
		}

		status := models.SaleCompleted
		if in.Online {
			status = models.SalePending
		}

		sale := models.Sale{
			SaleNumber:      number,
			TotalAmount:     total,
			PaymentMethod:   in.PaymentMethod,
			CustomerName:    optional(in.CustomerName),
			CustomerContact: optional(in.CustomerContact),
			SoldBy:          in.SoldBy,
			IsOnline:        in.Online,
			Status:          status,
			SaleDate:        now,
		}
		if err := tx.Create(&sale).Error; err != nil {
			return fmt.Errorf("create sale header: %w", err)
		}

		items := make([]models.SaleItem, 0, len(in.Lines))
		for _, l := range in.Lines {
			items = append(items, models.SaleItem{
				SaleID:      sale.ID,
				InventoryID: l.InventoryID,
				ItemName:    l.ItemName,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				Subtotal:    float64(l.Quantity) * l.UnitPrice,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("create sale items: %w", err)
		}

		for _, l := range in.Lines {
			res := tx.Model(&models.InventoryItem{}).
				Where("id = ? AND quantity >= ?", l.InventoryID, l.Quantity).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", l.Quantity))
			if res.Error != nil {
				return fmt.Errorf("decrement stock for item %d: %w", l.InventoryID, res.Error)
			}
			if res.RowsAffected == 0 {
				var n int64
				if err := tx.Model(&models.InventoryItem{}).Where("id = ?", l.InventoryID).Count(&n).Error; err != nil {
					return err
				}
				if n == 0 {
					return fmt.Errorf("%w: item %d", ErrUnknownItem, l.InventoryID)
				}
				return fmt.Errorf("%w: item %d wants %d", ErrInsufficientStock, l.InventoryID, l.Quantity)
			}
		}

		rec = &RecordedSale{Sale: sale, Items: items}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInsufficientStock):
			metrics.CheckoutRejected.WithLabelValues("insufficient_stock").Inc()
		case errors.Is(err, ErrUnknownItem):
			metrics.CheckoutRejected.WithLabelValues("unknown_item").Inc()
		default:
			metrics.CheckoutRejected.WithLabelValues("store_error").Inc()
		}
		return nil, err
	}

	channel := "pos"
	if in.Online {
		channel = "online"
	}
	metrics.SalesRecorded.WithLabelValues(channel).Inc()
	metrics.ItemsSold.Add(float64(units))
	metrics.Revenue.Add(total)

	if r.feed != nil {
		r.feed.Publish(realtime.EventSaleRecorded, rec.Sale)
		for _, item := range rec.Items {
			r.feed.Publish(realtime.EventInventoryUpdated, map[string]interface{}{
				"inventory_id": item.InventoryID,
				"sold":         item.Quantity,
			})
		}
	}

	return rec, nil
}

// optional maps an empty string to nil so it is stored as NULL.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Package returns implements the return-request lifecycle: a customer or
// staff member files a return against a prior sale, staff approve or
// reject it with an optional refund, and approved returns are completed
// once the refund is paid out. Rejected and completed are terminal.
package returns

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
	// ErrSaleNotFound is returned when filing a return against a sale
	// that does not exist.
	ErrSaleNotFound = errors.New("returns: sale not found")

	// ErrReturnNotFound is returned when the return does not exist.
	ErrReturnNotFound = errors.New("returns: return not found")

	// ErrAlreadyProcessed is returned when deciding a return that has
	// already left pending.
	ErrAlreadyProcessed = errors.New("returns: return already processed")

	// ErrNotApproved is returned when completing a return that is not in
	// approved status.
	ErrNotApproved = errors.New("returns: return is not approved")

	// ErrInvalidRefund is returned for a negative refund or one exceeding
	// the original sale total.
	ErrInvalidRefund = errors.New("returns: invalid refund amount")
)

// Processor owns all mutations of return requests.
//
// Approving a return does not credit inventory back: the condition of
// returned goods is unknown until inspected, so restocking stays a manual
// inventory adjustment.
type Processor struct {
	db   *gorm.DB
	feed *realtime.Hub
}

// NewProcessor creates the returns workflow. feed may be nil.
func NewProcessor(db *gorm.DB, feed *realtime.Hub) *Processor {
	return &Processor{db: db, feed: feed}
}

// Request files a pending return against an existing sale.
func (p *Processor) Request(ctx context.Context, saleID uint, reason string, warrantyClaim bool, requestedBy *uint) (*models.Return, error) {
	if reason == "" {
		return nil, errors.New("returns: reason is required")
	}

	var ret models.Return
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Sale{}).Where("id = ?", saleID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrSaleNotFound
		}

		ret = models.Return{
			SaleID:        saleID,
			Reason:        reason,
			WarrantyClaim: warrantyClaim,
			Status:        models.ReturnPending,
			RequestedBy:   requestedBy,
		}
		return tx.Create(&ret).Error
	})
	if err != nil {
		return nil, err
	}

	if p.feed != nil {
		p.feed.Publish(realtime.EventReturnUpdated, ret)
	}
	return &ret, nil
}

// Approve moves a pending return to approved, recording the refund amount
// and decision notes. The refund, when given, must not exceed the original
// sale total.
func (p *Processor) Approve(ctx context.Context, returnID, processedBy uint, refundAmount *float64, notes string) error {
	if err := p.decide(ctx, returnID, processedBy, models.ReturnApproved, refundAmount, notes); err != nil {
		return err
	}
	metrics.ReturnsProcessed.WithLabelValues("approved").Inc()
	p.publish(returnID, models.ReturnApproved)
	return nil
}

// Reject moves a pending return to rejected. Rejected is terminal.
func (p *Processor) Reject(ctx context.Context, returnID, processedBy uint, notes string) error {
	if err := p.decide(ctx, returnID, processedBy, models.ReturnRejected, nil, notes); err != nil {
		return err
	}
	metrics.ReturnsProcessed.WithLabelValues("rejected").Inc()
	p.publish(returnID, models.ReturnRejected)
	return nil
}

func (p *Processor) decide(ctx context.Context, returnID, processedBy uint, to models.ReturnStatus, refundAmount *float64, notes string) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if refundAmount != nil {
			var ret models.Return
			err := tx.First(&ret, "id = ?", returnID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReturnNotFound
			}
			if err != nil {
				return err
			}

			var sale models.Sale
			if err := tx.First(&sale, "id = ?", ret.SaleID).Error; err != nil {
				return fmt.Errorf("load original sale: %w", err)
			}
			if *refundAmount < 0 || *refundAmount > sale.TotalAmount {
				return fmt.Errorf("%w: %.2f against sale total %.2f", ErrInvalidRefund, *refundAmount, sale.TotalAmount)
			}
		}

		now := time.Now()
		updates := map[string]interface{}{
			"status":       to,
			"processed_by": processedBy,
			"processed_at": now,
		}
		if refundAmount != nil {
			updates["refund_amount"] = *refundAmount
		}
		if notes != "" {
			updates["notes"] = notes
		}

		res := tx.Model(&models.Return{}).
			Where("id = ? AND status = ?", returnID, models.ReturnPending).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("update return status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return p.explainMiss(tx, returnID, ErrAlreadyProcessed)
		}
		return nil
	})
}

// Complete finalizes an approved return once the refund has been paid out.
func (p *Processor) Complete(ctx context.Context, returnID, processedBy uint) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Return{}).
			Where("id = ? AND status = ?", returnID, models.ReturnApproved).
			Updates(map[string]interface{}{
				"status":       models.ReturnCompleted,
				"processed_by": processedBy,
				"processed_at": time.Now(),
			})
		if res.Error != nil {
			return fmt.Errorf("complete return: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return p.explainMiss(tx, returnID, ErrNotApproved)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.ReturnsProcessed.WithLabelValues("completed").Inc()
	p.publish(returnID, models.ReturnCompleted)
	return nil
}

// explainMiss distinguishes a missing return from a status-guard miss.
func (p *Processor) explainMiss(tx *gorm.DB, returnID uint, guardErr error) error {
	var ret models.Return
	err := tx.First(&ret, "id = ?", returnID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReturnNotFound
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: status is %s", guardErr, ret.Status)
}

func (p *Processor) publish(returnID uint, status models.ReturnStatus) {
	if p.feed == nil {
		return
	}
	p.feed.Publish(realtime.EventReturnUpdated, map[string]interface{}{
		"return_id": returnID,
		"status":    status,
	})
}

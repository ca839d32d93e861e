package sales

import (
	"errors"
	"fmt"
	"time"

	"github.com/Patricemapiye-ctrl/navira-forge/models"
	"gorm.io/gorm"
)

// NextNumber allocates the next sale number inside tx. Numbers take the
// form SALE-20260901-0001: unique, sortable, and monotonic within a day.
// The per-day counter row is bumped with an atomic UPDATE, so two
// transactions allocating concurrently serialize on the row lock and can
// never observe the same counter value. Rolling back the enclosing
// transaction releases the number along with everything else.
func NextNumber(tx *gorm.DB, now time.Time) (string, error) {
	day := now.Format("20060102")

	res := tx.Model(&models.SaleCounter{}).
		Where("day = ?", day).
		UpdateColumn("counter", gorm.Expr("counter + 1"))
	if res.Error != nil {
		return "", fmt.Errorf("sale number: increment counter: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		// First sale of the day. A concurrent transaction may insert the
		// row between our UPDATE and CREATE; on conflict fall back to
		// incrementing the row that won.
		if err := tx.Create(&models.SaleCounter{Day: day, Counter: 1}).Error; err != nil {
			res = tx.Model(&models.SaleCounter{}).
				Where("day = ?", day).
				UpdateColumn("counter", gorm.Expr("counter + 1"))
			if res.Error != nil {
				return "", fmt.Errorf("sale number: increment after conflict: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return "", errors.New("sale number: counter row missing after conflict")
			}
		}
	}

	var counter models.SaleCounter
	if err := tx.First(&counter, "day = ?", day).Error; err != nil {
		return "", fmt.Errorf("sale number: read counter: %w", err)
	}

	return fmt.Sprintf("SALE-%s-%04d", day, counter.Counter), nil
}

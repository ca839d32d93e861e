package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Reports serves the analytics read models. Everything here is raw
// aggregate SQL over committed sales; nothing mutates state.
type Reports struct {
	DB *gorm.DB
}

// Overview returns the dashboard quick stats for a date range
// (?date_from=, ?date_to=, defaulting to the last 30 days).
func (h *Reports) Overview(c *fiber.Ctx) error {
	dateFrom := c.Query("date_from", time.Now().AddDate(0, 0, -30).Format("2006-01-02"))
	dateTo := c.Query("date_to", time.Now().Format("2006-01-02"))

	var stats struct {
		TotalRevenue float64 `json:"total_revenue"`
		TotalSales   int64   `json:"total_sales"`
		AvgSaleValue float64 `json:"avg_sale_value"`
		ItemsSold    int64   `json:"items_sold"`
	}

	err := h.DB.WithContext(c.Context()).Raw(`
		SELECT
			COALESCE(SUM(total_amount), 0) as total_revenue,
			COUNT(id) as total_sales,
			COALESCE(AVG(total_amount), 0) as avg_sale_value
		FROM sales
		WHERE status != 'cancelled' AND DATE(sale_date) BETWEEN ? AND ?
	`, dateFrom, dateTo).Scan(&stats).Error
	if err != nil {
		return fail(c, err)
	}

	err = h.DB.WithContext(c.Context()).Raw(`
		SELECT COALESCE(SUM(si.quantity), 0)
		FROM sale_items si
		JOIN sales s ON si.sale_id = s.id
		WHERE s.status != 'cancelled' AND DATE(s.sale_date) BETWEEN ? AND ?
	`, dateFrom, dateTo).Scan(&stats.ItemsSold).Error
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"stats":     stats,
		"date_from": dateFrom,
		"date_to":   dateTo,
	})
}

// Trend returns daily revenue and sale counts for the last ?days= days
// (default 7), newest first. Cancelled sales are excluded.
func (h *Reports) Trend(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days < 1 || days > 365 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	var trend []struct {
		Date    string  `json:"date"`
		Revenue float64 `json:"revenue"`
		Sales   int64   `json:"sales"`
	}

	err := h.DB.WithContext(c.Context()).Raw(`
		SELECT
			DATE(sale_date) as date,
			SUM(total_amount) as revenue,
			COUNT(id) as sales
		FROM sales
		WHERE status != 'cancelled' AND DATE(sale_date) >= ?
		GROUP BY DATE(sale_date)
		ORDER BY DATE(sale_date) DESC
	`, since).Scan(&trend).Error
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"trend": trend, "days": days})
}

// TopItems returns the best sellers by units sold for a date range,
// limited by ?limit= (default 10).
func (h *Reports) TopItems(c *fiber.Ctx) error {
	dateFrom := c.Query("date_from", time.Now().AddDate(0, 0, -30).Format("2006-01-02"))
	dateTo := c.Query("date_to", time.Now().Format("2006-01-02"))
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var top []struct {
		InventoryID uint    `json:"inventory_id"`
		ItemName    string  `json:"item_name"`
		UnitsSold   int64   `json:"units_sold"`
		Revenue     float64 `json:"revenue"`
	}

	err := h.DB.WithContext(c.Context()).Raw(`
		SELECT
			si.inventory_id as inventory_id,
			si.item_name as item_name,
			SUM(si.quantity) as units_sold,
			SUM(si.subtotal) as revenue
		FROM sale_items si
		JOIN sales s ON si.sale_id = s.id
		WHERE s.status != 'cancelled' AND DATE(s.sale_date) BETWEEN ? AND ?
		GROUP BY si.inventory_id, si.item_name
		ORDER BY SUM(si.quantity) DESC
		LIMIT ?
	`, dateFrom, dateTo, limit).Scan(&top).Error
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"items":     top,
		"date_from": dateFrom,
		"date_to":   dateTo,
	})
}

// PaymentBreakdown groups revenue by payment method for a date range.
func (h *Reports) PaymentBreakdown(c *fiber.Ctx) error {
	dateFrom := c.Query("date_from", time.Now().AddDate(0, 0, -30).Format("2006-01-02"))
	dateTo := c.Query("date_to", time.Now().Format("2006-01-02"))

	var breakdown []struct {
		PaymentMethod string  `json:"payment_method"`
		Sales         int64   `json:"sales"`
		Revenue       float64 `json:"revenue"`
	}

	err := h.DB.WithContext(c.Context()).Raw(`
		SELECT
			payment_method,
			COUNT(id) as sales,
			SUM(total_amount) as revenue
		FROM sales
		WHERE status != 'cancelled' AND DATE(sale_date) BETWEEN ? AND ?
		GROUP BY payment_method
		ORDER BY SUM(total_amount) DESC
	`, dateFrom, dateTo).Scan(&breakdown).Error
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"breakdown": breakdown,
		"date_from": dateFrom,
		"date_to":   dateTo,
	})
}

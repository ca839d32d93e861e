// Package metrics defines the Prometheus instruments for the sales and
// inventory workflows, exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SalesRecorded counts committed sales by channel (pos or online).
	SalesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "navira",
			Subsystem: "sales",
			Name:      "recorded_total",
			Help:      "Total number of sales committed.",
		},
		[]string{"channel"},
	)

	// ItemsSold counts units decremented from inventory by committed sales.
	ItemsSold = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "navira",
			Subsystem: "sales",
			Name:      "items_sold_total",
			Help:      "Total units sold across all sales.",
		},
	)

	// Revenue accumulates the total amount of committed sales.
	Revenue = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "navira",
			Subsystem: "sales",
			Name:      "revenue_total",
			Help:      "Total revenue from committed sales.",
		},
	)

	// CheckoutRejected counts checkouts that failed before commit, by reason.
	CheckoutRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "navira",
			Subsystem: "sales",
			Name:      "checkout_rejected_total",
			Help:      "Checkout attempts rejected before any write was kept.",
		},
		[]string{"reason"},
	)

	// OrdersHandled counts fulfillment transitions by outcome.
	OrdersHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "navira",
			Subsystem: "orders",
			Name:      "handled_total",
			Help:      "Online orders moved out of pending, by outcome.",
		},
		[]string{"outcome"},
	)

	// ReturnsProcessed counts return decisions by outcome.
	ReturnsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "navira",
			Subsystem: "returns",
			Name:      "processed_total",
			Help:      "Return requests processed, by outcome.",
		},
		[]string{"outcome"},
	)
)

package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine-level Prometheus metrics, aggregated across sessions and
// exposed on /metrics.

var barsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "barsim",
		Subsystem: "engine",
		Name:      "bars_processed_total",
		Help:      "Bars processed by the matching engine",
	},
	[]string{"symbol"},
)

var fillsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "barsim",
		Subsystem: "engine",
		Name:      "fills_total",
		Help:      "Order fills executed, partial or full",
	},
	[]string{"symbol"},
)

var ordersTerminalTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "barsim",
		Subsystem: "engine",
		Name:      "orders_terminal_total",
		Help:      "Orders that reached a terminal status",
	},
	[]string{"status"},
)

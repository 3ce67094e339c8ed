package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics.
var (
	productsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_products_created_total",
			Help: "Total number of products created",
		},
	)

	productsDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_products_deleted_total",
			Help: "Total number of products deleted",
		},
	)

	productsStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_products_stored",
			Help: "Number of products currently held in memory",
		},
	)
)

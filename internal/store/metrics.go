package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "store_operations_total",
		Help: "Remote store operations by operation and outcome",
	},
	[]string{"op", "outcome"},
)

func observe(op string, err error) {
	outcome := "ok"
	switch {
	case IsNotFound(err):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	operationsTotal.WithLabelValues(op, outcome).Inc()
}

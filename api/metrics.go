package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Calculation outcome labels.
const (
	outcomeOK         = "ok"
	outcomeDegenerate = "degenerate"
	outcomeFailed     = "failed"
)

// CalculationsTotal counts calculations by outcome.
var CalculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "payroll",
	Subsystem: "engine",
	Name:      "calculations_total",
	Help:      "Payroll calculations by outcome (ok, degenerate, failed).",
}, []string{"outcome"})

// CalculationDuration tracks single calculation latency.
var CalculationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "payroll",
	Subsystem: "engine",
	Name:      "calculation_duration_seconds",
	Help:      "Time spent in one payroll calculation.",
	Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
})

// RuleGapsTotal counts rule records skipped as configuration gaps.
var RuleGapsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "payroll",
	Subsystem: "rules",
	Name:      "configuration_gaps_total",
	Help:      "Rule records skipped because their parameters could not be decoded.",
})

// BatchSize tracks the number of requests per batch call.
var BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "payroll",
	Subsystem: "api",
	Name:      "batch_size",
	Help:      "Requests per batch calculation.",
	Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
})

// ReplacementDaysRecorded counts replacement-day facts persisted.
var ReplacementDaysRecorded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "payroll",
	Subsystem: "store",
	Name:      "replacement_days_recorded_total",
	Help:      "Replacement-day facts written to the store.",
})

func observeCalculation(outcome string, gaps int, elapsed time.Duration) {
	CalculationsTotal.WithLabelValues(outcome).Inc()
	CalculationDuration.Observe(elapsed.Seconds())
	if gaps > 0 {
		RuleGapsTotal.Add(float64(gaps))
	}
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// LendingMetrics tracks operation outcomes and ledger aggregates for the
// lending and governance modules.
type LendingMetrics struct {
	operations     *prometheus.CounterVec
	failures       *prometheus.CounterVec
	utilization    prometheus.Gauge
	totalLoans     prometheus.Gauge
	totalLiquidity prometheus.Gauge
	feesCollected  prometheus.Gauge
}

var (
	lendingOnce     sync.Once
	lendingRegistry *LendingMetrics
)

// Lending returns the process-wide lending metrics, registering them on first
// use.
func Lending() *LendingMetrics {
	lendingOnce.Do(func() {
		lendingRegistry = &LendingMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "zklend_operations_total",
				Help: "Count of successfully applied operations by name.",
			}, []string{"operation"}),
			failures: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "zklend_operation_failures_total",
				Help: "Count of rejected operations by name and error kind.",
			}, []string{"operation", "kind"}),
			utilization: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "zklend_utilization_rate",
				Help: "Current protocol utilization percentage (unclamped).",
			}),
			totalLoans: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "zklend_total_loans",
				Help: "Outstanding principal across all borrowers.",
			}),
			totalLiquidity: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "zklend_total_liquidity",
				Help: "Liquidity currently available to be borrowed.",
			}),
			feesCollected: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "zklend_fees_collected",
				Help: "Cumulative borrow fees routed to the treasury.",
			}),
		}
		prometheus.MustRegister(
			lendingRegistry.operations,
			lendingRegistry.failures,
			lendingRegistry.utilization,
			lendingRegistry.totalLoans,
			lendingRegistry.totalLiquidity,
			lendingRegistry.feesCollected,
		)
	})
	return lendingRegistry
}

// ObserveOperation records one successfully applied operation.
func (m *LendingMetrics) ObserveOperation(operation string) {
	if m == nil {
		return
	}
	if operation == "" {
		operation = "unknown"
	}
	m.operations.WithLabelValues(operation).Inc()
}

// ObserveFailure records one rejected operation with its error kind.
func (m *LendingMetrics) ObserveFailure(operation, kind string) {
	if m == nil {
		return
	}
	if operation == "" {
		operation = "unknown"
	}
	if kind == "" {
		kind = "unknown"
	}
	m.failures.WithLabelValues(operation, kind).Inc()
}

// SetLedger publishes the current protocol aggregates.
func (m *LendingMetrics) SetLedger(utilization, totalLoans, totalLiquidity, fees uint64) {
	if m == nil {
		return
	}
	m.utilization.Set(float64(utilization))
	m.totalLoans.Set(float64(totalLoans))
	m.totalLiquidity.Set(float64(totalLiquidity))
	m.feesCollected.Set(float64(fees))
}

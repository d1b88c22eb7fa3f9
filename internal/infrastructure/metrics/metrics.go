package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Ledger metrics
	EntriesAppended   *prometheus.CounterVec
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	OperationAmount   *prometheus.HistogramVec

	// Interest metrics
	AccrualRuns  *prometheus.CounterVec
	InterestPaid prometheus.Counter
	AccrualDays  prometheus.Histogram

	// Term deposit metrics
	LotsOpened prometheus.Counter
	LotsClosed *prometheus.CounterVec

	// Stock metrics
	TradesExecuted *prometheus.CounterVec

	// Snapshot metrics
	SnapshotsRecorded *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBErrors *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		EntriesAppended: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minimint_entries_appended_total",
				Help: "Total ledger entries appended by category and bucket",
			},
			[]string{"category", "bucket"},
		),
		OperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minimint_operations_total",
				Help: "Total ledger operations by type and outcome",
			},
			[]string{"operation", "status"},
		),
		OperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "minimint_operation_duration_seconds",
				Help:    "Duration of ledger operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		OperationAmount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "minimint_operation_amount",
				Help:    "Operation amounts in currency units",
				Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 10000},
			},
			[]string{"operation"},
		),

		AccrualRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minimint_accrual_runs_total",
				Help: "Total interest accrual runs by outcome (accrued, noop)",
			},
			[]string{"outcome"},
		),
		InterestPaid: promauto.NewCounter(prometheus.CounterOpts{
			Name: "minimint_interest_paid_total",
			Help: "Total interest credited in currency units",
		}),
		AccrualDays: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "minimint_accrual_days",
			Help:    "Days covered per accrual run",
			Buckets: []float64{1, 2, 7, 14, 30, 60, 90},
		}),

		LotsOpened: promauto.NewCounter(prometheus.CounterOpts{
			Name: "minimint_lots_opened_total",
			Help: "Total term deposit lots opened",
		}),
		LotsClosed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minimint_lots_closed_total",
				Help: "Total term deposit lots closed by outcome (matured, broken)",
			},
			[]string{"outcome"},
		),

		TradesExecuted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minimint_trades_executed_total",
				Help: "Total stock trades by side (buy, sell)",
			},
			[]string{"side"},
		),

		SnapshotsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minimint_snapshots_recorded_total",
				Help: "Total external snapshots by outcome (recorded, noop, regression)",
			},
			[]string{"outcome"},
		),

		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minimint_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "minimint_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minimint_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minimint_auth_attempts_total",
				Help: "Total authentication attempts by status",
			},
			[]string{"status"},
		),

		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "minimint_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}

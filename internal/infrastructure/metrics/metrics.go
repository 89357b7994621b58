package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Ledger metrics
	TransactionsPosted   *prometheus.CounterVec
	TransactionsReplayed prometheus.Counter
	TransactionErrors    *prometheus.CounterVec
	PostDuration         prometheus.Histogram
	EntryAmount          prometheus.Histogram
	TxRetries            prometheus.Counter

	// Settlement metrics
	HandsSettled     prometheus.Counter
	SettlementAmount prometheus.Histogram
	SeatsCashedOut   *prometheus.CounterVec
	ShowdownDuration prometheus.Histogram

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics. Call it once per
// process; promauto registers on the default registry.
func New() *Metrics {
	return &Metrics{
		// Ledger metrics
		TransactionsPosted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chipledger_transactions_posted_total",
				Help: "Total number of ledger transactions posted",
			},
			[]string{"type"},
		),
		TransactionsReplayed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chipledger_transactions_replayed_total",
			Help: "Total number of idempotent transaction replays",
		}),
		TransactionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chipledger_transaction_errors_total",
				Help: "Total number of posting errors by code",
			},
			[]string{"code"},
		),
		PostDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chipledger_post_duration_seconds",
			Help:    "Duration of transaction postings",
			Buckets: prometheus.DefBuckets,
		}),
		EntryAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chipledger_entry_amount_chips",
			Help:    "Absolute entry amounts in chips",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TxRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chipledger_tx_retries_total",
			Help: "Total transaction retries after transient failures",
		}),

		// Settlement metrics
		HandsSettled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chipledger_hands_settled_total",
			Help: "Total number of poker hands settled",
		}),
		SettlementAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chipledger_settlement_amount_chips",
			Help:    "Total pot size per settled hand",
			Buckets: []float64{10, 100, 1000, 10000, 100000, 1000000},
		}),
		SeatsCashedOut: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chipledger_seats_cashed_out_total",
				Help: "Total number of seat cash-outs by reason",
			},
			[]string{"reason"},
		),
		ShowdownDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chipledger_showdown_duration_seconds",
			Help:    "Duration of showdown evaluations",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chipledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chipledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

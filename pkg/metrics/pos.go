package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// POSMetrics records terminal activity: checkouts, payments, register and collaborator calls.
// A nil *POSMetrics is valid and records nothing.
type POSMetrics struct {
	ordersFinalized  *prometheus.CounterVec
	revenue          *prometheus.CounterVec
	paymentsApplied  *prometheus.CounterVec
	paymentsClamped  prometheus.Counter
	registerEvents   *prometheus.CounterVec
	feeMisses        prometheus.Counter
	smartOrder       *prometheus.CounterVec
	smartOrderTiming prometheus.Histogram
	fiscal           *prometheus.CounterVec
	jobRuns          *prometheus.CounterVec
	jobDuration      *prometheus.HistogramVec
}

// NewPOSMetrics registers the terminal metrics on the provided registerer.
func NewPOSMetrics(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	m := &POSMetrics{
		ordersFinalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_orders_finalized_total",
			Help: "Orders finalized at the terminal.",
		}, []string{"order_type"}),
		revenue: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_revenue_total",
			Help: "Order totals finalized, by primary payment method.",
		}, []string{"payment_method"}),
		paymentsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_payments_applied_total",
			Help: "Payment parts applied to a checkout ledger.",
		}, []string{"payment_method"}),
		paymentsClamped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_payments_clamped_total",
			Help: "Payment parts whose requested amount exceeded the remaining balance.",
		}),
		registerEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_register_events_total",
			Help: "Register open/close events.",
		}, []string{"event"}),
		feeMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pos_delivery_fee_miss_total",
			Help: "Delivery neighborhoods not found in the fee table.",
		}),
		smartOrder: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_smart_order_requests_total",
			Help: "Smart order parse requests by outcome.",
		}, []string{"outcome"}),
		smartOrderTiming: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pos_smart_order_duration_seconds",
			Help:    "Duration of smart order parse requests in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		fiscal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_fiscal_submissions_total",
			Help: "Fiscal submissions by outcome.",
		}, []string{"outcome"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pos_cron_job_runs_total",
			Help: "Housekeeping job runs by outcome.",
		}, []string{"job", "outcome"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pos_cron_job_duration_seconds",
			Help:    "Duration of housekeeping job runs in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
	}
	reg.MustRegister(
		m.ordersFinalized,
		m.revenue,
		m.paymentsApplied,
		m.paymentsClamped,
		m.registerEvents,
		m.feeMisses,
		m.smartOrder,
		m.smartOrderTiming,
		m.fiscal,
		m.jobRuns,
		m.jobDuration,
	)
	return m
}

// OrderFinalized counts a finalized order and its total.
func (m *POSMetrics) OrderFinalized(orderType, primaryMethod string, total decimal.Decimal) {
	if m == nil || m.ordersFinalized == nil {
		return
	}
	m.ordersFinalized.WithLabelValues(normalizeLabel(orderType)).Inc()
	m.revenue.WithLabelValues(normalizeLabel(primaryMethod)).Add(total.InexactFloat64())
}

// PaymentApplied counts an applied part; clamped parts are counted separately as well.
func (m *POSMetrics) PaymentApplied(method string, clamped bool) {
	if m == nil || m.paymentsApplied == nil {
		return
	}
	m.paymentsApplied.WithLabelValues(normalizeLabel(method)).Inc()
	if clamped {
		m.paymentsClamped.Inc()
	}
}

func (m *POSMetrics) RegisterEvent(event string) {
	if m == nil || m.registerEvents == nil {
		return
	}
	m.registerEvents.WithLabelValues(normalizeLabel(event)).Inc()
}

func (m *POSMetrics) DeliveryFeeMiss() {
	if m == nil || m.feeMisses == nil {
		return
	}
	m.feeMisses.Inc()
}

// SmartOrder records one parse request.
func (m *POSMetrics) SmartOrder(outcome string, duration time.Duration) {
	if m == nil || m.smartOrder == nil {
		return
	}
	m.smartOrder.WithLabelValues(normalizeLabel(outcome)).Inc()
	m.smartOrderTiming.Observe(duration.Seconds())
}

func (m *POSMetrics) FiscalSubmission(outcome string) {
	if m == nil || m.fiscal == nil {
		return
	}
	m.fiscal.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// JobRun records one housekeeping job execution.
func (m *POSMetrics) JobRun(job string, err error, duration time.Duration) {
	if m == nil || m.jobRuns == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.jobRuns.WithLabelValues(normalizeLabel(job), outcome).Inc()
	m.jobDuration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

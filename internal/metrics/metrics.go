package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Count outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeWarning = "warning"
	OutcomeFailure = "failure"
)

// CountMetrics records inventory count submissions.
type CountMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
	cells    prometheus.Counter
	logRows  prometheus.Gauge
}

// NewCountMetrics registers the count metrics on the provided registerer.
func NewCountMetrics(reg prometheus.Registerer) *CountMetrics {
	if reg == nil {
		return &CountMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_count_duration_seconds",
		Help:    "Duration of inventory count submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_count_submissions_total",
		Help: "Inventory count submissions by outcome.",
	}, []string{"outcome"})
	cells := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_count_cells_written_total",
		Help: "Quantity cells written to the count and inventory sheets.",
	})
	logRows := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "inventory_log_rows",
		Help: "Rows in the count log after the last successful rewrite.",
	})
	reg.MustRegister(duration, outcomes, cells, logRows)
	return &CountMetrics{
		duration: duration,
		outcomes: outcomes,
		cells:    cells,
		logRows:  logRows,
	}
}

// Observe records one submission.
func (c *CountMetrics) Observe(outcome string, took time.Duration, cellsWritten int) {
	if c == nil || c.outcomes == nil {
		return
	}
	c.duration.WithLabelValues(outcome).Observe(took.Seconds())
	c.outcomes.WithLabelValues(outcome).Inc()
	c.cells.Add(float64(cellsWritten))
}

// SetLogRows records the size of the rewritten log.
func (c *CountMetrics) SetLogRows(rows int) {
	if c == nil || c.logRows == nil {
		return
	}
	c.logRows.Set(float64(rows))
}

// LoginMetrics records login attempts.
type LoginMetrics struct {
	attempts *prometheus.CounterVec
}

// NewLoginMetrics registers the login metrics on the provided registerer.
func NewLoginMetrics(reg prometheus.Registerer) *LoginMetrics {
	if reg == nil {
		return &LoginMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_login_attempts_total",
		Help: "Login attempts by result.",
	}, []string{"result"})
	reg.MustRegister(attempts)
	return &LoginMetrics{attempts: attempts}
}

// Inc counts one login attempt with the given result.
func (l *LoginMetrics) Inc(result string) {
	if l == nil || l.attempts == nil {
		return
	}
	if result == "" {
		result = "unknown"
	}
	l.attempts.WithLabelValues(result).Inc()
}

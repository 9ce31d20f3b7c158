package metrics

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	visitorCountDesc = prometheus.NewDesc(
		"hemkey_visitor_count",
		"Current visitor count as read from the counter store",
		[]string{"backend"},
		nil,
	)

	counterOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hemkey_visitor_counter_operations_total",
			Help: "Visitor counter API operations by operation, backend and outcome",
		},
		[]string{"op", "backend", "outcome"},
	)

	mailDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hemkey_mail_deliveries_total",
			Help: "Inquiry email deliveries by recipient kind and outcome",
		},
		[]string{"recipient", "outcome"},
	)
)

// CountReader is the part of the counter store the collector needs.
type CountReader interface {
	Read(ctx context.Context) (int64, error)
	Backend() string
}

// VisitorCollector is a custom Prometheus collector that reads the visitor
// count from the store on each scrape.
type VisitorCollector struct {
	store   CountReader
	timeout time.Duration
}

// NewVisitorCollector creates a collector for store.
func NewVisitorCollector(store CountReader) *VisitorCollector {
	return &VisitorCollector{store: store, timeout: 5 * time.Second}
}

// Describe sends the metric descriptor to the channel.
func (c *VisitorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- visitorCountDesc
}

// Collect reads the current count and emits it as a gauge.
func (c *VisitorCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	count, err := c.store.Read(ctx)
	if err != nil {
		slog.Error("failed to collect visitor count metric", "backend", c.store.Backend(), "error", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(
		visitorCountDesc,
		prometheus.GaugeValue,
		float64(count),
		c.store.Backend(),
	)
}

var (
	initOnce sync.Once
	enabled  atomic.Bool
)

// Init registers the collectors with the default registry.
// Must be called once at startup; later calls are ignored.
func Init(store CountReader) {
	initOnce.Do(func() {
		prometheus.MustRegister(NewVisitorCollector(store), counterOperations, mailDeliveries)
		enabled.Store(true)
	})
}

// RecordCounterOp counts one visitor counter read or increment.
func RecordCounterOp(op, backend string, err error) {
	if !enabled.Load() {
		return
	}
	counterOperations.WithLabelValues(op, backend, outcome(err)).Inc()
}

// RecordMailDelivery counts one delivery attempt to recipient ("business" or "submitter").
func RecordMailDelivery(recipient string, err error) {
	if !enabled.Load() {
		return
	}
	mailDeliveries.WithLabelValues(recipient, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

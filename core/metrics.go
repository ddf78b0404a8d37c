package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ibft2/validation/messages"
)

// Metrics records validation outcomes and latency. It is optional on
// ValidationContext; a nil *Metrics is a no-op everywhere it's used.
// The outcomes counter is labeled by message type and outcome; the
// histogram measures a single validation call's latency and carries no
// labels.
type Metrics struct {
	outcomes prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics returns a Metrics instance backed by the given CounterVec
// (labels: "type", "outcome") and latency Histogram. It does not
// register either collector with a registry.
func NewMetrics(outcomes *prometheus.CounterVec, duration prometheus.Histogram) *Metrics {
	return &Metrics{
		outcomes: *outcomes,
		duration: duration,
	}
}

func (m *Metrics) observeAcceptance(msgType messages.MessageType) {
	if m == nil {
		return
	}

	m.outcomes.WithLabelValues(msgType.String(), "accepted").Inc()
}

func (m *Metrics) observeRejection(msgType messages.MessageType, kind ErrorKind) {
	if m == nil {
		return
	}

	m.outcomes.WithLabelValues(msgType.String(), kind.String()).Inc()
}

// Observe records the wall-clock duration of one validation call.
func (m *Metrics) Observe(d time.Duration) {
	if m == nil {
		return
	}

	m.duration.Observe(d.Seconds())
}

// NewOutcomesCounterVec builds the CounterVec Metrics expects, with
// the "type" and "outcome" labels pre-declared.
func NewOutcomesCounterVec() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ibft",
		Subsystem: "validation",
		Name:      "messages_total",
		Help:      "Count of validated IBFT messages by type and outcome.",
	}, []string{"type", "outcome"})
}

// NewDurationHistogram builds a latency histogram suitable for the
// Metrics duration field.
func NewDurationHistogram() prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ibft",
		Subsystem: "validation",
		Name:      "duration_seconds",
		Help:      "Latency of a single message validation call.",
		Buckets:   prometheus.DefBuckets,
	})
}

// Package metrics provides the Prometheus-backed taskbatch.MetricsRecorder
// used by the CLI harness, grounded on the metrics recorder pattern the
// aws-ebs-csi-driver example uses: a small set of named collectors
// registered once against a private prometheus.Registry and exposed over
// an HTTP handler.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taskbatch"

// Collector implements taskbatch.MetricsRecorder.
type Collector struct {
	registry          *prometheus.Registry
	batchesDispatched *prometheus.CounterVec
	dispatchDuration  *prometheus.HistogramVec
	phasesPerRun      prometheus.Histogram
}

// NewCollector builds a Collector with its own private registry so that
// embedding this package never collides with a host process's default
// registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		batchesDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_dispatched_total",
			Help:      "Total number of batch calls dispatched to a handler.",
		}, []string{"handler", "batch_key"}),
		dispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_dispatch_duration_seconds",
			Help:      "Time a single handler ExecuteBatch call took to return.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"handler", "batch_key"}),
		phasesPerRun: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "phases_total",
			Help:      "Number of phases a single scheduler run took to settle.",
			Buckets:   []float64{1, 2, 3, 4, 5, 8, 13, 21},
		}),
	}

	reg.MustRegister(c.batchesDispatched, c.dispatchDuration, c.phasesPerRun)
	return c
}

// ObserveBatchDispatch implements taskbatch.MetricsRecorder.
func (c *Collector) ObserveBatchDispatch(handler, batchKey string, d time.Duration) {
	c.batchesDispatched.WithLabelValues(handler, batchKey).Inc()
	c.dispatchDuration.WithLabelValues(handler, batchKey).Observe(d.Seconds())
}

// ObservePhases implements taskbatch.MetricsRecorder.
func (c *Collector) ObservePhases(n int) {
	c.phasesPerRun.Observe(float64(n))
}

// Handler returns an http.Handler serving this collector's metrics in the
// Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{ErrorHandling: promhttp.ContinueOnError})
}

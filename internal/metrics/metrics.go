// Package metrics holds the Prometheus collectors of the fulfillment service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "printke"

// Collector groups every metric the service exports. Build one per process
// with New; tests pass a fresh registry.
type Collector struct {
	reconciliations    *prometheus.CounterVec
	printSubmissions   *prometheus.CounterVec
	deliveriesDone     prometheus.Counter
	hubPruned          prometheus.Counter
	hubSubscribers     *prometheus.GaugeVec
	eventsMirrored     *prometheus.CounterVec
	jobRuns            *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpRequestSeconds *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		reconciliations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_reconciliations_total",
			Help:      "Payment outcomes applied, by source and result.",
		}, []string{"source", "result"}),
		printSubmissions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "print_submissions_total",
			Help:      "Documents handed to a print backend, by backend and result.",
		}, []string{"backend", "result"}),
		deliveriesDone: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_completed_total",
			Help:      "Deliveries marked delivered.",
		}),
		hubPruned: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hub_pruned_subscribers_total",
			Help:      "Realtime subscribers removed after a failed send.",
		}),
		hubSubscribers: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hub_subscribers",
			Help:      "Live realtime subscribers by scope.",
		}, []string{"scope"}),
		eventsMirrored: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_mirrored_total",
			Help:      "Events written to the order-changed topic, by result.",
		}, []string{"result"}),
		jobRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Background job executions, by job and result.",
		}, []string{"job", "result"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpRequestSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (c *Collector) Reconciliation(source, result string) {
	c.reconciliations.WithLabelValues(source, result).Inc()
}

func (c *Collector) PrintSubmission(backend string, err error) {
	c.printSubmissions.WithLabelValues(backend, outcome(err)).Inc()
}

func (c *Collector) DeliveryCompleted() {
	c.deliveriesDone.Inc()
}

func (c *Collector) SubscriberPruned() {
	c.hubPruned.Inc()
}

// SubscribersChanged adds delta to the live subscriber gauge of scope,
// which is "order" or "all".
func (c *Collector) SubscribersChanged(scope string, delta int) {
	c.hubSubscribers.WithLabelValues(scope).Add(float64(delta))
}

func (c *Collector) EventMirrored(err error) {
	c.eventsMirrored.WithLabelValues(outcome(err)).Inc()
}

func (c *Collector) JobRun(job string, err error) {
	c.jobRuns.WithLabelValues(job, outcome(err)).Inc()
}

func (c *Collector) HTTPRequest(method, route string, code int, seconds float64) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	c.httpRequestSeconds.WithLabelValues(method, route).Observe(seconds)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

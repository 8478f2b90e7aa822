// Package metrics defines Prometheus instrumentation for crawl jobs.
//
// All record methods are nil-safe: a nil *Metrics is a valid no-op
// collector, so callers never need to branch on whether instrumentation
// is configured.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors updated during a crawl.
type Metrics struct {
	pagesFetched    prometheus.Counter
	fetchDuration   prometheus.Histogram
	emailsExtracted prometheus.Counter
	fetchErrors     *prometheus.CounterVec
	robotsBlocked   prometheus.Counter
}

// New creates the crawl collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pagesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leadscout_pages_fetched_total",
			Help: "Number of pages successfully fetched.",
		}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "leadscout_fetch_duration_seconds",
			Help:    "Time spent fetching a single page.",
			Buckets: prometheus.DefBuckets,
		}),
		emailsExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leadscout_emails_extracted_total",
			Help: "Number of email addresses extracted, including duplicates across pages.",
		}),
		fetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leadscout_fetch_errors_total",
			Help: "Number of page fetch failures by reason.",
		}, []string{"reason"}),
		robotsBlocked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "leadscout_robots_blocked_total",
			Help: "Number of URLs skipped due to robots.txt rules.",
		}),
	}
	reg.MustRegister(m.pagesFetched, m.fetchDuration, m.emailsExtracted, m.fetchErrors, m.robotsBlocked)
	return m
}

// RecordPageFetched counts one successful page fetch and its duration.
func (m *Metrics) RecordPageFetched(d time.Duration) {
	if m == nil {
		return
	}
	m.pagesFetched.Inc()
	m.fetchDuration.Observe(d.Seconds())
}

// RecordEmails counts emails extracted from one page.
func (m *Metrics) RecordEmails(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.emailsExtracted.Add(float64(n))
}

// RecordFetchError counts one failed fetch by reason.
func (m *Metrics) RecordFetchError(reason string) {
	if m == nil {
		return
	}
	m.fetchErrors.WithLabelValues(reason).Inc()
}

// RecordRobotsBlocked counts one URL skipped by the robots gate.
func (m *Metrics) RecordRobotsBlocked() {
	if m == nil {
		return
	}
	m.robotsBlocked.Inc()
}

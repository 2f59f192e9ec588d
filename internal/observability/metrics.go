package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	submissionsTotal   *prometheus.CounterVec
	requestsTotal      *prometheus.CounterVec
	latencySeconds     *prometheus.HistogramVec
	wikiRequestSeconds *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors.
func RegisterMetrics() {
	registerOnce.Do(func() {
		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fountain_submissions_total",
			Help: "Submission attempts by final outcome.",
		}, []string{"outcome"})

		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fountain_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fountain_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		wikiRequestSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fountain_wiki_request_seconds",
			Help:    "Latency distribution for remote wiki calls.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"operation"})

		prometheus.MustRegister(submissionsTotal, requestsTotal, latencySeconds, wikiRequestSeconds)
	})
}

// Submissions exposes the counter for submission outcomes.
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// WikiRequests exposes the latency histogram for remote wiki calls.
func WikiRequests() *prometheus.HistogramVec {
	RegisterMetrics()
	return wikiRequestSeconds
}

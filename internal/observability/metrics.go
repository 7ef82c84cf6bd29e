package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce      sync.Once
	evaluationsTotal  *prometheus.CounterVec
	evaluationLatency prometheus.Histogram
	uploadsTotal      *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the service layer.
func RegisterMetrics() {
	registerOnce.Do(func() {
		evaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradeflow_evaluations_total",
			Help: "Total number of automated evaluation attempts by outcome.",
		}, []string{"outcome"})

		evaluationLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gradeflow_evaluation_latency_seconds",
			Help:    "End-to-end latency of automated evaluation attempts.",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		})

		uploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradeflow_uploads_total",
			Help: "Total number of file uploads by principal kind.",
		}, []string{"kind"})

		prometheus.MustRegister(evaluationsTotal, evaluationLatency, uploadsTotal)
	})
}

// Evaluations exposes the evaluation outcome counter.
func Evaluations() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationsTotal
}

// EvaluationLatency exposes the evaluation latency histogram.
func EvaluationLatency() prometheus.Histogram {
	RegisterMetrics()
	return evaluationLatency
}

// Uploads exposes the upload counter.
func Uploads() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadsTotal
}

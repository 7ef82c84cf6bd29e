package ai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	invokeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gradeflow",
		Subsystem: "ai",
		Name:      "invoke_duration_seconds",
		Help:      "Duration of model invocation requests",
	}, []string{"provider", "model"})

	invokeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gradeflow",
		Subsystem: "ai",
		Name:      "invoke_failures_total",
		Help:      "Number of failed model invocations",
	}, []string{"provider", "model"})
)

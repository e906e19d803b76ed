package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики внешних генеративных вызовов. Labels: kind - text/image/speech,
// status - success/error.
var (
	generationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skazka_generation_requests_total",
			Help: "Total number of requests to external generation APIs.",
		},
		[]string{"kind", "status"},
	)
	generationRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skazka_generation_request_duration_seconds",
			Help:    "Histogram of external generation API request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	artifactUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skazka_artifact_uploads_total",
			Help: "Total number of artifact store uploads.",
		},
		[]string{"container", "status"},
	)
)

// observeGeneration фиксирует результат одного внешнего вызова.
func observeGeneration(kind string, seconds float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	generationRequestsTotal.With(prometheus.Labels{"kind": kind, "status": status}).Inc()
	if err == nil {
		generationRequestDuration.With(prometheus.Labels{"kind": kind}).Observe(seconds)
	}
}

// observeUpload фиксирует результат загрузки артефакта.
func observeUpload(container string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	artifactUploadsTotal.With(prometheus.Labels{"container": container, "status": status}).Inc()
}

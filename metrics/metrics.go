package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// AnalysesInFlight is the number of analyses currently running.
	AnalysesInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "petfood",
		Subsystem: "analyzer",
		Name:      "analyses_in_flight",
		Help:      "Current number of label analyses being processed.",
	})

	// AnalysesTotal counts finished analyses by terminal state.
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "petfood",
		Subsystem: "analyzer",
		Name:      "analyses_total",
		Help:      "Total number of label analyses, labeled by terminal state (done, quota_exceeded, error).",
	}, []string{"state"})

	// AnalysisDurationSeconds is end-to-end time per analysis invocation.
	AnalysisDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "petfood",
		Subsystem: "analyzer",
		Name:      "analysis_duration_seconds",
		Help:      "End-to-end time to run one label analysis (gating through persistence).",
		// Dominated by the inference call; keep buckets coarse.
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 60, 120},
	}, []string{"state"})

	// QuotaDeniedTotal counts gate denials for non-subscribed users.
	QuotaDeniedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "petfood",
		Subsystem: "analyzer",
		Name:      "quota_denied_total",
		Help:      "Total number of analyses denied because the free-scan quota was exhausted.",
	})

	// HistorySaveFailureTotal counts analyses that completed but could not be persisted.
	HistorySaveFailureTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "petfood",
		Subsystem: "analyzer",
		Name:      "history_save_failure_total",
		Help:      "Total number of completed analyses whose history record could not be saved.",
	})
)

// Register registers analyzer metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			AnalysesInFlight,
			AnalysesTotal,
			AnalysisDurationSeconds,
			QuotaDeniedTotal,
			HistorySaveFailureTotal,
		)
	})
}

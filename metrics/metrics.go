package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// ScanTotal counts scan submissions by outcome (ok or the error kind).
	ScanTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scan2know",
		Subsystem: "scan",
		Name:      "total",
		Help:      "Total number of scan submissions, labeled by result.",
	}, []string{"result"})

	// ScanDurationSeconds is end-to-end time of one scan, upload to response.
	ScanDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "scan2know",
		Subsystem: "scan",
		Name:      "duration_seconds",
		Help:      "End-to-end time to process a scan submission.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"result"})

	MatchedIngredients = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "scan2know",
		Subsystem: "scan",
		Name:      "matched_ingredients",
		Help:      "Number of catalog ingredients matched per successful scan.",
		Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
	})

	SummarizerFallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "scan2know",
		Subsystem: "summarizer",
		Name:      "fallback_total",
		Help:      "Total number of summaries produced by the local fallback.",
	})
)

// Register registers the collectors with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			ScanTotal,
			ScanDurationSeconds,
			MatchedIngredients,
			SummarizerFallbackTotal,
		)
	})
}

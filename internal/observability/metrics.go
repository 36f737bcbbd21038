// Package observability provides Prometheus metrics for the forecasting
// pipeline.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Training metrics
	BatchesProcessed   prometheus.Counter
	BatchesFailed      prometheus.Counter
	SamplesIngested    prometheus.Counter
	ClassifiersTrained prometheus.Counter
	RegressorsTrained  prometheus.Counter
	ClassifiersSkipped prometheus.Counter
	LastBatchTimestamp prometheus.Gauge

	// Forecast metrics
	AssessmentsGenerated prometheus.Counter
	AlertsEmitted        prometheus.Counter
}

// New creates and registers all metrics on a fresh registry.
func New() (*Metrics, *prometheus.Registry) {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		BatchesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "maintlab_batches_processed_total",
			Help: "Number of batch files fully processed.",
		}),
		BatchesFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "maintlab_batches_failed_total",
			Help: "Number of batch files skipped due to errors.",
		}),
		SamplesIngested: factory.NewCounter(prometheus.CounterOpts{
			Name: "maintlab_samples_ingested_total",
			Help: "Number of sensor readings ingested.",
		}),
		ClassifiersTrained: factory.NewCounter(prometheus.CounterOpts{
			Name: "maintlab_classifiers_trained_total",
			Help: "Number of failure-type classifiers trained.",
		}),
		RegressorsTrained: factory.NewCounter(prometheus.CounterOpts{
			Name: "maintlab_regressors_trained_total",
			Help: "Number of failure-type regressors trained.",
		}),
		ClassifiersSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "maintlab_classifiers_skipped_total",
			Help: "Number of classifier trainings skipped for single-class batches.",
		}),
		LastBatchTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "maintlab_last_batch_timestamp_seconds",
			Help: "Latest reading timestamp of the most recent batch.",
		}),
		AssessmentsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "maintlab_assessments_generated_total",
			Help: "Number of risk assessments generated.",
		}),
		AlertsEmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "maintlab_alerts_emitted_total",
			Help: "Number of alerts handed to the notifier.",
		}),
	}

	return m, registry
}

// Handler returns an HTTP handler exposing the registry.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

package observer

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "land_inspector"

// Metrics holds the Prometheus collectors for the analysis pipeline.
type Metrics struct {
	AnalysesTotal     *prometheus.CounterVec // labels: outcome={success,model_call,extraction,canceled}
	AttemptsTotal     *prometheus.CounterVec // labels: result={success,call_error,parse_error}
	ExtractionsTotal  *prometheus.CounterVec // labels: strategy={direct,fenced,boundary}
	AnalysisDuration  prometheus.Histogram
	AttemptsPerReport prometheus.Histogram

	UploadRejections *prometheus.CounterVec // labels: reason={missing,type,size,coordinates}
}

func newMetrics() *Metrics {
	return &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "analyses_total",
			Help:      "Completed analysis requests by outcome.",
		}, []string{"outcome"}),
		AttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "model_attempts_total",
			Help:      "Model attempts by result.",
		}, []string{"result"}),
		ExtractionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "json_extractions_total",
			Help:      "Successful JSON extractions by strategy.",
		}, []string{"strategy"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "analysis_duration_seconds",
			Help:      "Duration of an analysis including all model attempts.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}),
		AttemptsPerReport: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "attempts_per_analysis",
			Help:      "Number of model attempts used per analysis.",
			Buckets:   []float64{1, 2, 3, 4, 5},
		}),
		UploadRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "upload_rejections_total",
			Help:      "Uploads rejected before analysis, by reason.",
		}, []string{"reason"}),
	}
}

// NewMetrics creates the collectors and registers them with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AnalysesTotal,
		m.AttemptsTotal,
		m.ExtractionsTotal,
		m.AnalysisDuration,
		m.AttemptsPerReport,
		m.UploadRejections,
	)
	return m
}

// NewMetricsForTesting creates unregistered collectors so tests can build
// as many instances as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// RejectUpload records an upload rejected by the boundary guard.
func (m *Metrics) RejectUpload(reason string) {
	if m == nil {
		return
	}
	m.UploadRejections.WithLabelValues(reason).Inc()
}

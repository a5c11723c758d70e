// Package metrics exposes conversion run metrics as a Prometheus registry.
//
// ycg is a batch tool, so nothing is scraped. The registry is written to a
// node_exporter style textfile after each run when configured.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ycg"

// Sample is the per-run data a Recorder observes.
type Sample struct {
	Format       string
	LOD          string
	Documents    int
	Definitions  int
	Edges        int
	InputTokens  int
	OutputTokens int
	Duration     time.Duration
	Failed       bool
}

// Recorder owns a private registry so tests and watch mode runs never touch
// the global default registry.
type Recorder struct {
	registry *prometheus.Registry

	runs         *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	documents    prometheus.Gauge
	definitions  prometheus.Gauge
	edges        prometheus.Gauge
	inputTokens  prometheus.Gauge
	outputTokens prometheus.Gauge
	ratio        prometheus.Gauge
}

// NewRecorder creates a Recorder with all collectors registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		// Labels: format (yaml, adhoc), lod, status (success, error)
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "convert",
			Name:      "runs_total",
			Help:      "Total conversion runs",
		}, []string{"format", "lod", "status"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "convert",
			Name:      "duration_seconds",
			Help:      "Conversion run duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"format"}),

		documents:    gauge("documents", "Documents converted in the last run"),
		definitions:  gauge("definitions", "Definitions emitted in the last run"),
		edges:        gauge("edges", "Reference edges emitted in the last run"),
		inputTokens:  gauge("input_tokens", "Source tokens read in the last run"),
		outputTokens: gauge("output_tokens", "Tokens in the last rendered document"),
		ratio:        gauge("compression_ratio", "Input to output token ratio of the last run"),
	}

	r.registry.MustRegister(
		r.runs, r.duration,
		r.documents, r.definitions, r.edges,
		r.inputTokens, r.outputTokens, r.ratio,
	)
	return r
}

func gauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "graph",
		Name:      name,
		Help:      help,
	})
}

// Observe records one run. Failed runs only bump the run counter.
func (r *Recorder) Observe(s Sample) {
	status := "success"
	if s.Failed {
		status = "error"
	}
	format := strings.ToLower(s.Format)
	r.runs.WithLabelValues(format, strings.ToLower(s.LOD), status).Inc()
	if s.Failed {
		return
	}

	r.duration.WithLabelValues(format).Observe(s.Duration.Seconds())
	r.documents.Set(float64(s.Documents))
	r.definitions.Set(float64(s.Definitions))
	r.edges.Set(float64(s.Edges))
	r.inputTokens.Set(float64(s.InputTokens))
	r.outputTokens.Set(float64(s.OutputTokens))
	if s.InputTokens > 0 && s.OutputTokens > 0 {
		r.ratio.Set(float64(s.InputTokens) / float64(s.OutputTokens))
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the registry in the text exposition format.
// The write goes through a temporary file and a rename.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

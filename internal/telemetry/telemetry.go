// Package telemetry exports evaluation results as Prometheus metrics.
package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	seqf1 "github.com/jamesainslie/go-seqf1"
)

// Recorder holds per-corpus evaluation gauges on its own registry.
type Recorder struct {
	registry  *prometheus.Registry
	tokens    *prometheus.GaugeVec
	precision *prometheus.GaugeVec
	recall    *prometheus.GaugeVec
	f1        *prometheus.GaugeVec
}

// NewRecorder creates a Recorder with its metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		tokens: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "seqf1",
				Subsystem: "eval",
				Name:      "tokens",
				Help:      "Token counts by outcome (true_positive, false_positive, false_negative).",
			},
			[]string{"corpus", "outcome"},
		),
		precision: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "seqf1",
				Subsystem: "eval",
				Name:      "precision",
				Help:      "Sequence-level precision.",
			},
			[]string{"corpus"},
		),
		recall: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "seqf1",
				Subsystem: "eval",
				Name:      "recall",
				Help:      "Sequence-level recall.",
			},
			[]string{"corpus"},
		),
		f1: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "seqf1",
				Subsystem: "eval",
				Name:      "f1_score",
				Help:      "Sequence-level F1 score.",
			},
			[]string{"corpus"},
		),
	}

	r.registry.MustRegister(r.tokens, r.precision, r.recall, r.f1)
	return r
}

// Observe sets the gauges for corpus from c.
func (r *Recorder) Observe(corpus string, c seqf1.Counts) {
	m := c.Metrics()

	r.tokens.WithLabelValues(corpus, "true_positive").Set(float64(c.TruePositive))
	r.tokens.WithLabelValues(corpus, "false_positive").Set(float64(c.FalsePositive))
	r.tokens.WithLabelValues(corpus, "false_negative").Set(float64(c.FalseNegative))
	r.precision.WithLabelValues(corpus).Set(m.Precision)
	r.recall.WithLabelValues(corpus).Set(m.Recall)
	r.f1.WithLabelValues(corpus).Set(m.F1Score)
}

// Gatherer exposes the registry, e.g. for promhttp.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics in the node_exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

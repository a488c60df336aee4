// Package prom exports client metrics to Prometheus.
package prom

import (
	"context"
	"strings"

	"github.com/JonathanRiche/go-quantcast/core"
	"github.com/prometheus/client_golang/prometheus"
)

var labels = []string{"metric", "operation", "status", "kind"}

// Recorder implements core.MetricsRecorder on two vectors. The dotted
// metric name becomes the "metric" label so new operations need no
// registration.
type Recorder struct {
	counters   *prometheus.CounterVec
	histograms *prometheus.HistogramVec
}

func NewRecorder(registerer prometheus.Registerer) (*Recorder, error) {
	recorder := &Recorder{
		counters: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quantcast",
				Name:      "client_events_total",
				Help:      "Client operations, attempts and retries by outcome.",
			},
			labels,
		),
		histograms: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "quantcast",
				Name:      "client_duration_milliseconds",
				Help:      "Latency of client operations and attempts.",
				Buckets:   []float64{5, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
			},
			labels,
		),
	}
	if registerer != nil {
		for _, collector := range []prometheus.Collector{recorder.counters, recorder.histograms} {
			if err := registerer.Register(collector); err != nil {
				return nil, err
			}
		}
	}
	return recorder, nil
}

func (r *Recorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	if r == nil || value <= 0 {
		return
	}
	r.counters.WithLabelValues(labelValues(name, tags)...).Add(float64(value))
}

func (r *Recorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	if r == nil {
		return
	}
	r.histograms.WithLabelValues(labelValues(name, tags)...).Observe(value)
}

func (r *Recorder) Counters() *prometheus.CounterVec {
	return r.counters
}

func (r *Recorder) Histograms() *prometheus.HistogramVec {
	return r.histograms
}

func labelValues(name string, tags map[string]string) []string {
	return []string{
		strings.TrimSpace(name),
		strings.TrimSpace(tags["operation"]),
		strings.TrimSpace(tags["status"]),
		strings.TrimSpace(tags["kind"]),
	}
}

var _ core.MetricsRecorder = (*Recorder)(nil)

// Package metrics counts what the overlay loop does.
//
// Collectors live on a private registry so that several sessions (and tests)
// can coexist in one process. Nothing is served over the network; the registry
// is dumped in the node-exporter textfile format when a run ends.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for one registry.
type Metrics struct {
	Registry *prometheus.Registry

	Frames          prometheus.Counter
	FrameErrors     *prometheus.CounterVec
	Classifications *prometheus.CounterVec
	Transitions     *prometheus.CounterVec
	Generations     *prometheus.CounterVec
	Fallbacks       prometheus.Counter
	LiveFragments   prometheus.Gauge
	Evictions       prometheus.Counter
	StageDuration   *prometheus.HistogramVec
}

// New registers a fresh set of collectors on a new registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		Frames: f.NewCounter(prometheus.CounterOpts{
			Name: "palimpsest_frames_total",
			Help: "Frames read from the capture source",
		}),

		FrameErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "palimpsest_frame_errors_total",
			Help: "Per-frame errors by stage",
		}, []string{"stage"}),

		Classifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "palimpsest_classifications_total",
			Help: "Classifier results by outcome",
		}, []string{"outcome"}),

		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "palimpsest_emotion_transitions_total",
			Help: "Accepted stable emotion changes by new emotion",
		}, []string{"emotion"}),

		Generations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "palimpsest_generations_total",
			Help: "Text generation results by outcome",
		}, []string{"outcome"}),

		Fallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "palimpsest_fallbacks_total",
			Help: "Fragments that used the fallback line",
		}),

		LiveFragments: f.NewGauge(prometheus.GaugeOpts{
			Name: "palimpsest_live_fragments",
			Help: "Fragments currently on screen",
		}),

		Evictions: f.NewCounter(prometheus.CounterOpts{
			Name: "palimpsest_fragment_evictions_total",
			Help: "Fragments dropped because the live cap was reached",
		}),

		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "palimpsest_stage_duration_seconds",
			Help:    "Per-stage latency",
			Buckets: []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1.0},
		}, []string{"stage"}),
	}
}

// ObserveStage records how long a stage took since start.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// WriteTextfile writes the registry to path in the textfile collector format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}

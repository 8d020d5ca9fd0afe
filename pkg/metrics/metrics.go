package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const (
	StrategyLabel = "strategy"
	Outcome       = "outcome"
	Succeeded     = "succeeded"
	Failed        = "failed"
)

// To add new metrics:
// 1. Register new metrics in Register() below.
// 2. Add an Emit function next to the ones at the bottom of this file.
var (
	drawCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sampling_draws_total",
			Help: "Monotonic count of sampling draws by strategy and outcome",
		},
		[]string{StrategyLabel, Outcome},
	)

	configurationCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sampling_configurations_total",
			Help: "Monotonic count of configurations returned to callers",
		},
		[]string{StrategyLabel},
	)

	samplingSummary = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "sampling_duration_seconds",
			Help:       "The duration of a sampling run",
			Objectives: map[float64]float64{0.95: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{Outcome},
	)
)

// Register adds the sampling collectors to r. Use
// prometheus.DefaultRegisterer unless the caller gathers on its own.
func Register(r prometheus.Registerer) {
	r.MustRegister(drawCount)
	r.MustRegister(configurationCount)
	r.MustRegister(samplingSummary)
}

func EmitDraw(strategy, outcome string) {
	drawCount.WithLabelValues(strategy, outcome).Inc()
}

func EmitConfigurations(strategy string, n int) {
	configurationCount.WithLabelValues(strategy).Add(float64(n))
}

func RegisterSamplingSuccess(duration time.Duration) {
	samplingSummary.WithLabelValues(Succeeded).Observe(duration.Seconds())
}

func RegisterSamplingFailure(duration time.Duration) {
	samplingSummary.WithLabelValues(Failed).Observe(duration.Seconds())
}

// WriteText writes everything g gathers in the prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return err
		}
	}
	return nil
}

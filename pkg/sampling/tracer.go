package sampling

import (
	"fmt"
	"io"

	"github.com/fmsampling/variant-sampler/pkg/metrics"
	"github.com/fmsampling/variant-sampler/pkg/sampling/configuration"
)

// Outcome classifies a single draw.
type Outcome string

const (
	Accepted      Outcome = "accepted"
	Duplicate     Outcome = "duplicate"
	Unsatisfiable Outcome = "unsatisfiable"
	// Retired marks a distance that was dropped from the pool.
	Retired Outcome = "retired"
)

// Draw describes one attempt to obtain a configuration. Distance and
// Candidate are zero for strategies that do not use them.
type Draw struct {
	Run           string
	Strategy      Strategy
	Distance      int
	Candidate     string
	Outcome       Outcome
	Configuration *configuration.Configuration
}

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -o fakes/fake_tracer.go . Tracer
type Tracer interface {
	Trace(d Draw)
}

type DefaultTracer struct{}

func (DefaultTracer) Trace(_ Draw) {
}

type LoggingTracer struct {
	Writer io.Writer
}

func (t LoggingTracer) Trace(d Draw) {
	fmt.Fprintf(t.Writer, "---\nRun: %s\nStrategy: %s\n", d.Run, d.Strategy)
	if d.Distance > 0 {
		fmt.Fprintf(t.Writer, "Distance: %d\n", d.Distance)
	}
	if d.Candidate != "" {
		fmt.Fprintf(t.Writer, "Candidate: %s\n", d.Candidate)
	}
	fmt.Fprintf(t.Writer, "Outcome: %s\n", d.Outcome)
	if d.Configuration != nil {
		fmt.Fprintf(t.Writer, "Selected:\n")
		for _, name := range d.Configuration.Names() {
			fmt.Fprintf(t.Writer, "- %s\n", name)
		}
	}
}

// MetricsTracer counts draws by strategy and outcome.
type MetricsTracer struct{}

func (MetricsTracer) Trace(d Draw) {
	metrics.EmitDraw(string(d.Strategy), string(d.Outcome))
}

// Tracers fans every draw out to each of its elements.
type Tracers []Tracer

func (ts Tracers) Trace(d Draw) {
	for _, t := range ts {
		t.Trace(d)
	}
}

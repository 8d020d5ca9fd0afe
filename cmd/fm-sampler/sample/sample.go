package sample

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fmsampling/variant-sampler/pkg/featuremodel"
	"github.com/fmsampling/variant-sampler/pkg/lib/signals"
	"github.com/fmsampling/variant-sampler/pkg/metrics"
	"github.com/fmsampling/variant-sampler/pkg/sampling"
	"github.com/fmsampling/variant-sampler/pkg/sampling/compiler"
	"github.com/fmsampling/variant-sampler/pkg/sampling/configuration"
)

type sampleOptions struct {
	profile     string
	flags       Profile
	seed        int64
	orGroups    bool
	metricsFile string
	trace       bool
}

// NewCmd returns the sample command.
func NewCmd() *cobra.Command {
	var o sampleOptions
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Sample valid configurations of a feature model",
		Long: `The fm-sampler sample command compiles a feature model into CNF and
        draws pairwise distinct, valid configurations with one of the
        strategies solver, random, distance or diversified-distance.

        $ fm-sampler sample --model model.yaml --strategy distance --size 20 --seed 42

        Without --output the configurations are printed; with it they are
        written as CSV, one column per considered feature. Several seeds
        may be given with --seeds; each seed is sampled independently and
        writes its own output file.
        `,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("seed") {
				o.flags.Seed = &o.seed
			}
			p := o.flags
			if o.profile != "" {
				loaded, err := loadProfile(o.profile)
				if err != nil {
					return err
				}
				loaded.override(cmd.Flags(), &o.flags)
				loaded.defaults(&o.flags)
				p = *loaded
			}
			return o.run(signals.Context(), p, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&o.flags.Model, "model", "m", "", "The feature model to sample, as YAML.")
	cmd.Flags().StringVarP(&o.flags.Strategy, "strategy", "s", string(sampling.Solver), "One of: [solver, random, distance, diversified-distance]")
	cmd.Flags().IntVarP(&o.flags.SampleSize, "size", "n", 10, "The maximum number of configurations to sample.")
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "Seed for every random decision. Runs without a seed are not reproducible.")
	cmd.Flags().Int64SliceVar(&o.flags.Seeds, "seeds", nil, "Sample once per seed, concurrently.")
	cmd.Flags().IntSliceVar(&o.flags.Distances, "distances", nil, "Distances the distance strategies draw from. Defaults to 1 up to the number of considered features.")
	cmd.Flags().StringSliceVar(&o.flags.Features, "features", nil, "Features that appear in the configurations. Defaults to all features.")
	cmd.Flags().StringVarP(&o.flags.Output, "output", "o", "", "CSV file to write the configurations to.")
	cmd.Flags().StringVar(&o.profile, "profile", "", "YAML profile with default values for the flags above.")
	cmd.Flags().BoolVar(&o.orGroups, "or-groups", false, "Require at least one member of every selected OR group.")
	cmd.Flags().StringVar(&o.metricsFile, "metrics-file", "", "Write sampling metrics to this file in the prometheus text format.")
	cmd.Flags().BoolVar(&o.trace, "trace", false, "Trace every draw to stderr.")

	return cmd
}

// job is one sampling invocation of a batch.
type job struct {
	seed    *int64
	output  string
	configs []*configuration.Configuration
}

func (o *sampleOptions) run(ctx context.Context, p Profile, out io.Writer) error {
	if p.Model == "" {
		return errors.New("a feature model is required, set --model or a profile")
	}
	strategy, err := sampling.ParseStrategy(p.Strategy)
	if err != nil {
		return err
	}

	model, err := featuremodel.LoadFile(p.Model)
	if err != nil {
		return err
	}
	features, err := consideredFeatures(model, p.Features)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)

	logger := log.StandardLogger()
	c := compiler.New(compiler.WithLogger(logger), compiler.WithOrGroups(o.orGroups))
	session, _, err := c.BuildBaseSolver(model)
	if err != nil {
		return errors.Wrapf(err, "failed to compile feature model %s", p.Model)
	}
	session.Dispose()

	var tracer sampling.Tracer = sampling.MetricsTracer{}
	if o.trace {
		tracer = sampling.Tracers{tracer, sampling.LoggingTracer{Writer: &lockedWriter{w: os.Stderr}}}
	}

	jobs := []*job{{seed: p.Seed, output: p.Output}}
	if len(p.Seeds) > 0 {
		jobs = jobs[:0]
		for i := range p.Seeds {
			seed := p.Seeds[i]
			jobs = append(jobs, &job{seed: &seed, output: seededPath(p.Output, seed)})
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			options := []sampling.Option{
				sampling.WithCompiler(c),
				sampling.WithLogger(logger),
				sampling.WithTracer(tracer),
			}
			if j.seed != nil {
				options = append(options, sampling.WithSeed(*j.seed))
			}
			if p.Distances != nil {
				options = append(options, sampling.WithDistances(p.Distances))
			}
			s, err := sampling.NewSampler(model, features, options...)
			if err != nil {
				return err
			}
			instrumented := sampling.NewInstrumentedSampler(s, metrics.RegisterSamplingSuccess, metrics.RegisterSamplingFailure)
			j.configs, err = instrumented.Sample(strategy, p.SampleSize)
			if err != nil {
				return err
			}
			metrics.EmitConfigurations(string(strategy), len(j.configs))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	header := csvHeader(features)
	for _, j := range jobs {
		if j.output == "" {
			if j.seed != nil && len(jobs) > 1 {
				fmt.Fprintf(out, "# seed %d\n", *j.seed)
			}
			printConfigurations(out, j.configs)
			continue
		}
		if err := writeCSVFile(j.output, j.configs, header); err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"file":           j.output,
			"configurations": len(j.configs),
		}).Info("wrote configurations")
	}

	if o.metricsFile != "" {
		f, err := os.Create(o.metricsFile)
		if err != nil {
			return errors.Wrapf(err, "failed to create metrics file %s", o.metricsFile)
		}
		if err := metrics.WriteText(f, registry); err != nil {
			f.Close()
			return errors.Wrapf(err, "failed to write metrics file %s", o.metricsFile)
		}
		return errors.Wrapf(f.Close(), "failed to write metrics file %s", o.metricsFile)
	}
	return nil
}

// consideredFeatures resolves names against m. No names selects every
// feature of the model.
func consideredFeatures(m *featuremodel.Model, names []string) ([]*featuremodel.Feature, error) {
	if len(names) == 0 {
		return m.Features(), nil
	}
	features := make([]*featuremodel.Feature, 0, len(names))
	for _, name := range names {
		f, ok := m.Feature(name)
		if !ok {
			return nil, sampling.ValidationError{Field: "features", Reason: fmt.Sprintf("%s is not a feature of model %s", name, m.Name())}
		}
		features = append(features, f)
	}
	return features, nil
}

// csvHeader names the non-root features in the order given.
func csvHeader(features []*featuremodel.Feature) []string {
	var header []string
	for _, f := range features {
		if !f.IsRoot() {
			header = append(header, f.Name)
		}
	}
	return header
}

// seededPath derives a per-seed file name from path, for example
// out.csv becomes out-seed7.csv.
func seededPath(path string, seed int64) string {
	if path == "" {
		return ""
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-seed%d%s", strings.TrimSuffix(path, ext), seed, ext)
}

func writeCSVFile(path string, configs []*configuration.Configuration, header []string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if err := configuration.WriteCSV(f, configs, header); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return f.Close()
}

// lockedWriter serializes writes from concurrent tracers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

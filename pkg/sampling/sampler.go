// Package sampling draws pairwise distinct, valid configurations from
// a feature model.
package sampling

import (
	"fmt"
	"io"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fmsampling/variant-sampler/pkg/featuremodel"
	"github.com/fmsampling/variant-sampler/pkg/sampling/compiler"
	"github.com/fmsampling/variant-sampler/pkg/sampling/configuration"
	"github.com/fmsampling/variant-sampler/pkg/sampling/sat"
)

// Sampler draws up to sampleSize configurations with the given
// strategy.
type Sampler interface {
	Sample(strategy Strategy, sampleSize int) ([]*configuration.Configuration, error)
}

type Option func(s *VariantSampler)

// WithSeed makes every random decision of a Sample call reproducible.
// Without it, each call draws from a time-seeded source.
func WithSeed(seed int64) Option {
	return func(s *VariantSampler) {
		s.seed = seed
		s.seeded = true
	}
}

// WithDistances sets the pool of distances the distance strategies
// draw from. The default pool is 1 up to the number of non-root
// features considered.
func WithDistances(distances []int) Option {
	return func(s *VariantSampler) {
		s.distances = distances
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *VariantSampler) {
		s.log = log
	}
}

func WithTracer(t Tracer) Option {
	return func(s *VariantSampler) {
		s.tracer = t
	}
}

// WithCompiler uses c instead of a fresh compiler. If c has already
// compiled the model it is shared as is, which lets several samplers
// over the same model run side by side.
func WithCompiler(c *compiler.Compiler) Option {
	return func(s *VariantSampler) {
		s.compiler = c
	}
}

// VariantSampler samples configurations of one compiled model.
type VariantSampler struct {
	compiler   *compiler.Compiler
	index      *compiler.Index
	considered map[*featuremodel.Feature]struct{}
	nonRoot    []int
	seed       int64
	seeded     bool
	distances  []int
	log        logrus.FieldLogger
	tracer     Tracer
}

var _ Sampler = &VariantSampler{}

// NewSampler compiles model, unless a compiled model is supplied with
// WithCompiler, and returns a sampler whose configurations carry the
// binary features among featuresToConsider.
func NewSampler(model *featuremodel.Model, featuresToConsider []*featuremodel.Feature, options ...Option) (*VariantSampler, error) {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	s := &VariantSampler{
		considered: make(map[*featuremodel.Feature]struct{}, len(featuresToConsider)),
		log:        discard,
		tracer:     DefaultTracer{},
	}
	for _, option := range options {
		option(s)
	}

	for _, f := range featuresToConsider {
		if known, ok := model.Feature(f.Name); !ok || known != f {
			return nil, ValidationError{Field: "features to consider", Reason: fmt.Sprintf("%s is not a feature of model %s", f.Name, model.Name())}
		}
		s.considered[f] = struct{}{}
	}
	if s.distances == nil {
		for d := 1; d <= s.consideredNonRoot(); d++ {
			s.distances = append(s.distances, d)
		}
	}
	for _, d := range s.distances {
		if d <= 0 {
			return nil, ValidationError{Field: "distances", Reason: fmt.Sprintf("must be positive, got %d", d)}
		}
	}

	if s.compiler == nil {
		s.compiler = compiler.New(compiler.WithLogger(s.log))
	}
	if s.index = s.compiler.Index(); s.index == nil {
		session, index, err := s.compiler.BuildBaseSolver(model)
		if err != nil {
			return nil, err
		}
		session.Dispose()
		s.index = index
	}
	s.nonRoot = s.index.NonRootVars()
	return s, nil
}

func (s *VariantSampler) consideredNonRoot() int {
	n := 0
	for f := range s.considered {
		if !f.IsRoot() {
			n++
		}
	}
	return n
}

// GenerateVariants compiles model and returns up to sampleSize
// distinct configurations drawn with strategy, in the order they were
// accepted.
func GenerateVariants(model *featuremodel.Model, featuresToConsider []*featuremodel.Feature, strategy Strategy, sampleSize int, options ...Option) ([]*configuration.Configuration, error) {
	if err := strategy.validate(); err != nil {
		return nil, err
	}
	if err := validateSize(sampleSize); err != nil {
		return nil, err
	}
	s, err := NewSampler(model, featuresToConsider, options...)
	if err != nil {
		return nil, err
	}
	return s.Sample(strategy, sampleSize)
}

// Sample implements Sampler. Calls are independent of each other and
// may run concurrently.
func (s *VariantSampler) Sample(strategy Strategy, sampleSize int) ([]*configuration.Configuration, error) {
	if err := strategy.validate(); err != nil {
		return nil, err
	}
	if err := validateSize(sampleSize); err != nil {
		return nil, err
	}

	seed := s.seed
	if !s.seeded {
		seed = time.Now().UnixNano()
	}
	r := &run{
		VariantSampler: s,
		id:             uuid.New().String(),
		strategy:       strategy,
		size:           sampleSize,
		rng:            rand.New(rand.NewSource(seed)),
		accepted:       configuration.NewSet(),
	}
	r.log = s.log.WithFields(logrus.Fields{
		"run":      r.id,
		"strategy": strategy,
		"seed":     seed,
	})

	var err error
	if r.session, err = s.compiler.ResetSolver(nil); err != nil {
		return nil, err
	}
	defer func() {
		r.session.Dispose()
	}()

	switch strategy {
	case Solver:
		r.enumerate(sampleSize)
	case Random:
		r.log.Warn("enumerating the whole solution space before drawing")
		r.enumerate(0)
		r.subsample()
	case Distance, DiversifiedDistance:
		err = r.sampleDistances(strategy == DiversifiedDistance)
	}
	if err != nil {
		return nil, err
	}

	r.log.WithField("configurations", r.accepted.Len()).Info("sampling finished")
	return r.accepted.List(), nil
}

// run is the state of a single Sample call.
type run struct {
	*VariantSampler
	id       string
	strategy Strategy
	size     int
	rng      *rand.Rand
	log      logrus.FieldLogger
	session  *sat.Session
	blocking []sat.Clause
	accepted *configuration.Set
}

func (r *run) materialize(m sat.Model) *configuration.Configuration {
	c := configuration.New()
	for _, f := range r.index.Features() {
		if f.Kind != featuremodel.KindBinary {
			continue
		}
		if _, ok := r.considered[f]; !ok {
			continue
		}
		if v, _ := r.index.VarOf(f.Name); m.Value(v) {
			c.SetOption(f.Name, true)
		}
	}
	return c
}

func (r *run) accept(m sat.Model, d Draw) {
	c := r.materialize(m)
	d.Configuration = c
	d.Outcome = Duplicate
	if r.accepted.Add(c) {
		d.Outcome = Accepted
	}
	r.log.WithFields(logrus.Fields{
		"distance":  d.Distance,
		"candidate": d.Candidate,
	}).Debugf("draw %s", d.Outcome)
	r.tracer.Trace(d)
}

func (r *run) draw() Draw {
	return Draw{Run: r.id, Strategy: r.strategy}
}

// enumerate accepts models in solver order until limit configurations
// are accepted, or until the solver is exhausted if limit is 0.
func (r *run) enumerate(limit int) {
	for e := r.session.EnumModels(); e.Next(); {
		r.accept(e.Model(), r.draw())
		if limit > 0 && r.accepted.Len() >= limit {
			return
		}
	}
}

// subsample keeps a uniformly drawn subset of size r.size of the
// accepted configurations.
func (r *run) subsample() {
	all := r.accepted.List()
	if len(all) <= r.size {
		return
	}
	picked := append([]*configuration.Configuration(nil), all...)
	for i := 0; i < r.size; i++ {
		j := i + r.rng.Intn(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	r.accepted = configuration.NewSet()
	for _, c := range picked[:r.size] {
		r.accepted.Add(c)
	}
}

// sampleDistances runs the distance strategies. Each iteration draws a
// distance from the pool and asks for a model with exactly that many
// non-root features selected that is not blocked by an earlier draw.
// A distance with no such model left is dropped from the pool.
func (r *run) sampleDistances(diversified bool) error {
	pool := append([]int(nil), r.VariantSampler.distances...)
	usage := make(map[int]map[int]int)

	for r.accepted.Len() < r.size && len(pool) > 0 {
		i := r.rng.Intn(len(pool))
		d := r.draw()
		d.Distance = pool[i]

		var (
			m   sat.Model
			ok  bool
			err error
		)
		if diversified {
			counts, seen := usage[d.Distance]
			if !seen {
				counts = make(map[int]int, len(r.nonRoot))
				for _, v := range r.nonRoot {
					counts[v] = 0
				}
				usage[d.Distance] = counts
			}
			m, ok, err = r.solveDiversified(&d, counts)
		} else {
			m, ok, err = r.solve(d.Distance, 0)
		}
		if err != nil {
			return err
		}

		if !ok {
			pool = append(pool[:i], pool[i+1:]...)
			d.Outcome = Retired
			r.log.WithField("distance", d.Distance).Debug("no configuration left at distance")
			r.tracer.Trace(d)
			continue
		}

		r.accept(m, d)
		r.blocking = append(r.blocking, r.session.Block(m))
		if diversified {
			for _, v := range r.nonRoot {
				if m.Value(v) {
					usage[d.Distance][v]++
				}
			}
		}
	}
	return nil
}

// solveDiversified forces the least used feature at d.Distance into
// the model, moving on to the next least used one while the forced
// feature admits no model. A feature that admits no model is not
// tried again at this distance.
func (r *run) solveDiversified(d *Draw, counts map[int]int) (sat.Model, bool, error) {
	for len(counts) > 0 {
		candidate := r.leastUsed(counts)
		m, ok, err := r.solve(d.Distance, candidate)
		if err != nil || ok {
			if f, found := r.index.FeatureOf(candidate); found {
				d.Candidate = f.Name
			}
			return m, ok, err
		}
		delete(counts, candidate)
	}
	return nil, false, nil
}

func (r *run) leastUsed(counts map[int]int) int {
	var candidates []int
	least := -1
	for v, n := range counts {
		switch {
		case least < 0 || n < least:
			least = n
			candidates = append(candidates[:0], v)
		case n == least:
			candidates = append(candidates, v)
		}
	}
	sort.Ints(candidates)
	return candidates[r.rng.Intn(len(candidates))]
}

// solve resets the session to the base clauses, replays the blocking
// clauses of earlier draws and looks for a model at distance d. A
// non-zero candidate variable is forced true.
func (r *run) solve(d, candidate int) (sat.Model, bool, error) {
	session, err := r.compiler.ResetSolver(r.session)
	if err != nil {
		return nil, false, err
	}
	r.session = session
	r.session.AddFormula(r.blocking)
	clauses, err := r.compiler.DistanceClauses(d)
	if err != nil {
		return nil, false, err
	}
	r.session.AddFormula(clauses)
	if candidate != 0 {
		r.session.AddClause(sat.Clause{candidate})
	}
	if !r.session.Solve() {
		return nil, false, nil
	}
	m, ok := r.session.Model()
	return m, ok, nil
}

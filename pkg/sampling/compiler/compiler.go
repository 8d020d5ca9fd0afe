// Package compiler translates a feature model into CNF clauses over
// integer variables and hands out solver sessions seeded with them.
package compiler

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/sirupsen/logrus"

	"github.com/fmsampling/variant-sampler/pkg/featuremodel"
	"github.com/fmsampling/variant-sampler/pkg/sampling/sat"
)

// ErrNotBuilt is returned by operations that need the base clauses
// before BuildBaseSolver has run.
var ErrNotBuilt = errors.New("base clauses have not been built")

// ErrAlreadyBuilt is returned when BuildBaseSolver is called on a
// compiler that has already compiled a model.
var ErrAlreadyBuilt = errors.New("compiler has already built its base clauses")

type Option func(c *Compiler)

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Compiler) {
		c.log = log
	}
}

// WithOrGroups records a relationship for every declared OR group that
// does not qualify as an alternative, and encodes the parent as
// equivalent to the disjunction of the group members.
func WithOrGroups(enabled bool) Option {
	return func(c *Compiler) {
		c.orGroups = enabled
	}
}

// table is a relation between features keyed by the left operand,
// kept in insertion order so clause emission is deterministic.
type table struct {
	keys  []*featuremodel.Feature
	right map[*featuremodel.Feature][]*featuremodel.Feature
}

func (t *table) add(l, r *featuremodel.Feature) {
	if t.right == nil {
		t.right = make(map[*featuremodel.Feature][]*featuremodel.Feature)
	}
	rs, ok := t.right[l]
	if !ok {
		t.keys = append(t.keys, l)
	}
	for _, existing := range rs {
		if existing == r {
			return
		}
	}
	t.right[l] = append(rs, r)
}

func (t *table) has(l, r *featuremodel.Feature) bool {
	for _, existing := range t.right[l] {
		if existing == r {
			return true
		}
	}
	return false
}

// Compiler holds the state of one model's translation. The exported
// steps mirror the order BuildBaseSolver runs them in; once built, the
// compiler is read-only and may hand out sessions concurrently.
type Compiler struct {
	log      logrus.FieldLogger
	orGroups bool

	index         *Index
	excludes      table
	implies       table
	relationships []Relationship
	classified    map[*featuremodel.Group]struct{}
	clauses       []sat.Clause
	built         bool

	network     sync.Once
	cardinality *logic.CardSort
	sorting     []sat.Clause
}

func New(options ...Option) *Compiler {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	c := &Compiler{
		log:        discard,
		index:      newIndex(0),
		classified: make(map[*featuremodel.Group]struct{}),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func (c *Compiler) boolean(m *featuremodel.Model, constraint featuremodel.Constraint, name string) (*featuremodel.Feature, error) {
	f, ok := m.Feature(name)
	if !ok {
		return nil, EncodingError{Constraint: constraint.String(), Name: name, Reason: "is not a feature of the model"}
	}
	switch f.Kind {
	case featuremodel.KindRoot, featuremodel.KindBinary:
		return f, nil
	case featuremodel.KindNumeric:
		return nil, EncodingError{Constraint: constraint.String(), Name: name, Reason: "is numeric and has no boolean encoding"}
	}
	return nil, EncodingError{Constraint: constraint.String(), Name: name, Reason: fmt.Sprintf("has unknown kind %s", f.Kind)}
}

// ExtractConstraints reads the cross-tree constraints of m. Excludes
// and implies constraints fill lookup tables keyed by their left
// operand; each OR expression becomes one clause, with variables
// allocated for its operands on first sight.
func (c *Compiler) ExtractConstraints(m *featuremodel.Model) error {
	for _, constraint := range m.Constraints() {
		switch constraint.Kind {
		case featuremodel.Excludes, featuremodel.Implies:
			l, err := c.boolean(m, constraint, constraint.Left)
			if err != nil {
				return err
			}
			r, err := c.boolean(m, constraint, constraint.Right)
			if err != nil {
				return err
			}
			if constraint.Kind == featuremodel.Excludes {
				c.excludes.add(l, r)
			} else {
				c.implies.add(l, r)
			}
		case featuremodel.Or:
			d, err := ParseDisjunction(constraint.Expr)
			if err != nil {
				return err
			}
			clause := make(sat.Clause, 0, len(d))
			for _, op := range d {
				if _, err := c.boolean(m, constraint, op.Name); err != nil {
					return err
				}
				v := c.index.alloc(op.Name).Dimacs()
				if op.Negated {
					v = -v
				}
				clause = append(clause, v)
			}
			c.clauses = append(c.clauses, clause)
		default:
			return EncodingError{Constraint: constraint.String(), Reason: fmt.Sprintf("has unknown kind %s", constraint.Kind)}
		}
	}
	return nil
}

// InitializeVariableMapping binds a variable to every root and binary
// feature of m, in model order. Numeric features are not bound.
func (c *Compiler) InitializeVariableMapping(m *featuremodel.Model) {
	numeric := 0
	for _, f := range m.Features() {
		switch f.Kind {
		case featuremodel.KindRoot, featuremodel.KindBinary:
			c.index.bind(f)
		case featuremodel.KindNumeric:
			numeric++
		}
	}
	if numeric > 0 {
		c.log.WithField("numeric", numeric).Warn("numeric features have no boolean encoding and are left unconstrained")
	}
}

func (c *Compiler) varOf(f *featuremodel.Feature) (int, error) {
	v, ok := c.index.VarOf(f.Name)
	if !ok {
		return 0, fmt.Errorf("feature %s has no variable", f.Name)
	}
	return v, nil
}

// AddFeature emits the clauses tying f to its parent. The root is
// asserted true. A binary feature implies its parent, and a mandatory
// binary feature outside of a group is implied by its parent. The
// first member of a group seen triggers DetectAlternatives for it.
func (c *Compiler) AddFeature(f *featuremodel.Feature) error {
	switch f.Kind {
	case featuremodel.KindRoot:
		v, err := c.varOf(f)
		if err != nil {
			return err
		}
		c.clauses = append(c.clauses, sat.Clause{v})
	case featuremodel.KindBinary:
		v, err := c.varOf(f)
		if err != nil {
			return err
		}
		parent := f.Parent()
		if parent.Kind == featuremodel.KindNumeric {
			return EncodingError{
				Constraint: fmt.Sprintf("%s implies %s", f.Name, parent.Name),
				Name:       parent.Name,
				Reason:     "is numeric and has no boolean encoding",
			}
		}
		p, err := c.varOf(parent)
		if err != nil {
			return err
		}
		c.clauses = append(c.clauses, sat.Clause{-v, p})
		if g := f.Group(); g != nil {
			if _, ok := c.classified[g]; !ok {
				c.DetectAlternatives(g)
			}
		} else if !f.Optional {
			c.clauses = append(c.clauses, sat.Clause{-p, v})
		}
	case featuremodel.KindNumeric:
		c.log.WithField("feature", f.Name).Debug("skipping numeric feature")
	default:
		return fmt.Errorf("feature %s has unknown kind %s", f.Name, f.Kind)
	}
	return nil
}

// DetectAlternatives records an alternative relationship for g when g
// has more than one member, no member is optional, and every pair of
// members excludes each other in both directions.
func (c *Compiler) DetectAlternatives(g *featuremodel.Group) {
	c.classified[g] = struct{}{}
	members := g.Children()

	alternative := len(members) > 1
	for _, a := range members {
		if !alternative {
			break
		}
		if a.Optional {
			alternative = false
			break
		}
		for _, b := range members {
			if a != b && !(c.excludes.has(a, b) && c.excludes.has(b, a)) {
				alternative = false
				break
			}
		}
	}

	log := c.log.WithField("group", g.String())
	switch {
	case alternative:
		c.relationships = append(c.relationships, Relationship{Parent: g.Parent(), Children: members, Kind: Alternative})
	case g.Kind == featuremodel.GroupOr && c.orGroups:
		c.relationships = append(c.relationships, Relationship{Parent: g.Parent(), Children: members, Kind: OrGroup})
	case g.Kind == featuremodel.GroupAlternative:
		log.Warn("group is declared alternative but its members do not exclude each other; encoding no group constraint")
	default:
		log.Debug("no group constraint recorded")
	}
}

// AddRelationships emits the clauses of every recorded relationship:
// each child implies the parent, and at least one child is selected
// whenever the parent is. For a mandatory parent the latter clause is
// unconditional.
func (c *Compiler) AddRelationships() error {
	for _, r := range c.relationships {
		p, err := c.varOf(r.Parent)
		if err != nil {
			return err
		}
		children := make(sat.Clause, 0, len(r.Children))
		for _, child := range r.Children {
			v, err := c.varOf(child)
			if err != nil {
				return err
			}
			c.clauses = append(c.clauses, sat.Clause{-v, p})
			children = append(children, v)
		}
		if r.Parent.Optional || r.Kind == OrGroup {
			c.clauses = append(c.clauses, append(sat.Clause{-p}, children...))
		} else {
			c.clauses = append(c.clauses, children)
		}
	}
	return nil
}

// ConvertConstraintsToClauses emits (¬a ∨ ¬b) for each excludes pair
// and (¬a ∨ b) for each implies pair.
func (c *Compiler) ConvertConstraintsToClauses() error {
	for _, t := range []struct {
		table *table
		sign  int
	}{
		{table: &c.excludes, sign: -1},
		{table: &c.implies, sign: 1},
	} {
		for _, l := range t.table.keys {
			a, err := c.varOf(l)
			if err != nil {
				return err
			}
			for _, r := range t.table.right[l] {
				b, err := c.varOf(r)
				if err != nil {
					return err
				}
				c.clauses = append(c.clauses, sat.Clause{-a, t.sign * b})
			}
		}
	}
	return nil
}

// BuildBaseSolver compiles m and returns a session seeded with the
// resulting clauses, together with the index of feature variables.
// It may be called once per compiler.
func (c *Compiler) BuildBaseSolver(m *featuremodel.Model) (*sat.Session, *Index, error) {
	if c.built {
		return nil, nil, ErrAlreadyBuilt
	}
	if err := c.ExtractConstraints(m); err != nil {
		return nil, nil, err
	}
	c.InitializeVariableMapping(m)
	for _, f := range m.Features() {
		if err := c.AddFeature(f); err != nil {
			return nil, nil, err
		}
	}
	if err := c.AddRelationships(); err != nil {
		return nil, nil, err
	}
	if err := c.ConvertConstraintsToClauses(); err != nil {
		return nil, nil, err
	}

	// Pins the circuit's constant to true.
	var constant clauseCollector
	c.index.c.ToCnf(&constant)
	c.clauses = append(constant.clauses, c.clauses...)
	c.built = true

	c.log.WithFields(logrus.Fields{
		"model":         m.Name(),
		"variables":     c.index.Len(),
		"clauses":       len(c.clauses),
		"relationships": len(c.relationships),
	}).Debug("compiled feature model")

	return c.session(), c.index, nil
}

func (c *Compiler) session() *sat.Session {
	return sat.NewSession(c.clauses, sat.WithProjection(c.index.Vars()))
}

// ResetSolver disposes current, which may be nil, and returns a fresh
// session holding only the base clauses.
func (c *Compiler) ResetSolver(current *sat.Session) (*sat.Session, error) {
	if current != nil {
		current.Dispose()
	}
	if !c.built {
		return nil, ErrNotBuilt
	}
	return c.session(), nil
}

// Index returns the feature variable index, or nil before
// BuildBaseSolver.
func (c *Compiler) Index() *Index {
	if !c.built {
		return nil
	}
	return c.index
}

// Clauses returns a copy of the base clauses.
func (c *Compiler) Clauses() []sat.Clause {
	result := make([]sat.Clause, len(c.clauses))
	copy(result, c.clauses)
	return result
}

func (c *Compiler) Relationships() []Relationship {
	return c.relationships
}

// DistanceClauses returns clauses that are satisfied exactly when k of
// the non-root feature variables are true. The counting network over
// those variables is built once; only the two unit clauses selecting
// k differ between calls.
func (c *Compiler) DistanceClauses(k int) ([]sat.Clause, error) {
	if !c.built {
		return nil, ErrNotBuilt
	}
	c.network.Do(func() {
		circuit := c.index.c
		vars := c.index.NonRootVars()
		lits := make([]z.Lit, len(vars))
		for i, v := range vars {
			lits[i] = z.Dimacs2Lit(v)
		}

		marks := make([]int8, circuit.Len())
		for i := range marks {
			marks[i] = 1
		}
		var network clauseCollector
		c.cardinality = circuit.CardSort(lits)
		for w := 0; w <= c.cardinality.N(); w++ {
			marks, _ = circuit.CnfSince(&network, marks, c.cardinality.Leq(w))
		}
		c.sorting = network.clauses
	})

	result := make([]sat.Clause, len(c.sorting), len(c.sorting)+2)
	copy(result, c.sorting)
	return append(result,
		sat.Clause{c.cardinality.Leq(k).Dimacs()},
		sat.Clause{c.cardinality.Geq(k).Dimacs()},
	), nil
}

// WriteDIMACS writes the base clauses in DIMACS CNF, preceded by one
// comment line per feature variable.
func (c *Compiler) WriteDIMACS(w io.Writer) error {
	if !c.built {
		return ErrNotBuilt
	}
	for _, f := range c.index.Features() {
		v, _ := c.index.VarOf(f.Name)
		if _, err := fmt.Fprintf(w, "c %d %s\n", v, f.Name); err != nil {
			return err
		}
	}
	return sat.WithSession(c.clauses, func(s *sat.Session) error {
		return s.WriteDIMACS(w)
	})
}

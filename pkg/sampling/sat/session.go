// Package sat wraps an incremental gini solver instance in a Session
// with explicit, idempotent disposal.
package sat

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// Clause is a disjunction of DIMACS literals: a positive integer
// names a variable, a negative integer its negation.
type Clause []int

// Model is a satisfying assignment as DIMACS literals, one per
// variable, ordered by variable.
type Model []int

// ErrDisposed is the panic value raised when a disposed Session is
// used.
var ErrDisposed = errors.New("solver session used after dispose")

const (
	satisfiable   = 1
	unsatisfiable = -1
)

type state int

const (
	stateBuilt state = iota
	stateSat
	stateUnsat
	stateDisposed
)

// Session owns one gini solver handle. It is not safe for concurrent
// use; independent sessions share nothing.
type Session struct {
	g          *gini.Gini
	state      state
	projection []z.Var
}

type Option func(s *Session)

// WithProjection restricts blocking clauses to the given variables.
// By default a blocking clause covers every variable of the model.
func WithProjection(vars []int) Option {
	return func(s *Session) {
		s.projection = make([]z.Var, len(vars))
		for i, v := range vars {
			s.projection[i] = z.Var(v)
		}
	}
}

// NewSession returns a session seeded with base.
func NewSession(base []Clause, options ...Option) *Session {
	s := &Session{g: gini.New()}
	for _, option := range options {
		option(s)
	}
	s.AddFormula(base)
	return s
}

// WithSession runs fn against a fresh session seeded with base and
// disposes the session however fn returns.
func WithSession(base []Clause, fn func(*Session) error, options ...Option) error {
	s := NewSession(base, options...)
	defer s.Dispose()
	return fn(s)
}

func (s *Session) live() {
	if s.state == stateDisposed {
		panic(ErrDisposed)
	}
}

// AddClause adds c to the solver. It invalidates any model from a
// previous Solve. An empty clause makes the session unsatisfiable.
func (s *Session) AddClause(c Clause) {
	s.live()
	for _, l := range c {
		if l == 0 {
			panic(fmt.Errorf("literal 0 in clause %v", c))
		}
		s.g.Add(z.Dimacs2Lit(l))
	}
	s.g.Add(z.LitNull)
	s.state = stateBuilt
}

// AddFormula adds every clause of cs.
func (s *Session) AddFormula(cs []Clause) {
	for _, c := range cs {
		s.AddClause(c)
	}
}

// Solve reports whether the clauses added so far are satisfiable.
func (s *Session) Solve() bool {
	s.live()
	switch s.g.Solve() {
	case satisfiable:
		s.state = stateSat
		return true
	case unsatisfiable:
		s.state = stateUnsat
		return false
	}
	// Solve without a deadline never gives up.
	panic("gini returned an unknown result")
}

// Model returns the assignment found by the last Solve. ok is false
// unless the last operation on the session was a satisfiable Solve.
func (s *Session) Model() (m Model, ok bool) {
	s.live()
	if s.state != stateSat {
		return nil, false
	}
	top := s.g.MaxVar()
	m = make(Model, 0, int(top))
	for v := z.Var(1); v <= top; v++ {
		if s.g.Value(v.Pos()) {
			m = append(m, int(v))
		} else {
			m = append(m, -int(v))
		}
	}
	return m, true
}

// Value reports the value of variable v in m. Variables beyond the
// end of m are unconstrained and reported false.
func (m Model) Value(v int) bool {
	if v <= 0 || v > len(m) {
		return false
	}
	return m[v-1] > 0
}

// Block returns the clause that rules out m, restricted to the
// session's projection.
func (s *Session) Block(m Model) Clause {
	if s.projection == nil {
		c := make(Clause, len(m))
		for i, l := range m {
			c[i] = -l
		}
		return c
	}
	c := make(Clause, len(s.projection))
	for i, v := range s.projection {
		if m.Value(int(v)) {
			c[i] = -int(v)
		} else {
			c[i] = int(v)
		}
	}
	return c
}

// EnumModels returns an enumerator over the models of the session.
// Each model is blocked before the next one is sought, so the
// enumeration is finite and can not be restarted.
func (s *Session) EnumModels() *ModelEnumerator {
	return &ModelEnumerator{s: s}
}

// Dispose releases the solver. Calling Dispose more than once is
// harmless.
func (s *Session) Dispose() {
	s.g = nil
	s.state = stateDisposed
}

func (s *Session) Disposed() bool {
	return s.state == stateDisposed
}

// WriteDIMACS writes the clauses held by the solver in DIMACS CNF.
func (s *Session) WriteDIMACS(w io.Writer) error {
	s.live()
	return s.g.Write(w)
}

// ModelEnumerator walks the models of a Session.
type ModelEnumerator struct {
	s       *Session
	current Model
	done    bool
}

// Next advances to the next model. It returns false once the session
// is exhausted or disposed.
func (e *ModelEnumerator) Next() bool {
	if e.done || e.s.Disposed() || !e.s.Solve() {
		e.done = true
		e.current = nil
		return false
	}
	e.current, _ = e.s.Model()
	e.s.AddClause(e.s.Block(e.current))
	return true
}

// Model returns the model found by the last successful Next.
func (e *ModelEnumerator) Model() Model {
	return e.current
}

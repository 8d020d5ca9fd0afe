package compiler

import (
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/fmsampling/variant-sampler/pkg/featuremodel"
	"github.com/fmsampling/variant-sampler/pkg/sampling/sat"
)

// Index translates between features and the variables that appear in
// the formula. Variables are allocated from a gini circuit, so the
// first feature receives variable 2; variable 1 is the circuit's
// constant true.
type Index struct {
	c        *logic.C
	byName   map[string]z.Lit
	features map[z.Var]*featuremodel.Feature
	inorder  []*featuremodel.Feature
}

func newIndex(capacity int) *Index {
	return &Index{
		c:        logic.NewCCap(capacity),
		byName:   make(map[string]z.Lit, capacity),
		features: make(map[z.Var]*featuremodel.Feature, capacity),
	}
}

// alloc returns the literal for name, allocating a new variable the
// first time name is seen.
func (x *Index) alloc(name string) z.Lit {
	if m, ok := x.byName[name]; ok {
		return m
	}
	m := x.c.Lit()
	x.byName[name] = m
	return m
}

func (x *Index) bind(f *featuremodel.Feature) int {
	m := x.alloc(f.Name)
	if _, ok := x.features[m.Var()]; !ok {
		x.features[m.Var()] = f
		x.inorder = append(x.inorder, f)
	}
	return m.Dimacs()
}

// VarOf returns the variable of the named feature.
func (x *Index) VarOf(name string) (int, bool) {
	m, ok := x.byName[name]
	if !ok {
		return 0, false
	}
	return m.Dimacs(), true
}

// FeatureOf returns the feature bound to variable v.
func (x *Index) FeatureOf(v int) (*featuremodel.Feature, bool) {
	if v <= 0 {
		return nil, false
	}
	f, ok := x.features[z.Var(v)]
	return f, ok
}

// Features returns the bound features in allocation order.
func (x *Index) Features() []*featuremodel.Feature {
	return x.inorder
}

// Vars returns the variable of every bound feature, in the same order
// as Features.
func (x *Index) Vars() []int {
	vars := make([]int, len(x.inorder))
	for i, f := range x.inorder {
		vars[i] = x.byName[f.Name].Dimacs()
	}
	return vars
}

// NonRootVars returns the variables of every bound feature except the
// root.
func (x *Index) NonRootVars() []int {
	var vars []int
	for _, f := range x.inorder {
		if !f.IsRoot() {
			vars = append(vars, x.byName[f.Name].Dimacs())
		}
	}
	return vars
}

func (x *Index) Len() int {
	return len(x.inorder)
}

// clauseCollector receives clauses from the circuit, which writes
// them literal by literal with z.LitNull as the terminator.
type clauseCollector struct {
	clauses []sat.Clause
	buf     sat.Clause
}

func (cc *clauseCollector) Add(m z.Lit) {
	if m == z.LitNull {
		cc.clauses = append(cc.clauses, cc.buf)
		cc.buf = nil
		return
	}
	cc.buf = append(cc.buf, m.Dimacs())
}

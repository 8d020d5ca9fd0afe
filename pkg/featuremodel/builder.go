package featuremodel

// FeatureOption customizes a feature added through a Builder.
type FeatureOption func(f *Feature)

// Optional marks a feature as optional. Features are mandatory unless
// this option is given.
func Optional() FeatureOption {
	return func(f *Feature) {
		f.Optional = true
	}
}

// Numeric turns a feature into a numeric feature over the given
// value domain.
func Numeric(values ...int) FeatureOption {
	return func(f *Feature) {
		f.Kind = KindNumeric
		f.Values = append([]int(nil), values...)
	}
}

// Builder assembles a Model. The first error encountered is kept and
// returned from Build; later calls become no-ops.
type Builder struct {
	name        string
	root        *Feature
	byName      map[string]*Feature
	constraints []Constraint
	err         error
}

// NewBuilder starts a model whose root feature is named root.
func NewBuilder(name, root string) *Builder {
	r := &Feature{Name: root, Kind: KindRoot}
	return &Builder{
		name:   name,
		root:   r,
		byName: map[string]*Feature{root: r},
	}
}

func (b *Builder) newFeature(name string, opts []FeatureOption) *Feature {
	if _, ok := b.byName[name]; ok {
		b.err = DuplicateFeature(name)
		return nil
	}
	f := &Feature{Name: name, Kind: KindBinary}
	for _, opt := range opts {
		opt(f)
	}
	b.byName[name] = f
	return f
}

func (b *Builder) lookup(name string) *Feature {
	f, ok := b.byName[name]
	if !ok {
		b.err = UnknownFeature(name)
		return nil
	}
	return f
}

// AddFeature adds a feature directly below parent.
func (b *Builder) AddFeature(parent, name string, opts ...FeatureOption) *Builder {
	if b.err != nil {
		return b
	}
	p := b.lookup(parent)
	if p == nil {
		return b
	}
	f := b.newFeature(name, opts)
	if f == nil {
		return b
	}
	f.parent = p
	p.children = append(p.children, f)
	return b
}

// AddGroup adds a group of the given kind below parent, with one
// member feature per name. opts apply to every member.
func (b *Builder) AddGroup(parent string, kind GroupKind, members []string, opts ...FeatureOption) *Builder {
	if b.err != nil {
		return b
	}
	p := b.lookup(parent)
	if p == nil {
		return b
	}
	g := &Group{Kind: kind, parent: p}
	for _, name := range members {
		f := b.newFeature(name, opts)
		if f == nil {
			return b
		}
		f.parent = p
		f.group = g
		g.members = append(g.members, f)
	}
	p.children = append(p.children, g)
	return b
}

// Excludes declares that left and right are never selected together.
func (b *Builder) Excludes(left, right string) *Builder {
	b.constraints = append(b.constraints, Constraint{Kind: Excludes, Left: left, Right: right})
	return b
}

// MutuallyExcludes declares an excludes constraint in both directions
// for every distinct pair of names.
func (b *Builder) MutuallyExcludes(names ...string) *Builder {
	for _, l := range names {
		for _, r := range names {
			if l != r {
				b.Excludes(l, r)
			}
		}
	}
	return b
}

// Implies declares that selecting left requires selecting right.
func (b *Builder) Implies(left, right string) *Builder {
	b.constraints = append(b.constraints, Constraint{Kind: Implies, Left: left, Right: right})
	return b
}

// Or declares a raw disjunction such as "(A | !B)".
func (b *Builder) Or(expr string) *Builder {
	b.constraints = append(b.constraints, Constraint{Kind: Or, Expr: expr})
	return b
}

// Build returns the finished model. Constraint operands are not
// validated here; names that do not resolve are left for the consumer
// to report.
func (b *Builder) Build() (*Model, error) {
	if b.err != nil {
		return nil, b.err
	}
	for _, c := range b.constraints {
		if c.Kind == Or {
			continue
		}
		l, lok := b.byName[c.Left]
		r, rok := b.byName[c.Right]
		if !lok || !rok {
			continue
		}
		switch c.Kind {
		case Excludes:
			l.excludes = append(l.excludes, r)
		case Implies:
			l.implies = append(l.implies, r)
		}
	}
	return &Model{
		name:        b.name,
		root:        b.root,
		byName:      b.byName,
		preorder:    preorder(b.root, nil),
		constraints: append([]Constraint(nil), b.constraints...),
	}, nil
}

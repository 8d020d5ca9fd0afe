package featuremodel

import (
	"fmt"
)

// Kind distinguishes the variants of Feature.
type Kind int

const (
	KindRoot Kind = iota
	KindBinary
	KindNumeric
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindBinary:
		return "binary"
	case KindNumeric:
		return "numeric"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// GroupKind is the declared kind of a Group. The declaration is a
// hint only: whether a group is encoded as an alternative is decided
// from the exclusion constraints between its members.
type GroupKind string

const (
	GroupAlternative GroupKind = "alternative"
	GroupOr          GroupKind = "or"
)

// TreeNode is implemented by the two kinds of node that can appear as
// the child of a Feature: another *Feature, or a *Group of features.
type TreeNode interface {
	treeNode()
}

// Feature is a single node of a feature model tree.
type Feature struct {
	Name     string
	Kind     Kind
	Optional bool
	// Values is the value domain of a numeric feature.
	Values []int

	parent   *Feature
	group    *Group
	children []TreeNode
	excludes []*Feature
	implies  []*Feature
}

func (*Feature) treeNode() {}

// Parent returns the feature above f, looking through an enclosing
// Group, or nil for the root.
func (f *Feature) Parent() *Feature {
	return f.parent
}

// Group returns the group f is a member of, or nil if f hangs
// directly off its parent feature.
func (f *Feature) Group() *Group {
	return f.group
}

// Children returns the direct child nodes of f in declaration order.
func (f *Feature) Children() []TreeNode {
	return f.children
}

// Excludes returns the features named as the right operand of an
// excludes constraint whose left operand is f.
func (f *Feature) Excludes() []*Feature {
	return f.excludes
}

// Implies returns the features named as the right operand of an
// implies constraint whose left operand is f.
func (f *Feature) Implies() []*Feature {
	return f.implies
}

func (f *Feature) IsRoot() bool {
	return f.Kind == KindRoot
}

func (f *Feature) String() string {
	return f.Name
}

// Group is a tree node that gathers sibling features below a common
// parent feature.
type Group struct {
	Kind GroupKind

	parent  *Feature
	members []*Feature
}

func (*Group) treeNode() {}

// Parent returns the feature the group hangs off.
func (g *Group) Parent() *Feature {
	return g.parent
}

// Children returns the member features of g in declaration order.
func (g *Group) Children() []*Feature {
	return g.members
}

func (g *Group) String() string {
	names := make([]string, len(g.members))
	for i, m := range g.members {
		names[i] = m.Name
	}
	return fmt.Sprintf("%s group of %s %v", g.Kind, g.parent, names)
}

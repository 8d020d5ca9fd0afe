// Package featuremodel holds the feature model consumed by the
// constraint compiler: a tree of root, binary and numeric features,
// groups of sibling features, and cross-tree boolean constraints.
package featuremodel

import "fmt"

// DuplicateFeature is returned when two features share a name.
type DuplicateFeature string

func (e DuplicateFeature) Error() string {
	return fmt.Sprintf("duplicate feature %q in model", string(e))
}

// UnknownFeature is returned when a feature name is referenced as a
// parent but was never declared.
type UnknownFeature string

func (e UnknownFeature) Error() string {
	return fmt.Sprintf("feature %q referenced but not declared", string(e))
}

// Model is an immutable feature model. Use a Builder or Load to
// construct one.
type Model struct {
	name        string
	root        *Feature
	byName      map[string]*Feature
	preorder    []*Feature
	constraints []Constraint
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) Root() *Feature {
	return m.root
}

// Features returns every feature of the model in pre-order: the root
// first, then each child subtree in declaration order. Members of a
// group are visited in place of the group. The order is the same on
// every call.
func (m *Model) Features() []*Feature {
	return m.preorder
}

// Feature looks up a feature by name.
func (m *Model) Feature(name string) (*Feature, bool) {
	f, ok := m.byName[name]
	return f, ok
}

// Constraints returns the cross-tree boolean constraints in
// declaration order.
func (m *Model) Constraints() []Constraint {
	return m.constraints
}

func (m *Model) Len() int {
	return len(m.preorder)
}

// NonRoot returns every feature except the root, in pre-order.
func (m *Model) NonRoot() []*Feature {
	if len(m.preorder) == 0 {
		return nil
	}
	return m.preorder[1:]
}

func preorder(f *Feature, dst []*Feature) []*Feature {
	dst = append(dst, f)
	for _, child := range f.children {
		switch n := child.(type) {
		case *Feature:
			dst = preorder(n, dst)
		case *Group:
			for _, member := range n.members {
				dst = preorder(member, dst)
			}
		}
	}
	return dst
}

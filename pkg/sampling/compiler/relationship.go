package compiler

import (
	"fmt"

	"github.com/fmsampling/variant-sampler/pkg/featuremodel"
)

type RelationshipKind string

const (
	Alternative RelationshipKind = "alternative"
	OrGroup     RelationshipKind = "or"
)

// Relationship ties a parent feature to a group of its children.
type Relationship struct {
	Parent   *featuremodel.Feature
	Children []*featuremodel.Feature
	Kind     RelationshipKind
}

func (r Relationship) String() string {
	names := make([]string, len(r.Children))
	for i, c := range r.Children {
		names[i] = c.Name
	}
	return fmt.Sprintf("Relationship(kind=%s, parent=%s, children=%v)", r.Kind, r.Parent.Name, names)
}

package featuremodel

import "fmt"

// ConstraintKind identifies the shape of a cross-tree Constraint.
type ConstraintKind int

const (
	// Excludes forbids Left and Right from being selected together.
	Excludes ConstraintKind = iota
	// Implies requires Right whenever Left is selected.
	Implies
	// Or is a raw disjunction given as text, e.g. "(A | !B | C)".
	Or
)

func (k ConstraintKind) String() string {
	switch k {
	case Excludes:
		return "excludes"
	case Implies:
		return "implies"
	case Or:
		return "or"
	}
	return fmt.Sprintf("ConstraintKind(%d)", int(k))
}

// Constraint is a model-level boolean constraint. Left and Right are
// feature names and are set for Excludes and Implies; Expr is set for
// Or.
type Constraint struct {
	Kind  ConstraintKind
	Left  string
	Right string
	Expr  string
}

func (c Constraint) String() string {
	switch c.Kind {
	case Excludes:
		return fmt.Sprintf("(%s excludes %s)", c.Left, c.Right)
	case Implies:
		return fmt.Sprintf("(%s => %s)", c.Left, c.Right)
	default:
		return c.Expr
	}
}

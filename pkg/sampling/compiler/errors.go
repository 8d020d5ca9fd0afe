package compiler

import "fmt"

// EncodingError is returned when a constraint can not be turned into
// clauses, typically because an operand does not name a boolean
// feature of the model.
type EncodingError struct {
	Constraint string
	Name       string
	Reason     string
}

func (e EncodingError) Error() string {
	return fmt.Sprintf("cannot encode constraint %s: %q %s", e.Constraint, e.Name, e.Reason)
}

// ParseError is returned for a malformed OR expression. No clause is
// produced for an expression that fails to parse.
type ParseError struct {
	Expr   string
	Reason string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("malformed or-expression %q: %s", e.Expr, e.Reason)
}

package compiler

import (
	"fmt"
	"strings"
	"unicode"
)

// Operand is one literal of a parsed OR expression.
type Operand struct {
	Name    string
	Negated bool
}

func (o Operand) String() string {
	if o.Negated {
		return "!" + o.Name
	}
	return o.Name
}

// Disjunction is the typed form of an OR expression such as
// "(A | !B | C)".
type Disjunction []Operand

// ParseDisjunction parses expr. One enclosing pair of parentheses is
// optional; operands are separated by '|' and may carry a leading '!'.
func ParseDisjunction(expr string) (Disjunction, error) {
	body := strings.TrimSpace(expr)
	if strings.HasPrefix(body, "(") {
		if !strings.HasSuffix(body, ")") {
			return nil, ParseError{Expr: expr, Reason: "unbalanced parentheses"}
		}
		body = body[1 : len(body)-1]
	}
	if strings.ContainsAny(body, "()") {
		return nil, ParseError{Expr: expr, Reason: "nested parentheses are not supported"}
	}
	if strings.TrimSpace(body) == "" {
		return nil, ParseError{Expr: expr, Reason: "no operands"}
	}

	var d Disjunction
	for _, token := range strings.Split(body, "|") {
		token = strings.TrimSpace(token)
		op := Operand{Name: token}
		if strings.HasPrefix(token, "!") {
			op = Operand{Name: strings.TrimSpace(token[1:]), Negated: true}
		}
		if op.Name == "" {
			return nil, ParseError{Expr: expr, Reason: "empty operand"}
		}
		if strings.IndexFunc(op.Name, invalidNameRune) >= 0 {
			return nil, ParseError{Expr: expr, Reason: fmt.Sprintf("invalid operand %q", token)}
		}
		d = append(d, op)
	}
	return d, nil
}

func invalidNameRune(r rune) bool {
	return unicode.IsSpace(r) || r == '!' || r == '&'
}

// Package formula represents covariate expressions for multi-state
// hazard models as explicit tagged-node trees, and provides the
// operations the map compiler needs on them: splitting off the option
// clause, interpreting options, expanding a formula into additive
// terms, and canonical term signatures.
//
// Trees are normally produced by an expression-parsing collaborator or
// deserialized from JSON (see the parser package); the constructors
// here build them programmatically.
package formula

import (
	"strconv"
	"strings"
)

// Node is the interface implemented by all expression tree nodes.
type Node interface {
	// String renders the node in conventional infix form. Renderings
	// are used for diagnostics and as opaque variable names for call
	// terms; they are never used for term matching.
	String() string
}

// Op is an operator application. Binary operators are "+", "-", "*",
// ":", "/", "~" and "in"; "-" may also be unary. The grouping
// pseudo-operator "()" wraps a single child and marks an explicit
// parenthesized sub-expression.
type Op struct {
	Name string
	Args []Node
}

// Sym is a bare identifier: a variable, state, or attribute name.
type Sym struct {
	Name string
}

// Call is a function application, such as init(0.1, 0.2) or an
// attribute selector event(death).
type Call struct {
	Name string
	Args []Node
}

// Num is a numeric literal.
type Num struct {
	Value float64
}

// Str is a string literal.
type Str struct {
	Value string
}

func (o *Op) String() string {
	switch {
	case o.Name == "()" && len(o.Args) == 1:
		return "(" + o.Args[0].String() + ")"
	case len(o.Args) == 1:
		return o.Name + o.Args[0].String()
	case len(o.Args) == 2:
		return o.Args[0].String() + " " + o.Name + " " + o.Args[1].String()
	default:
		parts := make([]string, len(o.Args))
		for i, a := range o.Args {
			parts[i] = a.String()
		}
		return o.Name + "(" + strings.Join(parts, ", ") + ")"
	}
}

func (s *Sym) String() string { return s.Name }

func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

func (n *Num) String() string { return strconv.FormatFloat(n.Value, 'g', -1, 64) }

func (s *Str) String() string { return strconv.Quote(s.Value) }

// NewOp builds an operator node.
func NewOp(name string, args ...Node) *Op { return &Op{Name: name, Args: args} }

// NewSym builds an identifier node.
func NewSym(name string) *Sym { return &Sym{Name: name} }

// NewCall builds a function application node.
func NewCall(name string, args ...Node) *Call { return &Call{Name: name, Args: args} }

// NewNum builds a numeric literal node.
func NewNum(v float64) *Num { return &Num{Value: v} }

// NewStr builds a string literal node.
func NewStr(v string) *Str { return &Str{Value: v} }

// Group wraps a node in an explicit parenthesis marker. Grouped
// sub-expressions are opaque to Split, which lets users reference
// variables that happen to share a name with an option keyword.
func Group(n Node) *Op { return &Op{Name: "()", Args: []Node{n}} }

// binaryOp reports whether n is a binary application of the named
// operator.
func binaryOp(n Node, name string) (*Op, bool) {
	op, ok := n.(*Op)
	if ok && op.Name == name && len(op.Args) == 2 {
		return op, true
	}
	return nil, false
}

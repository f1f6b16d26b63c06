package formula

// Split separates a covariate expression into its core formula and the
// option clause attached with a topmost "/". The second return value is
// nil when the expression carries no options.
//
// The walk descends the right child of each additive or interaction
// operator first, then the left, splicing the option-free remainder
// back in place of the child that yielded the split. Function-call
// arguments and parenthesized groups are never entered, so a slash
// inside them is invisible here; unary minus is likewise a leaf. At
// most one option clause is extracted per expression.
func Split(n Node) (core Node, opts Node) {
	op, ok := n.(*Op)
	if !ok {
		return n, nil
	}
	switch op.Name {
	case "/":
		if len(op.Args) == 2 {
			return op.Args[0], op.Args[1]
		}
	case "+", "-", "*", ":", "in":
		if len(op.Args) != 2 {
			break
		}
		if c, o := Split(op.Args[1]); o != nil {
			return &Op{Name: op.Name, Args: []Node{op.Args[0], c}}, o
		}
		if c, o := Split(op.Args[0]); o != nil {
			return &Op{Name: op.Name, Args: []Node{c, op.Args[1]}}, o
		}
	}
	return n, nil
}

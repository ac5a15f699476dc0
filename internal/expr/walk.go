package expr

// Walk visits e and its descendants depth-first, parents before children.
// Returning false from fn skips the node's children.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case *Field:
		Walk(n.Operand, fn)
	case *Binary:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Unary:
		Walk(n.Operand, fn)
	case *Call:
		Walk(n.Receiver, fn)
		for _, a := range n.Args {
			Walk(a, fn)
		}
	case *Membership:
		Walk(n.Operand, fn)
	}
}

// Fields returns every maximal field path in e (x.Address.City) in visit order.
func Fields(e Expr) []string {
	var out []string
	Walk(e, func(n Expr) bool {
		if f, ok := n.(*Field); ok {
			out = append(out, f.String())
			return false
		}
		return true
	})
	return out
}

package ast

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
// If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *Block:
		for _, s := range n.Stmts {
			Walk(s, v)
		}

	case *VarDecl:
		Walk(n.Name, v)
		if n.Init != nil {
			Walk(n.Init, v)
		}

	case *FuncDecl:
		Walk(n.Name, v)
		for _, p := range n.Params {
			Walk(p, v)
		}
		if n.Body != nil {
			Walk(n.Body, v)
		}

	case *StructDecl:
		Walk(n.Name, v)
		for _, m := range n.Members {
			Walk(m, v)
		}

	case *AssignStmt:
		Walk(n.Target, v)
		Walk(n.Value, v)

	case *IfStmt:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		if n.ElseIf != nil {
			Walk(n.ElseIf, v)
		}
		if n.Else != nil {
			Walk(n.Else, v)
		}

	case *LoopStmt:
		Walk(n.List, v)
		Walk(n.Elem, v)
		Walk(n.Body, v)

	case *ReturnStmt:
		if n.Result != nil {
			Walk(n.Result, v)
		}

	case *ExprStmt:
		Walk(n.X, v)

	case *BinaryExpr:
		Walk(n.X, v)
		Walk(n.Y, v)

	case *CallExpr:
		Walk(n.Name, v)
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *IndexExpr:
		Walk(n.Name, v)
		Walk(n.Index, v)

	case *FieldExpr:
		Walk(n.Name, v)
		Walk(n.Member, v)

	case *ListLit:
		for _, e := range n.Elems {
			Walk(e, v)
		}

		// Leaf nodes: Ident and the scalar literals.
		// No children to visit.
	}
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}

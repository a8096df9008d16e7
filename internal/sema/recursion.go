package sema

import "github.com/ainfosec/crema/internal/ast"

// checkRecursion rejects any function from whose body a call chain can
// reach the function itself. Direct recursion is the base case; the
// walk follows callee bodies through the function table, so mutual
// cycles of any length are rejected too. This is what keeps Crema
// programs guaranteed to terminate (together with the bounded loop).
func (a *analyzer) checkRecursion(d *ast.FuncDecl) error {
	seen := make(map[string]bool)
	if a.reaches(d.Body, d.Name.Value, seen) {
		return a.errorf(d.Pos(), "recursive call in function %s", d.Name.Value)
	}
	return nil
}

// reaches reports whether any call chain starting in body can reach
// the function named target. seen guards against revisiting callees,
// so the walk terminates even on (rejected) cyclic call graphs.
func (a *analyzer) reaches(body *ast.Block, target string, seen map[string]bool) bool {
	if body == nil {
		return false
	}
	found := false
	ast.Inspect(body, func(n ast.Node) bool {
		if found {
			return false
		}
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		callee := call.Name.Value
		if callee == target {
			found = true
			return false
		}
		if !seen[callee] {
			seen[callee] = true
			if fd := a.ctx.LookupFunc(callee); fd != nil && a.reaches(fd.Body, target, seen) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

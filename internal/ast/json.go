package ast

import (
	"encoding/json"
	"io"

	"github.com/ainfosec/crema/internal/types"
)

// FprintJSON writes a JSON representation of the AST to w. The format
// is the interchange format produced by the parser and accepted by
// DecodeJSON.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

func typeJSON(t types.Type) interface{} {
	m := map[string]interface{}{
		"code": t.Code().String(),
	}
	if t.IsList() {
		m["list"] = true
	}
	if t.StructName() != "" {
		m["struct"] = t.StructName()
	}
	return m
}

func toJSON(node Node) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Block:
		return map[string]interface{}{
			"type":  "Block",
			"pos":   n.pos.String(),
			"stmts": mapSlice(n.Stmts, toJSON),
		}

	case *VarDecl:
		m := map[string]interface{}{
			"type":    "VarDecl",
			"pos":     n.pos.String(),
			"name":    n.Name.Value,
			"vartype": typeJSON(n.DeclType),
		}
		if n.Init != nil {
			m["init"] = toJSON(n.Init)
		}
		return m

	case *FuncDecl:
		m := map[string]interface{}{
			"type":   "FuncDecl",
			"pos":    n.pos.String(),
			"name":   n.Name.Value,
			"result": typeJSON(n.Result),
			"params": mapSlice(n.Params, toJSON),
		}
		if n.Body != nil {
			m["body"] = toJSON(n.Body)
		}
		return m

	case *StructDecl:
		return map[string]interface{}{
			"type":    "StructDecl",
			"pos":     n.pos.String(),
			"name":    n.Name.Value,
			"members": mapSlice(n.Members, toJSON),
		}

	case *AssignStmt:
		return map[string]interface{}{
			"type":   "AssignStmt",
			"pos":    n.pos.String(),
			"target": toJSON(n.Target),
			"value":  toJSON(n.Value),
		}

	case *IfStmt:
		m := map[string]interface{}{
			"type": "IfStmt",
			"pos":  n.pos.String(),
			"cond": toJSON(n.Cond),
			"then": toJSON(n.Then),
		}
		if n.ElseIf != nil {
			m["elseif"] = toJSON(n.ElseIf)
		}
		if n.Else != nil {
			m["else"] = toJSON(n.Else)
		}
		return m

	case *LoopStmt:
		return map[string]interface{}{
			"type": "LoopStmt",
			"pos":  n.pos.String(),
			"list": toJSON(n.List),
			"elem": toJSON(n.Elem),
			"body": toJSON(n.Body),
		}

	case *ReturnStmt:
		m := map[string]interface{}{
			"type": "ReturnStmt",
			"pos":  n.pos.String(),
		}
		if n.Result != nil {
			m["result"] = toJSON(n.Result)
		}
		return m

	case *ExprStmt:
		return map[string]interface{}{
			"type": "ExprStmt",
			"pos":  n.pos.String(),
			"x":    toJSON(n.X),
		}

	case *Ident:
		return map[string]interface{}{
			"type":  "Ident",
			"pos":   n.pos.String(),
			"value": n.Value,
		}

	case *BinaryExpr:
		return map[string]interface{}{
			"type": "BinaryExpr",
			"pos":  n.pos.String(),
			"op":   n.Op.String(),
			"x":    toJSON(n.X),
			"y":    toJSON(n.Y),
		}

	case *CallExpr:
		return map[string]interface{}{
			"type": "CallExpr",
			"pos":  n.pos.String(),
			"name": n.Name.Value,
			"args": mapSlice(n.Args, toJSON),
		}

	case *IndexExpr:
		return map[string]interface{}{
			"type":  "IndexExpr",
			"pos":   n.pos.String(),
			"name":  n.Name.Value,
			"index": toJSON(n.Index),
		}

	case *FieldExpr:
		return map[string]interface{}{
			"type":   "FieldExpr",
			"pos":    n.pos.String(),
			"name":   n.Name.Value,
			"member": n.Member.Value,
		}

	case *IntLit:
		return map[string]interface{}{
			"type":  "IntLit",
			"pos":   n.pos.String(),
			"value": n.Value,
		}

	case *UIntLit:
		return map[string]interface{}{
			"type":  "UIntLit",
			"pos":   n.pos.String(),
			"value": n.Value,
		}

	case *DoubleLit:
		return map[string]interface{}{
			"type":  "DoubleLit",
			"pos":   n.pos.String(),
			"value": n.Value,
		}

	case *CharLit:
		return map[string]interface{}{
			"type":  "CharLit",
			"pos":   n.pos.String(),
			"value": string(n.Value),
		}

	case *BoolLit:
		return map[string]interface{}{
			"type":  "BoolLit",
			"pos":   n.pos.String(),
			"value": n.Value,
		}

	case *StrLit:
		return map[string]interface{}{
			"type":  "StrLit",
			"pos":   n.pos.String(),
			"value": n.Value,
		}

	case *ListLit:
		return map[string]interface{}{
			"type":  "ListLit",
			"pos":   n.pos.String(),
			"elems": mapSlice(n.Elems, toJSON),
		}

	default:
		return map[string]interface{}{
			"type": "Unknown",
		}
	}
}

func mapSlice[T Node](s []T, f func(Node) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}

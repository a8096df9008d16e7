package ast

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ainfosec/crema/internal/types"
)

// DecodeJSON reads the parser's JSON interchange format from r and
// rebuilds the AST. The root of a program is always a Block.
func DecodeJSON(r io.Reader) (*Block, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding AST: %w", err)
	}

	n, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	b, ok := n.(*Block)
	if !ok {
		return nil, fmt.Errorf("decoding AST: root node is %T, want Block", n)
	}
	return b, nil
}

// obj is one decoded JSON object, with typed field accessors.
type obj map[string]interface{}

func asObj(raw interface{}) (obj, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("decoding AST: node is %T, want object", raw)
	}
	return obj(m), nil
}

func (o obj) kind() string {
	s, _ := o["type"].(string)
	return s
}

func (o obj) str(key string) (string, error) {
	v, ok := o[key]
	if !ok {
		return "", fmt.Errorf("decoding %s: missing %q", o.kind(), key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("decoding %s: %q is %T, want string", o.kind(), key, v)
	}
	return s, nil
}

func (o obj) num(key string) (json.Number, error) {
	v, ok := o[key]
	if !ok {
		return "", fmt.Errorf("decoding %s: missing %q", o.kind(), key)
	}
	n, ok := v.(json.Number)
	if !ok {
		return "", fmt.Errorf("decoding %s: %q is %T, want number", o.kind(), key, v)
	}
	return n, nil
}

func (o obj) list(key string) ([]interface{}, error) {
	v, ok := o[key]
	if !ok {
		return nil, nil
	}
	l, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("decoding %s: %q is %T, want array", o.kind(), key, v)
	}
	return l, nil
}

// pos parses the "pos" field ("filename:line:col" or "line:col").
// A missing or malformed position decodes as the zero Pos.
func (o obj) pos() Pos {
	s, _ := o["pos"].(string)
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return Pos{}
	}
	line, err1 := strconv.ParseUint(parts[len(parts)-2], 10, 32)
	col, err2 := strconv.ParseUint(parts[len(parts)-1], 10, 32)
	if err1 != nil || err2 != nil {
		return Pos{}
	}
	filename := strings.Join(parts[:len(parts)-2], ":")
	return NewPos(filename, uint32(line), uint32(col))
}

// typ parses a type object: {"code": "int", "list": true, "struct": "Point"}.
func (o obj) typ(key string) (types.Type, error) {
	v, ok := o[key]
	if !ok {
		return types.Typ[types.Invalid], fmt.Errorf("decoding %s: missing %q", o.kind(), key)
	}
	to, err := asObj(v)
	if err != nil {
		return types.Typ[types.Invalid], err
	}
	codeName, err := to.str("code")
	if err != nil {
		return types.Typ[types.Invalid], err
	}
	code := types.CodeFromString(codeName)
	if code == types.Invalid {
		return types.Typ[types.Invalid], fmt.Errorf("decoding %s: unknown type code %q", o.kind(), codeName)
	}
	isList, _ := to["list"].(bool)
	structName, _ := to["struct"].(string)
	switch {
	case isList:
		return types.List(code), nil
	case structName != "":
		return types.StructOf(structName), nil
	}
	return types.Typ[code], nil
}

func (o obj) ident(key string) (*Ident, error) {
	s, err := o.str(key)
	if err != nil {
		return nil, err
	}
	id := &Ident{Value: s}
	id.SetPos(o.pos())
	return id, nil
}

func decodeExpr(raw interface{}) (Expr, error) {
	n, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	e, ok := n.(Expr)
	if !ok {
		return nil, fmt.Errorf("decoding AST: %T is not an expression", n)
	}
	return e, nil
}

func decodeStmt(raw interface{}) (Stmt, error) {
	n, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	s, ok := n.(Stmt)
	if !ok {
		return nil, fmt.Errorf("decoding AST: %T is not a statement", n)
	}
	return s, nil
}

func decodeBlock(raw interface{}) (*Block, error) {
	n, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	b, ok := n.(*Block)
	if !ok {
		return nil, fmt.Errorf("decoding AST: %T is not a block", n)
	}
	return b, nil
}

func decodeVarDecl(raw interface{}) (*VarDecl, error) {
	n, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	d, ok := n.(*VarDecl)
	if !ok {
		return nil, fmt.Errorf("decoding AST: %T is not a variable declaration", n)
	}
	return d, nil
}

func decodeNode(raw interface{}) (Node, error) {
	o, err := asObj(raw)
	if err != nil {
		return nil, err
	}

	switch kind := o.kind(); kind {
	case "Block":
		elems, err := o.list("stmts")
		if err != nil {
			return nil, err
		}
		b := &Block{}
		b.SetPos(o.pos())
		for _, e := range elems {
			s, err := decodeStmt(e)
			if err != nil {
				return nil, err
			}
			b.Stmts = append(b.Stmts, s)
		}
		return b, nil

	case "VarDecl":
		name, err := o.ident("name")
		if err != nil {
			return nil, err
		}
		typ, err := o.typ("vartype")
		if err != nil {
			return nil, err
		}
		d := &VarDecl{DeclType: typ, Name: name}
		d.SetPos(o.pos())
		if init, ok := o["init"]; ok {
			if d.Init, err = decodeExpr(init); err != nil {
				return nil, err
			}
		}
		return d, nil

	case "FuncDecl":
		name, err := o.ident("name")
		if err != nil {
			return nil, err
		}
		result, err := o.typ("result")
		if err != nil {
			return nil, err
		}
		params, err := o.list("params")
		if err != nil {
			return nil, err
		}
		d := &FuncDecl{Result: result, Name: name}
		d.SetPos(o.pos())
		for _, p := range params {
			pd, err := decodeVarDecl(p)
			if err != nil {
				return nil, err
			}
			d.Params = append(d.Params, pd)
		}
		if body, ok := o["body"]; ok {
			if d.Body, err = decodeBlock(body); err != nil {
				return nil, err
			}
		}
		return d, nil

	case "StructDecl":
		name, err := o.ident("name")
		if err != nil {
			return nil, err
		}
		members, err := o.list("members")
		if err != nil {
			return nil, err
		}
		d := &StructDecl{Name: name}
		d.SetPos(o.pos())
		for _, m := range members {
			md, err := decodeVarDecl(m)
			if err != nil {
				return nil, err
			}
			d.Members = append(d.Members, md)
		}
		return d, nil

	case "AssignStmt":
		target, err := decodeExpr(o["target"])
		if err != nil {
			return nil, err
		}
		value, err := decodeExpr(o["value"])
		if err != nil {
			return nil, err
		}
		s := &AssignStmt{Target: target, Value: value}
		s.SetPos(o.pos())
		return s, nil

	case "IfStmt":
		cond, err := decodeExpr(o["cond"])
		if err != nil {
			return nil, err
		}
		then, err := decodeBlock(o["then"])
		if err != nil {
			return nil, err
		}
		s := &IfStmt{Cond: cond, Then: then}
		s.SetPos(o.pos())
		if ei, ok := o["elseif"]; ok {
			n, err := decodeNode(ei)
			if err != nil {
				return nil, err
			}
			arm, ok := n.(*IfStmt)
			if !ok {
				return nil, fmt.Errorf("decoding IfStmt: elseif is %T, want IfStmt", n)
			}
			s.ElseIf = arm
		}
		if el, ok := o["else"]; ok {
			if s.Else, err = decodeBlock(el); err != nil {
				return nil, err
			}
		}
		return s, nil

	case "LoopStmt":
		list, err := decodeExpr(o["list"])
		if err != nil {
			return nil, err
		}
		elem, err := decodeExpr(o["elem"])
		if err != nil {
			return nil, err
		}
		listID, ok1 := list.(*Ident)
		elemID, ok2 := elem.(*Ident)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("decoding LoopStmt: list and elem must be identifiers")
		}
		body, err := decodeBlock(o["body"])
		if err != nil {
			return nil, err
		}
		s := &LoopStmt{List: listID, Elem: elemID, Body: body}
		s.SetPos(o.pos())
		return s, nil

	case "ReturnStmt":
		s := &ReturnStmt{}
		s.SetPos(o.pos())
		if res, ok := o["result"]; ok {
			var err error
			if s.Result, err = decodeExpr(res); err != nil {
				return nil, err
			}
		}
		return s, nil

	case "ExprStmt":
		x, err := decodeExpr(o["x"])
		if err != nil {
			return nil, err
		}
		s := &ExprStmt{X: x}
		s.SetPos(o.pos())
		return s, nil

	case "Ident":
		value, err := o.str("value")
		if err != nil {
			return nil, err
		}
		e := &Ident{Value: value}
		e.SetPos(o.pos())
		return e, nil

	case "BinaryExpr":
		opName, err := o.str("op")
		if err != nil {
			return nil, err
		}
		op := OpFromString(opName)
		if op == OpInvalid {
			return nil, fmt.Errorf("decoding BinaryExpr: unknown operator %q", opName)
		}
		x, err := decodeExpr(o["x"])
		if err != nil {
			return nil, err
		}
		y, err := decodeExpr(o["y"])
		if err != nil {
			return nil, err
		}
		e := &BinaryExpr{Op: op, X: x, Y: y}
		e.SetPos(o.pos())
		return e, nil

	case "CallExpr":
		name, err := o.ident("name")
		if err != nil {
			return nil, err
		}
		args, err := o.list("args")
		if err != nil {
			return nil, err
		}
		e := &CallExpr{Name: name}
		e.SetPos(o.pos())
		for _, a := range args {
			ae, err := decodeExpr(a)
			if err != nil {
				return nil, err
			}
			e.Args = append(e.Args, ae)
		}
		return e, nil

	case "IndexExpr":
		name, err := o.ident("name")
		if err != nil {
			return nil, err
		}
		index, err := decodeExpr(o["index"])
		if err != nil {
			return nil, err
		}
		e := &IndexExpr{Name: name, Index: index}
		e.SetPos(o.pos())
		return e, nil

	case "FieldExpr":
		name, err := o.ident("name")
		if err != nil {
			return nil, err
		}
		member, err := o.ident("member")
		if err != nil {
			return nil, err
		}
		e := &FieldExpr{Name: name, Member: member}
		e.SetPos(o.pos())
		return e, nil

	case "IntLit":
		num, err := o.num("value")
		if err != nil {
			return nil, err
		}
		v, err := num.Int64()
		if err != nil {
			return nil, fmt.Errorf("decoding IntLit: %w", err)
		}
		e := &IntLit{Value: v}
		e.SetPos(o.pos())
		return e, nil

	case "UIntLit":
		num, err := o.num("value")
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseUint(num.String(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decoding UIntLit: %w", err)
		}
		e := &UIntLit{Value: v}
		e.SetPos(o.pos())
		return e, nil

	case "DoubleLit":
		num, err := o.num("value")
		if err != nil {
			return nil, err
		}
		v, err := num.Float64()
		if err != nil {
			return nil, fmt.Errorf("decoding DoubleLit: %w", err)
		}
		e := &DoubleLit{Value: v}
		e.SetPos(o.pos())
		return e, nil

	case "CharLit":
		s, err := o.str("value")
		if err != nil {
			return nil, err
		}
		runes := []rune(s)
		if len(runes) != 1 {
			return nil, fmt.Errorf("decoding CharLit: value %q is not a single character", s)
		}
		e := &CharLit{Value: runes[0]}
		e.SetPos(o.pos())
		return e, nil

	case "BoolLit":
		v, ok := o["value"].(bool)
		if !ok {
			return nil, fmt.Errorf("decoding BoolLit: value is %T, want bool", o["value"])
		}
		e := &BoolLit{Value: v}
		e.SetPos(o.pos())
		return e, nil

	case "StrLit":
		s, err := o.str("value")
		if err != nil {
			return nil, err
		}
		e := &StrLit{Value: s}
		e.SetPos(o.pos())
		return e, nil

	case "ListLit":
		elems, err := o.list("elems")
		if err != nil {
			return nil, err
		}
		e := &ListLit{}
		e.SetPos(o.pos())
		for _, el := range elems {
			ee, err := decodeExpr(el)
			if err != nil {
				return nil, err
			}
			e.Elems = append(e.Elems, ee)
		}
		return e, nil

	default:
		return nil, fmt.Errorf("decoding AST: unknown node type %q", kind)
	}
}

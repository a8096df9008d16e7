package types

import (
	"fmt"
	"sort"
	"strings"
)

// Scope represents one lexical scope frame. Scopes form a tree rooted
// at the top-level program scope.
type Scope struct {
	parent  *Scope
	elems   map[string]*Var
	comment string // debugging comment (e.g., "function foo", "loop body")
}

// NewScope creates a new scope with the given parent.
func NewScope(parent *Scope, comment string) *Scope {
	return &Scope{
		parent:  parent,
		elems:   make(map[string]*Var),
		comment: comment,
	}
}

// Parent returns the parent scope, or nil for the top-level scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Comment returns the scope's comment (for debugging).
func (s *Scope) Comment() string {
	return s.comment
}

// Lookup returns the variable with the given name in this scope only.
// Returns nil if not found (does not search parent scopes).
func (s *Scope) Lookup(name string) *Var {
	return s.elems[name]
}

// LookupParent searches for the name from this scope outward through
// all parent scopes. Returns the variable and the scope it was found
// in, or (nil, nil).
func (s *Scope) LookupParent(name string) (*Var, *Scope) {
	for scope := s; scope != nil; scope = scope.parent {
		if v := scope.elems[name]; v != nil {
			return v, scope
		}
	}
	return nil, nil
}

// Insert inserts a variable into the scope. If a variable with the
// same name already exists in this scope, the existing variable is
// returned and the scope is unchanged; otherwise Insert returns nil.
func (s *Scope) Insert(v *Var) *Var {
	name := v.Name()
	if existing := s.elems[name]; existing != nil {
		return existing
	}
	s.elems[name] = v
	v.parent = s
	return nil
}

// Names returns the names of all variables in the scope, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.elems))
	for name := range s.elems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NumObjects returns the number of variables in the scope.
func (s *Scope) NumObjects() int {
	return len(s.elems)
}

// String returns a string representation of the scope for debugging.
func (s *Scope) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "scope %s {\n", s.comment)
	for _, name := range s.Names() {
		fmt.Fprintf(&buf, "  %s: %s\n", name, s.elems[name].Type())
	}
	buf.WriteString("}\n")
	return buf.String()
}

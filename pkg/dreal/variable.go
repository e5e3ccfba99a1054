package dreal

import "fmt"

// VarKind distinguishes the sort of value a Variable ranges over.
type VarKind int

const (
	// Real variables range over the reals (IEEE-754 doubles, extended
	// with ±Inf endpoints).
	Real VarKind = iota
	// Bool variables range over {0, 1}, represented as the degenerate
	// interval [0,0] or [1,1] once bound.
	Bool
	// Int variables range over the reals but are contracted by
	// IntegerBounds to integer-valued endpoints.
	Int
)

func (k VarKind) String() string {
	switch k {
	case Real:
		return "real"
	case Bool:
		return "bool"
	case Int:
		return "int"
	default:
		return "unknown"
	}
}

// Variable is a named, kinded symbol with a stable identity. Identities
// are totally ordered (by id) and hashable (usable as a map key directly,
// since Variable is a small value type).
//
// Variable is the symbolic-expression library's identity primitive,
// treated by spec as an external collaborator: this is a minimal, real
// implementation of that stated interface, not a general CAS.
type Variable struct {
	id   int
	name string
	kind VarKind
}

// variableCounter hands out stable, monotonically increasing identities.
var variableCounter int

// NewVariable creates a fresh, uniquely-identified variable of the given
// kind and name. Names need not be unique; identity is carried by id.
func NewVariable(name string, kind VarKind) Variable {
	variableCounter++
	return Variable{id: variableCounter, name: name, kind: kind}
}

// ID returns the variable's stable identity.
func (v Variable) ID() int { return v.id }

// Name returns the variable's display name.
func (v Variable) Name() string { return v.name }

// Kind returns the variable's sort.
func (v Variable) Kind() VarKind { return v.kind }

// Less totally orders variables by identity, used for deterministic
// iteration order.
func (v Variable) Less(other Variable) bool { return v.id < other.id }

func (v Variable) String() string {
	return fmt.Sprintf("%s(id=%d,%s)", v.name, v.id, v.kind)
}

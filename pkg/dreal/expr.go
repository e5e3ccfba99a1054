package dreal

import (
	"fmt"
	"sort"
)

// ExprKind tags an Expression node. Expression trees are immutable
// values; structural sharing is expected (a sub-expression can be
// referenced by several parents) but not mandated.
type ExprKind int

const (
	ExprConst ExprKind = iota
	ExprVar
	ExprNeg
	ExprAdd
	ExprSub
	ExprMul
	ExprDiv
	ExprSin
	ExprCos
	ExprExp
)

// Expression is an algebraic tree over variables and constants. It is
// the symbolic-expression library's term primitive, treated by spec as
// an external collaborator: this is a minimal, real implementation of
// that stated interface.
type Expression struct {
	kind  ExprKind
	value float64
	v     Variable
	kids  []Expression
}

// Const builds a constant expression.
func Const(v float64) Expression { return Expression{kind: ExprConst, value: v} }

// Var lifts a Variable into an expression.
func Var(v Variable) Expression { return Expression{kind: ExprVar, v: v} }

func bin(kind ExprKind, a, b Expression) Expression {
	return Expression{kind: kind, kids: []Expression{a, b}}
}

func un(kind ExprKind, a Expression) Expression {
	return Expression{kind: kind, kids: []Expression{a}}
}

// Neg, Add, Sub, Mul, Div, Sin, Cos, Exp are the algebraic constructors.
func Neg(a Expression) Expression     { return un(ExprNeg, a) }
func Add(a, b Expression) Expression  { return bin(ExprAdd, a, b) }
func Sub(a, b Expression) Expression  { return bin(ExprSub, a, b) }
func Mul(a, b Expression) Expression  { return bin(ExprMul, a, b) }
func DivExpr(a, b Expression) Expression { return bin(ExprDiv, a, b) }
func Sin(a Expression) Expression     { return un(ExprSin, a) }
func Cos(a Expression) Expression     { return un(ExprCos, a) }
func Exp(a Expression) Expression     { return un(ExprExp, a) }

// FreeVariables returns the set of variables appearing in the
// expression, deduplicated and ordered by id for determinism.
func (e Expression) FreeVariables() []Variable {
	seen := map[int]Variable{}
	e.collectVars(seen)
	out := make([]Variable, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func (e Expression) collectVars(seen map[int]Variable) {
	switch e.kind {
	case ExprVar:
		seen[e.v.ID()] = e.v
	default:
		for _, k := range e.kids {
			k.collectVars(seen)
		}
	}
}

// Eval interval-evaluates the expression over a box, forward, with
// outward rounding at every arithmetic node. The ok flag is false when
// a Div node's divisor interval straddles zero (the expression's range
// cannot be soundly enclosed as a single interval).
func (e Expression) Eval(b *Box) (Interval, bool) {
	switch e.kind {
	case ExprConst:
		return Point(e.value), true
	case ExprVar:
		return b.Get(e.v), true
	case ExprNeg:
		iv, ok := e.kids[0].Eval(b)
		return iv.Neg(), ok
	case ExprAdd:
		l, ok1 := e.kids[0].Eval(b)
		r, ok2 := e.kids[1].Eval(b)
		return l.Add(r), ok1 && ok2
	case ExprSub:
		l, ok1 := e.kids[0].Eval(b)
		r, ok2 := e.kids[1].Eval(b)
		return l.Sub(r), ok1 && ok2
	case ExprMul:
		l, ok1 := e.kids[0].Eval(b)
		r, ok2 := e.kids[1].Eval(b)
		return l.Mul(r), ok1 && ok2
	case ExprDiv:
		l, ok1 := e.kids[0].Eval(b)
		r, ok2 := e.kids[1].Eval(b)
		if !ok1 || !ok2 {
			return EmptyInterval, false
		}
		res, ok := l.Div(r)
		return res, ok
	case ExprSin:
		iv, ok := e.kids[0].Eval(b)
		return iv.Sin(), ok
	case ExprCos:
		iv, ok := e.kids[0].Eval(b)
		return iv.Cos(), ok
	case ExprExp:
		iv, ok := e.kids[0].Eval(b)
		return iv.Exp(), ok
	default:
		return EmptyInterval, false
	}
}

// LinearCoefficients attempts to decompose the expression as a linear
// combination sum(c_i * var_i) + k. It returns ok=false for any
// expression containing a product of two non-constant sub-expressions,
// a division, or a transcendental function — i.e. anything the
// IbexPolytope contractor (a linear relaxation) cannot use. This mirrors
// the narrow scope Ibex's own polytope contractor operates under.
func (e Expression) LinearCoefficients() (coeffs map[int]float64, varOf map[int]Variable, constant float64, ok bool) {
	coeffs = map[int]float64{}
	varOf = map[int]Variable{}
	ok = e.accumulateLinear(1.0, coeffs, varOf, &constant)
	return coeffs, varOf, constant, ok
}

func (e Expression) accumulateLinear(scale float64, coeffs map[int]float64, varOf map[int]Variable, constant *float64) bool {
	switch e.kind {
	case ExprConst:
		*constant += scale * e.value
		return true
	case ExprVar:
		coeffs[e.v.ID()] += scale
		varOf[e.v.ID()] = e.v
		return true
	case ExprNeg:
		return e.kids[0].accumulateLinear(-scale, coeffs, varOf, constant)
	case ExprAdd:
		return e.kids[0].accumulateLinear(scale, coeffs, varOf, constant) &&
			e.kids[1].accumulateLinear(scale, coeffs, varOf, constant)
	case ExprSub:
		return e.kids[0].accumulateLinear(scale, coeffs, varOf, constant) &&
			e.kids[1].accumulateLinear(-scale, coeffs, varOf, constant)
	case ExprMul:
		if e.kids[0].kind == ExprConst {
			return e.kids[1].accumulateLinear(scale*e.kids[0].value, coeffs, varOf, constant)
		}
		if e.kids[1].kind == ExprConst {
			return e.kids[0].accumulateLinear(scale*e.kids[1].value, coeffs, varOf, constant)
		}
		return false
	default:
		return false
	}
}

func (e Expression) String() string {
	switch e.kind {
	case ExprConst:
		return fmt.Sprintf("%v", e.value)
	case ExprVar:
		return e.v.Name()
	case ExprNeg:
		return fmt.Sprintf("(-%s)", e.kids[0])
	case ExprAdd:
		return fmt.Sprintf("(%s + %s)", e.kids[0], e.kids[1])
	case ExprSub:
		return fmt.Sprintf("(%s - %s)", e.kids[0], e.kids[1])
	case ExprMul:
		return fmt.Sprintf("(%s * %s)", e.kids[0], e.kids[1])
	case ExprDiv:
		return fmt.Sprintf("(%s / %s)", e.kids[0], e.kids[1])
	case ExprSin:
		return fmt.Sprintf("sin(%s)", e.kids[0])
	case ExprCos:
		return fmt.Sprintf("cos(%s)", e.kids[0])
	case ExprExp:
		return fmt.Sprintf("exp(%s)", e.kids[0])
	default:
		return "?"
	}
}

// RelOp is an atom's relational operator.
type RelOp int

const (
	OpEq RelOp = iota
	OpNeq
	OpLt
	OpLeq
	OpGt
	OpGeq
)

func (op RelOp) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNeq:
		return "!="
	case OpLt:
		return "<"
	case OpLeq:
		return "<="
	case OpGt:
		return ">"
	case OpGeq:
		return ">="
	default:
		return "?"
	}
}

// Negate returns the relational operator's logical negation.
func (op RelOp) Negate() RelOp {
	switch op {
	case OpEq:
		return OpNeq
	case OpNeq:
		return OpEq
	case OpLt:
		return OpGeq
	case OpLeq:
		return OpGt
	case OpGt:
		return OpLeq
	case OpGeq:
		return OpLt
	default:
		return op
	}
}

// Atom is an arithmetic (dis)equality or (strict) inequality between two
// expressions: Lhs `Op` Rhs.
type Atom struct {
	Lhs, Rhs Expression
	Op       RelOp
}

// NewAtom builds an atom.
func NewAtom(lhs Expression, op RelOp, rhs Expression) Atom {
	return Atom{Lhs: lhs, Rhs: rhs, Op: op}
}

// FreeVariables returns the atom's free variables, deduplicated.
func (a Atom) FreeVariables() []Variable {
	seen := map[int]Variable{}
	a.Lhs.collectVars(seen)
	a.Rhs.collectVars(seen)
	out := make([]Variable, 0, len(seen))
	for _, v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Negate returns the atom with its relational operator negated.
func (a Atom) Negate() Atom { return Atom{Lhs: a.Lhs, Rhs: a.Rhs, Op: a.Op.Negate()} }

func (a Atom) String() string { return fmt.Sprintf("%s %s %s", a.Lhs, a.Op, a.Rhs) }

// Key returns a value usable as a map key for deduplicating atoms, since
// Expression/Atom contain slices and are not directly comparable.
func (a Atom) Key() string { return fmt.Sprintf("%s%s%s", a.Lhs, a.Op, a.Rhs) }

// FormulaKind tags a Formula node.
type FormulaKind int

const (
	FormulaAtom FormulaKind = iota
	FormulaAnd
	FormulaOr
	FormulaNot
	FormulaForall
)

// Formula is a Boolean combination of Atoms, or a universally quantified
// sub-formula. Formulas are immutable values; structural sharing is
// expected but not mandated.
type Formula struct {
	kind    FormulaKind
	atom    Atom
	kids    []Formula
	quant   Variable  // bound variable, for FormulaForall
	qDomain Interval  // quantifier domain, for FormulaForall
	body    *Formula  // quantified body, for FormulaForall
}

// FormulaOfAtom lifts an Atom into a Formula.
func FormulaOfAtom(a Atom) Formula { return Formula{kind: FormulaAtom, atom: a} }

// And conjoins formulas.
func And(fs ...Formula) Formula { return Formula{kind: FormulaAnd, kids: fs} }

// Or disjoins formulas.
func Or(fs ...Formula) Formula { return Formula{kind: FormulaOr, kids: fs} }

// Not negates a formula.
func Not(f Formula) Formula { return Formula{kind: FormulaNot, kids: []Formula{f}} }

// ForallFormula builds a universally quantified sub-formula: ∀x∈domain. body.
func ForallFormula(x Variable, domain Interval, body Formula) Formula {
	return Formula{kind: FormulaForall, quant: x, qDomain: domain, body: &body}
}

// Kind exposes the formula's tag.
func (f Formula) Kind() FormulaKind { return f.kind }

// Atom returns the wrapped atom; only meaningful when Kind() == FormulaAtom.
func (f Formula) Atom() Atom { return f.atom }

// Children returns the formula's sub-formulas for And/Or/Not.
func (f Formula) Children() []Formula { return f.kids }

// Quantified returns the bound variable, its domain, and the quantified
// body; only meaningful when Kind() == FormulaForall.
func (f Formula) Quantified() (Variable, Interval, Formula) { return f.quant, f.qDomain, *f.body }

// Atoms returns every atom reachable in the formula (not descending into
// Forall bodies, whose atoms are handled by the Forall contractor).
func (f Formula) Atoms() []Atom {
	var out []Atom
	f.collectAtoms(&out)
	return out
}

func (f Formula) collectAtoms(out *[]Atom) {
	switch f.kind {
	case FormulaAtom:
		*out = append(*out, f.atom)
	case FormulaAnd, FormulaOr, FormulaNot:
		for _, k := range f.kids {
			k.collectAtoms(out)
		}
	case FormulaForall:
		// Atoms under a quantifier are not part of the outer
		// conjunction; the Forall contractor evaluates them in its
		// own inner ICP call.
	}
}

// HasForall reports whether the formula contains a universally
// quantified sub-formula anywhere in its tree.
func (f Formula) HasForall() bool {
	if f.kind == FormulaForall {
		return true
	}
	for _, k := range f.kids {
		if k.HasForall() {
			return true
		}
	}
	return false
}

func (f Formula) String() string {
	switch f.kind {
	case FormulaAtom:
		return f.atom.String()
	case FormulaAnd:
		return joinFormulas(f.kids, "∧")
	case FormulaOr:
		return joinFormulas(f.kids, "∨")
	case FormulaNot:
		return fmt.Sprintf("¬(%s)", f.kids[0])
	case FormulaForall:
		return fmt.Sprintf("∀%s∈%s. %s", f.quant.Name(), f.qDomain, f.body)
	default:
		return "?"
	}
}

func joinFormulas(fs []Formula, sep string) string {
	s := ""
	for i, f := range fs {
		if i > 0 {
			s += " " + sep + " "
		}
		s += f.String()
	}
	return "(" + s + ")"
}

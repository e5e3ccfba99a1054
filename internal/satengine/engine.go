// Package satengine wraps github.com/crillab/gophersat's solver package
// as the opaque CDCL backend named throughout the outer SAT bridge
// (spec §4.G): a pure-Go CDCL solver, no cgo, built fresh from a DIMACS-
// style clause set on every Solve.
//
// gophersat's public surface (solver.ParseSlice, solver.New,
// (*Solver).Solve, (*Solver).Model) offers no incremental push/pop or
// core-extraction API, so Engine provides both on top: push/pop is a
// checkpoint over the accumulated clause slice with the solver rebuilt
// from scratch on every Solve (ParseSlice+New is cheap relative to one
// Solve call), and UnsatCore is a deletion-based minimization that repeatedly
// drops a candidate clause and re-solves, keeping the drop only if the
// remaining set is still unsat.
package satengine

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/crillab/gophersat/solver"
)

// Phase is a best-effort decision-polarity hint (spec §6:
// sat_default_phase). gophersat's public solver surface
// (solver.ParseSlice, solver.New, (*Solver).Solve, (*Solver).Model)
// exposes no phase-saving or polarity API directly, so Engine
// approximates the hint the only way it can reach the solver: by
// reordering the literals within each clause before handing the clause
// set to solver.New, since CDCL decision heuristics commonly favor the
// first-seen polarity of a variable when nothing else distinguishes it.
type Phase int

const (
	PhaseFalse Phase = iota
	PhaseTrue
	PhaseJeroslowWang
	PhaseRandom
)

// Engine is a growable, checkpointable DIMACS-style clause set backed
// by gophersat.
type Engine struct {
	clauses [][]int
	marks   []int // checkpoint stack: len(clauses) at each Push

	phase Phase
	seed  int64
}

// New returns an empty engine with the default phase hint (PhaseFalse).
func New() *Engine {
	return &Engine{}
}

// SetPhaseHint configures the literal-ordering hint applied to every
// subsequent Solve and installs seed as the source of randomness for
// PhaseRandom.
func (e *Engine) SetPhaseHint(phase Phase, seed int64) {
	e.phase = phase
	e.seed = seed
}

// AppendClause adds one clause (a disjunction of DIMACS literals: a
// positive int is variable v's positive literal, a negative int is its
// negation; variables are 1-indexed) to the current frame.
func (e *Engine) AppendClause(lits []int) {
	clause := append([]int(nil), lits...)
	e.clauses = append(e.clauses, clause)
}

// Push opens a new checkpoint frame; clauses added after Push are
// discarded by the matching Pop.
func (e *Engine) Push() {
	e.marks = append(e.marks, len(e.clauses))
}

// Pop discards every clause added since the matching Push. A no-op if
// there is no open frame.
func (e *Engine) Pop() {
	if len(e.marks) == 0 {
		return
	}
	mark := e.marks[len(e.marks)-1]
	e.marks = e.marks[:len(e.marks)-1]
	e.clauses = e.clauses[:mark]
}

// NumClauses reports the current clause count, for tests and stats.
func (e *Engine) NumClauses() int { return len(e.clauses) }

// Result is the outcome of a Solve call.
type Result struct {
	Sat   bool
	Model []bool // 0-indexed by (variable-1); only meaningful if Sat
}

// Solve builds a fresh solver over the current clause set and solves
// it. A SolverBackendUnknown-class failure (ParseSlice rejecting a
// malformed clause set) is returned as an error; a genuine Indet result
// from the underlying solver (which gophersat's Solve never returns —
// it always resolves to Sat or Unsat) would also surface here, but is
// not observed in practice.
func (e *Engine) Solve() (Result, error) {
	pb, err := solver.ParseSlice(e.hintedClauses())
	if err != nil {
		return Result{}, fmt.Errorf("satengine: building problem: %w", err)
	}
	s := solver.New(pb)
	switch s.Solve() {
	case solver.Sat:
		return Result{Sat: true, Model: s.Model()}, nil
	case solver.Unsat:
		return Result{Sat: false}, nil
	default:
		return Result{}, fmt.Errorf("satengine: underlying solver returned an indeterminate status")
	}
}

// UnsatCore returns a minimal (under simple deletion, not necessarily
// globally minimum) subset of the current clauses that is itself
// unsat, assuming the full set is already known unsat. Clauses are
// tried for removal in reverse order, so when several clauses could
// each be dropped the most recently added ones are dropped first and
// the earlier ones are the ones kept. The returned clauses are the
// literal slices themselves, not indices, so callers never need a
// second accessor into the engine's internal clause storage.
func (e *Engine) UnsatCore() ([][]int, error) {
	keep := make([]int, len(e.clauses))
	for i := range keep {
		keep[i] = i
	}
	for i := len(keep) - 1; i >= 0; i-- {
		candidate := make([]int, 0, len(keep)-1)
		candidate = append(candidate, keep[:i]...)
		candidate = append(candidate, keep[i+1:]...)
		if len(candidate) == 0 {
			continue
		}
		res, err := e.solveSubset(candidate)
		if err != nil {
			return nil, err
		}
		if !res.Sat {
			keep = candidate
		}
	}
	core := make([][]int, len(keep))
	for i, j := range keep {
		core[i] = e.clauses[j]
	}
	return core, nil
}

// hintedClauses returns e.clauses with each clause's literals reordered
// per e.phase. Reordering never changes a clause's meaning (disjunction
// is commutative), only which literal solver.New's heuristics see
// first.
func (e *Engine) hintedClauses() [][]int {
	if len(e.clauses) == 0 {
		return e.clauses
	}
	switch e.phase {
	case PhaseTrue:
		return reorderByPolarity(e.clauses, true)
	case PhaseJeroslowWang:
		return reorderByJeroslowWang(e.clauses)
	case PhaseRandom:
		return reorderRandom(e.clauses, e.seed)
	default:
		return reorderByPolarity(e.clauses, false)
	}
}

func reorderByPolarity(clauses [][]int, preferPositive bool) [][]int {
	out := make([][]int, len(clauses))
	for i, clause := range clauses {
		c := append([]int(nil), clause...)
		sort.SliceStable(c, func(a, b int) bool {
			aPos, bPos := c[a] > 0, c[b] > 0
			if aPos == bPos {
				return false
			}
			return aPos == preferPositive
		})
		out[i] = c
	}
	return out
}

// reorderByJeroslowWang weighs each literal by the classic Jeroslow-
// Wang sum 2^-|clause| over every clause it appears in, then orders
// each clause's literals with the heaviest (most constrained) literal
// first.
func reorderByJeroslowWang(clauses [][]int) [][]int {
	weight := map[int]float64{}
	for _, clause := range clauses {
		w := math.Pow(2, -float64(len(clause)))
		for _, lit := range clause {
			weight[lit] += w
		}
	}
	out := make([][]int, len(clauses))
	for i, clause := range clauses {
		c := append([]int(nil), clause...)
		sort.SliceStable(c, func(a, b int) bool {
			return weight[c[a]] > weight[c[b]]
		})
		out[i] = c
	}
	return out
}

func reorderRandom(clauses [][]int, seed int64) [][]int {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]int, len(clauses))
	for i, clause := range clauses {
		c := append([]int(nil), clause...)
		rng.Shuffle(len(c), func(a, b int) { c[a], c[b] = c[b], c[a] })
		out[i] = c
	}
	return out
}

func (e *Engine) solveSubset(idx []int) (Result, error) {
	sub := make([][]int, len(idx))
	for i, j := range idx {
		sub[i] = e.clauses[j]
	}
	pb, err := solver.ParseSlice(sub)
	if err != nil {
		return Result{}, fmt.Errorf("satengine: building subset problem: %w", err)
	}
	s := solver.New(pb)
	switch s.Solve() {
	case solver.Sat:
		return Result{Sat: true, Model: s.Model()}, nil
	case solver.Unsat:
		return Result{Sat: false}, nil
	default:
		return Result{}, fmt.Errorf("satengine: underlying solver returned an indeterminate status")
	}
}

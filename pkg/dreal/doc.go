// Package dreal implements a δ-complete decision procedure for
// quantifier-free first-order formulas over the reals, including
// transcendental functions.
//
// Given a Formula and a tolerance δ>0, CheckSatisfiability answers either
// unsat (the formula has no model) or δ-sat (the formula, relaxed by δ,
// has a model), returning in the latter case a Box — a product of
// intervals — that δ-satisfies every atom of the formula.
//
// The package is organized around three coupled subsystems: a CDCL(T)-style
// outer loop (Context) driving a propositional SAT layer (satbridge.go,
// backed by internal/satengine) against an interval constraint propagation
// theory solver (icp_seq.go, icp_mcts.go) built from a composable
// contractor algebra (contractor*.go).
package dreal

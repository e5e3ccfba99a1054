// Command drealc is a small demo CLI over pkg/dreal: it runs one of six
// built-in end-to-end scenarios (five checks, one minimization) and reports
// δ-sat/unsat with the witness box, or runs the Minimize driver.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/gitrdm/dreal-go/pkg/dreal"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: drealc <check|minimize> [-demo name] [-delta 0.001] [-mcts]")
		fmt.Fprintln(os.Stderr, "demos: quadratic, infeasible-bound, trig-coupled, infeasible-sum-of-squares, minimize-sum-of-squares, forall-shift")
	}
	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(2)
	}
	sub := os.Args[1]

	fs := flag.NewFlagSet(sub, flag.ExitOnError)
	demo := fs.String("demo", "quadratic", "built-in demo scenario to run")
	delta := fs.Float64("delta", 0.001, "delta precision")
	useMcts := fs.Bool("mcts", false, "use the ICP-MCTS engine instead of ICP-Seq")
	fs.Parse(os.Args[2:])

	cfg, err := dreal.NewConfig(dreal.WithPrecision(*delta), engineOption(*useMcts))
	if err != nil {
		color.Red("invalid configuration: %v", err)
		os.Exit(1)
	}

	switch sub {
	case "check":
		runCheck(*demo, cfg)
	case "minimize":
		runMinimize(*demo, cfg)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func engineOption(useMcts bool) dreal.ConfigOption {
	if useMcts {
		return dreal.WithEngine(dreal.EngineMcts)
	}
	return dreal.WithEngine(dreal.EngineSeq)
}

func runCheck(name string, cfg *dreal.Config) {
	f, ok := demoFormulas[name]
	if !ok {
		color.Red("unknown demo %q", name)
		os.Exit(1)
	}
	ctx := dreal.NewContext(cfg)
	box, err := ctx.CheckSatisfiability(f())
	if err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
	if box == nil {
		color.Yellow("unsat")
		return
	}
	color.Green("delta-sat")
	fmt.Println(box)
}

func runMinimize(name string, cfg *dreal.Config) {
	entry, ok := demoObjectives[name]
	if !ok {
		color.Red("unknown minimize demo %q (try: minimize-sum-of-squares)", name)
		os.Exit(1)
	}
	box, err := dreal.Minimize(entry.obj(), entry.con(), cfg)
	if err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
	if box == nil {
		color.Yellow("infeasible")
		return
	}
	color.Green("delta-optimal")
	fmt.Println(box)
}

// demoFormulas are the five CheckSatisfiability end-to-end scenarios
// (spec §8), built fresh per call since Variable identity is
// process-global and a demo should not leak variables across runs.
var demoFormulas = map[string]func() dreal.Formula{
	"quadratic": func() dreal.Formula {
		x := dreal.NewVariable("x", dreal.Real)
		return dreal.And(
			dreal.FormulaOfAtom(dreal.NewAtom(dreal.Var(x), dreal.OpGeq, dreal.Const(-10))),
			dreal.FormulaOfAtom(dreal.NewAtom(dreal.Var(x), dreal.OpLeq, dreal.Const(10))),
			dreal.FormulaOfAtom(dreal.NewAtom(dreal.Mul(dreal.Var(x), dreal.Var(x)), dreal.OpEq, dreal.Const(2))),
		)
	},
	"infeasible-bound": func() dreal.Formula {
		x := dreal.NewVariable("x", dreal.Real)
		return dreal.And(
			dreal.FormulaOfAtom(dreal.NewAtom(dreal.Var(x), dreal.OpGeq, dreal.Const(0))),
			dreal.FormulaOfAtom(dreal.NewAtom(dreal.Var(x), dreal.OpLeq, dreal.Const(1))),
			dreal.FormulaOfAtom(dreal.NewAtom(dreal.Var(x), dreal.OpGeq, dreal.Const(2))),
		)
	},
	"trig-coupled": func() dreal.Formula {
		x := dreal.NewVariable("x", dreal.Real)
		y := dreal.NewVariable("y", dreal.Real)
		return dreal.And(
			dreal.FormulaOfAtom(dreal.NewAtom(dreal.Var(x), dreal.OpGeq, dreal.Const(-5))),
			dreal.FormulaOfAtom(dreal.NewAtom(dreal.Var(x), dreal.OpLeq, dreal.Const(5))),
			dreal.FormulaOfAtom(dreal.NewAtom(dreal.Var(y), dreal.OpGeq, dreal.Const(-5))),
			dreal.FormulaOfAtom(dreal.NewAtom(dreal.Var(y), dreal.OpLeq, dreal.Const(5))),
			dreal.FormulaOfAtom(dreal.NewAtom(dreal.Add(dreal.Sin(dreal.Var(x)), dreal.Var(y)), dreal.OpEq, dreal.Const(0))),
			dreal.FormulaOfAtom(dreal.NewAtom(dreal.Var(y), dreal.OpEq, dreal.Var(x))),
		)
	},
	"infeasible-sum-of-squares": func() dreal.Formula {
		x := dreal.NewVariable("x", dreal.Real)
		return dreal.And(
			dreal.FormulaOfAtom(dreal.NewAtom(dreal.Var(x), dreal.OpGeq, dreal.Const(-1))),
			dreal.FormulaOfAtom(dreal.NewAtom(dreal.Var(x), dreal.OpLeq, dreal.Const(1))),
			dreal.FormulaOfAtom(dreal.NewAtom(dreal.Add(dreal.Mul(dreal.Var(x), dreal.Var(x)), dreal.Const(1)), dreal.OpEq, dreal.Const(0))),
		)
	},
	"forall-shift": func() dreal.Formula {
		x := dreal.NewVariable("x", dreal.Real)
		z := dreal.NewVariable("z", dreal.Real)
		body := dreal.FormulaOfAtom(dreal.NewAtom(dreal.Add(dreal.Var(x), dreal.Var(z)), dreal.OpGeq, dreal.Const(0)))
		return dreal.And(
			dreal.FormulaOfAtom(dreal.NewAtom(dreal.Var(x), dreal.OpGeq, dreal.Const(-2))),
			dreal.FormulaOfAtom(dreal.NewAtom(dreal.Var(x), dreal.OpLeq, dreal.Const(2))),
			dreal.ForallFormula(z, dreal.Interval{Lo: 0, Hi: 1}, body),
		)
	},
}

// demoObjectives is the Minimize scenario (spec §8 scenario 5).
var demoObjectives map[string]struct {
	obj func() dreal.Expression
	con func() dreal.Formula
}

func init() {
	x := dreal.NewVariable("x", dreal.Real)
	y := dreal.NewVariable("y", dreal.Real)
	demoObjectives = map[string]struct {
		obj func() dreal.Expression
		con func() dreal.Formula
	}{
		"minimize-sum-of-squares": {
			obj: func() dreal.Expression {
				return dreal.Add(dreal.Mul(dreal.Var(x), dreal.Var(x)), dreal.Mul(dreal.Var(y), dreal.Var(y)))
			},
			con: func() dreal.Formula {
				return dreal.And(
					dreal.FormulaOfAtom(dreal.NewAtom(dreal.Var(x), dreal.OpGeq, dreal.Const(-10))),
					dreal.FormulaOfAtom(dreal.NewAtom(dreal.Var(x), dreal.OpLeq, dreal.Const(10))),
					dreal.FormulaOfAtom(dreal.NewAtom(dreal.Var(y), dreal.OpGeq, dreal.Const(-10))),
					dreal.FormulaOfAtom(dreal.NewAtom(dreal.Var(y), dreal.OpLeq, dreal.Const(10))),
					dreal.FormulaOfAtom(dreal.NewAtom(dreal.Add(dreal.Var(x), dreal.Var(y)), dreal.OpGeq, dreal.Const(1))),
				)
			},
		},
	}
}

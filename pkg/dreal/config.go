package dreal

import "fmt"

// SatDefaultPhase selects the initial polarity the SAT bridge suggests
// for undecided literals, mirroring picosat's default-phase setting
// (spec §6: sat_default_phase).
type SatDefaultPhase int

const (
	PhaseFalse SatDefaultPhase = iota
	PhaseTrue
	PhaseJeroslowWang
	PhaseRandom
)

// BrancherKind selects which Brancher variant (spec §4.D) the ICP
// engines use to pick a bisection dimension.
type BrancherKind int

const (
	BrancherLargestFirst BrancherKind = iota
	BrancherPreferredFirst
)

// ICPEngineKind selects which theory solver the Context drives: the
// deterministic DFS search (ICP-Seq, §4.E) or the UCT-guided search
// (ICP-MCTS, §4.F). Not named in spec §6's configuration list verbatim,
// since the source hardwires one engine per build target; exposed here
// as a Config field so both engines described by the spec are reachable
// through the same programmatic API.
type ICPEngineKind int

const (
	EngineSeq ICPEngineKind = iota
	EngineMcts
)

// Config holds every option named in spec §6. Construct with
// NewConfig and ConfigOptions, following the same functional-options
// shape as the teacher's OptimizeOption/optConfig pair.
type Config struct {
	Precision             float64 // δ
	NumberOfJobs          int     // reserved, must be 1 in core
	RandomSeed            int64
	SatDefaultPhase       SatDefaultPhase
	UsePolytope           bool
	UsePolytopeInForall   bool
	UseWorklistFixpoint   bool
	UseLocalOptimization  bool
	StackLeftBoxFirst     bool
	Brancher              BrancherKind
	PreferredVariables    map[string]bool
	PreferredPrecision    float64
	MctsIterations        int
	UnsatCore             bool
	Engine                ICPEngineKind
}

// ConfigOption mutates a Config during construction.
type ConfigOption func(*Config)

// WithPrecision sets δ.
func WithPrecision(delta float64) ConfigOption {
	return func(c *Config) { c.Precision = delta }
}

// WithRandomSeed sets the determinism seed used by both ICP-Seq (tie
// breaks are already deterministic) and ICP-MCTS (random descent during
// simulation). 0 selects an implementation default seed.
func WithRandomSeed(seed int64) ConfigOption {
	return func(c *Config) { c.RandomSeed = seed }
}

// WithSatDefaultPhase sets the SAT bridge's default polarity hint.
func WithSatDefaultPhase(p SatDefaultPhase) ConfigOption {
	return func(c *Config) { c.SatDefaultPhase = p }
}

// WithPolytope enables the IbexPolytope linear-relaxation contractor in
// the top-level contractor built by Context.
func WithPolytope(enabled bool) ConfigOption {
	return func(c *Config) { c.UsePolytope = enabled }
}

// WithPolytopeInForall enables IbexPolytope inside Forall's inner ICP
// call as well.
func WithPolytopeInForall(enabled bool) ConfigOption {
	return func(c *Config) { c.UsePolytopeInForall = enabled }
}

// WithWorklistFixpoint selects WorklistFixpoint over plain Fixpoint for
// the top-level contractor.
func WithWorklistFixpoint(enabled bool) ConfigOption {
	return func(c *Config) { c.UseWorklistFixpoint = enabled }
}

// WithLocalOptimization makes Minimize's binary search continue
// refining the upper bound past spec §4.H's ordinary δ-convergence
// criterion (cfg.Precision), squeezing a tighter final witness out of
// extra probes instead of stopping at the first one to satisfy δ (see
// minimize.go).
func WithLocalOptimization(enabled bool) ConfigOption {
	return func(c *Config) { c.UseLocalOptimization = enabled }
}

// WithStackLeftBoxFirst controls which bisection half ICP-Seq explores
// first: when set, the right half is pushed before the left, so the left
// (lower) half is popped and explored first. ICP-MCTS does not read this
// option.
func WithStackLeftBoxFirst(leftFirst bool) ConfigOption {
	return func(c *Config) { c.StackLeftBoxFirst = leftFirst }
}

// WithBrancher selects LargestFirst or PreferredFirst.
func WithBrancher(kind BrancherKind) ConfigOption {
	return func(c *Config) { c.Brancher = kind }
}

// WithPreferredVariables sets the preferred-variable set used by
// PreferredFirst, by name.
func WithPreferredVariables(names ...string) ConfigOption {
	return func(c *Config) {
		c.PreferredVariables = make(map[string]bool, len(names))
		for _, n := range names {
			c.PreferredVariables[n] = true
		}
	}
}

// WithPreferredPrecision sets τ, the diameter threshold below which a
// preferred variable is no longer preferentially branched.
func WithPreferredPrecision(tau float64) ConfigOption {
	return func(c *Config) { c.PreferredPrecision = tau }
}

// WithMctsIterations caps ICP-MCTS's iteration budget.
func WithMctsIterations(n int) ConfigOption {
	return func(c *Config) { c.MctsIterations = n }
}

// WithUnsatCore enables clausal unsat-core extraction on the unsat
// branch of CheckSat.
func WithUnsatCore(enabled bool) ConfigOption {
	return func(c *Config) { c.UnsatCore = enabled }
}

// WithEngine selects the theory solver the Context drives.
func WithEngine(kind ICPEngineKind) ConfigOption {
	return func(c *Config) { c.Engine = kind }
}

// DefaultConfig returns a Config with the same defaults the original
// implementation ships: δ=0.001, sequential jobs, largest-first
// branching, no polytope, no worklist fixpoint, 1000 MCTS iterations.
func DefaultConfig() *Config {
	return &Config{
		Precision:            0.001,
		NumberOfJobs:         1,
		RandomSeed:           0,
		SatDefaultPhase:      PhaseJeroslowWang,
		UsePolytope:          false,
		UsePolytopeInForall:  false,
		UseWorklistFixpoint:  false,
		UseLocalOptimization: false,
		StackLeftBoxFirst:    true,
		Brancher:             BrancherLargestFirst,
		PreferredVariables:   map[string]bool{},
		PreferredPrecision:   1e-3,
		MctsIterations:       1000,
		UnsatCore:            false,
		Engine:               EngineSeq,
	}
}

// NewConfig builds a Config from DefaultConfig plus the given options.
func NewConfig(opts ...ConfigOption) (*Config, error) {
	c := DefaultConfig()
	for _, o := range opts {
		if o != nil {
			o(c)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the structural invariants spec §7 calls out
// explicitly (InvalidConfiguration is fatal and must be caught before
// a solve begins, not discovered mid-search).
func (c *Config) Validate() error {
	if c.Precision <= 0 {
		return fmt.Errorf("%w: precision must be > 0, got %v", ErrInvalidConfiguration, c.Precision)
	}
	if c.NumberOfJobs != 1 {
		return fmt.Errorf("%w: number_of_jobs must be 1 in core, got %d", ErrInvalidConfiguration, c.NumberOfJobs)
	}
	if c.PreferredPrecision < 0 {
		return fmt.Errorf("%w: preferred_precision must be >= 0, got %v", ErrInvalidConfiguration, c.PreferredPrecision)
	}
	if c.MctsIterations <= 0 {
		return fmt.Errorf("%w: mcts_iterations must be > 0, got %d", ErrInvalidConfiguration, c.MctsIterations)
	}
	return nil
}

package dreal

import "sync"

// Stats collects resolution statistics for a single solve call. The
// original implementation kept these in function-static objects of
// mixed storage duration (per contractor_ibex_fwdbwd.cc's
// ContractorIbexFwdbwdStat); this reimplementation threads a single
// Stats handle explicitly, owned by the Context, through every
// component that wants to record something.
//
// Stats is safe for concurrent increments (guarded by a mutex) even
// though the core itself is single-threaded cooperative, so that a
// future caller embedding the solver in a worker goroutine is not
// surprised by data races on the stats themselves.
type Stats struct {
	mu sync.Mutex

	// FwdBwdPruneCount and FwdBwdZeroEffectCount track IbexFwdBwd
	// pruning passes, mirroring ContractorIbexFwdbwdStat's
	// num_pruning_ / num_zero_effect_pruning_.
	FwdBwdPruneCount     int
	FwdBwdZeroEffectCount int

	// Branches counts bisections performed by ICP-Seq and ICP-MCTS.
	Branches int

	// SatChecks counts CheckSat() calls issued to the SAT bridge.
	SatChecks int

	// LearnedClauses counts blocking clauses added via SatBridge.AddBlockingClause.
	LearnedClauses int

	// MctsIterations counts completed select/expand/simulate/backprop
	// rounds performed by ICP-MCTS.
	MctsIterations int
}

// NewStats returns a zeroed Stats handle.
func NewStats() *Stats { return &Stats{} }

func (s *Stats) recordFwdBwdPrune(changed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FwdBwdPruneCount++
	if !changed {
		s.FwdBwdZeroEffectCount++
	}
}

func (s *Stats) recordBranch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Branches++
}

func (s *Stats) recordSatCheck() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SatChecks++
}

func (s *Stats) recordLearnedClause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LearnedClauses++
}

func (s *Stats) recordMctsIteration() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MctsIterations++
}

// Snapshot returns a copy of the current counters, safe to read
// without holding the Stats' internal lock afterward.
func (s *Stats) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		FwdBwdPruneCount:      s.FwdBwdPruneCount,
		FwdBwdZeroEffectCount: s.FwdBwdZeroEffectCount,
		Branches:              s.Branches,
		SatChecks:              s.SatChecks,
		LearnedClauses:         s.LearnedClauses,
		MctsIterations:         s.MctsIterations,
	}
}

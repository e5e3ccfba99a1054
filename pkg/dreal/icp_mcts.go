package dreal

import (
	"log"
	"math"
	"math/rand"
)

// mctsNode is one node of the arena-backed search tree described in
// spec §9's MCTS re-architecture note: children are owned by value in
// the arena's backing slice (mctsTree.nodes), and a node's parent is
// recorded only as an index into that same slice — a weak handle used
// exclusively for backpropagation, never for ownership or lifetime.
// The whole arena is released together when the mctsTree falls out of
// scope, matching the spec's "released in post-order" lifecycle
// without needing an explicit destructor walk.
type mctsNode struct {
	index    int
	parent   int // -1 for the root
	children []int

	box     *Box
	witness *Box // set once this subtree is known δ-sat

	visits int
	wins   float64

	uctValid bool
	uct      float64

	terminal bool
	unsat    bool
	sat      bool

	active DynamicBitset
}

// mctsTree is the arena backing every node created during one ICPMcts
// invocation.
type mctsTree struct {
	nodes []mctsNode
}

func (t *mctsTree) newNode(parent int, box *Box) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, mctsNode{index: idx, parent: parent, box: box})
	return idx
}

const uctExplorationConstant = math.Sqrt2

// uct returns the node's cached UCT value relative to its parent's
// visit count, recomputing it if invalidated.
func (t *mctsTree) uct(idx, parentVisits int) float64 {
	n := &t.nodes[idx]
	if n.visits == 0 {
		return math.Inf(1)
	}
	if n.uctValid {
		return n.uct
	}
	exploit := n.wins / float64(n.visits)
	explore := uctExplorationConstant * math.Sqrt(math.Log(float64(parentVisits))/float64(n.visits))
	n.uct = exploit + explore
	n.uctValid = true
	return n.uct
}

func (t *mctsTree) invalidate(idx int) { t.nodes[idx].uctValid = false }

// evaluateTerminal prunes node.box with contractor and classifies it:
// unsat if the box collapses to empty, sat if every check is True or
// the active set is empty or its max diameter is within precision,
// otherwise non-terminal with the computed active set cached.
func evaluateTerminal(n *mctsNode, checks []constraintCheck, contractor Contractor, cfg *Config, stats *Stats) {
	cs := NewContractorStatus(n.box, stats)
	contractor.Prune(cs) //nolint:errcheck // only Fixpoint/WorklistFixpoint/Forall can error, and MCTS polls interrupt around the whole iteration
	if n.box.Empty() {
		n.terminal, n.unsat = true, true
		return
	}
	active, allTrue, anyFalse := activeSet(checks, n.box)
	if anyFalse {
		n.terminal, n.unsat = true, true
		return
	}
	if allTrue || active.None() {
		n.terminal, n.sat = true, true
		n.witness = n.box
		return
	}
	if _, diam := FindMaxDiam(n.box, active); diam <= cfg.Precision {
		n.terminal, n.sat = true, true
		n.witness = n.box
		return
	}
	n.active = active
}

// ICPMcts runs the UCT-guided branch-and-prune search of spec §4.F.
// heuristic is the cheaper contractor (see StripForallAndPolytope) used
// only inside simulation; contractor is the full contractor used at
// every expanded node. stats and logger behave as in ICPSeq: a nil
// stats allocates a throwaway one, and logger (if non-nil) receives
// branch-decision tracing.
func ICPMcts(box *Box, formula Formula, contractor, heuristic Contractor, cfg *Config, stats *Stats, logger *log.Logger) (ICPResult, error) {
	checks := buildConstraintChecks(formula, cfg.Precision)
	brancher := NewBrancher(cfg)
	if stats == nil {
		stats = NewStats()
	}
	rng := rand.New(rand.NewSource(cfg.RandomSeed))

	tree := &mctsTree{}
	rootIdx := tree.newNode(-1, box)
	evaluateTerminal(&tree.nodes[rootIdx], checks, contractor, cfg, stats)

	var bestWitness *Box

	for iter := 0; iter < cfg.MctsIterations; iter++ {
		if err := PollInterrupt(); err != nil {
			return ICPResult{}, err
		}
		if tree.nodes[rootIdx].terminal {
			break
		}
		stats.recordMctsIteration()

		leaf := selectLeaf(tree, rootIdx)
		n := &tree.nodes[leaf]
		if n.terminal {
			reward := 0.0
			if n.sat {
				reward = 1.0
				if bestWitness == nil {
					bestWitness = n.witness
				}
			}
			backpropagate(tree, leaf, reward)
			continue
		}

		leftBox, rightBox, dim, ok := brancher(n.box, n.active)
		if !ok {
			n.terminal, n.sat = true, true
			n.witness = n.box
			backpropagate(tree, leaf, 1.0)
			if bestWitness == nil {
				bestWitness = n.witness
			}
			continue
		}
		stats.recordBranch()
		if logger != nil {
			logger.Printf("dreal: icp-mcts branch on %s", n.box.Variable(dim))
		}
		leftIdx := tree.newNode(leaf, leftBox)
		rightIdx := tree.newNode(leaf, rightBox)
		tree.nodes[leaf].children = []int{leftIdx, rightIdx}
		evaluateTerminal(&tree.nodes[leftIdx], checks, contractor, cfg, stats)
		evaluateTerminal(&tree.nodes[rightIdx], checks, contractor, cfg, stats)

		for _, childIdx := range []int{leftIdx, rightIdx} {
			reward := simulate(tree, childIdx, checks, heuristic, cfg, stats, rng)
			if reward >= 1.0 && bestWitness == nil {
				bestWitness = tree.nodes[childIdx].witness
			}
			backpropagate(tree, childIdx, reward)
		}
	}

	root := &tree.nodes[rootIdx]
	switch {
	case root.terminal && root.sat:
		return ICPResult{Box: root.witness, Sat: true}, nil
	case root.terminal && root.unsat:
		return ICPResult{Sat: false}, nil
	case bestWitness != nil:
		return ICPResult{Box: bestWitness, Sat: true}, nil
	case treeFullyUnsat(tree, rootIdx):
		return ICPResult{Sat: false}, nil
	default:
		return ICPResult{Unknown: true}, nil
	}
}

// selectLeaf descends from idx, at each step picking the unvisited
// child if one exists, else the child maximizing UCT, until it reaches
// a node with no children.
func selectLeaf(tree *mctsTree, idx int) int {
	for {
		n := &tree.nodes[idx]
		if len(n.children) == 0 {
			return idx
		}
		best, bestScore := -1, math.Inf(-1)
		for _, c := range n.children {
			score := tree.uct(c, n.visits)
			if score > bestScore {
				best, bestScore = c, score
			}
		}
		idx = best
	}
}

// backpropagate walks parent indices from idx to the root, incrementing
// visits and accumulating reward, invalidating each ancestor's cached
// UCT value.
func backpropagate(tree *mctsTree, idx int, reward float64) {
	for idx != -1 {
		n := &tree.nodes[idx]
		n.visits++
		n.wins += reward
		tree.invalidate(idx)
		idx = n.parent
	}
}

// simulate performs simulate_box: a bounded random descent from the
// child's box using the heuristic contractor, returning a reward in
// [0,1] — 1 for δ-sat, 0 for unsat, otherwise preferred_width_ratio:
// the fraction of preferred-variable diameters already within τ.
func simulate(tree *mctsTree, idx int, checks []constraintCheck, heuristic Contractor, cfg *Config, stats *Stats, rng *rand.Rand) float64 {
	n := &tree.nodes[idx]
	if n.terminal {
		if n.sat {
			return 1.0
		}
		return 0.0
	}

	cur := n.box.Clone()
	const simulationBudget = 32
	for step := 0; step < simulationBudget; step++ {
		cs := NewContractorStatus(cur, stats)
		heuristic.Prune(cs) //nolint:errcheck // StripForallAndPolytope removes Forall leaves; an interrupt seen by a Fixpoint/WorklistFixpoint here is ignored, and MCTS polls interrupt around the whole iteration
		if cur.Empty() {
			return 0.0
		}
		active, allTrue, anyFalse := activeSet(checks, cur)
		if anyFalse {
			return 0.0
		}
		if allTrue || active.None() {
			return 1.0
		}
		if _, diam := FindMaxDiam(cur, active); diam <= cfg.Precision {
			return 1.0
		}
		dim := randomActiveDim(active, rng)
		if dim < 0 {
			return preferredWidthRatio(cur, active, cfg)
		}
		left, right := cur.Bisect(dim)
		if rng.Intn(2) == 0 {
			cur = left
		} else {
			cur = right
		}
	}
	return preferredWidthRatio(cur, n.active, cfg)
}

func randomActiveDim(active DynamicBitset, rng *rand.Rand) int {
	var candidates []int
	active.ForEachSet(func(i int) { candidates = append(candidates, i) })
	if len(candidates) == 0 {
		return -1
	}
	return candidates[rng.Intn(len(candidates))]
}

// preferredWidthRatio scores a non-terminal box by the fraction of its
// (preferred, if any were configured — else all) active dimensions
// already narrower than τ.
func preferredWidthRatio(box *Box, active DynamicBitset, cfg *Config) float64 {
	total, within := 0, 0
	active.ForEachSet(func(i int) {
		if len(cfg.PreferredVariables) > 0 && !cfg.PreferredVariables[box.Variable(i).Name()] {
			return
		}
		total++
		if box.Interval(i).Diam() <= cfg.PreferredPrecision {
			within++
		}
	})
	if total == 0 {
		return 0.0
	}
	return float64(within) / float64(total)
}

// treeFullyUnsat reports whether every leaf reachable from idx is a
// terminal unsat node — the condition under which ICPMcts may report
// unsat even though the configured iteration budget was the reason the
// loop stopped.
func treeFullyUnsat(tree *mctsTree, idx int) bool {
	n := &tree.nodes[idx]
	if len(n.children) == 0 {
		return n.terminal && n.unsat
	}
	for _, c := range n.children {
		if !treeFullyUnsat(tree, c) {
			return false
		}
	}
	return true
}

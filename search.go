package main

import (
	"fmt"
	"os"
)

// Solver runs the greedy construction and the branch-and-bound search over
// one puzzle. A Solver is single-use per FindMinSteps call and not safe
// for concurrent use: the memo table and incumbent slot are shared across
// the whole recursive traversal.
type Solver struct {
	puzzle *Puzzle
	cfg    Config

	best      []int // incumbent shortest sequence, original action indices
	bestPower int   // incumbent's final power quantity, for the heuristic cut
	memo      map[string]memoEntry
	stats     SearchStats
	capped    bool
}

type memoEntry struct {
	suffix   []int // optimal continuation from the keyed state
	solvable bool
}

// SearchStats reports what the last FindMinSteps traversal did.
type SearchStats struct {
	Nodes    int
	MemoHits int
	Pruned   int
	Capped   bool
}

// NewSolver creates a solver for the given puzzle.
func NewSolver(p *Puzzle, cfg Config) *Solver {
	return &Solver{puzzle: p, cfg: cfg}
}

// Stats returns the statistics of the last FindMinSteps run.
func (s *Solver) Stats() SearchStats { return s.stats }

// Solve is the greedy baseline: for each move slot, commit the first
// applicable action in rating order whose reward still helps an
// unsatisfied target kind. Empty slots are allowed; astronauts restored at
// the round boundary can unstick a later round. The result is a valid
// sequence when solved, with no minimality guarantee.
func (s *Solver) Solve() (*GameState, bool) {
	p := s.puzzle
	st := NewGameState(p)
	for round := 0; round < p.Rounds; round++ {
		for slot := 0; slot < p.ActionsPerRound && !st.IsSolved(p.Target); slot++ {
			for i := range p.Actions {
				a := &p.Actions[i]
				if !st.CanApply(a) || !s.rewardUseful(st, a) {
					continue
				}
				st.ApplyAction(a)
				break
			}
		}
		if st.IsSolved(p.Target) {
			break
		}
		p.AdvanceRound(&st.Res)
	}
	return st, st.IsSolved(p.Target)
}

// rewardUseful reports whether the action raises at least one target kind
// still below its threshold. Rewards aimed only at satisfied or
// unconstrained kinds would waste a greedy move slot.
func (s *Solver) rewardUseful(st *GameState, a *Action) bool {
	t := s.puzzle.Target
	for m := a.Reward.mask; m != 0; m &= m - 1 {
		k := trailingKind(m)
		if t.Has(k) && st.Res.Get(k) < t.Get(k) {
			return true
		}
	}
	return false
}

// FindMinSteps runs the depth-first branch-and-bound search and returns
// the shortest action sequence reaching the target within the move
// budget, or (nil, false) when none exists. Unsolved is a normal outcome,
// not an error. Given a fixed puzzle and config the result is
// deterministic: the catalogue ordering is stable and ties keep the first
// solution found.
func (s *Solver) FindMinSteps() ([]int, bool) {
	p := s.puzzle
	s.best = nil
	s.bestPower = 0
	s.memo = make(map[string]memoEntry)
	s.stats = SearchStats{}
	s.capped = false

	root := NewGameState(p)
	if !root.IsSolved(p.Target) && !p.CanBeSolved(root.Res, p.Budget()) {
		if s.cfg.Verbose {
			fmt.Fprintf(logw(), "[search] %s: infeasible at root\n", p.Name)
		}
		return nil, false
	}

	s.search(root)
	s.stats.Capped = s.capped
	if s.cfg.Verbose {
		fmt.Fprintf(logw(), "[search] %s: nodes=%d memoHits=%d pruned=%d capped=%v\n",
			p.Name, s.stats.Nodes, s.stats.MemoHits, s.stats.Pruned, s.capped)
	}
	if s.best == nil {
		return nil, false
	}
	return s.best, true
}

// search explores every continuation of st depth-first, updating the
// incumbent whenever a strictly shorter solution appears. It returns the
// optimal suffix from st (nil if unsolvable within the remaining budget)
// plus whether that answer is unconditional. Answers shaped by the
// incumbent bound, the power heuristic, or the node cap are conditional
// and must not enter the memo table.
func (s *Solver) search(st *GameState) (suffix []int, complete bool) {
	p := s.puzzle
	if st.IsSolved(p.Target) {
		s.consider(st)
		return []int{}, true
	}
	remaining := p.Budget() - st.Moves
	if remaining == 0 {
		return nil, true
	}
	if !p.CanBeSolved(st.Res, remaining) {
		return nil, true
	}

	key := fingerprint(remaining, st.Res)
	if e, ok := s.memo[key]; ok {
		s.stats.MemoHits++
		if !e.solvable {
			return nil, true
		}
		s.considerSuffix(st, e.suffix)
		out := make([]int, len(e.suffix))
		copy(out, e.suffix)
		return out, true
	}

	// Any solution through here takes at least one more move; cut branches
	// that cannot strictly beat the incumbent.
	if s.best != nil && st.Moves+1 >= len(s.best) {
		s.stats.Pruned++
		return nil, false
	}
	// Power-dominance heuristic, Config.PowerPrune. Assumes a branch with
	// power at or below the incumbent's final power cannot yield an equally
	// short solution; not proven sound in general.
	if s.cfg.PowerPrune && s.best != nil && p.hasPower &&
		st.Res.Get(p.power) <= s.bestPower {
		s.stats.Pruned++
		return nil, false
	}
	if s.capped {
		return nil, false
	}
	s.stats.Nodes++
	if s.cfg.MaxNodes > 0 && s.stats.Nodes >= s.cfg.MaxNodes {
		if s.cfg.Verbose {
			fmt.Fprintf(logw(), "[search] %s: node cap %d reached\n", p.Name, s.cfg.MaxNodes)
		}
		s.capped = true
		return nil, false
	}

	var bestSuffix []int
	complete = true
	for i := range p.Actions {
		if s.capped {
			complete = false
			break
		}
		a := &p.Actions[i]
		if !st.CanApply(a) {
			continue
		}
		child := st.Clone()
		child.ApplyAction(a)
		if p.atRoundBoundary(child.Moves) {
			p.AdvanceRound(&child.Res)
		}
		sub, subComplete := s.search(child)
		if !subComplete {
			complete = false
		}
		if sub != nil && (bestSuffix == nil || len(sub)+1 < len(bestSuffix)) {
			bestSuffix = append([]int{a.Index}, sub...)
		}
	}

	if complete {
		if bestSuffix == nil {
			s.memo[key] = memoEntry{}
		} else {
			stored := make([]int, len(bestSuffix))
			copy(stored, bestSuffix)
			s.memo[key] = memoEntry{suffix: stored, solvable: true}
		}
	}
	return bestSuffix, complete
}

// consider installs a solved state as the incumbent if strictly shorter.
// Ties keep the earlier solution, preserving determinism.
func (s *Solver) consider(st *GameState) {
	if s.best != nil && st.Moves >= len(s.best) {
		return
	}
	seq := make([]int, len(st.Sequence))
	copy(seq, st.Sequence)
	s.best = seq
	if s.puzzle.hasPower {
		s.bestPower = st.Res.Get(s.puzzle.power)
	}
	if s.cfg.Verbose {
		fmt.Fprintf(logw(), "[search] %s: new best, %d moves\n", s.puzzle.Name, len(seq))
	}
}

// considerSuffix extends st by a memoized suffix and offers the completed
// solution as an incumbent candidate.
func (s *Solver) considerSuffix(st *GameState, suffix []int) {
	if s.best != nil && st.Moves+len(suffix) >= len(s.best) {
		return
	}
	end := st.Clone()
	for _, idx := range suffix {
		if end.ApplyAction(s.puzzle.ActionAt(idx)) != nil {
			return
		}
		if s.puzzle.atRoundBoundary(end.Moves) {
			s.puzzle.AdvanceRound(&end.Res)
		}
	}
	s.consider(end)
}

// fingerprint canonicalizes (remaining moves, inventory) into a memo key.
// The pair is a sufficient statistic of future reachability: action
// effects and round resets depend only on the vector and the absolute
// move position, and the latter is fixed by the remaining budget.
func fingerprint(remaining int, v Vector) string {
	buf := make([]byte, 0, 12+len(v.q)*4)
	buf = append(buf, byte(remaining>>24), byte(remaining>>16), byte(remaining>>8), byte(remaining))
	buf = append(buf,
		byte(v.mask>>56), byte(v.mask>>48), byte(v.mask>>40), byte(v.mask>>32),
		byte(v.mask>>24), byte(v.mask>>16), byte(v.mask>>8), byte(v.mask))
	for _, q := range v.q {
		u := uint32(q)
		buf = append(buf, byte(u>>24), byte(u>>16), byte(u>>8), byte(u))
	}
	return string(buf)
}

func logw() *os.File { return os.Stderr }

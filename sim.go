package main

import "fmt"

// AdvanceRound applies the fixed round-boundary transformation to an
// inventory: astronauts are restored to the start quantity, the per-round
// kind drops to zero, and the decaying kind loses decayStep (it may go
// negative). Kinds absent from the vector are left alone, as is power,
// which is never reset. The search engine calls this exactly once each
// time the move count crosses a multiple of ActionsPerRound.
func (p *Puzzle) AdvanceRound(v *Vector) {
	if p.hasAstronaut && v.Has(p.astronaut) {
		v.Set(p.astronaut, p.Start.Get(p.astronaut))
	}
	if p.hasPerRound && v.Has(p.perRound) {
		v.Set(p.perRound, 0)
	}
	if p.hasDecay && v.Has(p.decay) {
		v.Set(p.decay, v.Get(p.decay)-decayStep)
	}
}

// atRoundBoundary reports whether a state that just made its moves-th move
// crossed a round boundary.
func (p *Puzzle) atRoundBoundary(moves int) bool {
	return moves != 0 && moves%p.ActionsPerRound == 0
}

// CanBeSolved is the feasibility bound: a necessary condition for reaching
// the target from v within remainingMoves moves. Each move contributes at
// most one action's reward, so per target kind the inventory plus
// remainingMoves times the catalogue's best single-action reward must
// cover the threshold. It can miss infeasibility that needs combined
// kinds, but never rules out a truly reachable state.
func (p *Puzzle) CanBeSolved(v Vector, remainingMoves int) bool {
	for m := p.Target.mask; m != 0; m &= m - 1 {
		k := trailingKind(m)
		if v.Get(k)+remainingMoves*p.maxReward.Get(k) < p.Target.Get(k) {
			return false
		}
	}
	return true
}

// ReplayStep records one move of a replayed solution.
type ReplayStep struct {
	Action   *Action
	After    Vector // inventory after the action and any round effect
	RoundEnd bool
}

// Replay re-executes a solution sequence from the start inventory through
// the same round-boundary rule the search uses, failing if any action is
// unaffordable at its step. It is the ground truth both for formatted
// output and for verifying search results.
func (p *Puzzle) Replay(seq []int) (*GameState, []ReplayStep, error) {
	st := NewGameState(p)
	steps := make([]ReplayStep, 0, len(seq))
	for i, idx := range seq {
		if idx < 0 || idx >= len(p.byIndex) {
			return nil, nil, fmt.Errorf("step %d: action index %d out of range", i, idx)
		}
		a := p.ActionAt(idx)
		if err := st.ApplyAction(a); err != nil {
			return nil, nil, fmt.Errorf("step %d: %w", i, err)
		}
		boundary := p.atRoundBoundary(st.Moves)
		if boundary {
			p.AdvanceRound(&st.Res)
		}
		steps = append(steps, ReplayStep{Action: a, After: st.Res.Clone(), RoundEnd: boundary})
	}
	return st, steps, nil
}

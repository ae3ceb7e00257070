package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrCannotApply reports an attempt to apply an action whose cost is not
// covered by the current inventory. It signals a caller bug, never a
// normal "unsolvable" outcome.
var ErrCannotApply = errors.New("insufficient resources for action cost")

// Kind is a dense index into a puzzle's kind table.
type Kind uint8

// Resource letters with fixed temporal semantics. Any other letter is a plain
// goal resource: produced and consumed by actions, untouched at round
// boundaries. New letters may appear per puzzle; only these four carry
// special rules.
const (
	LetterPower     byte = 'P' // only ever consumed, never produced, never reset
	LetterAstronaut byte = 'A' // consumable within a round, restored at every round boundary
	LetterPerRound  byte = 'S' // reset to zero at every round boundary
	LetterDecay     byte = 'H' // decremented by decayStep at every round boundary, may go negative
)

// decayStep is the fixed per-round decrement applied to the decaying kind.
const decayStep = 2

// maxKinds bounds the kind table so a presence bitmask fits in a uint64.
const maxKinds = 64

// KindTable maps single-letter resource kinds to dense vector indices.
// It is built once per puzzle from every letter the definition mentions,
// in sorted letter order so equal inventories canonicalize identically.
type KindTable struct {
	letters []byte
	index   [128]int8
}

func newKindTable(seen *[128]bool) (*KindTable, error) {
	t := &KindTable{}
	for i := range t.index {
		t.index[i] = -1
	}
	for b := 0; b < 128; b++ {
		if seen[b] {
			t.letters = append(t.letters, byte(b))
		}
	}
	if len(t.letters) > maxKinds {
		return nil, fmt.Errorf("%d resource kinds, max %d", len(t.letters), maxKinds)
	}
	for i, b := range t.letters {
		t.index[b] = int8(i)
	}
	return t, nil
}

// Len returns the number of kinds in the table.
func (t *KindTable) Len() int { return len(t.letters) }

// KindOf resolves a letter to its index. The second result is false for
// letters outside this puzzle's domain; callers must treat that as a
// definition error, not a zero quantity.
func (t *KindTable) KindOf(letter byte) (Kind, bool) {
	if letter >= 128 || t.index[letter] < 0 {
		return 0, false
	}
	return Kind(t.index[letter]), true
}

// Letter returns the letter for a kind index.
func (t *KindTable) Letter(k Kind) byte { return t.letters[k] }

// Format renders a vector as definition-format tokens, e.g. "3A 10P".
func (t *KindTable) Format(v Vector) string {
	var b strings.Builder
	for k := Kind(0); int(k) < t.Len(); k++ {
		if !v.Has(k) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d%c", v.Get(k), t.Letter(k))
	}
	return b.String()
}

// Vector is a resource inventory over one puzzle's kind table: a dense
// quantity slice plus a presence bitmask recording which kinds the vector
// actually mentions. Presence matters because round effects and dominance
// checks only touch kinds that are present.
type Vector struct {
	q    []int
	mask uint64
}

// NewVector returns an empty vector sized for the given table.
func NewVector(t *KindTable) Vector {
	return Vector{q: make([]int, t.Len())}
}

// Clone returns an independent copy with fresh quantity storage.
func (v Vector) Clone() Vector {
	q := make([]int, len(v.q))
	copy(q, v.q)
	return Vector{q: q, mask: v.mask}
}

// Has reports whether kind k is present in the vector.
func (v Vector) Has(k Kind) bool { return v.mask&(1<<k) != 0 }

// Get returns the quantity for kind k (zero if absent).
func (v Vector) Get(k Kind) int { return v.q[k] }

// Set assigns a quantity and marks the kind present.
func (v *Vector) Set(k Kind, n int) {
	v.q[k] = n
	v.mask |= 1 << k
}

// Add adds other pointwise over other's present kinds.
func (v *Vector) Add(other Vector) {
	for m := other.mask; m != 0; m &= m - 1 {
		k := trailingKind(m)
		v.q[k] += other.q[k]
	}
	v.mask |= other.mask
}

// Sub subtracts other pointwise over other's present kinds. Callers must
// establish Dominates(other) first; Sub itself does not re-check.
func (v *Vector) Sub(other Vector) {
	for m := other.mask; m != 0; m &= m - 1 {
		k := trailingKind(m)
		v.q[k] -= other.q[k]
	}
	v.mask |= other.mask
}

// Dominates reports whether v[k] >= other[k] for every kind present in other.
func (v Vector) Dominates(other Vector) bool {
	for m := other.mask; m != 0; m &= m - 1 {
		k := trailingKind(m)
		if v.q[k] < other.q[k] {
			return false
		}
	}
	return true
}

// Exclude returns a copy of v with kind k removed.
func (v Vector) Exclude(k Kind) Vector {
	c := v.Clone()
	c.q[k] = 0
	c.mask &^= 1 << k
	return c
}

// Total sums the quantities of all present kinds.
func (v Vector) Total() int {
	n := 0
	for m := v.mask; m != 0; m &= m - 1 {
		n += v.q[trailingKind(m)]
	}
	return n
}

func trailingKind(m uint64) Kind {
	var k Kind
	for m&1 == 0 {
		m >>= 1
		k++
	}
	return k
}

// Action is one catalogue entry: a cost consumed and a reward produced.
type Action struct {
	Cost   Vector
	Reward Vector

	// Index is the action's position in the original definition, the value
	// reported in solution sequences. The catalogue itself is re-sorted by
	// rating, so Index and slice position differ.
	Index int

	// Text is the definition line, kept verbatim for output.
	Text string

	rating int
}

// Rating is the heuristic scalar used to order branch exploration:
// total reward minus non-astronaut cost minus the power cost again.
// It never affects correctness, only which branches are tried first.
func (a *Action) Rating() int { return a.rating }

// Puzzle is an immutable problem definition: the move structure, start and
// target inventories, and the action catalogue sorted by descending rating.
type Puzzle struct {
	Name            string
	Rounds          int
	ActionsPerRound int
	Start           Vector
	Target          Vector
	Actions         []Action
	Table           *KindTable

	byIndex   []*Action
	maxReward Vector // per-kind maximum single-action reward over the catalogue

	power     Kind
	astronaut Kind
	perRound  Kind
	decay     Kind
	hasPower, hasAstronaut, hasPerRound, hasDecay bool
}

// NewPuzzle validates and assembles a puzzle definition. The action
// catalogue is stably sorted by descending rating so that ties keep
// definition order, which fixes the search's branch ordering.
func NewPuzzle(name string, rounds, actionsPerRound int, start, target Vector, actions []Action, table *KindTable) (*Puzzle, error) {
	if rounds <= 0 || actionsPerRound <= 0 {
		return nil, fmt.Errorf("puzzle %s: rounds=%d actionsPerRound=%d, both must be positive", name, rounds, actionsPerRound)
	}
	for m := start.mask; m != 0; m &= m - 1 {
		if k := trailingKind(m); start.q[k] < 0 {
			return nil, fmt.Errorf("puzzle %s: negative start quantity %d%c", name, start.q[k], table.Letter(k))
		}
	}

	p := &Puzzle{
		Name:            name,
		Rounds:          rounds,
		ActionsPerRound: actionsPerRound,
		Start:           start,
		Target:          target,
		Actions:         actions,
		Table:           table,
	}
	p.power, p.hasPower = table.KindOf(LetterPower)
	p.astronaut, p.hasAstronaut = table.KindOf(LetterAstronaut)
	p.perRound, p.hasPerRound = table.KindOf(LetterPerRound)
	p.decay, p.hasDecay = table.KindOf(LetterDecay)

	for i := range p.Actions {
		a := &p.Actions[i]
		if p.hasPower && a.Reward.Has(p.power) {
			return nil, fmt.Errorf("puzzle %s: action %d produces power, power is consume-only", name, a.Index)
		}
		a.rating = p.rateAction(a)
	}
	sort.SliceStable(p.Actions, func(i, j int) bool {
		return p.Actions[i].rating > p.Actions[j].rating
	})

	p.byIndex = make([]*Action, len(p.Actions))
	for i := range p.Actions {
		p.byIndex[p.Actions[i].Index] = &p.Actions[i]
	}

	p.maxReward = NewVector(table)
	for i := range p.Actions {
		r := p.Actions[i].Reward
		for m := r.mask; m != 0; m &= m - 1 {
			k := trailingKind(m)
			if !p.maxReward.Has(k) || r.q[k] > p.maxReward.Get(k) {
				p.maxReward.Set(k, r.q[k])
			}
		}
	}
	return p, nil
}

func (p *Puzzle) rateAction(a *Action) int {
	cost := a.Cost
	if p.hasAstronaut {
		cost = cost.Exclude(p.astronaut)
	}
	r := a.Reward.Total() - cost.Total()
	if p.hasPower {
		r -= a.Cost.Get(p.power)
	}
	return r
}

// Budget is the total number of move slots, rounds times actions per round.
func (p *Puzzle) Budget() int { return p.Rounds * p.ActionsPerRound }

// ActionAt returns the action with the given original definition index.
func (p *Puzzle) ActionAt(index int) *Action { return p.byIndex[index] }

// GameState is one search branch's owned state: an inventory, a move
// counter, and the ordered original-index history of actions taken.
type GameState struct {
	Res      Vector
	Moves    int
	Sequence []int
}

// NewGameState returns the initial state for a puzzle.
func NewGameState(p *Puzzle) *GameState {
	return &GameState{Res: p.Start.Clone()}
}

// Clone produces a fully independent copy. Branch-and-bound explores many
// siblings from one parent; no branch may observe another's mutation.
func (st *GameState) Clone() *GameState {
	seq := make([]int, len(st.Sequence), len(st.Sequence)+1)
	copy(seq, st.Sequence)
	return &GameState{Res: st.Res.Clone(), Moves: st.Moves, Sequence: seq}
}

// CanApply reports whether the state's inventory covers the action's cost.
func (st *GameState) CanApply(a *Action) bool {
	return st.Res.Dominates(a.Cost)
}

// ApplyAction subtracts the cost, adds the reward, and advances the move
// counter. Applying an unaffordable action is a caller contract violation,
// reported as ErrCannotApply and distinct from "no solution exists".
func (st *GameState) ApplyAction(a *Action) error {
	if !st.CanApply(a) {
		return fmt.Errorf("action %d (%s): %w", a.Index, a.Text, ErrCannotApply)
	}
	st.Res.Sub(a.Cost)
	st.Res.Add(a.Reward)
	st.Moves++
	st.Sequence = append(st.Sequence, a.Index)
	return nil
}

// IsSolved reports whether every kind named in the target is at or above
// its threshold. Kinds absent from the target are unconstrained.
func (st *GameState) IsSolved(target Vector) bool {
	return st.Res.Dominates(target)
}

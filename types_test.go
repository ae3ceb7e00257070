package main

import (
	"errors"
	"strings"
	"testing"
)

func mustParse(t *testing.T, name, def string) *Puzzle {
	t.Helper()
	p, err := ParsePuzzle(name, strings.NewReader(def))
	if err != nil {
		t.Fatalf("ParsePuzzle(%s): %v", name, err)
	}
	return p
}

// The concrete scenario from solver development: 3 rounds of 4 actions,
// start {P:10, A:3}, target {C:5, D:2, N:1}, five actions.
const scenarioDef = `3 4
10P 3A 0C 0D 0N
5C 2D 1N
1D 1N => 3C
1D => 3N 2C
1C => 2N
1P => 3C
1P => 2D
`

func kindOf(t *testing.T, p *Puzzle, letter byte) Kind {
	t.Helper()
	k, ok := p.Table.KindOf(letter)
	if !ok {
		t.Fatalf("kind %c not in table", letter)
	}
	return k
}

func TestVectorDominates(t *testing.T) {
	p := mustParse(t, "dom", scenarioDef)
	vec := func(s string) Vector {
		v, err := parseVector(s, p.Table)
		if err != nil {
			t.Fatalf("parseVector(%s): %v", s, err)
		}
		return v
	}

	testCases := []struct {
		name     string
		have     string
		want     string
		expected bool
	}{
		{"covers all", "5C 2D 1N", "5C 2D 1N", true},
		{"exceeds all", "9C 9D 9N", "5C 2D 1N", true},
		{"short one kind", "5C 1D 1N", "5C 2D 1N", false},
		{"extra kinds ignored", "5C 2D 1N 0P", "5C 2D 1N", true},
		{"absent kind unconstrained", "10P", "1P", true},
		{"zero threshold", "0C", "0C", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := vec(tc.have).Dominates(vec(tc.want)); got != tc.expected {
				t.Errorf("Dominates: got %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestVectorAddSub(t *testing.T) {
	p := mustParse(t, "addsub", scenarioDef)
	v, _ := parseVector("10P 3A", p.Table)
	cost, _ := parseVector("2P 1A", p.Table)
	reward, _ := parseVector("3C 1N", p.Table)

	v.Sub(cost)
	v.Add(reward)

	kP, kA := kindOf(t, p, 'P'), kindOf(t, p, 'A')
	kC, kN := kindOf(t, p, 'C'), kindOf(t, p, 'N')
	if v.Get(kP) != 8 || v.Get(kA) != 2 {
		t.Errorf("after sub: P=%d A=%d, want P=8 A=2", v.Get(kP), v.Get(kA))
	}
	if v.Get(kC) != 3 || v.Get(kN) != 1 {
		t.Errorf("after add: C=%d N=%d, want C=3 N=1", v.Get(kC), v.Get(kN))
	}
	if !v.Has(kC) || !v.Has(kN) {
		t.Error("added kinds must become present")
	}
}

func TestVectorExclude(t *testing.T) {
	p := mustParse(t, "excl", scenarioDef)
	v, _ := parseVector("10P 3A", p.Table)
	kA := kindOf(t, p, 'A')

	out := v.Exclude(kA)
	if out.Has(kA) || out.Get(kA) != 0 {
		t.Errorf("excluded kind still present: has=%v q=%d", out.Has(kA), out.Get(kA))
	}
	if !v.Has(kA) || v.Get(kA) != 3 {
		t.Error("Exclude must not mutate the receiver")
	}
	if out.Total() != 10 {
		t.Errorf("Total after exclude = %d, want 10", out.Total())
	}
}

func TestVectorCloneIndependent(t *testing.T) {
	p := mustParse(t, "clone", scenarioDef)
	v, _ := parseVector("10P", p.Table)
	kP := kindOf(t, p, 'P')

	c := v.Clone()
	c.Set(kP, 1)
	if v.Get(kP) != 10 {
		t.Errorf("clone mutation leaked: P=%d, want 10", v.Get(kP))
	}
}

func TestApplyAction(t *testing.T) {
	p := mustParse(t, "apply", scenarioDef)
	st := NewGameState(p)
	a := p.ActionAt(3) // 1P => 3C

	if !st.CanApply(a) {
		t.Fatal("CanApply = false for affordable action")
	}
	if err := st.ApplyAction(a); err != nil {
		t.Fatalf("ApplyAction: %v", err)
	}

	kP, kC := kindOf(t, p, 'P'), kindOf(t, p, 'C')
	if st.Res.Get(kP) != 9 || st.Res.Get(kC) != 3 {
		t.Errorf("after apply: P=%d C=%d, want P=9 C=3", st.Res.Get(kP), st.Res.Get(kC))
	}
	if st.Moves != 1 {
		t.Errorf("Moves = %d, want 1", st.Moves)
	}
	if len(st.Sequence) != 1 || st.Sequence[0] != 3 {
		t.Errorf("Sequence = %v, want [3]", st.Sequence)
	}
}

func TestApplyUnaffordableFails(t *testing.T) {
	p := mustParse(t, "unaffordable", scenarioDef)
	st := NewGameState(p)
	a := p.ActionAt(0) // 1D 1N => 3C, neither available at start

	err := st.ApplyAction(a)
	if !errors.Is(err, ErrCannotApply) {
		t.Fatalf("ApplyAction error = %v, want ErrCannotApply", err)
	}

	// Failed application must leave the state untouched: no clamping,
	// no negative quantities, no move consumed.
	kD, kN := kindOf(t, p, 'D'), kindOf(t, p, 'N')
	if st.Res.Get(kD) != 0 || st.Res.Get(kN) != 0 || st.Moves != 0 {
		t.Errorf("state mutated by failed apply: D=%d N=%d Moves=%d",
			st.Res.Get(kD), st.Res.Get(kN), st.Moves)
	}
}

func TestStateCloneIsolatesBranches(t *testing.T) {
	p := mustParse(t, "stclone", scenarioDef)
	parent := NewGameState(p)

	childA := parent.Clone()
	childB := parent.Clone()
	childA.ApplyAction(p.ActionAt(3))
	childB.ApplyAction(p.ActionAt(4))

	kP := kindOf(t, p, 'P')
	if parent.Res.Get(kP) != 10 || parent.Moves != 0 {
		t.Error("parent observed a child's mutation")
	}
	if len(childA.Sequence) != 1 || len(childB.Sequence) != 1 {
		t.Errorf("sibling histories entangled: %v / %v", childA.Sequence, childB.Sequence)
	}
}

func TestActionRatingOrder(t *testing.T) {
	p := mustParse(t, "rating", scenarioDef)

	// rating = sum(reward) - sum(cost without astronauts) - power cost.
	wantRatings := map[int]int{
		0: 1, // {D:1,N:1}=>{C:3}: 3-2
		1: 4, // {D:1}=>{N:3,C:2}: 5-1
		2: 1, // {C:1}=>{N:2}: 2-1
		3: 1, // {P:1}=>{C:3}: 3-1-1
		4: 0, // {P:1}=>{D:2}: 2-1-1
	}
	for idx, want := range wantRatings {
		if got := p.ActionAt(idx).Rating(); got != want {
			t.Errorf("action %d rating = %d, want %d", idx, got, want)
		}
	}

	// Descending rating, definition order on ties.
	wantOrder := []int{1, 0, 2, 3, 4}
	for i, want := range wantOrder {
		if got := p.Actions[i].Index; got != want {
			t.Errorf("catalogue position %d holds action %d, want %d", i, got, want)
		}
	}
}

func TestNewPuzzleRejectsPowerReward(t *testing.T) {
	def := `1 2
5P
1C
1C => 2P
`
	if _, err := ParsePuzzle("powergen", strings.NewReader(def)); err == nil {
		t.Fatal("expected error for action producing power")
	}
}

func TestNewPuzzleRejectsBadShape(t *testing.T) {
	for _, def := range []string{
		"0 4\n10P\n1P\n",
		"3 0\n10P\n1P\n",
	} {
		if _, err := ParsePuzzle("shape", strings.NewReader(def)); err == nil {
			t.Errorf("expected error for definition %q", def)
		}
	}
}

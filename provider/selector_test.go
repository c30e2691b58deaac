package provider

import "testing"

func TestRoundRobin_Select_Cycles(t *testing.T) {
	r := NewRoundRobin()
	candidates := []Instance{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	var seen []string
	for i := 0; i < 6; i++ {
		seen = append(seen, r.Select(candidates).ID)
	}

	want := []string{"a", "b", "c", "a", "b", "c"}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %q, want %q (full: %v)", i, seen[i], want[i], seen)
			break
		}
	}
}

func TestRoundRobin_Select_SingleCandidate(t *testing.T) {
	r := NewRoundRobin()
	candidates := []Instance{{ID: "only"}}

	for i := 0; i < 3; i++ {
		if got := r.Select(candidates).ID; got != "only" {
			t.Errorf("Select() = %q, want %q", got, "only")
		}
	}
}

func TestRandom_Select_AlwaysFromCandidates(t *testing.T) {
	r := NewRandom()
	candidates := []Instance{{ID: "a"}, {ID: "b"}}

	for i := 0; i < 20; i++ {
		got := r.Select(candidates)
		if got.ID != "a" && got.ID != "b" {
			t.Fatalf("Select() = %q, not in candidate set", got.ID)
		}
	}
}

func TestWeighted_Select_ZeroWeightAllCandidates(t *testing.T) {
	w := NewWeighted()
	candidates := []Instance{{ID: "a", Weight: 0}, {ID: "b", Weight: 0}}

	for i := 0; i < 20; i++ {
		got := w.Select(candidates)
		if got.ID != "a" && got.ID != "b" {
			t.Fatalf("Select() = %q, not in candidate set", got.ID)
		}
	}
}

func TestWeighted_Select_SkewedWeightFavorsHeavier(t *testing.T) {
	w := NewWeighted()
	candidates := []Instance{{ID: "heavy", Weight: 1000}, {ID: "light", Weight: 1}}

	counts := map[string]int{}
	for i := 0; i < 200; i++ {
		counts[w.Select(candidates).ID]++
	}
	if counts["heavy"] <= counts["light"] {
		t.Errorf("expected heavy instance to be picked far more often, got %v", counts)
	}
}

func TestNormalizedWeight(t *testing.T) {
	cases := []struct {
		weight int
		want   int
	}{
		{weight: 5, want: 5},
		{weight: 0, want: 1},
		{weight: -3, want: 1},
	}
	for _, tc := range cases {
		if got := normalizedWeight(Instance{Weight: tc.weight}); got != tc.want {
			t.Errorf("normalizedWeight(%d) = %d, want %d", tc.weight, got, tc.want)
		}
	}
}

package kasiski

import (
	"reflect"
	"testing"
)

func TestFindRepeats(t *testing.T) {
	repeats := FindRepeats("ABCXYZABCXYZABC", 3)
	if got := repeats["ABC"]; !reflect.DeepEqual(got, []int{0, 6, 12}) {
		t.Fatalf("unexpected offsets for ABC: %v", got)
	}
	if got := repeats["XYZ"]; !reflect.DeepEqual(got, []int{3, 9}) {
		t.Fatalf("unexpected offsets for XYZ: %v", got)
	}
	if len(repeats) != 6 {
		t.Fatalf("expected 6 repeated trigrams, got %d: %v", len(repeats), repeats)
	}
}

func TestFindRepeatsShortInput(t *testing.T) {
	if got := FindRepeats("AB", 3); len(got) != 0 {
		t.Fatalf("expected no repeats, got %v", got)
	}
	if got := FindRepeats("ABCDEFGHIJ", 3); len(got) != 0 {
		t.Fatalf("expected no repeats, got %v", got)
	}
}

func TestDistancesFollowFirstOccurrence(t *testing.T) {
	repeats := map[string][]int{
		"QQQ": {5, 25},
		"ABC": {0, 6, 12},
		"ONE": {7},
	}
	got := Distances(repeats)
	if !reflect.DeepEqual(got, []int{6, 6, 20}) {
		t.Fatalf("unexpected distances: %v", got)
	}
}

func TestTallyDivisors(t *testing.T) {
	got := TallyDivisors([]int{6, 4})
	want := []Candidate{
		{Length: 2, Count: 2},
		{Length: 3, Count: 1},
		{Length: 6, Count: 1},
		{Length: 4, Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected tally: %+v", got)
	}
	if len(TallyDivisors([]int{1, 0})) != 0 {
		t.Fatalf("expected no divisors for distances below 2")
	}
}

func TestRankUsesLettersOnly(t *testing.T) {
	got := DefaultOptions().Rank("abcdefgh, ABCDEFGH!")
	want := []Candidate{
		{Length: 2, Count: 6},
		{Length: 4, Count: 6},
		{Length: 8, Count: 6},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected candidates: %+v", got)
	}
}

func TestRankKeepsCandidateLimit(t *testing.T) {
	text := "abcdefgh, ABCDEFGH!"
	got := Options{Candidates: 2}.Rank(text)
	want := []Candidate{
		{Length: 2, Count: 6},
		{Length: 4, Count: 6},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected candidates: %+v", got)
	}
	if n := len(Options{Candidates: 10}.Rank(text)); n != 3 {
		t.Fatalf("expected all 3 candidates, got %d", n)
	}
	estimate, ok := Options{Candidates: 1, Prior: 8}.Estimate(text)
	if !ok || estimate != 2 {
		t.Fatalf("expected estimate 2 from the single kept candidate, got %d (ok=%v)", estimate, ok)
	}
}

func TestEstimateReturnsDivisorOfInterval(t *testing.T) {
	cases := []struct {
		text     string
		interval int
	}{
		{text: "ABCXYZABCXYZABC", interval: 6},
		{text: "QWEASDZXCRTYQWEASDZXCRTY", interval: 12},
		{text: "KLMNOPQKLMNOPQKLM", interval: 7},
	}
	for _, tc := range cases {
		got, ok := EstimateKeyLength(tc.text)
		if !ok {
			t.Fatalf("%s: expected an estimate", tc.text)
		}
		if tc.interval%got != 0 {
			t.Fatalf("%s: estimate %d does not divide %d", tc.text, got, tc.interval)
		}
	}
}

func TestEstimateNoRepeats(t *testing.T) {
	if _, ok := EstimateKeyLength("ABCDEFGHIJ"); ok {
		t.Fatalf("expected no estimate without repeats")
	}
	if _, ok := EstimateKeyLength(""); ok {
		t.Fatalf("expected no estimate for empty input")
	}
}

func TestClosestPrefersEarliestOnTie(t *testing.T) {
	candidates := []Candidate{{Length: 10}, {Length: 14}, {Length: 2}}
	got, ok := Closest(candidates, 12)
	if !ok || got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	candidates = []Candidate{{Length: 14}, {Length: 10}}
	got, _ = Closest(candidates, 12)
	if got != 14 {
		t.Fatalf("expected 14, got %d", got)
	}
}

func TestOptionsZeroValueUsesDefaults(t *testing.T) {
	got, ok := Options{}.Estimate("ABCXYZABCXYZABC")
	want, _ := EstimateKeyLength("ABCXYZABCXYZABC")
	if !ok || got != want {
		t.Fatalf("expected %d from zero options, got %d", want, got)
	}
}

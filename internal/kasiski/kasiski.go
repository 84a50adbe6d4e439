// Package kasiski estimates the key length of a Vigenère ciphertext from the
// spacing of repeated substrings.
package kasiski

import (
	"sort"

	"github.com/verte-zerg/classicrypt/internal/alphabet"
	"github.com/verte-zerg/classicrypt/internal/model"
)

const (
	// DefaultMinLength is the substring length searched for repeats.
	DefaultMinLength = 3
	// DefaultPrior is the expected average key length used to pick among candidates.
	DefaultPrior = 12
	// DefaultCandidates is how many of the most frequent divisors are considered.
	DefaultCandidates = 5
)

// Candidate is a possible key length together with how many repeat distances it divides.
type Candidate = model.KeyLengthCandidate

// Options tunes the analysis. Zero fields fall back to the defaults.
type Options struct {
	MinLength  int
	Prior      int
	Candidates int
}

// DefaultOptions returns the classical settings: trigrams, prior 12, top 5.
func DefaultOptions() Options {
	return Options{
		MinLength:  DefaultMinLength,
		Prior:      DefaultPrior,
		Candidates: DefaultCandidates,
	}
}

func (o Options) normalized() Options {
	if o.MinLength <= 0 {
		o.MinLength = DefaultMinLength
	}
	if o.Prior <= 0 {
		o.Prior = DefaultPrior
	}
	if o.Candidates <= 0 {
		o.Candidates = DefaultCandidates
	}
	return o
}

// FindRepeats maps every substring of length minLength that occurs at least
// twice in ciphertext to its ascending start offsets. Matching is exact and
// case-sensitive on the text as given.
func FindRepeats(ciphertext string, minLength int) map[string][]int {
	repeats := map[string][]int{}
	if minLength <= 0 || len(ciphertext) < minLength {
		return repeats
	}
	offsets := map[string][]int{}
	for i := 0; i+minLength <= len(ciphertext); i++ {
		seq := ciphertext[i : i+minLength]
		offsets[seq] = append(offsets[seq], i)
	}
	for seq, positions := range offsets {
		if len(positions) > 1 {
			repeats[seq] = positions
		}
	}
	return repeats
}

// Distances returns the gaps between consecutive offsets of every repeated
// substring. Substrings are visited in order of their first occurrence so the
// result is deterministic.
func Distances(repeats map[string][]int) []int {
	type group struct {
		first     int
		positions []int
	}
	groups := make([]group, 0, len(repeats))
	for _, positions := range repeats {
		if len(positions) < 2 {
			continue
		}
		groups = append(groups, group{first: positions[0], positions: positions})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].first < groups[j].first
	})
	var distances []int
	for _, g := range groups {
		for i := 1; i < len(g.positions); i++ {
			distances = append(distances, g.positions[i]-g.positions[i-1])
		}
	}
	return distances
}

// TallyDivisors counts every divisor in [2, d] of every distance d. The result
// is ordered by count, descending, with ties kept in first-seen order.
func TallyDivisors(distances []int) []Candidate {
	counts := map[int]int{}
	var order []int
	for _, d := range distances {
		for f := 2; f <= d; f++ {
			if d%f != 0 {
				continue
			}
			if _, ok := counts[f]; !ok {
				order = append(order, f)
			}
			counts[f]++
		}
	}
	out := make([]Candidate, len(order))
	for i, f := range order {
		out[i] = Candidate{Length: f, Count: counts[f]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Rank returns the most frequent divisors of the repeat distances in
// the letters of ciphertext.
func (o Options) Rank(ciphertext string) []Candidate {
	o = o.normalized()
	text := alphabet.Clean(ciphertext)
	tally := TallyDivisors(Distances(FindRepeats(text, o.MinLength)))
	if len(tally) > o.Candidates {
		tally = tally[:o.Candidates]
	}
	return tally
}

// Estimate picks the candidate closest to the prior. The second result is
// false when the ciphertext has no repeated substring to analyze.
func (o Options) Estimate(ciphertext string) (int, bool) {
	o = o.normalized()
	return Closest(o.Rank(ciphertext), o.Prior)
}

// Closest returns the candidate length nearest to prior; the earliest
// candidate wins on equal distance.
func Closest(candidates []Candidate, prior int) (int, bool) {
	if len(candidates) == 0 {
		return 0, false
	}
	best := candidates[0].Length
	for _, c := range candidates[1:] {
		if abs(c.Length-prior) < abs(best-prior) {
			best = c.Length
		}
	}
	return best, true
}

// EstimateKeyLength runs the analysis with the default options.
func EstimateKeyLength(ciphertext string) (int, bool) {
	return DefaultOptions().Estimate(ciphertext)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

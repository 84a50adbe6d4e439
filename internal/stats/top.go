package stats

import "sort"

// Repeat is a repeated substring with its start offsets.
type Repeat struct {
	Seq     string
	Offsets []int
}

// TopRepeats returns the n most frequent repeated substrings, ties broken by
// earliest first occurrence.
func TopRepeats(repeats map[string][]int, n int) []Repeat {
	if n <= 0 || len(repeats) == 0 {
		return nil
	}
	items := make([]Repeat, 0, len(repeats))
	for seq, offsets := range repeats {
		if len(offsets) == 0 {
			continue
		}
		items = append(items, Repeat{Seq: seq, Offsets: offsets})
	}
	sort.Slice(items, func(i, j int) bool {
		if len(items[i].Offsets) == len(items[j].Offsets) {
			return items[i].Offsets[0] < items[j].Offsets[0]
		}
		return len(items[i].Offsets) > len(items[j].Offsets)
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}

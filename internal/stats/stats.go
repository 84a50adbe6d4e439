package stats

import (
	"math"
	"strings"

	"github.com/verte-zerg/classicrypt/internal/alphabet"
)

const sparkChars = " .:-=+*#%@"

// EnglishIC is the index of coincidence of typical English text.
const EnglishIC = 0.065

// LetterStat is the observed and expected share of one letter.
type LetterStat struct {
	Letter   byte
	Count    int
	Observed float64
	Expected float64
}

// LetterStats counts the letters of text, case-insensitively, against the
// English reference table. Percentages are of letters only.
func LetterStats(text string) []LetterStat {
	var counts [alphabet.Size]int
	total := 0
	for i := 0; i < len(text); i++ {
		if idx := alphabet.Index(text[i]); idx >= 0 {
			counts[idx]++
			total++
		}
	}
	out := make([]LetterStat, alphabet.Size)
	for i := range out {
		out[i] = LetterStat{
			Letter:   alphabet.Letters[i],
			Count:    counts[i],
			Expected: alphabet.Frequency(alphabet.Letters[i]),
		}
		if total > 0 {
			out[i].Observed = float64(counts[i]) / float64(total) * 100
		}
	}
	return out
}

// IndexOfCoincidence is the probability that two letters drawn from text
// without replacement are equal. Texts with fewer than two letters score 0.
func IndexOfCoincidence(text string) float64 {
	var counts [alphabet.Size]int
	total := 0
	for i := 0; i < len(text); i++ {
		if idx := alphabet.Index(text[i]); idx >= 0 {
			counts[idx]++
			total++
		}
	}
	if total < 2 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		sum += float64(c * (c - 1))
	}
	return sum / (float64(total) * float64(total-1))
}

// ColumnIC is the mean index of coincidence of the keyLength interleaved
// letter columns of text. It approaches EnglishIC at the right key length.
func ColumnIC(text string, keyLength int) float64 {
	if keyLength <= 0 {
		return 0
	}
	letters := alphabet.Clean(text)
	columns := make([]strings.Builder, keyLength)
	for i := 0; i < len(letters); i++ {
		columns[i%keyLength].WriteByte(letters[i])
	}
	sum := 0.0
	for i := range columns {
		sum += IndexOfCoincidence(columns[i].String())
	}
	return sum / float64(keyLength)
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

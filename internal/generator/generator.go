// Package generator builds random keys and sample plaintext.
package generator

import (
	"math/rand"
	"time"
	"unicode"

	"github.com/verte-zerg/classicrypt/internal/alphabet"
)

// Generator produces random keys and text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Generator drawing from src, for reproducible output.
func NewWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// Key returns a random uppercase key of the given length.
func (g *Generator) Key(length int) string {
	if length <= 0 {
		return ""
	}
	key := make([]byte, length)
	for i := range key {
		key[i] = alphabet.Letter(g.rnd.Intn(alphabet.Size))
	}
	return string(key)
}

// Keys returns count random keys with lengths drawn from [minLen, maxLen].
func (g *Generator) Keys(count, minLen, maxLen int) []string {
	if maxLen < minLen {
		maxLen = minLen
	}
	keys := make([]string, 0, count)
	for i := 0; i < count; i++ {
		keys = append(keys, g.Key(minLen+g.rnd.Intn(maxLen-minLen+1)))
	}
	return keys
}

// Generate selects words uniformly and applies caps/punctuation rules.
func (g *Generator) Generate(words []string, count int, capsPct, punctPct float64, punctSet []rune) []string {
	if len(words) == 0 {
		return nil
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		word := words[g.rnd.Intn(len(words))]
		word = applyCaps(g.rnd, word, capsPct)
		word = applyPunct(g.rnd, word, punctPct, punctSet)
		result = append(result, word)
	}
	return result
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}

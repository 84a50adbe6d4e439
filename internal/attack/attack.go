// Package attack recovers Vigenère keys by per-column frequency analysis.
package attack

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/classicrypt/internal/alphabet"
	"github.com/verte-zerg/classicrypt/internal/kasiski"
	"github.com/verte-zerg/classicrypt/internal/model"
	"github.com/verte-zerg/classicrypt/internal/vigenere"
)

// Unknown is returned in place of a key when the candidate fails validation.
const Unknown = "UNKNOWN"

// DefaultThreshold is the bigram count a decryption must exceed to be accepted.
const DefaultThreshold = 5

// ErrInvalidKeyLength is returned for key lengths below one.
var ErrInvalidKeyLength = errors.New("key length must be at least 1")

// CommonBigrams are the English bigrams counted when validating a key.
var CommonBigrams = []string{"TH", "HE", "IN", "ER", "AN", "RE", "ND"}

// Options tunes the attack heuristics.
type Options struct {
	Reference [alphabet.Size]float64
	Bigrams   []string
	Threshold int
	Kasiski   kasiski.Options
}

// DefaultOptions returns the English reference table, the seven common
// bigrams, threshold 5 and the default Kasiski settings.
func DefaultOptions() Options {
	return Options{
		Reference: alphabet.EnglishTable(),
		Bigrams:   CommonBigrams,
		Threshold: DefaultThreshold,
		Kasiski:   kasiski.DefaultOptions(),
	}
}

// Attacker runs frequency attacks with fixed options. It holds no mutable
// state and is safe for concurrent use.
type Attacker struct {
	opts Options
}

// New returns an Attacker. An empty reference table, nil Bigrams list or
// negative threshold fall back to the defaults.
func New(opts Options) *Attacker {
	if opts.Reference == ([alphabet.Size]float64{}) {
		opts.Reference = alphabet.EnglishTable()
	}
	if opts.Bigrams == nil {
		opts.Bigrams = CommonBigrams
	}
	if opts.Threshold < 0 {
		opts.Threshold = DefaultThreshold
	}
	return &Attacker{opts: opts}
}

// SplitGroups distributes the letters of ciphertext, uppercased, into
// keyLength groups: letter i goes to group i mod keyLength. Non-letters are
// dropped before grouping.
func SplitGroups(ciphertext string, keyLength int) []string {
	if keyLength <= 0 {
		return nil
	}
	builders := make([]strings.Builder, keyLength)
	letters := alphabet.Clean(ciphertext)
	for i := 0; i < len(letters); i++ {
		builders[i%keyLength].WriteByte(letters[i])
	}
	groups := make([]string, keyLength)
	for i := range builders {
		groups[i] = builders[i].String()
	}
	return groups
}

// Frequencies returns the percentage of each letter within group.
func Frequencies(group string) [alphabet.Size]float64 {
	var freq [alphabet.Size]float64
	total := 0
	for i := 0; i < len(group); i++ {
		idx := alphabet.Index(group[i])
		if idx < 0 {
			continue
		}
		freq[idx]++
		total++
	}
	if total == 0 {
		return freq
	}
	for i := range freq {
		freq[i] = freq[i] / float64(total) * 100
	}
	return freq
}

// ScoreShift is the dot product of the observed frequencies, each letter
// rotated forward by shift, with the reference table.
func ScoreShift(freq, reference [alphabet.Size]float64, shift int) float64 {
	score := 0.0
	for i, f := range freq {
		if f == 0 {
			continue
		}
		score += f * reference[alphabet.Mod(i+shift)]
	}
	return score
}

// GuessShift returns the rotation in [0, 26) that best maps group onto the
// reference distribution. The lowest rotation wins ties.
func GuessShift(group string, reference [alphabet.Size]float64) int {
	freq := Frequencies(group)
	best := 0
	bestScore := -1.0
	for shift := 0; shift < alphabet.Size; shift++ {
		if score := ScoreShift(freq, reference, shift); score > bestScore {
			bestScore = score
			best = shift
		}
	}
	return best
}

// KeyChar converts a decrypting rotation into the key letter that produced it.
func KeyChar(shift int) byte {
	return alphabet.Letter(alphabet.Size - shift)
}

// BigramScore counts overlapping, case-insensitive occurrences of the common
// English bigrams in text.
func BigramScore(text string) int {
	return countBigrams(text, CommonBigrams)
}

func countBigrams(text string, bigrams []string) int {
	upper := strings.ToUpper(text)
	score := 0
	for _, bigram := range bigrams {
		if bigram == "" {
			continue
		}
		for i := 0; i+len(bigram) <= len(upper); i++ {
			if upper[i:i+len(bigram)] == bigram {
				score++
			}
		}
	}
	return score
}

// Period returns the shortest prefix of key that repeats to form all of key.
func Period(key string) string {
	n := len(key)
	for p := 1; p < n; p++ {
		if n%p != 0 {
			continue
		}
		if strings.Repeat(key[:p], n/p) == key {
			return key[:p]
		}
	}
	return key
}

// RecoverKey guesses the key of length keyLength with the default options.
// It returns Unknown when the decryption does not look like English.
func RecoverKey(ciphertext string, keyLength int) (string, error) {
	return New(DefaultOptions()).RecoverKey(ciphertext, keyLength)
}

// RecoverKey guesses the key of length keyLength and returns Unknown when the
// decryption fails bigram validation.
func (a *Attacker) RecoverKey(ciphertext string, keyLength int) (string, error) {
	attempt, err := a.Attempt(ciphertext, keyLength)
	if err != nil {
		return "", err
	}
	return attempt.Key, nil
}

// Attempt runs the frequency attack at one key length and reports the
// candidate key along with its validation score.
func (a *Attacker) Attempt(ciphertext string, keyLength int) (model.Attempt, error) {
	if keyLength < 1 {
		return model.Attempt{}, ErrInvalidKeyLength
	}
	key := make([]byte, keyLength)
	for i, group := range SplitGroups(ciphertext, keyLength) {
		key[i] = KeyChar(GuessShift(group, a.opts.Reference))
	}
	candidate := string(key)
	decoded, err := vigenere.Decode(ciphertext, candidate)
	if err != nil {
		return model.Attempt{}, err
	}
	score := countBigrams(decoded, a.opts.Bigrams)
	attempt := model.Attempt{
		KeyLength:    keyLength,
		CandidateKey: candidate,
		Key:          Unknown,
		BigramScore:  score,
	}
	if score > a.opts.Threshold {
		attempt.Key = candidate
		attempt.Accepted = true
	}
	return attempt, nil
}

// Crack estimates the key length with Kasiski examination, unless keyLength
// is positive, and recovers the key. Failing to find repeats or to validate a
// key is reported in the result, not as an error.
func (a *Attacker) Crack(ciphertext string, keyLength int) (model.CrackResult, error) {
	result := a.prepare(ciphertext, keyLength)
	if !result.HasEstimate {
		result.Key = Unknown
		return result, nil
	}
	attempt, err := a.Attempt(ciphertext, result.Estimated)
	if err != nil {
		return model.CrackResult{}, err
	}
	result.Attempts = []model.Attempt{attempt}
	return a.finish(ciphertext, result, attempt)
}

// CrackAll attacks every Kasiski candidate concurrently and keeps the accepted
// attempt with the highest bigram score; earlier candidates win ties.
func (a *Attacker) CrackAll(ctx context.Context, ciphertext string) (model.CrackResult, error) {
	result := a.prepare(ciphertext, 0)
	if !result.HasEstimate {
		result.Key = Unknown
		return result, nil
	}
	attempts := make([]model.Attempt, len(result.Candidates))
	g, ctx := errgroup.WithContext(ctx)
	for i, c := range result.Candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			attempt, err := a.Attempt(ciphertext, c.Length)
			if err != nil {
				return err
			}
			attempts[i] = attempt
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.CrackResult{}, err
	}
	result.Attempts = attempts

	best := attempts[0]
	for _, attempt := range attempts[1:] {
		if !attempt.Accepted {
			continue
		}
		if !best.Accepted || attempt.BigramScore > best.BigramScore {
			best = attempt
		}
	}
	return a.finish(ciphertext, result, best)
}

func (a *Attacker) prepare(ciphertext string, keyLength int) model.CrackResult {
	result := model.CrackResult{
		Letters:    alphabet.CountLetters(ciphertext),
		Candidates: a.opts.Kasiski.Rank(ciphertext),
	}
	if keyLength > 0 {
		result.Estimated = keyLength
		result.HasEstimate = true
		result.Manual = true
		return result
	}
	prior := a.opts.Kasiski.Prior
	if prior <= 0 {
		prior = kasiski.DefaultPrior
	}
	result.Estimated, result.HasEstimate = kasiski.Closest(result.Candidates, prior)
	return result
}

func (a *Attacker) finish(ciphertext string, result model.CrackResult, best model.Attempt) (model.CrackResult, error) {
	result.Best = best
	if !best.Accepted {
		result.Key = Unknown
		return result, nil
	}
	result.Key = Period(best.CandidateKey)
	plaintext, err := vigenere.Decode(ciphertext, result.Key)
	if err != nil {
		return model.CrackResult{}, err
	}
	result.Plaintext = plaintext
	result.Success = true
	return result, nil
}

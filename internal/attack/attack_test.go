package attack

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/verte-zerg/classicrypt/internal/alphabet"
	"github.com/verte-zerg/classicrypt/internal/kasiski"
	"github.com/verte-zerg/classicrypt/internal/vigenere"
)

func loadSample(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "wilde.txt"))
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	return string(data)
}

func encode(t *testing.T, text, key string) string {
	t.Helper()
	out, err := vigenere.Encode(text, key)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return out
}

func TestSplitGroupsUsesLettersOnly(t *testing.T) {
	got := SplitGroups("ab, cd-ef g", 3)
	want := []string{"ADG", "BE", "CF"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected groups: %q", got)
	}
	if SplitGroups("abc", 0) != nil {
		t.Fatalf("expected nil groups for zero key length")
	}
}

func TestFrequencies(t *testing.T) {
	freq := Frequencies("AAB")
	if freq[0] < 66.6 || freq[0] > 66.7 {
		t.Fatalf("unexpected frequency for A: %f", freq[0])
	}
	if freq[1] < 33.3 || freq[1] > 33.4 {
		t.Fatalf("unexpected frequency for B: %f", freq[1])
	}
	if Frequencies("") != ([alphabet.Size]float64{}) {
		t.Fatalf("expected zero frequencies for empty group")
	}
}

func TestGuessShiftOnCaesarColumn(t *testing.T) {
	sample := alphabet.Clean(loadSample(t))
	shifted := encode(t, sample, "H")
	shift := GuessShift(shifted, alphabet.EnglishTable())
	if KeyChar(shift) != 'H' {
		t.Fatalf("expected key letter H, got %c (shift %d)", KeyChar(shift), shift)
	}
	if GuessShift(sample, alphabet.EnglishTable()) != 0 {
		t.Fatalf("expected zero rotation for plain English")
	}
}

func TestGuessShiftTieBreaksToLowestRotation(t *testing.T) {
	var flat [alphabet.Size]float64
	for i := range flat {
		flat[i] = 1
	}
	if got := GuessShift("XYZ", flat); got != 0 {
		t.Fatalf("expected rotation 0 on a flat reference, got %d", got)
	}
}

func TestKeyChar(t *testing.T) {
	if KeyChar(0) != 'A' || KeyChar(1) != 'Z' || KeyChar(24) != 'C' {
		t.Fatalf("unexpected key letters")
	}
}

func TestBigramScore(t *testing.T) {
	if got := BigramScore("then and there"); got != 8 {
		t.Fatalf("expected 8 bigrams, got %d", got)
	}
	if got := BigramScore("THe"); got != 2 {
		t.Fatalf("expected 2 bigrams, got %d", got)
	}
	if got := BigramScore("xyz"); got != 0 {
		t.Fatalf("expected no bigrams, got %d", got)
	}
}

func TestPeriod(t *testing.T) {
	cases := map[string]string{
		"LEMONLEMON":   "LEMON",
		"KEYKEYKEY":    "KEY",
		"AAAA":         "A",
		"CRYPTOGRAPHY": "CRYPTOGRAPHY",
		"ABAB A":       "ABAB A",
		"":             "",
	}
	for in, want := range cases {
		if got := Period(in); got != want {
			t.Fatalf("Period(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEndToEndRecoversKey(t *testing.T) {
	sample := loadSample(t)
	for _, text := range []string{alphabet.Clean(sample), sample} {
		ciphertext := encode(t, text, "CRYPTOGRAPHY")
		length, ok := kasiski.EstimateKeyLength(ciphertext)
		if !ok {
			t.Fatalf("expected a key length estimate")
		}
		if length != 12 {
			t.Fatalf("expected key length 12, got %d", length)
		}
		key, err := RecoverKey(ciphertext, length)
		if err != nil {
			t.Fatalf("recover key: %v", err)
		}
		if key != "CRYPTOGRAPHY" {
			t.Fatalf("expected CRYPTOGRAPHY, got %q", key)
		}
		plain, err := vigenere.Decode(ciphertext, key)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if plain != text {
			t.Fatalf("decoded text differs from the original")
		}
	}
}

func TestRecoverKeyAtKnownLength(t *testing.T) {
	ciphertext := encode(t, alphabet.Clean(loadSample(t)), "LEMON")
	key, err := RecoverKey(ciphertext, 5)
	if err != nil {
		t.Fatalf("recover key: %v", err)
	}
	if key != "LEMON" {
		t.Fatalf("expected LEMON, got %q", key)
	}
}

func TestRecoverKeyUnknownOnShortOrUniformText(t *testing.T) {
	short := encode(t, "HELLOWORLD", "KEY")
	if key, err := RecoverKey(short, 3); err != nil || key != Unknown {
		t.Fatalf("expected UNKNOWN for short text, got %q (%v)", key, err)
	}
	if key, err := RecoverKey("ZZZZZZZZZZZZZZZZZZZZ", 4); err != nil || key != Unknown {
		t.Fatalf("expected UNKNOWN for uniform text, got %q (%v)", key, err)
	}
	sample := loadSample(t)
	if key, err := RecoverKey(encode(t, sample[:60], "CRYPTOGRAPHY"), 12); err != nil || key != Unknown {
		t.Fatalf("expected UNKNOWN for a 60-character sample, got %q (%v)", key, err)
	}
	if key, err := RecoverKey("", 3); err != nil || key != Unknown {
		t.Fatalf("expected UNKNOWN for empty text, got %q (%v)", key, err)
	}
}

func TestRecoverKeyInvalidLength(t *testing.T) {
	if _, err := RecoverKey("ABC", 0); !errors.Is(err, ErrInvalidKeyLength) {
		t.Fatalf("expected ErrInvalidKeyLength, got %v", err)
	}
}

func TestCrackReducesRepeatedKey(t *testing.T) {
	ciphertext := encode(t, alphabet.Clean(loadSample(t)), "LEMON")
	result, err := New(DefaultOptions()).Crack(ciphertext, 0)
	if err != nil {
		t.Fatalf("crack: %v", err)
	}
	if result.Estimated != 10 {
		t.Fatalf("expected estimate 10, got %d", result.Estimated)
	}
	if result.Best.CandidateKey != "LEMONLEMON" {
		t.Fatalf("expected candidate LEMONLEMON, got %q", result.Best.CandidateKey)
	}
	if !result.Success || result.Key != "LEMON" {
		t.Fatalf("expected LEMON, got %q (success %v)", result.Key, result.Success)
	}
	if result.Plaintext != alphabet.Clean(loadSample(t)) {
		t.Fatalf("unexpected plaintext")
	}
}

func TestCrackManualLength(t *testing.T) {
	ciphertext := encode(t, loadSample(t), "KEY")
	result, err := New(DefaultOptions()).Crack(ciphertext, 3)
	if err != nil {
		t.Fatalf("crack: %v", err)
	}
	if !result.Manual || result.Estimated != 3 {
		t.Fatalf("expected manual length 3, got %d (manual %v)", result.Estimated, result.Manual)
	}
	if result.Key != "KEY" {
		t.Fatalf("expected KEY, got %q", result.Key)
	}
}

func TestCrackWithoutRepeats(t *testing.T) {
	result, err := New(DefaultOptions()).Crack("ABCDEFGHIJ", 0)
	if err != nil {
		t.Fatalf("crack: %v", err)
	}
	if result.HasEstimate || result.Success || result.Key != Unknown {
		t.Fatalf("expected no estimate and UNKNOWN key, got %+v", result)
	}
	if len(result.Attempts) != 0 {
		t.Fatalf("expected no attempts, got %d", len(result.Attempts))
	}
}

func TestCrackAllPicksBestCandidate(t *testing.T) {
	ciphertext := encode(t, alphabet.Clean(loadSample(t)), "LEMON")
	result, err := New(DefaultOptions()).CrackAll(context.Background(), ciphertext)
	if err != nil {
		t.Fatalf("crack all: %v", err)
	}
	if len(result.Attempts) != len(result.Candidates) {
		t.Fatalf("expected one attempt per candidate, got %d/%d", len(result.Attempts), len(result.Candidates))
	}
	for i, attempt := range result.Attempts {
		if attempt.KeyLength != result.Candidates[i].Length {
			t.Fatalf("attempt %d out of candidate order", i)
		}
	}
	if result.Best.KeyLength != 5 || result.Key != "LEMON" {
		t.Fatalf("expected LEMON at length 5, got %q at %d", result.Key, result.Best.KeyLength)
	}
}

func TestCrackAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ciphertext := encode(t, alphabet.Clean(loadSample(t)), "LEMON")
	if _, err := New(DefaultOptions()).CrackAll(ctx, ciphertext); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestThresholdOption(t *testing.T) {
	opts := DefaultOptions()
	opts.Threshold = 1000
	ciphertext := encode(t, alphabet.Clean(loadSample(t)), "LEMON")
	key, err := New(opts).RecoverKey(ciphertext, 5)
	if err != nil {
		t.Fatalf("recover key: %v", err)
	}
	if key != Unknown {
		t.Fatalf("expected UNKNOWN above the threshold, got %q", key)
	}
}
